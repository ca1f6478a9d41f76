package controllers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/RushabhMehta2005/recipe-api/middleware"
	"github.com/RushabhMehta2005/recipe-api/models"
	"github.com/RushabhMehta2005/recipe-api/services"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Handler holds the application's dependencies, making them explicit.
type Handler struct {
	DB     *gorm.DB
	Users  *services.UserService
	Tokens *services.TokenService
	Auth   *middleware.Authenticator
	Logger *zap.Logger
}

// NewHandler creates a new handler with its dependencies.
func NewHandler(db *gorm.DB, users *services.UserService, tokens *services.TokenService, auth *middleware.Authenticator, logger *zap.Logger) *Handler {
	registerValidators()
	return &Handler{
		DB:     db,
		Users:  users,
		Tokens: tokens,
		Auth:   auth,
		Logger: logger,
	}
}

var validatorsOnce sync.Once

func registerValidators() {
	// Runs once at wiring time; a failure here would break every notblank binding.
	validatorsOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			panic(fmt.Sprintf("unexpected binding validator engine %T", binding.Validator.Engine()))
		}
		if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
			panic(fmt.Sprintf("failed to register notblank validator: %v", err))
		}
	})
}

func (h *Handler) Check(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// ## Helper Methods

func (h *Handler) jsonError(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, gin.H{"error": message})
}

// serverError logs err and answers 500 without leaking details.
func (h *Handler) serverError(c *gin.Context, message string, err error) {
	h.Logger.Error(message, zap.Error(err), zap.String("path", c.FullPath()))
	h.jsonError(c, http.StatusInternalServerError, message)
}

func (h *Handler) currentUser(c *gin.Context) (models.User, bool) {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		h.jsonError(c, http.StatusUnauthorized, err.Error())
		return models.User{}, false
	}
	return user, true
}

func (h *Handler) parseID(idStr string) (uint, error) {
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}

// parseIDList parses a comma separated list of ids such as "1,2,3".
func (h *Handler) parseIDList(raw string) ([]uint, error) {
	var ids []uint
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := h.parseID(part)
		if err != nil {
			return nil, fmt.Errorf("invalid id %q", part)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
