package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/RushabhMehta2005/recipe-api/models"
	"github.com/RushabhMehta2005/recipe-api/services"
	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

const (
	// AuthCookieName is the cookie the token endpoint sets and RequireAuth reads.
	AuthCookieName = "Authorization"

	userContextKey  = "user"
	cacheDefaultExp = 5 * time.Minute
	cacheCleanupInt = 10 * time.Minute
)

// Authenticator resolves the requesting user from an access token, caching
// user rows between requests.
type Authenticator struct {
	tokens    *services.TokenService
	users     *services.UserService
	userCache *cache.Cache
	logger    *zap.Logger
}

func NewAuthenticator(tokens *services.TokenService, users *services.UserService, logger *zap.Logger) *Authenticator {
	return &Authenticator{
		tokens:    tokens,
		users:     users,
		userCache: cache.New(cacheDefaultExp, cacheCleanupInt),
		logger:    logger,
	}
}

// RequireAuth is a middleware to protect routes that require authentication.
// The token is read from "Authorization: Token <t>", "Authorization: Bearer <t>"
// or the Authorization cookie, in that order.
func (a *Authenticator) RequireAuth(c *gin.Context) {
	tokenString, ok := tokenFromRequest(c)
	if !ok {
		authAttempts.WithLabelValues("missing").Inc()
		abortJSON(c, http.StatusUnauthorized, "Authentication credentials were not provided")
		return
	}

	userID, err := a.tokens.Parse(tokenString)
	if err != nil {
		authAttempts.WithLabelValues("invalid").Inc()
		a.logger.Debug("Rejected token", zap.Error(err))
		abortJSON(c, http.StatusUnauthorized, "Invalid or expired token")
		return
	}

	user, err := a.lookup(c, userID)
	if err != nil {
		authAttempts.WithLabelValues("unknown_user").Inc()
		abortJSON(c, http.StatusUnauthorized, "User not found")
		return
	}
	if !user.IsActive {
		authAttempts.WithLabelValues("inactive").Inc()
		abortJSON(c, http.StatusUnauthorized, "User inactive or deleted")
		return
	}

	authAttempts.WithLabelValues("ok").Inc()
	c.Set(userContextKey, user)
	c.Next()
}

// RequireStaff must run after RequireAuth.
func (a *Authenticator) RequireStaff(c *gin.Context) {
	user, err := CurrentUser(c)
	if err != nil || !user.IsStaff {
		abortJSON(c, http.StatusForbidden, "You do not have permission to perform this action")
		return
	}
	c.Next()
}

// Forget drops the cached copy of a user, e.g. after a profile change.
func (a *Authenticator) Forget(userID uint) {
	a.userCache.Delete(cacheKey(userID))
}

func (a *Authenticator) lookup(c *gin.Context, userID uint) (models.User, error) {
	key := cacheKey(userID)
	if cached, found := a.userCache.Get(key); found {
		if user, ok := cached.(models.User); ok {
			return user, nil
		}
	}

	user, err := a.users.Get(c.Request.Context(), userID)
	if err != nil {
		return models.User{}, err
	}
	a.userCache.Set(key, *user, cache.DefaultExpiration)
	return *user, nil
}

// CurrentUser returns the user RequireAuth stored on the context.
func CurrentUser(c *gin.Context) (models.User, error) {
	u, exists := c.Get(userContextKey)
	if !exists {
		return models.User{}, errors.New("user not found in context")
	}
	user, ok := u.(models.User)
	if !ok {
		return models.User{}, errors.New("invalid user type in context")
	}
	return user, nil
}

func tokenFromRequest(c *gin.Context) (string, bool) {
	if header := c.GetHeader("Authorization"); header != "" {
		scheme, token, found := strings.Cut(header, " ")
		token = strings.TrimSpace(token)
		if !found || token == "" {
			return "", false
		}
		switch strings.ToLower(scheme) {
		case "token", "bearer":
			return token, true
		default:
			return "", false
		}
	}

	if cookie, err := c.Cookie(AuthCookieName); err == nil && cookie != "" {
		return cookie, true
	}
	return "", false
}

func cacheKey(userID uint) string {
	return fmt.Sprintf("user:%d", userID)
}

func abortJSON(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, gin.H{"error": message})
}
