package controllers

import (
	"errors"
	"net/http"

	"github.com/RushabhMehta2005/recipe-api/middleware"
	"github.com/RushabhMehta2005/recipe-api/models"
	"github.com/RushabhMehta2005/recipe-api/services"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ## User Handlers

func (h *Handler) Register(c *gin.Context) {
	var body struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required,min=5"`
		Name     string `json:"name"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		h.jsonError(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	user, err := h.Users.CreateUser(c.Request.Context(), body.Email, body.Password, services.UserFields{Name: body.Name})
	switch {
	case errors.Is(err, models.ErrEmailRequired), errors.Is(err, models.ErrEmailTaken):
		h.jsonError(c, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		h.serverError(c, "Failed to create user", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"user": serializeUser(*user)})
}

// CreateToken exchanges credentials for an access token.
func (h *Handler) CreateToken(c *gin.Context) {
	var body struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		h.jsonError(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	user, err := h.Users.Authenticate(c.Request.Context(), body.Email, body.Password)
	switch {
	case errors.Is(err, models.ErrInvalidCredentials), errors.Is(err, models.ErrInactiveUser):
		h.jsonError(c, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		h.serverError(c, "Failed to authenticate", err)
		return
	}

	tokenString, err := h.Tokens.Issue(user.ID)
	if err != nil {
		h.serverError(c, "Could not generate token", err)
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.AuthCookieName, tokenString, int(h.Tokens.Expiration().Seconds()), "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"token": tokenString})
}

func (h *Handler) Logout(c *gin.Context) {
	// Expire the cookie immediately.
	c.SetCookie(middleware.AuthCookieName, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

func (h *Handler) GetProfile(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": serializeUser(user)})
}

// UpdateProfile applies a partial update to the authenticated user.
func (h *Handler) UpdateProfile(c *gin.Context) {
	var body struct {
		Email    *string `json:"email" binding:"omitempty,email"`
		Name     *string `json:"name"`
		Password *string `json:"password" binding:"omitempty,min=5"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		h.jsonError(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	err := h.Users.Update(c.Request.Context(), &user, services.UserUpdate{
		Email:    body.Email,
		Name:     body.Name,
		Password: body.Password,
	})
	switch {
	case errors.Is(err, models.ErrEmailRequired), errors.Is(err, models.ErrEmailTaken):
		h.jsonError(c, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		h.serverError(c, "Failed to update user", err)
		return
	}

	h.Auth.Forget(user.ID)
	c.JSON(http.StatusOK, gin.H{"user": serializeUser(user)})
}

// ChangePassword verifies the current password before storing the new one.
func (h *Handler) ChangePassword(c *gin.Context) {
	var body struct {
		CurrentPassword string `json:"current_password" binding:"required"`
		NewPassword     string `json:"new_password" binding:"required,min=5"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		h.jsonError(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	if !h.Users.CheckPassword(user, body.CurrentPassword) {
		h.jsonError(c, http.StatusUnauthorized, "Current password is incorrect")
		return
	}

	if err := h.Users.Update(c.Request.Context(), &user, services.UserUpdate{Password: &body.NewPassword}); err != nil {
		h.serverError(c, "Failed to update password", err)
		return
	}

	// Invalidate the cached copy holding the old hash.
	h.Auth.Forget(user.ID)

	h.Logger.Info("Password changed", zap.Uint("user_id", user.ID))
	c.JSON(http.StatusOK, gin.H{"message": "Password changed successfully"})
}

// ListUsers is the staff-only user directory.
func (h *Handler) ListUsers(c *gin.Context) {
	var users []models.User
	if err := h.DB.WithContext(c.Request.Context()).Order("email").Find(&users).Error; err != nil {
		h.serverError(c, "Failed to fetch users", err)
		return
	}

	resp := make([]staffUserResponse, 0, len(users))
	for _, u := range users {
		resp = append(resp, staffUserResponse{
			userResponse: serializeUser(u),
			IsActive:     u.IsActive,
			IsStaff:      u.IsStaff,
			IsSuperuser:  u.IsSuperuser,
		})
	}
	c.JSON(http.StatusOK, gin.H{"users": resp})
}
