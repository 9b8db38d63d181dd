package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/harube/kanban-board-api/internal/constants"
	"github.com/harube/kanban-board-api/internal/dto"
	apierrors "github.com/harube/kanban-board-api/internal/errors"
	"github.com/harube/kanban-board-api/internal/logging"
	"github.com/harube/kanban-board-api/internal/middleware"
	"github.com/harube/kanban-board-api/internal/services"
)

// AuthHandler coordinates magic-link sign-in HTTP handlers.
type AuthHandler struct {
	authService *services.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// RequestMagicLink emails a single-use sign-in link. The response is the
// same whether or not the address belongs to a known user.
func (h *AuthHandler) RequestMagicLink(c *gin.Context) {
	type MagicLinkRequest struct {
		Email string `json:"email" binding:"required"`
	}

	var req MagicLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	if err := h.authService.RequestMagicLink(c.Request.Context(), req.Email); err != nil {
		switch {
		case errors.Is(err, services.ErrEmailRequired), errors.Is(err, services.ErrEmailInvalid):
			apierrors.BadRequest(c, err.Error())
		case errors.Is(err, services.ErrMailDeliveryFailed):
			logging.Logger.Errorf("Magic link delivery failed: %v", err)
			apierrors.ServiceUnavailable(c, "Could not send sign-in email")
		default:
			apierrors.InternalError(c, "")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "If the address is valid, a sign-in link has been sent",
	})
}

// VerifyMagicLink consumes the emailed token and establishes the session.
func (h *AuthHandler) VerifyMagicLink(c *gin.Context) {
	email := c.Query("email")
	token := c.Query("token")
	if email == "" || token == "" {
		apierrors.BadRequest(c, "email and token are required")
		return
	}

	user, err := h.authService.VerifyMagicLink(c.Request.Context(), email, token)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEmailRequired), errors.Is(err, services.ErrEmailInvalid):
			apierrors.BadRequest(c, err.Error())
		case errors.Is(err, services.ErrSignInTokenInvalid):
			apierrors.Unauthorized(c, err.Error())
		default:
			apierrors.InternalError(c, "")
		}
		return
	}

	session := sessions.Default(c)
	session.Set(constants.ContextKeyUserID, user.ID)
	if err := session.Save(); err != nil {
		apierrors.InternalError(c, "Failed to save session")
		return
	}

	c.JSON(http.StatusOK, dto.ToProfileDTO(*user))
}

// Logout removes the authentication session.
func (h *AuthHandler) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	if err := session.Save(); err != nil {
		apierrors.InternalError(c, "Failed to logout")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Logged out successfully",
	})
}

// GetCurrentUser returns the authenticated user.
func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	user, err := h.authService.GetUser(userID)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			apierrors.NotFound(c, err.Error())
			return
		}
		apierrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, dto.ToProfileDTO(*user))
}
