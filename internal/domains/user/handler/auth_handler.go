package handler

import (
	"errors"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/gin-gonic/gin"

	"bookcatalog-backend/internal/domains/user"
	"bookcatalog-backend/internal/shared/middleware"
	"bookcatalog-backend/internal/shared/response"
	"bookcatalog-backend/pkg/logger"
)

// AuthHandler handles the authentication endpoints. Stateless, only
// holds dependencies.
type AuthHandler struct {
	service user.Service
}

func NewAuthHandler(service user.Service) *AuthHandler {
	return &AuthHandler{service: service}
}

// Register handles POST /auth/register.
func (h *AuthHandler) Register(c *gin.Context) {
	var req user.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		h.handleError(c, err)
		return
	}

	token, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, token)
}

// Token handles POST /auth/token. Credentials arrive as form fields
// (OAuth2 password flow shape).
func (h *AuthHandler) Token(c *gin.Context) {
	var req user.LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		response.BadRequest(c, "username and password form fields are required")
		return
	}

	token, err := h.service.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, token)
}

// Me handles GET /users/me for the authenticated user.
func (h *AuthHandler) Me(c *gin.Context) {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		response.Unauthorized(c, "Could not validate credentials")
		return
	}

	c.JSON(http.StatusOK, u.ToDTO())
}

// handleError maps domain errors to HTTP status codes.
func (h *AuthHandler) handleError(c *gin.Context, err error) {
	var verrs validation.Errors
	switch {
	case errors.As(err, &verrs):
		response.ValidationFailed(c, verrs)
	case errors.Is(err, user.ErrUsernameTaken):
		response.BadRequest(c, "Username already registered")
	case errors.Is(err, user.ErrInvalidCredentials):
		response.Unauthorized(c, "Incorrect username or password")
	case errors.Is(err, user.ErrUnauthenticated):
		response.Unauthorized(c, "Could not validate credentials")
	default:
		logger.Error("auth handler error", err)
		response.InternalServerError(c)
	}
}
