package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"bookcatalog-backend/internal/domains/user"
	"bookcatalog-backend/internal/shared/response"
	"bookcatalog-backend/pkg/logger"
)

const currentUserKey = "currentUser"

// AuthRequired guards mutating routes. It extracts the bearer token,
// validates it and re-checks that the subject still exists and is
// active; the token payload alone is never trusted.
func AuthRequired(authService user.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, "Missing authorization header")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			response.Unauthorized(c, "Invalid authorization header format")
			c.Abort()
			return
		}

		u, err := authService.CurrentUser(c.Request.Context(), parts[1])
		if err != nil {
			// A store failure is not a credential problem.
			if !errors.Is(err, user.ErrUnauthenticated) {
				logger.Error("auth middleware user lookup failed", err)
				response.InternalServerError(c)
				c.Abort()
				return
			}
			response.Unauthorized(c, "Could not validate credentials")
			c.Abort()
			return
		}

		c.Set(currentUserKey, u)
		c.Next()
	}
}

// CurrentUser returns the authenticated user placed in the context by
// AuthRequired.
func CurrentUser(c *gin.Context) (*user.User, bool) {
	v, ok := c.Get(currentUserKey)
	if !ok {
		return nil, false
	}
	u, ok := v.(*user.User)
	return u, ok
}
