package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/chativo/backend/internal/dto"
	"github.com/chativo/backend/internal/service"
)

// Context keys set by AuthMiddleware.
const (
	ContextUserKey   = "user"
	ContextUserIDKey = "user_id"
)

// AuthMiddleware validates the bearer token and adds the caller's identity
// to the request context.
func AuthMiddleware(authService service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := BearerToken(c)
		if token == "" {
			c.JSON(http.StatusUnauthorized, dto.ErrorResponse{
				Error:   "Unauthorized",
				Message: "authorization header is required",
			})
			c.Abort()
			return
		}

		claims, err := authService.VerifyToken(c.Request.Context(), token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, dto.ErrorResponse{
				Error:   "Unauthorized",
				Message: "invalid or expired token",
			})
			c.Abort()
			return
		}

		c.Set(ContextUserKey, claims.User)
		c.Set(ContextUserIDKey, claims.User.ID)

		c.Next()
	}
}

// BearerToken extracts the token from the Authorization header, or returns
// an empty string when the header is absent or malformed.
func BearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return parts[1]
}
