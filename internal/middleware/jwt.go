package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Sanyam2511/ShareMyThali/internal/auth"
	"github.com/Sanyam2511/ShareMyThali/internal/models"
	"github.com/Sanyam2511/ShareMyThali/pkg/response"
)

const (
	// ContextUserID is the key for the caller's user ID in gin context.
	ContextUserID = "user_id"
	// ContextUserType is the key for the caller's role in gin context.
	ContextUserType = "user_type"
)

// JWT returns a middleware that validates the bearer token and sets the
// caller's identity in context.
func JWT(jwtService *auth.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.Unauthorized(c, "missing authorization header")
			c.Abort()
			return
		}
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Unauthorized(c, "invalid authorization header")
			c.Abort()
			return
		}
		claims, err := jwtService.Validate(parts[1])
		if err != nil {
			response.Unauthorized(c, "invalid or expired token")
			c.Abort()
			return
		}
		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextUserType, claims.UserType)
		c.Next()
	}
}

// CallerID returns the authenticated user's ID from gin context.
func CallerID(c *gin.Context) uuid.UUID {
	return c.MustGet(ContextUserID).(uuid.UUID)
}

// CallerType returns the authenticated user's role from gin context.
func CallerType(c *gin.Context) models.UserType {
	return c.MustGet(ContextUserType).(models.UserType)
}
