package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/Sanyam2511/ShareMyThali/internal/models"
	"github.com/Sanyam2511/ShareMyThali/pkg/response"
)

// RequireUserType returns a middleware that allows only the given user types.
func RequireUserType(types ...models.UserType) gin.HandlerFunc {
	allowed := make(map[models.UserType]struct{})
	for _, t := range types {
		allowed[t] = struct{}{}
	}
	return func(c *gin.Context) {
		typeVal, ok := c.Get(ContextUserType)
		if !ok {
			response.Unauthorized(c, "missing user context")
			c.Abort()
			return
		}
		userType, _ := typeVal.(models.UserType)
		if _, ok := allowed[userType]; !ok {
			response.Forbidden(c, "access denied for user type "+string(userType))
			c.Abort()
			return
		}
		c.Next()
	}
}
