package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sanyam2511/ShareMyThali/internal/auth"
	"github.com/Sanyam2511/ShareMyThali/internal/models"
)

func newProtectedRouter(jwtService *auth.JWTService, extra ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handlers := append([]gin.HandlerFunc{JWT(jwtService)}, extra...)
	handlers = append(handlers, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"id":        CallerID(c).String(),
			"user_type": CallerType(c),
		})
	})
	r.GET("/protected", handlers...)
	return r
}

func get(r *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestJWTMiddleware(t *testing.T) {
	jwtService := auth.NewJWTService("test-secret", 24)
	r := newProtectedRouter(jwtService)

	t.Run("MissingHeader", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, get(r, "").Code)
	})

	t.Run("NotBearer", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, get(r, "Basic abc123").Code)
	})

	t.Run("GarbageToken", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, get(r, "Bearer not-a-token").Code)
	})

	t.Run("ExpiredToken", func(t *testing.T) {
		expired := auth.NewJWTService("test-secret", -1)
		token, err := expired.Generate(uuid.New(), models.UserTypeDonor)
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, get(r, "Bearer "+token).Code)
	})

	t.Run("ValidTokenSetsIdentity", func(t *testing.T) {
		userID := uuid.New()
		token, err := jwtService.Generate(userID, models.UserTypeOrganization)
		require.NoError(t, err)

		w := get(r, "Bearer "+token)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), userID.String())
		assert.Contains(t, w.Body.String(), "organization")
	})
}

func TestRequireUserType(t *testing.T) {
	jwtService := auth.NewJWTService("test-secret", 24)
	r := newProtectedRouter(jwtService, RequireUserType(models.UserTypeDonor))

	t.Run("AllowedType", func(t *testing.T) {
		token, err := jwtService.Generate(uuid.New(), models.UserTypeDonor)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, get(r, "Bearer "+token).Code)
	})

	t.Run("ForbiddenType", func(t *testing.T) {
		token, err := jwtService.Generate(uuid.New(), models.UserTypeOrganization)
		require.NoError(t, err)
		assert.Equal(t, http.StatusForbidden, get(r, "Bearer "+token).Code)
	})
}
