package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Sanyam2511/ShareMyThali/internal/models"
	"github.com/Sanyam2511/ShareMyThali/pkg/utils"
)

type fakeUserStore struct {
	byEmail map[string]*models.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{byEmail: make(map[string]*models.User)}
}

func (s *fakeUserStore) GetByEmail(_ context.Context, email string) (*models.User, error) {
	if u, ok := s.byEmail[email]; ok {
		return u, nil
	}
	return nil, ErrNotFound
}

func (s *fakeUserStore) Create(_ context.Context, email, passwordHash, name string, userType models.UserType) (*models.User, error) {
	u := &models.User{
		ID:       uuid.New(),
		Email:    email,
		Password: passwordHash,
		Name:     name,
		UserType: userType,
	}
	s.byEmail[email] = u
	return u, nil
}

func newAuthRouter(store UserStore, jwt *JWTService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(store, jwt, zap.NewNop())
	r := gin.New()
	r.POST("/api/auth/register", h.Register)
	r.POST("/api/auth/login", h.Login)
	return r
}

func postJSON(t *testing.T, r *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRegister(t *testing.T) {
	store := newFakeUserStore()
	r := newAuthRouter(store, NewJWTService("secret", 24))

	t.Run("Success", func(t *testing.T) {
		w := postJSON(t, r, "/api/auth/register", gin.H{
			"email": "donor@example.com", "password": "secret1", "name": "Donor", "user_type": "donor",
		})
		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), `"user"`)
		assert.NotContains(t, w.Body.String(), "password")
	})

	t.Run("DuplicateEmail", func(t *testing.T) {
		w := postJSON(t, r, "/api/auth/register", gin.H{
			"email": "donor@example.com", "password": "secret1", "name": "Other", "user_type": "donor",
		})
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("InvalidUserType", func(t *testing.T) {
		w := postJSON(t, r, "/api/auth/register", gin.H{
			"email": "x@example.com", "password": "secret1", "name": "X", "user_type": "admin",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("MissingFields", func(t *testing.T) {
		w := postJSON(t, r, "/api/auth/register", gin.H{"email": "y@example.com"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestLogin(t *testing.T) {
	store := newFakeUserStore()
	jwtSvc := NewJWTService("secret", 24)
	r := newAuthRouter(store, jwtSvc)

	hash, err := utils.HashPassword("secret1")
	require.NoError(t, err)
	seeded, err := store.Create(context.Background(), "org@example.com", hash, "Org", models.UserTypeOrganization)
	require.NoError(t, err)

	t.Run("Success", func(t *testing.T) {
		w := postJSON(t, r, "/api/auth/login", gin.H{"email": "org@example.com", "password": "secret1"})
		require.Equal(t, http.StatusOK, w.Code)

		var body struct {
			Data TokenResponse `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		claims, err := jwtSvc.Validate(body.Data.Token)
		require.NoError(t, err)
		assert.Equal(t, seeded.ID, claims.UserID)
		assert.Equal(t, models.UserTypeOrganization, claims.UserType)
	})

	t.Run("WrongPassword", func(t *testing.T) {
		w := postJSON(t, r, "/api/auth/login", gin.H{"email": "org@example.com", "password": "nope99"})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "invalid credentials")
	})

	t.Run("UnknownEmailSameMessage", func(t *testing.T) {
		w := postJSON(t, r, "/api/auth/login", gin.H{"email": "ghost@example.com", "password": "nope99"})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "invalid credentials")
	})
}
