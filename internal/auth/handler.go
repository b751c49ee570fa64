package auth

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Sanyam2511/ShareMyThali/internal/models"
	"github.com/Sanyam2511/ShareMyThali/pkg/response"
	"github.com/Sanyam2511/ShareMyThali/pkg/utils"
)

// UserStore is the persistence surface the auth handler needs.
// *Repository implements it.
type UserStore interface {
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, email, passwordHash, name string, userType models.UserType) (*models.User, error)
}

// RegisterRequest is the body for POST /api/auth/register.
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Name     string `json:"name" binding:"required"`
	UserType string `json:"user_type" binding:"required"`
}

// LoginRequest is the body for POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// TokenResponse is the login response with JWT.
type TokenResponse struct {
	Token string            `json:"token"`
	User  models.UserPublic `json:"user"`
}

// Handler handles auth HTTP endpoints.
type Handler struct {
	store  UserStore
	jwt    *JWTService
	logger *zap.Logger
}

// NewHandler creates an auth handler.
func NewHandler(store UserStore, jwt *JWTService, logger *zap.Logger) *Handler {
	return &Handler{store: store, jwt: jwt, logger: logger}
}

// Register handles POST /api/auth/register.
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	userType := models.UserType(req.UserType)
	if !userType.Valid() {
		response.BadRequest(c, "invalid user type")
		return
	}

	_, err := h.store.GetByEmail(c.Request.Context(), req.Email)
	if err == nil {
		response.Conflict(c, "user with this email already exists")
		return
	}
	if !errors.Is(err, ErrNotFound) {
		h.logger.Error("lookup user by email", zap.Error(err))
		response.Internal(c, "registration failed")
		return
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		h.logger.Error("hash password", zap.Error(err))
		response.Internal(c, "registration failed")
		return
	}

	user, err := h.store.Create(c.Request.Context(), req.Email, hash, req.Name, userType)
	if err != nil {
		h.logger.Error("create user", zap.Error(err))
		response.Internal(c, "registration failed")
		return
	}

	response.Created(c, gin.H{
		"message": "Registration successful. Please log in.",
		"user":    user.ToPublic(),
	})
}

// Login handles POST /api/auth/login. Unknown email and wrong password return
// the same message so account existence is not leaked.
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	user, err := h.store.GetByEmail(c.Request.Context(), req.Email)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			h.logger.Error("lookup user by email", zap.Error(err))
		}
		response.Unauthorized(c, "invalid credentials")
		return
	}

	if !utils.CheckPassword(req.Password, user.Password) {
		response.Unauthorized(c, "invalid credentials")
		return
	}

	token, err := h.jwt.Generate(user.ID, user.UserType)
	if err != nil {
		h.logger.Error("generate token", zap.Error(err))
		response.Internal(c, "login failed")
		return
	}

	response.OK(c, TokenResponse{Token: token, User: user.ToPublic()})
}
