package profiles

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Sanyam2511/ShareMyThali/internal/middleware"
	"github.com/Sanyam2511/ShareMyThali/internal/models"
	"github.com/Sanyam2511/ShareMyThali/pkg/response"
)

// Store is the persistence surface the profiles handler needs.
// *Repository implements it.
type Store interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*models.Profile, error)
	UpdateUser(ctx context.Context, userID uuid.UUID, name, phoneNumber *string) error
	UpsertOrgProfile(ctx context.Context, userID uuid.UUID, p OrgParams) error
}

// UpdateRequest is the body for PUT /api/profiles/me. Absent fields keep
// their stored value; there is no way to clear a field to empty.
type UpdateRequest struct {
	Name        *string `json:"name"`
	PhoneNumber *string `json:"phone_number"`

	RegistrationNumber *string `json:"registration_number"`
	ContactPerson      *string `json:"contact_person"`
	AddressLine1       *string `json:"address_line_1"`
	City               *string `json:"city"`
	ZipCode            *string `json:"zip_code"`
}

// Handler handles profile HTTP endpoints.
type Handler struct {
	store  Store
	logger *zap.Logger
}

// NewHandler creates a profiles handler.
func NewHandler(store Store, logger *zap.Logger) *Handler {
	return &Handler{store: store, logger: logger}
}

// GetMe handles GET /api/profiles/me.
func (h *Handler) GetMe(c *gin.Context) {
	profile, err := h.store.GetProfile(c.Request.Context(), middleware.CallerID(c))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(c, "user profile not found")
			return
		}
		h.logger.Error("get profile", zap.Error(err))
		response.Internal(c, "failed to fetch profile")
		return
	}
	response.OK(c, profile)
}

// UpdateMe handles PUT /api/profiles/me. User columns merge unconditionally;
// the organization_profiles upsert runs only for organization callers that
// supplied at least one organization field.
func (h *Handler) UpdateMe(c *gin.Context) {
	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request")
		return
	}

	ctx := c.Request.Context()
	userID := middleware.CallerID(c)

	if err := h.store.UpdateUser(ctx, userID, req.Name, req.PhoneNumber); err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(c, "user profile not found")
			return
		}
		h.logger.Error("update user", zap.Error(err))
		response.Internal(c, "failed to update profile")
		return
	}

	if middleware.CallerType(c) == models.UserTypeOrganization {
		orgParams := OrgParams{
			RegistrationNumber: req.RegistrationNumber,
			ContactPerson:      req.ContactPerson,
			AddressLine1:       req.AddressLine1,
			City:               req.City,
			ZipCode:            req.ZipCode,
		}
		if orgParams.Any() {
			if err := h.store.UpsertOrgProfile(ctx, userID, orgParams); err != nil {
				h.logger.Error("upsert organization profile", zap.Error(err))
				response.Internal(c, "failed to update profile")
				return
			}
		}
	}

	response.OK(c, gin.H{"message": "Profile updated successfully."})
}
