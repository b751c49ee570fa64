package donations

import (
	"context"
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Sanyam2511/ShareMyThali/internal/middleware"
	"github.com/Sanyam2511/ShareMyThali/internal/models"
	"github.com/Sanyam2511/ShareMyThali/pkg/cache"
	"github.com/Sanyam2511/ShareMyThali/pkg/response"
)

// Store is the persistence surface the donations handler needs.
// *Repository implements it.
type Store interface {
	Create(ctx context.Context, d *models.Donation) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Donation, error)
	ListByDonor(ctx context.Context, donorID uuid.UUID) ([]models.Donation, error)
	ListAvailable(ctx context.Context) ([]models.Donation, error)
	Update(ctx context.Context, id uuid.UUID, p UpdateParams) (bool, error)
	Cancel(ctx context.Context, id uuid.UUID) (bool, error)
	Claim(ctx context.Context, id, organizationID uuid.UUID) (bool, error)
	Fulfill(ctx context.Context, id, donorID uuid.UUID) (bool, error)
}

// CreateRequest is the body for POST /api/donations.
type CreateRequest struct {
	Title           string  `json:"title" binding:"required"`
	Description     string  `json:"description"`
	QuantityDetails string  `json:"quantity_details" binding:"required"`
	PickupAddress   string  `json:"pickup_address" binding:"required"`
	Latitude        float64 `json:"latitude" binding:"required"`
	Longitude       float64 `json:"longitude" binding:"required"`
	ExpiryTime      *string `json:"expiry_time"`
}

// UpdateRequest is the body for PUT /api/donations/:id. Absent fields keep
// their stored value.
type UpdateRequest struct {
	Title           *string  `json:"title"`
	Description     *string  `json:"description"`
	QuantityDetails *string  `json:"quantity_details"`
	PickupAddress   *string  `json:"pickup_address"`
	Latitude        *float64 `json:"latitude"`
	Longitude       *float64 `json:"longitude"`
	ExpiryTime      *string  `json:"expiry_time"`
}

// Handler handles donation HTTP endpoints.
type Handler struct {
	store    Store
	listings *cache.Listings // optional; nil when Redis is not configured
	logger   *zap.Logger
}

// NewHandler creates a donations handler.
func NewHandler(store Store, listings *cache.Listings, logger *zap.Logger) *Handler {
	return &Handler{store: store, listings: listings, logger: logger}
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339, s)
}

// writePolicyError maps policy failures to HTTP responses.
func writePolicyError(c *gin.Context, err error) {
	var statusErr *StatusError
	switch {
	case errors.As(err, &statusErr):
		response.Conflict(c, statusErr.Error())
	case errors.Is(err, ErrSelfClaim):
		response.Conflict(c, err.Error())
	default:
		response.Forbidden(c, "access denied")
	}
}

// reportStale re-reads the row after a conditional update matched nothing:
// a concurrent transition won, or the row is gone.
func (h *Handler) reportStale(c *gin.Context, op Operation, id uuid.UUID) {
	d, err := h.store.GetByID(c.Request.Context(), id)
	if err != nil {
		response.NotFound(c, "donation not found")
		return
	}
	response.Conflict(c, (&StatusError{Op: op, Current: d.Status}).Error())
}

func (h *Handler) invalidateListings(ctx context.Context) {
	if h.listings != nil {
		h.listings.Invalidate(ctx)
	}
}

// Create handles POST /api/donations (donor only).
func (h *Handler) Create(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "missing required fields: title, address, coordinates, or quantity details")
		return
	}

	var expiry *time.Time
	if req.ExpiryTime != nil {
		t, err := parseTime(*req.ExpiryTime)
		if err != nil {
			response.BadRequest(c, "invalid expiry_time")
			return
		}
		expiry = &t
	}

	d := &models.Donation{
		DonorID:         middleware.CallerID(c),
		Title:           req.Title,
		Description:     req.Description,
		QuantityDetails: req.QuantityDetails,
		PickupAddress:   req.PickupAddress,
		Latitude:        req.Latitude,
		Longitude:       req.Longitude,
		ExpiryTime:      expiry,
	}
	if err := h.store.Create(c.Request.Context(), d); err != nil {
		h.logger.Error("create donation", zap.Error(err))
		response.Internal(c, "failed to create donation")
		return
	}
	h.invalidateListings(c.Request.Context())
	response.Created(c, gin.H{"message": "Donation created successfully.", "donation": d})
}

// List handles GET /api/donations. Donors see their own donations, newest
// first; organizations see all available ones.
func (h *Handler) List(c *gin.Context) {
	ctx := c.Request.Context()
	switch middleware.CallerType(c) {
	case models.UserTypeDonor:
		list, err := h.store.ListByDonor(ctx, middleware.CallerID(c))
		if err != nil {
			h.logger.Error("list donor donations", zap.Error(err))
			response.Internal(c, "failed to fetch donations")
			return
		}
		response.OK(c, list)
	case models.UserTypeOrganization:
		if h.listings != nil {
			if list, ok := h.listings.GetAvailable(ctx); ok {
				response.OK(c, list)
				return
			}
		}
		list, err := h.store.ListAvailable(ctx)
		if err != nil {
			h.logger.Error("list available donations", zap.Error(err))
			response.Internal(c, "failed to fetch donations")
			return
		}
		if h.listings != nil {
			h.listings.SetAvailable(ctx, list)
		}
		response.OK(c, list)
	default:
		response.Forbidden(c, "access denied")
	}
}

// GetByID handles GET /api/donations/:id. Donors may only view their own
// donations; organizations may view any.
func (h *Handler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid donation id")
		return
	}
	d, err := h.store.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(c, "donation not found")
			return
		}
		h.logger.Error("get donation", zap.Error(err))
		response.Internal(c, "failed to fetch donation")
		return
	}
	if err := Authorize(OpView, middleware.CallerType(c), middleware.CallerID(c), d); err != nil {
		writePolicyError(c, err)
		return
	}
	response.OK(c, d)
}

// Update handles PUT /api/donations/:id (owning donor, available only).
func (h *Handler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid donation id")
		return
	}
	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request")
		return
	}
	var expiry *time.Time
	if req.ExpiryTime != nil {
		t, err := parseTime(*req.ExpiryTime)
		if err != nil {
			response.BadRequest(c, "invalid expiry_time")
			return
		}
		expiry = &t
	}

	ctx := c.Request.Context()
	d, err := h.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(c, "donation not found")
			return
		}
		h.logger.Error("get donation", zap.Error(err))
		response.Internal(c, "failed to update donation")
		return
	}
	if err := Authorize(OpUpdate, middleware.CallerType(c), middleware.CallerID(c), d); err != nil {
		writePolicyError(c, err)
		return
	}

	ok, err := h.store.Update(ctx, id, UpdateParams{
		Title:           req.Title,
		Description:     req.Description,
		QuantityDetails: req.QuantityDetails,
		PickupAddress:   req.PickupAddress,
		Latitude:        req.Latitude,
		Longitude:       req.Longitude,
		ExpiryTime:      expiry,
	})
	if err != nil {
		h.logger.Error("update donation", zap.Error(err))
		response.Internal(c, "failed to update donation")
		return
	}
	if !ok {
		h.reportStale(c, OpUpdate, id)
		return
	}
	h.invalidateListings(ctx)
	updated, err := h.store.GetByID(ctx, id)
	if err != nil {
		h.logger.Error("reload donation", zap.Error(err))
		response.Internal(c, "failed to update donation")
		return
	}
	response.OK(c, gin.H{"message": "Donation updated successfully.", "donation": updated})
}

// Cancel handles DELETE /api/donations/:id (owning donor, available only).
// Cancellation is a status change, never a hard delete.
func (h *Handler) Cancel(c *gin.Context) {
	h.transition(c, OpCancel, "Donation successfully cancelled.", func(ctx context.Context, d *models.Donation) (bool, error) {
		return h.store.Cancel(ctx, d.ID)
	})
}

// Claim handles PATCH /api/donations/:id/claim (organization only).
func (h *Handler) Claim(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid donation id")
		return
	}
	ctx := c.Request.Context()
	callerID := middleware.CallerID(c)

	d, err := h.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(c, "donation not found")
			return
		}
		h.logger.Error("get donation", zap.Error(err))
		response.Internal(c, "failed to claim donation")
		return
	}
	if err := Authorize(OpClaim, middleware.CallerType(c), callerID, d); err != nil {
		writePolicyError(c, err)
		return
	}

	ok, err := h.store.Claim(ctx, id, callerID)
	if err != nil {
		h.logger.Error("claim donation", zap.Error(err))
		response.Internal(c, "failed to claim donation")
		return
	}
	if !ok {
		h.reportStale(c, OpClaim, id)
		return
	}
	h.invalidateListings(ctx)
	claimed, err := h.store.GetByID(ctx, id)
	if err != nil {
		h.logger.Error("reload donation", zap.Error(err))
		response.Internal(c, "failed to claim donation")
		return
	}
	response.OK(c, gin.H{
		"message":  "Donation successfully claimed. Pickup is pending confirmation by the donor.",
		"donation": claimed,
	})
}

// Fulfill handles PATCH /api/donations/:id/fulfill (owning donor, pending only).
func (h *Handler) Fulfill(c *gin.Context) {
	h.transition(c, OpFulfill, "Donation successfully fulfilled.", func(ctx context.Context, d *models.Donation) (bool, error) {
		return h.store.Fulfill(ctx, d.ID, d.DonorID)
	})
}

// transition runs the shared read-authorize-conditionally-write sequence for
// cancel and fulfill.
func (h *Handler) transition(c *gin.Context, op Operation, okMessage string, apply func(context.Context, *models.Donation) (bool, error)) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid donation id")
		return
	}
	ctx := c.Request.Context()

	d, err := h.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(c, "donation not found")
			return
		}
		h.logger.Error("get donation", zap.Error(err))
		response.Internal(c, "failed to "+string(op)+" donation")
		return
	}
	if err := Authorize(op, middleware.CallerType(c), middleware.CallerID(c), d); err != nil {
		writePolicyError(c, err)
		return
	}

	ok, err := apply(ctx, d)
	if err != nil {
		h.logger.Error(string(op)+" donation", zap.Error(err))
		response.Internal(c, "failed to "+string(op)+" donation")
		return
	}
	if !ok {
		h.reportStale(c, op, id)
		return
	}
	h.invalidateListings(ctx)
	response.OK(c, gin.H{"message": okMessage})
}
