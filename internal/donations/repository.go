package donations

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Sanyam2511/ShareMyThali/internal/models"
)

// ErrNotFound is returned when no donation matches the lookup.
var ErrNotFound = errors.New("donation not found")

const donationColumns = `id, donor_id, organization_id, title, description, quantity_details,
	pickup_address, latitude, longitude, expiry_time, status, created_at, updated_at`

// UpdateParams holds the mutable donation fields for a partial update.
// A nil field keeps the stored value (COALESCE merge).
type UpdateParams struct {
	Title           *string
	Description     *string
	QuantityDetails *string
	PickupAddress   *string
	Latitude        *float64
	Longitude       *float64
	ExpiryTime      *time.Time
}

// Repository handles donation persistence. All state transitions are issued as
// single conditional UPDATE statements on (id, status) so two concurrent
// callers cannot both pass the status check; the loser matches zero rows.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a donations repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func scanDonation(row pgx.Row, d *models.Donation) error {
	var desc *string
	err := row.Scan(&d.ID, &d.DonorID, &d.OrganizationID, &d.Title, &desc, &d.QuantityDetails,
		&d.PickupAddress, &d.Latitude, &d.Longitude, &d.ExpiryTime, &d.Status, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return err
	}
	if desc != nil {
		d.Description = *desc
	}
	return nil
}

// Create inserts a new donation with status available.
func (r *Repository) Create(ctx context.Context, d *models.Donation) error {
	const q = `INSERT INTO food_donations
		(id, donor_id, title, description, quantity_details, pickup_address, latitude, longitude, expiry_time)
		VALUES (gen_random_uuid(), $1, $2, NULLIF($3,''), $4, $5, $6, $7, $8)
		RETURNING ` + donationColumns
	row := r.pool.QueryRow(ctx, q, d.DonorID, d.Title, d.Description, d.QuantityDetails,
		d.PickupAddress, d.Latitude, d.Longitude, d.ExpiryTime)
	return scanDonation(row, d)
}

// GetByID returns a donation by ID, or ErrNotFound.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.Donation, error) {
	const q = `SELECT ` + donationColumns + ` FROM food_donations WHERE id = $1`
	var d models.Donation
	err := scanDonation(r.pool.QueryRow(ctx, q, id), &d)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// ListByDonor returns the donor's donations, newest first.
func (r *Repository) ListByDonor(ctx context.Context, donorID uuid.UUID) ([]models.Donation, error) {
	const q = `SELECT ` + donationColumns + ` FROM food_donations WHERE donor_id = $1 ORDER BY created_at DESC`
	return r.list(ctx, q, donorID)
}

// ListAvailable returns all available donations, newest first.
func (r *Repository) ListAvailable(ctx context.Context) ([]models.Donation, error) {
	const q = `SELECT ` + donationColumns + ` FROM food_donations WHERE status = 'available' ORDER BY created_at DESC`
	return r.list(ctx, q)
}

func (r *Repository) list(ctx context.Context, q string, args ...interface{}) ([]models.Donation, error) {
	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.Donation
	for rows.Next() {
		var d models.Donation
		if err := scanDonation(rows, &d); err != nil {
			return nil, err
		}
		list = append(list, d)
	}
	return list, rows.Err()
}

// Update applies a partial merge of the given fields, only while the donation
// is still available. Returns false if no row matched (absent or not available).
func (r *Repository) Update(ctx context.Context, id uuid.UUID, p UpdateParams) (bool, error) {
	const q = `UPDATE food_donations SET
		title = COALESCE($1, title),
		description = COALESCE($2, description),
		quantity_details = COALESCE($3, quantity_details),
		pickup_address = COALESCE($4, pickup_address),
		latitude = COALESCE($5, latitude),
		longitude = COALESCE($6, longitude),
		expiry_time = COALESCE($7, expiry_time),
		updated_at = NOW()
		WHERE id = $8 AND status = 'available'`
	tag, err := r.pool.Exec(ctx, q, p.Title, p.Description, p.QuantityDetails,
		p.PickupAddress, p.Latitude, p.Longitude, p.ExpiryTime, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// Cancel moves an available donation to cancelled. Returns false if no row
// matched.
func (r *Repository) Cancel(ctx context.Context, id uuid.UUID) (bool, error) {
	const q = `UPDATE food_donations SET status = 'cancelled', updated_at = NOW()
		WHERE id = $1 AND status = 'available'`
	tag, err := r.pool.Exec(ctx, q, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// Claim moves an available donation to pending and stamps the claiming
// organization. The status condition makes concurrent claims race-safe: at
// most one caller's UPDATE matches the row.
func (r *Repository) Claim(ctx context.Context, id, organizationID uuid.UUID) (bool, error) {
	const q = `UPDATE food_donations SET status = 'pending', organization_id = $2, updated_at = NOW()
		WHERE id = $1 AND status = 'available' AND donor_id <> $2`
	tag, err := r.pool.Exec(ctx, q, id, organizationID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// Fulfill moves a pending donation owned by donorID to fulfilled. Returns
// false if no row matched.
func (r *Repository) Fulfill(ctx context.Context, id, donorID uuid.UUID) (bool, error) {
	const q = `UPDATE food_donations SET status = 'fulfilled', updated_at = NOW()
		WHERE id = $1 AND status = 'pending' AND donor_id = $2`
	tag, err := r.pool.Exec(ctx, q, id, donorID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
