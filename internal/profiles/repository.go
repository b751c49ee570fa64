package profiles

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Sanyam2511/ShareMyThali/internal/models"
)

// ErrNotFound is returned when the user row no longer exists.
var ErrNotFound = errors.New("profile not found")

// OrgParams holds the organization-specific profile fields for an upsert.
// A nil field keeps the stored value.
type OrgParams struct {
	RegistrationNumber *string
	ContactPerson      *string
	AddressLine1       *string
	City               *string
	ZipCode            *string
}

// Any reports whether at least one organization field was supplied.
func (p OrgParams) Any() bool {
	return p.RegistrationNumber != nil || p.ContactPerson != nil ||
		p.AddressLine1 != nil || p.City != nil || p.ZipCode != nil
}

// Repository handles profile persistence across users and
// organization_profiles.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a profiles repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// GetProfile returns the user's combined profile. For organization users the
// organization_profiles row is merged in when it exists; it is absent until
// the first organization-field update.
func (r *Repository) GetProfile(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	const q = `SELECT id, email, name, user_type, phone_number FROM users WHERE id = $1`
	var p models.Profile
	err := r.pool.QueryRow(ctx, q, userID).Scan(&p.ID, &p.Email, &p.Name, &p.UserType, &p.PhoneNumber)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if p.UserType == models.UserTypeOrganization {
		const orgQ = `SELECT registration_number, contact_person, address_line_1, city, zip_code, is_verified
			FROM organization_profiles WHERE user_id = $1`
		var verified bool
		err := r.pool.QueryRow(ctx, orgQ, userID).Scan(&p.RegistrationNumber, &p.ContactPerson,
			&p.AddressLine1, &p.City, &p.ZipCode, &verified)
		if err == nil {
			p.IsVerified = &verified
		} else if !errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
	}
	return &p, nil
}

// UpdateUser applies a COALESCE merge to the user's name and phone number.
func (r *Repository) UpdateUser(ctx context.Context, userID uuid.UUID, name, phoneNumber *string) error {
	const q = `UPDATE users SET
		name = COALESCE($1, name),
		phone_number = COALESCE($2, phone_number),
		updated_at = NOW()
		WHERE id = $3`
	tag, err := r.pool.Exec(ctx, q, name, phoneNumber, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// UpsertOrgProfile inserts or merges the organization_profiles row for the
// user. Existing column values are kept where the parameter is nil.
func (r *Repository) UpsertOrgProfile(ctx context.Context, userID uuid.UUID, p OrgParams) error {
	const q = `INSERT INTO organization_profiles (user_id, registration_number, contact_person, address_line_1, city, zip_code)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id) DO UPDATE SET
		registration_number = COALESCE($2, organization_profiles.registration_number),
		contact_person = COALESCE($3, organization_profiles.contact_person),
		address_line_1 = COALESCE($4, organization_profiles.address_line_1),
		city = COALESCE($5, organization_profiles.city),
		zip_code = COALESCE($6, organization_profiles.zip_code)`
	_, err := r.pool.Exec(ctx, q, userID, p.RegistrationNumber, p.ContactPerson, p.AddressLine1, p.City, p.ZipCode)
	return err
}
