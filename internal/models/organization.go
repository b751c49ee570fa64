package models

import "github.com/google/uuid"

// OrganizationProfile holds organization-specific attributes, one-to-one with a
// user of type organization. The row is created lazily on first profile update.
type OrganizationProfile struct {
	UserID             uuid.UUID `json:"user_id"`
	RegistrationNumber *string   `json:"registration_number,omitempty"`
	ContactPerson      *string   `json:"contact_person,omitempty"`
	AddressLine1       *string   `json:"address_line_1,omitempty"`
	City               *string   `json:"city,omitempty"`
	ZipCode            *string   `json:"zip_code,omitempty"`
	IsVerified         bool      `json:"is_verified"`
}

// Profile is the combined view returned by GET /api/profiles/me: user fields
// plus, for organizations, any stored organization profile fields.
type Profile struct {
	ID          uuid.UUID `json:"id"`
	Email       string    `json:"email"`
	Name        string    `json:"name"`
	UserType    UserType  `json:"user_type"`
	PhoneNumber *string   `json:"phone_number,omitempty"`

	RegistrationNumber *string `json:"registration_number,omitempty"`
	ContactPerson      *string `json:"contact_person,omitempty"`
	AddressLine1       *string `json:"address_line_1,omitempty"`
	City               *string `json:"city,omitempty"`
	ZipCode            *string `json:"zip_code,omitempty"`
	IsVerified         *bool   `json:"is_verified,omitempty"`
}
