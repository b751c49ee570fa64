package models

import (
	"time"

	"github.com/google/uuid"
)

// UserType represents the marketplace role of a user.
type UserType string

const (
	UserTypeDonor        UserType = "donor"
	UserTypeOrganization UserType = "organization"
)

// Valid reports whether t is a known user type.
func (t UserType) Valid() bool {
	return t == UserTypeDonor || t == UserTypeOrganization
}

// User represents a registered account (donor or organization).
type User struct {
	ID          uuid.UUID `json:"id"`
	Email       string    `json:"email"`
	Password    string    `json:"-"`
	Name        string    `json:"name"`
	UserType    UserType  `json:"user_type"`
	PhoneNumber *string   `json:"phone_number,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// UserPublic is User without sensitive fields for API responses.
type UserPublic struct {
	ID       uuid.UUID `json:"id"`
	Email    string    `json:"email"`
	Name     string    `json:"name"`
	UserType UserType  `json:"user_type"`
}

// ToPublic converts User to UserPublic.
func (u *User) ToPublic() UserPublic {
	return UserPublic{
		ID:       u.ID,
		Email:    u.Email,
		Name:     u.Name,
		UserType: u.UserType,
	}
}
