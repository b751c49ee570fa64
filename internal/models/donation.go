package models

import (
	"time"

	"github.com/google/uuid"
)

// DonationStatus is the lifecycle state of a food donation.
type DonationStatus string

const (
	StatusAvailable DonationStatus = "available"
	StatusPending   DonationStatus = "pending"
	StatusFulfilled DonationStatus = "fulfilled"
	StatusCancelled DonationStatus = "cancelled"
)

// Donation represents a surplus food listing.
// OrganizationID is set when an organization claims it and stays set through
// fulfillment; it is null while the donation is available or cancelled.
type Donation struct {
	ID              uuid.UUID      `json:"id"`
	DonorID         uuid.UUID      `json:"donor_id"`
	OrganizationID  *uuid.UUID     `json:"organization_id,omitempty"`
	Title           string         `json:"title"`
	Description     string         `json:"description"`
	QuantityDetails string         `json:"quantity_details"`
	PickupAddress   string         `json:"pickup_address"`
	Latitude        float64        `json:"latitude"`
	Longitude       float64        `json:"longitude"`
	ExpiryTime      *time.Time     `json:"expiry_time,omitempty"`
	Status          DonationStatus `json:"status"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}
