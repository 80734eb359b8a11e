package model

import (
	"time"

	"github.com/google/uuid"
)

// ShoeStatus is the availability state of an inventory record.
type ShoeStatus string

const (
	ShoeAvailable        ShoeStatus = "available"
	ShoeRequested        ShoeStatus = "requested"
	ShoeConfirmed        ShoeStatus = "confirmed"
	ShoeShipped          ShoeStatus = "shipped"
	ShoeDelivered        ShoeStatus = "delivered"
	ShoeUnavailable      ShoeStatus = "unavailable"
	ShoePendingInventory ShoeStatus = "pending_inventory"
)

var shoeStatuses = map[ShoeStatus]bool{
	ShoeAvailable:        true,
	ShoeRequested:        true,
	ShoeConfirmed:        true,
	ShoeShipped:          true,
	ShoeDelivered:        true,
	ShoeUnavailable:      true,
	ShoePendingInventory: true,
}

// Valid reports whether s is a known shoe status.
func (s ShoeStatus) Valid() bool {
	return shoeStatuses[s]
}

// Shoe is one donated shoe (or batch) in the inventory.
type Shoe struct {
	ID             uuid.UUID  `json:"id" db:"id"`
	ShoeID         int64      `json:"shoeId" db:"shoe_id"`
	Brand          string     `json:"brand" db:"brand"`
	ModelName      string     `json:"modelName" db:"model_name"`
	Size           string     `json:"size" db:"size"`
	Gender         string     `json:"gender" db:"gender"`
	Sport          string     `json:"sport" db:"sport"`
	Condition      string     `json:"condition" db:"condition"`
	Status         ShoeStatus `json:"status" db:"status"`
	InventoryCount int        `json:"inventoryCount" db:"inventory_count"`
	DonationID     *uuid.UUID `json:"donationId,omitempty" db:"donation_id"`
	CreatedAt      time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt      time.Time  `json:"updatedAt" db:"updated_at"`
}

// Allocatable reports whether the record can satisfy a new request.
func (s *Shoe) Allocatable() bool {
	return s.Status == ShoeAvailable && s.InventoryCount > 0
}

// ShoeInput is the payload for creating an inventory record.
type ShoeInput struct {
	ShoeID         *int64     `json:"shoeId,omitempty"`
	Brand          string     `json:"brand"`
	ModelName      string     `json:"modelName"`
	Size           string     `json:"size"`
	Gender         string     `json:"gender"`
	Sport          string     `json:"sport"`
	Condition      string     `json:"condition"`
	Status         ShoeStatus `json:"status,omitempty"`
	InventoryCount *int       `json:"inventoryCount,omitempty"`
	DonationID     *uuid.UUID `json:"donationId,omitempty"`
}

// ShoePatch holds the fields an admin may change on an inventory record.
type ShoePatch struct {
	Brand          *string     `json:"brand,omitempty"`
	ModelName      *string     `json:"modelName,omitempty"`
	Size           *string     `json:"size,omitempty"`
	Gender         *string     `json:"gender,omitempty"`
	Sport          *string     `json:"sport,omitempty"`
	Condition      *string     `json:"condition,omitempty"`
	Status         *ShoeStatus `json:"status,omitempty"`
	InventoryCount *int        `json:"inventoryCount,omitempty"`
}

// ShoeFilter narrows inventory listings.
type ShoeFilter struct {
	Status ShoeStatus
	Size   string
	Gender string
	Sport  string
	Limit  int
	Offset int
}
