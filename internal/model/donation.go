package model

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// DonationKind separates shoe donations from money donations.
type DonationKind string

const (
	DonationShoes DonationKind = "shoe"
	DonationMoney DonationKind = "money"
)

// Donation statuses.
const (
	DonationSubmitted Status = "submitted"
	DonationPickedUp  Status = "picked_up"
	DonationReceived  Status = "received"
	DonationProcessed Status = "processed"
	DonationCancelled Status = "cancelled"
)

// donationTransitions is the only source of allowed donation status changes.
// Statuses without outgoing edges are terminal.
var donationTransitions = map[Status][]Status{
	DonationSubmitted: {DonationPickedUp, DonationReceived, DonationCancelled},
	DonationPickedUp:  {DonationReceived, DonationProcessed, DonationCancelled},
	DonationReceived:  {DonationProcessed, DonationCancelled},
	DonationProcessed: nil,
	DonationCancelled: nil,
}

// ValidDonationStatus reports whether s is a known donation status.
func ValidDonationStatus(s Status) bool {
	_, ok := donationTransitions[s]
	return ok
}

// CanTransitionDonation reports whether a donation may move from one status to another.
func CanTransitionDonation(from, to Status) bool {
	for _, next := range donationTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// DonorInfo identifies the donor.
type DonorInfo struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone,omitempty"`
	Address   string `json:"address,omitempty"`
}

// DonationItem is one line of a shoe donation.
type DonationItem struct {
	ID         uuid.UUID `json:"-" db:"id"`
	DonationID uuid.UUID `json:"-" db:"donation_id"`
	Brand      string    `json:"brand" db:"brand"`
	ModelName  string    `json:"modelName" db:"model_name"`
	Size       string    `json:"size" db:"size"`
	Gender     string    `json:"gender" db:"gender"`
	Sport      string    `json:"sport" db:"sport"`
	Condition  string    `json:"condition" db:"condition"`
	Quantity   int       `json:"quantity" db:"quantity"`
}

// Donation is a shoe or money donation with its status history.
type Donation struct {
	ID            uuid.UUID      `json:"id"`
	DonationID    string         `json:"donationId"`
	Kind          DonationKind   `json:"kind"`
	UserID        *uuid.UUID     `json:"userId,omitempty"`
	DonorInfo     DonorInfo      `json:"donorInfo"`
	Items         []DonationItem `json:"items,omitempty"`
	Amount        float64        `json:"amount,omitempty"`
	StatusHistory StatusHistory  `json:"statusHistory"`
	AdminNotes    string         `json:"adminNotes,omitempty"`
	CreatedAt     time.Time      `json:"createdAt"`
}

// CurrentStatus is derived from the status history.
func (d *Donation) CurrentStatus() Status {
	return d.StatusHistory.Current()
}

// MarshalJSON adds the derived status field.
func (d Donation) MarshalJSON() ([]byte, error) {
	type alias Donation
	return json.Marshal(struct {
		alias
		Status Status `json:"status"`
	}{
		alias:  alias(d),
		Status: d.StatusHistory.Current(),
	})
}

// FormatDonationID renders a counter value as a human-readable donation ID.
func FormatDonationID(seq int64) string {
	return fmt.Sprintf("DON-%03d", seq)
}

// DonationInput is the payload for submitting a donation.
type DonationInput struct {
	DonorInfo DonorInfo      `json:"donorInfo"`
	Items     []DonationItem `json:"items,omitempty"`
	Amount    float64        `json:"amount,omitempty"`
	Note      string         `json:"note,omitempty"`
}

// DonationFilter narrows admin donation listings.
type DonationFilter struct {
	Kind   DonationKind
	Status Status
}
