package model

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Request statuses. Admins may append any of these in any order.
const (
	RequestSubmitted Status = "submitted"
	RequestApproved  Status = "approved"
	RequestShipped   Status = "shipped"
	RequestRejected  Status = "rejected"
)

var requestStatuses = map[Status]bool{
	RequestSubmitted: true,
	RequestApproved:  true,
	RequestShipped:   true,
	RequestRejected:  true,
}

// ValidRequestStatus reports whether s belongs to the request status set.
func ValidRequestStatus(s Status) bool {
	return requestStatuses[s]
}

// Delivery methods.
const (
	DeliveryPickup   = "pickup"
	DeliveryShipping = "shipping"
)

// DefaultMaxItemsPerRequest is the fixed per-request cart cap.
const DefaultMaxItemsPerRequest = 2

// RequestorInfo is the contact block of a request.
type RequestorInfo struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

// ShippingInfo describes how the shoes reach the requester.
type ShippingInfo struct {
	DeliveryMethod string `json:"deliveryMethod"`
	AddressLine1   string `json:"addressLine1,omitempty"`
	AddressLine2   string `json:"addressLine2,omitempty"`
	City           string `json:"city,omitempty"`
	State          string `json:"state,omitempty"`
	ZipCode        string `json:"zipCode,omitempty"`
}

// AddressComplete reports whether every mandatory address field is set.
func (s ShippingInfo) AddressComplete() bool {
	return strings.TrimSpace(s.AddressLine1) != "" &&
		strings.TrimSpace(s.City) != "" &&
		strings.TrimSpace(s.State) != "" &&
		strings.TrimSpace(s.ZipCode) != ""
}

// RequestItem is a snapshot of a requested shoe taken at submission time.
// InventoryID is a display-only reference and may outlive the shoe record.
type RequestItem struct {
	ID          uuid.UUID `json:"-" db:"id"`
	RequestID   uuid.UUID `json:"-" db:"request_id"`
	InventoryID uuid.UUID `json:"inventoryId" db:"inventory_id"`
	ShoeID      int64     `json:"shoeId" db:"shoe_id"`
	Brand       string    `json:"brand" db:"brand"`
	Name        string    `json:"name" db:"name"`
	Size        string    `json:"size" db:"size"`
	Gender      string    `json:"gender" db:"gender"`
	Sport       string    `json:"sport" db:"sport"`
	Condition   string    `json:"condition" db:"condition"`

	// Inventory is the current state of the referenced shoe, populated on reads.
	Inventory *Shoe `json:"inventory,omitempty" db:"-"`
}

// Request is a requester's claim on up to two inventory records.
type Request struct {
	ID            uuid.UUID     `json:"id"`
	RequestID     string        `json:"requestId"`
	UserID        uuid.UUID     `json:"userId"`
	RequestorInfo RequestorInfo `json:"requestorInfo"`
	ShippingInfo  ShippingInfo  `json:"shippingInfo"`
	Items         []RequestItem `json:"items"`
	StatusHistory StatusHistory `json:"statusHistory"`
	ShippingFee   float64       `json:"shippingFee"`
	TotalCost     float64       `json:"totalCost"`
	CreatedAt     time.Time     `json:"createdAt"`
}

// CurrentStatus is derived from the status history.
func (r *Request) CurrentStatus() Status {
	return r.StatusHistory.Current()
}

// MarshalJSON adds the derived currentStatus field.
func (r Request) MarshalJSON() ([]byte, error) {
	type alias Request
	return json.Marshal(struct {
		alias
		CurrentStatus Status `json:"currentStatus"`
	}{
		alias:         alias(r),
		CurrentStatus: r.StatusHistory.Current(),
	})
}

// FormatRequestID renders a counter value as a human-readable request ID.
func FormatRequestID(seq int64) string {
	return fmt.Sprintf("REQ-%03d", seq)
}

// CartItem is one entry of a submitted cart.
type CartItem struct {
	InventoryID uuid.UUID `json:"inventoryId"`
	Brand       string    `json:"brand,omitempty"`
	Name        string    `json:"name,omitempty"`
	Size        string    `json:"size,omitempty"`
	Gender      string    `json:"gender,omitempty"`
	Sport       string    `json:"sport,omitempty"`
	Condition   string    `json:"condition,omitempty"`
}

// SubmitRequest is the payload for POST /api/requests.
type SubmitRequest struct {
	RequestorInfo RequestorInfo `json:"requestorInfo"`
	ShippingInfo  ShippingInfo  `json:"shippingInfo"`
	Items         []CartItem    `json:"items"`
}

// SubmitResponse is returned after a successful submission.
type SubmitResponse struct {
	RequestID   string  `json:"requestId"`
	ShippingFee float64 `json:"shippingFee"`
	TotalCost   float64 `json:"totalCost"`
}

// StatusUpdate is the admin payload for appending a status.
type StatusUpdate struct {
	ID         uuid.UUID `json:"id"`
	Status     Status    `json:"status"`
	Note       string    `json:"note,omitempty"`
	AdminNotes *string   `json:"adminNotes,omitempty"`
}

func displayName(brand, name string) string {
	return strings.TrimSpace(brand + " " + name)
}

// UnavailableLabel is the message shown for a cart item that cannot be allocated.
func UnavailableLabel(brand, name string) string {
	return displayName(brand, name) + " (No longer available)"
}
