package model

import "time"

// Status is a lifecycle state recorded in a status history.
type Status string

// StatusEntry is one append-only record in a status history.
type StatusEntry struct {
	Status    Status    `json:"status"`
	Note      string    `json:"note,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// StatusHistory is ordered oldest first. The current status is always the
// status of the last entry.
type StatusHistory []StatusEntry

// Current returns the newest status, or "" for an empty history.
func (h StatusHistory) Current() Status {
	if len(h) == 0 {
		return ""
	}
	return h[len(h)-1].Status
}

// EntityKind identifies which record a status history belongs to.
type EntityKind string

const (
	EntityRequest  EntityKind = "request"
	EntityDonation EntityKind = "donation"
)
