package settings

import (
	"context"
	"fmt"
	"strings"

	"newsteps/internal/model"
)

// Settings are the business values the request workflow reads per call.
type Settings struct {
	// ShippingFee is the flat fee charged for shipped requests.
	ShippingFee float64 `json:"shippingFee"`

	// MaxItemsPerRequest overrides the fixed cart cap when positive.
	MaxItemsPerRequest int `json:"maxItemsPerRequest,omitempty"`

	// WaiveShippingForBayArea drops the shipping fee for Bay Area requesters.
	WaiveShippingForBayArea bool `json:"waiveShippingForBayArea"`

	// BayAreaZipCodes are five-digit ZIP codes treated as Bay Area addresses.
	BayAreaZipCodes []string `json:"bayAreaZipCodes,omitempty"`

	zips ZipSet
}

// Defaults returns the settings used when no document is configured.
func Defaults() *Settings {
	s := &Settings{
		ShippingFee:             5,
		WaiveShippingForBayArea: true,
	}
	s.index()
	return s
}

// MaxItems returns the effective per-request cart cap.
func (s *Settings) MaxItems() int {
	if s.MaxItemsPerRequest > 0 {
		return s.MaxItemsPerRequest
	}
	return model.DefaultMaxItemsPerRequest
}

// IsBayAreaZip reports whether zip falls inside the configured Bay Area set.
func (s *Settings) IsBayAreaZip(zip string) bool {
	zip = strings.TrimSpace(zip)
	if len(zip) > 5 {
		zip = zip[:5]
	}
	if s.zips == nil {
		// not loaded through a loader or provider; scan the document
		for _, z := range s.BayAreaZipCodes {
			if strings.TrimSpace(z) == zip {
				return true
			}
		}
		return false
	}
	return s.zips.Contains(zip)
}

// Validate checks the document for impossible values.
func (s *Settings) Validate() error {
	if s.ShippingFee < 0 {
		return fmt.Errorf("shipping fee cannot be negative: %v", s.ShippingFee)
	}
	if s.MaxItemsPerRequest < 0 {
		return fmt.Errorf("max items per request cannot be negative: %d", s.MaxItemsPerRequest)
	}
	for _, zip := range s.BayAreaZipCodes {
		if len(strings.TrimSpace(zip)) != 5 {
			return fmt.Errorf("invalid Bay Area ZIP code: %q", zip)
		}
	}
	return nil
}

// index builds the ZIP lookup set from BayAreaZipCodes.
func (s *Settings) index() {
	set := NewMapZipSet(len(s.BayAreaZipCodes)).(*mapZipSet)
	for _, zip := range s.BayAreaZipCodes {
		set.Add(strings.TrimSpace(zip))
	}
	s.zips = set
}

// ZipSet represents a set of ZIP codes for fast lookup.
type ZipSet interface {
	// Contains checks if a ZIP code exists in the set.
	Contains(zip string) bool

	// Size returns the number of ZIP codes in the set.
	Size() int
}

// Loader defines the interface for loading a settings document.
type Loader interface {
	// Load reads and decodes the settings document at location.
	Load(ctx context.Context, location string) (*Settings, error)
}
