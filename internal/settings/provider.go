package settings

import (
	"context"
	"fmt"
	"slices"
	"sync/atomic"

	"github.com/rs/zerolog"
)

// Provider holds the current settings snapshot. Readers take one snapshot
// per operation; Reload swaps in a fresh document atomically.
type Provider struct {
	loader   Loader
	location string
	current  atomic.Pointer[Settings]
	logger   zerolog.Logger
}

// NewProvider creates a provider and performs the initial load. A nil loader
// serves Defaults until Set is called.
func NewProvider(ctx context.Context, loader Loader, location string, logger zerolog.Logger) (*Provider, error) {
	p := &Provider{
		loader:   loader,
		location: location,
		logger:   logger.With().Str("component", "settings-provider").Logger(),
	}
	p.current.Store(Defaults())

	if loader == nil {
		p.logger.Info().Msg("no settings source configured, using defaults")
		return p, nil
	}

	if err := p.Reload(ctx); err != nil {
		return nil, err
	}
	return p, nil
}

// NewStaticProvider returns a provider that always serves s.
func NewStaticProvider(s *Settings) *Provider {
	p := &Provider{logger: zerolog.Nop()}
	p.Set(s)
	return p
}

// Current returns the active settings snapshot.
func (p *Provider) Current() *Settings {
	return p.current.Load()
}

// Set replaces the active snapshot with an indexed copy of s. The caller's
// value is not modified.
func (p *Provider) Set(s *Settings) {
	snapshot := *s
	snapshot.BayAreaZipCodes = slices.Clone(s.BayAreaZipCodes)
	snapshot.index()
	p.current.Store(&snapshot)
}

// Reload fetches the settings document again and swaps it in. On failure
// the previous snapshot stays active.
func (p *Provider) Reload(ctx context.Context) error {
	if p.loader == nil {
		return fmt.Errorf("no settings source configured")
	}

	s, err := p.loader.Load(ctx, p.location)
	if err != nil {
		p.logger.Error().Err(err).Msg("failed to reload settings")
		return fmt.Errorf("failed to load settings: %w", err)
	}

	p.current.Store(s)
	p.logger.Info().
		Float64("shipping_fee", s.ShippingFee).
		Int("max_items", s.MaxItems()).
		Bool("waive_bay_area", s.WaiveShippingForBayArea).
		Msg("settings reloaded")
	return nil
}
