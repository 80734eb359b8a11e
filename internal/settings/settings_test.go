package settings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaults(t *testing.T) {
	s := Defaults()

	assert.Equal(t, 5.0, s.ShippingFee)
	assert.Equal(t, 2, s.MaxItems())
	assert.True(t, s.WaiveShippingForBayArea)
	assert.False(t, s.IsBayAreaZip("94110"))
}

func TestSettings_MaxItems(t *testing.T) {
	tests := []struct {
		name     string
		override int
		expected int
	}{
		{name: "No override uses fixed cap", override: 0, expected: 2},
		{name: "Explicit override", override: 3, expected: 3},
		{name: "Override to one", override: 1, expected: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &Settings{MaxItemsPerRequest: tt.override}
			assert.Equal(t, tt.expected, s.MaxItems())
		})
	}
}

func TestSettings_IsBayAreaZip(t *testing.T) {
	s := &Settings{BayAreaZipCodes: []string{"94110", "94612", " 95112 "}}
	s.index()

	assert.True(t, s.IsBayAreaZip("94110"))
	assert.True(t, s.IsBayAreaZip("94612-1234"))
	assert.True(t, s.IsBayAreaZip("95112"))
	assert.False(t, s.IsBayAreaZip("10001"))
	assert.False(t, s.IsBayAreaZip(""))
}

func TestSettings_Validate(t *testing.T) {
	tests := []struct {
		name        string
		settings    Settings
		expectError bool
		errorMsg    string
	}{
		{
			name:     "Valid settings",
			settings: Settings{ShippingFee: 5, BayAreaZipCodes: []string{"94110"}},
		},
		{
			name:        "Negative shipping fee",
			settings:    Settings{ShippingFee: -1},
			expectError: true,
			errorMsg:    "shipping fee cannot be negative",
		},
		{
			name:        "Negative max items",
			settings:    Settings{MaxItemsPerRequest: -2},
			expectError: true,
			errorMsg:    "max items per request cannot be negative",
		},
		{
			name:        "Malformed ZIP",
			settings:    Settings{BayAreaZipCodes: []string{"941"}},
			expectError: true,
			errorMsg:    "invalid Bay Area ZIP code",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.settings.Validate()
			if tt.expectError {
				assert.ErrorContains(t, err, tt.errorMsg)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestMapZipSet(t *testing.T) {
	set := NewMapZipSet(2).(*mapZipSet)
	assert.Equal(t, 0, set.Size())

	set.Add("94110")
	set.Add("94110")
	set.Add("94612")

	assert.Equal(t, 2, set.Size())
	assert.True(t, set.Contains("94612"))
	assert.False(t, set.Contains("94613"))
}

func TestSettings_IsBayAreaZip_Unindexed(t *testing.T) {
	s := &Settings{BayAreaZipCodes: []string{"94110", " 94612 "}}

	assert.True(t, s.IsBayAreaZip("94110"))
	assert.True(t, s.IsBayAreaZip("94612-0001"))
	assert.False(t, s.IsBayAreaZip("10001"))
	assert.Nil(t, s.zips)
}
