package settings

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// fileLoader implements Loader for reading settings from the local file system.
type fileLoader struct {
	logger zerolog.Logger
}

// NewFileLoader creates a new file-based settings loader.
func NewFileLoader(logger zerolog.Logger) Loader {
	return &fileLoader{
		logger: logger.With().Str("component", "settings-loader").Logger(),
	}
}

// Load reads a JSON settings file. Files ending in .gz are gunzipped first.
func (l *fileLoader) Load(ctx context.Context, filePath string) (*Settings, error) {
	l.logger.Info().Str("file", filePath).Msg("loading settings file")

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	file, err := os.Open(filePath)
	if err != nil {
		l.logger.Error().Err(err).Str("file", filePath).Msg("failed to open settings file")
		return nil, fmt.Errorf("failed to open settings file %s: %w", filePath, err)
	}
	defer file.Close()

	s, err := decode(file, filePath)
	if err != nil {
		l.logger.Error().Err(err).Str("file", filePath).Msg("failed to decode settings file")
		return nil, err
	}

	l.logger.Info().
		Str("file", filePath).
		Float64("shipping_fee", s.ShippingFee).
		Int("max_items", s.MaxItems()).
		Int("bay_area_zips", s.zips.Size()).
		Msg("settings file loaded successfully")

	return s, nil
}

// decode parses a settings document from r. name decides whether the stream
// is gzip-compressed.
func decode(r io.Reader, name string) (*Settings, error) {
	if strings.HasSuffix(name, ".gz") {
		gzipReader, err := gzip.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("failed to create gzip reader for %s: %w", name, err)
		}
		defer gzipReader.Close()
		r = gzipReader
	}

	s := Defaults()
	if err := json.NewDecoder(r).Decode(s); err != nil {
		return nil, fmt.Errorf("failed to decode settings %s: %w", name, err)
	}

	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings %s: %w", name, err)
	}

	s.index()
	return s, nil
}
