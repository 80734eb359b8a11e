package settings

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"
)

// ObjectGetter is the subset of the S3 client used by the loader.
type ObjectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// s3Loader implements Loader for reading settings documents from AWS S3.
type s3Loader struct {
	client ObjectGetter
	bucket string
	logger zerolog.Logger
}

// NewS3Loader creates a new S3-based settings loader.
func NewS3Loader(ctx context.Context, bucket, region string, logger zerolog.Logger) (Loader, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		logger.Error().Err(err).Msg("failed to load AWS configuration")
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	logger.Info().
		Str("bucket", bucket).
		Str("region", region).
		Msg("S3 settings loader initialised")

	return NewS3LoaderWithClient(s3.NewFromConfig(cfg), bucket, logger), nil
}

// NewS3LoaderWithClient creates an S3 loader around an existing client.
func NewS3LoaderWithClient(client ObjectGetter, bucket string, logger zerolog.Logger) Loader {
	return &s3Loader{
		client: client,
		bucket: bucket,
		logger: logger.With().Str("component", "s3-settings-loader").Logger(),
	}
}

// Load reads a settings document from S3. key is the full object key.
func (l *s3Loader) Load(ctx context.Context, key string) (*Settings, error) {
	l.logger.Info().
		Str("bucket", l.bucket).
		Str("key", key).
		Msg("loading settings from S3")

	result, err := l.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(l.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		l.logger.Error().
			Err(err).
			Str("bucket", l.bucket).
			Str("key", key).
			Msg("failed to get object from S3")
		return nil, fmt.Errorf("failed to get object from S3 (bucket=%s, key=%s): %w", l.bucket, key, err)
	}
	defer result.Body.Close()

	s, err := decode(result.Body, key)
	if err != nil {
		l.logger.Error().
			Err(err).
			Str("bucket", l.bucket).
			Str("key", key).
			Msg("failed to decode settings from S3")
		return nil, err
	}

	l.logger.Info().
		Str("bucket", l.bucket).
		Str("key", key).
		Float64("shipping_fee", s.ShippingFee).
		Msg("settings loaded successfully from S3")

	return s, nil
}

// fallbackLoader tries S3 first, then the local file system.
type fallbackLoader struct {
	s3Loader   Loader
	fileLoader Loader
	s3Key      string
	logger     zerolog.Logger
}

// NewFallbackLoader creates a loader that reads s3Key from S3 and falls back
// to the local path passed to Load. If s3Loader is nil only the file loader
// is used.
func NewFallbackLoader(s3Loader, fileLoader Loader, s3Key string, logger zerolog.Logger) Loader {
	return &fallbackLoader{
		s3Loader:   s3Loader,
		fileLoader: fileLoader,
		s3Key:      s3Key,
		logger:     logger.With().Str("component", "fallback-settings-loader").Logger(),
	}
}

// Load attempts S3 first, then the local file at localPath.
func (l *fallbackLoader) Load(ctx context.Context, localPath string) (*Settings, error) {
	if l.s3Loader != nil {
		s, err := l.s3Loader.Load(ctx, l.s3Key)
		if err == nil {
			return s, nil
		}

		if localPath == "" {
			return nil, err
		}

		l.logger.Warn().
			Err(err).
			Str("s3_key", l.s3Key).
			Str("local_fallback", localPath).
			Msg("failed to load settings from S3, falling back to local file system")
	}

	if localPath == "" {
		return nil, fmt.Errorf("no settings source configured")
	}

	return l.fileLoader.Load(ctx, localPath)
}
