package storage

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/rs/zerolog"
)

// ArtifactStore removes externally stored artifacts (invoices, uploaded
// images) that belong to deleted orders. Callers treat failures as warnings;
// cleanup runs after the owning transaction has committed and is never
// rolled back.
type ArtifactStore interface {
	// RemovePrefix deletes every object stored under the given key prefix.
	RemovePrefix(ctx context.Context, prefix string) error
}

// NopArtifactStore ignores all cleanup requests. Used when S3 is disabled.
type NopArtifactStore struct{}

func (NopArtifactStore) RemovePrefix(ctx context.Context, prefix string) error { return nil }

// s3ArtifactStore implements ArtifactStore against an S3 bucket.
type s3ArtifactStore struct {
	client *s3.Client
	bucket string
	logger zerolog.Logger
}

// NewS3ArtifactStore creates an S3-backed artifact store.
func NewS3ArtifactStore(ctx context.Context, bucket, region string, logger zerolog.Logger) (ArtifactStore, error) {
	logger = logger.With().Str("component", "s3-artifact-store").Logger()

	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		logger.Error().Err(err).Msg("failed to load AWS configuration")
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	client := s3.NewFromConfig(cfg)

	logger.Info().
		Str("bucket", bucket).
		Str("region", region).
		Msg("S3 artifact store initialised")

	return &s3ArtifactStore{
		client: client,
		bucket: bucket,
		logger: logger,
	}, nil
}

// RemovePrefix lists all objects under the prefix and deletes them in
// batches of up to 1000, the DeleteObjects limit.
func (s *s3ArtifactStore) RemovePrefix(ctx context.Context, prefix string) error {
	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(prefix),
	})

	var removed int
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return fmt.Errorf("failed to list artifacts under %s: %w", prefix, err)
		}

		if len(page.Contents) == 0 {
			continue
		}

		objects := make([]types.ObjectIdentifier, 0, len(page.Contents))
		for _, obj := range page.Contents {
			objects = append(objects, types.ObjectIdentifier{Key: obj.Key})
		}

		_, err = s.client.DeleteObjects(ctx, &s3.DeleteObjectsInput{
			Bucket: aws.String(s.bucket),
			Delete: &types.Delete{
				Objects: objects,
				Quiet:   aws.Bool(true),
			},
		})
		if err != nil {
			return fmt.Errorf("failed to delete artifacts under %s: %w", prefix, err)
		}
		removed += len(objects)
	}

	s.logger.Debug().
		Str("prefix", prefix).
		Int("removed", removed).
		Msg("artifacts removed")

	return nil
}
