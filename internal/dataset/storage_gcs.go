package dataset

import (
	"context"
	"fmt"
	"io"

	gcs "cloud.google.com/go/storage"
)

// GCSStorage keeps dataset blobs in Google Cloud Storage.
type GCSStorage struct {
	client *gcs.Client
	bucket string
}

// NewGCSStorage creates a GCS-backed Storage using Application Default
// Credentials.
func NewGCSStorage(ctx context.Context, bucket string) (*GCSStorage, error) {
	client, err := gcs.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("create gcs client: %w", err)
	}
	return &GCSStorage{client: client, bucket: bucket}, nil
}

// Put uploads a dataset blob with its summary as object metadata.
func (s *GCSStorage) Put(ctx context.Context, key string, data []byte, meta Meta) error {
	w := s.client.Bucket(s.bucket).Object(key).NewWriter(ctx)
	w.ContentType = "application/json"
	w.Metadata = meta.Metadata()
	if _, err := w.Write(data); err != nil {
		w.Close()
		return fmt.Errorf("gcs write dataset %s: %w", key, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("gcs close dataset %s: %w", key, err)
	}
	return nil
}

// Get downloads a dataset blob. The metadata is checked first, and the body
// is read from the same generation so a concurrent upload cannot swap it.
func (s *GCSStorage) Get(ctx context.Context, key string) ([]byte, error) {
	obj := s.client.Bucket(s.bucket).Object(key)
	attrs, err := obj.Attrs(ctx)
	if err != nil {
		return nil, fmt.Errorf("gcs stat dataset %s: %w", key, err)
	}
	if err := checkMetadata(key, attrs.Metadata); err != nil {
		return nil, err
	}
	r, err := obj.If(gcs.Conditions{GenerationMatch: attrs.Generation}).NewReader(ctx)
	if err != nil {
		return nil, fmt.Errorf("gcs read dataset %s: %w", key, err)
	}
	defer r.Close()
	return io.ReadAll(r)
}
