// Package dataset loads registry datasets (hygiene records plus violation
// actions) from blob storage and serves them from an in-memory index.
package dataset

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Storage abstracts the blob store holding dataset files. Remote stores keep
// meta as object metadata and refuse to download blobs of a newer format.
type Storage interface {
	Put(ctx context.Context, key string, data []byte, meta Meta) error
	Get(ctx context.Context, key string) ([]byte, error)
}

// LocalStorage implements Storage using the local filesystem.
type LocalStorage struct {
	BaseDir string
}

// NewLocalStorage creates a LocalStorage rooted at the given directory.
func NewLocalStorage(baseDir string) *LocalStorage {
	return &LocalStorage{BaseDir: baseDir}
}

func (s *LocalStorage) path(key string) string {
	return filepath.Join(s.BaseDir, filepath.FromSlash(key))
}

// Put stores a blob, creating parent directories. The file body already
// carries its version, so meta is not written.
func (s *LocalStorage) Put(ctx context.Context, key string, data []byte, _ Meta) error {
	p := s.path(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}
	return os.WriteFile(p, data, 0o644)
}

// Get retrieves a blob.
func (s *LocalStorage) Get(ctx context.Context, key string) ([]byte, error) {
	return os.ReadFile(s.path(key))
}

// Location is a parsed dataset URI.
type Location struct {
	Scheme string // "file", "s3" or "gs"
	Bucket string
	Key    string
}

// ParseURI splits "s3://bucket/key", "gs://bucket/key" or a plain file path.
// File paths are split into directory (Bucket) and file name (Key).
func ParseURI(uri string) (Location, error) {
	uri = strings.TrimSpace(uri)
	if uri == "" {
		return Location{}, fmt.Errorf("empty dataset uri")
	}
	for _, scheme := range []string{"s3", "gs"} {
		rest, ok := strings.CutPrefix(uri, scheme+"://")
		if !ok {
			continue
		}
		bucket, key, _ := strings.Cut(rest, "/")
		if bucket == "" || key == "" {
			return Location{}, fmt.Errorf("dataset uri %q needs a bucket and an object key", uri)
		}
		return Location{Scheme: scheme, Bucket: bucket, Key: key}, nil
	}
	path := strings.TrimPrefix(uri, "file://")
	return Location{Scheme: "file", Bucket: filepath.Dir(path), Key: filepath.Base(path)}, nil
}

// OpenStorage returns the Storage for a Location.
func OpenStorage(ctx context.Context, loc Location, s3cfg S3Config) (Storage, error) {
	switch loc.Scheme {
	case "s3":
		s3cfg.Bucket = loc.Bucket
		return NewS3Storage(ctx, s3cfg)
	case "gs":
		return NewGCSStorage(ctx, loc.Bucket)
	default:
		return NewLocalStorage(loc.Bucket), nil
	}
}
