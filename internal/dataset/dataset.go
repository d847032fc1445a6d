package dataset

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/safetable/safetable/pkg/restaurant"
)

// FormatVersion is the dataset file format written by Encode.
const FormatVersion = 1

// Dataset is a snapshot of the hygiene registry and the violation actions.
type Dataset struct {
	Version     int                          `json:"version"`
	GeneratedAt time.Time                    `json:"generated_at"`
	Records     []restaurant.CandidateRecord `json:"records"`
	Violations  []restaurant.ViolationRecord `json:"violations"`
}

// Decode parses and validates a dataset file.
func Decode(data []byte) (*Dataset, error) {
	var ds Dataset
	if err := json.Unmarshal(data, &ds); err != nil {
		return nil, fmt.Errorf("parse dataset: %w", err)
	}
	if ds.Version > FormatVersion {
		return nil, fmt.Errorf("dataset version %d is newer than supported version %d", ds.Version, FormatVersion)
	}
	for i, r := range ds.Records {
		if strings.TrimSpace(r.Name) == "" {
			return nil, fmt.Errorf("record %d: name is required", i)
		}
	}
	for i, v := range ds.Violations {
		if strings.TrimSpace(v.Name) == "" {
			return nil, fmt.Errorf("violation %d: name is required", i)
		}
	}
	return &ds, nil
}

// Encode serializes ds, stamping the current format version.
func Encode(ds *Dataset) ([]byte, error) {
	out := *ds
	out.Version = FormatVersion
	return json.MarshalIndent(&out, "", "  ")
}

// Load reads and decodes the dataset stored under key.
func Load(ctx context.Context, st Storage, key string) (*Dataset, error) {
	data, err := st.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("read dataset %s: %w", key, err)
	}
	return Decode(data)
}

// Save encodes ds and stores it under key.
func Save(ctx context.Context, st Storage, key string, ds *Dataset) error {
	data, err := Encode(ds)
	if err != nil {
		return fmt.Errorf("encode dataset: %w", err)
	}
	return st.Put(ctx, key, data, ds.Meta())
}
