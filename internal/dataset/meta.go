package dataset

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Object metadata keys written next to dataset blobs in S3 and GCS.
const (
	metaFormatVersion = "safetable-format-version"
	metaGeneratedAt   = "safetable-generated-at"
	metaRecords       = "safetable-records"
	metaViolations    = "safetable-violations"
)

// Meta summarizes a stored dataset so a blob can be vetted before its body
// is downloaded.
type Meta struct {
	Version     int
	GeneratedAt time.Time
	Records     int
	Violations  int
}

// Meta returns the summary stored alongside ds.
func (ds *Dataset) Meta() Meta {
	return Meta{
		Version:     FormatVersion,
		GeneratedAt: ds.GeneratedAt,
		Records:     len(ds.Records),
		Violations:  len(ds.Violations),
	}
}

// Metadata renders m as blob object metadata.
func (m Meta) Metadata() map[string]string {
	md := map[string]string{
		metaFormatVersion: strconv.Itoa(m.Version),
		metaRecords:       strconv.Itoa(m.Records),
		metaViolations:    strconv.Itoa(m.Violations),
	}
	if !m.GeneratedAt.IsZero() {
		md[metaGeneratedAt] = m.GeneratedAt.UTC().Format(time.RFC3339)
	}
	return md
}

// ParseMetadata reads Meta back from object metadata. Keys are matched
// case-insensitively. ok is false when the object carries no dataset
// metadata, e.g. a blob uploaded by hand.
func ParseMetadata(md map[string]string) (m Meta, ok bool, err error) {
	lower := make(map[string]string, len(md))
	for k, v := range md {
		lower[strings.ToLower(k)] = v
	}
	v, ok := lower[metaFormatVersion]
	if !ok {
		return Meta{}, false, nil
	}
	if m.Version, err = strconv.Atoi(v); err != nil {
		return Meta{}, true, fmt.Errorf("%s: %w", metaFormatVersion, err)
	}
	if v := lower[metaRecords]; v != "" {
		if m.Records, err = strconv.Atoi(v); err != nil {
			return Meta{}, true, fmt.Errorf("%s: %w", metaRecords, err)
		}
	}
	if v := lower[metaViolations]; v != "" {
		if m.Violations, err = strconv.Atoi(v); err != nil {
			return Meta{}, true, fmt.Errorf("%s: %w", metaViolations, err)
		}
	}
	if v := lower[metaGeneratedAt]; v != "" {
		if m.GeneratedAt, err = time.Parse(time.RFC3339, v); err != nil {
			return Meta{}, true, fmt.Errorf("%s: %w", metaGeneratedAt, err)
		}
	}
	return m, true, nil
}

// checkMetadata rejects a blob whose metadata names a newer format than
// this build reads.
func checkMetadata(key string, md map[string]string) error {
	m, ok, err := ParseMetadata(md)
	if err != nil {
		return fmt.Errorf("dataset %s: bad metadata: %w", key, err)
	}
	if ok && m.Version > FormatVersion {
		return fmt.Errorf("dataset %s: version %d is newer than supported version %d", key, m.Version, FormatVersion)
	}
	return nil
}
