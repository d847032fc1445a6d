// Package registrydb serves the hygiene registry and violation history from
// a Postgres mirror of the public datasets.
package registrydb

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/rs/zerolog"

	"github.com/safetable/safetable/pkg/normalize"
	"github.com/safetable/safetable/pkg/restaurant"
	"github.com/safetable/safetable/pkg/source"
)

// Name identifies this backend in errors and logs.
const Name = "registrydb"

// Store implements source.Registry and source.Violations over Postgres.
type Store struct {
	db  *sql.DB
	log zerolog.Logger
}

// New creates a Store. The schema must already be migrated.
func New(db *sql.DB, log zerolog.Logger) *Store {
	return &Store{db: db, log: log.With().Str("component", Name).Logger()}
}

const recordColumns = `name, address, lot_address, region, business_type, raw_grade, licensed_at`

func scanRecords(rows *sql.Rows) ([]restaurant.CandidateRecord, error) {
	defer rows.Close()
	var out []restaurant.CandidateRecord
	for rows.Next() {
		var r restaurant.CandidateRecord
		var licensed sql.NullTime
		if err := rows.Scan(&r.Name, &r.Address, &r.LotAddress, &r.Region, &r.BusinessType, &r.RawGrade, &licensed); err != nil {
			return nil, fmt.Errorf("scan registry record: %w", err)
		}
		if licensed.Valid {
			t := licensed.Time.UTC()
			r.LicensedAt = &t
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// FindExact implements source.Registry.
func (s *Store) FindExact(ctx context.Context, name, region string) (*restaurant.CandidateRecord, error) {
	key, lit := normalize.Compact(name), normalize.Literal(name)
	if key == "" {
		return nil, nil
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+recordColumns+`
		 FROM registry_records
		 WHERE name_key = $1 OR name_literal = $2
		 ORDER BY id`,
		key, lit,
	)
	if err != nil {
		return nil, source.Wrap(Name, fmt.Errorf("find %q: %w", name, err))
	}
	recs, err := scanRecords(rows)
	if err != nil {
		return nil, source.Wrap(Name, err)
	}
	return source.PickExact(recs, name, region), nil
}

// SearchPartial implements source.Registry.
func (s *Store) SearchPartial(ctx context.Context, name, region string) (*restaurant.SearchPage, error) {
	key := normalize.Compact(name)
	if key == "" {
		return &restaurant.SearchPage{Items: []restaurant.CandidateRecord{}}, nil
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+recordColumns+`
		 FROM registry_records
		 WHERE name_key <> '' AND (strpos(name_key, $1) > 0 OR strpos($1, name_key) > 0)
		 ORDER BY id`,
		key,
	)
	if err != nil {
		return nil, source.Wrap(Name, fmt.Errorf("search %q: %w", name, err))
	}
	recs, err := scanRecords(rows)
	if err != nil {
		return nil, source.Wrap(Name, err)
	}
	return source.FilterPartial(recs, name, region), nil
}

// GetHistory implements source.Violations. Actions are attributed by literal
// name so one branch never inherits another's record.
func (s *Store) GetHistory(ctx context.Context, name, region string) (*restaurant.ViolationHistory, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name, address, lot_address, region, action_date, action_type, reason
		 FROM violation_records
		 WHERE name_literal = $1
		 ORDER BY action_date DESC NULLS LAST, id`,
		normalize.Literal(name),
	)
	if err != nil {
		return nil, source.Wrap(Name, fmt.Errorf("history %q: %w", name, err))
	}
	defer rows.Close()

	h := restaurant.EmptyHistory()
	for rows.Next() {
		var v restaurant.ViolationRecord
		var date sql.NullTime
		if err := rows.Scan(&v.Name, &v.Address, &v.LotAddress, &v.Region, &date, &v.Type, &v.Reason); err != nil {
			return nil, source.Wrap(Name, fmt.Errorf("scan violation: %w", err))
		}
		if date.Valid {
			t := date.Time.UTC()
			v.Date = &t
		}
		if source.InRegion(v.Holder(), region) {
			h.RecentItems = append(h.RecentItems, v.Item())
		}
	}
	if err := rows.Err(); err != nil {
		return nil, source.Wrap(Name, err)
	}
	h.TotalCount = len(h.RecentItems)
	return &h, nil
}

// ImportStats reports what an Import wrote.
type ImportStats struct {
	Records    int
	Violations int
}

// Import replaces the registry and violation tables with the given rows in
// one transaction.
func (s *Store) Import(ctx context.Context, records []restaurant.CandidateRecord, violations []restaurant.ViolationRecord) (ImportStats, error) {
	var stats ImportStats
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return stats, fmt.Errorf("begin import: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, `TRUNCATE registry_records, violation_records`); err != nil {
		return stats, fmt.Errorf("truncate: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, pq.CopyIn("registry_records",
		"name", "name_key", "name_literal", "address", "lot_address", "region", "business_type", "raw_grade", "licensed_at"))
	if err != nil {
		return stats, fmt.Errorf("prepare registry copy: %w", err)
	}
	for _, r := range records {
		if _, err := stmt.ExecContext(ctx, r.Name, normalize.Compact(r.Name), normalize.Literal(r.Name),
			r.Address, r.LotAddress, r.Region, r.BusinessType, r.RawGrade, nullDate(r.LicensedAt)); err != nil {
			stmt.Close()
			return stats, fmt.Errorf("copy record %q: %w", r.Name, err)
		}
		stats.Records++
	}
	if _, err := stmt.ExecContext(ctx); err != nil {
		stmt.Close()
		return stats, fmt.Errorf("flush registry copy: %w", err)
	}
	stmt.Close()

	stmt, err = tx.PrepareContext(ctx, pq.CopyIn("violation_records",
		"name", "name_literal", "address", "lot_address", "region", "action_date", "action_type", "reason"))
	if err != nil {
		return stats, fmt.Errorf("prepare violation copy: %w", err)
	}
	for _, v := range violations {
		if _, err := stmt.ExecContext(ctx, v.Name, normalize.Literal(v.Name),
			v.Address, v.LotAddress, v.Region, nullDate(v.Date), v.Type, v.Reason); err != nil {
			stmt.Close()
			return stats, fmt.Errorf("copy violation %q: %w", v.Name, err)
		}
		stats.Violations++
	}
	if _, err := stmt.ExecContext(ctx); err != nil {
		stmt.Close()
		return stats, fmt.Errorf("flush violation copy: %w", err)
	}
	stmt.Close()

	if err := tx.Commit(); err != nil {
		return stats, fmt.Errorf("commit import: %w", err)
	}
	s.log.Info().Int("records", stats.Records).Int("violations", stats.Violations).Msg("registry imported")
	return stats, nil
}

func nullDate(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

// Ping checks connectivity for health probes.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

var (
	_ source.Registry   = (*Store)(nil)
	_ source.Violations = (*Store)(nil)
)
