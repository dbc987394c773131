// Package archive stores finalized report sets in a local SQLite database so
// a later run can be compared against a saved baseline by label.
package archive

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"

	"github.com/dkoosis/rundiff/pkg/result"
)

// ErrNotFound is returned when no snapshot carries the requested label.
var ErrNotFound = errors.New("snapshot not found")

// Kind distinguishes the record type a snapshot holds.
type Kind string

const (
	KindTests    Kind = "tests"
	KindCoverage Kind = "coverage"
)

// Snapshot describes a stored report set without its records.
type Snapshot struct {
	ID        string    `json:"id"`
	Kind      Kind      `json:"kind"`
	Label     string    `json:"label"`
	CreatedAt time.Time `json:"created_at"`
	Records   int       `json:"records"`
}

// Store is a snapshot archive backed by one SQLite file.
type Store struct {
	db  *sql.DB
	log zerolog.Logger
	now func() time.Time
}

// Open opens (creating if needed) the archive at path and initializes the schema.
func Open(ctx context.Context, path string, log zerolog.Logger) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create archive dir: %w", err)
		}
	}

	dsn := path + "?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	s := &Store{db: db, log: log, now: time.Now}
	if err := s.initSchema(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	log.Debug().Str("path", path).Msg("archive opened")
	return s, nil
}

func (s *Store) initSchema(ctx context.Context) error {
	const schema = `
CREATE TABLE IF NOT EXISTS snapshots (
    id TEXT PRIMARY KEY,
    kind TEXT NOT NULL,
    label TEXT NOT NULL,
    created_at INTEGER NOT NULL,
    record_count INTEGER NOT NULL DEFAULT 0,
    meta TEXT NOT NULL DEFAULT '{}',
    records TEXT NOT NULL DEFAULT '[]'
);
CREATE INDEX IF NOT EXISTS idx_snapshots_label ON snapshots(kind, label, created_at);
`
	_, err := s.db.ExecContext(ctx, schema)
	return err
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveTests stores a test set under label and returns the new snapshot id.
func (s *Store) SaveTests(ctx context.Context, label string, set *result.TestSet) (string, error) {
	return save(ctx, s, KindTests, label, set)
}

// SaveCoverage stores a coverage set under label and returns the new snapshot id.
func (s *Store) SaveCoverage(ctx context.Context, label string, set *result.CoverageSet) (string, error) {
	return save(ctx, s, KindCoverage, label, set)
}

func save[R result.Record](ctx context.Context, s *Store, kind Kind, label string, set *result.Set[R]) (string, error) {
	if label == "" {
		return "", errors.New("snapshot label is required")
	}
	if set == nil {
		return "", errors.New("snapshot set is nil")
	}
	meta, err := json.Marshal(set.Meta())
	if err != nil {
		return "", fmt.Errorf("marshal metadata: %w", err)
	}
	records, err := json.Marshal(set.Records())
	if err != nil {
		return "", fmt.Errorf("marshal records: %w", err)
	}

	id := uuid.NewString()
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO snapshots (id, kind, label, created_at, record_count, meta, records) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, string(kind), label, s.now().UnixNano(), set.Len(), string(meta), string(records))
	if err != nil {
		return "", fmt.Errorf("insert snapshot: %w", err)
	}
	s.log.Info().Str("id", id).Str("kind", string(kind)).Str("label", label).Int("records", set.Len()).Msg("snapshot saved")
	return id, nil
}

// LoadTests returns the most recent test snapshot saved under label.
func (s *Store) LoadTests(ctx context.Context, label string) (*result.TestSet, error) {
	meta, recs, err := load[result.TestRecord](ctx, s, KindTests, label)
	if err != nil {
		return nil, err
	}
	return result.NewTestSet(meta, recs)
}

// LoadCoverage returns the most recent coverage snapshot saved under label.
func (s *Store) LoadCoverage(ctx context.Context, label string) (*result.CoverageSet, error) {
	meta, recs, err := load[result.CoverageRecord](ctx, s, KindCoverage, label)
	if err != nil {
		return nil, err
	}
	return result.NewCoverageSet(meta, recs)
}

func load[R result.Record](ctx context.Context, s *Store, kind Kind, label string) (result.Metadata, []R, error) {
	var meta result.Metadata
	var metaJSON, recordsJSON string
	err := s.db.QueryRowContext(ctx,
		`SELECT meta, records FROM snapshots WHERE kind = ? AND label = ? ORDER BY created_at DESC LIMIT 1`,
		string(kind), label).Scan(&metaJSON, &recordsJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return meta, nil, fmt.Errorf("%w: %s snapshot %q", ErrNotFound, kind, label)
	}
	if err != nil {
		return meta, nil, fmt.Errorf("query snapshot: %w", err)
	}

	if err := json.Unmarshal([]byte(metaJSON), &meta); err != nil {
		return meta, nil, fmt.Errorf("decode metadata: %w", err)
	}
	var recs []R
	if err := json.Unmarshal([]byte(recordsJSON), &recs); err != nil {
		return meta, nil, fmt.Errorf("decode records: %w", err)
	}
	meta.Origin = "snapshot:" + label
	s.log.Debug().Str("kind", string(kind)).Str("label", label).Int("records", len(recs)).Msg("snapshot loaded")
	return meta, recs, nil
}

// List returns every snapshot, newest first.
func (s *Store) List(ctx context.Context) ([]Snapshot, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, kind, label, created_at, record_count FROM snapshots ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	defer rows.Close()

	var out []Snapshot
	for rows.Next() {
		var snap Snapshot
		var kind string
		var created int64
		if err := rows.Scan(&snap.ID, &kind, &snap.Label, &created, &snap.Records); err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		snap.Kind = Kind(kind)
		snap.CreatedAt = time.Unix(0, created).UTC()
		out = append(out, snap)
	}
	return out, rows.Err()
}
