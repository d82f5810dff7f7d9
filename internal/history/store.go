// Package history keeps snapshots of roadmap progress in a local SQLite
// database so completion can be followed over time.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/marcus/roadmap/internal/roadmap"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS snapshot (
	id          TEXT PRIMARY KEY,
	recorded_at INTEGER NOT NULL,
	fingerprint TEXT NOT NULL,
	done        INTEGER NOT NULL,
	total       INTEGER NOT NULL,
	high        INTEGER NOT NULL,
	medium      INTEGER NOT NULL,
	low         INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_snapshot_recorded ON snapshot(recorded_at);
CREATE TABLE IF NOT EXISTS snapshot_section (
	snapshot_id TEXT NOT NULL REFERENCES snapshot(id) ON DELETE CASCADE,
	position    INTEGER NOT NULL,
	number      TEXT NOT NULL,
	title       TEXT NOT NULL,
	done        INTEGER NOT NULL,
	total       INTEGER NOT NULL,
	PRIMARY KEY (snapshot_id, position)
);
`

// Snapshot is the recorded progress of one roadmap update.
type Snapshot struct {
	ID          string
	RecordedAt  time.Time
	Fingerprint uint64
	Overall     roadmap.Progress
	Priorities  roadmap.PriorityTally
	Sections    []roadmap.SectionSummary
}

// Store persists snapshots.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

// Open opens (creating if needed) the history database at path.
func Open(ctx context.Context, path string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create history dir: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open history: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init history schema: %w", err)
	}

	return &Store{db: db, logger: logger}, nil
}

// Close releases the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record stores a snapshot of summary unless the latest snapshot already has
// the same fingerprint. It reports whether a row was written.
func (s *Store) Record(ctx context.Context, summary roadmap.Summary, fingerprint uint64, at time.Time) (*Snapshot, bool, error) {
	latest, err := s.Latest(ctx)
	if err != nil {
		return nil, false, err
	}
	if latest != nil && latest.Fingerprint == fingerprint {
		s.logger.Debug("history unchanged", "snapshot", latest.ID)
		return latest, false, nil
	}

	snap := &Snapshot{
		ID:          uuid.NewString(),
		RecordedAt:  at.UTC(),
		Fingerprint: fingerprint,
		Overall:     summary.Overall,
		Priorities:  summary.Priorities,
		Sections:    summary.Sections,
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, false, fmt.Errorf("begin history tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO snapshot (id, recorded_at, fingerprint, done, total, high, medium, low)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		snap.ID, snap.RecordedAt.UnixMicro(), formatFingerprint(fingerprint),
		snap.Overall.Done, snap.Overall.Total,
		snap.Priorities.High, snap.Priorities.Medium, snap.Priorities.Low)
	if err != nil {
		return nil, false, fmt.Errorf("insert snapshot: %w", err)
	}

	for i, sec := range snap.Sections {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO snapshot_section (snapshot_id, position, number, title, done, total)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			snap.ID, i, sec.Number, sec.Title, sec.Progress.Done, sec.Progress.Total)
		if err != nil {
			return nil, false, fmt.Errorf("insert snapshot section: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, false, fmt.Errorf("commit snapshot: %w", err)
	}

	s.logger.Debug("history recorded", "snapshot", snap.ID, "done", snap.Overall.Done, "total", snap.Overall.Total)
	return snap, true, nil
}

// Latest returns the most recent snapshot, or nil when there is none.
func (s *Store) Latest(ctx context.Context) (*Snapshot, error) {
	snaps, err := s.Recent(ctx, 1)
	if err != nil || len(snaps) == 0 {
		return nil, err
	}
	return &snaps[0], nil
}

// Recent returns up to limit snapshots, newest first, with their sections.
func (s *Store) Recent(ctx context.Context, limit int) ([]Snapshot, error) {
	if limit <= 0 {
		return nil, nil
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, recorded_at, fingerprint, done, total, high, medium, low
		FROM snapshot
		ORDER BY recorded_at DESC, rowid DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query snapshots: %w", err)
	}
	defer rows.Close()

	var snaps []Snapshot
	for rows.Next() {
		var snap Snapshot
		var recorded int64
		var fp string
		if err := rows.Scan(&snap.ID, &recorded, &fp,
			&snap.Overall.Done, &snap.Overall.Total,
			&snap.Priorities.High, &snap.Priorities.Medium, &snap.Priorities.Low); err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		snap.RecordedAt = time.UnixMicro(recorded).UTC()
		snap.Fingerprint, err = parseFingerprint(fp)
		if err != nil {
			return nil, err
		}
		snaps = append(snaps, snap)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate snapshots: %w", err)
	}

	for i := range snaps {
		sections, err := s.sections(ctx, snaps[i].ID)
		if err != nil {
			return nil, err
		}
		snaps[i].Sections = sections
	}
	return snaps, nil
}

func (s *Store) sections(ctx context.Context, id string) ([]roadmap.SectionSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT number, title, done, total
		FROM snapshot_section
		WHERE snapshot_id = ?
		ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("query snapshot sections: %w", err)
	}
	defer rows.Close()

	var out []roadmap.SectionSummary
	for rows.Next() {
		var sec roadmap.SectionSummary
		if err := rows.Scan(&sec.Number, &sec.Title, &sec.Progress.Done, &sec.Progress.Total); err != nil {
			return nil, fmt.Errorf("scan snapshot section: %w", err)
		}
		out = append(out, sec)
	}
	return out, rows.Err()
}

// Fingerprints are stored as hex text since SQLite integers are signed.
func formatFingerprint(fp uint64) string {
	return strconv.FormatUint(fp, 16)
}

func parseFingerprint(s string) (uint64, error) {
	fp, err := strconv.ParseUint(s, 16, 64)
	if err != nil {
		return 0, fmt.Errorf("parse fingerprint %q: %w", s, err)
	}
	return fp, nil
}
