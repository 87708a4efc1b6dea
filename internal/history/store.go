// Package history persists posture snapshots in a local SQLite database.
// The core packages never touch storage; they only produce and consume the
// plain snapshot values stored here.
package history

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
	_ "modernc.org/sqlite"

	"github.com/quietlane/hostguard/internal/posture"
)

// ErrEmpty is returned when the history holds no snapshot yet.
var ErrEmpty = errors.New("history: no snapshots recorded")

// ErrNotFound is returned when a snapshot id does not exist.
var ErrNotFound = errors.New("history: snapshot not found")

// timeLayout is fixed-width so that lexicographic order of the stored
// column matches chronological order (RFC3339Nano trims trailing zeros
// and would not).
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

const schema = `
CREATE TABLE IF NOT EXISTS snapshots (
	id           TEXT PRIMARY KEY,
	collected_at TEXT NOT NULL,
	score        INTEGER NOT NULL,
	body         BLOB NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_snapshots_collected_at ON snapshots(collected_at);
`

// Entry is one stored snapshot with its identifier and recorded score.
type Entry struct {
	ID          string
	CollectedAt time.Time
	Score       int
	Snapshot    posture.Snapshot
}

// Meta is the listing view of a stored snapshot, without the body.
type Meta struct {
	ID          string
	CollectedAt time.Time
	Score       int
}

// Store is a snapshot log backed by SQLite.
type Store struct {
	db *sql.DB
}

// Open creates the database file (and parent directory) if needed and
// prepares the schema.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("history: create dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", "file:"+path+"?_pragma=busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("history: open db: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("history: init schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save stores a snapshot with its score under a fresh id and returns the id.
func (s *Store) Save(ctx context.Context, snap posture.Snapshot, score int) (string, error) {
	body, err := json.Marshal(snap)
	if err != nil {
		return "", fmt.Errorf("history: marshal snapshot: %w", err)
	}

	id := uuid.NewString()
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO snapshots(id, collected_at, score, body) VALUES(?,?,?,?)`,
		id, snap.CollectedAt.UTC().Format(timeLayout), score, body)
	if err != nil {
		return "", fmt.Errorf("history: insert snapshot: %w", err)
	}
	return id, nil
}

// Get loads one snapshot by id.
func (s *Store) Get(ctx context.Context, id string) (*Entry, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, collected_at, score, body FROM snapshots WHERE id = ?`, id)
	entry, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return entry, err
}

// Latest returns the most recent snapshot, or ErrEmpty.
func (s *Store) Latest(ctx context.Context) (*Entry, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, collected_at, score, body FROM snapshots
		 ORDER BY collected_at DESC LIMIT 1`)
	entry, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrEmpty
	}
	return entry, err
}

// LastTwo returns the two most recent snapshots as (previous, latest).
// With a single stored snapshot, previous is nil.
func (s *Store) LastTwo(ctx context.Context) (previous, latest *Entry, err error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, collected_at, score, body FROM snapshots
		 ORDER BY collected_at DESC LIMIT 2`)
	if err != nil {
		return nil, nil, fmt.Errorf("history: query last two: %w", err)
	}
	defer rows.Close()

	var entries []*Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, nil, err
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("history: scan last two: %w", err)
	}

	switch len(entries) {
	case 0:
		return nil, nil, ErrEmpty
	case 1:
		return nil, entries[0], nil
	default:
		return entries[1], entries[0], nil
	}
}

// List returns snapshot metadata newest first, up to limit (0 = all).
func (s *Store) List(ctx context.Context, limit int) ([]Meta, error) {
	q := `SELECT id, collected_at, score FROM snapshots ORDER BY collected_at DESC`
	args := []any{}
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("history: list: %w", err)
	}
	defer rows.Close()

	var metas []Meta
	for rows.Next() {
		var m Meta
		var ts string
		if err := rows.Scan(&m.ID, &ts, &m.Score); err != nil {
			return nil, fmt.Errorf("history: scan meta: %w", err)
		}
		m.CollectedAt, _ = time.Parse(timeLayout, ts)
		metas = append(metas, m)
	}
	return metas, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (*Entry, error) {
	var e Entry
	var ts string
	var body []byte
	if err := row.Scan(&e.ID, &ts, &e.Score, &body); err != nil {
		return nil, err
	}
	e.CollectedAt, _ = time.Parse(timeLayout, ts)
	if err := json.Unmarshal(body, &e.Snapshot); err != nil {
		return nil, fmt.Errorf("history: unmarshal snapshot %s: %w", e.ID, err)
	}
	return &e, nil
}
