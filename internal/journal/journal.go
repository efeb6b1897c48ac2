// Package journal keeps a history of project revisions in a local SQLite
// database. Every committed edit stores the full project document under a
// label, so any earlier state can be listed and restored.
package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver.
)

// ErrNotFound is returned when a revision does not exist.
var ErrNotFound = errors.New("revision not found")

// schema contains the DDL executed on first open. Using IF NOT EXISTS makes
// it safe to run on every startup.
const schema = `
CREATE TABLE IF NOT EXISTS revisions (
    id         INTEGER PRIMARY KEY AUTOINCREMENT,
    project    TEXT NOT NULL,
    label      TEXT NOT NULL,
    document   BLOB NOT NULL,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS revisions_project ON revisions(project, id);
`

// Revision is one stored project state.
type Revision struct {
	ID        int64
	Project   string
	Label     string
	Document  []byte // nil in List results
	Size      int
	CreatedAt time.Time
}

// Journal stores revisions in a SQLite database in WAL mode.
type Journal struct {
	db *sql.DB
}

// Open opens (or creates) the journal database at dbPath, enables WAL mode
// and busy timeout, and creates the schema if it does not exist.
func Open(ctx context.Context, dbPath string) (*Journal, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("journal: create directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("journal: open database: %w", err)
	}

	// SQLite only supports a single writer; one connection keeps every
	// PRAGMA on the same handle.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("journal: enable WAL mode: %w", err)
	}
	if _, err := db.ExecContext(ctx, "PRAGMA busy_timeout=5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("journal: set busy timeout: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("journal: create schema: %w", err)
	}
	return &Journal{db: db}, nil
}

// Close closes the database.
func (j *Journal) Close() error {
	return j.db.Close()
}

// Record stores document as a new revision of project and returns its ID.
func (j *Journal) Record(ctx context.Context, project, label string, document []byte) (int64, error) {
	res, err := j.db.ExecContext(ctx,
		"INSERT INTO revisions (project, label, document) VALUES (?, ?, ?)",
		project, label, document)
	if err != nil {
		return 0, fmt.Errorf("journal: record %q: %w", label, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("journal: record %q: %w", label, err)
	}
	return id, nil
}

// List returns up to limit revisions of project, newest first. A limit of
// zero or less returns all of them. Documents are not loaded.
func (j *Journal) List(ctx context.Context, project string, limit int) ([]Revision, error) {
	if limit <= 0 {
		limit = -1
	}
	const q = `
		SELECT id, project, label, length(document), created_at
		FROM revisions WHERE project = ?
		ORDER BY id DESC LIMIT ?`
	rows, err := j.db.QueryContext(ctx, q, project, limit)
	if err != nil {
		return nil, fmt.Errorf("journal: list %s: %w", project, err)
	}
	defer rows.Close()

	var out []Revision
	for rows.Next() {
		var r Revision
		var ts string
		if err := rows.Scan(&r.ID, &r.Project, &r.Label, &r.Size, &ts); err != nil {
			return nil, fmt.Errorf("journal: scan revision: %w", err)
		}
		if r.CreatedAt, err = parseTimestamp(ts); err != nil {
			return nil, fmt.Errorf("journal: scan revision %d: %w", r.ID, err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("journal: list %s: %w", project, err)
	}
	return out, nil
}

// Get returns the revision with the given ID, including its document.
func (j *Journal) Get(ctx context.Context, id int64) (Revision, error) {
	var r Revision
	var ts string
	err := j.db.QueryRowContext(ctx,
		"SELECT id, project, label, document, created_at FROM revisions WHERE id = ?", id).
		Scan(&r.ID, &r.Project, &r.Label, &r.Document, &ts)
	if errors.Is(err, sql.ErrNoRows) {
		return Revision{}, fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	if err != nil {
		return Revision{}, fmt.Errorf("journal: get %d: %w", id, err)
	}
	if r.CreatedAt, err = parseTimestamp(ts); err != nil {
		return Revision{}, fmt.Errorf("journal: get %d: %w", id, err)
	}
	r.Size = len(r.Document)
	return r, nil
}

// Latest returns the newest revision of project.
func (j *Journal) Latest(ctx context.Context, project string) (Revision, error) {
	var id int64
	err := j.db.QueryRowContext(ctx,
		"SELECT id FROM revisions WHERE project = ? ORDER BY id DESC LIMIT 1", project).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return Revision{}, fmt.Errorf("%w: no revisions of %s", ErrNotFound, project)
	}
	if err != nil {
		return Revision{}, fmt.Errorf("journal: latest %s: %w", project, err)
	}
	return j.Get(ctx, id)
}

// Prune deletes all but the newest keep revisions of project and returns
// how many were removed.
func (j *Journal) Prune(ctx context.Context, project string, keep int) (int64, error) {
	const q = `
		DELETE FROM revisions WHERE project = ? AND id NOT IN (
			SELECT id FROM revisions WHERE project = ? ORDER BY id DESC LIMIT ?
		)`
	res, err := j.db.ExecContext(ctx, q, project, project, keep)
	if err != nil {
		return 0, fmt.Errorf("journal: prune %s: %w", project, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("journal: prune %s: %w", project, err)
	}
	return n, nil
}

// timestampFormats lists the layouts SQLite drivers produce for
// CURRENT_TIMESTAMP: RFC 3339 from modernc.org/sqlite, the space-separated
// form from canonical SQLite.
var timestampFormats = []string{
	time.RFC3339,
	time.DateTime,
}

func parseTimestamp(s string) (time.Time, error) {
	for _, layout := range timestampFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp format: %q", s)
}
