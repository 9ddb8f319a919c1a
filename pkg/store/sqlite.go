package store

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"tableflip.dev/taskq/pkg/entry"
)

//go:embed schema.sql
var schema string

const dbFile = "taskq.db"

type sqlitePersistence struct {
	db       *sql.DB
	basePath string
}

func openSQLite(basePath string) (*sqlitePersistence, error) {
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("store: ensure base path: %w", err)
	}
	db, err := sql.Open("sqlite3", filepath.Join(basePath, dbFile)+"?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return &sqlitePersistence{db: db, basePath: basePath}, nil
}

func (s *sqlitePersistence) Close() error {
	return s.db.Close()
}

func (s *sqlitePersistence) Load(ctx context.Context) (Snapshot, error) {
	tagsByEntry, err := s.entryTags(ctx)
	if err != nil {
		return Snapshot{}, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, kind, title, description, marked, deadline, start_at, end_at, last_modified
		 FROM entries ORDER BY position`)
	if err != nil {
		return Snapshot{}, fmt.Errorf("list entries: %w", err)
	}
	defer rows.Close()

	var snap Snapshot
	for rows.Next() {
		var (
			r                    entry.Record
			deadline, start, end sql.NullString
			modified             string
		)
		if err := rows.Scan(&r.ID, &r.Kind, &r.Title, &r.Description, &r.Marked,
			&deadline, &start, &end, &modified); err != nil {
			return Snapshot{}, fmt.Errorf("scan entry: %w", err)
		}
		if r.Deadline, err = nullTime(deadline); err != nil {
			return Snapshot{}, fmt.Errorf("entry %s deadline: %w", r.ID, err)
		}
		if r.Start, err = nullTime(start); err != nil {
			return Snapshot{}, fmt.Errorf("entry %s start: %w", r.ID, err)
		}
		if r.End, err = nullTime(end); err != nil {
			return Snapshot{}, fmt.Errorf("entry %s end: %w", r.ID, err)
		}
		if r.LastModified.Time, err = entry.ParseTime(modified); err != nil {
			return Snapshot{}, fmt.Errorf("entry %s last modified: %w", r.ID, err)
		}
		r.Tags = tagsByEntry[r.ID]

		e, err := entry.FromRecord(r)
		if err != nil {
			return Snapshot{}, err
		}
		snap.Entries = append(snap.Entries, e)
	}
	if err := rows.Err(); err != nil {
		return Snapshot{}, fmt.Errorf("list entries: %w", err)
	}

	if snap.Tags, err = s.registry(ctx); err != nil {
		return Snapshot{}, err
	}
	return snap, nil
}

func (s *sqlitePersistence) entryTags(ctx context.Context) (map[string][]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT entry_id, tag FROM entry_tags ORDER BY tag")
	if err != nil {
		return nil, fmt.Errorf("list entry tags: %w", err)
	}
	defer rows.Close()

	out := make(map[string][]string)
	for rows.Next() {
		var id, name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, fmt.Errorf("scan entry tag: %w", err)
		}
		out[id] = append(out[id], name)
	}
	return out, rows.Err()
}

func (s *sqlitePersistence) registry(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT name FROM tags ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan tag: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// Save replaces the stored snapshot in one transaction.
func (s *sqlitePersistence) Save(ctx context.Context, snap Snapshot) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, stmt := range []string{"DELETE FROM entry_tags", "DELETE FROM entries", "DELETE FROM tags"} {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("reset: %w", err)
		}
	}

	for i, e := range snap.Entries {
		r := e.Record()
		_, err := tx.ExecContext(ctx,
			`INSERT INTO entries (id, position, kind, title, description, marked, deadline, start_at, end_at, last_modified)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			r.ID, i, r.Kind, r.Title, r.Description, r.Marked,
			timeValue(r.Deadline), timeValue(r.Start), timeValue(r.End),
			entry.FormatTime(r.LastModified.Time),
		)
		if err != nil {
			return fmt.Errorf("insert entry: %w", err)
		}
		for _, name := range r.Tags {
			if _, err := tx.ExecContext(ctx,
				"INSERT INTO entry_tags (entry_id, tag) VALUES (?, ?)", r.ID, name); err != nil {
				return fmt.Errorf("insert entry tag: %w", err)
			}
		}
	}
	for _, name := range snap.Tags {
		if _, err := tx.ExecContext(ctx, "INSERT INTO tags (name) VALUES (?)", name); err != nil {
			return fmt.Errorf("insert tag: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (s *sqlitePersistence) Watch(ctx context.Context) (<-chan Event, error) {
	return watchDir(ctx, s.basePath, func(path string) (string, bool) {
		// Journal and WAL files count as the database.
		if strings.HasPrefix(filepath.Base(path), dbFile) {
			return dbFile, true
		}
		return "", false
	})
}

func timeValue(ts *entry.Timestamp) interface{} {
	if ts == nil || ts.IsZero() {
		return nil
	}
	return entry.FormatTime(ts.Time)
}

func nullTime(v sql.NullString) (*entry.Timestamp, error) {
	if !v.Valid || v.String == "" {
		return nil, nil
	}
	t, err := entry.ParseTime(v.String)
	if err != nil {
		return nil, err
	}
	return &entry.Timestamp{Time: t}, nil
}
