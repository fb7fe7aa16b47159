package export

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/vk/equisolve/internal/ctxlog"
)

// Store persists datasets to a SQLite database file.
type Store struct {
	db *sql.DB
}

const schemaDDL = `
CREATE TABLE IF NOT EXISTS datasets (
	id          TEXT PRIMARY KEY,
	description TEXT NOT NULL DEFAULT '',
	created_at  TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE TABLE IF NOT EXISTS components (
	dataset_id TEXT NOT NULL REFERENCES datasets(id),
	name       TEXT NOT NULL,
	PRIMARY KEY (dataset_id, name)
);
CREATE TABLE IF NOT EXISTS constraints (
	dataset_id TEXT NOT NULL REFERENCES datasets(id),
	id         TEXT NOT NULL,
	block      TEXT NOT NULL,
	tag        TEXT NOT NULL,
	indices    TEXT NOT NULL DEFAULT '',
	PRIMARY KEY (dataset_id, id)
);
CREATE TABLE IF NOT EXISTS solutions (
	dataset_id    TEXT NOT NULL REFERENCES datasets(id),
	constraint_id TEXT NOT NULL,
	dual          REAL NOT NULL DEFAULT 0,
	slack         REAL NOT NULL,
	binding       INTEGER NOT NULL,
	PRIMARY KEY (dataset_id, constraint_id)
);
`

// Open opens (or creates) the database at path and bootstraps the schema.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open dataset store %q: %w", path, err)
	}
	if _, err := db.Exec(schemaDDL); err != nil {
		db.Close()
		return nil, fmt.Errorf("bootstrap dataset schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB exposes the underlying handle for ad-hoc queries.
func (s *Store) DB() *sql.DB { return s.db }

// SaveDataset writes one dataset in a single transaction.
func (s *Store) SaveDataset(ctx context.Context, ds *Dataset) error {
	logger := ctxlog.FromContext(ctx)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin dataset transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO datasets (id, description) VALUES (?, ?)`,
		ds.ID, ds.Description); err != nil {
		return fmt.Errorf("insert dataset %q: %w", ds.ID, err)
	}

	for _, comp := range ds.Components {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO components (dataset_id, name) VALUES (?, ?)`,
			ds.ID, comp.Name); err != nil {
			return fmt.Errorf("insert component %q: %w", comp.Name, err)
		}
	}

	for _, con := range ds.Constraints {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO constraints (dataset_id, id, block, tag, indices) VALUES (?, ?, ?, ?, ?)`,
			ds.ID, con.ID, con.Block, con.Tag, strings.Join(con.Indices, ",")); err != nil {
			return fmt.Errorf("insert constraint %q: %w", con.ID, err)
		}
	}

	for _, sol := range ds.Solutions {
		binding := 0
		if sol.Binding {
			binding = 1
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO solutions (dataset_id, constraint_id, dual, slack, binding) VALUES (?, ?, ?, ?, ?)`,
			ds.ID, sol.ConstraintID, sol.Dual, sol.Slack, binding); err != nil {
			return fmt.Errorf("insert solution %q: %w", sol.ConstraintID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit dataset %q: %w", ds.ID, err)
	}

	logger.Debug("Dataset persisted.",
		"dataset", ds.ID,
		"components", len(ds.Components),
		"constraints", len(ds.Constraints),
		"solutions", len(ds.Solutions))
	return nil
}
