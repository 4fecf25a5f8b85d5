// Package sqlite stores documents in a single SQL table.
// Metadata is kept as a JSON column, so any database/sql driver speaking
// SQLite's dialect works; Open wires the pure-Go modernc driver.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aretw0/introspection"
	_ "modernc.org/sqlite"

	"github.com/aretw0/loamenum/pkg/core"
)

// DefaultTable is the table used when Config.Table is empty.
const DefaultTable = "documents"

// Config configures the SQL repository.
type Config struct {
	Table  string
	Logger *slog.Logger
}

// Repository implements core.Repository on top of *sql.DB.
type Repository struct {
	db     *sql.DB
	table  string
	logger *slog.Logger
}

// Open opens (or creates) a SQLite database file.
// Use ":memory:" for a throwaway database.
func Open(path string, cfg Config) (*Repository, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// A single connection keeps ":memory:" databases alive and serialises writers.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("set pragma: %w", err)
		}
	}
	return NewRepository(db, cfg), nil
}

// NewRepository wraps an existing connection.
func NewRepository(db *sql.DB, cfg Config) *Repository {
	if cfg.Table == "" {
		cfg.Table = DefaultTable
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Repository{db: db, table: cfg.Table, logger: cfg.Logger}
}

// Close releases the underlying connection.
func (r *Repository) Close() error {
	return r.db.Close()
}

// Initialize creates the documents table.
func (r *Repository) Initialize(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		id TEXT PRIMARY KEY,
		content TEXT NOT NULL DEFAULT '',
		metadata TEXT NOT NULL DEFAULT '{}'
	)`, r.table))
	if err != nil {
		return fmt.Errorf("create table: %w", err)
	}
	return nil
}

// Save upserts a document.
func (r *Repository) Save(ctx context.Context, doc core.Document) error {
	if doc.ID == "" {
		return core.ErrEmptyID
	}
	meta := doc.Metadata
	if meta == nil {
		meta = core.Metadata{}
	}
	data, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("marshal metadata: %w", err)
	}

	_, err = r.db.ExecContext(ctx, fmt.Sprintf(
		`INSERT INTO %s (id, content, metadata) VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET content = excluded.content, metadata = excluded.metadata`, r.table),
		doc.ID, doc.Content, string(data))
	if err != nil {
		return fmt.Errorf("save %s: %w", doc.ID, err)
	}
	r.logger.Debug("document saved", "id", doc.ID, "table", r.table)
	return nil
}

// Get loads a document by ID.
func (r *Repository) Get(ctx context.Context, id string) (core.Document, error) {
	row := r.db.QueryRowContext(ctx, fmt.Sprintf(`SELECT content, metadata FROM %s WHERE id = ?`, r.table), id)

	var content, raw string
	if err := row.Scan(&content, &raw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.Document{}, fmt.Errorf("%s: %w", id, core.ErrNotFound)
		}
		return core.Document{}, fmt.Errorf("get %s: %w", id, err)
	}
	return decode(id, content, raw)
}

// List returns every document ordered by ID.
func (r *Repository) List(ctx context.Context) ([]core.Document, error) {
	rows, err := r.db.QueryContext(ctx, fmt.Sprintf(`SELECT id, content, metadata FROM %s ORDER BY id`, r.table))
	if err != nil {
		return nil, fmt.Errorf("list: %w", err)
	}
	defer rows.Close()

	var docs []core.Document
	for rows.Next() {
		var id, content, raw string
		if err := rows.Scan(&id, &content, &raw); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		doc, err := decode(id, content, raw)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

// Delete removes a document.
func (r *Repository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s WHERE id = ?`, r.table), id)
	if err != nil {
		return fmt.Errorf("delete %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete %s: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", id, core.ErrNotFound)
	}
	return nil
}

func decode(id, content, raw string) (core.Document, error) {
	meta := core.Metadata{}
	if err := json.Unmarshal([]byte(raw), &meta); err != nil {
		return core.Document{}, fmt.Errorf("decode metadata of %s: %w", id, err)
	}
	return core.Document{ID: id, Content: content, Metadata: meta}, nil
}

// State implements introspection.Introspectable.
func (r *Repository) State() any {
	stats := r.db.Stats()
	return map[string]any{
		"table":            r.table,
		"open_connections": stats.OpenConnections,
	}
}

// ComponentType implements introspection.Component.
func (r *Repository) ComponentType() string {
	return "sqlite"
}

var _ core.Repository = (*Repository)(nil)
var _ introspection.Component = (*Repository)(nil)
