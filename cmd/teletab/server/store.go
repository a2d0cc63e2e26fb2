package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// ObjectType enumerates the domain object kinds the application knows how
// to create and render.
type ObjectType string

const (
	TypeSineWaveGenerator ObjectType = "Sine Wave Generator"
	TypeTelemetryTable    ObjectType = "Telemetry Table"
)

// Valid reports whether the type is one of the enumerated kinds.
func (t ObjectType) Valid() bool {
	switch t {
	case TypeSineWaveGenerator, TypeTelemetryTable:
		return true
	}
	return false
}

// Object is a domain object in the registry. Objects are created through
// the fixture API and addressed by their view URL.
type Object struct {
	ID        string     `json:"id"`
	Type      ObjectType `json:"type"`
	Name      string     `json:"name"`
	URL       string     `json:"url"`
	CreatedAt time.Time  `json:"created_at"`
}

// ErrObjectNotFound is returned when no object carries the requested ID.
var ErrObjectNotFound = errors.New("object not found")

// timeLayout is RFC3339 with fixed-width nanoseconds. created_at is a TEXT
// column ordered under SQLite's BINARY collation, so the rendering must
// sort bytewise in time order. RFC3339Nano trims trailing fractional
// zeros and breaks that for timestamps inside the same second.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Store persists the domain object registry in SQLite.
type Store struct {
	db *sql.DB
}

// OpenStore opens (and if needed initializes) the registry at path.
// ":memory:" keeps the registry in memory for tests.
func OpenStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", path, err)
	}
	// An in-memory SQLite database exists per connection; pin the pool
	// to one connection so every query sees the same registry.
	if path == ":memory:" || strings.Contains(path, "mode=memory") {
		db.SetMaxOpenConns(1)
	}

	const schema = `
CREATE TABLE IF NOT EXISTS objects (
	id         TEXT PRIMARY KEY,
	type       TEXT NOT NULL,
	name       TEXT NOT NULL,
	url        TEXT NOT NULL,
	created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_objects_type ON objects(type);`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: init schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Create inserts a new object of the given type. An empty name gets the
// default "<Type> <short-id>" form.
func (s *Store) Create(ctx context.Context, typ ObjectType, name string) (Object, error) {
	if !typ.Valid() {
		return Object{}, fmt.Errorf("store: unknown object type %q", typ)
	}
	id := uuid.NewString()
	if name == "" {
		name = fmt.Sprintf("%s %s", typ, id[:8])
	}
	obj := Object{
		ID:        id,
		Type:      typ,
		Name:      name,
		URL:       "/view/" + id,
		CreatedAt: time.Now().UTC(),
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO objects (id, type, name, url, created_at) VALUES (?, ?, ?, ?, ?)`,
		obj.ID, string(obj.Type), obj.Name, obj.URL, obj.CreatedAt.Format(timeLayout))
	if err != nil {
		return Object{}, fmt.Errorf("store: insert object: %w", err)
	}
	return obj, nil
}

// Get looks up one object by ID.
func (s *Store) Get(ctx context.Context, id string) (Object, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, type, name, url, created_at FROM objects WHERE id = ?`, id)
	obj, err := scanObject(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Object{}, fmt.Errorf("store: %w: %s", ErrObjectNotFound, id)
	}
	if err != nil {
		return Object{}, fmt.Errorf("store: get object: %w", err)
	}
	return obj, nil
}

// List returns all objects, optionally filtered by type, oldest first.
func (s *Store) List(ctx context.Context, typ ObjectType) ([]Object, error) {
	query := `SELECT id, type, name, url, created_at FROM objects`
	args := []any{}
	if typ != "" {
		query += ` WHERE type = ?`
		args = append(args, string(typ))
	}
	query += ` ORDER BY created_at`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("store: list objects: %w", err)
	}
	defer rows.Close()

	var out []Object
	for rows.Next() {
		obj, err := scanObject(rows)
		if err != nil {
			return nil, fmt.Errorf("store: list objects: %w", err)
		}
		out = append(out, obj)
	}
	return out, rows.Err()
}

// Close releases the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanObject(r rowScanner) (Object, error) {
	var obj Object
	var typ, created string
	if err := r.Scan(&obj.ID, &typ, &obj.Name, &obj.URL, &created); err != nil {
		return Object{}, err
	}
	obj.Type = ObjectType(typ)
	t, err := time.Parse(timeLayout, created)
	if err != nil {
		return Object{}, fmt.Errorf("parse created_at: %w", err)
	}
	obj.CreatedAt = t
	return obj, nil
}
