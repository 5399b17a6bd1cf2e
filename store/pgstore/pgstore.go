// Package pgstore resolves editorjs entities from a PostgreSQL table.
package pgstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	editorjs "github.com/alnah/go-editorjs"
)

// Schema creates the table the store reads from.
const Schema = `CREATE TABLE IF NOT EXISTS editorjs_entities (
	kind  TEXT NOT NULL,
	id    TEXT NOT NULL,
	title TEXT NOT NULL DEFAULT '',
	url   TEXT NOT NULL DEFAULT '',
	size  BIGINT NOT NULL DEFAULT 0,
	alt   TEXT NOT NULL DEFAULT '',
	PRIMARY KEY (kind, id)
)`

const selectColumns = `SELECT id, title, url, size, alt FROM editorjs_entities`

// Store is an editorjs.EntityStore backed by PostgreSQL.
type Store struct {
	db *sql.DB
}

// Compile-time interface implementation checks.
var (
	_ editorjs.EntityStore  = (*Store)(nil)
	_ editorjs.EntityLister = (*Store)(nil)
)

// Open connects to databaseURL and verifies the connection.
func Open(ctx context.Context, databaseURL string) (*sql.DB, error) {
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	db.SetConnMaxIdleTime(5 * time.Minute)
	db.SetConnMaxLifetime(30 * time.Minute)
	db.SetMaxIdleConns(10)
	db.SetMaxOpenConns(20)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}
	return db, nil
}

// New wraps an open database handle.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Migrate creates the entities table when it is missing.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("migrate entities: %w", err)
	}
	return nil
}

// Put inserts or replaces entities of kind.
func (s *Store) Put(ctx context.Context, kind string, entities ...editorjs.Entity) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin put: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, e := range entities {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO editorjs_entities (kind, id, title, url, size, alt)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (kind, id) DO UPDATE
			SET title = EXCLUDED.title, url = EXCLUDED.url, size = EXCLUDED.size, alt = EXCLUDED.alt`,
			kind, e.ID, e.Title, e.URL, e.Size, e.Alt,
		)
		if err != nil {
			return fmt.Errorf("put %s %s: %w", kind, e.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit put: %w", err)
	}
	return nil
}

// ResolveMany loads every requested entity in a single query.
func (s *Store) ResolveMany(ctx context.Context, kind string, ids []string) (map[string]editorjs.Entity, error) {
	out := make(map[string]editorjs.Entity, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	rows, err := s.db.QueryContext(ctx, selectColumns+` WHERE kind = $1 AND id = ANY($2)`, kind, ids)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", kind, err)
	}
	defer rows.Close()

	for rows.Next() {
		e, err := scanEntity(rows)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", kind, err)
		}
		out[e.ID] = e
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("resolve %s: %w", kind, err)
	}
	return out, nil
}

// ResolveOne returns editorjs.ErrEntityNotFound when no row matches.
func (s *Store) ResolveOne(ctx context.Context, kind, id string) (editorjs.Entity, error) {
	row := s.db.QueryRowContext(ctx, selectColumns+` WHERE kind = $1 AND id = $2`, kind, id)
	e, err := scanEntity(row)
	if errors.Is(err, sql.ErrNoRows) {
		return editorjs.Entity{}, fmt.Errorf("%w: %s %s", editorjs.ErrEntityNotFound, kind, id)
	}
	if err != nil {
		return editorjs.Entity{}, fmt.Errorf("lookup %s %s: %w", kind, id, err)
	}
	return e, nil
}

// List returns up to limit entities of kind ordered by ID.
func (s *Store) List(ctx context.Context, kind string, limit int) ([]editorjs.Entity, error) {
	if limit <= 0 {
		return nil, nil
	}
	rows, err := s.db.QueryContext(ctx, selectColumns+` WHERE kind = $1 ORDER BY id LIMIT $2`, kind, limit)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", kind, err)
	}
	defer rows.Close()

	var out []editorjs.Entity
	for rows.Next() {
		e, err := scanEntity(rows)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", kind, err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list %s: %w", kind, err)
	}
	return out, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntity(s scanner) (editorjs.Entity, error) {
	var e editorjs.Entity
	err := s.Scan(&e.ID, &e.Title, &e.URL, &e.Size, &e.Alt)
	return e, err
}
