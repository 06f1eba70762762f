// Package store persists works and collections in PostgreSQL.
//
// The pipeline treats the store as a black box keyed by identifier; this
// package supplies the concrete implementation of core.RecordStore.
// Attributes and file references are stored as jsonb, keeping the schema
// stable while the field dictionary evolves.
package store

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/digilib-tools/arkingest/internal/core"
)

//go:embed schema.sql
var schemaSQL string

// DBTX is the interface for database operations.
// Satisfied by both *pgxpool.Pool and pgx.Tx.
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// Postgres implements core.RecordStore over a pgx connection or pool.
type Postgres struct {
	db DBTX
}

// NewPostgres wraps db.
func NewPostgres(db DBTX) *Postgres {
	return &Postgres{db: db}
}

// EnsureSchema creates the works and collections tables when absent.
func (s *Postgres) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// CreateWork inserts one mapped record.
func (s *Postgres) CreateWork(ctx context.Context, rec core.CanonicalRecord) error {
	attrs, err := json.Marshal(rec.Attributes)
	if err != nil {
		return fmt.Errorf("encode attributes: %w", err)
	}
	files, err := json.Marshal(rec.FileReferences)
	if err != nil {
		return fmt.Errorf("encode file references: %w", err)
	}

	var collectionID *string
	if rec.CollectionLink != nil {
		collectionID = &rec.CollectionLink.CollectionID
	}

	_, err = s.db.Exec(ctx, `
		INSERT INTO works (id, ark, title, attributes, file_references, visibility, collection_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		uuid.New().String(), rec.Identifier, rec.Title, attrs, files, rec.Visibility, collectionID,
	)
	if err != nil {
		return fmt.Errorf("insert work %s: %w", rec.Identifier, err)
	}
	return nil
}

// FindOrCreateCollection returns the collection ID for ark, creating the
// collection when absent. The upsert keys on the unique ark column, so
// concurrent calls for the same ark yield one row, which is the
// at-most-one creation guarantee the pipeline requires from the store.
func (s *Postgres) FindOrCreateCollection(ctx context.Context, ark string) (string, error) {
	var id string
	err := s.db.QueryRow(ctx, `
		INSERT INTO collections (id, ark)
		VALUES ($1, $2)
		ON CONFLICT (ark) DO UPDATE SET ark = EXCLUDED.ark
		RETURNING id`,
		uuid.New().String(), ark,
	).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("find or create collection %s: %w", ark, err)
	}
	return id, nil
}

// FindWorkIDsByArk returns the IDs of works stored under the primary ark.
func (s *Postgres) FindWorkIDsByArk(ctx context.Context, ark string) ([]string, error) {
	return s.queryIDs(ctx, `SELECT id FROM works WHERE ark = $1`, ark)
}

// FindWorkIDsByLocalIdentifier returns the IDs of works whose alternate
// local-identifier attribute contains value.
func (s *Postgres) FindWorkIDsByLocalIdentifier(ctx context.Context, value string) ([]string, error) {
	return s.queryIDs(ctx, `
		SELECT id FROM works
		WHERE attributes->'local_identifier' @> to_jsonb($1::text)`,
		value,
	)
}

// DeleteWork removes one work by ID. Deleting an absent ID is a no-op.
func (s *Postgres) DeleteWork(ctx context.Context, id string) error {
	if _, err := s.db.Exec(ctx, `DELETE FROM works WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete work %s: %w", id, err)
	}
	return nil
}

func (s *Postgres) queryIDs(ctx context.Context, sql string, args ...interface{}) ([]string, error) {
	rows, err := s.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
