package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/felixgeelhaar/tascade/internal/recommendation/domain"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS documents (
	collection TEXT NOT NULL,
	user_id    TEXT NOT NULL,
	doc        JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL,
	PRIMARY KEY (collection, user_id)
);`

// PostgresStore is a DocumentStore backed by PostgreSQL, suitable when
// several processes share the same recommendation state.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore connects to the database at url and ensures the
// schema exists.
func NewPostgresStore(ctx context.Context, url string) (*PostgresStore, error) {
	db, err := sql.Open("pgx", url)
	if err != nil {
		return nil, fmt.Errorf("open postgres database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres database: %w", err)
	}
	if _, err := db.ExecContext(ctx, postgresSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create documents schema: %w", err)
	}
	return &PostgresStore{db: db}, nil
}

// NewPostgresStoreWithDB wraps an existing database handle, ensuring the
// schema exists.
func NewPostgresStoreWithDB(ctx context.Context, db *sql.DB) (*PostgresStore, error) {
	if _, err := db.ExecContext(ctx, postgresSchema); err != nil {
		return nil, fmt.Errorf("create documents schema: %w", err)
	}
	return &PostgresStore{db: db}, nil
}

func (s *PostgresStore) Get(ctx context.Context, collection, userID string) ([]byte, error) {
	var doc []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT doc FROM documents WHERE collection = $1 AND user_id = $2`,
		collection, userID,
	).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get document: %w", err)
	}
	return doc, nil
}

func (s *PostgresStore) Put(ctx context.Context, collection, userID string, doc []byte) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO documents (collection, user_id, doc, updated_at)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (collection, user_id)
		 DO UPDATE SET doc = EXCLUDED.doc, updated_at = EXCLUDED.updated_at`,
		collection, userID, doc, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("put document: %w", err)
	}
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, collection, userID string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM documents WHERE collection = $1 AND user_id = $2`,
		collection, userID,
	)
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	return nil
}

func (s *PostgresStore) List(ctx context.Context, collection string) (map[string][]byte, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT user_id, doc FROM documents WHERE collection = $1`,
		collection,
	)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	docs := map[string][]byte{}
	for rows.Next() {
		var userID string
		var doc []byte
		if err := rows.Scan(&userID, &doc); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		docs[userID] = doc
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate documents: %w", err)
	}
	return docs, nil
}

// Close closes the underlying database.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}
