package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"relieffund/internal/ledger"
)

const schema = `
CREATE TABLE IF NOT EXISTS relief_journal (
	seq        BIGSERIAL PRIMARY KEY,
	kind       TEXT NOT NULL,
	payload    JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// Store persists records in a postgres append-only table.
type Store struct {
	pool *pgxpool.Pool
}

// New connects, ensures the schema, and returns the store.
func New(ctx context.Context, databaseURL string) (*Store, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ensure journal schema: %w", err)
	}
	return &Store{pool: pool}, nil
}

// NewWithPool wraps an existing pool; the caller owns the pool's lifecycle.
func NewWithPool(ctx context.Context, pool *pgxpool.Pool) (*Store, error) {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return nil, fmt.Errorf("ensure journal schema: %w", err)
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Append(ctx context.Context, rec ledger.Record) error {
	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode record: %w", err)
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO relief_journal (kind, payload) VALUES ($1, $2)`,
		string(rec.Kind), payload)
	if err != nil {
		return fmt.Errorf("append record: %w", err)
	}
	return nil
}

func (s *Store) Load(ctx context.Context) ([]ledger.Record, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT payload FROM relief_journal ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("load journal: %w", err)
	}
	defer rows.Close()

	var records []ledger.Record
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		var rec ledger.Record
		if err := json.Unmarshal(payload, &rec); err != nil {
			return nil, fmt.Errorf("decode record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate journal: %w", err)
	}
	return records, nil
}

func (s *Store) Close() error {
	s.pool.Close()
	return nil
}
