package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"counsel/internal/transcripts"
)

// Postgres persists the collection as a single jsonb document row, keeping
// the full-collection overwrite semantics of the storage port.
type Postgres struct {
	pool *pgxpool.Pool
}

const schema = `
	CREATE TABLE IF NOT EXISTS counsel_transcripts (
		id          int PRIMARY KEY,
		collection  jsonb NOT NULL,
		updated_at  timestamptz NOT NULL DEFAULT now()
	)
`

// NewPostgres connects to the database and ensures the collection table
// exists.
func NewPostgres(ctx context.Context, databaseURL string) (*Postgres, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	cfg.MaxConns = 10
	cfg.MinConns = 2

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ensure transcripts table: %w", err)
	}

	return &Postgres{pool: pool}, nil
}

func (p *Postgres) Close() {
	p.pool.Close()
}

func (p *Postgres) Read(ctx context.Context) ([]transcripts.Transcript, error) {
	var data []byte
	err := p.pool.QueryRow(ctx,
		`SELECT collection FROM counsel_transcripts WHERE id = 1`,
	).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, transcripts.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select collection: %w", err)
	}

	var collection []transcripts.Transcript
	if err := json.Unmarshal(data, &collection); err != nil {
		return nil, fmt.Errorf("decode collection: %w", err)
	}
	return collection, nil
}

func (p *Postgres) Write(ctx context.Context, collection []transcripts.Transcript) error {
	if collection == nil {
		collection = []transcripts.Transcript{}
	}
	data, err := json.Marshal(collection)
	if err != nil {
		return fmt.Errorf("encode collection: %w", err)
	}

	_, err = p.pool.Exec(ctx, `
		INSERT INTO counsel_transcripts (id, collection, updated_at)
		VALUES (1, $1, now())
		ON CONFLICT (id) DO UPDATE SET collection = $1, updated_at = now()
	`, data)
	if err != nil {
		return fmt.Errorf("upsert collection: %w", err)
	}
	return nil
}
