package storage

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Beigelman/house-crawler/internal/models"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS real_states (
	link       TEXT PRIMARY KEY,
	titulo     TEXT,
	valor      TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

// PostgresStore implements Store on a pgx connection pool.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore connects to dsn and makes sure the table exists.
func NewPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("invalid DATABASE_URL: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}
	if _, err := pool.Exec(ctx, schemaSQL); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to create table: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

// Close releases the pool.
func (s *PostgresStore) Close() {
	s.pool.Close()
}

// InsertNew sends one batch and returns the rows the database accepted.
func (s *PostgresStore) InsertNew(ctx context.Context, props []models.Property) ([]models.Property, error) {
	if len(props) == 0 {
		return nil, nil
	}

	b := &pgx.Batch{}
	for _, p := range props {
		b.Queue(
			`INSERT INTO real_states (link, titulo, valor) VALUES ($1, $2, $3)
			ON CONFLICT (link) DO NOTHING`,
			p.Link, p.Title, p.Price,
		)
	}

	br := s.pool.SendBatch(ctx, b)
	defer br.Close()

	var inserted []models.Property
	for _, p := range props {
		tag, err := br.Exec()
		if err != nil {
			return inserted, fmt.Errorf("failed to insert %s: %w", p.Link, err)
		}
		if tag.RowsAffected() > 0 {
			inserted = append(inserted, p)
		}
	}
	return inserted, br.Close()
}

// All returns every stored property, oldest first.
func (s *PostgresStore) All(ctx context.Context) ([]models.Property, error) {
	rows, err := s.pool.Query(ctx, `SELECT titulo, valor, link FROM real_states ORDER BY created_at, link`)
	if err != nil {
		return nil, fmt.Errorf("failed to query properties: %w", err)
	}
	defer rows.Close()

	props := []models.Property{}
	for rows.Next() {
		var p models.Property
		if err := rows.Scan(&p.Title, &p.Price, &p.Link); err != nil {
			return nil, fmt.Errorf("failed to scan property: %w", err)
		}
		props = append(props, p)
	}
	return props, rows.Err()
}

// DeleteByLinks removes the rows for links.
func (s *PostgresStore) DeleteByLinks(ctx context.Context, links []string) (int64, error) {
	if len(links) == 0 {
		return 0, nil
	}
	tag, err := s.pool.Exec(ctx, `DELETE FROM real_states WHERE link = ANY($1)`, links)
	if err != nil {
		return 0, fmt.Errorf("failed to delete properties: %w", err)
	}
	return tag.RowsAffected(), nil
}
