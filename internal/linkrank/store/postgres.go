package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Adithya-Monish-Kumar-K/search-ranking-core/internal/linkrank"
	"github.com/Adithya-Monish-Kumar-K/search-ranking-core/pkg/postgres"
)

// PostgresStore upserts scores into a table keyed by document title.
type PostgresStore struct {
	client *postgres.Client
	table  string
}

func NewPostgresStore(ctx context.Context, client *postgres.Client, table string) (*PostgresStore, error) {
	if err := validateTable(table); err != nil {
		return nil, err
	}
	ddl := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		name TEXT PRIMARY KEY,
		score DOUBLE PRECISION NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`, table)
	if _, err := client.DB.ExecContext(ctx, ddl); err != nil {
		return nil, fmt.Errorf("creating table %s: %w", table, err)
	}
	return &PostgresStore{client: client, table: table}, nil
}

func (s *PostgresStore) Save(ctx context.Context, scores []linkrank.Score) error {
	query := fmt.Sprintf(`INSERT INTO %s (name, score, updated_at) VALUES ($1, $2, NOW())
		ON CONFLICT (name) DO UPDATE SET score = EXCLUDED.score, updated_at = NOW()`, s.table)
	return wrap("saving authority scores", s.client.InTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, query)
		if err != nil {
			return fmt.Errorf("preparing upsert: %w", err)
		}
		defer stmt.Close()
		for _, sc := range scores {
			if _, err := stmt.ExecContext(ctx, sc.Name, sc.Value); err != nil {
				return fmt.Errorf("upserting %q: %w", sc.Name, err)
			}
		}
		return nil
	}))
}

func (s *PostgresStore) Load(ctx context.Context) (map[string]float64, error) {
	rows, err := s.client.DB.QueryContext(ctx, fmt.Sprintf(`SELECT name, score FROM %s`, s.table))
	if err != nil {
		return nil, fmt.Errorf("querying authority scores: %w", err)
	}
	defer rows.Close()

	scores := make(map[string]float64)
	for rows.Next() {
		var (
			name  string
			score float64
		)
		if err := rows.Scan(&name, &score); err != nil {
			return nil, fmt.Errorf("scanning authority row: %w", err)
		}
		scores[name] = score
	}
	return scores, wrap("iterating authority rows", rows.Err())
}

func (s *PostgresStore) Close() error {
	return s.client.Close()
}
