package store

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/Adithya-Monish-Kumar-K/search-ranking-core/internal/linkrank"
)

// MySQLStore upserts scores into a MySQL table keyed by document title.
type MySQLStore struct {
	db    *sqlx.DB
	table string
}

func NewMySQLStore(ctx context.Context, db *sqlx.DB, table string) (*MySQLStore, error) {
	if err := validateTable(table); err != nil {
		return nil, err
	}
	ddl := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		name VARCHAR(768) NOT NULL PRIMARY KEY,
		score DOUBLE NOT NULL,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
	)`, table)
	if _, err := db.ExecContext(ctx, ddl); err != nil {
		return nil, fmt.Errorf("creating table %s: %w", table, err)
	}
	return &MySQLStore{db: db, table: table}, nil
}

func (s *MySQLStore) Save(ctx context.Context, scores []linkrank.Score) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	query := fmt.Sprintf(`INSERT INTO %s (name, score) VALUES (:name, :score)
		ON DUPLICATE KEY UPDATE score = VALUES(score)`, s.table)
	for _, sc := range scores {
		if _, err := tx.NamedExecContext(ctx, query, sc); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("upserting %q: %w", sc.Name, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing authority scores: %w", err)
	}
	return nil
}

func (s *MySQLStore) Load(ctx context.Context) (map[string]float64, error) {
	var rows []linkrank.Score
	if err := s.db.SelectContext(ctx, &rows, fmt.Sprintf(`SELECT name, score FROM %s`, s.table)); err != nil {
		return nil, fmt.Errorf("querying authority scores: %w", err)
	}
	scores := make(map[string]float64, len(rows))
	for _, r := range rows {
		scores[r.Name] = r.Value
	}
	return scores, nil
}

func (s *MySQLStore) Close() error {
	return s.db.Close()
}
