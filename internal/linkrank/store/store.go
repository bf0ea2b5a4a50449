// Package store persists authority scores and reads them back as a title to
// score table for the query executor.
package store

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/Adithya-Monish-Kumar-K/search-ranking-core/internal/linkrank"
	"github.com/Adithya-Monish-Kumar-K/search-ranking-core/pkg/config"
	apperrors "github.com/Adithya-Monish-Kumar-K/search-ranking-core/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/search-ranking-core/pkg/metrics"
	"github.com/Adithya-Monish-Kumar-K/search-ranking-core/pkg/mysql"
	"github.com/Adithya-Monish-Kumar-K/search-ranking-core/pkg/postgres"
)

type Store interface {
	Save(ctx context.Context, scores []linkrank.Score) error
	Load(ctx context.Context) (map[string]float64, error)
	Close() error
}

var tableName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

func validateTable(name string) error {
	if !tableName.MatchString(name) {
		return apperrors.Newf(apperrors.ErrInvalidInput, "store.validateTable", "invalid table name %q", name)
	}
	return nil
}

// Open returns the backend selected by cfg.Storage.AuthorityBackend.
func Open(ctx context.Context, cfg *config.Config, m *metrics.Metrics) (Store, error) {
	switch strings.ToLower(cfg.Storage.AuthorityBackend) {
	case "", "file":
		return NewFileStore(cfg.Storage.AuthorityFile, m), nil
	case "postgres":
		client, err := postgres.New(ctx, cfg.Postgres)
		if err != nil {
			return nil, err
		}
		s, err := NewPostgresStore(ctx, client, cfg.Storage.AuthorityTable)
		if err != nil {
			_ = client.Close()
			return nil, err
		}
		return s, nil
	case "mysql":
		db, err := mysql.New(ctx, cfg.MySQL)
		if err != nil {
			return nil, err
		}
		s, err := NewMySQLStore(ctx, db, cfg.Storage.AuthorityTable)
		if err != nil {
			_ = db.Close()
			return nil, err
		}
		return s, nil
	default:
		return nil, apperrors.Newf(apperrors.ErrInvalidInput, "store.Open", "unknown authority backend %q", cfg.Storage.AuthorityBackend)
	}
}

func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", op, err)
}
