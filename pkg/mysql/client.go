// Package mysql opens a MySQL connection through sqlx.
package mysql

import (
	"context"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"

	"github.com/Adithya-Monish-Kumar-K/search-ranking-core/pkg/config"
	"github.com/Adithya-Monish-Kumar-K/search-ranking-core/pkg/resilience"
)

// New opens a sqlx handle and waits for the server to answer a ping.
func New(ctx context.Context, cfg config.MySQLConfig) (*sqlx.DB, error) {
	db, err := sqlx.Open("mysql", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("opening mysql connection: %w", err)
	}
	err = resilience.Retry(ctx, "mysql ping", resilience.RetryConfig{}, func() error {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return db.PingContext(pingCtx)
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("pinging mysql: %w", err)
	}
	return db, nil
}
