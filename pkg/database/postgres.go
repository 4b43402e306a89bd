package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/noah-isme/sistema-escolar/pkg/config"
)

// NewPostgres returns a pooled PostgreSQL client built from the connection string.
func NewPostgres(ctx context.Context, cfg config.DatabaseConfig) (*sqlx.DB, error) {
	if strings.TrimSpace(cfg.URL) == "" {
		return nil, fmt.Errorf("postgres: DATABASE_URL is empty")
	}

	db, err := sqlx.Open("postgres", PostgresDSN(cfg.URL, cfg.SSLMode))
	if err != nil {
		return nil, err
	}

	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}

	db.SetConnMaxLifetime(1 * time.Hour)
	db.SetConnMaxIdleTime(30 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}

// PostgresDSN appends sslmode to a URL-style connection string unless it already carries one.
func PostgresDSN(url, sslMode string) string {
	url = strings.TrimSpace(url)
	if sslMode == "" || strings.Contains(url, "sslmode=") {
		return url
	}
	if !strings.Contains(url, "://") {
		return url + " sslmode=" + sslMode
	}
	sep := "?"
	if strings.Contains(url, "?") {
		sep = "&"
	}
	return url + sep + "sslmode=" + sslMode
}
