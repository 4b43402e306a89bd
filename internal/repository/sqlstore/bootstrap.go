package sqlstore

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/noah-isme/sistema-escolar/internal/models"
	"github.com/noah-isme/sistema-escolar/internal/repository"
)

// Bootstrap creates the tables when missing and inserts seed when usuarios is empty.
// A concurrent bootstrap that wins the seed insert is not an error.
func Bootstrap(ctx context.Context, db *DB, seed models.UserInput) error {
	for _, stmt := range db.dialect.Schema() {
		if _, err := db.Query(ctx, nil, stmt); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
	}
	db.logger.Info("schema ready", zap.String("dialect", db.dialect.Name()))

	users := NewUserRepository(db)
	total, err := users.Count(ctx)
	if err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	if total > 0 {
		return nil
	}

	if _, err := users.Create(ctx, seed); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			db.logger.Info("seed admin already inserted", zap.String("email", seed.Email))
			return nil
		}
		return fmt.Errorf("seed admin: %w", err)
	}
	db.logger.Info("seed admin created", zap.String("email", seed.Email))
	return nil
}
