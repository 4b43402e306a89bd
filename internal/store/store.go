// Package store selects the backing store once at startup and owns its lifecycle.
package store

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/noah-isme/sistema-escolar/internal/models"
	"github.com/noah-isme/sistema-escolar/internal/repository"
	"github.com/noah-isme/sistema-escolar/internal/repository/memory"
	"github.com/noah-isme/sistema-escolar/internal/repository/sqlstore"
	"github.com/noah-isme/sistema-escolar/pkg/config"
	"github.com/noah-isme/sistema-escolar/pkg/database"
	"github.com/noah-isme/sistema-escolar/pkg/password"
)

// Seed administrator inserted on first bootstrap.
const (
	SeedAdminName     = "Administrador"
	SeedAdminEmail    = "admin@escola.com"
	SeedAdminPassword = "123456"
)

// Store bundles the repositories of the selected mode.
type Store struct {
	Mode     string
	Users    repository.UserRepository
	Students repository.StudentRepository
	Teachers repository.TeacherRepository

	hasher    password.Hasher
	logger    *zap.Logger
	bootstrap func(ctx context.Context, seed models.UserInput) error
	ping      func(ctx context.Context) error
	close     func() error
}

// Open connects the store chosen by cfg.Mode(). observer may be nil.
func Open(ctx context.Context, cfg config.DatabaseConfig, hasher password.Hasher, logger *zap.Logger, observer sqlstore.Observer) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if hasher == nil {
		hasher = password.Plain{}
	}

	mode := cfg.Mode()
	logger.Info("selecting data store", zap.String("mode", mode))

	switch mode {
	case config.ModeMemory:
		return NewMemory(hasher, logger), nil
	case config.ModePostgres:
		handle, err := database.NewPostgres(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		return newSQL(mode, sqlstore.New(handle, sqlstore.Postgres{}, sqlOptions(logger, observer)...), hasher, logger), nil
	default:
		handle, err := database.NewSQLite(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		return newSQL(config.ModeSQLite, sqlstore.New(handle, sqlstore.SQLite{}, sqlOptions(logger, observer)...), hasher, logger), nil
	}
}

// NewMemory builds a memory-backed store.
func NewMemory(hasher password.Hasher, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	if hasher == nil {
		hasher = password.Plain{}
	}
	mem := memory.New()
	return &Store{
		Mode:     config.ModeMemory,
		Users:    mem.Users(),
		Students: mem.Students(),
		Teachers: mem.Teachers(),
		hasher:   hasher,
		logger:   logger,
		bootstrap: func(_ context.Context, seed models.UserInput) error {
			mem.Seed(seed)
			return nil
		},
		ping:  func(context.Context) error { return nil },
		close: func() error { return nil },
	}
}

func newSQL(mode string, db *sqlstore.DB, hasher password.Hasher, logger *zap.Logger) *Store {
	return &Store{
		Mode:     mode,
		Users:    sqlstore.NewUserRepository(db),
		Students: sqlstore.NewStudentRepository(db),
		Teachers: sqlstore.NewTeacherRepository(db),
		hasher:   hasher,
		logger:   logger,
		bootstrap: func(ctx context.Context, seed models.UserInput) error {
			return sqlstore.Bootstrap(ctx, db, seed)
		},
		ping:  db.Ping,
		close: db.Close,
	}
}

func sqlOptions(logger *zap.Logger, observer sqlstore.Observer) []sqlstore.Option {
	opts := []sqlstore.Option{sqlstore.WithLogger(logger)}
	if observer != nil {
		opts = append(opts, sqlstore.WithObserver(observer))
	}
	return opts
}

// Bootstrap creates the schema and the seed administrator. It is safe to run on every start.
func (s *Store) Bootstrap(ctx context.Context) error {
	hashed, err := s.hasher.Hash(SeedAdminPassword)
	if err != nil {
		return fmt.Errorf("hash seed password: %w", err)
	}

	seed := models.UserInput{Name: SeedAdminName, Email: SeedAdminEmail, Password: hashed}
	if err := s.bootstrap(ctx, seed); err != nil {
		return fmt.Errorf("bootstrap %s store: %w", s.Mode, err)
	}
	s.logger.Info("data store ready", zap.String("mode", s.Mode))
	return nil
}

// Ping reports whether the store can serve requests.
func (s *Store) Ping(ctx context.Context) error {
	return s.ping(ctx)
}

// Close releases connections held by the store.
func (s *Store) Close() error {
	return s.close()
}
