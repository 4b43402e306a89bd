package service

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/sistema-escolar/internal/models"
	"github.com/noah-isme/sistema-escolar/internal/repository"
	appErrors "github.com/noah-isme/sistema-escolar/pkg/errors"
	"github.com/noah-isme/sistema-escolar/pkg/password"
)

type userRepository interface {
	GetAll(ctx context.Context) ([]models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	Create(ctx context.Context, input models.UserInput) (*models.User, error)
	Update(ctx context.Context, id int64, input models.UserInput) (int64, error)
	Delete(ctx context.Context, id int64) (int64, error)
}

// CreateUserRequest is the sign-up payload.
type CreateUserRequest struct {
	Name            string `json:"nome" validate:"required"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"senha" validate:"required"`
	ConfirmPassword string `json:"confirmarSenha"`
}

// UpdateUserRequest edits a user. A blank password keeps the current one.
type UpdateUserRequest struct {
	Name            string `json:"nome" validate:"required"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"senha"`
	ConfirmPassword string `json:"confirmarSenha"`
}

// UserService handles account use-cases.
type UserService struct {
	repo      userRepository
	hasher    password.Hasher
	stats     statsInvalidator
	validator *validator.Validate
	logger    *zap.Logger
}

// NewUserService constructs the user service. stats may be nil.
func NewUserService(repo userRepository, hasher password.Hasher, stats statsInvalidator, validate *validator.Validate, logger *zap.Logger) *UserService {
	if hasher == nil {
		hasher = password.Plain{}
	}
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserService{repo: repo, hasher: hasher, stats: stats, validator: validate, logger: logger}
}

// List returns every user ordered by name.
func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	users, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, appErrors.Internal(err, "Erro ao listar usuários")
	}
	return users, nil
}

// Get returns one user.
func (s *UserService) Get(ctx context.Context, id int64) (*models.User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, appErrors.Internal(err, "Erro ao buscar usuário")
	}
	if user == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "Usuário não encontrado")
	}
	return user, nil
}

// Create registers a user after checking the password confirmation.
func (s *UserService) Create(ctx context.Context, req CreateUserRequest) (*models.User, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "Nome, email e senha são obrigatórios")
	}
	if req.Password != req.ConfirmPassword {
		return nil, appErrors.Clone(appErrors.ErrValidation, "As senhas não coincidem")
	}

	hashed, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, appErrors.Internal(err, "Erro ao criar usuário")
	}

	user, err := s.repo.Create(ctx, models.UserInput{Name: req.Name, Email: req.Email, Password: hashed})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "Email já está em uso")
		}
		return nil, appErrors.Internal(err, "Erro ao criar usuário")
	}

	invalidate(ctx, s.stats)
	s.logger.Info("user created", zap.Int64("user_id", user.ID))
	return user, nil
}

// Update edits a user and returns the stored record.
func (s *UserService) Update(ctx context.Context, id int64, req UpdateUserRequest) (*models.User, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "Nome e email são obrigatórios")
	}
	if req.Password != "" && req.Password != req.ConfirmPassword {
		return nil, appErrors.Clone(appErrors.ErrValidation, "As senhas não coincidem")
	}

	input := models.UserInput{Name: req.Name, Email: req.Email}
	if req.Password != "" {
		hashed, err := s.hasher.Hash(req.Password)
		if err != nil {
			return nil, appErrors.Internal(err, "Erro ao atualizar usuário")
		}
		input.Password = hashed
	}

	affected, err := s.repo.Update(ctx, id, input)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "Email já está em uso")
		}
		return nil, appErrors.Internal(err, "Erro ao atualizar usuário")
	}
	if affected == 0 {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "Usuário não encontrado")
	}
	return s.Get(ctx, id)
}

// Delete removes a user.
func (s *UserService) Delete(ctx context.Context, id int64) error {
	affected, err := s.repo.Delete(ctx, id)
	if err != nil {
		return appErrors.Internal(err, "Erro ao deletar usuário")
	}
	if affected == 0 {
		return appErrors.Clone(appErrors.ErrNotFound, "Usuário não encontrado")
	}
	invalidate(ctx, s.stats)
	return nil
}
