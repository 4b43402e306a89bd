package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/sistema-escolar/internal/models"
	appErrors "github.com/noah-isme/sistema-escolar/pkg/errors"
	"github.com/noah-isme/sistema-escolar/pkg/password"
)

type credentialRepository interface {
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

// LoginRequest carries the login form.
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"senha" validate:"required"`
}

// AuthService checks credentials. It issues no session; the frontend keeps the returned user.
type AuthService struct {
	repo      credentialRepository
	hasher    password.Hasher
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(repo credentialRepository, hasher password.Hasher, validate *validator.Validate, logger *zap.Logger) *AuthService {
	if hasher == nil {
		hasher = password.Plain{}
	}
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{repo: repo, hasher: hasher, validator: validate, logger: logger}
}

// Login returns the user owning the credentials.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*models.User, error) {
	req.Email = strings.TrimSpace(req.Email)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "Email e senha são obrigatórios")
	}

	user, err := s.repo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, appErrors.Internal(err, "Erro interno do servidor")
	}
	if user == nil || !s.hasher.Compare(user.Password, req.Password) {
		s.logger.Info("login rejected", zap.String("email", req.Email))
		return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "Email ou senha inválidos")
	}

	s.logger.Info("login succeeded", zap.Int64("user_id", user.ID))
	return user, nil
}
