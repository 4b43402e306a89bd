package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/sistema-escolar/internal/models"
	appErrors "github.com/noah-isme/sistema-escolar/pkg/errors"
)

type teacherRepository interface {
	GetAll(ctx context.Context) ([]models.Teacher, error)
	GetByID(ctx context.Context, id int64) (*models.Teacher, error)
	Search(ctx context.Context, term string) ([]models.Teacher, error)
	Create(ctx context.Context, input models.TeacherInput) (*models.Teacher, error)
	Update(ctx context.Context, id int64, input models.TeacherInput) (int64, error)
	Delete(ctx context.Context, id int64) (int64, error)
}

// TeacherRequest holds the payload for creating and updating teachers.
type TeacherRequest struct {
	Name    string  `json:"nome" validate:"required"`
	Subject string  `json:"disciplina" validate:"required"`
	Email   *string `json:"email"`
	Phone   *string `json:"telefone"`
}

// TeacherService handles teacher use-cases.
type TeacherService struct {
	repo      teacherRepository
	stats     statsInvalidator
	validator *validator.Validate
	logger    *zap.Logger
}

// NewTeacherService constructs the teacher service. stats may be nil.
func NewTeacherService(repo teacherRepository, stats statsInvalidator, validate *validator.Validate, logger *zap.Logger) *TeacherService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TeacherService{repo: repo, stats: stats, validator: validate, logger: logger}
}

// List returns every teacher, or those whose name or subject contains search.
func (s *TeacherService) List(ctx context.Context, search string) ([]models.Teacher, error) {
	var (
		teachers []models.Teacher
		err      error
	)
	if term := strings.TrimSpace(search); term != "" {
		teachers, err = s.repo.Search(ctx, term)
	} else {
		teachers, err = s.repo.GetAll(ctx)
	}
	if err != nil {
		return nil, appErrors.Internal(err, "Erro ao listar professores")
	}
	return teachers, nil
}

// Get returns one teacher.
func (s *TeacherService) Get(ctx context.Context, id int64) (*models.Teacher, error) {
	teacher, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, appErrors.Internal(err, "Erro ao buscar professor")
	}
	if teacher == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "Professor não encontrado")
	}
	return teacher, nil
}

// Create registers a new teacher.
func (s *TeacherService) Create(ctx context.Context, req TeacherRequest) (*models.Teacher, error) {
	input, err := s.input(req)
	if err != nil {
		return nil, err
	}
	teacher, err := s.repo.Create(ctx, input)
	if err != nil {
		return nil, appErrors.Internal(err, "Erro ao criar professor")
	}
	invalidate(ctx, s.stats)
	s.logger.Info("teacher created", zap.Int64("teacher_id", teacher.ID))
	return teacher, nil
}

// Update rewrites a teacher and returns the stored record.
func (s *TeacherService) Update(ctx context.Context, id int64, req TeacherRequest) (*models.Teacher, error) {
	input, err := s.input(req)
	if err != nil {
		return nil, err
	}
	affected, err := s.repo.Update(ctx, id, input)
	if err != nil {
		return nil, appErrors.Internal(err, "Erro ao atualizar professor")
	}
	if affected == 0 {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "Professor não encontrado")
	}
	return s.Get(ctx, id)
}

// Delete removes a teacher.
func (s *TeacherService) Delete(ctx context.Context, id int64) error {
	affected, err := s.repo.Delete(ctx, id)
	if err != nil {
		return appErrors.Internal(err, "Erro ao deletar professor")
	}
	if affected == 0 {
		return appErrors.Clone(appErrors.ErrNotFound, "Professor não encontrado")
	}
	invalidate(ctx, s.stats)
	return nil
}

func (s *TeacherService) input(req TeacherRequest) (models.TeacherInput, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Subject = strings.TrimSpace(req.Subject)
	if err := s.validator.Struct(req); err != nil {
		return models.TeacherInput{}, appErrors.Validation(err, "Nome e disciplina são obrigatórios")
	}
	return models.TeacherInput{
		Name:    req.Name,
		Subject: req.Subject,
		Email:   optional(req.Email),
		Phone:   optional(req.Phone),
	}, nil
}
