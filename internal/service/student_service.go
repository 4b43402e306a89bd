package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/sistema-escolar/internal/models"
	appErrors "github.com/noah-isme/sistema-escolar/pkg/errors"
)

type studentRepository interface {
	GetAll(ctx context.Context) ([]models.Student, error)
	GetByID(ctx context.Context, id int64) (*models.Student, error)
	Search(ctx context.Context, term string) ([]models.Student, error)
	Create(ctx context.Context, input models.StudentInput) (*models.Student, error)
	Update(ctx context.Context, id int64, input models.StudentInput) (int64, error)
	Delete(ctx context.Context, id int64) (int64, error)
}

// StudentRequest holds the payload for creating and updating students.
type StudentRequest struct {
	Name      string  `json:"nome" validate:"required"`
	BirthDate string  `json:"dataNascimento" validate:"required"`
	Grade     string  `json:"serieTurma" validate:"required"`
	Email     *string `json:"email"`
	Phone     *string `json:"telefone"`
}

// StudentService handles student use-cases.
type StudentService struct {
	repo      studentRepository
	stats     statsInvalidator
	validator *validator.Validate
	logger    *zap.Logger
}

// NewStudentService constructs the student service. stats may be nil.
func NewStudentService(repo studentRepository, stats statsInvalidator, validate *validator.Validate, logger *zap.Logger) *StudentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentService{repo: repo, stats: stats, validator: validate, logger: logger}
}

// List returns every student, or those whose name contains search when it is not blank.
func (s *StudentService) List(ctx context.Context, search string) ([]models.Student, error) {
	var (
		students []models.Student
		err      error
	)
	if term := strings.TrimSpace(search); term != "" {
		students, err = s.repo.Search(ctx, term)
	} else {
		students, err = s.repo.GetAll(ctx)
	}
	if err != nil {
		return nil, appErrors.Internal(err, "Erro ao listar alunos")
	}
	return students, nil
}

// Get returns one student.
func (s *StudentService) Get(ctx context.Context, id int64) (*models.Student, error) {
	student, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, appErrors.Internal(err, "Erro ao buscar aluno")
	}
	if student == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "Aluno não encontrado")
	}
	return student, nil
}

// Create registers a new student.
func (s *StudentService) Create(ctx context.Context, req StudentRequest) (*models.Student, error) {
	input, err := s.input(req)
	if err != nil {
		return nil, err
	}
	student, err := s.repo.Create(ctx, input)
	if err != nil {
		return nil, appErrors.Internal(err, "Erro ao criar aluno")
	}
	invalidate(ctx, s.stats)
	s.logger.Info("student created", zap.Int64("student_id", student.ID))
	return student, nil
}

// Update rewrites a student and returns the stored record.
func (s *StudentService) Update(ctx context.Context, id int64, req StudentRequest) (*models.Student, error) {
	input, err := s.input(req)
	if err != nil {
		return nil, err
	}
	affected, err := s.repo.Update(ctx, id, input)
	if err != nil {
		return nil, appErrors.Internal(err, "Erro ao atualizar aluno")
	}
	if affected == 0 {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "Aluno não encontrado")
	}
	return s.Get(ctx, id)
}

// Delete removes a student.
func (s *StudentService) Delete(ctx context.Context, id int64) error {
	affected, err := s.repo.Delete(ctx, id)
	if err != nil {
		return appErrors.Internal(err, "Erro ao deletar aluno")
	}
	if affected == 0 {
		return appErrors.Clone(appErrors.ErrNotFound, "Aluno não encontrado")
	}
	invalidate(ctx, s.stats)
	return nil
}

func (s *StudentService) input(req StudentRequest) (models.StudentInput, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.BirthDate = strings.TrimSpace(req.BirthDate)
	req.Grade = strings.TrimSpace(req.Grade)
	if err := s.validator.Struct(req); err != nil {
		return models.StudentInput{}, appErrors.Validation(err, "Nome, data de nascimento e série/turma são obrigatórios")
	}

	birth, err := models.ParseDate(req.BirthDate)
	if err != nil {
		return models.StudentInput{}, appErrors.Validation(err, "Formato de data inválido (use AAAA-MM-DD)")
	}

	return models.StudentInput{
		Name:      req.Name,
		BirthDate: birth,
		Grade:     req.Grade,
		Email:     optional(req.Email),
		Phone:     optional(req.Phone),
	}, nil
}
