package sqlstore

import (
	"context"
	"fmt"

	"github.com/noah-isme/sistema-escolar/internal/models"
)

const teacherColumns = "id, nome, disciplina, email, telefone, created_at, updated_at"

// TeacherRepository stores teachers in the professores table.
type TeacherRepository struct {
	db *DB
}

// NewTeacherRepository constructs a TeacherRepository.
func NewTeacherRepository(db *DB) *TeacherRepository {
	return &TeacherRepository{db: db}
}

// GetAll returns every teacher ordered by name.
func (r *TeacherRepository) GetAll(ctx context.Context) ([]models.Teacher, error) {
	teachers := []models.Teacher{}
	if _, err := r.db.Query(ctx, &teachers, "SELECT "+teacherColumns+" FROM professores ORDER BY nome ASC"); err != nil {
		return nil, fmt.Errorf("list teachers: %w", err)
	}
	return teachers, nil
}

// GetByID returns the teacher or nil when absent.
func (r *TeacherRepository) GetByID(ctx context.Context, id int64) (*models.Teacher, error) {
	var teacher models.Teacher
	res, err := r.db.Query(ctx, &teacher, "SELECT "+teacherColumns+" FROM professores WHERE id = ?", id)
	if err != nil {
		return nil, fmt.Errorf("get teacher: %w", err)
	}
	if res.RowCount == 0 {
		return nil, nil
	}
	return &teacher, nil
}

// Search returns teachers whose name or subject contains term.
func (r *TeacherRepository) Search(ctx context.Context, term string) ([]models.Teacher, error) {
	teachers := []models.Teacher{}
	query := "SELECT " + teacherColumns + " FROM professores WHERE nome LIKE ? ESCAPE '\\' OR disciplina LIKE ? ESCAPE '\\' ORDER BY nome ASC"
	pattern := likePattern(term)
	if _, err := r.db.Query(ctx, &teachers, query, pattern, pattern); err != nil {
		return nil, fmt.Errorf("search teachers: %w", err)
	}
	return teachers, nil
}

// Create inserts a teacher.
func (r *TeacherRepository) Create(ctx context.Context, input models.TeacherInput) (*models.Teacher, error) {
	now := r.db.now()
	teacher := models.Teacher{
		Name:      input.Name,
		Subject:   input.Subject,
		Email:     input.Email,
		Phone:     input.Phone,
		CreatedAt: now,
		UpdatedAt: now,
	}

	query := "INSERT INTO professores (nome, disciplina, email, telefone, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)"
	res, filled, err := r.db.Insert(ctx, &teacher, query, teacherColumns,
		teacher.Name, teacher.Subject, teacher.Email, teacher.Phone, now, now)
	if err != nil {
		return nil, fmt.Errorf("create teacher: %w", err)
	}
	if !filled {
		teacher.ID = res.LastInsertID
	}
	return &teacher, nil
}

// Update rewrites every writable field of a teacher.
func (r *TeacherRepository) Update(ctx context.Context, id int64, input models.TeacherInput) (int64, error) {
	query := "UPDATE professores SET nome = ?, disciplina = ?, email = ?, telefone = ?, updated_at = ? WHERE id = ?"
	res, err := r.db.Query(ctx, nil, query, input.Name, input.Subject, input.Email, input.Phone, r.db.now(), id)
	if err != nil {
		return 0, fmt.Errorf("update teacher: %w", err)
	}
	return res.RowCount, nil
}

// Delete removes a teacher.
func (r *TeacherRepository) Delete(ctx context.Context, id int64) (int64, error) {
	res, err := r.db.Query(ctx, nil, "DELETE FROM professores WHERE id = ?", id)
	if err != nil {
		return 0, fmt.Errorf("delete teacher: %w", err)
	}
	return res.RowCount, nil
}

// Count returns the number of teachers.
func (r *TeacherRepository) Count(ctx context.Context) (int, error) {
	var total int
	if _, err := r.db.Query(ctx, &total, "SELECT COUNT(*) FROM professores"); err != nil {
		return 0, fmt.Errorf("count teachers: %w", err)
	}
	return total, nil
}
