package sqlstore

import (
	"context"
	"fmt"

	"github.com/noah-isme/sistema-escolar/internal/models"
)

const studentColumns = "id, nome, data_nascimento, serie_turma, email, telefone, created_at, updated_at"

// StudentRepository stores students in the alunos table.
type StudentRepository struct {
	db *DB
}

// NewStudentRepository constructs a StudentRepository.
func NewStudentRepository(db *DB) *StudentRepository {
	return &StudentRepository{db: db}
}

// GetAll returns every student ordered by name.
func (r *StudentRepository) GetAll(ctx context.Context) ([]models.Student, error) {
	students := []models.Student{}
	if _, err := r.db.Query(ctx, &students, "SELECT "+studentColumns+" FROM alunos ORDER BY nome ASC"); err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	return students, nil
}

// GetByID returns the student or nil when absent.
func (r *StudentRepository) GetByID(ctx context.Context, id int64) (*models.Student, error) {
	var student models.Student
	res, err := r.db.Query(ctx, &student, "SELECT "+studentColumns+" FROM alunos WHERE id = ?", id)
	if err != nil {
		return nil, fmt.Errorf("get student: %w", err)
	}
	if res.RowCount == 0 {
		return nil, nil
	}
	return &student, nil
}

// Search returns students whose name contains term.
func (r *StudentRepository) Search(ctx context.Context, term string) ([]models.Student, error) {
	students := []models.Student{}
	query := "SELECT " + studentColumns + " FROM alunos WHERE nome LIKE ? ESCAPE '\\' ORDER BY nome ASC"
	if _, err := r.db.Query(ctx, &students, query, likePattern(term)); err != nil {
		return nil, fmt.Errorf("search students: %w", err)
	}
	return students, nil
}

// Create inserts a student.
func (r *StudentRepository) Create(ctx context.Context, input models.StudentInput) (*models.Student, error) {
	now := r.db.now()
	student := models.Student{
		Name:      input.Name,
		BirthDate: input.BirthDate,
		Grade:     input.Grade,
		Email:     input.Email,
		Phone:     input.Phone,
		CreatedAt: now,
		UpdatedAt: now,
	}

	query := "INSERT INTO alunos (nome, data_nascimento, serie_turma, email, telefone, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?)"
	res, filled, err := r.db.Insert(ctx, &student, query, studentColumns,
		student.Name, student.BirthDate, student.Grade, student.Email, student.Phone, now, now)
	if err != nil {
		return nil, fmt.Errorf("create student: %w", err)
	}
	if !filled {
		student.ID = res.LastInsertID
	}
	return &student, nil
}

// Update rewrites every writable field of a student.
func (r *StudentRepository) Update(ctx context.Context, id int64, input models.StudentInput) (int64, error) {
	query := "UPDATE alunos SET nome = ?, data_nascimento = ?, serie_turma = ?, email = ?, telefone = ?, updated_at = ? WHERE id = ?"
	res, err := r.db.Query(ctx, nil, query,
		input.Name, input.BirthDate, input.Grade, input.Email, input.Phone, r.db.now(), id)
	if err != nil {
		return 0, fmt.Errorf("update student: %w", err)
	}
	return res.RowCount, nil
}

// Delete removes a student.
func (r *StudentRepository) Delete(ctx context.Context, id int64) (int64, error) {
	res, err := r.db.Query(ctx, nil, "DELETE FROM alunos WHERE id = ?", id)
	if err != nil {
		return 0, fmt.Errorf("delete student: %w", err)
	}
	return res.RowCount, nil
}

// Count returns the number of students.
func (r *StudentRepository) Count(ctx context.Context) (int, error) {
	var total int
	if _, err := r.db.Query(ctx, &total, "SELECT COUNT(*) FROM alunos"); err != nil {
		return 0, fmt.Errorf("count students: %w", err)
	}
	return total, nil
}
