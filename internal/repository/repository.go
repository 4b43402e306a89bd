package repository

import (
	"context"
	"errors"

	"github.com/noah-isme/sistema-escolar/internal/models"
)

// ErrDuplicateEmail is returned when a write collides with an existing user email.
var ErrDuplicateEmail = errors.New("email already in use")

// UserRepository persists user accounts. Lookups return nil, nil when the row is
// absent; Update and Delete report affected rows, zero meaning not found.
type UserRepository interface {
	GetAll(ctx context.Context) ([]models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, input models.UserInput) (*models.User, error)
	Update(ctx context.Context, id int64, input models.UserInput) (int64, error)
	Delete(ctx context.Context, id int64) (int64, error)
	Count(ctx context.Context) (int, error)
}

// StudentRepository persists students.
type StudentRepository interface {
	GetAll(ctx context.Context) ([]models.Student, error)
	GetByID(ctx context.Context, id int64) (*models.Student, error)
	Search(ctx context.Context, term string) ([]models.Student, error)
	Create(ctx context.Context, input models.StudentInput) (*models.Student, error)
	Update(ctx context.Context, id int64, input models.StudentInput) (int64, error)
	Delete(ctx context.Context, id int64) (int64, error)
	Count(ctx context.Context) (int, error)
}

// TeacherRepository persists teachers. Search matches name or subject.
type TeacherRepository interface {
	GetAll(ctx context.Context) ([]models.Teacher, error)
	GetByID(ctx context.Context, id int64) (*models.Teacher, error)
	Search(ctx context.Context, term string) ([]models.Teacher, error)
	Create(ctx context.Context, input models.TeacherInput) (*models.Teacher, error)
	Update(ctx context.Context, id int64, input models.TeacherInput) (int64, error)
	Delete(ctx context.Context, id int64) (int64, error)
	Count(ctx context.Context) (int, error)
}
