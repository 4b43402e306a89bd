package sqlstore

import (
	"context"
	"fmt"
	"strings"

	"github.com/noah-isme/sistema-escolar/internal/models"
	"github.com/noah-isme/sistema-escolar/internal/repository"
)

const userColumns = "id, nome, email, senha, created_at, updated_at"

// UserRepository stores users in the usuarios table.
type UserRepository struct {
	db *DB
}

// NewUserRepository constructs a UserRepository.
func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{db: db}
}

// GetAll returns every user ordered by name.
func (r *UserRepository) GetAll(ctx context.Context) ([]models.User, error) {
	users := []models.User{}
	if _, err := r.db.Query(ctx, &users, "SELECT "+userColumns+" FROM usuarios ORDER BY nome ASC"); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// GetByID returns the user or nil when absent.
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	var user models.User
	res, err := r.db.Query(ctx, &user, "SELECT "+userColumns+" FROM usuarios WHERE id = ?", id)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if res.RowCount == 0 {
		return nil, nil
	}
	return &user, nil
}

// GetByEmail returns the user owning email or nil when absent.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	res, err := r.db.Query(ctx, &user, "SELECT "+userColumns+" FROM usuarios WHERE email = ?", strings.TrimSpace(email))
	if err != nil {
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	if res.RowCount == 0 {
		return nil, nil
	}
	return &user, nil
}

// Create inserts a user. A taken email yields repository.ErrDuplicateEmail.
func (r *UserRepository) Create(ctx context.Context, input models.UserInput) (*models.User, error) {
	now := r.db.now()
	user := models.User{
		Name:      input.Name,
		Email:     strings.TrimSpace(input.Email),
		Password:  input.Password,
		CreatedAt: now,
		UpdatedAt: now,
	}

	query := "INSERT INTO usuarios (nome, email, senha, created_at, updated_at) VALUES (?, ?, ?, ?, ?)"
	res, filled, err := r.db.Insert(ctx, &user, query, userColumns, user.Name, user.Email, user.Password, now, now)
	if err != nil {
		if r.db.IsUniqueViolation(err) {
			return nil, repository.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	if !filled {
		user.ID = res.LastInsertID
	}
	return &user, nil
}

// Update rewrites name and email, and the password only when one is supplied.
func (r *UserRepository) Update(ctx context.Context, id int64, input models.UserInput) (int64, error) {
	now := r.db.now()
	email := strings.TrimSpace(input.Email)

	var (
		res Result
		err error
	)
	if input.Password == "" {
		res, err = r.db.Query(ctx, nil, "UPDATE usuarios SET nome = ?, email = ?, updated_at = ? WHERE id = ?",
			input.Name, email, now, id)
	} else {
		res, err = r.db.Query(ctx, nil, "UPDATE usuarios SET nome = ?, email = ?, senha = ?, updated_at = ? WHERE id = ?",
			input.Name, email, input.Password, now, id)
	}
	if err != nil {
		if r.db.IsUniqueViolation(err) {
			return 0, repository.ErrDuplicateEmail
		}
		return 0, fmt.Errorf("update user: %w", err)
	}
	return res.RowCount, nil
}

// Delete removes a user.
func (r *UserRepository) Delete(ctx context.Context, id int64) (int64, error) {
	res, err := r.db.Query(ctx, nil, "DELETE FROM usuarios WHERE id = ?", id)
	if err != nil {
		return 0, fmt.Errorf("delete user: %w", err)
	}
	return res.RowCount, nil
}

// Count returns the number of users.
func (r *UserRepository) Count(ctx context.Context) (int, error) {
	var total int
	if _, err := r.db.Query(ctx, &total, "SELECT COUNT(*) FROM usuarios"); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return total, nil
}
