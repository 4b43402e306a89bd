package memory

import (
	"context"
	"strings"

	"github.com/noah-isme/sistema-escolar/internal/models"
	"github.com/noah-isme/sistema-escolar/internal/repository"
)

// UserRepository is the in-memory user table.
type UserRepository struct {
	store *Store
}

// GetAll returns every user ordered by name.
func (r *UserRepository) GetAll(_ context.Context) ([]models.User, error) {
	r.store.mu.RLock()
	users := append([]models.User(nil), r.store.users...)
	r.store.mu.RUnlock()

	sortByName(users, func(u models.User) string { return u.Name })
	return users, nil
}

// GetByID returns the user or nil when absent.
func (r *UserRepository) GetByID(_ context.Context, id int64) (*models.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, u := range r.store.users {
		if u.ID == id {
			found := u
			return &found, nil
		}
	}
	return nil, nil
}

// GetByEmail returns the user owning email exactly, or nil.
func (r *UserRepository) GetByEmail(_ context.Context, email string) (*models.User, error) {
	email = strings.TrimSpace(email)

	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, u := range r.store.users {
		if u.Email == email {
			found := u
			return &found, nil
		}
	}
	return nil, nil
}

// Create inserts a user, rejecting an email that is already taken.
func (r *UserRepository) Create(_ context.Context, input models.UserInput) (*models.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if r.store.emailTaken(strings.TrimSpace(input.Email), 0) {
		return nil, repository.ErrDuplicateEmail
	}
	user := r.store.insertUser(input)
	return &user, nil
}

// Update rewrites name and email, and the password when one is given. It returns
// the number of rows changed.
func (r *UserRepository) Update(_ context.Context, id int64, input models.UserInput) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for i := range r.store.users {
		if r.store.users[i].ID != id {
			continue
		}
		email := strings.TrimSpace(input.Email)
		if r.store.emailTaken(email, id) {
			return 0, repository.ErrDuplicateEmail
		}
		u := &r.store.users[i]
		u.Name = input.Name
		u.Email = email
		if input.Password != "" {
			u.Password = input.Password
		}
		u.UpdatedAt = r.store.clock.Now()
		return 1, nil
	}
	return 0, nil
}

// Delete removes the user and returns the number of rows removed.
func (r *UserRepository) Delete(_ context.Context, id int64) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for i, u := range r.store.users {
		if u.ID == id {
			r.store.users = append(r.store.users[:i], r.store.users[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

// Count returns the number of users.
func (r *UserRepository) Count(_ context.Context) (int, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return len(r.store.users), nil
}
