package memory

import (
	"context"

	"github.com/noah-isme/sistema-escolar/internal/models"
)

// StudentRepository is the in-memory student table.
type StudentRepository struct {
	store *Store
}

// GetAll returns every student ordered by name.
func (r *StudentRepository) GetAll(_ context.Context) ([]models.Student, error) {
	return r.filter(func(models.Student) bool { return true }), nil
}

// GetByID returns the student or nil when absent.
func (r *StudentRepository) GetByID(_ context.Context, id int64) (*models.Student, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, s := range r.store.students {
		if s.ID == id {
			found := copyStudent(s)
			return &found, nil
		}
	}
	return nil, nil
}

// Search matches name substrings case-insensitively.
func (r *StudentRepository) Search(_ context.Context, term string) ([]models.Student, error) {
	return r.filter(func(s models.Student) bool { return containsFold(s.Name, term) }), nil
}

// Create inserts a student with the next id.
func (r *StudentRepository) Create(_ context.Context, input models.StudentInput) (*models.Student, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	student := r.store.insertStudent(input)
	return &student, nil
}

// Update rewrites every writable field and returns the number of rows changed.
func (r *StudentRepository) Update(_ context.Context, id int64, input models.StudentInput) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for i := range r.store.students {
		if r.store.students[i].ID != id {
			continue
		}
		s := &r.store.students[i]
		s.Name = input.Name
		s.BirthDate = input.BirthDate
		s.Grade = input.Grade
		s.Email = copyString(input.Email)
		s.Phone = copyString(input.Phone)
		s.UpdatedAt = r.store.clock.Now()
		return 1, nil
	}
	return 0, nil
}

// Delete removes the student and returns the number of rows removed.
func (r *StudentRepository) Delete(_ context.Context, id int64) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for i, s := range r.store.students {
		if s.ID == id {
			r.store.students = append(r.store.students[:i], r.store.students[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

// Count returns the number of students.
func (r *StudentRepository) Count(_ context.Context) (int, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return len(r.store.students), nil
}

func (r *StudentRepository) filter(keep func(models.Student) bool) []models.Student {
	r.store.mu.RLock()
	result := make([]models.Student, 0, len(r.store.students))
	for _, s := range r.store.students {
		if keep(s) {
			result = append(result, copyStudent(s))
		}
	}
	r.store.mu.RUnlock()

	sortByName(result, func(s models.Student) string { return s.Name })
	return result
}
