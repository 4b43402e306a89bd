package memory

import (
	"context"

	"github.com/noah-isme/sistema-escolar/internal/models"
)

// TeacherRepository is the in-memory teacher table.
type TeacherRepository struct {
	store *Store
}

// GetAll returns every teacher ordered by name.
func (r *TeacherRepository) GetAll(_ context.Context) ([]models.Teacher, error) {
	return r.filter(func(models.Teacher) bool { return true }), nil
}

// GetByID returns the teacher or nil when absent.
func (r *TeacherRepository) GetByID(_ context.Context, id int64) (*models.Teacher, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, t := range r.store.teachers {
		if t.ID == id {
			found := copyTeacher(t)
			return &found, nil
		}
	}
	return nil, nil
}

// Search matches name or subject substrings case-insensitively.
func (r *TeacherRepository) Search(_ context.Context, term string) ([]models.Teacher, error) {
	return r.filter(func(t models.Teacher) bool {
		return containsFold(t.Name, term) || containsFold(t.Subject, term)
	}), nil
}

// Create inserts a teacher with the next id.
func (r *TeacherRepository) Create(_ context.Context, input models.TeacherInput) (*models.Teacher, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	teacher := r.store.insertTeacher(input)
	return &teacher, nil
}

// Update rewrites every writable field and returns the number of rows changed.
func (r *TeacherRepository) Update(_ context.Context, id int64, input models.TeacherInput) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for i := range r.store.teachers {
		if r.store.teachers[i].ID != id {
			continue
		}
		t := &r.store.teachers[i]
		t.Name = input.Name
		t.Subject = input.Subject
		t.Email = copyString(input.Email)
		t.Phone = copyString(input.Phone)
		t.UpdatedAt = r.store.clock.Now()
		return 1, nil
	}
	return 0, nil
}

// Delete removes the teacher and returns the number of rows removed.
func (r *TeacherRepository) Delete(_ context.Context, id int64) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for i, t := range r.store.teachers {
		if t.ID == id {
			r.store.teachers = append(r.store.teachers[:i], r.store.teachers[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

// Count returns the number of teachers.
func (r *TeacherRepository) Count(_ context.Context) (int, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return len(r.store.teachers), nil
}

func (r *TeacherRepository) filter(keep func(models.Teacher) bool) []models.Teacher {
	r.store.mu.RLock()
	result := make([]models.Teacher, 0, len(r.store.teachers))
	for _, t := range r.store.teachers {
		if keep(t) {
			result = append(result, copyTeacher(t))
		}
	}
	r.store.mu.RUnlock()

	sortByName(result, func(t models.Teacher) string { return t.Name })
	return result
}
