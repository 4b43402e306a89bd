package sqlstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sistema-escolar/internal/models"
	"github.com/noah-isme/sistema-escolar/internal/repository"
	"github.com/noah-isme/sistema-escolar/pkg/database"
)

var adminSeed = models.UserInput{Name: "Administrador", Email: "admin@escola.com", Password: "123456"}

func newSQLite(t *testing.T) *DB {
	t.Helper()
	ctx := context.Background()

	handle, err := database.NewSQLite(ctx, ":memory:")
	require.NoError(t, err)
	db := New(handle, SQLite{})
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, Bootstrap(ctx, db, adminSeed))
	return db
}

func strPtr(s string) *string { return &s }

func TestSQLiteBootstrapIsIdempotent(t *testing.T) {
	ctx := context.Background()
	db := newSQLite(t)

	require.NoError(t, Bootstrap(ctx, db, adminSeed))

	users := NewUserRepository(db)
	total, err := users.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, total)

	admin, err := users.GetByEmail(ctx, "admin@escola.com")
	require.NoError(t, err)
	require.NotNil(t, admin)
	assert.Equal(t, "Administrador", admin.Name)
	assert.Equal(t, "123456", admin.Password)
}

func TestSQLiteUserLifecycle(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(newSQLite(t))

	bob, err := repo.Create(ctx, models.UserInput{Name: "Bob", Email: "bob@x.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Positive(t, bob.ID)

	stored, err := repo.GetByID(ctx, bob.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "Bob", stored.Name)
	assert.Equal(t, "bob@x.com", stored.Email)
	assert.Equal(t, "secret1", stored.Password)
	assert.True(t, stored.CreatedAt.Equal(bob.CreatedAt))

	_, err = repo.Create(ctx, models.UserInput{Name: "Other Bob", Email: "bob@x.com", Password: "other"})
	assert.ErrorIs(t, err, repository.ErrDuplicateEmail)

	owner, err := repo.GetByEmail(ctx, "bob@x.com")
	require.NoError(t, err)
	assert.Equal(t, bob.ID, owner.ID)

	affected, err := repo.Update(ctx, bob.ID, models.UserInput{Name: "Robert", Email: "bob@x.com"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	updated, err := repo.GetByID(ctx, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, "Robert", updated.Name)
	assert.Equal(t, "secret1", updated.Password)
	assert.True(t, updated.UpdatedAt.After(stored.UpdatedAt))

	_, err = repo.Update(ctx, bob.ID, models.UserInput{Name: "Robert", Email: "admin@escola.com"})
	assert.ErrorIs(t, err, repository.ErrDuplicateEmail)

	affected, err = repo.Delete(ctx, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	gone, err := repo.GetByID(ctx, bob.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)

	affected, err = repo.Delete(ctx, bob.ID)
	require.NoError(t, err)
	assert.Zero(t, affected)
}

func TestSQLiteStudentScenario(t *testing.T) {
	ctx := context.Background()
	repo := NewStudentRepository(newSQLite(t))

	ana, err := repo.Create(ctx, models.StudentInput{Name: "Ana", BirthDate: models.NewDate(2010, time.May, 1), Grade: "5A"})
	require.NoError(t, err)
	assert.Positive(t, ana.ID)

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "Ana", all[0].Name)
	assert.Equal(t, "5A", all[0].Grade)
	assert.Equal(t, "2010-05-01", all[0].BirthDate.String())
	assert.Nil(t, all[0].Phone)

	affected, err := repo.Update(ctx, ana.ID, models.StudentInput{
		Name:      "Ana Paula",
		BirthDate: models.NewDate(2010, time.May, 2),
		Grade:     "6A",
		Phone:     strPtr("(11) 90000-0000"),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	updated, err := repo.GetByID(ctx, ana.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ana Paula", updated.Name)
	assert.Equal(t, "2010-05-02", updated.BirthDate.String())
	require.NotNil(t, updated.Phone)
	assert.Equal(t, "(11) 90000-0000", *updated.Phone)
	assert.True(t, updated.UpdatedAt.After(ana.UpdatedAt))

	missing, err := repo.Update(ctx, 999, models.StudentInput{Name: "X", BirthDate: models.NewDate(2000, time.January, 1), Grade: "1A"})
	require.NoError(t, err)
	assert.Zero(t, missing)
}

func TestSQLiteSearchReturnsMatchingSubset(t *testing.T) {
	ctx := context.Background()
	db := newSQLite(t)
	students := NewStudentRepository(db)
	teachers := NewTeacherRepository(db)

	for _, name := range []string{"Ana Souza", "Bruno Lima", "Mariana", "Carla_1"} {
		_, err := students.Create(ctx, models.StudentInput{Name: name, BirthDate: models.NewDate(2010, time.January, 1), Grade: "1A"})
		require.NoError(t, err)
	}

	found, err := students.Search(ctx, "ana")
	require.NoError(t, err)
	names := make([]string, 0, len(found))
	for _, s := range found {
		names = append(names, s.Name)
	}
	assert.Equal(t, []string{"Ana Souza", "Mariana"}, names)

	found, err = students.Search(ctx, "_")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Carla_1", found[0].Name)

	_, err = teachers.Create(ctx, models.TeacherInput{Name: "Carlos", Subject: "Matemática"})
	require.NoError(t, err)
	_, err = teachers.Create(ctx, models.TeacherInput{Name: "Ana Costa", Subject: "Português"})
	require.NoError(t, err)

	byName, err := teachers.Search(ctx, "Carlos")
	require.NoError(t, err)
	require.Len(t, byName, 1)

	bySubject, err := teachers.Search(ctx, "Portu")
	require.NoError(t, err)
	require.Len(t, bySubject, 1)
	assert.Equal(t, "Ana Costa", bySubject[0].Name)
}

func TestSQLiteTeacherCountMatchesGetAll(t *testing.T) {
	ctx := context.Background()
	repo := NewTeacherRepository(newSQLite(t))

	check := func() {
		all, err := repo.GetAll(ctx)
		require.NoError(t, err)
		total, err := repo.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, len(all), total)
	}

	check()
	first, err := repo.Create(ctx, models.TeacherInput{Name: "Prof. Carlos", Subject: "Matemática", Email: strPtr("c@escola.com")})
	require.NoError(t, err)
	check()
	_, err = repo.Create(ctx, models.TeacherInput{Name: "Profa. Ana", Subject: "Português"})
	require.NoError(t, err)
	check()

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Prof. Carlos", all[0].Name)
	assert.Equal(t, "Profa. Ana", all[1].Name)

	_, err = repo.Delete(ctx, first.ID)
	require.NoError(t, err)
	check()
}

func TestSQLiteTeacherLifecycle(t *testing.T) {
	ctx := context.Background()
	repo := NewTeacherRepository(newSQLite(t))

	paulo, err := repo.Create(ctx, models.TeacherInput{Name: "Paulo", Subject: "História"})
	require.NoError(t, err)
	assert.Positive(t, paulo.ID)

	stored, err := repo.GetByID(ctx, paulo.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Nil(t, stored.Email)

	affected, err := repo.Update(ctx, paulo.ID, models.TeacherInput{
		Name:    "Paulo Reis",
		Subject: "Geografia",
		Email:   strPtr("paulo@escola.com"),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	updated, err := repo.GetByID(ctx, paulo.ID)
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, "Paulo Reis", updated.Name)
	assert.Equal(t, "Geografia", updated.Subject)
	require.NotNil(t, updated.Email)
	assert.Equal(t, "paulo@escola.com", *updated.Email)
	assert.True(t, updated.UpdatedAt.After(stored.UpdatedAt))

	missing, err := repo.Update(ctx, 999, models.TeacherInput{Name: "X", Subject: "Y"})
	require.NoError(t, err)
	assert.Zero(t, missing)

	affected, err = repo.Delete(ctx, paulo.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	gone, err := repo.GetByID(ctx, paulo.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)

	affected, err = repo.Delete(ctx, paulo.ID)
	require.NoError(t, err)
	assert.Zero(t, affected)
}
