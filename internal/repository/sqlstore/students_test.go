package sqlstore

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sistema-escolar/internal/models"
)

func TestStudentSearchEscapesWildcards(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("FROM alunos WHERE nome LIKE $1 ESCAPE '\\' ORDER BY nome ASC")).
		WithArgs(`%50\%%`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "nome", "data_nascimento", "serie_turma", "email", "telefone", "created_at", "updated_at"}).
			AddRow(1, "Turma 50%", time.Date(2010, 5, 1, 0, 0, 0, 0, time.UTC), "5A", nil, nil, now, now))

	students, err := repo.Search(context.Background(), "50%")
	require.NoError(t, err)
	require.Len(t, students, 1)
	assert.Equal(t, "2010-05-01", students[0].BirthDate.String())
	assert.Nil(t, students[0].Email)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentCreateReturning(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	now := time.Now()
	email := "ana@x.com"
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO alunos (nome, data_nascimento, serie_turma, email, telefone, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING")).
		WithArgs("Ana", "2010-05-01", "5A", "ana@x.com", nil, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "nome", "data_nascimento", "serie_turma", "email", "telefone", "created_at", "updated_at"}).
			AddRow(4, "Ana", time.Date(2010, 5, 1, 0, 0, 0, 0, time.UTC), "5A", email, nil, now, now))

	student, err := repo.Create(context.Background(), models.StudentInput{
		Name:      "Ana",
		BirthDate: models.NewDate(2010, time.May, 1),
		Grade:     "5A",
		Email:     &email,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(4), student.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
