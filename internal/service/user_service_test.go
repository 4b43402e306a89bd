package service

import (
	"context"
	"errors"
	"net/http"
	"sort"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/sistema-escolar/internal/models"
	"github.com/noah-isme/sistema-escolar/internal/repository"
	appErrors "github.com/noah-isme/sistema-escolar/pkg/errors"
	"github.com/noah-isme/sistema-escolar/pkg/password"
)

type mockUserRepo struct {
	users  map[int64]models.User
	nextID int64
	err    error
}

func newMockUserRepo(users ...models.User) *mockUserRepo {
	m := &mockUserRepo{users: make(map[int64]models.User), nextID: 1}
	for _, u := range users {
		m.users[u.ID] = u
		if u.ID >= m.nextID {
			m.nextID = u.ID + 1
		}
	}
	return m
}

func (m *mockUserRepo) emailTaken(email string, except int64) bool {
	for id, u := range m.users {
		if id != except && u.Email == email {
			return true
		}
	}
	return false
}

func (m *mockUserRepo) GetAll(ctx context.Context) ([]models.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	users := make([]models.User, 0, len(m.users))
	for _, u := range m.users {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Name < users[j].Name })
	return users, nil
}

func (m *mockUserRepo) GetByID(ctx context.Context, id int64) (*models.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	if u, ok := m.users[id]; ok {
		return &u, nil
	}
	return nil, nil
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	for _, u := range m.users {
		if u.Email == email {
			found := u
			return &found, nil
		}
	}
	return nil, nil
}

func (m *mockUserRepo) Create(ctx context.Context, input models.UserInput) (*models.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.emailTaken(input.Email, 0) {
		return nil, repository.ErrDuplicateEmail
	}
	u := models.User{ID: m.nextID, Name: input.Name, Email: input.Email, Password: input.Password}
	m.nextID++
	m.users[u.ID] = u
	return &u, nil
}

func (m *mockUserRepo) Update(ctx context.Context, id int64, input models.UserInput) (int64, error) {
	if m.err != nil {
		return 0, m.err
	}
	u, ok := m.users[id]
	if !ok {
		return 0, nil
	}
	if m.emailTaken(input.Email, id) {
		return 0, repository.ErrDuplicateEmail
	}
	u.Name, u.Email = input.Name, input.Email
	if input.Password != "" {
		u.Password = input.Password
	}
	m.users[id] = u
	return 1, nil
}

func (m *mockUserRepo) Delete(ctx context.Context, id int64) (int64, error) {
	if m.err != nil {
		return 0, m.err
	}
	if _, ok := m.users[id]; !ok {
		return 0, nil
	}
	delete(m.users, id)
	return 1, nil
}

type countingInvalidator struct {
	calls int
}

func (c *countingInvalidator) Invalidate(ctx context.Context) { c.calls++ }

func statusOf(t *testing.T, err error) int {
	t.Helper()
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr), "expected *errors.Error, got %T", err)
	return appErr.Status
}

func newUserService(repo *mockUserRepo, stats statsInvalidator) *UserService {
	return NewUserService(repo, password.Plain{}, stats, validator.New(), zap.NewNop())
}

func TestUserServiceCreate(t *testing.T) {
	repo := newMockUserRepo()
	stats := &countingInvalidator{}
	svc := newUserService(repo, stats)

	user, err := svc.Create(context.Background(), CreateUserRequest{Name: " Bob ", Email: "bob@x.com", Password: "secret1", ConfirmPassword: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "Bob", user.Name)
	assert.Equal(t, 1, stats.calls)
}

func TestUserServiceCreateDuplicate(t *testing.T) {
	repo := newMockUserRepo(models.User{ID: 1, Name: "Bob", Email: "bob@x.com", Password: "secret1"})
	svc := newUserService(repo, nil)

	_, err := svc.Create(context.Background(), CreateUserRequest{Name: "Bob 2", Email: "bob@x.com", Password: "x", ConfirmPassword: "x"})
	require.Error(t, err)
	assert.Equal(t, http.StatusConflict, statusOf(t, err))
	assert.Len(t, repo.users, 1)
	assert.Equal(t, "Bob", repo.users[1].Name)
}

func TestUserServiceCreateValidation(t *testing.T) {
	svc := newUserService(newMockUserRepo(), nil)

	_, err := svc.Create(context.Background(), CreateUserRequest{Name: "Bob", Email: "bob@x.com", Password: "a", ConfirmPassword: "b"})
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, statusOf(t, err))
	assert.Equal(t, "As senhas não coincidem", appErrors.FromError(err).Message)

	_, err = svc.Create(context.Background(), CreateUserRequest{Name: "  ", Email: "bob@x.com", Password: "a", ConfirmPassword: "a"})
	require.Error(t, err)
	assert.Equal(t, "Nome, email e senha são obrigatórios", appErrors.FromError(err).Message)
}

func TestUserServiceCreateHashesPassword(t *testing.T) {
	repo := newMockUserRepo()
	hasher := password.NewBcrypt(4)
	svc := NewUserService(repo, hasher, nil, nil, nil)

	user, err := svc.Create(context.Background(), CreateUserRequest{Name: "Bob", Email: "bob@x.com", Password: "secret1", ConfirmPassword: "secret1"})
	require.NoError(t, err)
	assert.NotEqual(t, "secret1", repo.users[user.ID].Password)
	assert.True(t, hasher.Compare(repo.users[user.ID].Password, "secret1"))
}

func TestUserServiceUpdate(t *testing.T) {
	repo := newMockUserRepo(
		models.User{ID: 1, Name: "Admin", Email: "admin@escola.com", Password: "123456"},
		models.User{ID: 2, Name: "Bob", Email: "bob@x.com", Password: "secret1"},
	)
	svc := newUserService(repo, nil)
	ctx := context.Background()

	user, err := svc.Update(ctx, 2, UpdateUserRequest{Name: "Robert", Email: "bob@x.com"})
	require.NoError(t, err)
	assert.Equal(t, "Robert", user.Name)
	assert.Equal(t, "secret1", repo.users[2].Password)

	_, err = svc.Update(ctx, 2, UpdateUserRequest{Name: "Robert", Email: "bob@x.com", Password: "n1", ConfirmPassword: "n2"})
	assert.Equal(t, http.StatusBadRequest, statusOf(t, err))

	_, err = svc.Update(ctx, 2, UpdateUserRequest{Name: "Robert", Email: "admin@escola.com"})
	assert.Equal(t, http.StatusConflict, statusOf(t, err))

	_, err = svc.Update(ctx, 99, UpdateUserRequest{Name: "Ghost", Email: "ghost@x.com"})
	assert.Equal(t, http.StatusNotFound, statusOf(t, err))
}

func TestUserServiceGetAndDelete(t *testing.T) {
	repo := newMockUserRepo(models.User{ID: 1, Name: "Admin", Email: "admin@escola.com"})
	stats := &countingInvalidator{}
	svc := newUserService(repo, stats)
	ctx := context.Background()

	_, err := svc.Get(ctx, 5)
	assert.Equal(t, http.StatusNotFound, statusOf(t, err))

	require.NoError(t, svc.Delete(ctx, 1))
	assert.Equal(t, 1, stats.calls)

	err = svc.Delete(ctx, 1)
	assert.Equal(t, http.StatusNotFound, statusOf(t, err))
	assert.Equal(t, 1, stats.calls)
}

func TestUserServiceStoreFailure(t *testing.T) {
	repo := newMockUserRepo()
	repo.err = errors.New("db down")
	svc := newUserService(repo, nil)

	_, err := svc.List(context.Background())
	require.Error(t, err)
	assert.Equal(t, http.StatusInternalServerError, statusOf(t, err))
	assert.ErrorIs(t, err, repo.err)
}
