package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/sistema-escolar/internal/service"
	"github.com/noah-isme/sistema-escolar/internal/store"
	"github.com/noah-isme/sistema-escolar/pkg/config"
	"github.com/noah-isme/sistema-escolar/pkg/password"
)

type responseEnvelope struct {
	Success bool                   `json:"success"`
	Message string                 `json:"message"`
	Data    json.RawMessage        `json:"data"`
	Meta    map[string]interface{} `json:"meta"`
}

type testServer struct {
	engine  *gin.Engine
	store   *store.Store
	metrics *service.MetricsService
}

func newTestServer(t *testing.T, frontendDir string) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logr := zap.NewNop()
	hasher := password.Plain{}
	st := store.NewMemory(hasher, logr)
	require.NoError(t, st.Bootstrap(context.Background()))

	metrics := service.NewMetricsService()
	cache := service.NewCacheService(nil, metrics, 0, logr, false)
	dashboard := service.NewDashboardService(service.DashboardServiceParams{
		Users:    st.Users,
		Students: st.Students,
		Teachers: st.Teachers,
		Cache:    cache,
		Logger:   logr,
	})

	users := service.NewUserService(st.Users, hasher, dashboard, nil, logr)
	students := service.NewStudentService(st.Students, dashboard, nil, logr)
	teachers := service.NewTeacherService(st.Teachers, dashboard, nil, logr)
	exports := service.NewExportService(students, teachers, nil, nil, logr)
	auth := service.NewAuthService(st.Users, hasher, nil, logr)

	cfg := &config.Config{Env: config.EnvDevelopment, APIPrefix: "/api"}
	engine := NewRouter(cfg, logr, metrics, Handlers{
		Users:     NewUserHandler(users),
		Students:  NewStudentHandler(students, exports),
		Teachers:  NewTeacherHandler(teachers, exports),
		Auth:      NewAuthHandler(auth),
		Dashboard: NewDashboardHandler(dashboard),
		Metrics:   NewMetricsHandler(metrics, st, st.Mode),
		Frontend:  NewFrontendHandler(frontendDir),
	})
	return &testServer{engine: engine, store: st, metrics: metrics}
}

func (s *testServer) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.engine.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) responseEnvelope {
	t.Helper()
	var env responseEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func TestLogin(t *testing.T) {
	srv := newTestServer(t, "")

	rec := srv.do(t, http.MethodPost, "/api/login", gin.H{"email": "admin@escola.com", "senha": "123456"})
	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Success bool                   `json:"success"`
		Message string                 `json:"message"`
		Usuario map[string]interface{} `json:"usuario"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, "Login realizado com sucesso", body.Message)
	assert.Equal(t, "Administrador", body.Usuario["nome"])
	assert.NotContains(t, body.Usuario, "senha")

	rec = srv.do(t, http.MethodPost, "/api/login", gin.H{"email": "admin@escola.com", "senha": "errada"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Email ou senha inválidos", decode(t, rec).Message)

	rec = srv.do(t, http.MethodPost, "/api/login", gin.H{"email": "admin@escola.com"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Email e senha são obrigatórios", decode(t, rec).Message)
}

func TestUserLifecycle(t *testing.T) {
	srv := newTestServer(t, "")

	create := gin.H{"nome": "Bruna", "email": "bruna@escola.com", "senha": "abc", "confirmarSenha": "abc"}
	rec := srv.do(t, http.MethodPost, "/api/usuarios", create)
	require.Equal(t, http.StatusCreated, rec.Code)
	env := decode(t, rec)
	assert.Equal(t, "Usuário criado com sucesso", env.Message)
	var created map[string]interface{}
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.NotContains(t, created, "senha")
	assert.EqualValues(t, 2, created["id"])

	rec = srv.do(t, http.MethodPost, "/api/usuarios", create)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "Email já está em uso", decode(t, rec).Message)

	mismatch := gin.H{"nome": "C", "email": "c@escola.com", "senha": "a", "confirmarSenha": "b"}
	rec = srv.do(t, http.MethodPost, "/api/usuarios", mismatch)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "As senhas não coincidem", decode(t, rec).Message)

	rec = srv.do(t, http.MethodPut, "/api/usuarios/2", gin.H{"nome": "Bruna Lima", "email": "bruna@escola.com", "senha": ""})
	require.Equal(t, http.StatusOK, rec.Code)
	var updated map[string]interface{}
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &updated))
	assert.Equal(t, "Bruna Lima", updated["nome"])

	rec = srv.do(t, http.MethodPost, "/api/login", gin.H{"email": "bruna@escola.com", "senha": "abc"})
	assert.Equal(t, http.StatusOK, rec.Code, "blank senha keeps the stored password")

	rec = srv.do(t, http.MethodPut, "/api/usuarios/2", gin.H{"nome": "Bruna", "email": "admin@escola.com"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = srv.do(t, http.MethodGet, "/api/usuarios", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list []map[string]interface{}
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &list))
	assert.Len(t, list, 2)

	rec = srv.do(t, http.MethodDelete, "/api/usuarios/2", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Usuário deletado com sucesso", decode(t, rec).Message)

	rec = srv.do(t, http.MethodDelete, "/api/usuarios/2", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestNonNumericIDIsNotFound(t *testing.T) {
	srv := newTestServer(t, "")

	cases := map[string]string{
		"/api/usuarios/abc":    "Usuário não encontrado",
		"/api/alunos/1x":       "Aluno não encontrado",
		"/api/professores/-3":  "Professor não encontrado",
		"/api/usuarios/999999": "Usuário não encontrado",
	}
	for path, message := range cases {
		rec := srv.do(t, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code, path)
		assert.Equal(t, message, decode(t, rec).Message, path)
	}
}

func TestStudentEndpoints(t *testing.T) {
	srv := newTestServer(t, "")

	rec := srv.do(t, http.MethodGet, "/api/alunos?search=silva", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var found []map[string]interface{}
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &found))
	require.Len(t, found, 1)
	assert.Equal(t, "João Silva", found[0]["nome"])
	assert.Equal(t, "2005-03-15", found[0]["data_nascimento"])

	rec = srv.do(t, http.MethodPost, "/api/alunos", gin.H{"nome": "Ana", "dataNascimento": "2010-02-30", "serieTurma": "5A"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Formato de data inválido (use AAAA-MM-DD)", decode(t, rec).Message)

	rec = srv.do(t, http.MethodPost, "/api/alunos", gin.H{"nome": "Ana", "dataNascimento": "2010-02-01", "serieTurma": "5A", "email": ""})
	require.Equal(t, http.StatusCreated, rec.Code)
	var created map[string]interface{}
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &created))
	assert.Nil(t, created["email"])

	rec = srv.do(t, http.MethodPut, "/api/alunos/3", gin.H{"nome": "Ana Paula", "dataNascimento": "2010-02-01", "serieTurma": "5B"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Aluno atualizado com sucesso", decode(t, rec).Message)

	rec = srv.do(t, http.MethodPost, "/api/alunos", "not an object")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRosterExport(t *testing.T) {
	srv := newTestServer(t, "")

	rec := srv.do(t, http.MethodGet, "/api/alunos/export", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), `attachment; filename="alunos-`)
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("\xEF\xBB\xBF")))
	assert.Contains(t, rec.Body.String(), "Maria Santos")

	rec = srv.do(t, http.MethodGet, "/api/professores/export?format=pdf", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF")))

	rec = srv.do(t, http.MethodGet, "/api/professores/export?format=xml", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTeacherSearchAndDashboard(t *testing.T) {
	srv := newTestServer(t, "")

	rec := srv.do(t, http.MethodGet, "/api/professores?search=portug", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var found []map[string]interface{}
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &found))
	require.Len(t, found, 1)
	assert.Equal(t, "Profa. Ana Costa", found[0]["nome"])

	rec = srv.do(t, http.MethodPost, "/api/professores", gin.H{"nome": "Paulo", "disciplina": "História"})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = srv.do(t, http.MethodGet, "/api/dashboard", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	env := decode(t, rec)
	var stats map[string]int
	require.NoError(t, json.Unmarshal(env.Data, &stats))
	assert.Equal(t, map[string]int{"totalUsuarios": 1, "totalAlunos": 2, "totalProfessores": 3}, stats)
	assert.Equal(t, false, env.Meta["cache_hit"])
}

func TestHealthReadyAndMetrics(t *testing.T) {
	srv := newTestServer(t, "")

	rec := srv.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = srv.do(t, http.MethodGet, "/ready", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"database":"memory"`)

	srv.do(t, http.MethodGet, "/api/alunos", nil)
	rec = srv.do(t, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `path="/api/alunos"`)
}

func TestUnknownRoutes(t *testing.T) {
	srv := newTestServer(t, "")

	rec := srv.do(t, http.MethodGet, "/api/nada", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Rota não encontrada", decode(t, rec).Message)

	rec = srv.do(t, http.MethodGet, "/qualquer/coisa", nil)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))

	rec = srv.do(t, http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestFrontendPages(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "pages"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "assets", "js"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "pages", "login.html"), []byte("<h1>login</h1>"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "pages", "index.html"), []byte("<h1>painel</h1>"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "assets", "js", "login.js"), []byte("// login"), 0o644))

	srv := newTestServer(t, dir)

	rec := srv.do(t, http.MethodGet, "/", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "login")

	rec = srv.do(t, http.MethodGet, "/dashboard", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "painel")

	rec = srv.do(t, http.MethodGet, "/assets/js/login.js", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = srv.do(t, http.MethodGet, "/alunos", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = srv.do(t, http.MethodGet, "/api/dashboard", nil)
	assert.True(t, strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json"))
}

func TestNewFrontendHandlerMissingDir(t *testing.T) {
	assert.Nil(t, NewFrontendHandler(""))
	assert.Nil(t, NewFrontendHandler(filepath.Join(t.TempDir(), "absent")))
}
