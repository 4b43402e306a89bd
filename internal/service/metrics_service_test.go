package service

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsServiceExposesCollectors(t *testing.T) {
	m := NewMetricsService()
	m.ObserveHTTPRequest(http.MethodGet, "/api/alunos", http.StatusOK, 10*time.Millisecond)
	m.ObserveQuery("sqlite", "select", time.Millisecond, nil)
	m.ObserveQuery("sqlite", "insert", time.Millisecond, errors.New("constraint"))
	m.RecordCacheLookup(true)
	m.ObserveCacheWrite(time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, `http_requests_total{method="GET",path="/api/alunos",status="200"} 1`)
	assert.Contains(t, body, `db_query_errors_total{dialect="sqlite",operation="insert"} 1`)
	assert.Contains(t, body, `dashboard_cache_lookups_total{result="hit"} 1`)
}

func TestMetricsServiceNilSafe(t *testing.T) {
	var m *MetricsService
	m.ObserveHTTPRequest(http.MethodGet, "/", http.StatusOK, time.Millisecond)
	m.ObserveQuery("postgres", "select", time.Millisecond, nil)
	m.RecordCacheLookup(false)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
