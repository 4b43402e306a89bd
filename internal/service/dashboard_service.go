package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/noah-isme/sistema-escolar/internal/models"
	appErrors "github.com/noah-isme/sistema-escolar/pkg/errors"
)

const dashboardCacheKey = "dashboard:stats"

type entityCounter interface {
	Count(ctx context.Context) (int, error)
}

// DashboardServiceParams groups constructor dependencies.
type DashboardServiceParams struct {
	Users    entityCounter
	Students entityCounter
	Teachers entityCounter
	Cache    *CacheService
	Logger   *zap.Logger
}

// DashboardService aggregates entity totals, optionally through the cache.
type DashboardService struct {
	users    entityCounter
	students entityCounter
	teachers entityCounter
	cache    *CacheService
	logger   *zap.Logger
}

// NewDashboardService constructs a DashboardService.
func NewDashboardService(params DashboardServiceParams) *DashboardService {
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{
		users:    params.Users,
		students: params.Students,
		teachers: params.Teachers,
		cache:    params.Cache,
		logger:   logger,
	}
}

// Stats returns the totals and whether they came from the cache.
func (s *DashboardService) Stats(ctx context.Context) (*models.DashboardStats, bool, error) {
	var cached models.DashboardStats
	if s.cache.Get(ctx, dashboardCacheKey, &cached) {
		return &cached, true, nil
	}

	stats := &models.DashboardStats{}
	var err error
	if stats.TotalUsers, err = s.users.Count(ctx); err != nil {
		return nil, false, appErrors.Internal(err, "Erro ao buscar estatísticas")
	}
	if stats.TotalStudents, err = s.students.Count(ctx); err != nil {
		return nil, false, appErrors.Internal(err, "Erro ao buscar estatísticas")
	}
	if stats.TotalTeachers, err = s.teachers.Count(ctx); err != nil {
		return nil, false, appErrors.Internal(err, "Erro ao buscar estatísticas")
	}

	s.cache.Set(ctx, dashboardCacheKey, stats)
	return stats, false, nil
}

// Invalidate drops the cached totals after a create or delete.
func (s *DashboardService) Invalidate(ctx context.Context) {
	s.cache.Invalidate(ctx, dashboardCacheKey)
}
