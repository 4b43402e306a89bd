package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	_ "github.com/noah-isme/sistema-escolar/api/swagger"
	"github.com/noah-isme/sistema-escolar/internal/handler"
	"github.com/noah-isme/sistema-escolar/internal/repository"
	"github.com/noah-isme/sistema-escolar/internal/service"
	"github.com/noah-isme/sistema-escolar/internal/store"
	"github.com/noah-isme/sistema-escolar/pkg/cache"
	"github.com/noah-isme/sistema-escolar/pkg/config"
	"github.com/noah-isme/sistema-escolar/pkg/export"
	"github.com/noah-isme/sistema-escolar/pkg/logger"
	"github.com/noah-isme/sistema-escolar/pkg/password"
)

const cachePrefix = "sistema-escolar:"

// newApp assembles the server graph. Lifecycle hooks run in dependency order, so
// the store is bootstrapped before the listener opens and closed after it shuts down.
func newApp(cfg *config.Config) *fx.App {
	return fx.New(
		fx.Supply(cfg),
		fx.WithLogger(func(l *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: l.Named("fx")}
		}),
		fx.Provide(
			newLogger,
			service.NewMetricsService,
			newHasher,
			newValidator,
			newStore,
			newCacheService,
			newDashboardService,
			newUserService,
			newAuthService,
			newStudentService,
			newTeacherService,
			newExportService,
			newHandlers,
			newRouter,
			newHTTPServer,
		),
		fx.Invoke(func(*http.Server) {}),
	)
}

func newLogger(lc fx.Lifecycle, cfg *config.Config) (*zap.Logger, error) {
	logr, err := logger.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	lc.Append(fx.Hook{OnStop: func(context.Context) error {
		_ = logr.Sync()
		return nil
	}})
	return logr, nil
}

func newHasher(cfg *config.Config) password.Hasher {
	return password.New(cfg.Security)
}

func newValidator() *validator.Validate {
	return validator.New()
}

func newStore(lc fx.Lifecycle, cfg *config.Config, hasher password.Hasher, logr *zap.Logger, metrics *service.MetricsService) (*store.Store, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	st, err := store.Open(ctx, cfg.Database, hasher, logr, metrics)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStart: st.Bootstrap,
		OnStop: func(context.Context) error {
			return st.Close()
		},
	})
	return st, nil
}

// newCacheService connects Redis when the dashboard cache is enabled. An unreachable
// Redis leaves the cache disabled rather than failing startup.
func newCacheService(lc fx.Lifecycle, cfg *config.Config, logr *zap.Logger, metrics *service.MetricsService) *service.CacheService {
	if !cfg.Dashboard.CacheEnabled {
		return service.NewCacheService(nil, metrics, cfg.Dashboard.CacheTTL, logr, false)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	client, err := cache.NewRedis(ctx, cfg.Redis)
	if err != nil {
		logr.Warn("dashboard cache disabled", zap.Error(err))
		return service.NewCacheService(nil, metrics, cfg.Dashboard.CacheTTL, logr, false)
	}
	lc.Append(fx.Hook{OnStop: func(context.Context) error {
		return client.Close()
	}})

	logr.Info("dashboard cache enabled", zap.String("redis", cache.Addr(cfg.Redis)), zap.Duration("ttl", cfg.Dashboard.CacheTTL))
	return service.NewCacheService(repository.NewCacheRepository(client, cachePrefix), metrics, cfg.Dashboard.CacheTTL, logr, true)
}

func newDashboardService(st *store.Store, cacheSvc *service.CacheService, logr *zap.Logger) *service.DashboardService {
	return service.NewDashboardService(service.DashboardServiceParams{
		Users:    st.Users,
		Students: st.Students,
		Teachers: st.Teachers,
		Cache:    cacheSvc,
		Logger:   logr,
	})
}

func newUserService(st *store.Store, hasher password.Hasher, dashboard *service.DashboardService, v *validator.Validate, logr *zap.Logger) *service.UserService {
	return service.NewUserService(st.Users, hasher, dashboard, v, logr)
}

func newAuthService(st *store.Store, hasher password.Hasher, v *validator.Validate, logr *zap.Logger) *service.AuthService {
	return service.NewAuthService(st.Users, hasher, v, logr)
}

func newStudentService(st *store.Store, dashboard *service.DashboardService, v *validator.Validate, logr *zap.Logger) *service.StudentService {
	return service.NewStudentService(st.Students, dashboard, v, logr)
}

func newTeacherService(st *store.Store, dashboard *service.DashboardService, v *validator.Validate, logr *zap.Logger) *service.TeacherService {
	return service.NewTeacherService(st.Teachers, dashboard, v, logr)
}

func newExportService(students *service.StudentService, teachers *service.TeacherService, logr *zap.Logger) *service.ExportService {
	return service.NewExportService(students, teachers, export.NewCSVExporter(0), export.NewPDFExporter(), logr)
}

func newHandlers(
	cfg *config.Config,
	st *store.Store,
	metrics *service.MetricsService,
	users *service.UserService,
	auth *service.AuthService,
	students *service.StudentService,
	teachers *service.TeacherService,
	exports *service.ExportService,
	dashboard *service.DashboardService,
	logr *zap.Logger,
) handler.Handlers {
	frontend := handler.NewFrontendHandler(cfg.FrontendDir)
	if frontend == nil {
		logr.Info("frontend directory not found, serving API only", zap.String("dir", cfg.FrontendDir))
	}
	return handler.Handlers{
		Users:     handler.NewUserHandler(users),
		Students:  handler.NewStudentHandler(students, exports),
		Teachers:  handler.NewTeacherHandler(teachers, exports),
		Auth:      handler.NewAuthHandler(auth),
		Dashboard: handler.NewDashboardHandler(dashboard),
		Metrics:   handler.NewMetricsHandler(metrics, st, st.Mode),
		Frontend:  frontend,
	}
}

func newRouter(cfg *config.Config, logr *zap.Logger, metrics *service.MetricsService, handlers handler.Handlers) *gin.Engine {
	return handler.NewRouter(cfg, logr, metrics, handlers)
}

func newHTTPServer(lc fx.Lifecycle, cfg *config.Config, router *gin.Engine, logr *zap.Logger) *http.Server {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ln, err := net.Listen("tcp", srv.Addr)
			if err != nil {
				return fmt.Errorf("listen %s: %w", srv.Addr, err)
			}
			logr.Info("server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.Env), zap.String("version", version))
			go func() {
				if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logr.Error("server failed", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logr.Info("server stopping")
			return srv.Shutdown(ctx)
		},
	})
	return srv
}

// bootstrapOnly prepares the configured store without starting the server.
func bootstrapOnly(ctx context.Context, cfg *config.Config) error {
	logr, err := logger.New(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logr.Sync() //nolint:errcheck

	st, err := store.Open(ctx, cfg.Database, password.New(cfg.Security), logr, nil)
	if err != nil {
		return err
	}
	defer st.Close() //nolint:errcheck

	if st.Mode == config.ModeMemory {
		logr.Warn("memory store selected, bootstrap has no lasting effect")
	}
	return st.Bootstrap(ctx)
}
