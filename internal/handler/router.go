package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/noah-isme/sistema-escolar/internal/middleware"
	"github.com/noah-isme/sistema-escolar/pkg/config"
	"github.com/noah-isme/sistema-escolar/pkg/logger"
	"github.com/noah-isme/sistema-escolar/pkg/middleware/cors"
	"github.com/noah-isme/sistema-escolar/pkg/middleware/requestid"
	"github.com/noah-isme/sistema-escolar/pkg/response"
)

// Handlers groups every HTTP handler mounted by the router.
type Handlers struct {
	Users     *UserHandler
	Students  *StudentHandler
	Teachers  *TeacherHandler
	Auth      *AuthHandler
	Dashboard *DashboardHandler
	Metrics   *MetricsHandler
	Frontend  *FrontendHandler
}

// NewRouter builds the gin engine with middleware, API routes, docs and pages.
func NewRouter(cfg *config.Config, logr *zap.Logger, observer middleware.RequestObserver, h Handlers) *gin.Engine {
	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		logr.Error("panic recovered", zap.Any("panic", recovered), zap.String("path", c.Request.URL.Path))
		c.AbortWithStatusJSON(http.StatusInternalServerError, response.Envelope{Success: false, Message: "Erro interno do servidor"})
	}))
	r.Use(requestid.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(cors.New(cfg.CORS))
	r.Use(middleware.Metrics(observer))
	r.Use(middleware.ResponseMeta())

	r.GET("/health", h.Metrics.Health)
	r.GET("/ready", h.Metrics.Ready)
	r.GET("/metrics", h.Metrics.Prometheus)

	if cfg.EnableDocs {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	prefix := "/" + strings.Trim(cfg.APIPrefix, "/")
	api := r.Group(prefix)
	api.GET("/health", h.Metrics.Health)
	api.POST("/login", h.Auth.Login)
	api.GET("/dashboard", h.Dashboard.Stats)

	users := api.Group("/usuarios")
	users.GET("", h.Users.List)
	users.GET("/:id", h.Users.Get)
	users.POST("", h.Users.Create)
	users.PUT("/:id", h.Users.Update)
	users.DELETE("/:id", h.Users.Delete)

	students := api.Group("/alunos")
	students.GET("", h.Students.List)
	students.GET("/export", h.Students.Export)
	students.GET("/:id", h.Students.Get)
	students.POST("", h.Students.Create)
	students.PUT("/:id", h.Students.Update)
	students.DELETE("/:id", h.Students.Delete)

	teachers := api.Group("/professores")
	teachers.GET("", h.Teachers.List)
	teachers.GET("/export", h.Teachers.Export)
	teachers.GET("/:id", h.Teachers.Get)
	teachers.POST("", h.Teachers.Create)
	teachers.PUT("/:id", h.Teachers.Update)
	teachers.DELETE("/:id", h.Teachers.Delete)

	if h.Frontend != nil {
		h.Frontend.Register(r)
	}

	r.NoRoute(notFound(prefix))
	return r
}

// notFound answers unknown API paths with JSON and sends browsers back to the
// login page. Without a frontend "/" itself is unknown and must not redirect.
func notFound(prefix string) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if path == "/" || path == prefix || strings.HasPrefix(path, prefix+"/") {
			c.JSON(http.StatusNotFound, response.Envelope{Success: false, Message: "Rota não encontrada"})
			return
		}
		c.Redirect(http.StatusFound, "/")
	}
}
