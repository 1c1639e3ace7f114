package router

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"github.com/eudaura/telehealth-api/internal/handler"
	"github.com/eudaura/telehealth-api/internal/middleware"
	"github.com/eudaura/telehealth-api/internal/model"
	"github.com/eudaura/telehealth-api/pkg/metrics"
)

type Handler interface {
	RegisterRoutes(*gin.RouterGroup)
}

type Router struct {
	engine   *gin.Engine
	auth     *middleware.AuthMiddleware
	patientH Handler
	clinicH  Handler
	authH    Handler
	contactH Handler
	uploadH  Handler
	adminH   Handler
	h        *handler.Handler
	metrics  *metrics.Metrics
}

type RouterConfig struct {
	RateLimit  rate.Limit
	RateBurst  int
	CORSConfig middleware.CORSConfig
}

func NewRouter(
	auth *middleware.AuthMiddleware,
	patientH Handler,
	clinicH Handler,
	authH Handler,
	contactH Handler,
	uploadH Handler,
	adminH Handler,
	h *handler.Handler,
	m *metrics.Metrics,
	config RouterConfig,
) *Router {
	gin.SetMode(gin.ReleaseMode)

	engine := gin.New()

	r := &Router{
		engine:   engine,
		auth:     auth,
		patientH: patientH,
		clinicH:  clinicH,
		authH:    authH,
		contactH: contactH,
		uploadH:  uploadH,
		adminH:   adminH,
		h:        h,
		metrics:  m,
	}

	engine.Use(
		gin.Recovery(),
		middleware.Logger(),
		middleware.RequestID(),
		r.metricsMiddleware(),
	)

	engine.Use(middleware.CORS(config.CORSConfig))

	rateLimiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
		RPS:   config.RateLimit,
		Burst: config.RateBurst,
	})
	engine.Use(rateLimiter.RateLimit())

	return r
}

func (r *Router) Setup() {
	api := r.engine.Group("/api/v1")

	api.Use(func(c *gin.Context) {
		c.Header("X-API-Version", "1.0")
		c.Next()
	})

	r.setupHealthCheck(api)

	// Public routes
	r.patientH.RegisterRoutes(api)
	r.clinicH.RegisterRoutes(api)
	r.authH.RegisterRoutes(api)
	r.contactH.RegisterRoutes(api)
	r.uploadH.RegisterRoutes(api)

	// Admin routes
	admin := api.Group("/admin")
	admin.Use(
		r.auth.Authenticate(),
		r.auth.RequireRole(model.RoleAdmin),
	)
	r.adminH.RegisterRoutes(admin)
}

func (r *Router) setupHealthCheck(rg *gin.RouterGroup) {
	health := rg.Group("/health")
	{
		health.GET("/live", r.h.LivenessCheck)
		health.GET("/ready", r.h.ReadinessCheck)
	}

	rg.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

func (r *Router) metricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.FullPath()

		c.Next()

		status := strconv.Itoa(c.Writer.Status())
		duration := time.Since(start).Seconds()

		r.metrics.RequestTotal.WithLabelValues(c.Request.Method, path, status).Inc()
		r.metrics.RequestDuration.WithLabelValues(c.Request.Method, path).Observe(duration)

		if c.Writer.Status() >= 400 {
			r.metrics.ErrorTotal.WithLabelValues(c.Request.Method, path, status).Inc()
		}
	}
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}
