package app

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	goredis "github.com/redis/go-redis/v9"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
	"gorm.io/gorm"

	_ "github.com/furatpay/gateway/cmd/server/docs" // swagger docs
	ginadapter "github.com/furatpay/gateway/internal/adapter/inbound/gin"
	"github.com/furatpay/gateway/internal/domain/order"
	"github.com/furatpay/gateway/internal/domain/payment"
	"github.com/furatpay/gateway/internal/infra/config"
	"github.com/furatpay/gateway/internal/port/inbound"
	"github.com/furatpay/gateway/internal/port/outbound"
	"github.com/furatpay/gateway/internal/utils/metrics"
	"github.com/furatpay/gateway/internal/utils/middleware"
)

// Dependencies holds all injected dependencies.
type Dependencies struct {
	Config      *config.Config
	Logger      *zap.Logger
	DB          *gorm.DB
	Redis       *goredis.Client
	Metrics     *metrics.Metrics
	RateLimiter outbound.RateLimiterPort

	// Domains
	OrderDomain   order.OrderDomain
	PaymentDomain payment.PaymentDomain

	// HTTP Handlers
	PaymentServiceHandler inbound.PaymentServiceHttpPort
	CheckoutHandler       inbound.CheckoutHttpPort
	NotificationHandler   inbound.NotificationHttpPort
	OrderHandler          inbound.OrderHttpPort
}

// App represents the application.
type App struct {
	config  *config.Config
	deps    *Dependencies
	router  *gin.Engine
	logger  *zap.Logger
	cleanup func()
}

// New creates a new application instance.
func New(cfg *config.Config, logger *zap.Logger) (*App, error) {
	deps, cleanup, err := InitializeDependencies(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("init dependencies: %w", err)
	}

	app := &App{
		config:  cfg,
		deps:    deps,
		logger:  logger,
		cleanup: cleanup,
	}

	app.router = app.setupRouter()
	app.registerRoutes()

	if !deps.PaymentDomain.Available() {
		logger.Warn("FuratPay is not configured, checkout is disabled")
	}

	return app, nil
}

// setupRouter creates and configures the Gin router.
func (a *App) setupRouter() *gin.Engine {
	switch a.config.Server.Mode {
	case gin.DebugMode, gin.TestMode:
		gin.SetMode(a.config.Server.Mode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Apply global middleware
	r.Use(middleware.Recovery(a.logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.Logging(a.logger))
	r.Use(middleware.CORS(middleware.CORSConfigFrom(a.config.CORS)))
	r.Use(middleware.Metrics(a.deps.Metrics))

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":            "ok",
			"gateway_available": a.deps.PaymentDomain.Available(),
		})
	})

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Swagger documentation endpoint
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))

	return r
}

// registerRoutes registers the API routes.
func (a *App) registerRoutes() {
	v1 := a.router.Group("/api/v1")

	var statusLimit, notificationLimit []gin.HandlerFunc
	if rl := a.config.RateLimit; rl.Enabled {
		statusLimit = append(statusLimit, middleware.RateLimitByParam(
			a.deps.RateLimiter, "status", "id", rl.StatusLimit, rl.StatusWindow, a.logger,
		))
		notificationLimit = append(notificationLimit, middleware.RateLimitByIP(
			a.deps.RateLimiter, "notification", rl.NotificationLimit, rl.NotificationWindow, a.logger,
		))
	}

	ginadapter.RegisterPaymentServiceRoutes(v1, a.deps.PaymentServiceHandler)
	ginadapter.RegisterCheckoutRoutes(v1, a.deps.CheckoutHandler, statusLimit...)
	ginadapter.RegisterNotificationRoutes(v1, a.deps.NotificationHandler, notificationLimit...)
	ginadapter.RegisterOrderRoutes(v1, a.deps.OrderHandler)
}

// Router returns the HTTP router.
func (a *App) Router() *gin.Engine {
	return a.router
}

// Stop releases database and cache connections.
func (a *App) Stop() {
	if a.cleanup != nil {
		a.cleanup()
	}
	_ = a.logger.Sync()
}
