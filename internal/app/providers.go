package app

import (
	"fmt"
	"net/http"

	"github.com/google/wire"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	// Domains
	"github.com/furatpay/gateway/internal/domain/order"
	"github.com/furatpay/gateway/internal/domain/payment"

	// Inbound adapters
	ginadapter "github.com/furatpay/gateway/internal/adapter/inbound/gin"

	// Ports
	"github.com/furatpay/gateway/internal/port/inbound"
	"github.com/furatpay/gateway/internal/port/outbound"

	// Outbound adapters
	"github.com/furatpay/gateway/internal/adapter/outbound/furatpay"
	"github.com/furatpay/gateway/internal/adapter/outbound/memory"
	"github.com/furatpay/gateway/internal/adapter/outbound/postgres"
	redisadapter "github.com/furatpay/gateway/internal/adapter/outbound/redis"
	"github.com/furatpay/gateway/internal/adapter/outbound/token"

	// Infrastructure
	"github.com/furatpay/gateway/internal/infra/cache"
	"github.com/furatpay/gateway/internal/infra/config"
	"github.com/furatpay/gateway/internal/infra/database"
	"github.com/furatpay/gateway/internal/infra/events"
	"github.com/furatpay/gateway/internal/infra/httpclient"

	// Utils
	"github.com/furatpay/gateway/internal/utils/metrics"
	"github.com/furatpay/gateway/internal/utils/signature"
)

// ===== Infrastructure Providers =====

// InfraSet provides infrastructure dependencies.
var InfraSet = wire.NewSet(
	ProvideDatabase,
	ProvideRedisClient,
	ProvideHTTPClient,
	ProvideMetrics,
	ProvideEventBus,
	ProvideEventPublisher,
)

// ProvideDatabase opens the Postgres pool. It returns a nil DB for the memory driver.
func ProvideDatabase(cfg *config.Config, logger *zap.Logger) (*gorm.DB, func(), error) {
	if cfg.Database.InMemory() {
		logger.Warn("using in-memory order store, state is lost on restart")
		return nil, func() {}, nil
	}

	db, err := database.New(&cfg.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("init database: %w", err)
	}
	cleanup := func() {
		if err := database.Close(db); err != nil {
			logger.Warn("failed to close database", zap.Error(err))
		}
	}
	return db, cleanup, nil
}

// ProvideRedisClient creates a Redis client. Redis is optional; on failure the
// in-memory stores are used instead.
func ProvideRedisClient(cfg *config.Config, logger *zap.Logger) (*goredis.Client, func()) {
	if cfg.Redis.Address == "" {
		return nil, func() {}
	}
	client, err := cache.NewRedisClient(&cfg.Redis)
	if err != nil {
		logger.Warn("Redis connection failed, continuing without cache", zap.Error(err))
		return nil, func() {}
	}
	return client, func() { _ = client.Close() }
}

// ProvideHTTPClient creates a shared HTTP client with connection pooling.
func ProvideHTTPClient(cfg *config.Config) *http.Client {
	return httpclient.New(cfg.HTTPClient)
}

// ProvideMetrics creates a metrics instance.
func ProvideMetrics() *metrics.Metrics {
	return metrics.New("furatpay")
}

// ProvideEventBus creates the domain event bus with its handlers registered.
func ProvideEventBus(m *metrics.Metrics, logger *zap.Logger) *events.Bus {
	bus := events.NewBus(logger.Named("events"))
	bus.Register(newMetricsEventHandler(m))
	bus.Register(newAuditEventHandler(logger.Named("audit")))
	return bus
}

// ProvideEventPublisher adapts the bus to the outbound publisher port.
func ProvideEventPublisher(bus *events.Bus) outbound.EventPublisherPort {
	return events.NewPublisher(bus)
}

// ===== Store Providers =====

// StoreSet provides the order, notification, cache and rate limit stores.
var StoreSet = wire.NewSet(
	ProvideOrderState,
	ProvideNotificationLog,
	ProvideServiceCache,
	ProvideCheckoutData,
	ProvideRateLimiter,
)

// ProvideOrderState creates the order state store.
func ProvideOrderState(db *gorm.DB) outbound.OrderStatePort {
	if db == nil {
		return memory.NewOrderStore()
	}
	return postgres.NewOrderStateAdapter(db)
}

// ProvideNotificationLog creates the notification audit log.
func ProvideNotificationLog(db *gorm.DB) outbound.NotificationLogPort {
	if db == nil {
		return memory.NewNotificationLog()
	}
	return postgres.NewNotificationLogAdapter(db)
}

// ProvideServiceCache creates the payment service list cache.
func ProvideServiceCache(client *goredis.Client, m *metrics.Metrics) outbound.ServiceCachePort {
	if client == nil {
		return newInstrumentedServiceCache(memory.NewServiceCache(), m)
	}
	return newInstrumentedServiceCache(redisadapter.NewServiceCacheAdapter(client), m)
}

// ProvideCheckoutData creates the blocks extension data store.
func ProvideCheckoutData(client *goredis.Client) outbound.CheckoutDataStorePort {
	if client == nil {
		return memory.NewCheckoutDataStore()
	}
	return redisadapter.NewCheckoutDataAdapter(client)
}

// ProvideRateLimiter creates a rate limiter.
func ProvideRateLimiter(client *goredis.Client) outbound.RateLimiterPort {
	if client == nil {
		return memory.NewRateLimiter()
	}
	return redisadapter.NewRateLimiter(client)
}

// ===== Order Domain Providers =====

// OrderSet provides order domain dependencies.
var OrderSet = wire.NewSet(
	order.NewOrderDomain,
	ProvideOrderAccess,
)

// ProvideOrderAccess exposes the order domain as the payment domain's key check.
func ProvideOrderAccess(d order.OrderDomain) outbound.OrderAccessPort {
	return d
}

// ===== Payment Domain Providers =====

// PaymentSet provides payment domain dependencies.
var PaymentSet = wire.NewSet(
	ProvidePaymentAPI,
	ProvideSignatureVerifier,
	ProvideStatusTokens,
	ProvidePaymentConfig,
	payment.NewPaymentDomain,
)

// ProvidePaymentAPI creates the FuratPay API client.
func ProvidePaymentAPI(client *http.Client, cfg *config.Config, m *metrics.Metrics, logger *zap.Logger) outbound.PaymentAPIPort {
	return furatpay.NewClient(client, cfg.FuratPay, m, logger)
}

// ProvideSignatureVerifier creates the notification signature verifier.
func ProvideSignatureVerifier(cfg *config.Config) outbound.SignatureVerifierPort {
	return signature.NewHMACVerifier(cfg.FuratPay.WebhookSecret)
}

// ProvideStatusTokens creates the status token manager.
func ProvideStatusTokens(cfg *config.Config) (outbound.StatusTokenPort, error) {
	return token.NewJWTManager(token.Config{
		Secret: cfg.Token.Secret,
		TTL:    cfg.Token.TTL,
	})
}

// ProvidePaymentConfig maps checkout and polling settings onto the payment domain.
func ProvidePaymentConfig(cfg *config.Config) *payment.Config {
	pc := payment.DefaultConfig()
	if cfg.Checkout.ReturnURL != "" {
		pc.ReturnURL = cfg.Checkout.ReturnURL
	}
	if cfg.Checkout.PayPageURL != "" {
		pc.PayPageURL = cfg.Checkout.PayPageURL
	}
	if cfg.Checkout.ServicesCacheTTL > 0 {
		pc.ServicesCacheTTL = cfg.Checkout.ServicesCacheTTL
	}
	if cfg.Checkout.ServicesFetchTimeout > 0 {
		pc.ServicesFetchTimeout = cfg.Checkout.ServicesFetchTimeout
	}
	if cfg.Checkout.ExtensionDataTTL > 0 {
		pc.ExtensionDataTTL = cfg.Checkout.ExtensionDataTTL
	}
	pc.PollInterval = cfg.Polling.Interval
	pc.MaxAttempts = cfg.Polling.MaxAttempts
	return pc
}

// ===== HTTP Handler Providers =====

// HandlerSet provides the inbound HTTP adapters.
var HandlerSet = wire.NewSet(
	ginadapter.NewPaymentServiceAdapter,
	ginadapter.NewCheckoutAdapter,
	ginadapter.NewOrderAdapter,
	ProvideNotificationHandler,
)

// ProvideNotificationHandler creates the notification adapter.
func ProvideNotificationHandler(d payment.PaymentDomain, cfg *config.Config, logger *zap.Logger) inbound.NotificationHttpPort {
	return ginadapter.NewNotificationAdapter(d, cfg.FuratPay.SignatureHeader, logger)
}

// AppSet is the complete provider set.
var AppSet = wire.NewSet(
	InfraSet,
	StoreSet,
	OrderSet,
	PaymentSet,
	HandlerSet,
)
