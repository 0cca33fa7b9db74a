package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Redis      RedisConfig      `mapstructure:"redis"`
	HTTPClient HTTPClientConfig `mapstructure:"http_client"`
	RateLimit  RateLimitConfig  `mapstructure:"rate_limit"`
	CORS       CORSConfig       `mapstructure:"cors"`
	Log        LogConfig        `mapstructure:"log"`
	FuratPay   FuratPayConfig   `mapstructure:"furatpay"`
	Checkout   CheckoutConfig   `mapstructure:"checkout"`
	Polling    PollingConfig    `mapstructure:"polling"`
	Token      TokenConfig      `mapstructure:"token"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Address         string        `mapstructure:"address"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	Mode            string        `mapstructure:"mode"` // debug, release, test
}

// DatabaseConfig holds database configuration.
type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver"` // postgres, memory
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Database        string        `mapstructure:"database"`
	SSLMode         string        `mapstructure:"ssl_mode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
	AutoMigrate     bool          `mapstructure:"auto_migrate"`
}

// DSN returns the database connection string.
func (c *DatabaseConfig) DSN() string {
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Database, c.SSLMode,
	)
	if c.Password != "" {
		dsn += fmt.Sprintf(" password=%s", c.Password)
	}
	return dsn
}

// InMemory returns true if orders are kept in process memory.
func (c *DatabaseConfig) InMemory() bool {
	return c.Driver == "memory"
}

// RedisConfig holds Redis configuration. An empty address disables Redis.
type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// HTTPClientConfig holds HTTP client configuration for connection pooling.
type HTTPClientConfig struct {
	MaxIdleConns        int           `mapstructure:"max_idle_conns"`
	MaxIdleConnsPerHost int           `mapstructure:"max_idle_conns_per_host"`
	MaxConnsPerHost     int           `mapstructure:"max_conns_per_host"`
	IdleConnTimeout     time.Duration `mapstructure:"idle_conn_timeout"`
	DialTimeout         time.Duration `mapstructure:"dial_timeout"`
	TLSHandshakeTimeout time.Duration `mapstructure:"tls_handshake_timeout"`
	ResponseTimeout     time.Duration `mapstructure:"response_timeout"`
	KeepAlive           time.Duration `mapstructure:"keep_alive"`
}

// RateLimitConfig holds rate limiting configuration.
type RateLimitConfig struct {
	Enabled bool `mapstructure:"enabled"`
	// StatusLimit is the number of status polls per IP per StatusWindow.
	StatusLimit  int           `mapstructure:"status_limit"`
	StatusWindow time.Duration `mapstructure:"status_window"`
	// NotificationLimit is the number of notifications per IP per NotificationWindow.
	NotificationLimit  int           `mapstructure:"notification_limit"`
	NotificationWindow time.Duration `mapstructure:"notification_window"`
}

// CORSConfig holds allowed storefront origins.
type CORSConfig struct {
	AllowOrigins []string `mapstructure:"allow_origins"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // json, console
}

// FuratPayConfig holds the payment provider configuration.
type FuratPayConfig struct {
	APIURL          string `mapstructure:"api_url"`
	APIKey          string `mapstructure:"api_key"`
	WebhookSecret   string `mapstructure:"webhook_secret"`
	SignatureHeader string `mapstructure:"signature_header"`

	// Circuit breaker around provider calls.
	BreakerMaxRequests      uint32        `mapstructure:"breaker_max_requests"`
	BreakerInterval         time.Duration `mapstructure:"breaker_interval"`
	BreakerTimeout          time.Duration `mapstructure:"breaker_timeout"`
	BreakerFailureThreshold uint32        `mapstructure:"breaker_failure_threshold"`
}

// Configured returns true if both api_url and api_key are set.
func (c *FuratPayConfig) Configured() bool {
	return c.APIURL != "" && c.APIKey != ""
}

// CheckoutConfig holds storefront-facing checkout settings.
type CheckoutConfig struct {
	// ReturnURL is where the payer lands after a completed payment.
	// "{order_id}" is replaced with the order ID.
	ReturnURL string `mapstructure:"return_url"`
	// PayPageURL is the storefront page running the polling client.
	PayPageURL           string        `mapstructure:"pay_page_url"`
	ServicesCacheTTL     time.Duration `mapstructure:"services_cache_ttl"`
	ServicesFetchTimeout time.Duration `mapstructure:"services_fetch_timeout"`
	ExtensionDataTTL     time.Duration `mapstructure:"extension_data_ttl"`
}

// PollingConfig holds the payer-side polling parameters handed to clients.
type PollingConfig struct {
	Interval         time.Duration `mapstructure:"interval"`
	MaxAttempts      int           `mapstructure:"max_attempts"`
	FailureThreshold int           `mapstructure:"failure_threshold"`
}

// TokenConfig holds status token settings.
type TokenConfig struct {
	Secret string        `mapstructure:"secret"`
	TTL    time.Duration `mapstructure:"ttl"`
}

// Load loads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")
	v.AddConfigPath("/etc/furatpay")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
		// Config file not found, use defaults and env
	}

	v.SetEnvPrefix("FURATPAY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	// Secrets from environment
	if key := os.Getenv("FURATPAY_API_KEY"); key != "" {
		cfg.FuratPay.APIKey = key
	}
	if secret := os.Getenv("FURATPAY_WEBHOOK_SECRET"); secret != "" {
		cfg.FuratPay.WebhookSecret = secret
	}
	if password := os.Getenv("FURATPAY_DB_PASSWORD"); password != "" {
		cfg.Database.Password = password
	}
	if password := os.Getenv("FURATPAY_REDIS_PASSWORD"); password != "" {
		cfg.Redis.Password = password
	}
	if secret := os.Getenv("FURATPAY_TOKEN_SECRET"); secret != "" {
		cfg.Token.Secret = secret
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate rejects configuration the service cannot run with.
func (c *Config) Validate() error {
	if c.Polling.Interval <= 0 {
		return fmt.Errorf("polling.interval must be positive")
	}
	if c.Polling.MaxAttempts <= 0 {
		return fmt.Errorf("polling.max_attempts must be positive")
	}
	if c.Polling.FailureThreshold <= 0 {
		return fmt.Errorf("polling.failure_threshold must be positive")
	}
	if c.Token.TTL <= 0 {
		return fmt.Errorf("token.ttl must be positive")
	}
	switch c.Database.Driver {
	case "postgres", "memory":
	default:
		return fmt.Errorf("unsupported database.driver %q", c.Database.Driver)
	}
	return nil
}

// Warnings lists settings that leave the gateway unavailable or insecure.
func (c *Config) Warnings() []string {
	var out []string
	if c.FuratPay.APIURL == "" {
		out = append(out, "furatpay.api_url is not set; the gateway is unavailable")
	}
	if c.FuratPay.APIKey == "" {
		out = append(out, "furatpay.api_key is not set; the gateway is unavailable")
	}
	if c.FuratPay.WebhookSecret == "" {
		out = append(out, "furatpay.webhook_secret is not set; all notifications will be rejected")
	}
	if c.Token.Secret == "" {
		out = append(out, "token.secret is not set; status tokens use a per-process random key")
	}
	return out
}

// setDefaults sets default configuration values.
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.idle_timeout", 120*time.Second)
	v.SetDefault("server.shutdown_timeout", 30*time.Second)
	v.SetDefault("server.mode", "release")

	// Database defaults
	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.database", "furatpay")
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 10)
	v.SetDefault("database.conn_max_lifetime", time.Hour)
	v.SetDefault("database.conn_max_idle_time", 30*time.Minute)
	v.SetDefault("database.auto_migrate", true)

	// Redis defaults
	v.SetDefault("redis.address", "")
	v.SetDefault("redis.db", 0)

	// HTTP client defaults
	v.SetDefault("http_client.max_idle_conns", 100)
	v.SetDefault("http_client.max_idle_conns_per_host", 20)
	v.SetDefault("http_client.max_conns_per_host", 50)
	v.SetDefault("http_client.idle_conn_timeout", 90*time.Second)
	v.SetDefault("http_client.dial_timeout", 10*time.Second)
	v.SetDefault("http_client.tls_handshake_timeout", 10*time.Second)
	v.SetDefault("http_client.response_timeout", 30*time.Second)
	v.SetDefault("http_client.keep_alive", 30*time.Second)

	// Rate limit defaults
	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.status_limit", 30)
	v.SetDefault("rate_limit.status_window", time.Minute)
	v.SetDefault("rate_limit.notification_limit", 120)
	v.SetDefault("rate_limit.notification_window", time.Minute)

	v.SetDefault("cors.allow_origins", []string{"*"})

	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Provider defaults. Empty keys are registered so env overrides reach Unmarshal.
	v.SetDefault("furatpay.api_url", "")
	v.SetDefault("furatpay.api_key", "")
	v.SetDefault("furatpay.webhook_secret", "")
	v.SetDefault("furatpay.signature_header", "X-Signature")
	v.SetDefault("furatpay.breaker_max_requests", 1)
	v.SetDefault("furatpay.breaker_interval", 60*time.Second)
	v.SetDefault("furatpay.breaker_timeout", 30*time.Second)
	v.SetDefault("furatpay.breaker_failure_threshold", 5)

	// Checkout defaults
	v.SetDefault("checkout.return_url", "/checkout/order-received/{order_id}")
	v.SetDefault("checkout.pay_page_url", "/checkout/pay/{order_id}")
	v.SetDefault("checkout.services_cache_ttl", 5*time.Minute)
	v.SetDefault("checkout.services_fetch_timeout", 15*time.Second)
	v.SetDefault("checkout.extension_data_ttl", 30*time.Minute)

	// Polling defaults: 360 attempts at 5s is a 30 minute ceiling.
	v.SetDefault("polling.interval", 5*time.Second)
	v.SetDefault("polling.max_attempts", 360)
	v.SetDefault("polling.failure_threshold", 10)

	v.SetDefault("token.secret", "")
	v.SetDefault("token.ttl", time.Hour)
}
