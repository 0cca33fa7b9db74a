package middleware

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/furatpay/gateway/internal/infra/config"
	"github.com/furatpay/gateway/internal/model"
)

// CORSConfig holds CORS configuration.
type CORSConfig struct {
	AllowOrigins     []string
	AllowMethods     []string
	AllowHeaders     []string
	ExposeHeaders    []string
	AllowCredentials bool
	MaxAge           time.Duration
}

// DefaultCORSConfig returns the default CORS configuration.
// The status token header must be allowed for the pay page poller.
func DefaultCORSConfig() CORSConfig {
	return CORSConfig{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "X-Request-ID", model.StatusTokenHeader},
		ExposeHeaders: []string{"Content-Length", "X-Request-ID", RateLimitRemaining, RetryAfter},
		MaxAge:        12 * time.Hour,
	}
}

// CORSConfigFrom builds the CORS configuration from application config.
func CORSConfigFrom(cfg config.CORSConfig) CORSConfig {
	out := DefaultCORSConfig()
	if len(cfg.AllowOrigins) > 0 {
		out.AllowOrigins = cfg.AllowOrigins
	}
	return out
}

// CORS returns a CORS middleware with the given configuration.
func CORS(cfg CORSConfig) gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowOrigins:     cfg.AllowOrigins,
		AllowMethods:     cfg.AllowMethods,
		AllowHeaders:     cfg.AllowHeaders,
		ExposeHeaders:    cfg.ExposeHeaders,
		AllowCredentials: cfg.AllowCredentials,
		MaxAge:           cfg.MaxAge,
	})
}
