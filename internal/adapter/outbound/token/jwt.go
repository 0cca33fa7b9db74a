package token

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/furatpay/gateway/internal/port/outbound"
	"github.com/furatpay/gateway/internal/utils/random"
)

const (
	issuer   = "furatpay-gateway"
	audience = "order-status"
)

// Config holds status token configuration.
type Config struct {
	Secret string
	TTL    time.Duration
}

// statusClaims binds a token to one order.
type statusClaims struct {
	jwt.RegisteredClaims
}

// jwtManager implements outbound.StatusTokenPort.
type jwtManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewJWTManager creates a status token manager. An empty secret is replaced by
// a random per-process key, so tokens do not survive a restart.
func NewJWTManager(cfg Config) (outbound.StatusTokenPort, error) {
	secret := cfg.Secret
	if secret == "" {
		s, err := random.Hex(32)
		if err != nil {
			return nil, fmt.Errorf("generate token secret: %w", err)
		}
		secret = s
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &jwtManager{secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

func (m *jwtManager) Issue(orderID string) (string, time.Time, error) {
	now := m.now()
	expiresAt := now.Add(m.ttl)

	claims := statusClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    issuer,
			Subject:   orderID,
			Audience:  jwt.ClaimStrings{audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expiresAt, nil
}

func (m *jwtManager) Verify(tokenString, orderID string) error {
	if tokenString == "" {
		return outbound.ErrInvalidStatusToken
	}

	var claims statusClaims
	_, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (any, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithAudience(audience),
		jwt.WithTimeFunc(m.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", outbound.ErrInvalidStatusToken, err)
	}
	if claims.Subject != orderID {
		return fmt.Errorf("%w: bound to another order", outbound.ErrInvalidStatusToken)
	}
	return nil
}

// Compile-time check
var _ outbound.StatusTokenPort = (*jwtManager)(nil)
