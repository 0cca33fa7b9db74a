package furatpay

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"

	"github.com/furatpay/gateway/internal/infra/config"
	"github.com/furatpay/gateway/internal/model"
	"github.com/furatpay/gateway/internal/port/outbound"
	"github.com/furatpay/gateway/internal/utils/metrics"
)

const maxResponseBytes = 1 << 20

// Client implements PaymentAPIPort against the FuratPay REST API.
type Client struct {
	http    *http.Client
	baseURL string
	apiKey  string
	breaker *gobreaker.CircuitBreaker[[]byte]
	metrics *metrics.Metrics
	logger  *zap.Logger
}

// NewClient creates a FuratPay API client. metrics may be nil.
func NewClient(httpClient *http.Client, cfg config.FuratPayConfig, m *metrics.Metrics, logger *zap.Logger) *Client {
	c := &Client{
		http:    httpClient,
		baseURL: strings.TrimRight(cfg.APIURL, "/"),
		apiKey:  cfg.APIKey,
		metrics: m,
		logger:  logger.Named("furatpay"),
	}

	threshold := cfg.BreakerFailureThreshold
	if threshold == 0 {
		threshold = 5
	}
	c.breaker = gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        "furatpay",
		MaxRequests: cfg.BreakerMaxRequests,
		Interval:    cfg.BreakerInterval,
		Timeout:     cfg.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		// Only transport failures and 5xx count against the provider.
		IsSuccessful: func(err error) bool {
			return err == nil || !errors.Is(err, outbound.ErrProviderUnavailable)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			c.logger.Warn("circuit breaker state changed",
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
			if c.metrics != nil {
				c.metrics.SetBreakerState(int(to))
			}
		},
	})
	return c
}

func (c *Client) Configured() bool {
	return c.baseURL != "" && c.apiKey != ""
}

type serviceDTO struct {
	ID     flexID `json:"id"`
	Name   string `json:"name"`
	Logo   string `json:"logo"`
	Status string `json:"status"`
}

func (c *Client) ListServices(ctx context.Context) ([]*model.PaymentService, error) {
	var dtos []serviceDTO
	if err := c.do(ctx, "list_services", http.MethodGet, "/payment-services", nil, &dtos); err != nil {
		return nil, err
	}

	services := make([]*model.PaymentService, 0, len(dtos))
	for _, d := range dtos {
		if d.ID == "" {
			continue
		}
		services = append(services, &model.PaymentService{
			ID:     string(d.ID),
			Name:   d.Name,
			Logo:   d.Logo,
			Status: strings.ToLower(d.Status),
		})
	}
	return services, nil
}

type customerDTO struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

type invoiceRequest struct {
	Reference string      `json:"reference"`
	Amount    int64       `json:"amount"`
	Currency  string      `json:"currency"`
	Customer  customerDTO `json:"customer"`
}

func (c *Client) CreateInvoice(ctx context.Context, order model.OrderSnapshot) (string, error) {
	body := invoiceRequest{
		Reference: order.OrderID,
		Amount:    order.Total,
		Currency:  order.Currency,
		Customer: customerDTO{
			Name:  order.BuyerName,
			Email: order.BuyerEmail,
			Phone: order.BuyerPhone,
		},
	}

	var resp struct {
		ID flexID `json:"id"`
	}
	if err := c.do(ctx, "create_invoice", http.MethodPost, "/invoices", body, &resp); err != nil {
		return "", err
	}
	return string(resp.ID), nil
}

type paymentRequest struct {
	InvoiceID        string `json:"invoice_id"`
	PaymentServiceID string `json:"payment_service_id"`
}

func (c *Client) CreatePaymentSession(ctx context.Context, invoiceID, serviceID string) (*model.ProviderSession, error) {
	var resp struct {
		ID         flexID `json:"id"`
		PaymentURL string `json:"payment_url"`
	}
	body := paymentRequest{InvoiceID: invoiceID, PaymentServiceID: serviceID}
	if err := c.do(ctx, "create_payment", http.MethodPost, "/payments", body, &resp); err != nil {
		return nil, err
	}
	return &model.ProviderSession{SessionID: string(resp.ID), PaymentURL: resp.PaymentURL}, nil
}

func (c *Client) QueryStatus(ctx context.Context, sessionID string) (model.Outcome, error) {
	var resp struct {
		Status string `json:"status"`
	}
	path := "/payments/" + url.PathEscape(sessionID)
	if err := c.do(ctx, "query_status", http.MethodGet, path, nil, &resp); err != nil {
		return "", err
	}

	outcome, ok := model.ParseOutcome(resp.Status)
	if !ok {
		c.logger.Warn("unknown payment status treated as pending",
			zap.String("session_id", sessionID),
			zap.String("status", resp.Status),
		)
		return model.OutcomePending, nil
	}
	return outcome, nil
}

// do sends one API request through the circuit breaker and decodes the
// "data" member of the response envelope into out.
func (c *Client) do(ctx context.Context, op, method, path string, body, out any) error {
	if !c.Configured() {
		return outbound.ErrProviderNotConfigured
	}

	start := time.Now()
	raw, err := c.breaker.Execute(func() ([]byte, error) {
		return c.send(ctx, method, path, body)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		err = fmt.Errorf("%w: %v", outbound.ErrProviderUnavailable, err)
	}
	if c.metrics != nil {
		c.metrics.RecordUpstreamRequest(op, err, time.Since(start))
	}
	if err != nil {
		c.logger.Warn("provider request failed", zap.String("operation", op), zap.Error(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return fmt.Errorf("%s: %w: decode response: %v", op, outbound.ErrProviderRejected, err)
	}
	if len(envelope.Data) == 0 || string(envelope.Data) == "null" {
		return fmt.Errorf("%s: %w: response has no data", op, outbound.ErrProviderRejected)
	}
	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return fmt.Errorf("%s: %w: decode data: %v", op, outbound.ErrProviderRejected, err)
	}
	return nil
}

func (c *Client) send(ctx context.Context, method, path string, body any) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		// The caller went away; that says nothing about the provider.
		if errors.Is(ctx.Err(), context.Canceled) {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: %v", outbound.ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", outbound.ErrProviderUnavailable, err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, fmt.Errorf("%w: status %d", outbound.ErrProviderAuth, resp.StatusCode)
	case resp.StatusCode >= 500:
		return nil, fmt.Errorf("%w: status %d", outbound.ErrProviderUnavailable, resp.StatusCode)
	case resp.StatusCode >= 400:
		return nil, fmt.Errorf("%w: status %d: %s", outbound.ErrProviderRejected, resp.StatusCode, errorMessage(raw))
	}
	return raw, nil
}

// errorMessage extracts the provider's error message without echoing the body.
func errorMessage(raw []byte) string {
	var e struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if json.Unmarshal(raw, &e) != nil {
		return "unreadable error body"
	}
	if e.Message != "" {
		return e.Message
	}
	return e.Error
}

// flexID accepts identifiers sent either as JSON strings or numbers.
type flexID string

func (id *flexID) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*id = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = flexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*id = flexID(n.String())
	return nil
}

// Compile-time check
var _ outbound.PaymentAPIPort = (*Client)(nil)
