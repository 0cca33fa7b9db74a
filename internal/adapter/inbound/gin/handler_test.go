package gin

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/furatpay/gateway/internal/domain/order"
	"github.com/furatpay/gateway/internal/domain/payment"
	"github.com/furatpay/gateway/internal/model"
)

// --- Mock implementations ---

type MockPaymentDomain struct {
	mock.Mock
}

func (m *MockPaymentDomain) Available() bool {
	return m.Called().Bool(0)
}

func (m *MockPaymentDomain) ListServices(ctx context.Context) ([]*model.PaymentService, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.PaymentService), args.Error(1)
}

func (m *MockPaymentDomain) SaveExtensionData(ctx context.Context, orderID string, data *model.ExtensionData) error {
	return m.Called(ctx, orderID, data).Error(0)
}

func (m *MockPaymentDomain) CreateSession(ctx context.Context, in model.CheckoutInput) (*model.CheckoutResult, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CheckoutResult), args.Error(1)
}

func (m *MockPaymentDomain) Resolve(ctx context.Context, sessionID string, outcome model.Outcome, channel model.Channel) (*model.Resolution, error) {
	args := m.Called(ctx, sessionID, outcome, channel)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Resolution), args.Error(1)
}

func (m *MockPaymentDomain) QueryStatus(ctx context.Context, sessionID string) (model.SessionStatus, error) {
	args := m.Called(ctx, sessionID)
	return args.Get(0).(model.SessionStatus), args.Error(1)
}

func (m *MockPaymentDomain) GetStatus(ctx context.Context, orderID, statusToken string) (*model.StatusView, error) {
	args := m.Called(ctx, orderID, statusToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.StatusView), args.Error(1)
}

func (m *MockPaymentDomain) PayPage(ctx context.Context, orderID, orderKey string) (*model.PayPage, error) {
	args := m.Called(ctx, orderID, orderKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PayPage), args.Error(1)
}

func (m *MockPaymentDomain) HandleNotification(ctx context.Context, body []byte, signature string) (*model.NotificationResult, error) {
	args := m.Called(ctx, body, signature)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.NotificationResult), args.Error(1)
}

type MockOrderDomain struct {
	mock.Mock
}

func (m *MockOrderDomain) Register(ctx context.Context, req *model.RegisterOrderRequest) (*model.RegisterOrderResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.RegisterOrderResponse), args.Error(1)
}

func (m *MockOrderDomain) GetOrder(ctx context.Context, orderID string) (*model.Order, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockOrderDomain) Authorize(ctx context.Context, orderID, key string) (*model.Order, error) {
	args := m.Called(ctx, orderID, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

// --- Test helpers ---

func init() {
	gin.SetMode(gin.TestMode)
}

func newRouter(pd payment.PaymentDomain, od order.OrderDomain) *gin.Engine {
	logger := zap.NewNop()
	r := gin.New()
	api := r.Group("/api/v1")
	RegisterPaymentServiceRoutes(api, NewPaymentServiceAdapter(pd, logger))
	RegisterCheckoutRoutes(api, NewCheckoutAdapter(pd, logger))
	RegisterNotificationRoutes(api, NewNotificationAdapter(pd, "X-FuratPay-Signature", logger))
	RegisterOrderRoutes(api, NewOrderAdapter(od, logger))
	return r
}

func do(r http.Handler, method, path string, body []byte, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) model.ErrorResponse {
	t.Helper()
	var resp model.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

// --- Tests ---

func TestListServices(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		pd := new(MockPaymentDomain)
		pd.On("Available").Return(true)
		pd.On("ListServices", mock.Anything).Return([]*model.PaymentService{{ID: "7", Name: "FIB"}}, nil)

		w := do(newRouter(pd, nil), http.MethodGet, "/api/v1/payment-services", nil, nil)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"data":[{"id":"7","name":"FIB"}]}`, w.Body.String())
	})

	t.Run("gateway unavailable", func(t *testing.T) {
		pd := new(MockPaymentDomain)
		pd.On("Available").Return(false)

		w := do(newRouter(pd, nil), http.MethodGet, "/api/v1/payment-services", nil, nil)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Equal(t, "gateway_unavailable", decodeError(t, w).Code)
		pd.AssertNotCalled(t, "ListServices", mock.Anything)
	})

	t.Run("provider credentials rejected", func(t *testing.T) {
		pd := new(MockPaymentDomain)
		pd.On("Available").Return(true)
		pd.On("ListServices", mock.Anything).Return(nil, fmt.Errorf("list services: %w", payment.ErrProviderCredentials))

		w := do(newRouter(pd, nil), http.MethodGet, "/api/v1/payment-services", nil, nil)

		assert.Equal(t, http.StatusBadGateway, w.Code)
		resp := decodeError(t, w)
		assert.Equal(t, "upstream_error", resp.Code)
		assert.Equal(t, payment.ErrProviderCredentials.UserMessage(), resp.Message)
	})
}

func TestClassicCheckout(t *testing.T) {
	t.Run("json body", func(t *testing.T) {
		pd := new(MockPaymentDomain)
		pd.On("CreateSession", mock.Anything, model.CheckoutInput{
			OrderID:   "1001",
			ServiceID: "7",
			Source:    model.CheckoutSourceClassic,
		}).Return(&model.CheckoutResult{
			OrderID:    "1001",
			SessionID:  "sess-1",
			PaymentURL: "https://pay.furatpay.test/sess-1",
			Redirect:   "/checkout/pay/1001",
		}, nil)

		w := do(newRouter(pd, nil), http.MethodPost, "/api/v1/checkout/classic",
			[]byte(`{"order_id":"1001","furatpay_service":"7"}`), nil)

		assert.Equal(t, http.StatusOK, w.Code)
		var resp map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "success", resp["result"])
		assert.Equal(t, "/checkout/pay/1001", resp["redirect"])
		pd.AssertExpectations(t)
	})

	t.Run("form body", func(t *testing.T) {
		pd := new(MockPaymentDomain)
		pd.On("CreateSession", mock.Anything, mock.MatchedBy(func(in model.CheckoutInput) bool {
			return in.OrderID == "1001" && in.ServiceID == "3"
		})).Return(&model.CheckoutResult{OrderID: "1001"}, nil)

		req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout/classic",
			strings.NewReader("order_id=1001&furatpay_service=3"))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		w := httptest.NewRecorder()
		newRouter(pd, nil).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		pd.AssertExpectations(t)
	})

	t.Run("missing order id", func(t *testing.T) {
		pd := new(MockPaymentDomain)
		w := do(newRouter(pd, nil), http.MethodPost, "/api/v1/checkout/classic", []byte(`{}`), nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "invalid_input", decodeError(t, w).Code)
	})

	t.Run("stale service", func(t *testing.T) {
		pd := new(MockPaymentDomain)
		pd.On("CreateSession", mock.Anything, mock.Anything).Return(nil, payment.ErrServiceUnavailable)

		w := do(newRouter(pd, nil), http.MethodPost, "/api/v1/checkout/classic",
			[]byte(`{"order_id":"1001","furatpay_service":"9"}`), nil)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		resp := decodeError(t, w)
		assert.Equal(t, "service_unavailable", resp.Code)
		assert.Equal(t, payment.ErrServiceUnavailable.UserMessage(), resp.Message)
	})

	t.Run("provider failure is retryable", func(t *testing.T) {
		pd := new(MockPaymentDomain)
		pd.On("CreateSession", mock.Anything, mock.Anything).
			Return(nil, fmt.Errorf("create invoice: %w", payment.ErrProviderFailure))

		w := do(newRouter(pd, nil), http.MethodPost, "/api/v1/checkout/classic",
			[]byte(`{"order_id":"1001","furatpay_service":"7"}`), nil)

		assert.Equal(t, http.StatusBadGateway, w.Code)
		assert.Equal(t, payment.ErrProviderFailure.UserMessage(), decodeError(t, w).Message)
	})

	t.Run("internal error hides details", func(t *testing.T) {
		pd := new(MockPaymentDomain)
		pd.On("CreateSession", mock.Anything, mock.Anything).
			Return(nil, fmt.Errorf("attach session: pq: connection refused"))

		w := do(newRouter(pd, nil), http.MethodPost, "/api/v1/checkout/classic",
			[]byte(`{"order_id":"1001","furatpay_service":"7"}`), nil)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.NotContains(t, w.Body.String(), "pq")
	})
}

func TestBlocksCheckout(t *testing.T) {
	pd := new(MockPaymentDomain)
	pd.On("CreateSession", mock.Anything, model.CheckoutInput{
		OrderID:     "1001",
		ServiceID:   "7",
		ServiceName: "FIB",
		Source:      model.CheckoutSourceBlocks,
	}).Return(&model.CheckoutResult{OrderID: "1001"}, nil)

	body := `{"order_id":"1001","payment_method":"furatpay","payment_data":[
		{"key":"furatpay_service","value":"7"},
		{"key":"furatpay_service_name","value":"FIB"}
	]}`
	w := do(newRouter(pd, nil), http.MethodPost, "/api/v1/checkout/blocks", []byte(body), nil)

	assert.Equal(t, http.StatusOK, w.Code)
	pd.AssertExpectations(t)
}

func TestSaveExtensionData(t *testing.T) {
	pd := new(MockPaymentDomain)
	pd.On("SaveExtensionData", mock.Anything, "1001", &model.ExtensionData{ServiceID: "7", ServiceName: "FIB"}).Return(nil)

	w := do(newRouter(pd, nil), http.MethodPut, "/api/v1/checkout/orders/1001/extension-data",
		[]byte(`{"furatpay_service":"7","furatpay_service_name":"FIB"}`), nil)

	assert.Equal(t, http.StatusOK, w.Code)
	pd.AssertExpectations(t)
}

func TestPayPage(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		pd := new(MockPaymentDomain)
		pd.On("PayPage", mock.Anything, "1001", "wc_order_abc").Return(&model.PayPage{
			OrderID:     "1001",
			PaymentURL:  "https://pay.furatpay.test/sess-1",
			StatusToken: "tok",
		}, nil)

		w := do(newRouter(pd, nil), http.MethodGet, "/api/v1/checkout/orders/1001/pay?key=wc_order_abc", nil, nil)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"status_token":"tok"`)
	})

	t.Run("missing key", func(t *testing.T) {
		w := do(newRouter(new(MockPaymentDomain), nil), http.MethodGet, "/api/v1/checkout/orders/1001/pay", nil, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("wrong key", func(t *testing.T) {
		pd := new(MockPaymentDomain)
		pd.On("PayPage", mock.Anything, "1001", "bad").Return(nil, payment.ErrInvalidOrderKey)

		w := do(newRouter(pd, nil), http.MethodGet, "/api/v1/checkout/orders/1001/pay?key=bad", nil, nil)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "unauthorized", decodeError(t, w).Code)
	})
}

func TestGetStatus(t *testing.T) {
	t.Run("completed with redirect", func(t *testing.T) {
		pd := new(MockPaymentDomain)
		pd.On("GetStatus", mock.Anything, "1001", "tok").Return(&model.StatusView{
			Status:      model.SessionStatusCompleted,
			RedirectURL: "/checkout/order-received/1001",
		}, nil)

		w := do(newRouter(pd, nil), http.MethodGet, "/api/v1/checkout/orders/1001/status", nil,
			map[string]string{model.StatusTokenHeader: "tok"})

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"status":"completed","redirect_url":"/checkout/order-received/1001"}`, w.Body.String())
	})

	t.Run("invalid token", func(t *testing.T) {
		pd := new(MockPaymentDomain)
		pd.On("GetStatus", mock.Anything, "1001", "").Return(nil, payment.ErrInvalidStatusToken)

		w := do(newRouter(pd, nil), http.MethodGet, "/api/v1/checkout/orders/1001/status", nil, nil)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "authentication failed", decodeError(t, w).Message)
	})

	t.Run("status middleware runs first", func(t *testing.T) {
		pd := new(MockPaymentDomain)
		r := gin.New()
		blocked := func(c *gin.Context) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, model.ErrorResponse{Code: "rate_limited"})
		}
		RegisterCheckoutRoutes(r.Group("/api/v1"), NewCheckoutAdapter(pd, zap.NewNop()), blocked)

		w := do(r, http.MethodGet, "/api/v1/checkout/orders/1001/status", nil, nil)

		assert.Equal(t, http.StatusTooManyRequests, w.Code)
		pd.AssertNotCalled(t, "GetStatus", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestNotification(t *testing.T) {
	body := []byte(`{"event_id":"evt-1","session_id":"sess-1","status":"paid"}`)

	t.Run("accepted", func(t *testing.T) {
		pd := new(MockPaymentDomain)
		pd.On("HandleNotification", mock.Anything, body, "sha256=abc").
			Return(&model.NotificationResult{SessionID: "sess-1", Status: model.SessionStatusCompleted, Applied: true}, nil)

		w := do(newRouter(pd, nil), http.MethodPost, "/api/v1/notifications/furatpay", body,
			map[string]string{"X-FuratPay-Signature": "sha256=abc"})

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"received":true}`, w.Body.String())
	})

	t.Run("replayed duplicate is acknowledged", func(t *testing.T) {
		pd := new(MockPaymentDomain)
		pd.On("HandleNotification", mock.Anything, body, "sig").
			Return(&model.NotificationResult{SessionID: "sess-1", Replayed: true}, nil)

		w := do(newRouter(pd, nil), http.MethodPost, "/api/v1/notifications/furatpay", body,
			map[string]string{"X-FuratPay-Signature": "sig"})

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("bad signature", func(t *testing.T) {
		pd := new(MockPaymentDomain)
		pd.On("HandleNotification", mock.Anything, body, "").Return(nil, payment.ErrInvalidSignature)

		w := do(newRouter(pd, nil), http.MethodPost, "/api/v1/notifications/furatpay", body, nil)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		resp := decodeError(t, w)
		assert.Equal(t, "invalid_signature", resp.Code)
		assert.Equal(t, "authentication failed", resp.Message)
	})

	t.Run("malformed", func(t *testing.T) {
		pd := new(MockPaymentDomain)
		pd.On("HandleNotification", mock.Anything, mock.Anything, "sig").Return(nil, payment.ErrInvalidPayload)

		w := do(newRouter(pd, nil), http.MethodPost, "/api/v1/notifications/furatpay", []byte(`{`),
			map[string]string{"X-FuratPay-Signature": "sig"})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "malformed_payload", decodeError(t, w).Code)
	})

	t.Run("unknown session", func(t *testing.T) {
		pd := new(MockPaymentDomain)
		pd.On("HandleNotification", mock.Anything, body, "sig").Return(nil, payment.ErrSessionUnknown)

		w := do(newRouter(pd, nil), http.MethodPost, "/api/v1/notifications/furatpay", body,
			map[string]string{"X-FuratPay-Signature": "sig"})

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "unknown_session", decodeError(t, w).Code)
	})

	t.Run("oversized body", func(t *testing.T) {
		pd := new(MockPaymentDomain)
		big := bytes.Repeat([]byte("a"), maxNotificationBytes+1)

		w := do(newRouter(pd, nil), http.MethodPost, "/api/v1/notifications/furatpay", big, nil)

		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
		pd.AssertNotCalled(t, "HandleNotification", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestRegisterOrder(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		od := new(MockOrderDomain)
		od.On("Register", mock.Anything, mock.MatchedBy(func(req *model.RegisterOrderRequest) bool {
			return req.OrderID == "1001" && req.Total == 25000
		})).Return(&model.RegisterOrderResponse{OrderID: "1001", OrderKey: "wc_order_abc"}, nil)

		w := do(newRouter(nil, od), http.MethodPost, "/api/v1/orders",
			[]byte(`{"order_id":"1001","total":25000,"currency":"IQD"}`), nil)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.JSONEq(t, `{"order_id":"1001","order_key":"wc_order_abc"}`, w.Body.String())
	})

	t.Run("duplicate", func(t *testing.T) {
		od := new(MockOrderDomain)
		od.On("Register", mock.Anything, mock.Anything).Return(nil, order.ErrOrderExists)

		w := do(newRouter(nil, od), http.MethodPost, "/api/v1/orders",
			[]byte(`{"order_id":"1001","total":25000,"currency":"IQD"}`), nil)

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, "order_exists", decodeError(t, w).Code)
	})

	t.Run("invalid json", func(t *testing.T) {
		w := do(newRouter(nil, new(MockOrderDomain)), http.MethodPost, "/api/v1/orders", []byte(`nope`), nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
