package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/furatpay/gateway/internal/model"
	"github.com/furatpay/gateway/internal/poller"
)

type fakeWindow struct{ closed bool }

func (w *fakeWindow) Closed() bool { return w.closed }

// fakeOpener blocks the first blocked opens, then hands out windows in order.
type fakeOpener struct {
	blocked int
	windows []*fakeWindow
	opened  []string
}

func (o *fakeOpener) Open(_ context.Context, url string) (poller.Window, error) {
	o.opened = append(o.opened, url)
	if o.blocked > 0 || len(o.windows) == 0 {
		o.blocked--
		return nil, poller.ErrPopupBlocked
	}
	w := o.windows[0]
	o.windows = o.windows[1:]
	return w, nil
}

// newGateway serves the pay page and answers status polls from statuses in order.
func newGateway(t *testing.T, statuses ...model.SessionStatus) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var polls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/checkout/orders/1001/pay", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("key") != "wc_order_abc" {
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(model.ErrorResponse{Code: "unauthorized", Message: "authentication failed"})
			return
		}
		_ = json.NewEncoder(w).Encode(model.PayPage{
			OrderID:        "1001",
			PaymentURL:     "https://pay.furatpay.test/sess-1",
			Status:         model.SessionStatusPending,
			StatusToken:    "tok",
			PollIntervalMs: 5000,
			MaxAttempts:    360,
		})
	})
	mux.HandleFunc("/api/v1/checkout/orders/1001/status", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "tok", r.Header.Get(model.StatusTokenHeader))
		n := int(polls.Add(1)) - 1
		status := statuses[len(statuses)-1]
		if n < len(statuses) {
			status = statuses[n]
		}
		view := model.StatusView{Status: status}
		if status == model.SessionStatusCompleted {
			view.RedirectURL = "/checkout/order-received/1001"
		}
		_ = json.NewEncoder(w).Encode(view)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, &polls
}

func newWatcher(server string, opener poller.Opener, input string, out *bytes.Buffer) *watcher {
	return &watcher{
		opts: options{
			Server:           server,
			OrderID:          "1001",
			OrderKey:         "wc_order_abc",
			Interval:         time.Millisecond,
			FailureThreshold: 3,
		},
		client: http.DefaultClient,
		in:     bufio.NewReader(strings.NewReader(input)),
		out:    out,
		logger: zap.NewNop(),
		opener: opener,
	}
}

func TestWatcher_Completed(t *testing.T) {
	srv, polls := newGateway(t, model.SessionStatusPending, model.SessionStatusPending, model.SessionStatusCompleted)
	opener := &fakeOpener{windows: []*fakeWindow{{}}}
	var out bytes.Buffer

	err := newWatcher(srv.URL, opener, "", &out).run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, int32(3), polls.Load())
	assert.Equal(t, []string{"https://pay.furatpay.test/sess-1"}, opener.opened)
	assert.Contains(t, out.String(), "/checkout/order-received/1001")
}

func TestWatcher_Failed(t *testing.T) {
	srv, _ := newGateway(t, model.SessionStatusFailed)
	var out bytes.Buffer

	err := newWatcher(srv.URL, &fakeOpener{windows: []*fakeWindow{{}}}, "", &out).run(context.Background())

	assert.ErrorIs(t, err, errPaymentFailed)
	assert.Equal(t, 2, exitCode(err))
}

func TestWatcher_ReopenAfterBlockedWindow(t *testing.T) {
	srv, _ := newGateway(t, model.SessionStatusCompleted)
	opener := &fakeOpener{blocked: 1, windows: []*fakeWindow{{}}}
	var out bytes.Buffer

	err := newWatcher(srv.URL, opener, "y\n", &out).run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{"https://pay.furatpay.test/sess-1", "https://pay.furatpay.test/sess-1"}, opener.opened)
	assert.Contains(t, out.String(), "could not be opened")
}

func TestWatcher_DeclineReopen(t *testing.T) {
	srv, polls := newGateway(t, model.SessionStatusPending)
	var out bytes.Buffer

	err := newWatcher(srv.URL, &fakeOpener{windows: []*fakeWindow{{closed: true}}}, "n\n", &out).run(context.Background())

	assert.ErrorIs(t, err, errNotResolved)
	assert.Equal(t, 3, exitCode(err))
	assert.Equal(t, int32(1), polls.Load())
	assert.Contains(t, out.String(), "closed before the payment completed")
}

func TestWatcher_WrongKey(t *testing.T) {
	srv, _ := newGateway(t, model.SessionStatusPending)
	w := newWatcher(srv.URL, &fakeOpener{}, "", &bytes.Buffer{})
	w.opts.OrderKey = "wrong"

	err := w.run(context.Background())

	require.Error(t, err)
	var statusErr *poller.StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusUnauthorized, statusErr.StatusCode)
	assert.Equal(t, 1, exitCode(err))
}

func TestRootCmd_RequiresOrderAndKey(t *testing.T) {
	cmd := newRootCmd(strings.NewReader(""), &bytes.Buffer{})
	cmd.SetArgs([]string{"--order", "1001"})

	err := cmd.Execute()

	assert.EqualError(t, err, "--order and --key are required")
}
