// Package poller implements the payer-side polling client. It opens the payer
// window on the session's payment URL and polls the gateway for the session
// status until a terminal status or a stop condition is reached.
package poller

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/furatpay/gateway/internal/model"
)

// State is the exit state of a polling run.
type State string

const (
	StatePopupBlocked     State = "popup_blocked"
	StateCompleted        State = "completed"
	StateFailed           State = "failed"
	StateWindowClosed     State = "window_closed"
	StateCeilingReached   State = "ceiling_reached"
	StateTransportFailure State = "transport_failure"
	StateCancelled        State = "cancelled"
)

// Terminal returns true if the session reached a terminal status.
func (s State) Terminal() bool {
	return s == StateCompleted || s == StateFailed
}

// Retryable returns true if the payer should be offered to reopen the payment window.
func (s State) Retryable() bool {
	return !s.Terminal() && s != StateCancelled
}

// ErrPopupBlocked is returned by an Opener when the window could not be created.
var ErrPopupBlocked = errors.New("payment window blocked")

// StatusFetcher reads the status of the order's current session.
type StatusFetcher interface {
	FetchStatus(ctx context.Context) (*model.StatusView, error)
}

// Window is an opened payer window.
type Window interface {
	// Closed reports whether the payer closed the window.
	Closed() bool
}

// Opener opens the payer window on a payment URL.
type Opener interface {
	Open(ctx context.Context, url string) (Window, error)
}

// Config holds polling parameters.
type Config struct {
	Interval         time.Duration
	MaxAttempts      int
	FailureThreshold int
}

// DefaultConfig polls every 5 seconds for 30 minutes.
func DefaultConfig() Config {
	return Config{
		Interval:         5 * time.Second,
		MaxAttempts:      360,
		FailureThreshold: 10,
	}
}

// Result is the outcome of a polling run.
type Result struct {
	State       State  `json:"state"`
	Attempts    int    `json:"attempts"`
	RedirectURL string `json:"redirect_url,omitempty"`
	Message     string `json:"message,omitempty"`
}

// Poller drives one payment session from the payer side.
// A Poller runs one loop at a time.
type Poller struct {
	paymentURL string
	fetcher    StatusFetcher
	opener     Opener
	cfg        Config
	logger     *zap.Logger

	after func(time.Duration) <-chan time.Time
}

// New creates a poller for paymentURL.
func New(paymentURL string, fetcher StatusFetcher, opener Opener, cfg Config, logger *zap.Logger) *Poller {
	def := DefaultConfig()
	if cfg.Interval <= 0 {
		cfg.Interval = def.Interval
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = def.MaxAttempts
	}
	if cfg.FailureThreshold <= 0 {
		cfg.FailureThreshold = def.FailureThreshold
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Poller{
		paymentURL: paymentURL,
		fetcher:    fetcher,
		opener:     opener,
		cfg:        cfg,
		logger:     logger.Named("poller"),
		after:      time.After,
	}
}

// PaymentURL returns the URL every open and reopen uses.
func (p *Poller) PaymentURL() string {
	return p.paymentURL
}

// Run opens the payer window and polls until a stop condition.
// A blocked window returns StatePopupBlocked without polling.
func (p *Poller) Run(ctx context.Context) Result {
	window, err := p.opener.Open(ctx, p.paymentURL)
	if err != nil {
		p.logger.Warn("payment window blocked", zap.Error(err))
		return Result{State: StatePopupBlocked}
	}
	return p.poll(ctx, window)
}

// Reopen re-attempts to open the same payment URL and resumes polling.
// It never creates a new session.
func (p *Poller) Reopen(ctx context.Context) Result {
	p.logger.Info("reopening payment window")
	return p.Run(ctx)
}

func (p *Poller) poll(ctx context.Context, window Window) Result {
	failures := 0

	for attempt := 1; attempt <= p.cfg.MaxAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return Result{State: StateCancelled, Attempts: attempt - 1}
		case <-p.after(p.cfg.Interval):
		}

		view, err := p.fetcher.FetchStatus(ctx)
		switch {
		case err != nil:
			if ctx.Err() != nil {
				return Result{State: StateCancelled, Attempts: attempt}
			}
			failures++
			p.logger.Debug("status check failed",
				zap.Int("attempt", attempt),
				zap.Int("consecutive_failures", failures),
				zap.Error(err),
			)
			if failures >= p.cfg.FailureThreshold {
				p.logger.Warn("polling stopped after repeated failures", zap.Int("attempts", attempt))
				return Result{State: StateTransportFailure, Attempts: attempt}
			}

		case view.Status == model.SessionStatusCompleted:
			return Result{State: StateCompleted, Attempts: attempt, RedirectURL: view.RedirectURL}

		case view.Status == model.SessionStatusFailed:
			return Result{State: StateFailed, Attempts: attempt, Message: view.Message}

		default:
			failures = 0
		}

		// The session may still resolve by notification after the window closes.
		if window.Closed() {
			return Result{State: StateWindowClosed, Attempts: attempt}
		}
	}

	p.logger.Info("polling ceiling reached", zap.Int("attempts", p.cfg.MaxAttempts))
	return Result{State: StateCeilingReached, Attempts: p.cfg.MaxAttempts}
}
