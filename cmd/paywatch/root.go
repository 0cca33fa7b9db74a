package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/furatpay/gateway/internal/infra/config"
	"github.com/furatpay/gateway/internal/infra/logger"
	"github.com/furatpay/gateway/internal/poller"
)

// errPaymentFailed and errNotResolved map onto distinct exit codes.
var (
	errPaymentFailed = errors.New("payment failed")
	errNotResolved   = errors.New("payment not resolved")
)

func exitCode(err error) int {
	switch {
	case errors.Is(err, errPaymentFailed):
		return 2
	case errors.Is(err, errNotResolved):
		return 3
	default:
		return 1
	}
}

type options struct {
	Server           string
	OrderID          string
	OrderKey         string
	Command          []string
	Wait             bool
	Interval         time.Duration
	MaxAttempts      int
	FailureThreshold int
	NoPrompt         bool
	LogLevel         string
}

func newRootCmd(in io.Reader, out io.Writer) *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("PAYWATCH")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:           "paywatch --order ID --key KEY",
		Short:         "Open the FuratPay payment window and wait for the result",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts := options{
				Server:           v.GetString("server"),
				OrderID:          v.GetString("order"),
				OrderKey:         v.GetString("key"),
				Command:          v.GetStringSlice("open"),
				Wait:             v.GetBool("wait"),
				Interval:         v.GetDuration("interval"),
				MaxAttempts:      v.GetInt("max-attempts"),
				FailureThreshold: v.GetInt("failure-threshold"),
				NoPrompt:         v.GetBool("no-prompt"),
				LogLevel:         v.GetString("log-level"),
			}
			if opts.OrderID == "" || opts.OrderKey == "" {
				return fmt.Errorf("--order and --key are required")
			}

			log, err := logger.New(config.LogConfig{Level: opts.LogLevel, Format: "console"})
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			w := &watcher{
				opts:   opts,
				client: &http.Client{Timeout: 15 * time.Second},
				in:     bufio.NewReader(in),
				out:    out,
				logger: log,
			}
			return w.run(cmd.Context())
		},
	}

	f := cmd.Flags()
	f.String("server", "http://localhost:8080", "gateway base URL")
	f.String("order", "", "order ID")
	f.String("key", "", "order key")
	f.StringSlice("open", nil, "browser command used to open the payment URL (default: platform launcher)")
	f.Bool("wait", false, "treat the browser command's exit as the window closing")
	f.Duration("interval", 0, "poll interval (default: as served by the gateway)")
	f.Int("max-attempts", 0, "poll ceiling (default: as served by the gateway)")
	f.Int("failure-threshold", poller.DefaultConfig().FailureThreshold, "consecutive failed polls before giving up")
	f.Bool("no-prompt", false, "never offer to reopen the payment window")
	f.String("log-level", "warn", "log level")
	_ = v.BindPFlags(f)

	return cmd
}

type watcher struct {
	opts   options
	client *http.Client
	in     *bufio.Reader
	out    io.Writer
	logger *zap.Logger

	opener poller.Opener
}

func (w *watcher) run(ctx context.Context) error {
	page, err := poller.FetchPayPage(ctx, w.client, w.opts.Server, w.opts.OrderID, w.opts.OrderKey)
	if err != nil {
		return fmt.Errorf("load pay page: %w", err)
	}

	cfg := poller.Config{
		Interval:         time.Duration(page.PollIntervalMs) * time.Millisecond,
		MaxAttempts:      page.MaxAttempts,
		FailureThreshold: w.opts.FailureThreshold,
	}
	if w.opts.Interval > 0 {
		cfg.Interval = w.opts.Interval
	}
	if w.opts.MaxAttempts > 0 {
		cfg.MaxAttempts = w.opts.MaxAttempts
	}

	opener := w.opener
	if opener == nil {
		opener = &poller.CommandOpener{Command: w.opts.Command, Wait: w.opts.Wait}
	}
	fetcher := poller.NewHTTPFetcher(w.client, w.opts.Server, page.OrderID, page.StatusToken)
	p := poller.New(page.PaymentURL, fetcher, opener, cfg, w.logger)

	fmt.Fprintf(w.out, "Opening payment window: %s\n", p.PaymentURL())
	res := p.Run(ctx)
	for res.State.Retryable() {
		fmt.Fprintln(w.out, describe(res))
		if w.opts.NoPrompt || !w.confirm("Reopen the payment window?") {
			return fmt.Errorf("%w: %s", errNotResolved, res.State)
		}
		res = p.Reopen(ctx)
	}

	fmt.Fprintln(w.out, describe(res))
	switch res.State {
	case poller.StateCompleted:
		return nil
	case poller.StateFailed:
		return errPaymentFailed
	default:
		return fmt.Errorf("%w: %s", errNotResolved, res.State)
	}
}

func (w *watcher) confirm(question string) bool {
	fmt.Fprintf(w.out, "%s [y/N] ", question)
	answer, err := w.in.ReadString('\n')
	if err != nil && answer == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}

func describe(res poller.Result) string {
	switch res.State {
	case poller.StateCompleted:
		if res.RedirectURL != "" {
			return "Payment completed. Continue at " + res.RedirectURL
		}
		return "Payment completed."
	case poller.StateFailed:
		if res.Message != "" {
			return res.Message
		}
		return "Payment failed."
	case poller.StatePopupBlocked:
		return "The payment window could not be opened."
	case poller.StateWindowClosed:
		return "The payment window was closed before the payment completed."
	case poller.StateCeilingReached:
		return "Still waiting for the payment result. It will be applied once FuratPay confirms it."
	case poller.StateTransportFailure:
		return "Lost contact with the store while checking the payment."
	default:
		return "Stopped waiting for the payment."
	}
}
