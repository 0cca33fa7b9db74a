// Command mocknotify posts a signed FuratPay notification to a gateway.
// It is meant for local testing against a server sharing the webhook secret.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	ginadapter "github.com/furatpay/gateway/internal/adapter/inbound/gin"
	"github.com/furatpay/gateway/internal/model"
	"github.com/furatpay/gateway/internal/utils/signature"
)

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd(out io.Writer) *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("FURATPAY")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:           "mocknotify --session ID --status paid|failed|pending",
		Short:         "Send a signed FuratPay notification",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			payload := model.NotificationPayload{
				EventID:   v.GetString("event-id"),
				SessionID: v.GetString("session"),
				InvoiceID: v.GetString("invoice"),
				Status:    v.GetString("status"),
			}
			if payload.SessionID == "" {
				return fmt.Errorf("--session is required")
			}
			if _, ok := model.ParseOutcome(payload.Status); !ok {
				return fmt.Errorf("unknown --status %q", payload.Status)
			}
			if payload.EventID == "" {
				payload.EventID = uuid.NewString()
			}
			secret := v.GetString("webhook-secret")
			if secret == "" {
				return fmt.Errorf("--webhook-secret or FURATPAY_WEBHOOK_SECRET is required")
			}

			body, err := json.Marshal(payload)
			if err != nil {
				return err
			}
			return send(cmd.Context(), out, v.GetString("url"), v.GetString("signature-header"), secret, body)
		},
	}

	f := cmd.Flags()
	f.String("url", "http://localhost:8080/api/v1/notifications/furatpay", "notification endpoint")
	f.String("session", "", "payment session ID")
	f.String("status", "paid", "reported status: pending, paid or failed")
	f.String("event-id", "", "event ID used for deduplication (default: random)")
	f.String("invoice", "", "invoice ID")
	f.String("webhook-secret", "", "shared webhook secret")
	f.String("signature-header", ginadapter.DefaultSignatureHeader, "signature header name")
	_ = v.BindPFlags(f)

	return cmd
}

func send(ctx context.Context, out io.Writer, url, header, secret string, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(header, signature.Prefix+signature.Sign([]byte(secret), body))

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("send notification: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	fmt.Fprintf(out, "%s %s\n", resp.Status, strings.TrimSpace(string(respBody)))
	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("gateway rejected notification with %d", resp.StatusCode)
	}
	return nil
}
