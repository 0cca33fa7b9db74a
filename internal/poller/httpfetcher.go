package poller

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/furatpay/gateway/internal/model"
)

// HTTPFetcher reads session status from the gateway's status endpoint.
type HTTPFetcher struct {
	client  *http.Client
	baseURL string
	orderID string
	token   string
}

// NewHTTPFetcher creates a fetcher for the order's status endpoint under baseURL.
func NewHTTPFetcher(client *http.Client, baseURL, orderID, statusToken string) *HTTPFetcher {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPFetcher{
		client:  client,
		baseURL: strings.TrimRight(baseURL, "/"),
		orderID: orderID,
		token:   statusToken,
	}
}

// FetchStatus performs one status poll.
func (f *HTTPFetcher) FetchStatus(ctx context.Context) (*model.StatusView, error) {
	endpoint := fmt.Sprintf("%s/api/v1/checkout/orders/%s/status", f.baseURL, url.PathEscape(f.orderID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set(model.StatusTokenHeader, f.token)
	req.Header.Set("Accept", "application/json")

	var view model.StatusView
	if err := doJSON(f.client, req, &view); err != nil {
		return nil, err
	}
	return &view, nil
}

// FetchPayPage calls the pay page bootstrap endpoint with the order key.
func FetchPayPage(ctx context.Context, client *http.Client, baseURL, orderID, orderKey string) (*model.PayPage, error) {
	if client == nil {
		client = http.DefaultClient
	}
	endpoint := fmt.Sprintf("%s/api/v1/checkout/orders/%s/pay?key=%s",
		strings.TrimRight(baseURL, "/"), url.PathEscape(orderID), url.QueryEscape(orderKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	var page model.PayPage
	if err := doJSON(client, req, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// StatusError is returned for non-2xx gateway responses.
type StatusError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *StatusError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("gateway returned %d: %s: %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("gateway returned %d", e.StatusCode)
}

func doJSON(client *http.Client, req *http.Request, out any) error {
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		se := &StatusError{StatusCode: resp.StatusCode}
		var er model.ErrorResponse
		if json.Unmarshal(body, &er) == nil {
			se.Code = er.Code
			se.Message = er.Message
		}
		return se
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// Compile-time check
var _ StatusFetcher = (*HTTPFetcher)(nil)
