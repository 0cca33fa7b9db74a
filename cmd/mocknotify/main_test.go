package main

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/furatpay/gateway/internal/model"
	"github.com/furatpay/gateway/internal/utils/signature"
)

func TestMockNotify_SignsBody(t *testing.T) {
	var got model.NotificationPayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		assert.True(t, signature.Verify([]byte("s3cret"), body, r.Header.Get("X-Signature")))
		require.NoError(t, json.Unmarshal(body, &got))
		_, _ = w.Write([]byte(`{"received":true}`))
	}))
	defer srv.Close()

	var out bytes.Buffer
	cmd := newRootCmd(&out)
	cmd.SetArgs([]string{
		"--url", srv.URL,
		"--session", "sess-1",
		"--status", "failed",
		"--event-id", "evt-9",
		"--webhook-secret", "s3cret",
	})

	require.NoError(t, cmd.Execute())
	assert.Equal(t, model.NotificationPayload{EventID: "evt-9", SessionID: "sess-1", Status: "failed"}, got)
	assert.Contains(t, out.String(), `{"received":true}`)
}

func TestMockNotify_Rejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	cmd := newRootCmd(&bytes.Buffer{})
	cmd.SetArgs([]string{"--url", srv.URL, "--session", "sess-1", "--webhook-secret", "x"})

	assert.EqualError(t, cmd.Execute(), "gateway rejected notification with 401")
}

func TestMockNotify_UnknownStatus(t *testing.T) {
	cmd := newRootCmd(&bytes.Buffer{})
	cmd.SetArgs([]string{"--session", "sess-1", "--status", "refunded", "--webhook-secret", "x"})

	assert.EqualError(t, cmd.Execute(), `unknown --status "refunded"`)
}
