package noaa

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testUserAgent = "boatsafe-test (ops@example.net)"

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestClient_Get_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, testUserAgent, r.Header.Get("User-Agent"))
		_, _ = w.Write([]byte("PKZ011-221615-\nForecast text.\n$$\n"))
	}))
	defer srv.Close()

	c := NewClient(testUserAgent, 5*time.Second, testLogger())
	body, err := c.Get(context.Background(), srv.URL+"/data/raw/fz/fzak51.pajk.cwf.ajk.txt")
	require.NoError(t, err)
	assert.Contains(t, string(body), "PKZ011")
}

func TestClient_Get_UpstreamStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "service unavailable", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewClient(testUserAgent, 5*time.Second, testLogger())
	_, err := c.Get(context.Background(), srv.URL)
	require.Error(t, err)

	var upstream *Error
	require.ErrorAs(t, err, &upstream)
	assert.Equal(t, http.StatusServiceUnavailable, upstream.Status)
	assert.False(t, upstream.Timeout)
	assert.Contains(t, err.Error(), "503")
}

func TestClient_Get_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient(testUserAgent, 50*time.Millisecond, testLogger())
	_, err := c.Get(context.Background(), srv.URL)
	require.Error(t, err)

	var upstream *Error
	require.ErrorAs(t, err, &upstream)
	assert.True(t, upstream.Timeout)
	assert.Zero(t, upstream.Status)
}

func TestClient_Get_ConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {}))
	srv.Close()

	c := NewClient(testUserAgent, time.Second, testLogger())
	_, err := c.Get(context.Background(), srv.URL)
	require.Error(t, err)

	var upstream *Error
	require.ErrorAs(t, err, &upstream)
	assert.Zero(t, upstream.Status)
	assert.False(t, upstream.Timeout)
}

func TestClient_Get_ContextCanceled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := NewClient(testUserAgent, 5*time.Second, testLogger())
	_, err := c.Get(ctx, srv.URL)
	require.Error(t, err)
}
