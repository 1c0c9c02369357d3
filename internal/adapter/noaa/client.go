// Package noaa fetches and decodes the NOAA upstream products the proxy
// serves: api.weather.gov zone forecasts and alerts, tgftp raw-text
// bulletins, forecast.weather.gov text products, CO-OPS tide and current
// predictions, and NDBC buoy observations.
package noaa

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"
)

// maxBodySize caps upstream reads; the largest NOAA text products are well
// under 1 MB.
const maxBodySize = 4 << 20

// Fetcher retrieves one upstream URL. Implemented by Client and by the
// caching decorator.
type Fetcher interface {
	Get(ctx context.Context, url string) ([]byte, error)
}

// Error describes a failed upstream fetch. Status is zero for transport
// failures; Timeout marks deadline expiry on either layer.
type Error struct {
	URL     string
	Status  int
	Text    string
	Timeout bool
	cause   error
}

func (e *Error) Error() string {
	switch {
	case e.Status != 0:
		return fmt.Sprintf("fetch %s: upstream status %s", e.URL, e.Text)
	case e.Timeout:
		return fmt.Sprintf("fetch %s: timeout", e.URL)
	default:
		return fmt.Sprintf("fetch %s: %v", e.URL, e.cause)
	}
}

func (e *Error) Unwrap() error { return e.cause }

// Client fetches NOAA endpoints with the service's identifying User-Agent.
// NOAA asks API consumers to identify themselves; anonymous clients get
// throttled aggressively.
type Client struct {
	httpClient *http.Client
	userAgent  string
	logger     *slog.Logger
}

// NewClient creates an upstream client. The timeout bounds each request
// end to end.
func NewClient(userAgent string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		userAgent: userAgent,
		logger:    logger,
	}
}

// Get implements Fetcher. Non-200 responses, transport failures, and
// timeouts all return *Error; the body is returned only for a 200.
func (c *Client) Get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("upstream request failed", "url", url, "error", err)
		return nil, &Error{URL: url, Timeout: isTimeout(err), cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodySize))
		c.logger.Error("upstream returned error status", "url", url, "status", resp.StatusCode)
		return nil, &Error{URL: url, Status: resp.StatusCode, Text: resp.Status}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, &Error{URL: url, Timeout: isTimeout(err), cause: err}
	}
	return body, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
