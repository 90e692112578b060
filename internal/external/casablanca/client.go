package casablanca

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/adilezz/botbourse/pkg/config"
	"github.com/adilezz/botbourse/pkg/httputil"
	"github.com/adilezz/botbourse/pkg/logger"
)

// Client handles communication with the Casablanca exchange website.
// All exchange scraping goes through this client.
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	baseURL    string
}

// NewClient creates a Casablanca exchange client with the configured
// request timeout and rate limit.
func NewClient(cfg *config.Config, log *logger.Logger) *Client {
	httpClient := httputil.NewWithTimeout(log, cfg.Bourse.RequestTimeout).
		WithRateLimit(cfg.Bourse.RatePerSecond)

	return &Client{
		httpClient: httpClient,
		logger:     log,
		baseURL:    cfg.Bourse.BaseURL,
	}
}

// fetch performs a GET and returns the response body as a string.
func (c *Client) fetch(ctx context.Context, url string) (string, error) {
	resp, err := c.httpClient.Get(ctx, url)
	if err != nil {
		return "", fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response body failed: %w", err)
	}
	return string(body), nil
}
