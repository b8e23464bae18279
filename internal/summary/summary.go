// Package summary fetches the descriptive text shown after a guess from the
// Wikipedia REST summary endpoint.
package summary

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

const (
	userAgent    = "LandmarkQuizApp/1.0"
	maxBodyBytes = 1 << 20
	logBodyBytes = 2048
	retryDelay   = 200 * time.Millisecond
)

var (
	ErrUpstream         = errors.New("summary upstream error")
	ErrMalformedPayload = errors.New("malformed summary payload")
)

// Summary is the part of a page summary the game shows.
type Summary struct {
	Extract string `json:"extract"`
	PageURL string `json:"pageUrl"`
}

// Fetcher retrieves the summary published at pageURL.
type Fetcher interface {
	FetchSummary(ctx context.Context, pageURL string) (Summary, error)
}

// StatusError is returned for non-2xx upstream responses.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("summary upstream returned %d", e.StatusCode)
}

func (e *StatusError) Unwrap() error { return ErrUpstream }

// Client talks to the summary endpoint over HTTP.
type Client struct {
	http    *http.Client
	logger  *slog.Logger
	retries int
}

// NewClient returns a Client whose requests time out after timeout. Transport
// errors and 5xx responses are retried once.
func NewClient(logger *slog.Logger, timeout time.Duration) *Client {
	return &Client{
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
		retries: 1,
	}
}

type wikiPayload struct {
	Extract     *string `json:"extract"`
	ContentURLs *struct {
		Desktop *struct {
			Page string `json:"page"`
		} `json:"desktop"`
	} `json:"content_urls"`
}

func (c *Client) FetchSummary(ctx context.Context, pageURL string) (Summary, error) {
	var lastErr error
	for attempt := 0; attempt <= c.retries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return Summary{}, ctx.Err()
			case <-time.After(retryDelay):
			}
		}

		s, retry, err := c.fetchOnce(ctx, pageURL)
		if err == nil {
			return s, nil
		}
		lastErr = err
		if !retry {
			break
		}
		c.logger.Warn("summary fetch failed, retrying", "url", pageURL, "attempt", attempt+1, "error", err)
	}
	return Summary{}, lastErr
}

// fetchOnce performs a single request. retry reports whether the failure is
// worth another attempt.
func (c *Client) fetchOnce(ctx context.Context, pageURL string) (s Summary, retry bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return Summary{}, false, fmt.Errorf("building summary request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Error("summary request failed", "url", pageURL, "error", err)
		return Summary{}, ctx.Err() == nil, fmt.Errorf("requesting summary: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return Summary{}, true, fmt.Errorf("reading summary body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Error("summary upstream error",
			"url", pageURL,
			"status", resp.StatusCode,
			"headers", resp.Header,
			"body", truncate(body, logBodyBytes),
		)
		return Summary{}, resp.StatusCode >= 500, &StatusError{StatusCode: resp.StatusCode}
	}

	var p wikiPayload
	if err := json.Unmarshal(body, &p); err != nil {
		c.logger.Error("summary payload not json", "url", pageURL, "error", err, "body", truncate(body, logBodyBytes))
		return Summary{}, false, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	if p.Extract == nil || p.ContentURLs == nil || p.ContentURLs.Desktop == nil || p.ContentURLs.Desktop.Page == "" {
		c.logger.Error("summary payload missing fields", "url", pageURL, "body", truncate(body, logBodyBytes))
		return Summary{}, false, fmt.Errorf("%w: missing extract or page url", ErrMalformedPayload)
	}

	return Summary{Extract: *p.Extract, PageURL: p.ContentURLs.Desktop.Page}, false, nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
