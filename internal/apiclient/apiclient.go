// Package apiclient is the HTTP client for the landmark game API.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/playperu/landmarks/internal/guess"
	"github.com/playperu/landmarks/internal/landmark"
	"github.com/playperu/landmarks/internal/scoring"
)

// APIError is a non-2xx response from the API.
type APIError struct {
	Status  int
	Message string
	Details []string
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("api error %d: %s", e.Status, e.Message)
	if len(e.Details) > 0 {
		msg += " (" + strings.Join(e.Details, "; ") + ")"
	}
	return msg
}

// Client calls the game API over HTTP.
type Client struct {
	baseURL *url.URL
	http    *http.Client
	logger  *slog.Logger
}

func New(logger *slog.Logger, baseURL string, timeout time.Duration) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parsing api url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("api url %q must be absolute", baseURL)
	}
	return &Client{
		baseURL: u,
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
	}, nil
}

// Challenge fetches a random landmark to guess.
func (c *Client) Challenge(ctx context.Context) (landmark.Challenge, error) {
	var ch landmark.Challenge
	err := c.do(ctx, http.MethodGet, "/api/landmarks/random", nil, &ch)
	return ch, err
}

// SubmitGuess posts a guess and returns the scored result.
func (c *Client) SubmitGuess(ctx context.Context, req guess.Request) (guess.Result, error) {
	var res guess.Result
	err := c.do(ctx, http.MethodPost, "/api/landmarks/guess", req, &res)
	return res, err
}

// Precisions fetches the tier table.
func (c *Client) Precisions(ctx context.Context) ([]scoring.Tier, error) {
	var tiers []scoring.Tier
	err := c.do(ctx, http.MethodGet, "/api/precisions", nil, &tiers)
	return tiers, err
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL.JoinPath(path).String(), body)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	c.logger.Debug("api call",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"duration", time.Since(start),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		var e struct {
			Error   string   `json:"error"`
			Details []string `json:"details"`
		}
		if json.NewDecoder(resp.Body).Decode(&e) == nil && e.Error != "" {
			apiErr.Message = e.Error
			apiErr.Details = e.Details
		}
		return apiErr
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding %s response: %w", path, err)
	}
	return nil
}
