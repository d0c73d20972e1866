// Package scryfall resolves card names into renderable table cards using the
// Scryfall API.
package scryfall

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/chuck21619/cardtable/table"
)

const (
	DefaultBaseURL     = "https://api.scryfall.com"
	DefaultMinInterval = 100 * time.Millisecond
	userAgent          = "cardtable/1.0"
)

// Client looks up cards on Scryfall. Outbound requests are paced by a
// limiter; there is no retry and no cache.
type Client struct {
	baseURL     string
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	log         *zap.Logger
}

type Option func(*Client)

// WithBaseURL points the client at another API root.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(u, "/")
	}
}

// WithMinInterval sets the minimum spacing between outbound requests.
// Zero disables pacing.
func WithMinInterval(d time.Duration) Option {
	return func(c *Client) {
		c.rateLimiter = rate.NewLimiter(rate.Every(d), 1)
	}
}

// WithTimeout bounds each request. Zero means no timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// NewClient creates a new Scryfall client.
func NewClient(log *zap.Logger, opts ...Option) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	c := &Client{
		baseURL: DefaultBaseURL,
		httpClient: &http.Client{
			Transport: NewLoggingRoundTripper(http.DefaultTransport, log),
		},
		rateLimiter: rate.NewLimiter(rate.Every(DefaultMinInterval), 1),
		log:         log,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Resolve fetches the card matching name, or a random card when name is
// empty. The returned card sits at the origin, untapped and unlocked. Every
// error wraps ErrProviderFailure.
func (c *Client) Resolve(ctx context.Context, name string) (table.Card, error) {
	u := c.baseURL + "/cards/random"
	if name != "" {
		u = c.baseURL + "/cards/named?fuzzy=" + url.QueryEscape(name)
	}

	var card Card
	if err := c.doRequest(ctx, u, &card); err != nil {
		return table.Card{}, fmt.Errorf("%w: %w", ErrProviderFailure, err)
	}

	image := card.ImageURL()
	if image == "" {
		return table.Card{}, fmt.Errorf("%w: %q: %w", ErrProviderFailure, card.Name, ErrNoImage)
	}

	return table.Card{
		URL:  image,
		Name: card.Name,
	}, nil
}

func (c *Client) doRequest(ctx context.Context, u string, result any) error {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter error: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("HTTP request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
		if err := json.Unmarshal(body, result); err != nil {
			return fmt.Errorf("failed to parse JSON response: %w", err)
		}
		return nil
	case http.StatusNotFound:
		return &NotFoundError{URL: u}
	default:
		var apiErr APIError
		if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Details != "" {
			return &apiErr
		}
		return fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(body))
	}
}
