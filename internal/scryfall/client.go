// Package scryfall is a rate-limited client for the Scryfall card API.
package scryfall

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL   = "https://api.scryfall.com"
	DefaultUserAgent = "DeckForge/1.0"

	rateLimitDelay = 100 * time.Millisecond // 10 req/sec
	requestTimeout = 30 * time.Second
	maxRetries     = 3
	initialBackoff = 1 * time.Second
	maxBackoff     = 16 * time.Second
)

// Client represents a Scryfall API client with rate limiting.
type Client struct {
	baseURL        string
	httpClient     *http.Client
	rateLimiter    *rate.Limiter
	userAgent      string
	initialBackoff time.Duration
	maxBackoff     time.Duration
	logger         *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at another host, such as a test server.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// WithRateLimit sets the minimum delay between requests.
func WithRateLimit(every time.Duration) Option {
	return func(c *Client) { c.rateLimiter = rate.NewLimiter(rate.Every(every), 1) }
}

// WithBackoff sets the retry backoff bounds.
func WithBackoff(initial, limit time.Duration) Option {
	return func(c *Client) {
		c.initialBackoff = initial
		c.maxBackoff = limit
	}
}

// WithLogger sets the logger used for retry diagnostics.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// NewClient creates a new Scryfall API client.
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
		rateLimiter:    rate.NewLimiter(rate.Every(rateLimitDelay), 1),
		userAgent:      DefaultUserAgent,
		initialBackoff: initialBackoff,
		maxBackoff:     maxBackoff,
		logger:         zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SearchOptions mirror the optional /cards/search parameters. Zero values
// are omitted from the request.
type SearchOptions struct {
	Unique              string // cards, art, prints
	Order               string // name, set, released, rarity, color, usd, cmc, edhrec, ...
	Dir                 string // auto, asc, desc
	IncludeExtras       *bool
	IncludeMultilingual *bool
	IncludeVariations   *bool
	Page                int
}

func (o SearchOptions) values(q string) url.Values {
	v := url.Values{}
	v.Set("q", q)
	if o.Unique != "" {
		v.Set("unique", o.Unique)
	}
	if o.Order != "" {
		v.Set("order", o.Order)
	}
	if o.Dir != "" {
		v.Set("dir", o.Dir)
	}
	if o.IncludeExtras != nil {
		v.Set("include_extras", strconv.FormatBool(*o.IncludeExtras))
	}
	if o.IncludeMultilingual != nil {
		v.Set("include_multilingual", strconv.FormatBool(*o.IncludeMultilingual))
	}
	if o.IncludeVariations != nil {
		v.Set("include_variations", strconv.FormatBool(*o.IncludeVariations))
	}
	if o.Page > 0 {
		v.Set("page", strconv.Itoa(o.Page))
	}
	return v
}

// Search runs a query in Scryfall search syntax. Parentheses are balanced
// before sending. A query that matches nothing yields an empty result, not
// an error.
func (c *Client) Search(ctx context.Context, query string, opts SearchOptions) (*SearchResult, error) {
	fixed := BalanceParentheses(query)

	var result SearchResult
	err := c.do(ctx, http.MethodGet, "/cards/search", opts.values(fixed), nil, &result)
	if IsNotFound(err) {
		return &SearchResult{Object: "list", Data: []Card{}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to search cards with query '%s': %w", fixed, err)
	}
	if result.Data == nil {
		result.Data = []Card{}
	}
	return &result, nil
}

// NamedExact fetches a card by its exact name, optionally from one set.
func (c *Client) NamedExact(ctx context.Context, name, set string) (*Card, error) {
	return c.named(ctx, "exact", name, set)
}

// NamedFuzzy fetches the card whose name best matches name.
func (c *Client) NamedFuzzy(ctx context.Context, name, set string) (*Card, error) {
	return c.named(ctx, "fuzzy", name, set)
}

func (c *Client) named(ctx context.Context, mode, name, set string) (*Card, error) {
	v := url.Values{}
	v.Set(mode, name)
	if set != "" {
		v.Set("set", set)
	}

	var card Card
	if err := c.do(ctx, http.MethodGet, "/cards/named", v, nil, &card); err != nil {
		return nil, fmt.Errorf("failed to get card by %s name %q: %w", mode, name, err)
	}
	return &card, nil
}

// Autocomplete returns up to 20 card names starting with prefix.
func (c *Client) Autocomplete(ctx context.Context, prefix string) (*Catalog, error) {
	v := url.Values{}
	v.Set("q", prefix)

	var catalog Catalog
	if err := c.do(ctx, http.MethodGet, "/cards/autocomplete", v, nil, &catalog); err != nil {
		return nil, fmt.Errorf("failed to autocomplete %q: %w", prefix, err)
	}
	if catalog.Data == nil {
		catalog.Data = []string{}
	}
	return &catalog, nil
}

// Random returns a random card, restricted to query when it is not empty.
func (c *Client) Random(ctx context.Context, query string) (*Card, error) {
	v := url.Values{}
	if query != "" {
		v.Set("q", BalanceParentheses(query))
	}

	var card Card
	if err := c.do(ctx, http.MethodGet, "/cards/random", v, nil, &card); err != nil {
		return nil, fmt.Errorf("failed to get random card: %w", err)
	}
	return &card, nil
}

// GetCard retrieves a card by its Scryfall ID.
func (c *Client) GetCard(ctx context.Context, id string) (*Card, error) {
	var card Card
	if err := c.do(ctx, http.MethodGet, "/cards/"+url.PathEscape(id), nil, nil, &card); err != nil {
		return nil, fmt.Errorf("failed to get card %s: %w", id, err)
	}
	return &card, nil
}

// do performs a request with rate limiting and retries. Network errors and
// 429 responses are retried with exponential backoff; a Retry-After header
// overrides the backoff for that attempt.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any, result any) error {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var payload []byte
	if body != nil {
		var err error
		if payload, err = json.Marshal(body); err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
	}

	var lastErr error
	backoff := c.initialBackoff

	for attempt := 0; attempt <= maxRetries; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter error: %w", err)
		}

		var reader io.Reader
		if payload != nil {
			reader = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, target, reader)
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("User-Agent", c.userAgent)
		req.Header.Set("Accept", "application/json")
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("HTTP request failed: %w", err)
			if ctx.Err() != nil {
				return lastErr
			}
			if attempt < maxRetries {
				c.logger.Debug("scryfall request failed, retrying",
					zap.String("url", target), zap.Int("attempt", attempt+1), zap.Error(err))
				if err := sleep(ctx, backoff); err != nil {
					return err
				}
				backoff = min(backoff*2, c.maxBackoff)
				continue
			}
			return lastErr
		}

		done, wait, err := c.handleResponse(resp, target, result)
		if done {
			return err
		}

		lastErr = err
		if attempt < maxRetries {
			if wait <= 0 {
				wait = backoff
			}
			c.logger.Debug("scryfall rate limited, retrying",
				zap.String("url", target), zap.Int("attempt", attempt+1), zap.Duration("wait", wait))
			if err := sleep(ctx, wait); err != nil {
				return err
			}
			backoff = min(backoff*2, c.maxBackoff)
		}
	}

	return fmt.Errorf("max retries exceeded: %w", lastErr)
}

// handleResponse consumes resp. done is false only for a retryable 429, in
// which case wait carries the server's Retry-After hint, if any.
func (c *Client) handleResponse(resp *http.Response, target string, result any) (done bool, wait time.Duration, err error) {
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return true, 0, fmt.Errorf("failed to read response body: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
		if err := json.Unmarshal(body, result); err != nil {
			return true, 0, fmt.Errorf("failed to parse JSON response: %w", err)
		}
		return true, 0, nil

	case http.StatusTooManyRequests:
		if s := resp.Header.Get("Retry-After"); s != "" {
			if secs, err := strconv.Atoi(s); err == nil && secs >= 0 {
				wait = time.Duration(secs) * time.Second
			}
		}
		return false, wait, ErrRateLimited

	case http.StatusNotFound:
		nf := &NotFoundError{URL: target}
		var apiErr APIError
		if json.Unmarshal(body, &apiErr) == nil {
			nf.Details = apiErr.Details
		}
		return true, 0, nf

	default:
		var apiErr APIError
		if err := json.Unmarshal(body, &apiErr); err == nil && (apiErr.Details != "" || apiErr.Code != "") {
			if apiErr.Status == 0 {
				apiErr.Status = resp.StatusCode
			}
			return true, 0, &apiErr
		}
		return true, 0, &APIError{
			Status:  resp.StatusCode,
			Details: strings.TrimSpace(string(body)),
		}
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// BalanceParentheses drops every ')' that has no matching '(' before it and
// appends the ')' still missing at the end.
func BalanceParentheses(query string) string {
	var b strings.Builder
	b.Grow(len(query) + 2)

	open := 0
	for _, r := range query {
		switch r {
		case '(':
			open++
		case ')':
			if open == 0 {
				continue
			}
			open--
		}
		b.WriteRune(r)
	}
	for ; open > 0; open-- {
		b.WriteByte(')')
	}
	return b.String()
}
