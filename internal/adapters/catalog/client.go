// Package catalog is a client for the Pokémon TCG card catalog API.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/okian/tcgprice/internal/domain/model"
	"github.com/okian/tcgprice/internal/domain/resolver"
	"github.com/okian/tcgprice/pkg/logger"
	"github.com/okian/tcgprice/pkg/metrics"
)

const (
	// DefaultBaseURL is the public catalog endpoint.
	DefaultBaseURL = "https://api.pokemontcg.io/v2"

	apiKeyHeader       = "X-Api-Key"
	cardsPath          = "cards"
	defaultHTTPTimeout = 30 * time.Second
	maxBodyBytes       = 8 << 20
	maxErrorSnippet    = 256

	opSearch = "search"
	opGet    = "get"
)

// Client talks to the catalog over HTTP. It is safe for concurrent use.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     logger.Logger
}

var _ resolver.Catalog = (*Client)(nil)

// Option customizes the client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithAPIKey sends the key with every request. Requests work without one at a
// lower rate limit.
func WithAPIKey(key string) Option {
	return func(c *Client) {
		c.apiKey = strings.TrimSpace(key)
	}
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient = &http.Client{Timeout: timeout}
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewClient constructs a catalog client. An empty baseURL selects
// DefaultBaseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimSpace(baseURL),
		httpClient: &http.Client{Timeout: defaultHTTPTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.baseURL == "" {
		c.baseURL = DefaultBaseURL
	}
	if c.logger == nil {
		c.logger = logger.Named("catalog")
	}
	return c
}

// SearchByName returns up to pageSize cards whose name matches name as an
// exact phrase, in catalog ranking order.
func (c *Client) SearchByName(ctx context.Context, name string, pageSize int) ([]model.CanonicalCard, error) {
	q := url.Values{}
	q.Set("q", fmt.Sprintf("name:%q", strings.TrimSpace(name)))
	if pageSize > 0 {
		q.Set("pageSize", strconv.Itoa(pageSize))
	}

	var page struct {
		Data []rawCard `json:"data"`
	}
	if err := c.get(ctx, opSearch, []string{cardsPath}, q, &page); err != nil {
		return nil, fmt.Errorf("catalog search %q: %w", name, err)
	}

	cards := make([]model.CanonicalCard, 0, len(page.Data))
	for _, raw := range page.Data {
		if raw.ID == "" {
			continue
		}
		cards = append(cards, raw.canonical())
	}
	c.logger.Debug(ctx, "catalog search",
		logger.String("name", name),
		logger.Int("results", len(cards)),
	)
	return cards, nil
}

// GetByID fetches one card. A missing id wraps ErrNotFound.
func (c *Client) GetByID(ctx context.Context, id string) (model.CanonicalCard, error) {
	var single struct {
		Data *rawCard `json:"data"`
	}
	if err := c.get(ctx, opGet, []string{cardsPath, id}, nil, &single); err != nil {
		return model.CanonicalCard{}, fmt.Errorf("catalog get %q: %w", id, err)
	}
	if single.Data == nil || single.Data.ID == "" {
		return model.CanonicalCard{}, fmt.Errorf("catalog get %q: %w", id, ErrNotFound)
	}
	return single.Data.canonical(), nil
}

func (c *Client) get(ctx context.Context, op string, path []string, query url.Values, out any) (err error) {
	start := time.Now()
	status := "ok"
	defer func() {
		if err != nil {
			status = classify(err)
		}
		metrics.RecordCatalogRequest(op, status, time.Since(start))
	}()

	endpoint, err := url.JoinPath(c.baseURL, path...)
	if err != nil {
		return fmt.Errorf("build url: %w", err)
	}
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set(apiKeyHeader, c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrTransport, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("%w: read body: %w", ErrTransport, err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices:
		return fmt.Errorf("%w: http %d: %s", ErrStatus, resp.StatusCode, snippet(body))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return nil
}

func snippet(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > maxErrorSnippet {
		return s[:maxErrorSnippet] + "..."
	}
	return s
}
