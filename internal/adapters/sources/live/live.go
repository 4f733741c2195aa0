// Package live queries an HTTP quote service for card prices.
//
// The service answers GET {base}/quotes?name=<card>&set=<set> with a JSON
// array of quotes.
package live

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/okian/tcgprice/internal/domain/model"
	"github.com/okian/tcgprice/internal/domain/pricing"
)

const (
	quotesPath         = "quotes"
	defaultCurrency    = "USD"
	defaultHTTPTimeout = 10 * time.Second
	maxBodyBytes       = 1 << 20
	maxErrorSnippet    = 256
)

// Source is a price source backed by a remote quote service.
type Source struct {
	name       string
	baseURL    string
	httpClient *http.Client
}

var _ pricing.Source = (*Source)(nil)

// Option customizes the source.
type Option func(*Source)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(s *Source) {
		if client != nil {
			s.httpClient = client
		}
	}
}

// New constructs a live source.
func New(name, baseURL string, opts ...Option) *Source {
	s := &Source{
		name:       strings.TrimSpace(name),
		baseURL:    strings.TrimSpace(baseURL),
		httpClient: &http.Client{Timeout: defaultHTTPTimeout},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the configured source name.
func (s *Source) Name() string { return s.name }

type quoteResponse struct {
	Price     float64 `json:"price"`
	Currency  string  `json:"currency"`
	Condition string  `json:"condition"`
	URL       string  `json:"url"`
	InStock   *bool   `json:"in_stock"`
	Seller    string  `json:"seller"`
}

// Quote fetches quotes for one card.
func (s *Source) Quote(ctx context.Context, cardName, setName string) ([]model.PriceObservation, error) {
	endpoint, err := url.JoinPath(s.baseURL, quotesPath)
	if err != nil {
		return nil, fmt.Errorf("live %s: build url: %w", s.name, err)
	}
	q := url.Values{}
	q.Set("name", cardName)
	if setName != "" {
		q.Set("set", setName)
	}
	endpoint += "?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("live %s: new request: %w", s.name, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("live %s: %w: %w", s.name, ErrTransport, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("live %s: read body: %w: %w", s.name, ErrTransport, err)
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("live %s: %w: http %d: %s", s.name, ErrStatus, resp.StatusCode, snippet(body))
	}

	var quotes []quoteResponse
	if err := json.Unmarshal(body, &quotes); err != nil {
		return nil, fmt.Errorf("live %s: %w: %w", s.name, ErrDecode, err)
	}

	out := make([]model.PriceObservation, 0, len(quotes))
	for _, q := range quotes {
		price := pricing.Round(q.Price)
		if price <= 0 {
			continue
		}
		currency := strings.ToUpper(strings.TrimSpace(q.Currency))
		if currency == "" {
			currency = defaultCurrency
		}
		inStock := true
		if q.InStock != nil {
			inStock = *q.InStock
		}
		out = append(out, model.PriceObservation{
			Source:    s.name,
			Price:     price,
			Currency:  currency,
			Condition: strings.TrimSpace(q.Condition),
			URL:       strings.TrimSpace(q.URL),
			InStock:   inStock,
			Seller:    strings.TrimSpace(q.Seller),
		})
	}
	return out, nil
}

func snippet(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > maxErrorSnippet {
		return s[:maxErrorSnippet] + "..."
	}
	return s
}
