// Package service composes recognition, resolution and price aggregation into
// the operations exposed by the HTTP API and the CLI.
package service

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/tcgprice/internal/domain/model"
	"github.com/okian/tcgprice/internal/domain/resolver"
	"github.com/okian/tcgprice/pkg/logger"
)

// Recognizer turns an image into an untrusted identification.
type Recognizer interface {
	Identify(ctx context.Context, image []byte, mimeType string) (model.Identification, error)
}

// CardResolver maps identifications and ids onto canonical cards.
type CardResolver interface {
	Resolve(ctx context.Context, name, setName, number string) resolver.Resolution
	ResolveByID(ctx context.Context, id string) (model.CanonicalCard, error)
	Search(ctx context.Context, name string, limit int) ([]model.CanonicalCard, error)
}

// PriceAggregator builds a price report for a card.
type PriceAggregator interface {
	Aggregate(ctx context.Context, card model.CanonicalCard) model.PriceReport
}

// CardIdentification is the answer of IdentifyCard.
type CardIdentification struct {
	CardName   string `json:"card_name"`
	SetName    string `json:"set_name"`
	CardNumber string `json:"card_number"`
	Rarity     string `json:"rarity,omitempty"`
	CardID     string `json:"card_id"`
	ImageURL   string `json:"image_url,omitempty"`
	Confidence string `json:"confidence"`
	Resolution string `json:"resolution"`
	Synthetic  bool   `json:"synthetic"`
}

// PriceCheck is the answer of CheckPrice.
type PriceCheck struct {
	CardName     string                   `json:"card_name"`
	SetName      string                   `json:"set_name"`
	CardNumber   string                   `json:"card_number"`
	Rarity       string                   `json:"rarity,omitempty"`
	CardID       string                   `json:"card_id"`
	ImageURL     string                   `json:"image_url,omitempty"`
	Prices       []model.PriceObservation `json:"prices"`
	MarketPrice  *float64                 `json:"market_price"`
	PriceTrend   model.Trend              `json:"price_trend"`
	LastUpdated  time.Time                `json:"last_updated"`
	TotalSources int                      `json:"total_sources"`
	Resolution   string                   `json:"resolution"`
	Synthetic    bool                     `json:"synthetic"`
}

// Service implements the card pipeline. It keeps no per-request state.
type Service struct {
	mu sync.RWMutex

	// Pipeline stages
	recognizer Recognizer
	resolver   CardResolver
	aggregator PriceAggregator

	// State
	started   bool
	startedAt time.Time

	// Counters reported by GetStats
	identifications     atomic.Int64
	priceChecks         atomic.Int64
	pricesByID          atomic.Int64
	recognitionFailures atomic.Int64
	degraded            atomic.Int64

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithRecognizer sets the image recognizer. Without one, image operations
// fail with ErrNoRecognizer.
func WithRecognizer(r Recognizer) Option {
	return func(s *Service) {
		if r != nil {
			s.recognizer = r
		}
	}
}

// WithResolver sets the card resolver.
func WithResolver(r CardResolver) Option {
	return func(s *Service) {
		if r != nil {
			s.resolver = r
		}
	}
}

// WithAggregator sets the price aggregator.
func WithAggregator(a PriceAggregator) Option {
	return func(s *Service) {
		if a != nil {
			s.aggregator = a
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a new Service.
func New(opts ...Option) *Service {
	s := &Service{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start checks the pipeline is complete and marks the service ready.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}
	if s.resolver == nil {
		return fmt.Errorf("start service: %w", ErrNoResolver)
	}
	if s.aggregator == nil {
		return fmt.Errorf("start service: %w", ErrNoAggregator)
	}
	if s.recognizer == nil {
		s.logger.Warn(ctx, "no recognizer configured; image endpoints will fail")
	}

	s.started = true
	s.startedAt = time.Now()
	s.logger.Info(ctx, "card price service started",
		logger.Bool("recognizer", s.recognizer != nil),
	)
	return nil
}

// Stop marks the service stopped. Requests in flight are unaffected.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.started = false
	s.logger.Info(context.Background(), "card price service stopped")
}

// Ready reports whether Start has succeeded and Stop has not been called.
func (s *Service) Ready() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.started
}

// IdentifyCard recognizes the card in image and resolves it. Only a
// recognition failure is returned as an error; resolution always succeeds.
func (s *Service) IdentifyCard(ctx context.Context, image []byte, mimeType string) (CardIdentification, error) {
	s.identifications.Add(1)

	ident, res, err := s.identify(ctx, image, mimeType)
	if err != nil {
		return CardIdentification{}, err
	}

	card := res.Card
	return CardIdentification{
		CardName:   card.Name,
		SetName:    card.SetName,
		CardNumber: card.Number,
		Rarity:     card.Rarity,
		CardID:     card.ID,
		ImageURL:   card.ImageURL,
		Confidence: ident.Confidence,
		Resolution: string(res.Outcome),
		Synthetic:  card.Synthetic,
	}, nil
}

// CheckPrice recognizes, resolves and prices the card in image.
func (s *Service) CheckPrice(ctx context.Context, image []byte, mimeType string) (PriceCheck, error) {
	s.priceChecks.Add(1)

	_, res, err := s.identify(ctx, image, mimeType)
	if err != nil {
		return PriceCheck{}, err
	}
	return s.PriceCard(ctx, res), nil
}

// ResolveCard resolves a typed identification without recognition.
func (s *Service) ResolveCard(ctx context.Context, name, setName, number string) resolver.Resolution {
	res := s.resolver.Resolve(ctx, name, setName, number)
	if res.Outcome.Degraded() {
		s.degraded.Add(1)
	}
	return res
}

// PriceCard prices an already resolved card.
func (s *Service) PriceCard(ctx context.Context, res resolver.Resolution) PriceCheck {
	card := res.Card
	report := s.aggregator.Aggregate(ctx, card)
	return PriceCheck{
		CardName:     card.Name,
		SetName:      card.SetName,
		CardNumber:   card.Number,
		Rarity:       card.Rarity,
		CardID:       card.ID,
		ImageURL:     card.ImageURL,
		Prices:       report.Observations,
		MarketPrice:  report.MarketPrice,
		PriceTrend:   report.Trend,
		LastUpdated:  report.LastUpdated,
		TotalSources: report.SourceCount,
		Resolution:   string(res.Outcome),
		Synthetic:    card.Synthetic,
	}
}

// PricesByID prices a catalog card named by id. An unknown id is returned as
// an error wrapping model.ErrCardNotFound.
func (s *Service) PricesByID(ctx context.Context, id string) (model.PriceReport, error) {
	s.pricesByID.Add(1)

	card, err := s.resolver.ResolveByID(ctx, id)
	if err != nil {
		return model.PriceReport{}, fmt.Errorf("prices by id: %w", err)
	}
	return s.aggregator.Aggregate(ctx, card), nil
}

// PriceCardByID is PricesByID merged with the catalog card it priced. A
// direct id lookup counts as a matched resolution.
func (s *Service) PriceCardByID(ctx context.Context, id string) (PriceCheck, error) {
	s.pricesByID.Add(1)

	card, err := s.resolver.ResolveByID(ctx, id)
	if err != nil {
		return PriceCheck{}, fmt.Errorf("price card by id: %w", err)
	}
	return s.PriceCard(ctx, resolver.Resolution{Card: card, Outcome: resolver.OutcomeMatched}), nil
}

// SearchCards lists catalog candidates for a card name.
func (s *Service) SearchCards(ctx context.Context, name string, limit int) ([]model.CanonicalCard, error) {
	cards, err := s.resolver.Search(ctx, name, limit)
	if err != nil {
		return nil, fmt.Errorf("search cards: %w", err)
	}
	return cards, nil
}

func (s *Service) identify(ctx context.Context, image []byte, mimeType string) (model.Identification, resolver.Resolution, error) {
	if s.recognizer == nil {
		return model.Identification{}, resolver.Resolution{}, ErrNoRecognizer
	}

	ident, err := s.recognizer.Identify(ctx, image, mimeType)
	if err != nil {
		s.recognitionFailures.Add(1)
		s.log().Warn(ctx, "card recognition failed", logger.Error(err))
		return model.Identification{}, resolver.Resolution{}, fmt.Errorf("identify card: %w", err)
	}
	s.log().Info(ctx, "card recognized",
		logger.String("name", ident.Name),
		logger.String("set", ident.SetName),
		logger.String("number", ident.Number),
		logger.String("confidence", ident.Confidence),
	)

	return ident, s.ResolveCard(ctx, ident.Name, ident.SetName, ident.Number), nil
}

func (s *Service) log() logger.Logger {
	s.mu.RLock()
	l := s.logger
	s.mu.RUnlock()
	if l == nil {
		return logger.Get()
	}
	return l
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]any{
		"started":             s.started,
		"recognizer":          s.recognizer != nil,
		"identifications":     s.identifications.Load(),
		"priceChecks":         s.priceChecks.Load(),
		"pricesById":          s.pricesByID.Load(),
		"recognitionFailures": s.recognitionFailures.Load(),
		"degradedResolutions": s.degraded.Load(),
	}
	if s.started {
		stats["uptimeSeconds"] = int64(time.Since(s.startedAt).Seconds())
	}
	return stats
}
