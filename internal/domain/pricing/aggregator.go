// Package pricing merges catalog-embedded prices and independent price
// sources into a single PriceReport with a market price and a trend label.
package pricing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/okian/tcgprice/internal/domain/model"
	"github.com/okian/tcgprice/pkg/logger"
	"github.com/okian/tcgprice/pkg/metrics"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// Source is an independent price provider queried when the catalog has no
// embedded prices. Implementations must be safe for concurrent use.
type Source interface {
	Name() string
	Quote(ctx context.Context, cardName, setName string) ([]model.PriceObservation, error)
}

// Clock returns the current time.
type Clock func() time.Time

// Report origins used in metrics.
const (
	originCatalog = "catalog"
	originSources = "sources"
	originNone    = "none"
)

// Source call statuses used in metrics.
const (
	statusOK      = "ok"
	statusError   = "error"
	statusTimeout = "timeout"
)

const (
	defaultSourceTimeout  = 5 * time.Second
	defaultMaxConcurrency = 8
)

// Aggregator builds price reports. It holds no per-request state.
type Aggregator struct {
	sources        []Source
	sourceTimeout  time.Duration
	maxConcurrency int64
	clock          Clock
	logger         logger.Logger
}

// New constructs an Aggregator.
func New(opts ...Option) *Aggregator {
	a := &Aggregator{
		sourceTimeout:  defaultSourceTimeout,
		maxConcurrency: defaultMaxConcurrency,
		clock:          time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.logger == nil {
		a.logger = logger.Named("pricing")
	}
	return a
}

// Sources returns the registered source names in registration order.
func (a *Aggregator) Sources() []string {
	names := make([]string, len(a.sources))
	for i, s := range a.sources {
		names[i] = s.Name()
	}
	return names
}

// Aggregate produces the price report for a card. It never fails: a source
// error only removes that source's observations.
func (a *Aggregator) Aggregate(ctx context.Context, card model.CanonicalCard) model.PriceReport {
	origin := originCatalog
	observations := ExtractCatalogPrices(card.SourcePrices)
	if len(observations) == 0 {
		origin = originSources
		observations = a.collect(ctx, card.Name, card.SetName)
	}
	if len(observations) == 0 {
		origin = originNone
	}

	report := Build(observations, a.clock())
	metrics.RecordReport(string(report.Trend), origin, report.SourceCount)

	a.logger.Debug(ctx, "price report built",
		logger.String("card_id", card.ID),
		logger.String("origin", origin),
		logger.Int("observations", report.SourceCount),
		logger.String("trend", string(report.Trend)),
	)
	return report
}

// Build assembles a report from already-collected observations.
func Build(observations []model.PriceObservation, now time.Time) model.PriceReport {
	if observations == nil {
		observations = []model.PriceObservation{}
	}
	report := model.PriceReport{
		Observations: observations,
		LastUpdated:  now,
		SourceCount:  len(observations),
	}
	prices := report.Prices()
	report.MarketPrice = MarketPrice(prices)
	report.Trend = ClassifyTrend(prices)
	return report
}

// collect fans out to every source and concatenates their observations in
// registration order.
func (a *Aggregator) collect(ctx context.Context, cardName, setName string) []model.PriceObservation {
	if len(a.sources) == 0 {
		return nil
	}

	results := make([][]model.PriceObservation, len(a.sources))
	sem := semaphore.NewWeighted(a.maxConcurrency)
	g, gctx := errgroup.WithContext(ctx)

	for i, src := range a.sources {
		g.Go(func() error {
			if err := sem.Acquire(gctx, 1); err != nil {
				a.recordFailure(ctx, src.Name(), err, 0)
				return nil
			}
			defer sem.Release(1)

			results[i] = a.quote(gctx, src, cardName, setName)
			return nil
		})
	}
	// Source failures are absorbed in quote, so Wait cannot return an error.
	_ = g.Wait()

	var out []model.PriceObservation
	for _, r := range results {
		out = append(out, r...)
	}
	return out
}

func (a *Aggregator) quote(ctx context.Context, src Source, cardName, setName string) []model.PriceObservation {
	callCtx, cancel := context.WithTimeout(ctx, a.sourceTimeout)
	defer cancel()

	start := time.Now()
	observations, err := callSource(callCtx, src, cardName, setName)
	latency := time.Since(start)
	if err == nil {
		err = callCtx.Err()
	}
	if err != nil {
		a.recordFailure(ctx, src.Name(), err, latency)
		return nil
	}

	kept := observations[:0:0]
	for _, o := range observations {
		if o.Price > 0 {
			kept = append(kept, o)
		}
	}
	metrics.RecordSourceQuote(src.Name(), statusOK, len(kept), latency)
	return kept
}

// callSource shields the fan-out from a panicking source.
func callSource(ctx context.Context, src Source, cardName, setName string) (obs []model.PriceObservation, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("source %s panicked: %v", src.Name(), r)
		}
	}()
	return src.Quote(ctx, cardName, setName)
}

func (a *Aggregator) recordFailure(ctx context.Context, source string, err error, latency time.Duration) {
	status := statusError
	if errors.Is(err, context.DeadlineExceeded) {
		status = statusTimeout
	}
	metrics.RecordSourceQuote(source, status, 0, latency)
	a.logger.Warn(ctx, "price source failed",
		logger.String("source", source),
		logger.String("status", status),
		logger.Duration("latency", latency),
		logger.Error(err),
	)
}
