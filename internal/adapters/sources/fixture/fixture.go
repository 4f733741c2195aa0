// Package fixture provides a deterministic price source that replays
// configured observations or a configured failure.
package fixture

import (
	"context"
	"slices"
	"time"

	"github.com/okian/tcgprice/internal/domain/model"
	"github.com/okian/tcgprice/internal/domain/pricing"
)

// Source replays a fixed answer.
type Source struct {
	name         string
	observations []model.PriceObservation
	err          error
	delay        time.Duration
}

var _ pricing.Source = (*Source)(nil)

// Option configures a Source.
type Option func(*Source)

// WithObservations sets the observations returned by every call.
func WithObservations(observations ...model.PriceObservation) Option {
	return func(s *Source) {
		s.observations = slices.Clone(observations)
	}
}

// WithPrices is shorthand for near mint USD observations at the given prices.
func WithPrices(prices ...float64) Option {
	return func(s *Source) {
		s.observations = make([]model.PriceObservation, len(prices))
		for i, p := range prices {
			s.observations[i] = model.PriceObservation{
				Source:    s.name,
				Price:     p,
				Currency:  "USD",
				Condition: "Near Mint",
				InStock:   true,
			}
		}
	}
}

// WithError makes every call fail with err.
func WithError(err error) Option {
	return func(s *Source) {
		s.err = err
	}
}

// WithDelay holds every call for d, or until the context ends.
func WithDelay(d time.Duration) Option {
	return func(s *Source) {
		s.delay = d
	}
}

// New returns a fixture source named name.
func New(name string, opts ...Option) *Source {
	s := &Source{name: name}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the configured name.
func (s *Source) Name() string { return s.name }

// Quote returns a copy of the configured observations or the configured error.
func (s *Source) Quote(ctx context.Context, _, _ string) ([]model.PriceObservation, error) {
	if s.delay > 0 {
		t := time.NewTimer(s.delay)
		defer t.Stop()
		select {
		case <-t.C:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if s.err != nil {
		return nil, s.err
	}
	return slices.Clone(s.observations), nil
}
