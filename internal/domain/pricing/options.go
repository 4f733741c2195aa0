package pricing

import (
	"time"

	"github.com/okian/tcgprice/pkg/logger"
)

// Option applies a configuration option to the Aggregator.
type Option func(*Aggregator)

// WithSources registers price sources. Order is preserved in reports.
func WithSources(sources ...Source) Option {
	return func(a *Aggregator) {
		for _, s := range sources {
			if s != nil {
				a.sources = append(a.sources, s)
			}
		}
	}
}

// WithSourceTimeout bounds each individual source call.
func WithSourceTimeout(timeout time.Duration) Option {
	return func(a *Aggregator) {
		if timeout > 0 {
			a.sourceTimeout = timeout
		}
	}
}

// WithMaxConcurrency caps how many sources are queried at once.
func WithMaxConcurrency(n int) Option {
	return func(a *Aggregator) {
		if n > 0 {
			a.maxConcurrency = int64(n)
		}
	}
}

// WithClock overrides the clock used for LastUpdated.
func WithClock(clock Clock) Option {
	return func(a *Aggregator) {
		if clock != nil {
			a.clock = clock
		}
	}
}

// WithLogger sets a custom logger for the aggregator.
func WithLogger(l logger.Logger) Option {
	return func(a *Aggregator) {
		if l != nil {
			a.logger = l
		}
	}
}
