package resolver

import (
	"time"

	"github.com/okian/tcgprice/pkg/logger"
)

// Option applies a configuration option to the Resolver.
type Option func(*Resolver)

// WithPageSize caps the number of candidates requested from the catalog.
func WithPageSize(size int) Option {
	return func(r *Resolver) {
		if size > 0 {
			r.pageSize = size
		}
	}
}

// WithTimeout sets the fixed timeout of a single catalog call.
func WithTimeout(timeout time.Duration) Option {
	return func(r *Resolver) {
		if timeout > 0 {
			r.timeout = timeout
		}
	}
}

// WithLogger sets a custom logger for the resolver.
func WithLogger(l logger.Logger) Option {
	return func(r *Resolver) {
		if l != nil {
			r.logger = l
		}
	}
}
