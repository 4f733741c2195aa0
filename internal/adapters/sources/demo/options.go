package demo

import "math/rand/v2"

// Option configures a Marketplace.
type Option func(*Marketplace)

// WithSeed makes the generated prices reproducible.
func WithSeed(seed uint64) Option {
	return func(m *Marketplace) {
		m.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	}
}
