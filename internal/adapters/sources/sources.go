// Package sources selects the price sources the aggregator fans out to.
package sources

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/okian/tcgprice/internal/adapters/sources/demo"
	"github.com/okian/tcgprice/internal/adapters/sources/live"
	"github.com/okian/tcgprice/internal/domain/pricing"
)

// Modes.
const (
	ModeDemo = "demo"
	ModeLive = "live"
	ModeNone = "none"
)

// ErrUnknownMode is returned for a mode other than demo, live or none.
var ErrUnknownMode = errors.New("unknown source mode")

// ErrNoLiveSources is returned when live mode has no endpoints configured.
var ErrNoLiveSources = errors.New("live mode requires at least one source url")

// Option customizes source construction.
type Option func(*options)

type options struct {
	httpClient *http.Client
	demoOpts   []demo.Option
}

// WithHTTPClient sets the client shared by live sources.
func WithHTTPClient(client *http.Client) Option {
	return func(o *options) { o.httpClient = client }
}

// WithDemoOptions forwards options to the demo marketplaces.
func WithDemoOptions(opts ...demo.Option) Option {
	return func(o *options) { o.demoOpts = append(o.demoOpts, opts...) }
}

// Build returns the sources for mode. Live sources are ordered by name so
// reports are stable across restarts.
func Build(mode string, liveURLs map[string]string, opts ...Option) ([]pricing.Source, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	switch strings.ToLower(strings.TrimSpace(mode)) {
	case ModeDemo, "":
		return demo.All(o.demoOpts...), nil
	case ModeNone:
		return nil, nil
	case ModeLive:
		names := make([]string, 0, len(liveURLs))
		for name, u := range liveURLs {
			if strings.TrimSpace(name) == "" || strings.TrimSpace(u) == "" {
				continue
			}
			names = append(names, name)
		}
		if len(names) == 0 {
			return nil, ErrNoLiveSources
		}
		sort.Strings(names)

		out := make([]pricing.Source, 0, len(names))
		for _, name := range names {
			out = append(out, live.New(name, liveURLs[name], live.WithHTTPClient(o.httpClient)))
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMode, mode)
	}
}
