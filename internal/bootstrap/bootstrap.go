// Package bootstrap assembles the card pipeline from configuration. Both the
// HTTP server and the CLI build their service here.
package bootstrap

import (
	"context"
	"fmt"
	"net/http"

	"github.com/okian/tcgprice/internal/adapters/catalog"
	"github.com/okian/tcgprice/internal/adapters/sources"
	"github.com/okian/tcgprice/internal/adapters/vision"
	service "github.com/okian/tcgprice/internal/app"
	"github.com/okian/tcgprice/internal/config"
	"github.com/okian/tcgprice/internal/domain/pricing"
	"github.com/okian/tcgprice/internal/domain/resolver"
	"github.com/okian/tcgprice/pkg/logger"
)

// Option customizes the assembly.
type Option func(*options)

type options struct {
	httpClient *http.Client
	extra      []pricing.Source
}

// WithHTTPClient sets the client used by every outbound adapter.
func WithHTTPClient(client *http.Client) Option {
	return func(o *options) { o.httpClient = client }
}

// WithExtraSources appends sources after the configured ones.
func WithExtraSources(src ...pricing.Source) Option {
	return func(o *options) { o.extra = append(o.extra, src...) }
}

// Build wires the catalog, recognizer, price sources, resolver and
// aggregator into a Service. The returned service is not started.
func Build(cfg *config.Config, l logger.Logger, opts ...Option) (*service.Service, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	cat := catalog.NewClient(cfg.CatalogBaseURL,
		catalog.WithAPIKey(cfg.CatalogAPIKey),
		catalog.WithTimeout(cfg.CatalogTimeout()),
		catalog.WithHTTPClient(o.httpClient),
		catalog.WithLogger(l.Named("catalog")),
	)

	srcs, err := sources.Build(cfg.SourceMode, cfg.LiveSourceURLs, sources.WithHTTPClient(o.httpClient))
	if err != nil {
		return nil, fmt.Errorf("build sources: %w", err)
	}
	srcs = append(srcs, o.extra...)

	res := resolver.New(cat,
		resolver.WithPageSize(cfg.CatalogPageSize),
		resolver.WithTimeout(cfg.CatalogTimeout()),
		resolver.WithLogger(l.Named("resolver")),
	)
	agg := pricing.New(
		pricing.WithSources(srcs...),
		pricing.WithSourceTimeout(cfg.SourceTimeout()),
		pricing.WithLogger(l.Named("pricing")),
	)

	svcOpts := []service.Option{
		service.WithLogger(l),
		service.WithResolver(res),
		service.WithAggregator(agg),
	}

	vc := vision.NewClient(vision.Config{
		APIKey:  cfg.VisionAPIKey,
		BaseURL: cfg.VisionBaseURL,
		Model:   cfg.VisionModel,
		Timeout: cfg.VisionTimeout(),
	}, vision.WithHTTPClient(o.httpClient), vision.WithLogger(l.Named("vision")))
	if vc.Configured() {
		svcOpts = append(svcOpts, service.WithRecognizer(vc))
	}

	return service.New(svcOpts...), nil
}

// Start builds and starts the service.
func Start(ctx context.Context, cfg *config.Config, l logger.Logger, opts ...Option) (*service.Service, error) {
	svc, err := Build(cfg, l, opts...)
	if err != nil {
		return nil, err
	}
	if err := svc.Start(ctx); err != nil {
		return nil, fmt.Errorf("start service: %w", err)
	}
	return svc, nil
}
