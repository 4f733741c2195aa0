// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	service "github.com/okian/tcgprice/internal/app"
	"github.com/okian/tcgprice/internal/domain/model"
	"github.com/okian/tcgprice/pkg/logger"
)

// Service identity reported by the status endpoints.
const (
	ServiceName    = "Pokemon Card Price Checker"
	ServiceVersion = "1.0.0"
)

const defaultMaxUploadBytes = 10 << 20

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	IdentifyCard(ctx context.Context, image []byte, mimeType string) (service.CardIdentification, error)
	CheckPrice(ctx context.Context, image []byte, mimeType string) (service.PriceCheck, error)
	PricesByID(ctx context.Context, id string) (model.PriceReport, error)
	SearchCards(ctx context.Context, name string, limit int) ([]model.CanonicalCard, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler *HealthHandler
	statsHandler  *StatsHandler
	cardHandler   *CardHandler
	pricesHandler *PricesHandler
	searchHandler *SearchHandler
}

// Option configures the Server.
type Option func(*serverOptions)

type serverOptions struct {
	maxUploadBytes int64
	maxSearchLimit int
	readiness      ReadinessProvider
	logger         logger.Logger
}

// WithMaxUploadBytes caps the accepted image size.
func WithMaxUploadBytes(n int64) Option {
	return func(o *serverOptions) {
		if n > 0 {
			o.maxUploadBytes = n
		}
	}
}

// WithMaxSearchLimit caps the limit accepted by the search endpoint.
func WithMaxSearchLimit(n int) Option {
	return func(o *serverOptions) {
		if n > 0 {
			o.maxSearchLimit = n
		}
	}
}

// WithReadiness makes /healthz report 503 until the provider is ready.
func WithReadiness(r ReadinessProvider) Option {
	return func(o *serverOptions) {
		o.readiness = r
	}
}

// WithLogger sets a custom logger for handlers.
func WithLogger(l logger.Logger) Option {
	return func(o *serverOptions) {
		if l != nil {
			o.logger = l
		}
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, opts ...Option) *Server {
	o := serverOptions{
		maxUploadBytes: defaultMaxUploadBytes,
		maxSearchLimit: defaultMaxSearchLimit,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = logger.Named("api")
	}
	return &Server{
		healthHandler: NewHealthHandler(o.readiness),
		statsHandler:  NewStatsHandler(statsProvider),
		cardHandler:   NewCardHandler(deps, o.maxUploadBytes, o.logger),
		pricesHandler: NewPricesHandler(deps, o.logger),
		searchHandler: NewSearchHandler(deps, o.maxSearchLimit, o.logger),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	// Specific paths first (most specific to least specific)
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/metrics", s.healthHandler.HandleMetrics)
	mux.HandleFunc("/api/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/api/identify-card", MetricsMiddleware(s.cardHandler.HandleIdentify, "identify_card"))
	mux.HandleFunc("/api/check-price", MetricsMiddleware(s.cardHandler.HandleCheckPrice, "check_price"))
	mux.HandleFunc("/api/cards/search", MetricsMiddleware(s.searchHandler.HandleSearch, "search_cards"))
	mux.HandleFunc("/api/card/", MetricsMiddleware(s.pricesHandler.HandleGetPrices, "card_prices"))
	mux.HandleFunc("/", MetricsMiddleware(s.healthHandler.HandleRoot, "root"))
}

// Handler returns mux wrapped in the request-scoped middleware chain.
func Handler(mux *http.ServeMux) http.Handler {
	return RequestIDMiddleware(mux)
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
