// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/okian/tcgprice/internal/domain/model"
	"github.com/okian/tcgprice/pkg/logger"
)

const (
	cardPathPrefix = "/api/card/"
	pricesSuffix   = "/prices"
)

// PricesDependencies defines the interface for by-id price lookups.
type PricesDependencies interface {
	PricesByID(ctx context.Context, id string) (model.PriceReport, error)
}

// PricesHandler handles card price requests.
type PricesHandler struct {
	deps   PricesDependencies
	logger logger.Logger
}

// NewPricesHandler creates a new prices handler.
func NewPricesHandler(deps PricesDependencies, l logger.Logger) *PricesHandler {
	return &PricesHandler{deps: deps, logger: l}
}

// HandleGetPrices handles GET /api/card/{card_id}/prices requests.
func (h *PricesHandler) HandleGetPrices(w http.ResponseWriter, r *http.Request) {
	const op = "api.card_prices"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	// Extract path parameter between /api/card/ and /prices
	rest := strings.TrimPrefix(r.URL.Path, cardPathPrefix)
	id, ok := strings.CutSuffix(rest, pricesSuffix)
	if !ok {
		writeError(w, http.StatusNotFound, "not_found", nil)
		return
	}
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	report, err := h.deps.PricesByID(r.Context(), id)
	if err != nil {
		status, code := classify(err)
		if status >= http.StatusInternalServerError {
			h.logger.Error(r.Context(), "request failed", logger.String("op", op), logger.Error(err))
		}
		writeError(w, status, code, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, report)
}
