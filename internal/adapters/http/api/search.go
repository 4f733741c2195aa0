// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/okian/tcgprice/internal/domain/model"
	"github.com/okian/tcgprice/pkg/logger"
)

const (
	defaultSearchLimit    = 10
	defaultMaxSearchLimit = 50
)

// SearchDependencies defines the interface for catalog searches.
type SearchDependencies interface {
	SearchCards(ctx context.Context, name string, limit int) ([]model.CanonicalCard, error)
}

// SearchHandler handles card search requests.
type SearchHandler struct {
	deps     SearchDependencies
	maxLimit int
	logger   logger.Logger
}

// NewSearchHandler creates a new search handler.
func NewSearchHandler(deps SearchDependencies, maxLimit int, l logger.Logger) *SearchHandler {
	return &SearchHandler{deps: deps, maxLimit: maxLimit, logger: l}
}

// HandleSearch handles GET /api/cards/search?q=X&limit=N requests.
func (h *SearchHandler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	const op = "api.search_cards"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	name := strings.TrimSpace(r.URL.Query().Get("q"))
	if name == "" {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	n := defaultSearchLimit
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed < 1 {
			writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
			return
		}
		n = parsed
	}
	if n > h.maxLimit {
		writeError(w, http.StatusBadRequest, "limit_exceeded", NewKind(op, ErrBadRequest))
		return
	}
	cards, err := h.deps.SearchCards(r.Context(), name, n)
	if err != nil {
		h.logger.Error(r.Context(), "request failed", logger.String("op", op), logger.Error(err))
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	if cards == nil {
		cards = []model.CanonicalCard{}
	}
	writeJSON(w, http.StatusOK, cards)
}
