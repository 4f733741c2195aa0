// Package resolver turns a noisy card identification into a canonical card
// record, degrading to a synthetic record when the catalog cannot help.
package resolver

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/okian/tcgprice/internal/domain/model"
	"github.com/okian/tcgprice/pkg/logger"
	"github.com/okian/tcgprice/pkg/metrics"
)

// Defaults for the degrade record and catalog access.
const (
	defaultPageSize  = 10
	defaultTimeout   = 30 * time.Second
	syntheticSetLen  = 4
	unknownSetPrefix = "unknown"
	unknownNumber    = "001"
	unknownSetName   = "Unknown Set"
	syntheticRarity  = "Common"
	numberSeparator  = "/"
)

// Catalog is the canonical card source the resolver reads from. Search results
// keep the catalog's own ranking order.
type Catalog interface {
	SearchByName(ctx context.Context, name string, pageSize int) ([]model.CanonicalCard, error)
	GetByID(ctx context.Context, id string) (model.CanonicalCard, error)
}

// Outcome tells how a resolution was reached.
type Outcome string

// Resolution outcomes.
const (
	OutcomeMatched            Outcome = "matched"
	OutcomeFirstCandidate     Outcome = "first_candidate"
	OutcomeNoCandidates       Outcome = "no_candidates"
	OutcomeCatalogUnavailable Outcome = "catalog_unavailable"
)

// Degraded reports whether the card is a synthetic record.
func (o Outcome) Degraded() bool {
	return o == OutcomeNoCandidates || o == OutcomeCatalogUnavailable
}

// Resolution is the result of Resolve. Card is always usable; Err carries the
// catalog failure behind OutcomeCatalogUnavailable and is informational only.
type Resolution struct {
	Card    model.CanonicalCard
	Outcome Outcome
	Err     error
}

// Resolver resolves identifications against a Catalog.
type Resolver struct {
	catalog  Catalog
	pageSize int
	timeout  time.Duration
	logger   logger.Logger
}

// New constructs a Resolver. A nil catalog makes every resolution degrade.
func New(catalog Catalog, opts ...Option) *Resolver {
	r := &Resolver{
		catalog:  catalog,
		pageSize: defaultPageSize,
		timeout:  defaultTimeout,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = logger.Named("resolver")
	}
	return r
}

// Resolve maps a free-text name, optional set name and optional "25/102"
// number onto a canonical card. It never fails: an unreachable catalog or an
// empty result yields a synthetic record.
func (r *Resolver) Resolve(ctx context.Context, name, setName, number string) Resolution {
	name = strings.TrimSpace(name)
	setName = strings.TrimSpace(setName)
	token := NormalizeNumber(number)

	res := r.lookup(ctx, name, setName, token)
	metrics.RecordResolution(string(res.Outcome))

	if res.Outcome.Degraded() {
		fields := []logger.Field{
			logger.String("name", name),
			logger.String("set", setName),
			logger.String("number", token),
			logger.String("outcome", string(res.Outcome)),
			logger.String("card_id", res.Card.ID),
		}
		if res.Err != nil {
			fields = append(fields, logger.Error(res.Err))
		}
		r.logger.Warn(ctx, "card resolution degraded to synthetic record", fields...)
		return res
	}

	r.logger.Debug(ctx, "card resolved",
		logger.String("card_id", res.Card.ID),
		logger.String("outcome", string(res.Outcome)),
	)
	return res
}

func (r *Resolver) lookup(ctx context.Context, name, setName, token string) Resolution {
	if r.catalog == nil {
		return Resolution{
			Card:    Synthesize(name, setName, token),
			Outcome: OutcomeCatalogUnavailable,
			Err:     ErrNoCatalog,
		}
	}
	if name == "" {
		return Resolution{Card: Synthesize(name, setName, token), Outcome: OutcomeNoCandidates}
	}

	callCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	// Name only: combined filters on an OCR-derived name often return nothing.
	candidates, err := r.catalog.SearchByName(callCtx, name, r.pageSize)
	if err != nil {
		return Resolution{
			Card:    Synthesize(name, setName, token),
			Outcome: OutcomeCatalogUnavailable,
			Err:     err,
		}
	}
	if len(candidates) == 0 {
		return Resolution{Card: Synthesize(name, setName, token), Outcome: OutcomeNoCandidates}
	}

	if i := Match(candidates, setName, token); i >= 0 {
		return Resolution{Card: candidates[i], Outcome: OutcomeMatched}
	}
	return Resolution{Card: candidates[0], Outcome: OutcomeFirstCandidate}
}

// ResolveByID fetches one catalog record by id. Unlike Resolve it reports a
// missing record as model.ErrCardNotFound because the caller named it.
func (r *Resolver) ResolveByID(ctx context.Context, id string) (model.CanonicalCard, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return model.CanonicalCard{}, fmt.Errorf("resolve by id: %w", model.ErrCardNotFound)
	}
	if r.catalog == nil {
		return model.CanonicalCard{}, fmt.Errorf("resolve by id %q: %w", id, ErrNoCatalog)
	}

	callCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	card, err := r.catalog.GetByID(callCtx, id)
	if err != nil {
		return model.CanonicalCard{}, fmt.Errorf("resolve by id %q: %w", id, err)
	}
	return card, nil
}

// Search lists up to limit catalog candidates for name without picking one.
// Unlike Resolve it reports catalog failures.
func (r *Resolver) Search(ctx context.Context, name string, limit int) ([]model.CanonicalCard, error) {
	name = strings.TrimSpace(name)
	if r.catalog == nil {
		return nil, fmt.Errorf("search %q: %w", name, ErrNoCatalog)
	}
	if limit <= 0 {
		limit = r.pageSize
	}

	callCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	cards, err := r.catalog.SearchByName(callCtx, name, limit)
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", name, err)
	}
	if len(cards) > limit {
		cards = cards[:limit]
	}
	return cards, nil
}

// Match returns the index of the first candidate whose set name contains
// setName (case-insensitive) and whose bare number contains token. Empty
// inputs skip their check. It returns -1 when nothing qualifies.
func Match(candidates []model.CanonicalCard, setName, token string) int {
	wantSet := strings.ToLower(strings.TrimSpace(setName))
	for i, c := range candidates {
		if wantSet != "" && !strings.Contains(strings.ToLower(c.SetName), wantSet) {
			continue
		}
		if token != "" && !strings.Contains(NormalizeNumber(c.Number), token) {
			continue
		}
		return i
	}
	return -1
}

// NormalizeNumber reduces "25/102" to "25". Whitespace is trimmed.
func NormalizeNumber(number string) string {
	bare, _, _ := strings.Cut(number, numberSeparator)
	return strings.TrimSpace(bare)
}

// Synthesize builds the degrade record for an identification. Its id is the
// first four letters of the set name plus the card number, so the same input
// always yields the same id.
func Synthesize(name, setName, token string) model.CanonicalCard {
	if setName == "" {
		setName = unknownSetName
	}
	number := token
	if number == "" {
		number = unknownNumber
	}
	return model.CanonicalCard{
		ID:        SyntheticID(setName, token),
		Name:      name,
		SetName:   setName,
		Number:    number,
		Rarity:    syntheticRarity,
		Synthetic: true,
	}
}

// SyntheticID derives the stable id used by degrade records.
func SyntheticID(setName, token string) string {
	prefix := setPrefix(setName)
	if prefix == "" || setName == unknownSetName {
		prefix = unknownSetPrefix
	}
	if token == "" {
		token = unknownNumber
	}
	return prefix + token
}

func setPrefix(setName string) string {
	var b strings.Builder
	n := 0
	for _, r := range strings.ToLower(setName) {
		if unicode.IsSpace(r) {
			continue
		}
		b.WriteRune(r)
		n++
		if n == syntheticSetLen {
			break
		}
	}
	return b.String()
}
