package resolver_test

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/okian/tcgprice/internal/domain/model"
	"github.com/okian/tcgprice/internal/domain/resolver"
	"github.com/okian/tcgprice/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

type fakeCatalog struct {
	cards    []model.CanonicalCard
	err      error
	byID     map[string]model.CanonicalCard
	queries  []string
	pageSize int
	deadline bool
}

func (f *fakeCatalog) SearchByName(ctx context.Context, name string, pageSize int) ([]model.CanonicalCard, error) {
	f.queries = append(f.queries, name)
	f.pageSize = pageSize
	_, f.deadline = ctx.Deadline()
	if f.err != nil {
		return nil, f.err
	}
	return f.cards, nil
}

func (f *fakeCatalog) GetByID(_ context.Context, id string) (model.CanonicalCard, error) {
	if f.err != nil {
		return model.CanonicalCard{}, f.err
	}
	card, ok := f.byID[id]
	if !ok {
		return model.CanonicalCard{}, model.ErrCardNotFound
	}
	return card, nil
}

func charizards() []model.CanonicalCard {
	return []model.CanonicalCard{
		{ID: "base1-4", Name: "Charizard", SetName: "Base", Number: "4"},
		{ID: "base4-4", Name: "Charizard", SetName: "Base Set 2", Number: "4"},
		{ID: "sv3pt5-6", Name: "Charizard ex", SetName: "151", Number: "6"},
	}
}

func TestResolve(t *testing.T) {
	if err := logger.InitWithWriter(io.Discard); err != nil {
		t.Fatalf("init logger: %v", err)
	}
	ctx := context.Background()

	convey.Convey("Given a resolver over a catalog with candidates", t, func() {
		catalog := &fakeCatalog{cards: charizards()}
		r := resolver.New(catalog, resolver.WithPageSize(5), resolver.WithTimeout(time.Second))

		convey.Convey("When set and number both match a later candidate", func() {
			res := r.Resolve(ctx, "Charizard", "base set 2", "4/130")

			convey.Convey("Then that candidate wins", func() {
				convey.So(res.Outcome, convey.ShouldEqual, resolver.OutcomeMatched)
				convey.So(res.Card.ID, convey.ShouldEqual, "base4-4")
				convey.So(res.Err, convey.ShouldBeNil)
			})

			convey.Convey("Then the catalog is queried by name only with the page size and a deadline", func() {
				convey.So(catalog.queries, convey.ShouldResemble, []string{"Charizard"})
				convey.So(catalog.pageSize, convey.ShouldEqual, 5)
				convey.So(catalog.deadline, convey.ShouldBeTrue)
			})
		})

		convey.Convey("When the set name is a substring of several sets", func() {
			res := r.Resolve(ctx, "Charizard", "Base", "4")

			convey.Convey("Then the first qualifying candidate in catalog order wins", func() {
				convey.So(res.Outcome, convey.ShouldEqual, resolver.OutcomeMatched)
				convey.So(res.Card.ID, convey.ShouldEqual, "base1-4")
			})
		})

		convey.Convey("When only the name is given", func() {
			res := r.Resolve(ctx, "Charizard", "", "")

			convey.Convey("Then the first candidate matches trivially", func() {
				convey.So(res.Outcome, convey.ShouldEqual, resolver.OutcomeMatched)
				convey.So(res.Card.ID, convey.ShouldEqual, "base1-4")
			})
		})

		convey.Convey("When nothing matches set and number", func() {
			res := r.Resolve(ctx, "Charizard", "Jungle", "99")

			convey.Convey("Then the first candidate is used", func() {
				convey.So(res.Outcome, convey.ShouldEqual, resolver.OutcomeFirstCandidate)
				convey.So(res.Card.ID, convey.ShouldEqual, "base1-4")
				convey.So(res.Card.Synthetic, convey.ShouldBeFalse)
			})
		})
	})

	convey.Convey("Given a catalog with no candidates", t, func() {
		r := resolver.New(&fakeCatalog{})

		convey.Convey("When resolving a misread name", func() {
			res := r.Resolve(ctx, "Charizrd", "Base Set", "4/102")

			convey.Convey("Then a synthetic record is returned", func() {
				convey.So(res.Outcome, convey.ShouldEqual, resolver.OutcomeNoCandidates)
				convey.So(res.Outcome.Degraded(), convey.ShouldBeTrue)
				convey.So(res.Card.ID, convey.ShouldEqual, "base4")
				convey.So(res.Card.Name, convey.ShouldEqual, "Charizrd")
				convey.So(res.Card.SetName, convey.ShouldEqual, "Base Set")
				convey.So(res.Card.Number, convey.ShouldEqual, "4")
				convey.So(res.Card.Rarity, convey.ShouldEqual, "Common")
				convey.So(res.Card.ImageURL, convey.ShouldBeEmpty)
				convey.So(res.Card.Synthetic, convey.ShouldBeTrue)
			})
		})

		convey.Convey("When resolving the same input twice", func() {
			a := r.Resolve(ctx, "Mew", "Wizards Black Star Promos", "8")
			b := r.Resolve(ctx, "Mew", "Wizards Black Star Promos", "8")

			convey.Convey("Then the synthetic id is stable", func() {
				convey.So(a.Card.ID, convey.ShouldEqual, "wiza8")
				convey.So(b.Card.ID, convey.ShouldEqual, a.Card.ID)
			})
		})

		convey.Convey("When the name is blank", func() {
			res := r.Resolve(ctx, "   ", "", "")

			convey.Convey("Then it degrades without a usable set or number", func() {
				convey.So(res.Outcome, convey.ShouldEqual, resolver.OutcomeNoCandidates)
				convey.So(res.Card.ID, convey.ShouldEqual, "unknown001")
				convey.So(res.Card.SetName, convey.ShouldEqual, "Unknown Set")
				convey.So(res.Card.Number, convey.ShouldEqual, "001")
			})
		})
	})

	convey.Convey("Given an unreachable catalog", t, func() {
		failure := errors.New("dial tcp: connection refused")
		r := resolver.New(&fakeCatalog{err: failure})

		convey.Convey("When resolving", func() {
			res := r.Resolve(ctx, "Pikachu", "Jungle", "60/64")

			convey.Convey("Then the failure is absorbed into a synthetic record", func() {
				convey.So(res.Outcome, convey.ShouldEqual, resolver.OutcomeCatalogUnavailable)
				convey.So(errors.Is(res.Err, failure), convey.ShouldBeTrue)
				convey.So(res.Card.ID, convey.ShouldEqual, "jung60")
				convey.So(res.Card.Synthetic, convey.ShouldBeTrue)
			})
		})
	})

	convey.Convey("Given no catalog at all", t, func() {
		r := resolver.New(nil)

		convey.Convey("When resolving", func() {
			res := r.Resolve(ctx, "Pikachu", "", "")

			convey.Convey("Then the resolution is degraded", func() {
				convey.So(res.Outcome, convey.ShouldEqual, resolver.OutcomeCatalogUnavailable)
				convey.So(res.Card.ID, convey.ShouldEqual, "unknown001")
				convey.So(res.Err, convey.ShouldEqual, resolver.ErrNoCatalog)
			})
		})

		convey.Convey("When looking up by id or searching", func() {
			_, idErr := r.ResolveByID(ctx, "base1-4")
			_, searchErr := r.Search(ctx, "Pikachu", 5)

			convey.Convey("Then both report the missing catalog", func() {
				convey.So(errors.Is(idErr, resolver.ErrNoCatalog), convey.ShouldBeTrue)
				convey.So(errors.Is(searchErr, resolver.ErrNoCatalog), convey.ShouldBeTrue)
			})
		})
	})
}

func TestResolveByID(t *testing.T) {
	if err := logger.InitWithWriter(io.Discard); err != nil {
		t.Fatalf("init logger: %v", err)
	}
	ctx := context.Background()

	convey.Convey("Given a catalog with one known id", t, func() {
		card := model.CanonicalCard{ID: "base1-4", Name: "Charizard"}
		r := resolver.New(&fakeCatalog{byID: map[string]model.CanonicalCard{"base1-4": card}})

		convey.Convey("When the id exists", func() {
			got, err := r.ResolveByID(ctx, "base1-4")
			convey.So(err, convey.ShouldBeNil)
			convey.So(got, convey.ShouldResemble, card)
		})

		convey.Convey("When the id is unknown", func() {
			_, err := r.ResolveByID(ctx, "nope-1")

			convey.Convey("Then the error is a not-found kind", func() {
				convey.So(errors.Is(err, model.ErrCardNotFound), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When the id is blank", func() {
			_, err := r.ResolveByID(ctx, " ")
			convey.So(errors.Is(err, model.ErrCardNotFound), convey.ShouldBeTrue)
		})
	})
}

func TestSearch(t *testing.T) {
	if err := logger.InitWithWriter(io.Discard); err != nil {
		t.Fatalf("init logger: %v", err)
	}
	ctx := context.Background()

	convey.Convey("Given a catalog with three candidates", t, func() {
		catalog := &fakeCatalog{cards: charizards()}
		r := resolver.New(catalog, resolver.WithPageSize(7))

		convey.Convey("When searching with a limit", func() {
			cards, err := r.Search(ctx, " Charizard ", 2)

			convey.Convey("Then at most limit cards come back in catalog order", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(len(cards), convey.ShouldEqual, 2)
				convey.So(cards[0].ID, convey.ShouldEqual, "base1-4")
				convey.So(catalog.queries, convey.ShouldResemble, []string{"Charizard"})
				convey.So(catalog.pageSize, convey.ShouldEqual, 2)
			})
		})

		convey.Convey("When searching without a limit", func() {
			_, err := r.Search(ctx, "Charizard", 0)
			convey.So(err, convey.ShouldBeNil)
			convey.So(catalog.pageSize, convey.ShouldEqual, 7)
		})
	})

	convey.Convey("Given a failing catalog", t, func() {
		failure := errors.New("timeout")
		_, err := resolver.New(&fakeCatalog{err: failure}).Search(ctx, "Mew", 5)
		convey.So(errors.Is(err, failure), convey.ShouldBeTrue)
	})
}

func TestNormalizeNumber(t *testing.T) {
	convey.Convey("Given collector numbers in several shapes", t, func() {
		cases := map[string]string{
			"4/102":     "4",
			" 25 / 102": "25",
			"SWSH050":   "SWSH050",
			"":          "",
			"/102":      "",
		}
		for in, want := range cases {
			convey.So(resolver.NormalizeNumber(in), convey.ShouldEqual, want)
		}
	})
}

func TestSyntheticID(t *testing.T) {
	convey.Convey("Given set names with spacing and case", t, func() {
		convey.So(resolver.SyntheticID("Base Set", "58"), convey.ShouldEqual, "base58")
		convey.So(resolver.SyntheticID("  Team  Rocket", "4"), convey.ShouldEqual, "team4")
		convey.So(resolver.SyntheticID("XY", ""), convey.ShouldEqual, "xy001")
		convey.So(resolver.SyntheticID("", "7"), convey.ShouldEqual, "unknown7")
	})
}

func TestMatch(t *testing.T) {
	convey.Convey("Given candidates with slash numbers", t, func() {
		candidates := []model.CanonicalCard{
			{ID: "a", SetName: "Jungle", Number: "60/64"},
			{ID: "b", SetName: "Fossil", Number: "15"},
		}

		convey.Convey("Then the candidate number is normalized before comparison", func() {
			convey.So(resolver.Match(candidates, "jungle", "60"), convey.ShouldEqual, 0)
			convey.So(resolver.Match(candidates, "", "15"), convey.ShouldEqual, 1)
			convey.So(resolver.Match(candidates, "Neo", ""), convey.ShouldEqual, -1)
		})
	})
}
