package deals

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sliceworks/pizzeria-backend/internal/pricing"
	"github.com/sliceworks/pizzeria-backend/pkg/db/models"
	"github.com/sliceworks/pizzeria-backend/pkg/enums"
	pkgerrors "github.com/sliceworks/pizzeria-backend/pkg/errors"
)

type stubCatalog struct {
	items  map[string]models.CatalogItem
	offers map[enums.DealKind]models.DealOffer
}

func (s *stubCatalog) ResolveItems(_ context.Context, ids []string) ([]models.CatalogItem, error) {
	var out []models.CatalogItem
	for _, id := range ids {
		if item, ok := s.items[id]; ok {
			out = append(out, item)
		}
	}
	return out, nil
}

func (s *stubCatalog) DealByKind(_ context.Context, kind enums.DealKind) (*models.DealOffer, error) {
	offer, ok := s.offers[kind]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "deal not found")
	}
	return &offer, nil
}

func activeItem(id string, category enums.ItemCategory, price string) models.CatalogItem {
	return models.CatalogItem{
		ID:        id,
		Name:      id,
		BasePrice: decimal.RequireFromString(price),
		Category:  category,
		Active:    true,
	}
}

func fixedClock(hour int) func() time.Time {
	return func() time.Time {
		return time.Date(2026, time.March, 4, hour, 15, 0, 0, time.UTC)
	}
}

func testCatalog() *stubCatalog {
	return &stubCatalog{
		items: map[string]models.CatalogItem{
			"margherita": activeItem("margherita", enums.CategoryPizza, "12.00"),
			"diavola":    activeItem("diavola", enums.CategoryPizza, "15.00"),
			"cola":       activeItem("cola", enums.CategoryDrink, "2.00"),
		},
		offers: map[enums.DealKind]models.DealOffer{
			enums.DealTwoPizzaFreeOne: {Kind: enums.DealTwoPizzaFreeOne, Active: true},
			enums.DealLateNight:       {Kind: enums.DealLateNight, Active: true},
		},
	}
}

func TestEvaluateTwoPizzaFreeOne(t *testing.T) {
	t.Parallel()

	svc, err := NewService(testCatalog(), pricing.Rates{
		TaxRate:     decimal.RequireFromString("0.13"),
		PizzaMarkup: decimal.RequireFromString("1.40"),
	}, fixedClock(12))
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	eval, err := svc.Evaluate(context.Background(), enums.DealTwoPizzaFreeOne, RawSelection{
		PizzaIDs: []string{"margherita", "diavola"},
	})
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}

	// Charged at the higher pizza: base 15.00, tax 1.95, total 16.95.
	if !eval.Quote.Base.Equal(decimal.RequireFromString("15.00")) {
		t.Fatalf("base = %s", eval.Quote.Base)
	}
	if !eval.Quote.Total.Equal(decimal.RequireFromString("16.95")) {
		t.Fatalf("total = %s", eval.Quote.Total)
	}
}

func TestEvaluateRejectsUnknownIDs(t *testing.T) {
	t.Parallel()

	svc, err := NewService(testCatalog(), pricing.Rates{
		TaxRate:     decimal.RequireFromString("0.13"),
		PizzaMarkup: decimal.RequireFromString("1.40"),
	}, fixedClock(12))
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	_, err = svc.Evaluate(context.Background(), enums.DealTwoPizzaFreeOne, RawSelection{
		PizzaIDs: []string{"margherita", "no-such-pizza"},
	})
	if !pkgerrors.HasCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("err = %v, want validation failure", err)
	}
}

func TestEvaluateRejectsWrongCategory(t *testing.T) {
	t.Parallel()

	svc, err := NewService(testCatalog(), pricing.Rates{
		TaxRate:     decimal.RequireFromString("0.13"),
		PizzaMarkup: decimal.RequireFromString("1.40"),
	}, fixedClock(12))
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	// A drink passed off as a pizza is dropped during resolution, so the
	// structural count check fails.
	_, err = svc.Evaluate(context.Background(), enums.DealTwoPizzaFreeOne, RawSelection{
		PizzaIDs: []string{"margherita", "cola"},
	})
	if !pkgerrors.HasCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("err = %v, want validation failure", err)
	}
}

func TestEvaluateLateNightUsesInjectedClock(t *testing.T) {
	t.Parallel()

	sel := RawSelection{PizzaIDs: []string{"margherita"}}
	rates := pricing.Rates{
		TaxRate:     decimal.RequireFromString("0.13"),
		PizzaMarkup: decimal.RequireFromString("1.40"),
	}

	night, err := NewService(testCatalog(), rates, fixedClock(23))
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	eval, err := night.Evaluate(context.Background(), enums.DealLateNight, sel)
	if err != nil {
		t.Fatalf("Evaluate at 23h: %v", err)
	}
	if !eval.Quote.Base.Equal(decimal.RequireFromString("8.40")) {
		t.Fatalf("base = %s, want 70%% of 12.00", eval.Quote.Base)
	}

	day, err := NewService(testCatalog(), rates, fixedClock(10))
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	if _, err := day.Evaluate(context.Background(), enums.DealLateNight, sel); !pkgerrors.HasCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("err = %v, want validation failure outside the window", err)
	}
}

func TestEvaluateRejectsInactiveOffer(t *testing.T) {
	t.Parallel()

	catalog := testCatalog()
	catalog.offers[enums.DealTwoPizzaFreeOne] = models.DealOffer{Kind: enums.DealTwoPizzaFreeOne, Active: false}

	svc, err := NewService(catalog, pricing.Rates{
		TaxRate:     decimal.RequireFromString("0.13"),
		PizzaMarkup: decimal.RequireFromString("1.40"),
	}, fixedClock(12))
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	_, err = svc.Evaluate(context.Background(), enums.DealTwoPizzaFreeOne, RawSelection{
		PizzaIDs: []string{"margherita", "diavola"},
	})
	if !pkgerrors.HasCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("err = %v, want validation failure", err)
	}
}

func TestEvaluateRejectsUnknownKind(t *testing.T) {
	t.Parallel()

	svc, err := NewService(testCatalog(), pricing.Rates{
		TaxRate:     decimal.RequireFromString("0.13"),
		PizzaMarkup: decimal.RequireFromString("1.40"),
	}, fixedClock(12))
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	_, err = svc.Evaluate(context.Background(), enums.DealKind("mystery"), RawSelection{})
	if !pkgerrors.HasCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("err = %v, want validation failure", err)
	}
}
