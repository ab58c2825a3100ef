package deals

import (
	"context"
	"time"

	"github.com/sliceworks/pizzeria-backend/internal/pricing"
	"github.com/sliceworks/pizzeria-backend/pkg/db/models"
	"github.com/sliceworks/pizzeria-backend/pkg/enums"
	pkgerrors "github.com/sliceworks/pizzeria-backend/pkg/errors"
)

type catalogSource interface {
	ResolveItems(ctx context.Context, ids []string) ([]models.CatalogItem, error)
	DealByKind(ctx context.Context, kind enums.DealKind) (*models.DealOffer, error)
}

// RawSelection is the not-yet-validated deal candidate as submitted by
// the storefront.
type RawSelection struct {
	PizzaIDs []string `json:"pizza_ids"`
	SideIDs  []string `json:"side_ids"`
	DrinkIDs []string `json:"drink_ids"`
	School   string   `json:"school,omitempty"`
}

// Evaluation is a committed-ready deal: the offer row, the resolved
// selection and the final quote.
type Evaluation struct {
	Offer     models.DealOffer
	Selection ResolvedSelection
	Quote     pricing.Quote
}

// Service gates deal selections before they may reach the cart.
type Service interface {
	// Evaluate re-checks eligibility against the live clock and prices
	// the deal. Ineligible selections come back as validation errors;
	// they never partially commit.
	Evaluate(ctx context.Context, kind enums.DealKind, sel RawSelection) (*Evaluation, error)
}

type service struct {
	catalog catalogSource
	rates   pricing.Rates
	now     func() time.Time
}

// NewService wires the deal engine. The clock is injected so
// time-windowed deals stay testable.
func NewService(catalog catalogSource, rates pricing.Rates, now func() time.Time) (Service, error) {
	if catalog == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "catalog source required")
	}
	if now == nil {
		now = time.Now
	}
	return &service{catalog: catalog, rates: rates, now: now}, nil
}

func (s *service) Evaluate(ctx context.Context, kind enums.DealKind, sel RawSelection) (*Evaluation, error) {
	if !kind.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown deal")
	}

	offer, err := s.catalog.DealByKind(ctx, kind)
	if err != nil {
		return nil, err
	}

	at := s.now()
	if !offer.Active || !offer.AvailableAt(at) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "deal is not currently available")
	}

	resolved, err := s.resolve(ctx, sel)
	if err != nil {
		return nil, err
	}

	if !Eligible(kind, resolved, at) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "selection does not satisfy the deal requirements")
	}

	quote := pricing.CatalogItemQuote(s.rates, BasePrice(kind, *offer, resolved))
	return &Evaluation{
		Offer:     *offer,
		Selection: resolved,
		Quote:     quote,
	}, nil
}

// resolve maps each id list to catalog rows of the expected category.
// Ids that resolve to a different category are dropped, which makes the
// structural count checks fail closed rather than accept a mislabeled
// item.
func (s *service) resolve(ctx context.Context, sel RawSelection) (ResolvedSelection, error) {
	pizzas, err := s.resolveCategory(ctx, sel.PizzaIDs, enums.CategoryPizza)
	if err != nil {
		return ResolvedSelection{}, err
	}
	sides, err := s.resolveCategory(ctx, sel.SideIDs, enums.CategorySide)
	if err != nil {
		return ResolvedSelection{}, err
	}
	drinks, err := s.resolveCategory(ctx, sel.DrinkIDs, enums.CategoryDrink)
	if err != nil {
		return ResolvedSelection{}, err
	}
	return ResolvedSelection{
		Pizzas: pizzas,
		Sides:  sides,
		Drinks: drinks,
		School: sel.School,
	}, nil
}

func (s *service) resolveCategory(ctx context.Context, ids []string, category enums.ItemCategory) ([]models.CatalogItem, error) {
	items, err := s.catalog.ResolveItems(ctx, ids)
	if err != nil {
		return nil, err
	}
	matched := make([]models.CatalogItem, 0, len(items))
	for _, item := range items {
		if item.Category == category && item.Active {
			matched = append(matched, item)
		}
	}
	return matched, nil
}
