package cart

import (
	"context"
	"sort"
	"strings"

	"github.com/sliceworks/pizzeria-backend/internal/deals"
	"github.com/sliceworks/pizzeria-backend/internal/pricing"
	"github.com/sliceworks/pizzeria-backend/pkg/db/models"
	"github.com/sliceworks/pizzeria-backend/pkg/enums"
	pkgerrors "github.com/sliceworks/pizzeria-backend/pkg/errors"
	"github.com/sliceworks/pizzeria-backend/pkg/types"
)

type itemSource interface {
	Item(ctx context.Context, id string) (*models.CatalogItem, error)
	ResolveItems(ctx context.Context, ids []string) ([]models.CatalogItem, error)
}

type dealGate interface {
	Evaluate(ctx context.Context, kind enums.DealKind, sel deals.RawSelection) (*deals.Evaluation, error)
}

// Service owns all cart mutation for a session. Every mutation loads
// the snapshot, applies the change and saves the result, so the cart
// survives reloads for the lifetime of the session key.
type Service interface {
	Get(ctx context.Context, sessionID string) (*Cart, error)

	// AddCatalogItem quotes and inserts a priced menu item. Repeat adds
	// of the same item merge into the existing line.
	AddCatalogItem(ctx context.Context, sessionID, itemID string) (*Cart, error)

	// AddCustomPizza prices an ingredient selection and inserts it as a
	// single line keyed by the selection's ingredient set.
	AddCustomPizza(ctx context.Context, sessionID string, ingredientIDs []string) (*Cart, error)

	// AddDeal runs the eligibility gate before anything touches the
	// cart. Ineligible selections leave the cart unchanged.
	AddDeal(ctx context.Context, sessionID string, kind enums.DealKind, sel deals.RawSelection) (*Cart, error)

	DecrementLine(ctx context.Context, sessionID, lineID string) (*Cart, error)
	RemoveLine(ctx context.Context, sessionID, lineID string) (*Cart, error)
	Clear(ctx context.Context, sessionID string) error

	SetFulfillment(ctx context.Context, sessionID string, method enums.FulfillmentMethod, contact types.ContactDetails) (*Cart, error)
}

type service struct {
	store   Store
	catalog itemSource
	deals   dealGate
	rates   pricing.Rates
}

// NewService wires the cart service.
func NewService(store Store, catalog itemSource, gate dealGate, rates pricing.Rates) (Service, error) {
	if store == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "cart store required")
	}
	if catalog == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "catalog source required")
	}
	if gate == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "deal gate required")
	}
	return &service{store: store, catalog: catalog, deals: gate, rates: rates}, nil
}

func (s *service) Get(ctx context.Context, sessionID string) (*Cart, error) {
	if err := requireSession(sessionID); err != nil {
		return nil, err
	}
	return s.store.Load(ctx, sessionID)
}

func (s *service) AddCatalogItem(ctx context.Context, sessionID, itemID string) (*Cart, error) {
	if err := requireSession(sessionID); err != nil {
		return nil, err
	}

	item, err := s.catalog.Item(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if !item.Active {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item is not available")
	}

	quote := pricing.CatalogItemQuote(s.rates, item.BasePrice)
	line := Line{
		ID:        item.ID,
		Name:      item.Name,
		UnitBase:  quote.Base,
		UnitTax:   quote.Tax,
		UnitTotal: quote.Total,
		Quantity:  1,
	}
	if item.ImageURL != nil {
		line.ImageURL = *item.ImageURL
	}
	return s.mutate(ctx, sessionID, func(c *Cart) error {
		c.AddLine(line)
		return nil
	})
}

func (s *service) AddCustomPizza(ctx context.Context, sessionID string, ingredientIDs []string) (*Cart, error) {
	if err := requireSession(sessionID); err != nil {
		return nil, err
	}
	if len(ingredientIDs) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "a custom pizza needs at least one ingredient")
	}

	// Unknown ids resolve to nothing and price at zero; the selection is
	// deliberately lenient so a stale menu never blocks an order.
	ingredients, err := s.catalog.ResolveItems(ctx, ingredientIDs)
	if err != nil {
		return nil, err
	}
	quote := pricing.CustomPizzaQuote(s.rates, ingredients)

	line := Line{
		ID:                  customPizzaLineID(ingredientIDs),
		Name:                "Custom Pizza",
		UnitBase:            quote.Base,
		UnitTax:             quote.Tax,
		UnitTotal:           quote.Total,
		Quantity:            1,
		SelectedIngredients: ingredientNames(ingredients),
	}
	return s.mutate(ctx, sessionID, func(c *Cart) error {
		c.AddLine(line)
		return nil
	})
}

func (s *service) AddDeal(ctx context.Context, sessionID string, kind enums.DealKind, sel deals.RawSelection) (*Cart, error) {
	if err := requireSession(sessionID); err != nil {
		return nil, err
	}

	eval, err := s.deals.Evaluate(ctx, kind, sel)
	if err != nil {
		return nil, err
	}

	line := Line{
		ID:              eval.Offer.ID,
		Name:            eval.Offer.Title,
		UnitBase:        eval.Quote.Base,
		UnitTax:         eval.Quote.Tax,
		UnitTotal:       eval.Quote.Total,
		Quantity:        1,
		SelectedOptions: dealOptionNames(eval.Selection),
	}
	if eval.Offer.ImageURL != nil {
		line.ImageURL = *eval.Offer.ImageURL
	}
	return s.mutate(ctx, sessionID, func(c *Cart) error {
		c.AddLine(line)
		return nil
	})
}

func (s *service) DecrementLine(ctx context.Context, sessionID, lineID string) (*Cart, error) {
	if err := requireSession(sessionID); err != nil {
		return nil, err
	}
	return s.mutate(ctx, sessionID, func(c *Cart) error {
		c.Decrement(lineID)
		return nil
	})
}

func (s *service) RemoveLine(ctx context.Context, sessionID, lineID string) (*Cart, error) {
	if err := requireSession(sessionID); err != nil {
		return nil, err
	}
	return s.mutate(ctx, sessionID, func(c *Cart) error {
		c.RemoveLine(lineID)
		return nil
	})
}

func (s *service) Clear(ctx context.Context, sessionID string) error {
	if err := requireSession(sessionID); err != nil {
		return err
	}
	return s.store.Delete(ctx, sessionID)
}

func (s *service) SetFulfillment(ctx context.Context, sessionID string, method enums.FulfillmentMethod, contact types.ContactDetails) (*Cart, error) {
	if err := requireSession(sessionID); err != nil {
		return nil, err
	}
	if !method.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown fulfillment method")
	}
	if method == enums.FulfillmentDelivery && !contact.HasAddress() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "delivery orders need a full address")
	}
	return s.mutate(ctx, sessionID, func(c *Cart) error {
		c.Fulfillment = method
		c.Contact = contact
		return nil
	})
}

func (s *service) mutate(ctx context.Context, sessionID string, apply func(*Cart) error) (*Cart, error) {
	cart, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := apply(cart); err != nil {
		return nil, err
	}
	if err := s.store.Save(ctx, sessionID, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

func requireSession(sessionID string) error {
	if strings.TrimSpace(sessionID) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "session id required")
	}
	return nil
}

// customPizzaLineID derives a stable line key from the ingredient set,
// so the same build merges and a different build gets its own line.
func customPizzaLineID(ingredientIDs []string) string {
	ids := append([]string(nil), ingredientIDs...)
	sort.Strings(ids)
	return "custom-pizza:" + strings.Join(ids, "+")
}

func ingredientNames(items []models.CatalogItem) []string {
	names := make([]string, 0, len(items))
	for _, item := range items {
		names = append(names, item.Name)
	}
	return names
}

func dealOptionNames(sel deals.ResolvedSelection) []string {
	var names []string
	for _, item := range sel.Pizzas {
		names = append(names, item.Name)
	}
	for _, item := range sel.Sides {
		names = append(names, item.Name)
	}
	for _, item := range sel.Drinks {
		names = append(names, item.Name)
	}
	if sel.School != "" {
		names = append(names, sel.School)
	}
	return names
}
