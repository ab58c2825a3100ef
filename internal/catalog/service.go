package catalog

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/sliceworks/pizzeria-backend/pkg/db/models"
	"github.com/sliceworks/pizzeria-backend/pkg/enums"
	pkgerrors "github.com/sliceworks/pizzeria-backend/pkg/errors"
)

// Service exposes the read-only menu surface plus the admin mutations.
type Service interface {
	Item(ctx context.Context, id string) (*models.CatalogItem, error)
	// ResolveItems maps selection ids onto catalog rows. Unknown ids are
	// dropped, not errors: the pricing engine treats them as
	// zero-contribution.
	ResolveItems(ctx context.Context, ids []string) ([]models.CatalogItem, error)
	Menu(ctx context.Context) (*Menu, error)
	Ingredients(ctx context.Context) (map[enums.ItemCategory][]models.CatalogItem, error)
	ActiveDeals(ctx context.Context, at time.Time) ([]models.DealOffer, error)
	DealByKind(ctx context.Context, kind enums.DealKind) (*models.DealOffer, error)

	UpsertItem(ctx context.Context, item *models.CatalogItem) error
	DeactivateItem(ctx context.Context, id string) error
	UpsertDeal(ctx context.Context, offer *models.DealOffer) error
}

// Menu groups the browse page sections.
type Menu struct {
	PopularPizzas []models.CatalogItem `json:"popular_pizzas"`
	Pizzas        []models.CatalogItem `json:"pizzas"`
	Drinks        []models.CatalogItem `json:"drinks"`
	Sides         []models.CatalogItem `json:"sides"`
}

type service struct {
	repo Repository
}

// NewService builds the catalog service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "catalog repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Item(ctx context.Context, id string) (*models.CatalogItem, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item id is required")
	}
	item, err := s.repo.ItemByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "catalog item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load catalog item")
	}
	return item, nil
}

func (s *service) ResolveItems(ctx context.Context, ids []string) ([]models.CatalogItem, error) {
	trimmed := make([]string, 0, len(ids))
	for _, id := range ids {
		if id = strings.TrimSpace(id); id != "" {
			trimmed = append(trimmed, id)
		}
	}
	if len(trimmed) == 0 {
		return nil, nil
	}

	rows, err := s.repo.ItemsByIDs(ctx, trimmed)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve catalog items")
	}

	byID := make(map[string]models.CatalogItem, len(rows))
	for _, row := range rows {
		byID[row.ID] = row
	}

	// Preserve selection order; unknown ids silently fall out.
	resolved := make([]models.CatalogItem, 0, len(trimmed))
	for _, id := range trimmed {
		if item, ok := byID[id]; ok {
			resolved = append(resolved, item)
		}
	}
	return resolved, nil
}

func (s *service) Menu(ctx context.Context) (*Menu, error) {
	popular, err := s.repo.PopularPizzas(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load popular pizzas")
	}
	pizzas, err := s.repo.ListByCategory(ctx, enums.CategoryPizza)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load pizzas")
	}
	drinks, err := s.repo.ListByCategory(ctx, enums.CategoryDrink)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load drinks")
	}
	sides, err := s.repo.ListByCategory(ctx, enums.CategorySide)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load sides")
	}
	return &Menu{
		PopularPizzas: popular,
		Pizzas:        pizzas,
		Drinks:        drinks,
		Sides:         sides,
	}, nil
}

func (s *service) Ingredients(ctx context.Context) (map[enums.ItemCategory][]models.CatalogItem, error) {
	grouped := map[enums.ItemCategory][]models.CatalogItem{}
	for _, category := range []enums.ItemCategory{
		enums.CategoryCrust,
		enums.CategorySauce,
		enums.CategoryCheese,
		enums.CategoryMeat,
		enums.CategoryVegetable,
	} {
		items, err := s.repo.ListByCategory(ctx, category)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load ingredients")
		}
		grouped[category] = items
	}
	return grouped, nil
}

func (s *service) ActiveDeals(ctx context.Context, at time.Time) ([]models.DealOffer, error) {
	offers, err := s.repo.ActiveDeals(ctx, true)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load deals")
	}
	available := make([]models.DealOffer, 0, len(offers))
	for _, offer := range offers {
		if offer.AvailableAt(at) {
			available = append(available, offer)
		}
	}
	return available, nil
}

func (s *service) DealByKind(ctx context.Context, kind enums.DealKind) (*models.DealOffer, error) {
	if !kind.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown deal kind")
	}
	offer, err := s.repo.DealByKind(ctx, kind)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "deal not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load deal")
	}
	return offer, nil
}

func (s *service) UpsertItem(ctx context.Context, item *models.CatalogItem) error {
	if item == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "item is required")
	}
	if strings.TrimSpace(item.ID) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "item id is required")
	}
	if strings.TrimSpace(item.Name) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "item name is required")
	}
	if item.BasePrice.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "base price must be non-negative")
	}
	if !item.Category.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid item category")
	}
	if item.Category == enums.CategoryDrink && !item.DrinkSize.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "drink items require a size")
	}
	if err := s.repo.UpsertItem(ctx, item); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist catalog item")
	}
	return nil
}

func (s *service) DeactivateItem(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "item id is required")
	}
	affected, err := s.repo.SetItemActive(ctx, id, false)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "deactivate catalog item")
	}
	if affected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "catalog item not found")
	}
	return nil
}

func (s *service) UpsertDeal(ctx context.Context, offer *models.DealOffer) error {
	if offer == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "deal offer is required")
	}
	if strings.TrimSpace(offer.ID) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "deal id is required")
	}
	if !offer.Kind.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "unknown deal kind")
	}
	if offer.BasePrice.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "base price must be non-negative")
	}
	if (offer.HourStart == nil) != (offer.HourEnd == nil) {
		return pkgerrors.New(pkgerrors.CodeValidation, "hour window requires both start and end")
	}
	if err := s.repo.UpsertDeal(ctx, offer); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist deal offer")
	}
	return nil
}
