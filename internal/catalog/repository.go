package catalog

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/sliceworks/pizzeria-backend/pkg/db/models"
	"github.com/sliceworks/pizzeria-backend/pkg/enums"
)

// Repository is the read-mostly query surface over catalog rows.
type Repository interface {
	ItemByID(ctx context.Context, id string) (*models.CatalogItem, error)
	ItemsByIDs(ctx context.Context, ids []string) ([]models.CatalogItem, error)
	ListByCategory(ctx context.Context, category enums.ItemCategory) ([]models.CatalogItem, error)
	PopularPizzas(ctx context.Context) ([]models.CatalogItem, error)
	ActiveDeals(ctx context.Context, featuredOnly bool) ([]models.DealOffer, error)
	DealByKind(ctx context.Context, kind enums.DealKind) (*models.DealOffer, error)

	UpsertItem(ctx context.Context, item *models.CatalogItem) error
	SetItemActive(ctx context.Context, id string, active bool) (int64, error)
	UpsertDeal(ctx context.Context, offer *models.DealOffer) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a catalog repository on the shared connection.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) ItemByID(ctx context.Context, id string) (*models.CatalogItem, error) {
	var item models.CatalogItem
	if err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *repository) ItemsByIDs(ctx context.Context, ids []string) ([]models.CatalogItem, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var items []models.CatalogItem
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repository) ListByCategory(ctx context.Context, category enums.ItemCategory) ([]models.CatalogItem, error) {
	var items []models.CatalogItem
	err := r.db.WithContext(ctx).
		Where("category = ? AND active", category).
		Order("name asc").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repository) PopularPizzas(ctx context.Context) ([]models.CatalogItem, error) {
	var items []models.CatalogItem
	err := r.db.WithContext(ctx).
		Where("category = ? AND active AND popular", enums.CategoryPizza).
		Order("name asc").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repository) ActiveDeals(ctx context.Context, featuredOnly bool) ([]models.DealOffer, error) {
	query := r.db.WithContext(ctx).Where("active")
	if featuredOnly {
		query = query.Where("featured")
	}
	var offers []models.DealOffer
	if err := query.Order("title asc").Find(&offers).Error; err != nil {
		return nil, err
	}
	return offers, nil
}

func (r *repository) DealByKind(ctx context.Context, kind enums.DealKind) (*models.DealOffer, error) {
	var offer models.DealOffer
	if err := r.db.WithContext(ctx).First(&offer, "kind = ?", kind).Error; err != nil {
		return nil, err
	}
	return &offer, nil
}

func (r *repository) UpsertItem(ctx context.Context, item *models.CatalogItem) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).
		Create(item).Error
}

func (r *repository) SetItemActive(ctx context.Context, id string, active bool) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.CatalogItem{}).
		Where("id = ?", id).
		Update("active", active)
	return result.RowsAffected, result.Error
}

func (r *repository) UpsertDeal(ctx context.Context, offer *models.DealOffer) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).
		Create(offer).Error
}
