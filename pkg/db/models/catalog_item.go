package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/sliceworks/pizzeria-backend/pkg/enums"
)

// CatalogItem is one purchasable unit: a pizza, an ingredient for the
// custom builder, a drink size variant or a side. Rows are read-only from
// the engine's perspective; only the admin surface mutates them.
type CatalogItem struct {
	ID        string             `gorm:"column:id;primaryKey"`
	Name      string             `gorm:"column:name;not null"`
	BasePrice decimal.Decimal    `gorm:"column:base_price;type:numeric(10,2);not null"`
	Category  enums.ItemCategory `gorm:"column:category;not null;index"`
	DrinkSize enums.DrinkSize    `gorm:"column:drink_size"`

	// IsDefault marks the designated default crust/sauce/cheese of the
	// custom builder. The default sauce and cheese are price-exempt.
	IsDefault bool `gorm:"column:is_default;not null;default:false"`

	Active   bool    `gorm:"column:active;not null;default:true"`
	Popular  bool    `gorm:"column:popular;not null;default:false"`
	ImageURL *string `gorm:"column:image_url"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName overrides GORM's pluralization.
func (CatalogItem) TableName() string { return "catalog_items" }

// PriceExempt reports whether the item's base price is excluded from
// custom pizza sums even when selected.
func (c CatalogItem) PriceExempt() bool {
	return c.IsDefault && (c.Category == enums.CategorySauce || c.Category == enums.CategoryCheese)
}
