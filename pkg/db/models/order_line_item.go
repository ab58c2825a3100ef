package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// OrderLineItem snapshots one cart line at checkout time. Prices are the
// per-unit values frozen when the line entered the cart.
type OrderLineItem struct {
	ID      uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID uuid.UUID `gorm:"column:order_id;type:uuid;not null;index"`

	ItemID    string          `gorm:"column:item_id;not null"`
	Name      string          `gorm:"column:name;not null"`
	UnitBase  decimal.Decimal `gorm:"column:unit_base;type:numeric(10,2);not null"`
	UnitTax   decimal.Decimal `gorm:"column:unit_tax;type:numeric(10,2);not null"`
	UnitTotal decimal.Decimal `gorm:"column:unit_total;type:numeric(10,2);not null"`
	Quantity  int             `gorm:"column:quantity;not null"`

	// Receipt traceability: ingredient ids for custom pizzas, selected
	// option ids for deals.
	SelectedIngredients pq.StringArray `gorm:"column:selected_ingredients;type:text[]"`
	SelectedOptions     pq.StringArray `gorm:"column:selected_options;type:text[]"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

// TableName overrides GORM's pluralization.
func (OrderLineItem) TableName() string { return "order_line_items" }
