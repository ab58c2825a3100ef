package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sliceworks/pizzeria-backend/pkg/enums"
)

// Order is the pending/paid record persisted at checkout initiation. Its
// id is the correlation key handed to the payment provider.
type Order struct {
	ID        uuid.UUID               `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	SessionID string                  `gorm:"column:session_id;not null;index"`
	Status    enums.OrderStatus       `gorm:"column:status;not null;default:'pending'"`
	Method    enums.FulfillmentMethod `gorm:"column:fulfillment_method;not null"`

	ContactName  string `gorm:"column:contact_name;not null"`
	ContactEmail string `gorm:"column:contact_email;not null"`
	ContactPhone string `gorm:"column:contact_phone;not null"`
	Street       string `gorm:"column:street"`
	City         string `gorm:"column:city"`
	PostalCode   string `gorm:"column:postal_code"`

	Subtotal decimal.Decimal `gorm:"column:subtotal;type:numeric(10,2);not null"`
	Tax      decimal.Decimal `gorm:"column:tax;type:numeric(10,2);not null"`
	Total    decimal.Decimal `gorm:"column:total;type:numeric(10,2);not null"`

	PaymentSessionID *string `gorm:"column:payment_session_id;index"`

	LineItems []OrderLineItem `gorm:"foreignKey:OrderID"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName overrides GORM's pluralization.
func (Order) TableName() string { return "orders" }
