package models

import (
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/sliceworks/pizzeria-backend/pkg/enums"
)

// DealOffer is a promotional bundle. The eligibility predicate and price
// formula live in code, keyed by Kind; the row carries the list price,
// availability flags and an optional time window.
type DealOffer struct {
	ID        string          `gorm:"column:id;primaryKey"`
	Kind      enums.DealKind  `gorm:"column:kind;not null;uniqueIndex"`
	Title     string          `gorm:"column:title;not null"`
	BasePrice decimal.Decimal `gorm:"column:base_price;type:numeric(10,2);not null"`

	Active   bool `gorm:"column:active;not null;default:true"`
	Featured bool `gorm:"column:featured;not null;default:false"`

	// Optional availability window. Weekdays holds time.Weekday values
	// (0 = Sunday); nil means every day. HourStart/HourEnd bound a
	// half-open [start, end) range; HourEnd below HourStart wraps past
	// midnight.
	Weekdays  pq.Int64Array `gorm:"column:weekdays;type:integer[]"`
	HourStart *int          `gorm:"column:hour_start"`
	HourEnd   *int          `gorm:"column:hour_end"`

	ImageURL *string `gorm:"column:image_url"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName overrides GORM's pluralization.
func (DealOffer) TableName() string { return "deal_offers" }

// AvailableAt reports whether the offer's time window admits the given
// instant. Offers without a window are always available.
func (d DealOffer) AvailableAt(at time.Time) bool {
	if len(d.Weekdays) > 0 {
		match := false
		for _, day := range d.Weekdays {
			if time.Weekday(day) == at.Weekday() {
				match = true
				break
			}
		}
		if !match {
			return false
		}
	}

	if d.HourStart == nil || d.HourEnd == nil {
		return true
	}
	hour := at.Hour()
	start, end := *d.HourStart, *d.HourEnd
	if start <= end {
		return hour >= start && hour < end
	}
	// Window wraps midnight.
	return hour >= start || hour < end
}
