package cart

import (
	"github.com/shopspring/decimal"

	"github.com/sliceworks/pizzeria-backend/pkg/enums"
	"github.com/sliceworks/pizzeria-backend/pkg/types"
)

// Line is one cart row for a distinct purchasable id. Unit prices are
// computed once, when the line is first inserted, and never recomputed
// on merge so a session always pays the price it saw.
type Line struct {
	ID                  string          `json:"id"`
	Name                string          `json:"name"`
	UnitBase            decimal.Decimal `json:"unit_base"`
	UnitTax             decimal.Decimal `json:"unit_tax"`
	UnitTotal           decimal.Decimal `json:"unit_total"`
	Quantity            int             `json:"quantity"`
	ImageURL            string          `json:"image_url,omitempty"`
	SelectedIngredients []string        `json:"selected_ingredients,omitempty"`
	SelectedOptions     []string        `json:"selected_options,omitempty"`
}

// Cart is the per-session ledger of lines. Lines keep insertion order
// and are unique by id. Item count and money totals are always derived
// from the lines, never stored, so they cannot drift.
type Cart struct {
	Lines       []Line                  `json:"lines"`
	Fulfillment enums.FulfillmentMethod `json:"fulfillment,omitempty"`
	Contact     types.ContactDetails    `json:"contact"`
}

// New returns an empty cart.
func New() *Cart {
	return &Cart{}
}

// AddLine merges the line into the cart. An existing line with the same
// id absorbs the quantity and keeps its original unit prices; otherwise
// the line is appended as-is.
func (c *Cart) AddLine(line Line) {
	if line.Quantity <= 0 {
		line.Quantity = 1
	}
	for i := range c.Lines {
		if c.Lines[i].ID == line.ID {
			c.Lines[i].Quantity += line.Quantity
			return
		}
	}
	c.Lines = append(c.Lines, line)
}

// Decrement lowers the line's quantity by one and deletes the line when
// it reaches zero. An absent id is a no-op; quantity never goes negative.
func (c *Cart) Decrement(id string) {
	for i := range c.Lines {
		if c.Lines[i].ID != id {
			continue
		}
		c.Lines[i].Quantity--
		if c.Lines[i].Quantity <= 0 {
			c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
		}
		return
	}
}

// RemoveLine deletes the line entirely regardless of quantity. An
// absent id is a no-op.
func (c *Cart) RemoveLine(id string) {
	for i := range c.Lines {
		if c.Lines[i].ID == id {
			c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
			return
		}
	}
}

// Clear empties the cart but keeps fulfillment and contact details.
func (c *Cart) Clear() {
	c.Lines = nil
}

// Find returns the line with the given id, or nil.
func (c *Cart) Find(id string) *Line {
	for i := range c.Lines {
		if c.Lines[i].ID == id {
			return &c.Lines[i]
		}
	}
	return nil
}

// IsEmpty reports whether the cart has no lines.
func (c *Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

// ItemCount is the sum of line quantities.
func (c *Cart) ItemCount() int {
	count := 0
	for _, line := range c.Lines {
		count += line.Quantity
	}
	return count
}

// Subtotal is the pre-tax sum across lines.
func (c *Cart) Subtotal() decimal.Decimal {
	sum := decimal.Zero
	for _, line := range c.Lines {
		sum = sum.Add(line.UnitBase.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	return sum
}

// Tax is the tax sum across lines.
func (c *Cart) Tax() decimal.Decimal {
	sum := decimal.Zero
	for _, line := range c.Lines {
		sum = sum.Add(line.UnitTax.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	return sum
}

// Total is the grand total across lines.
func (c *Cart) Total() decimal.Decimal {
	sum := decimal.Zero
	for _, line := range c.Lines {
		sum = sum.Add(line.UnitTotal.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	return sum
}
