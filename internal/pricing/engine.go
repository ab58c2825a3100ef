package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/sliceworks/pizzeria-backend/pkg/config"
	"github.com/sliceworks/pizzeria-backend/pkg/db/models"
	"github.com/sliceworks/pizzeria-backend/pkg/enums"
)

// Rates carries the configured money knobs the engine prices with.
type Rates struct {
	TaxRate     decimal.Decimal
	PizzaMarkup decimal.Decimal
}

// RatesFromConfig lifts the pricing section of the app config.
func RatesFromConfig(cfg config.PricingConfig) Rates {
	return Rates{
		TaxRate:     cfg.TaxRate,
		PizzaMarkup: cfg.PizzaMarkup,
	}
}

// Quote is a priced amount at the 2-decimal boundary. Base, Tax and Total
// are each rounded exactly once, at the end of the computation.
type Quote struct {
	Base  decimal.Decimal
	Tax   decimal.Decimal
	Total decimal.Decimal
}

// CustomPizzaQuote prices a custom pizza from its resolved ingredient
// rows. The caller resolves selection ids against the catalog first;
// unknown ids are dropped there and contribute nothing here.
//
// Crust and sauce rows beyond the first encountered are ignored rather
// than summed twice, so a violated exclusivity invariant upstream cannot
// double-charge. The designated default sauce and default cheese are
// price-exempt even when present.
func CustomPizzaQuote(rates Rates, selection []models.CatalogItem) Quote {
	sum := decimal.Zero
	seenCrust := false
	seenSauce := false

	for _, item := range selection {
		switch item.Category {
		case enums.CategoryCrust:
			if seenCrust {
				continue
			}
			seenCrust = true
		case enums.CategorySauce:
			if seenSauce {
				continue
			}
			seenSauce = true
		}

		if item.PriceExempt() {
			continue
		}
		sum = sum.Add(item.BasePrice)
	}

	base := sum.Mul(rates.PizzaMarkup).Round(2)
	return quoteFromBase(rates, base)
}

// CatalogItemQuote derives tax and total from an already-final base
// price.
func CatalogItemQuote(rates Rates, base decimal.Decimal) Quote {
	return quoteFromBase(rates, base.Round(2))
}

func quoteFromBase(rates Rates, base decimal.Decimal) Quote {
	tax := base.Mul(rates.TaxRate).Round(2)
	return Quote{
		Base:  base,
		Tax:   tax,
		Total: base.Add(tax).Round(2),
	}
}
