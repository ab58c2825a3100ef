package deals

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sliceworks/pizzeria-backend/pkg/db/models"
	"github.com/sliceworks/pizzeria-backend/pkg/enums"
)

// ResolvedSelection is a deal candidate after its ids have been resolved
// against the catalog. Ids that did not resolve, or resolved to the
// wrong category, are absent, so structural counts fail closed.
type ResolvedSelection struct {
	Pizzas []models.CatalogItem
	Sides  []models.CatalogItem
	Drinks []models.CatalogItem
	School string
}

const (
	studentDiscountFactor = "0.5"
	lateNightFactor       = "0.7"

	lateNightStartHour = 22
	lateNightEndHour   = 2
)

// Eligible is the per-kind eligibility predicate. It is a pure function
// of the resolved selection and the supplied instant; unknown kinds are
// permanently ineligible.
func Eligible(kind enums.DealKind, sel ResolvedSelection, now time.Time) bool {
	switch kind {
	case enums.DealTwoPizzaFreeOne:
		return distinctCount(sel.Pizzas) == 2

	case enums.DealBundle:
		return distinctCount(sel.Pizzas) == 2 &&
			len(sel.Sides) == 2 &&
			len(sel.Drinks) == 1 &&
			sel.Drinks[0].DrinkSize == enums.DrinkSizeLarge

	case enums.DealStudentDiscount:
		return len(sel.Pizzas) == 1 && IsReferenceSchool(sel.School)

	case enums.DealLunchCombo:
		return len(sel.Pizzas) == 1 &&
			strings.Contains(strings.ToLower(sel.Pizzas[0].Name), "cheese") &&
			len(sel.Drinks) == 1 &&
			sel.Drinks[0].DrinkSize == enums.DrinkSizeSmall

	case enums.DealLateNight:
		return len(sel.Pizzas) >= 1 && inLateNightWindow(now.Hour())
	}
	return false
}

// BasePrice is the per-kind price formula. It assumes the selection is
// already eligible and returns the unrounded base; the caller rounds
// exactly once when deriving the quote. Unknown kinds price to zero.
func BasePrice(kind enums.DealKind, offer models.DealOffer, sel ResolvedSelection) decimal.Decimal {
	switch kind {
	case enums.DealTwoPizzaFreeOne:
		// The cheaper pizza is free; the charged base is the higher price.
		return maxPrice(sel.Pizzas)

	case enums.DealBundle, enums.DealLunchCombo:
		return offer.BasePrice

	case enums.DealStudentDiscount:
		return sumPrice(sel.Pizzas).Mul(decimal.RequireFromString(studentDiscountFactor))

	case enums.DealLateNight:
		return sumPrice(sel.Pizzas).Mul(decimal.RequireFromString(lateNightFactor))
	}
	return decimal.Zero
}

// inLateNightWindow reports membership in the half-open window
// [22:00, 24:00) ∪ [0:00, 2:00), which wraps midnight.
func inLateNightWindow(hour int) bool {
	return hour >= lateNightStartHour || hour < lateNightEndHour
}

func distinctCount(items []models.CatalogItem) int {
	seen := map[string]struct{}{}
	for _, item := range items {
		seen[item.ID] = struct{}{}
	}
	return len(seen)
}

func maxPrice(items []models.CatalogItem) decimal.Decimal {
	max := decimal.Zero
	for _, item := range items {
		if item.BasePrice.GreaterThan(max) {
			max = item.BasePrice
		}
	}
	return max
}

func sumPrice(items []models.CatalogItem) decimal.Decimal {
	sum := decimal.Zero
	for _, item := range items {
		sum = sum.Add(item.BasePrice)
	}
	return sum
}
