package deals

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sliceworks/pizzeria-backend/pkg/db/models"
	"github.com/sliceworks/pizzeria-backend/pkg/enums"
)

func pizza(id, price string) models.CatalogItem {
	return models.CatalogItem{
		ID:        id,
		Name:      id,
		BasePrice: decimal.RequireFromString(price),
		Category:  enums.CategoryPizza,
	}
}

func namedPizza(id, name, price string) models.CatalogItem {
	item := pizza(id, price)
	item.Name = name
	return item
}

func side(id string) models.CatalogItem {
	return models.CatalogItem{ID: id, Name: id, BasePrice: decimal.RequireFromString("4.00"), Category: enums.CategorySide}
}

func drink(id string, size enums.DrinkSize) models.CatalogItem {
	return models.CatalogItem{ID: id, Name: id, BasePrice: decimal.RequireFromString("2.00"), Category: enums.CategoryDrink, DrinkSize: size}
}

func at(hour int) time.Time {
	return time.Date(2026, time.March, 4, hour, 30, 0, 0, time.UTC)
}

func TestTwoPizzaFreeOneEligibility(t *testing.T) {
	t.Parallel()

	sel := ResolvedSelection{Pizzas: []models.CatalogItem{pizza("margherita", "12.00"), pizza("diavola", "15.00")}}
	if !Eligible(enums.DealTwoPizzaFreeOne, sel, at(12)) {
		t.Fatal("two distinct pizzas should be eligible")
	}

	dup := ResolvedSelection{Pizzas: []models.CatalogItem{pizza("margherita", "12.00"), pizza("margherita", "12.00")}}
	if Eligible(enums.DealTwoPizzaFreeOne, dup, at(12)) {
		t.Fatal("duplicate pizza ids are not two distinct pizzas")
	}

	one := ResolvedSelection{Pizzas: []models.CatalogItem{pizza("margherita", "12.00")}}
	if Eligible(enums.DealTwoPizzaFreeOne, one, at(12)) {
		t.Fatal("one pizza should not be eligible")
	}
}

func TestTwoPizzaFreeOnePricesHigherPizza(t *testing.T) {
	t.Parallel()

	sel := ResolvedSelection{Pizzas: []models.CatalogItem{pizza("margherita", "12.00"), pizza("diavola", "15.00")}}
	base := BasePrice(enums.DealTwoPizzaFreeOne, models.DealOffer{}, sel)
	if !base.Equal(decimal.RequireFromString("15.00")) {
		t.Fatalf("base = %s, want the higher price", base)
	}
}

func TestBundleEligibility(t *testing.T) {
	t.Parallel()

	valid := ResolvedSelection{
		Pizzas: []models.CatalogItem{pizza("margherita", "12.00"), pizza("diavola", "15.00")},
		Sides:  []models.CatalogItem{side("garlic-bread"), side("wings")},
		Drinks: []models.CatalogItem{drink("cola-large", enums.DrinkSizeLarge)},
	}
	if !Eligible(enums.DealBundle, valid, at(12)) {
		t.Fatal("valid bundle rejected")
	}

	smallDrink := valid
	smallDrink.Drinks = []models.CatalogItem{drink("cola-small", enums.DrinkSizeSmall)}
	if Eligible(enums.DealBundle, smallDrink, at(12)) {
		t.Fatal("bundle requires a large drink")
	}

	oneSide := valid
	oneSide.Sides = valid.Sides[:1]
	if Eligible(enums.DealBundle, oneSide, at(12)) {
		t.Fatal("bundle requires two sides")
	}
}

func TestBundlePricesAtListPrice(t *testing.T) {
	t.Parallel()

	offer := models.DealOffer{BasePrice: decimal.RequireFromString("34.99")}
	sel := ResolvedSelection{Pizzas: []models.CatalogItem{pizza("margherita", "12.00"), pizza("diavola", "99.00")}}
	base := BasePrice(enums.DealBundle, offer, sel)
	if !base.Equal(offer.BasePrice) {
		t.Fatalf("base = %s, selection must not affect bundle price", base)
	}
}

func TestStudentDiscountEligibility(t *testing.T) {
	t.Parallel()

	sel := ResolvedSelection{
		Pizzas: []models.CatalogItem{pizza("margherita", "12.00")},
		School: "University of Toronto",
	}
	if !Eligible(enums.DealStudentDiscount, sel, at(12)) {
		t.Fatal("exact reference school rejected")
	}

	empty := sel
	empty.School = ""
	if Eligible(enums.DealStudentDiscount, empty, at(12)) {
		t.Fatal("empty school must not be eligible")
	}

	fuzzy := sel
	fuzzy.School = "toronto"
	if Eligible(enums.DealStudentDiscount, fuzzy, at(12)) {
		t.Fatal("substring match is for search only, commit requires exact membership")
	}
}

func TestStudentDiscountPrice(t *testing.T) {
	t.Parallel()

	sel := ResolvedSelection{Pizzas: []models.CatalogItem{pizza("margherita", "12.50")}}
	base := BasePrice(enums.DealStudentDiscount, models.DealOffer{}, sel)
	if !base.Equal(decimal.RequireFromString("6.25")) {
		t.Fatalf("base = %s, want half price", base)
	}
}

func TestLunchComboEligibility(t *testing.T) {
	t.Parallel()

	valid := ResolvedSelection{
		Pizzas: []models.CatalogItem{namedPizza("cheese-classic", "Cheese Classic", "10.00")},
		Drinks: []models.CatalogItem{drink("cola-small", enums.DrinkSizeSmall)},
	}
	if !Eligible(enums.DealLunchCombo, valid, at(12)) {
		t.Fatal("valid lunch combo rejected")
	}

	wrongPizza := valid
	wrongPizza.Pizzas = []models.CatalogItem{namedPizza("diavola", "Diavola", "14.00")}
	if Eligible(enums.DealLunchCombo, wrongPizza, at(12)) {
		t.Fatal("lunch combo is restricted to cheese pizzas")
	}

	largeDrink := valid
	largeDrink.Drinks = []models.CatalogItem{drink("cola-large", enums.DrinkSizeLarge)}
	if Eligible(enums.DealLunchCombo, largeDrink, at(12)) {
		t.Fatal("lunch combo requires a small drink")
	}
}

func TestLateNightWindowWrapsMidnight(t *testing.T) {
	t.Parallel()

	sel := ResolvedSelection{Pizzas: []models.CatalogItem{pizza("margherita", "12.00")}}

	cases := map[int]bool{
		10: false,
		21: false,
		22: true,
		23: true,
		0:  true,
		1:  true,
		2:  false,
	}
	for hour, want := range cases {
		if got := Eligible(enums.DealLateNight, sel, at(hour)); got != want {
			t.Fatalf("hour %d: eligible = %v, want %v", hour, got, want)
		}
	}
}

func TestLateNightPrice(t *testing.T) {
	t.Parallel()

	sel := ResolvedSelection{Pizzas: []models.CatalogItem{pizza("margherita", "10.00")}}
	base := BasePrice(enums.DealLateNight, models.DealOffer{}, sel)
	if !base.Equal(decimal.RequireFromString("7.00")) {
		t.Fatalf("base = %s, want 70%% of pizza price", base)
	}
}

func TestUnknownKindFailsClosed(t *testing.T) {
	t.Parallel()

	sel := ResolvedSelection{Pizzas: []models.CatalogItem{pizza("margherita", "12.00"), pizza("diavola", "15.00")}}
	if Eligible(enums.DealKind("mystery"), sel, at(23)) {
		t.Fatal("unknown deal kind must be permanently ineligible")
	}
	if !BasePrice(enums.DealKind("mystery"), models.DealOffer{}, sel).IsZero() {
		t.Fatal("unknown deal kind must price to zero")
	}
}

func TestSchoolSearch(t *testing.T) {
	t.Parallel()

	matches := SearchSchools("toronto")
	if len(matches) != 2 {
		t.Fatalf("matches = %v", matches)
	}
	if len(SearchSchools("")) != 0 {
		t.Fatal("empty query should match nothing")
	}
	if !IsReferenceSchool("Seneca College") {
		t.Fatal("reference member rejected")
	}
	if IsReferenceSchool("seneca college") {
		t.Fatal("membership is case-sensitive exact match")
	}
}
