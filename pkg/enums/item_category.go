package enums

import "fmt"

// ItemCategory classifies a purchasable catalog item.
type ItemCategory string

const (
	CategoryPizza     ItemCategory = "pizza"
	CategoryCrust     ItemCategory = "crust"
	CategorySauce     ItemCategory = "sauce"
	CategoryCheese    ItemCategory = "cheese"
	CategoryMeat      ItemCategory = "meat"
	CategoryVegetable ItemCategory = "vegetable"
	CategoryDrink     ItemCategory = "drink"
	CategorySide      ItemCategory = "side"
	CategoryDeal      ItemCategory = "deal"
)

var validItemCategories = []ItemCategory{
	CategoryPizza,
	CategoryCrust,
	CategorySauce,
	CategoryCheese,
	CategoryMeat,
	CategoryVegetable,
	CategoryDrink,
	CategorySide,
	CategoryDeal,
}

// String implements fmt.Stringer.
func (c ItemCategory) String() string {
	return string(c)
}

// IsValid reports whether the value is a known ItemCategory.
func (c ItemCategory) IsValid() bool {
	for _, candidate := range validItemCategories {
		if candidate == c {
			return true
		}
	}
	return false
}

// IsIngredient reports whether the category participates in the custom
// pizza builder.
func (c ItemCategory) IsIngredient() bool {
	switch c {
	case CategoryCrust, CategorySauce, CategoryCheese, CategoryMeat, CategoryVegetable:
		return true
	}
	return false
}

// ParseItemCategory converts raw input into an ItemCategory.
func ParseItemCategory(value string) (ItemCategory, error) {
	for _, candidate := range validItemCategories {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid item category %q", value)
}
