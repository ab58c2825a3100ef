package enums

import "fmt"

// DrinkSize is the size variant for drink catalog items. Empty for
// everything that is not a drink.
type DrinkSize string

const (
	DrinkSizeSmall DrinkSize = "small"
	DrinkSizeLarge DrinkSize = "large"
)

var validDrinkSizes = []DrinkSize{
	DrinkSizeSmall,
	DrinkSizeLarge,
}

// String implements fmt.Stringer.
func (d DrinkSize) String() string {
	return string(d)
}

// IsValid reports whether the value is a known DrinkSize.
func (d DrinkSize) IsValid() bool {
	for _, candidate := range validDrinkSizes {
		if candidate == d {
			return true
		}
	}
	return false
}

// ParseDrinkSize converts raw input into a DrinkSize.
func ParseDrinkSize(value string) (DrinkSize, error) {
	for _, candidate := range validDrinkSizes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid drink size %q", value)
}
