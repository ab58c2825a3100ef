package enums

import "fmt"

// DealKind identifies one of the closed set of promotional deals. Each
// kind has exactly one eligibility predicate and one price formula.
type DealKind string

const (
	DealTwoPizzaFreeOne DealKind = "two_pizza_free_one"
	DealBundle          DealKind = "bundle"
	DealStudentDiscount DealKind = "student_discount"
	DealLunchCombo      DealKind = "lunch_combo"
	DealLateNight       DealKind = "late_night"
)

var validDealKinds = []DealKind{
	DealTwoPizzaFreeOne,
	DealBundle,
	DealStudentDiscount,
	DealLunchCombo,
	DealLateNight,
}

// String implements fmt.Stringer.
func (k DealKind) String() string {
	return string(k)
}

// IsValid reports whether the value is a known DealKind. Unknown kinds
// fail closed everywhere they are dispatched.
func (k DealKind) IsValid() bool {
	for _, candidate := range validDealKinds {
		if candidate == k {
			return true
		}
	}
	return false
}

// ParseDealKind converts raw input into a DealKind.
func ParseDealKind(value string) (DealKind, error) {
	for _, candidate := range validDealKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid deal kind %q", value)
}
