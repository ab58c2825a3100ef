package types

import "strings"

// ContactDetails is what checkout collects from the buyer. Address fields
// are only required for delivery orders.
type ContactDetails struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Street     string `json:"street,omitempty"`
	City       string `json:"city,omitempty"`
	PostalCode string `json:"postal_code,omitempty"`
}

// HasAddress reports whether the delivery-only fields are all present.
func (c ContactDetails) HasAddress() bool {
	return strings.TrimSpace(c.Street) != "" &&
		strings.TrimSpace(c.City) != "" &&
		strings.TrimSpace(c.PostalCode) != ""
}
