package stripe

import (
	"context"
	"fmt"

	"github.com/stripe/stripe-go/v84"
)

// SessionLineItem is the normalized shape handed to the payment provider:
// one cart line with its unit amount already converted to minor units.
type SessionLineItem struct {
	ID              string
	Name            string
	UnitAmountCents int64
	Quantity        int64
	ImageURL        string
}

// SessionInput describes one hosted checkout session.
type SessionInput struct {
	OrderID    string
	LineItems  []SessionLineItem
	TotalCents int64
	Currency   string
}

// Session is the opaque handle the storefront redirects the buyer with.
type Session struct {
	ID  string
	URL string
}

// CreateCheckoutSession opens a hosted payment session carrying the order
// id as the correlation key.
func (c *Client) CreateCheckoutSession(ctx context.Context, input SessionInput) (*Session, error) {
	if c == nil || c.api == nil {
		return nil, fmt.Errorf("stripe client not initialized")
	}
	if input.OrderID == "" {
		return nil, fmt.Errorf("order id is required")
	}
	if len(input.LineItems) == 0 {
		return nil, fmt.Errorf("at least one line item is required")
	}

	currency := input.Currency
	if currency == "" {
		currency = "cad"
	}

	lines := make([]*stripe.CheckoutSessionCreateLineItemParams, 0, len(input.LineItems))
	for _, item := range input.LineItems {
		productData := &stripe.CheckoutSessionCreateLineItemPriceDataProductDataParams{
			Name: stripe.String(item.Name),
		}
		if item.ImageURL != "" {
			productData.Images = stripe.StringSlice([]string{item.ImageURL})
		}
		lines = append(lines, &stripe.CheckoutSessionCreateLineItemParams{
			Quantity: stripe.Int64(item.Quantity),
			PriceData: &stripe.CheckoutSessionCreateLineItemPriceDataParams{
				Currency:    stripe.String(currency),
				UnitAmount:  stripe.Int64(item.UnitAmountCents),
				ProductData: productData,
			},
		})
	}

	params := &stripe.CheckoutSessionCreateParams{
		Mode:              stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems:         lines,
		ClientReferenceID: stripe.String(input.OrderID),
	}
	if c.successURL != "" {
		params.SuccessURL = stripe.String(c.successURL)
	}
	if c.cancelURL != "" {
		params.CancelURL = stripe.String(c.cancelURL)
	}

	session, err := c.api.V1CheckoutSessions.Create(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("creating checkout session: %w", err)
	}

	return &Session{ID: session.ID, URL: session.URL}, nil
}
