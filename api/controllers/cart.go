package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sliceworks/pizzeria-backend/api/middleware"
	"github.com/sliceworks/pizzeria-backend/api/responses"
	"github.com/sliceworks/pizzeria-backend/api/validators"
	cartsvc "github.com/sliceworks/pizzeria-backend/internal/cart"
	"github.com/sliceworks/pizzeria-backend/internal/deals"
	"github.com/sliceworks/pizzeria-backend/pkg/enums"
	pkgerrors "github.com/sliceworks/pizzeria-backend/pkg/errors"
	"github.com/sliceworks/pizzeria-backend/pkg/logger"
	"github.com/sliceworks/pizzeria-backend/pkg/types"
)

type cartLineResponse struct {
	ID                  string   `json:"id"`
	Name                string   `json:"name"`
	UnitBase            string   `json:"unit_base"`
	UnitTax             string   `json:"unit_tax"`
	UnitTotal           string   `json:"unit_total"`
	Quantity            int      `json:"quantity"`
	ImageURL            string   `json:"image_url,omitempty"`
	SelectedIngredients []string `json:"selected_ingredients,omitempty"`
	SelectedOptions     []string `json:"selected_options,omitempty"`
}

type cartResponse struct {
	Lines       []cartLineResponse   `json:"lines"`
	ItemCount   int                  `json:"item_count"`
	Subtotal    string               `json:"subtotal"`
	Tax         string               `json:"tax"`
	Total       string               `json:"total"`
	Fulfillment string               `json:"fulfillment,omitempty"`
	Contact     types.ContactDetails `json:"contact"`
}

func newCartResponse(c *cartsvc.Cart) cartResponse {
	lines := make([]cartLineResponse, 0, len(c.Lines))
	for _, line := range c.Lines {
		lines = append(lines, cartLineResponse{
			ID:                  line.ID,
			Name:                line.Name,
			UnitBase:            line.UnitBase.StringFixed(2),
			UnitTax:             line.UnitTax.StringFixed(2),
			UnitTotal:           line.UnitTotal.StringFixed(2),
			Quantity:            line.Quantity,
			ImageURL:            line.ImageURL,
			SelectedIngredients: line.SelectedIngredients,
			SelectedOptions:     line.SelectedOptions,
		})
	}
	return cartResponse{
		Lines:       lines,
		ItemCount:   c.ItemCount(),
		Subtotal:    c.Subtotal().StringFixed(2),
		Tax:         c.Tax().StringFixed(2),
		Total:       c.Total().StringFixed(2),
		Fulfillment: string(c.Fulfillment),
		Contact:     c.Contact,
	}
}

// CartGet returns the session's current cart.
func CartGet(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		current, err := svc.Get(r.Context(), middleware.SessionIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCartResponse(current))
	}
}

type addItemRequest struct {
	ItemID string `json:"item_id" validate:"required"`
}

// CartAddItem adds one priced catalog item to the cart.
func CartAddItem(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload addItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		current, err := svc.AddCatalogItem(r.Context(), middleware.SessionIDFromContext(r.Context()), payload.ItemID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCartResponse(current))
	}
}

type addCustomPizzaRequest struct {
	IngredientIDs []string `json:"ingredient_ids" validate:"required,min=1"`
}

// CartAddCustomPizza prices an ingredient selection and adds it as one line.
func CartAddCustomPizza(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload addCustomPizzaRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		current, err := svc.AddCustomPizza(r.Context(), middleware.SessionIDFromContext(r.Context()), payload.IngredientIDs)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCartResponse(current))
	}
}

type addDealRequest struct {
	Kind      string             `json:"kind" validate:"required"`
	Selection deals.RawSelection `json:"selection"`
}

// CartAddDeal runs the eligibility gate and adds the quoted deal line.
func CartAddDeal(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload addDealRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		kind, err := enums.ParseDealKind(payload.Kind)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unknown deal"))
			return
		}

		current, err := svc.AddDeal(r.Context(), middleware.SessionIDFromContext(r.Context()), kind, payload.Selection)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCartResponse(current))
	}
}

// CartDecrementLine lowers a line's quantity by one.
func CartDecrementLine(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		lineID := chi.URLParam(r, "lineID")
		current, err := svc.DecrementLine(r.Context(), middleware.SessionIDFromContext(r.Context()), lineID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCartResponse(current))
	}
}

// CartRemoveLine deletes a line regardless of quantity.
func CartRemoveLine(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		lineID := chi.URLParam(r, "lineID")
		current, err := svc.RemoveLine(r.Context(), middleware.SessionIDFromContext(r.Context()), lineID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCartResponse(current))
	}
}

// CartClear empties the session's cart.
func CartClear(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Clear(r.Context(), middleware.SessionIDFromContext(r.Context())); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusNoContent, nil)
	}
}

type fulfillmentRequest struct {
	Method  string               `json:"method" validate:"required"`
	Contact types.ContactDetails `json:"contact" validate:"required"`
}

const contactFieldMaxLen = 120

func (req fulfillmentRequest) contact() types.ContactDetails {
	return types.ContactDetails{
		Name:       validators.SanitizeString(req.Contact.Name, contactFieldMaxLen),
		Email:      validators.SanitizeString(req.Contact.Email, contactFieldMaxLen),
		Phone:      validators.SanitizeString(req.Contact.Phone, contactFieldMaxLen),
		Street:     validators.SanitizeString(req.Contact.Street, contactFieldMaxLen),
		City:       validators.SanitizeString(req.Contact.City, contactFieldMaxLen),
		PostalCode: validators.SanitizeString(req.Contact.PostalCode, contactFieldMaxLen),
	}
}

// CartSetFulfillment records pickup/delivery choice and contact details.
func CartSetFulfillment(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload fulfillmentRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		method, err := enums.ParseFulfillmentMethod(payload.Method)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unknown fulfillment method"))
			return
		}

		current, err := svc.SetFulfillment(r.Context(), middleware.SessionIDFromContext(r.Context()), method, payload.contact())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCartResponse(current))
	}
}
