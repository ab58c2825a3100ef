package controllers

import (
	"net/http"
	"time"

	"github.com/sliceworks/pizzeria-backend/api/responses"
	"github.com/sliceworks/pizzeria-backend/api/validators"
	"github.com/sliceworks/pizzeria-backend/internal/catalog"
	"github.com/sliceworks/pizzeria-backend/internal/deals"
	"github.com/sliceworks/pizzeria-backend/internal/pricing"
	"github.com/sliceworks/pizzeria-backend/pkg/enums"
	pkgerrors "github.com/sliceworks/pizzeria-backend/pkg/errors"
	"github.com/sliceworks/pizzeria-backend/pkg/logger"
)

// Menu returns the grouped browse-page catalog.
func Menu(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		menu, err := svc.Menu(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, menu)
	}
}

// Ingredients returns the custom-pizza builder options grouped by
// category.
func Ingredients(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		grouped, err := svc.Ingredients(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, grouped)
	}
}

// ActiveDeals lists the deal offers available right now, filtered by
// each offer's hour window.
func ActiveDeals(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		offers, err := svc.ActiveDeals(r.Context(), time.Now())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, offers)
	}
}

type quoteResponse struct {
	Base  string `json:"base"`
	Tax   string `json:"tax"`
	Total string `json:"total"`
}

func newQuoteResponse(q pricing.Quote) quoteResponse {
	return quoteResponse{
		Base:  q.Base.StringFixed(2),
		Tax:   q.Tax.StringFixed(2),
		Total: q.Total.StringFixed(2),
	}
}

type customPizzaQuoteRequest struct {
	IngredientIDs []string `json:"ingredient_ids" validate:"required,min=1"`
}

// CustomPizzaQuote prices an ingredient selection without touching the
// cart, so the builder can show a live price.
func CustomPizzaQuote(svc catalog.Service, rates pricing.Rates, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload customPizzaQuoteRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ingredients, err := svc.ResolveItems(r.Context(), payload.IngredientIDs)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newQuoteResponse(pricing.CustomPizzaQuote(rates, ingredients)))
	}
}

type dealQuoteRequest struct {
	Kind      string             `json:"kind" validate:"required"`
	Selection deals.RawSelection `json:"selection"`
}

type dealQuoteResponse struct {
	Eligible bool          `json:"eligible"`
	Title    string        `json:"title,omitempty"`
	Quote    quoteResponse `json:"quote"`
}

// DealQuote runs the eligibility gate without committing anything, so
// the deal page can preview the price before the add.
func DealQuote(svc deals.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload dealQuoteRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		kind, err := enums.ParseDealKind(payload.Kind)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unknown deal"))
			return
		}

		eval, err := svc.Evaluate(r.Context(), kind, payload.Selection)
		if err != nil {
			if pkgerrors.HasCode(err, pkgerrors.CodeValidation) {
				responses.WriteSuccess(w, dealQuoteResponse{Eligible: false})
				return
			}
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dealQuoteResponse{
			Eligible: true,
			Title:    eval.Offer.Title,
			Quote:    newQuoteResponse(eval.Quote),
		})
	}
}

// SchoolSearch matches the student-deal school picker against the
// reference list.
func SchoolSearch(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		matches := deals.SearchSchools(validators.SanitizeString(r.URL.Query().Get("q"), 80))
		if matches == nil {
			matches = []string{}
		}
		responses.WriteSuccess(w, map[string][]string{"schools": matches})
	}
}
