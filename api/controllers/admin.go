package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sliceworks/pizzeria-backend/api/responses"
	"github.com/sliceworks/pizzeria-backend/api/validators"
	"github.com/sliceworks/pizzeria-backend/internal/catalog"
	"github.com/sliceworks/pizzeria-backend/internal/orders"
	"github.com/sliceworks/pizzeria-backend/pkg/db/models"
	"github.com/sliceworks/pizzeria-backend/pkg/enums"
	pkgerrors "github.com/sliceworks/pizzeria-backend/pkg/errors"
	"github.com/sliceworks/pizzeria-backend/pkg/logger"
)

type upsertItemRequest struct {
	ID        string  `json:"id" validate:"required"`
	Name      string  `json:"name" validate:"required"`
	BasePrice string  `json:"base_price" validate:"required"`
	Category  string  `json:"category" validate:"required"`
	DrinkSize string  `json:"drink_size,omitempty"`
	IsDefault bool    `json:"is_default"`
	Active    bool    `json:"active"`
	Popular   bool    `json:"popular"`
	ImageURL  *string `json:"image_url,omitempty"`
}

func (req upsertItemRequest) toModel() (*models.CatalogItem, error) {
	price, err := decimal.NewFromString(req.BasePrice)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid base price")
	}
	category, err := enums.ParseItemCategory(req.Category)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid category")
	}

	item := &models.CatalogItem{
		ID:        req.ID,
		Name:      req.Name,
		BasePrice: price,
		Category:  category,
		IsDefault: req.IsDefault,
		Active:    req.Active,
		Popular:   req.Popular,
		ImageURL:  req.ImageURL,
	}
	if req.DrinkSize != "" {
		size, err := enums.ParseDrinkSize(req.DrinkSize)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid drink size")
		}
		item.DrinkSize = size
	}
	return item, nil
}

// AdminUpsertItem creates or replaces a catalog row.
func AdminUpsertItem(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload upsertItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, err := payload.toModel()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.UpsertItem(r.Context(), item); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, item)
	}
}

// AdminDeactivateItem pulls an item off the menu without deleting it.
func AdminDeactivateItem(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.DeactivateItem(r.Context(), chi.URLParam(r, "itemID")); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusNoContent, nil)
	}
}

type upsertDealRequest struct {
	ID        string  `json:"id" validate:"required"`
	Kind      string  `json:"kind" validate:"required"`
	Title     string  `json:"title" validate:"required"`
	BasePrice string  `json:"base_price" validate:"required"`
	Active    bool    `json:"active"`
	Featured  bool    `json:"featured"`
	Weekdays  []int64 `json:"weekdays,omitempty"`
	HourStart *int    `json:"hour_start,omitempty"`
	HourEnd   *int    `json:"hour_end,omitempty"`
	ImageURL  *string `json:"image_url,omitempty"`
}

func (req upsertDealRequest) toModel() (*models.DealOffer, error) {
	price, err := decimal.NewFromString(req.BasePrice)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid base price")
	}
	kind, err := enums.ParseDealKind(req.Kind)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid deal kind")
	}

	return &models.DealOffer{
		ID:        req.ID,
		Kind:      kind,
		Title:     req.Title,
		BasePrice: price,
		Active:    req.Active,
		Featured:  req.Featured,
		Weekdays:  req.Weekdays,
		HourStart: req.HourStart,
		HourEnd:   req.HourEnd,
		ImageURL:  req.ImageURL,
	}, nil
}

// AdminUpsertDeal creates or replaces a deal offer row.
func AdminUpsertDeal(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload upsertDealRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		offer, err := payload.toModel()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.UpsertDeal(r.Context(), offer); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, offer)
	}
}

// AdminListOrders pages through orders, newest first, optionally
// filtered by status.
func AdminListOrders(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := validators.ParseQueryInt(r, "limit", 25, 1, 100)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		offset, err := validators.ParseQueryInt(r, "offset", 0, 0, 1_000_000)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var status *enums.OrderStatus
		if raw := r.URL.Query().Get("status"); raw != "" {
			parsed, err := enums.ParseOrderStatus(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status filter"))
				return
			}
			status = &parsed
		}

		rows, err := svc.List(r.Context(), status, limit, offset)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}

// AdminGetOrder fetches one order with its line items.
func AdminGetOrder(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := uuid.Parse(chi.URLParam(r, "orderID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid order id"))
			return
		}

		order, err := svc.Get(r.Context(), orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}
