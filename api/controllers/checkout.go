package controllers

import (
	"net/http"

	"github.com/sliceworks/pizzeria-backend/api/middleware"
	"github.com/sliceworks/pizzeria-backend/api/responses"
	"github.com/sliceworks/pizzeria-backend/internal/checkout"
	pkgerrors "github.com/sliceworks/pizzeria-backend/pkg/errors"
	"github.com/sliceworks/pizzeria-backend/pkg/logger"
)

// CheckoutInitiate freezes the session's cart into a pending order and
// returns the hosted payment page URL.
func CheckoutInitiate(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, err := svc.Initiate(r.Context(), middleware.SessionIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}

type checkoutOrderResponse struct {
	OrderID string `json:"order_id"`
	Status  string `json:"status"`
	Total   string `json:"total"`
}

// CheckoutSuccess confirms payment after the provider redirects back.
// Replays of the same callback return the already-paid order.
func CheckoutSuccess(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		paymentSessionID := r.URL.Query().Get("session_id")
		if paymentSessionID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "session_id query parameter required"))
			return
		}

		order, err := svc.HandleSuccess(r.Context(), paymentSessionID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, checkoutOrderResponse{
			OrderID: order.ID.String(),
			Status:  string(order.Status),
			Total:   order.Total.StringFixed(2),
		})
	}
}

// CheckoutCancel voids the pending order when the buyer backs out of
// the payment page. The cart survives for a retry.
func CheckoutCancel(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		paymentSessionID := r.URL.Query().Get("session_id")
		if paymentSessionID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "session_id query parameter required"))
			return
		}

		if err := svc.HandleCancel(r.Context(), paymentSessionID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "cancelled"})
	}
}
