package controllers

import (
	"net/http"

	"github.com/sliceworks/pizzeria-backend/api/middleware"
	"github.com/sliceworks/pizzeria-backend/api/responses"
	"github.com/sliceworks/pizzeria-backend/internal/tracking"
	"github.com/sliceworks/pizzeria-backend/pkg/logger"
)

// TrackingStatus returns the session's simulated order progress.
func TrackingStatus(sim *tracking.Simulator, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, sim.Status(middleware.SessionIDFromContext(r.Context())))
	}
}

// TrackingAdvance bumps the session one stage ahead of the ticker.
func TrackingAdvance(sim *tracking.Simulator, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, sim.Advance(r.Context(), middleware.SessionIDFromContext(r.Context())))
	}
}

// TrackingReset drops the session back to idle.
func TrackingReset(sim *tracking.Simulator, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, sim.Reset(r.Context(), middleware.SessionIDFromContext(r.Context())))
	}
}
