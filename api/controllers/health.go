package controllers

import (
	"net/http"

	"github.com/sliceworks/pizzeria-backend/api/responses"
	"github.com/sliceworks/pizzeria-backend/pkg/config"
	"github.com/sliceworks/pizzeria-backend/pkg/db"
	pkgerrors "github.com/sliceworks/pizzeria-backend/pkg/errors"
	"github.com/sliceworks/pizzeria-backend/pkg/logger"
	"github.com/sliceworks/pizzeria-backend/pkg/redis"
)

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Pizzeria-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings the backing stores so the load balancer only routes
// traffic when the app can actually serve it.
func HealthReady(cfg *config.Config, database *db.Client, cache *redis.Client, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Pizzeria-Env", cfg.App.Env)

		if err := database.Ping(r.Context()); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "database unreachable"))
			return
		}
		if err := cache.Ping(r.Context()); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "redis unreachable"))
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
