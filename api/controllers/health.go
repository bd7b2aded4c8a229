package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/medsup-innovation/medsup-backend/api/responses"
	pkgerrors "github.com/medsup-innovation/medsup-backend/pkg/errors"
	"github.com/medsup-innovation/medsup-backend/pkg/logger"
)

// Pinger is a dependency the readiness probe can check.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Health reports the service heartbeat.
func Health() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, map[string]any{
			"status":    "OK",
			"message":   "medsup api is running",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	}
}

// Live is the liveness probe.
func Live() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, map[string]any{"status": "OK"})
	}
}

// Ready is the readiness probe. It fails when a dependency is down.
func Ready(logg *logger.Logger, deps map[string]Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		for name, dep := range deps {
			if dep == nil {
				continue
			}
			if err := dep.Ping(ctx); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, name+" unavailable"))
				return
			}
		}
		responses.WriteSuccess(w, map[string]any{"status": "OK"})
	}
}
