package controllers

import (
	"net/http"

	"github.com/medsup-innovation/medsup-backend/api/responses"
	dashboardsvc "github.com/medsup-innovation/medsup-backend/internal/dashboard"
	pkgerrors "github.com/medsup-innovation/medsup-backend/pkg/errors"
	"github.com/medsup-innovation/medsup-backend/pkg/logger"
)

// GetDashboard returns the back-office landing aggregate.
func GetDashboard(svc dashboardsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "dashboard service unavailable"))
			return
		}

		view, err := svc.GetDashboard(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

// GetDashboardAlerts returns the merged attention feed on its own.
func GetDashboardAlerts(svc dashboardsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "dashboard service unavailable"))
			return
		}

		alerts, err := svc.GetAlerts(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"alerts": alerts})
	}
}
