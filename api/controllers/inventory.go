package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/medsup-innovation/medsup-backend/api/responses"
	"github.com/medsup-innovation/medsup-backend/api/validators"
	inventorysvc "github.com/medsup-innovation/medsup-backend/internal/inventory"
	"github.com/medsup-innovation/medsup-backend/pkg/enums"
	pkgerrors "github.com/medsup-innovation/medsup-backend/pkg/errors"
	"github.com/medsup-innovation/medsup-backend/pkg/logger"
	"github.com/medsup-innovation/medsup-backend/pkg/pagination"
)

var stockStatusFilters = map[string]enums.StockStatus{
	"out_of_stock": enums.StockStatusOutOfStock,
	"critical":     enums.StockStatusCritical,
	"low":          enums.StockStatusLow,
	"normal":       enums.StockStatusNormal,
	"high":         enums.StockStatusHigh,
}

// ListInventory returns the stock position page.
func ListInventory(svc inventorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
			return
		}

		query := inventorysvc.InventoryListQuery{
			Pagination: pagination.FromQuery(r.URL.Query()),
			Filters: inventorysvc.InventoryListFilters{
				Query: r.URL.Query().Get("search"),
			},
		}
		if category := strings.TrimSpace(r.URL.Query().Get("category")); category != "" {
			query.Filters.Category = &category
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
			status, ok := stockStatusFilters[strings.ToLower(raw)]
			if !ok {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid status filter").
					WithDetails(map[string]any{"status": raw}))
				return
			}
			query.Filters.Status = &status
		}

		result, err := svc.ListInventory(r.Context(), query)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// GetInventory returns one stock position.
func GetInventory(svc inventorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
			return
		}

		id, err := validators.ParsePathUUID(chi.URLParam(r, "id"), "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		inventory, err := svc.GetInventory(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, inventory)
	}
}

// CreateInventory opens a stock position for a product without one.
func CreateInventory(svc inventorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
			return
		}

		var payload inventorysvc.CreateInventoryInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		inventory, err := svc.CreateInventory(r.Context(), payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, inventory)
	}
}

// DeleteInventory removes a stock position with no open reservations.
func DeleteInventory(svc inventorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
			return
		}

		id, err := validators.ParsePathUUID(chi.URLParam(r, "id"), "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteInventory(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteNoContent(w)
	}
}

// UpdateInventory applies a partial update to the storage metadata.
func UpdateInventory(svc inventorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
			return
		}

		id, err := validators.ParsePathUUID(chi.URLParam(r, "id"), "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload inventorysvc.UpdateInventoryInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		inventory, err := svc.UpdateInventory(r.Context(), id, payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, inventory)
	}
}

// AdjustStock moves the on-hand counter by a signed delta.
func AdjustStock(svc inventorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
			return
		}

		id, err := validators.ParsePathUUID(chi.URLParam(r, "id"), "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload inventorysvc.AdjustStockInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		inventory, err := svc.AdjustStock(r.Context(), id, payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, inventory)
	}
}

// GetInventoryAlerts returns the attention feeds.
func GetInventoryAlerts(svc inventorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
			return
		}

		alerts, err := svc.GetAlerts(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, alerts)
	}
}

// GetInventoryStats summarizes the whole stock position.
func GetInventoryStats(svc inventorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
			return
		}

		stats, err := svc.GetStats(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, stats)
	}
}
