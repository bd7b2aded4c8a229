package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/medsup-innovation/medsup-backend/api/responses"
	"github.com/medsup-innovation/medsup-backend/api/validators"
	suppliersvc "github.com/medsup-innovation/medsup-backend/internal/suppliers"
	pkgerrors "github.com/medsup-innovation/medsup-backend/pkg/errors"
	"github.com/medsup-innovation/medsup-backend/pkg/logger"
	"github.com/medsup-innovation/medsup-backend/pkg/pagination"
)

// ListSuppliers returns a filtered directory page.
func ListSuppliers(svc suppliersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "supplier service unavailable"))
			return
		}

		query := suppliersvc.SupplierListQuery{
			Pagination: pagination.FromQuery(r.URL.Query()),
			Filters: suppliersvc.SupplierListFilters{
				Query: r.URL.Query().Get("search"),
			},
		}
		if active, ok := parseBoolParam(r, "active"); ok {
			query.Filters.Active = &active
		}

		result, err := svc.ListSuppliers(r.Context(), query)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// GetSupplier returns one supplier.
func GetSupplier(svc suppliersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "supplier service unavailable"))
			return
		}

		id, err := validators.ParsePathUUID(chi.URLParam(r, "id"), "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		supplier, err := svc.GetSupplier(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, supplier)
	}
}
