package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/medsup-innovation/medsup-backend/api/responses"
	"github.com/medsup-innovation/medsup-backend/api/validators"
	customersvc "github.com/medsup-innovation/medsup-backend/internal/customers"
	"github.com/medsup-innovation/medsup-backend/pkg/enums"
	pkgerrors "github.com/medsup-innovation/medsup-backend/pkg/errors"
	"github.com/medsup-innovation/medsup-backend/pkg/logger"
	"github.com/medsup-innovation/medsup-backend/pkg/pagination"
)

// ListCustomers returns a filtered directory page.
func ListCustomers(svc customersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "customer service unavailable"))
			return
		}

		query := customersvc.CustomerListQuery{
			Pagination: pagination.FromQuery(r.URL.Query()),
			Filters: customersvc.CustomerListFilters{
				Query: r.URL.Query().Get("search"),
			},
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("type")); raw != "" {
			customerType, err := enums.ParseCustomerType(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid type filter"))
				return
			}
			query.Filters.Type = &customerType
		}
		if active, ok := parseBoolParam(r, "active"); ok {
			query.Filters.Active = &active
		}

		result, err := svc.ListCustomers(r.Context(), query)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// GetCustomer returns one customer.
func GetCustomer(svc customersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "customer service unavailable"))
			return
		}

		id, err := validators.ParsePathUUID(chi.URLParam(r, "id"), "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		customer, err := svc.GetCustomer(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, customer)
	}
}

// CreateCustomer adds a buying institution.
func CreateCustomer(svc customersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "customer service unavailable"))
			return
		}

		var payload customersvc.CreateCustomerInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		customer, err := svc.CreateCustomer(r.Context(), payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, customer)
	}
}

// UpdateCustomer applies a partial update.
func UpdateCustomer(svc customersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "customer service unavailable"))
			return
		}

		id, err := validators.ParsePathUUID(chi.URLParam(r, "id"), "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload customersvc.UpdateCustomerInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		customer, err := svc.UpdateCustomer(r.Context(), id, payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, customer)
	}
}

// DeleteCustomer retires a customer from the directory.
func DeleteCustomer(svc customersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "customer service unavailable"))
			return
		}

		id, err := validators.ParsePathUUID(chi.URLParam(r, "id"), "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteCustomer(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteNoContent(w)
	}
}
