package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/medsup-innovation/medsup-backend/api/responses"
	"github.com/medsup-innovation/medsup-backend/api/validators"
	ordersvc "github.com/medsup-innovation/medsup-backend/internal/orders"
	"github.com/medsup-innovation/medsup-backend/pkg/enums"
	pkgerrors "github.com/medsup-innovation/medsup-backend/pkg/errors"
	"github.com/medsup-innovation/medsup-backend/pkg/logger"
	"github.com/medsup-innovation/medsup-backend/pkg/pagination"
)

// ListOrders returns a filtered page of orders, newest first.
func ListOrders(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		query := ordersvc.OrderListQuery{
			Pagination: pagination.FromQuery(r.URL.Query()),
			Filters: ordersvc.OrderListFilters{
				Query: r.URL.Query().Get("search"),
			},
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
			status, err := enums.ParseOrderStatus(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status filter"))
				return
			}
			query.Filters.Status = &status
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("customer_id")); raw != "" {
			customerID, err := validators.ParsePathUUID(raw, "customer_id")
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			query.Filters.CustomerID = &customerID
		}
		if from, ok, err := parseDateParam(r, "from"); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		} else if ok {
			query.Filters.From = &from
		}
		if to, ok, err := parseDateParam(r, "to"); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		} else if ok {
			query.Filters.To = &to
		}

		result, err := svc.ListOrders(r.Context(), query)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// GetOrder returns one order with its lines.
func GetOrder(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		id, err := validators.ParsePathUUID(chi.URLParam(r, "id"), "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.GetOrder(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

// CreateOrder places an order and reserves stock for every line.
func CreateOrder(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		var payload ordersvc.CreateOrderInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.CreateOrder(r.Context(), payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	}
}

// UpdateOrder edits notes, dates and, while pending, the line set.
func UpdateOrder(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		id, err := validators.ParsePathUUID(chi.URLParam(r, "id"), "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload ordersvc.UpdateOrderInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.UpdateOrder(r.Context(), id, payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

// UpdateOrderStatus moves an order along its lifecycle.
func UpdateOrderStatus(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		id, err := validators.ParsePathUUID(chi.URLParam(r, "id"), "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload ordersvc.UpdateOrderStatusInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.UpdateOrderStatus(r.Context(), id, payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

// DeleteOrder removes an order and releases any reservations it holds.
func DeleteOrder(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		id, err := validators.ParsePathUUID(chi.URLParam(r, "id"), "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteOrder(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteNoContent(w)
	}
}

func parseDateParam(r *http.Request, key string) (time.Time, bool, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return time.Time{}, false, nil
	}
	parsed, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, false, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid "+key+" date")
	}
	return parsed.UTC(), true, nil
}
