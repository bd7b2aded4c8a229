package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/medsup-innovation/medsup-backend/api/responses"
	"github.com/medsup-innovation/medsup-backend/api/validators"
	productsvc "github.com/medsup-innovation/medsup-backend/internal/products"
	pkgerrors "github.com/medsup-innovation/medsup-backend/pkg/errors"
	"github.com/medsup-innovation/medsup-backend/pkg/logger"
	"github.com/medsup-innovation/medsup-backend/pkg/pagination"
)

// ListProducts returns a filtered catalog page.
func ListProducts(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		query := productsvc.ProductListQuery{
			Pagination: pagination.FromQuery(r.URL.Query()),
			Filters: productsvc.ProductListFilters{
				Query: r.URL.Query().Get("search"),
			},
		}
		if category := strings.TrimSpace(r.URL.Query().Get("category")); category != "" {
			query.Filters.Category = &category
		}
		if active, ok := parseBoolParam(r, "active"); ok {
			query.Filters.Active = &active
		}

		result, err := svc.ListProducts(r.Context(), query)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// GetProduct returns one product with its stock position.
func GetProduct(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		id, err := validators.ParsePathUUID(chi.URLParam(r, "id"), "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.GetProduct(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

// CreateProduct adds a catalog entry with an empty stock position.
func CreateProduct(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		var payload productsvc.CreateProductInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.CreateProduct(r.Context(), payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, product)
	}
}

// UpdateProduct applies a partial update.
func UpdateProduct(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		id, err := validators.ParsePathUUID(chi.URLParam(r, "id"), "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload productsvc.UpdateProductInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.UpdateProduct(r.Context(), id, payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

// DeleteProduct retires a product from the catalog.
func DeleteProduct(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		id, err := validators.ParsePathUUID(chi.URLParam(r, "id"), "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteProduct(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteNoContent(w)
	}
}

// ListProductCategories returns the distinct categories in use.
func ListProductCategories(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		categories, err := svc.ListCategories(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"categories": categories})
	}
}

// UploadProductImage attaches an image to a product.
func UploadProductImage(svc productsvc.Service, logg *logger.Logger, maxUploadMB int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		id, err := validators.ParsePathUUID(chi.URLParam(r, "id"), "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		maxBytes := int64(maxUploadMB) << 20
		r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
		if err := r.ParseMultipartForm(maxBytes); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "upload too large or malformed"))
			return
		}

		file, header, err := r.FormFile("image")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "image file is required"))
			return
		}
		defer file.Close()

		product, err := svc.UploadImage(r.Context(), id, header.Filename, file)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

func parseBoolParam(r *http.Request, key string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(r.URL.Query().Get(key))) {
	case "true", "1":
		return true, true
	case "false", "0":
		return false, true
	default:
		return false, false
	}
}
