package suppliers

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/medsup-innovation/medsup-backend/pkg/db"
	"github.com/medsup-innovation/medsup-backend/pkg/db/models"
	pkgerrors "github.com/medsup-innovation/medsup-backend/pkg/errors"
	"github.com/medsup-innovation/medsup-backend/pkg/logger"
	"github.com/medsup-innovation/medsup-backend/pkg/pagination"
)

// SupplierListFilters narrows the supplier listing.
type SupplierListFilters struct {
	Active *bool
	Query  string
}

// SupplierListQuery bundles filters with pagination.
type SupplierListQuery struct {
	Pagination pagination.Params
	Filters    SupplierListFilters
}

// SupplierView is the supplier payload returned by the API.
type SupplierView struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	ContactPerson *string   `json:"contact_person"`
	Email         *string   `json:"email"`
	Phone         *string   `json:"phone"`
	Address       *string   `json:"address"`
	City          *string   `json:"city"`
	PostalCode    *string   `json:"postal_code"`
	Country       *string   `json:"country"`
	IsActive      bool      `json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// SupplierListResult is a page of suppliers plus the unpaged total.
type SupplierListResult struct {
	Suppliers []SupplierView `json:"suppliers"`
	Total     int64          `json:"total"`
}

// Service exposes the supplier directory operations.
type Service interface {
	ListSuppliers(ctx context.Context, query SupplierListQuery) (*SupplierListResult, error)
	GetSupplier(ctx context.Context, id uuid.UUID) (*SupplierView, error)
}

type service struct {
	repo *Repository
	logg *logger.Logger
}

// NewService wires the supplier service with its dependencies.
func NewService(repo *Repository, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("supplier service requires a repository")
	}
	if logg == nil {
		return nil, fmt.Errorf("supplier service requires a logger")
	}
	return &service{repo: repo, logg: logg}, nil
}

func (s *service) ListSuppliers(ctx context.Context, query SupplierListQuery) (*SupplierListResult, error) {
	result, err := s.repo.ListSuppliers(ctx, supplierListQuery{
		Pagination: query.Pagination,
		Filters:    query.Filters,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list suppliers")
	}
	return result, nil
}

func (s *service) GetSupplier(ctx context.Context, id uuid.UUID) (*SupplierView, error) {
	supplier, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "supplier not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: get supplier")
	}
	view := toSupplierView(supplier)
	return &view, nil
}

func toSupplierView(supplier *models.Supplier) SupplierView {
	return SupplierView{
		ID:            supplier.ID,
		Name:          supplier.Name,
		ContactPerson: supplier.ContactPerson,
		Email:         supplier.Email,
		Phone:         supplier.Phone,
		Address:       supplier.Address,
		City:          supplier.City,
		PostalCode:    supplier.PostalCode,
		Country:       supplier.Country,
		IsActive:      supplier.IsActive,
		CreatedAt:     supplier.CreatedAt,
		UpdatedAt:     supplier.UpdatedAt,
	}
}
