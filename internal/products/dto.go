package products

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/medsup-innovation/medsup-backend/pkg/pagination"
)

// ProductListFilters narrows the catalog listing.
type ProductListFilters struct {
	Category *string
	Active   *bool
	Query    string
}

// ProductListQuery bundles filters with pagination.
type ProductListQuery struct {
	Pagination pagination.Params
	Filters    ProductListFilters
}

// ProductSummary is a catalog row joined with its stock position.
type ProductSummary struct {
	ID              uuid.UUID       `json:"id"`
	Name            string          `json:"name"`
	Description     *string         `json:"description"`
	SKU             string          `json:"sku"`
	Category        string          `json:"category"`
	Subcategory     *string         `json:"subcategory"`
	Manufacturer    *string         `json:"manufacturer"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	CostPrice       decimal.Decimal `json:"cost_price"`
	UnitOfMeasure   string          `json:"unit_of_measure"`
	ReorderPoint    int             `json:"reorder_point"`
	ReorderQuantity int             `json:"reorder_quantity"`
	ImageURL        *string         `json:"image_url"`
	IsActive        bool            `json:"is_active"`
	CurrentStock    int             `json:"current_stock"`
	ReservedStock   int             `json:"reserved_stock"`
	AvailableStock  int             `json:"available_stock"`
	SupplierName    *string         `json:"supplier_name"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// ProductListResult is a page of catalog rows plus the unpaged total.
type ProductListResult struct {
	Products []ProductSummary `json:"products"`
	Total    int64            `json:"total"`
}

// ProductView is the single-product payload with its stock position.
type ProductView struct {
	ID                  uuid.UUID          `json:"id"`
	Name                string             `json:"name"`
	Description         *string            `json:"description"`
	SKU                 string             `json:"sku"`
	Category            string             `json:"category"`
	Subcategory         *string            `json:"subcategory"`
	Manufacturer        *string            `json:"manufacturer"`
	UnitPrice           decimal.Decimal    `json:"unit_price"`
	CostPrice           decimal.Decimal    `json:"cost_price"`
	UnitOfMeasure       string             `json:"unit_of_measure"`
	ReorderPoint        int                `json:"reorder_point"`
	ReorderQuantity     int                `json:"reorder_quantity"`
	RegulatoryInfo      *string            `json:"regulatory_info"`
	StorageRequirements *string            `json:"storage_requirements"`
	ShelfLifeMonths     *int               `json:"shelf_life_months"`
	ImageURL            *string            `json:"image_url"`
	IsActive            bool               `json:"is_active"`
	Inventory           *ProductStockView  `json:"inventory"`
	CreatedAt           time.Time          `json:"created_at"`
	UpdatedAt           time.Time          `json:"updated_at"`
}

// ProductStockView is the inventory slice embedded in a product payload.
type ProductStockView struct {
	CurrentStock   int        `json:"current_stock"`
	ReservedStock  int        `json:"reserved_stock"`
	AvailableStock int        `json:"available_stock"`
	MaximumStock   int        `json:"maximum_stock"`
	Location       *string    `json:"location"`
	BatchNumber    *string    `json:"batch_number"`
	ExpiryDate     *time.Time `json:"expiry_date"`
	SupplierID     *uuid.UUID `json:"supplier_id"`
}

// CreateProductInput carries the fields accepted when adding a product.
type CreateProductInput struct {
	Name                string          `json:"name" validate:"required,min=2,max=200"`
	Description         *string         `json:"description" validate:"omitempty,max=2000"`
	SKU                 string          `json:"sku" validate:"required,min=2,max=64"`
	Category            string          `json:"category" validate:"required,min=2,max=100"`
	Subcategory         *string         `json:"subcategory" validate:"omitempty,max=100"`
	Manufacturer        *string         `json:"manufacturer" validate:"omitempty,max=200"`
	UnitPrice           decimal.Decimal `json:"unit_price" validate:"required"`
	CostPrice           decimal.Decimal `json:"cost_price"`
	UnitOfMeasure       string          `json:"unit_of_measure" validate:"required,max=32"`
	ReorderPoint        int             `json:"reorder_point" validate:"gte=0"`
	ReorderQuantity     int             `json:"reorder_quantity" validate:"gte=0"`
	RegulatoryInfo      *string         `json:"regulatory_info" validate:"omitempty,max=2000"`
	StorageRequirements *string         `json:"storage_requirements" validate:"omitempty,max=2000"`
	ShelfLifeMonths     *int            `json:"shelf_life_months" validate:"omitempty,gt=0"`
}

// UpdateProductInput carries the optional fields for a partial update.
// Nil pointers leave the stored value untouched.
type UpdateProductInput struct {
	Name                *string          `json:"name" validate:"omitempty,min=2,max=200"`
	Description         *string          `json:"description" validate:"omitempty,max=2000"`
	Category            *string          `json:"category" validate:"omitempty,min=2,max=100"`
	Subcategory         *string          `json:"subcategory" validate:"omitempty,max=100"`
	Manufacturer        *string          `json:"manufacturer" validate:"omitempty,max=200"`
	UnitPrice           *decimal.Decimal `json:"unit_price"`
	CostPrice           *decimal.Decimal `json:"cost_price"`
	UnitOfMeasure       *string          `json:"unit_of_measure" validate:"omitempty,max=32"`
	ReorderPoint        *int             `json:"reorder_point" validate:"omitempty,gte=0"`
	ReorderQuantity     *int             `json:"reorder_quantity" validate:"omitempty,gte=0"`
	RegulatoryInfo      *string          `json:"regulatory_info" validate:"omitempty,max=2000"`
	StorageRequirements *string          `json:"storage_requirements" validate:"omitempty,max=2000"`
	ShelfLifeMonths     *int             `json:"shelf_life_months" validate:"omitempty,gt=0"`
	IsActive            *bool            `json:"is_active"`
}
