package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/medsup-innovation/medsup-backend/pkg/enums"
	"github.com/medsup-innovation/medsup-backend/pkg/pagination"
)

// InventoryListFilters narrows the stock listing.
type InventoryListFilters struct {
	Status   *enums.StockStatus
	Category *string
	Query    string
}

// InventoryListQuery bundles filters with pagination.
type InventoryListQuery struct {
	Pagination pagination.Params
	Filters    InventoryListFilters
}

// InventoryView is a stock position joined with its product.
type InventoryView struct {
	ID             uuid.UUID         `json:"id"`
	ProductID      uuid.UUID         `json:"product_id"`
	ProductName    string            `json:"product_name"`
	ProductSKU     string            `json:"product_sku"`
	Category       string            `json:"category"`
	UnitPrice      decimal.Decimal   `json:"unit_price"`
	CurrentStock   int               `json:"current_stock"`
	ReservedStock  int               `json:"reserved_stock"`
	AvailableStock int               `json:"available_stock"`
	MaximumStock   int               `json:"maximum_stock"`
	ReorderPoint   int               `json:"reorder_point"`
	StockStatus    enums.StockStatus `json:"stock_status"`
	Location       *string           `json:"location"`
	BatchNumber    *string           `json:"batch_number"`
	ExpiryDate     *time.Time        `json:"expiry_date"`
	SupplierID     *uuid.UUID        `json:"supplier_id"`
	SupplierName   *string           `json:"supplier_name"`
	UpdatedAt      time.Time         `json:"updated_at"`
}

// InventoryListResult is a page of stock positions plus the unpaged total.
type InventoryListResult struct {
	Inventory []InventoryView `json:"inventory"`
	Total     int64           `json:"total"`
}

// CreateInventoryInput opens a stock position for a product that has
// none yet. Products normally get their row at creation time; this
// covers rows removed by hand or legacy imports.
type CreateInventoryInput struct {
	ProductID    uuid.UUID  `json:"product_id" validate:"required"`
	CurrentStock int        `json:"current_stock" validate:"gte=0"`
	MaximumStock int        `json:"maximum_stock" validate:"gte=0"`
	Location     *string    `json:"location" validate:"omitempty,max=200"`
	BatchNumber  *string    `json:"batch_number" validate:"omitempty,max=100"`
	ExpiryDate   *time.Time `json:"expiry_date"`
	SupplierID   *uuid.UUID `json:"supplier_id"`
}

// UpdateInventoryInput carries the optional fields for a partial update.
// Stock counters are excluded here; they only move through adjustments
// and the order workflow.
type UpdateInventoryInput struct {
	MaximumStock *int       `json:"maximum_stock" validate:"omitempty,gte=0"`
	Location     *string    `json:"location" validate:"omitempty,max=200"`
	BatchNumber  *string    `json:"batch_number" validate:"omitempty,max=100"`
	ExpiryDate   *time.Time `json:"expiry_date"`
	SupplierID   *uuid.UUID `json:"supplier_id"`
}

// AdjustStockInput moves the on-hand counter by a signed delta.
type AdjustStockInput struct {
	Delta  int    `json:"delta" validate:"required"`
	Reason string `json:"reason" validate:"required,min=3,max=500"`
}

// InventoryAlert is one row in the alert feed.
type InventoryAlert struct {
	ProductID      uuid.UUID         `json:"product_id"`
	ProductName    string            `json:"product_name"`
	ProductSKU     string            `json:"product_sku"`
	AvailableStock int               `json:"available_stock"`
	ReorderPoint   int               `json:"reorder_point"`
	StockStatus    enums.StockStatus `json:"stock_status"`
	ExpiryDate     *time.Time        `json:"expiry_date,omitempty"`
}

// AlertsView groups the alert feeds returned together.
type AlertsView struct {
	LowStock   []InventoryAlert `json:"low_stock"`
	OutOfStock []InventoryAlert `json:"out_of_stock"`
	Expiring   []InventoryAlert `json:"expiring"`
}

// StatsView summarizes the whole stock position.
type StatsView struct {
	TotalProducts   int64           `json:"total_products"`
	TotalStockValue decimal.Decimal `json:"total_stock_value"`
	LowStockCount   int64           `json:"low_stock_count"`
	OutOfStockCount int64           `json:"out_of_stock_count"`
	ExpiringCount   int64           `json:"expiring_count"`
}
