package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/medsup-innovation/medsup-backend/pkg/enums"
	"github.com/medsup-innovation/medsup-backend/pkg/pagination"
)

// OrderItemInput is a requested line on create or update. UnitPrice is
// accepted so clients can echo the price they saw; the catalog price at
// pricing time is what gets charged.
type OrderItemInput struct {
	ProductID uuid.UUID        `json:"product_id" validate:"required"`
	Quantity  int              `json:"quantity" validate:"required,gt=0"`
	UnitPrice *decimal.Decimal `json:"unit_price"`
}

// CreateOrderInput carries the fields accepted when placing an order.
type CreateOrderInput struct {
	CustomerID   uuid.UUID        `json:"customer_id" validate:"required"`
	RequiredDate *time.Time       `json:"required_date"`
	Notes        *string          `json:"notes" validate:"omitempty,max=2000"`
	Items        []OrderItemInput `json:"items" validate:"required,min=1,dive"`
}

// UpdateOrderInput carries the optional fields for a partial update.
// Items, when present, replace the full line set and are only accepted
// while the order is still pending.
type UpdateOrderInput struct {
	RequiredDate *time.Time        `json:"required_date"`
	Notes        *string           `json:"notes" validate:"omitempty,max=2000"`
	Items        *[]OrderItemInput `json:"items" validate:"omitempty,min=1,dive"`
}

// UpdateOrderStatusInput carries the requested lifecycle move.
type UpdateOrderStatusInput struct {
	Status string `json:"status" validate:"required"`
}

// OrderListFilters narrows the order listing.
type OrderListFilters struct {
	Status     *enums.OrderStatus
	CustomerID *uuid.UUID
	Query      string
	From       *time.Time
	To         *time.Time
}

// OrderListQuery bundles filters with pagination.
type OrderListQuery struct {
	Pagination pagination.Params
	Filters    OrderListFilters
}

// OrderItemView is a priced line within an order payload.
type OrderItemView struct {
	ID          uuid.UUID       `json:"id"`
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	ProductSKU  string          `json:"product_sku"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TotalPrice  decimal.Decimal `json:"total_price"`
}

// OrderView is the full order payload with customer and lines.
type OrderView struct {
	ID             uuid.UUID         `json:"id"`
	OrderNumber    string            `json:"order_number"`
	CustomerID     uuid.UUID         `json:"customer_id"`
	CustomerName   string            `json:"customer_name"`
	OrderDate      time.Time         `json:"order_date"`
	RequiredDate   *time.Time        `json:"required_date"`
	Status         enums.OrderStatus `json:"status"`
	Subtotal       decimal.Decimal   `json:"subtotal"`
	TaxAmount      decimal.Decimal   `json:"tax_amount"`
	ShippingAmount decimal.Decimal   `json:"shipping_amount"`
	TotalAmount    decimal.Decimal   `json:"total_amount"`
	Notes          *string           `json:"notes"`
	Items          []OrderItemView   `json:"items"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
}

// OrderSummary is a listing row.
type OrderSummary struct {
	ID           uuid.UUID         `json:"id"`
	OrderNumber  string            `json:"order_number"`
	CustomerID   uuid.UUID         `json:"customer_id"`
	CustomerName string            `json:"customer_name"`
	OrderDate    time.Time         `json:"order_date"`
	Status       enums.OrderStatus `json:"status"`
	TotalAmount  decimal.Decimal   `json:"total_amount"`
	ItemCount    int               `json:"item_count"`
}

// OrderListResult is a page of orders plus the unpaged total.
type OrderListResult struct {
	Orders []OrderSummary `json:"orders"`
	Total  int64          `json:"total"`
}
