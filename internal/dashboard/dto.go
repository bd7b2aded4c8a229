package dashboard

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/medsup-innovation/medsup-backend/pkg/enums"
)

// Metrics is the headline counter block. LowStockCount counts every row
// at or under its reorder point, out of stock included. MonthOrders and
// MonthRevenue cover the trailing 30 days.
type Metrics struct {
	TotalProducts  int64           `json:"total_products"`
	TotalCustomers int64           `json:"total_customers"`
	TotalOrders    int64           `json:"total_orders"`
	PendingOrders  int64           `json:"pending_orders"`
	LowStockCount  int64           `json:"low_stock_count"`
	ExpiringCount  int64           `json:"expiring_count"`
	InventoryValue decimal.Decimal `json:"inventory_value"`
	MonthOrders    int64           `json:"month_orders"`
	MonthRevenue   decimal.Decimal `json:"month_revenue"`
}

// RecentOrder is a row in the latest orders widget.
type RecentOrder struct {
	ID           uuid.UUID         `json:"id"`
	OrderNumber  string            `json:"order_number"`
	CustomerName string            `json:"customer_name"`
	OrderDate    time.Time         `json:"order_date"`
	Status       enums.OrderStatus `json:"status"`
	TotalAmount  decimal.Decimal   `json:"total_amount"`
}

// LowStockItem is a row in the restock widget.
type LowStockItem struct {
	ProductID      uuid.UUID `json:"product_id"`
	ProductName    string    `json:"product_name"`
	ProductSKU     string    `json:"product_sku"`
	AvailableStock int       `json:"available_stock"`
	ReorderPoint   int       `json:"reorder_point"`
}

// CategoryStat aggregates the catalog per category.
type CategoryStat struct {
	Category     string          `json:"category"`
	ProductCount int64           `json:"product_count"`
	StockValue   decimal.Decimal `json:"stock_value"`
}

// MonthlySale is one bucket in the sales chart, oldest first.
type MonthlySale struct {
	Month   string          `json:"month"`
	Orders  int64           `json:"orders"`
	Revenue decimal.Decimal `json:"revenue"`
}

// Alert is one row in the merged attention feed.
type Alert struct {
	Kind       string     `json:"kind"`
	Message    string     `json:"message"`
	ProductID  *uuid.UUID `json:"product_id,omitempty"`
	OrderID    *uuid.UUID `json:"order_id,omitempty"`
	ExpiryDate *time.Time `json:"expiry_date,omitempty"`
}

// View is the full dashboard payload.
type View struct {
	Metrics       Metrics        `json:"metrics"`
	RecentOrders  []RecentOrder  `json:"recent_orders"`
	LowStock      []LowStockItem `json:"low_stock"`
	CategoryStats []CategoryStat `json:"category_stats"`
	MonthlySales  []MonthlySale  `json:"monthly_sales"`
	Alerts        []Alert        `json:"alerts"`
}
