package dashboard

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/medsup-innovation/medsup-backend/pkg/db/models"
	"github.com/medsup-innovation/medsup-backend/pkg/enums"
)

// Repository wires together the dashboard aggregate queries.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) CountActiveProducts(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("is_active = ?", true).
		Count(&count).
		Error
	return count, err
}

func (r *Repository) CountActiveCustomers(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Customer{}).
		Where("is_active = ?", true).
		Count(&count).
		Error
	return count, err
}

func (r *Repository) CountOrders(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Order{}).Count(&count).Error
	return count, err
}

func (r *Repository) CountOrdersByStatus(ctx context.Context, status enums.OrderStatus) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("status = ?", status).
		Count(&count).
		Error
	return count, err
}

type recentOrderRecord struct {
	ID           uuid.UUID
	OrderNumber  string
	CustomerName string
	OrderDate    time.Time
	Status       enums.OrderStatus
	TotalAmount  decimal.Decimal
}

// ListRecentOrders returns the latest orders joined with customer names.
func (r *Repository) ListRecentOrders(ctx context.Context, limit int) ([]RecentOrder, error) {
	var records []recentOrderRecord
	err := r.db.WithContext(ctx).
		Table("orders o").
		Select("o.id, o.order_number, c.name AS customer_name, o.order_date, o.status, o.total_amount").
		Joins("JOIN customers c ON c.id = o.customer_id").
		Order("o.order_date DESC, o.created_at DESC").
		Limit(limit).
		Scan(&records).
		Error
	if err != nil {
		return nil, err
	}

	orders := make([]RecentOrder, 0, len(records))
	for _, record := range records {
		orders = append(orders, RecentOrder(record))
	}
	return orders, nil
}

// ListLowStockItems returns the rows closest to running out.
func (r *Repository) ListLowStockItems(ctx context.Context, limit int) ([]LowStockItem, error) {
	var items []LowStockItem
	err := r.db.WithContext(ctx).
		Table("inventory i").
		Select("i.product_id, p.name AS product_name, p.sku AS product_sku, i.current_stock - i.reserved_stock AS available_stock, p.reorder_point").
		Joins("JOIN products p ON p.id = i.product_id").
		Where("p.is_active = ? AND i.current_stock - i.reserved_stock <= p.reorder_point", true).
		Order("i.current_stock - i.reserved_stock ASC").
		Limit(limit).
		Scan(&items).
		Error
	return items, err
}

// ListCategoryStats aggregates product count and stock value per category.
func (r *Repository) ListCategoryStats(ctx context.Context) ([]CategoryStat, error) {
	var stats []CategoryStat
	err := r.db.WithContext(ctx).
		Table("products p").
		Select(strings.Join([]string{
			"p.category",
			"COUNT(*) AS product_count",
			"COALESCE(SUM(COALESCE(i.current_stock, 0) * p.unit_price), 0) AS stock_value",
		}, ", ")).
		Joins("LEFT JOIN inventory i ON i.product_id = p.id").
		Where("p.is_active = ?", true).
		Group("p.category").
		Order("p.category ASC").
		Scan(&stats).
		Error
	return stats, err
}

type pendingOrderRecord struct {
	ID           uuid.UUID
	OrderNumber  string
	CustomerName string
	OrderDate    time.Time
}

// ListPendingOrdersSince returns pending orders placed on or after the cutoff.
func (r *Repository) ListPendingOrdersSince(ctx context.Context, since time.Time) ([]pendingOrderRecord, error) {
	var records []pendingOrderRecord
	err := r.db.WithContext(ctx).
		Table("orders o").
		Select("o.id, o.order_number, c.name AS customer_name, o.order_date").
		Joins("JOIN customers c ON c.id = o.customer_id").
		Where("o.status = ? AND o.order_date >= ?", enums.OrderStatusPending, since).
		Order("o.order_date DESC").
		Scan(&records).
		Error
	return records, err
}

type salesOrderRecord struct {
	OrderDate   time.Time
	TotalAmount decimal.Decimal
	Status      enums.OrderStatus
}

// ListOrdersSince returns the order rows feeding the sales chart.
// Cancelled orders never count towards revenue.
func (r *Repository) ListOrdersSince(ctx context.Context, since time.Time) ([]salesOrderRecord, error) {
	var records []salesOrderRecord
	err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Select("order_date, total_amount, status").
		Where("order_date >= ? AND status <> ?", since, enums.OrderStatusCancelled).
		Order("order_date ASC").
		Scan(&records).
		Error
	return records, err
}
