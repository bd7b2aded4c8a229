package orders

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/medsup-innovation/medsup-backend/pkg/db/models"
	"github.com/medsup-innovation/medsup-backend/pkg/enums"
	"github.com/medsup-innovation/medsup-backend/pkg/pagination"
)

// Repository wires together order persistence helpers. Reservation
// counters on the inventory table are owned by the order workflow and
// are only ever moved through the atomic updates below.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		First(&order, "id = ?", id).
		Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *Repository) CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error) {
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}

func (r *Repository) UpdateOrder(ctx context.Context, order *models.Order) (*models.Order, error) {
	if err := r.db.WithContext(ctx).Save(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}

// ReplaceItems swaps the full line set of an order.
func (r *Repository) ReplaceItems(ctx context.Context, orderID uuid.UUID, items []models.OrderItem) error {
	if err := r.db.WithContext(ctx).Delete(&models.OrderItem{}, "order_id = ?", orderID).Error; err != nil {
		return err
	}
	for i := range items {
		items[i].OrderID = orderID
	}
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&items).Error
}

func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) error {
	result := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteOrder removes the order row. Items cascade at the schema level.
func (r *Repository) DeleteOrder(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.Order{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// NextOrderNumber returns the next ORD-YYYY-NNN value for the year.
// Length is ordered first so sequences past 999 keep sorting correctly.
func (r *Repository) NextOrderNumber(ctx context.Context, year int) (string, error) {
	prefix := fmt.Sprintf("ORD-%d-", year)

	var latest string
	err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Select("order_number").
		Where("order_number LIKE ?", prefix+"%").
		Order("LENGTH(order_number) DESC, order_number DESC").
		Limit(1).
		Scan(&latest).
		Error
	if err != nil {
		return "", err
	}

	seq := 1
	if latest != "" {
		parsed, err := strconv.Atoi(strings.TrimPrefix(latest, prefix))
		if err != nil {
			return "", fmt.Errorf("malformed order number %q: %w", latest, err)
		}
		seq = parsed + 1
	}
	return fmt.Sprintf("%s%03d", prefix, seq), nil
}

// ReserveStock atomically moves quantity from available into reserved.
// The guard keeps reservations within the sellable quantity, so a zero
// row count means the product has no inventory row or not enough stock.
func (r *Repository) ReserveStock(ctx context.Context, productID uuid.UUID, quantity int) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Inventory{}).
		Where("product_id = ? AND current_stock - reserved_stock >= ?", productID, quantity).
		Update("reserved_stock", gorm.Expr("reserved_stock + ?", quantity))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// ReleaseStock gives a reservation back. The floor guard keeps the
// counter from going negative if a release is replayed.
func (r *Repository) ReleaseStock(ctx context.Context, productID uuid.UUID, quantity int) error {
	return r.db.WithContext(ctx).
		Model(&models.Inventory{}).
		Where("product_id = ?", productID).
		Update("reserved_stock", gorm.Expr("GREATEST(reserved_stock - ?, 0)", quantity)).
		Error
}

// FulfillStock consumes a reservation on delivery, reducing both the
// reserved and on-hand counters.
func (r *Repository) FulfillStock(ctx context.Context, productID uuid.UUID, quantity int) error {
	return r.db.WithContext(ctx).
		Model(&models.Inventory{}).
		Where("product_id = ?", productID).
		Updates(map[string]any{
			"reserved_stock": gorm.Expr("GREATEST(reserved_stock - ?, 0)", quantity),
			"current_stock":  gorm.Expr("GREATEST(current_stock - ?, 0)", quantity),
		}).
		Error
}

// AvailableStock reads the sellable quantity for one product.
func (r *Repository) AvailableStock(ctx context.Context, productID uuid.UUID) (int, error) {
	var inventory models.Inventory
	err := r.db.WithContext(ctx).
		First(&inventory, "product_id = ?", productID).
		Error
	if err != nil {
		return 0, err
	}
	return inventory.AvailableStock(), nil
}

// FindCustomer loads the ordering customer.
func (r *Repository) FindCustomer(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	var customer models.Customer
	if err := r.db.WithContext(ctx).First(&customer, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &customer, nil
}

// FindProducts loads the referenced products keyed by id.
func (r *Repository) FindProducts(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*models.Product, error) {
	var products []models.Product
	err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&products).
		Error
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*models.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}
	return byID, nil
}

type orderItemRecord struct {
	ID          uuid.UUID
	ProductID   uuid.UUID
	ProductName string
	ProductSKU  string
	Quantity    int
	UnitPrice   decimal.Decimal
	TotalPrice  decimal.Decimal
}

// GetOrderView assembles the full order payload with customer and
// product names resolved.
func (r *Repository) GetOrderView(ctx context.Context, id uuid.UUID) (*OrderView, error) {
	var order models.Order
	if err := r.db.WithContext(ctx).First(&order, "id = ?", id).Error; err != nil {
		return nil, err
	}

	var customerName string
	err := r.db.WithContext(ctx).
		Model(&models.Customer{}).
		Select("name").
		Where("id = ?", order.CustomerID).
		Scan(&customerName).
		Error
	if err != nil {
		return nil, err
	}

	var records []orderItemRecord
	err = r.db.WithContext(ctx).
		Table("order_items oi").
		Select("oi.id, oi.product_id, p.name AS product_name, p.sku AS product_sku, oi.quantity, oi.unit_price, oi.total_price").
		Joins("JOIN products p ON p.id = oi.product_id").
		Where("oi.order_id = ?", id).
		Order("p.name ASC").
		Scan(&records).
		Error
	if err != nil {
		return nil, err
	}

	items := make([]OrderItemView, 0, len(records))
	for _, record := range records {
		items = append(items, OrderItemView(record))
	}

	return &OrderView{
		ID:             order.ID,
		OrderNumber:    order.OrderNumber,
		CustomerID:     order.CustomerID,
		CustomerName:   customerName,
		OrderDate:      order.OrderDate,
		RequiredDate:   order.RequiredDate,
		Status:         order.Status,
		Subtotal:       order.Subtotal,
		TaxAmount:      order.TaxAmount,
		ShippingAmount: order.ShippingAmount,
		TotalAmount:    order.TotalAmount,
		Notes:          order.Notes,
		Items:          items,
		CreatedAt:      order.CreatedAt,
		UpdatedAt:      order.UpdatedAt,
	}, nil
}

type orderListQuery struct {
	Pagination pagination.Params
	Filters    OrderListFilters
}

type orderSummaryRecord struct {
	ID           uuid.UUID
	OrderNumber  string
	CustomerID   uuid.UUID
	CustomerName string
	OrderDate    time.Time
	Status       enums.OrderStatus
	TotalAmount  decimal.Decimal
	ItemCount    int
}

// ListOrderSummaries returns listing rows newest first.
func (r *Repository) ListOrderSummaries(ctx context.Context, query orderListQuery) (*OrderListResult, error) {
	limit := pagination.NormalizeLimit(query.Pagination.Limit)
	offset := pagination.NormalizeOffset(query.Pagination.Offset)

	qb := r.db.WithContext(ctx).
		Table("orders o").
		Joins("JOIN customers c ON c.id = o.customer_id")
	qb = applyOrderFilters(qb, query.Filters)

	var total int64
	if err := qb.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, err
	}

	var records []orderSummaryRecord
	err := qb.
		Select(strings.Join([]string{
			"o.id",
			"o.order_number",
			"o.customer_id",
			"c.name AS customer_name",
			"o.order_date",
			"o.status",
			"o.total_amount",
			"(SELECT COUNT(*) FROM order_items oi WHERE oi.order_id = o.id) AS item_count",
		}, ", ")).
		Order("o.order_date DESC, o.order_number DESC").
		Limit(limit).
		Offset(offset).
		Scan(&records).
		Error
	if err != nil {
		return nil, err
	}

	summaries := make([]OrderSummary, 0, len(records))
	for _, record := range records {
		summaries = append(summaries, OrderSummary(record))
	}

	return &OrderListResult{
		Orders: summaries,
		Total:  total,
	}, nil
}

func applyOrderFilters(qb *gorm.DB, filter OrderListFilters) *gorm.DB {
	if filter.Status != nil {
		qb = qb.Where("o.status = ?", *filter.Status)
	}
	if filter.CustomerID != nil {
		qb = qb.Where("o.customer_id = ?", *filter.CustomerID)
	}
	if filter.From != nil {
		qb = qb.Where("o.order_date >= ?", *filter.From)
	}
	if filter.To != nil {
		qb = qb.Where("o.order_date < ?", *filter.To)
	}
	if search := strings.TrimSpace(filter.Query); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		qb = qb.Where("(LOWER(o.order_number) LIKE ? OR LOWER(c.name) LIKE ?)", pattern, pattern)
	}
	return qb
}
