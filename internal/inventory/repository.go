package inventory

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/medsup-innovation/medsup-backend/pkg/db/models"
	"github.com/medsup-innovation/medsup-backend/pkg/pagination"
)

// Repository wires together inventory persistence helpers.
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

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Inventory, error) {
	var inventory models.Inventory
	if err := r.db.WithContext(ctx).First(&inventory, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &inventory, nil
}

func (r *Repository) FindByProductID(ctx context.Context, productID uuid.UUID) (*models.Inventory, error) {
	var inventory models.Inventory
	if err := r.db.WithContext(ctx).First(&inventory, "product_id = ?", productID).Error; err != nil {
		return nil, err
	}
	return &inventory, nil
}

func (r *Repository) CreateInventory(ctx context.Context, inventory *models.Inventory) (*models.Inventory, error) {
	if err := r.db.WithContext(ctx).Create(inventory).Error; err != nil {
		return nil, err
	}
	return inventory, nil
}

func (r *Repository) DeleteInventory(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.Inventory{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *Repository) UpdateInventory(ctx context.Context, inventory *models.Inventory) (*models.Inventory, error) {
	if err := r.db.WithContext(ctx).Save(inventory).Error; err != nil {
		return nil, err
	}
	return inventory, nil
}

// AdjustStock moves the on-hand counter by delta in one statement. The
// guard refuses moves that would drop below zero or below what is
// currently reserved.
func (r *Repository) AdjustStock(ctx context.Context, id uuid.UUID, delta int) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Inventory{}).
		Where("id = ? AND current_stock + ? >= reserved_stock AND current_stock + ? >= 0", id, delta, delta).
		Update("current_stock", gorm.Expr("current_stock + ?", delta))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

type inventoryListQuery struct {
	Pagination pagination.Params
	Filters    InventoryListFilters
}

type inventoryRecord struct {
	ID            uuid.UUID
	ProductID     uuid.UUID
	ProductName   string
	ProductSKU    string
	Category      string
	UnitPrice     decimal.Decimal
	CurrentStock  int
	ReservedStock int
	MaximumStock  int
	ReorderPoint  int
	Location      sql.NullString
	BatchNumber   sql.NullString
	ExpiryDate    sql.NullTime
	SupplierID    *uuid.UUID
	SupplierName  sql.NullString
	UpdatedAt     time.Time
}

func inventorySelect(db *gorm.DB, ctx context.Context) *gorm.DB {
	return db.WithContext(ctx).
		Table("inventory i").
		Select(strings.Join([]string{
			"i.id",
			"i.product_id",
			"p.name AS product_name",
			"p.sku AS product_sku",
			"p.category",
			"p.unit_price",
			"i.current_stock",
			"i.reserved_stock",
			"i.maximum_stock",
			"p.reorder_point",
			"i.location",
			"i.batch_number",
			"i.expiry_date",
			"i.supplier_id",
			"s.name AS supplier_name",
			"i.updated_at",
		}, ", ")).
		Joins("JOIN products p ON p.id = i.product_id").
		Joins("LEFT JOIN suppliers s ON s.id = i.supplier_id").
		Where("p.is_active = ?", true)
}

func applyInventoryFilters(qb *gorm.DB, filters InventoryListFilters) *gorm.DB {
	if filters.Category != nil && *filters.Category != "" {
		qb = qb.Where("p.category = ?", *filters.Category)
	}
	if search := strings.TrimSpace(filters.Query); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		qb = qb.Where("(LOWER(p.name) LIKE ? OR LOWER(p.sku) LIKE ?)", pattern, pattern)
	}
	return qb
}

// ListInventoryRecords returns stock rows joined with their product.
// Status filtering happens in the service since the status is derived.
func (r *Repository) ListInventoryRecords(ctx context.Context, query inventoryListQuery) ([]inventoryRecord, int64, error) {
	limit := pagination.NormalizeLimit(query.Pagination.Limit)
	offset := pagination.NormalizeOffset(query.Pagination.Offset)

	qb := applyInventoryFilters(inventorySelect(r.db, ctx), query.Filters)

	var total int64
	if err := qb.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var records []inventoryRecord
	err := qb.
		Order("p.name ASC").
		Limit(limit).
		Offset(offset).
		Scan(&records).
		Error
	if err != nil {
		return nil, 0, err
	}
	return records, total, nil
}

// ListAllInventoryRecords returns every row matching the filters. Used
// when filtering on the derived status, which cannot be pushed into SQL
// without duplicating the status rules.
func (r *Repository) ListAllInventoryRecords(ctx context.Context, filters InventoryListFilters) ([]inventoryRecord, error) {
	qb := applyInventoryFilters(inventorySelect(r.db, ctx), filters)

	var records []inventoryRecord
	err := qb.Order("p.name ASC").Scan(&records).Error
	return records, err
}

// GetInventoryRecord loads one joined row by inventory id.
func (r *Repository) GetInventoryRecord(ctx context.Context, id uuid.UUID) (*inventoryRecord, error) {
	var record inventoryRecord
	result := inventorySelect(r.db, ctx).
		Where("i.id = ?", id).
		Limit(1).
		Scan(&record)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &record, nil
}

// ListShortfallRecords returns rows at or under their reorder point,
// including out of stock rows.
func (r *Repository) ListShortfallRecords(ctx context.Context) ([]inventoryRecord, error) {
	var records []inventoryRecord
	err := inventorySelect(r.db, ctx).
		Where("i.current_stock - i.reserved_stock <= p.reorder_point").
		Order("i.current_stock - i.reserved_stock ASC").
		Scan(&records).
		Error
	return records, err
}

// ListExpiringRecords returns stocked rows whose expiry falls before the
// cutoff.
func (r *Repository) ListExpiringRecords(ctx context.Context, cutoff time.Time) ([]inventoryRecord, error) {
	var records []inventoryRecord
	err := inventorySelect(r.db, ctx).
		Where("i.expiry_date IS NOT NULL AND i.expiry_date <= ? AND i.current_stock > 0", cutoff).
		Order("i.expiry_date ASC").
		Scan(&records).
		Error
	return records, err
}

type statsRecord struct {
	TotalProducts   int64
	TotalStockValue decimal.Decimal
	OutOfStockCount int64
	LowStockCount   int64
	ExpiringCount   int64
}

// GetStats aggregates the stock position in one pass.
func (r *Repository) GetStats(ctx context.Context, expiryCutoff time.Time) (*statsRecord, error) {
	var record statsRecord
	err := r.db.WithContext(ctx).
		Table("inventory i").
		Joins("JOIN products p ON p.id = i.product_id").
		Where("p.is_active = ?", true).
		Select(strings.Join([]string{
			"COUNT(*) AS total_products",
			"COALESCE(SUM(i.current_stock * p.unit_price), 0) AS total_stock_value",
			"COUNT(*) FILTER (WHERE i.current_stock - i.reserved_stock <= 0) AS out_of_stock_count",
			"COUNT(*) FILTER (WHERE i.current_stock - i.reserved_stock > 0 AND i.current_stock - i.reserved_stock <= p.reorder_point) AS low_stock_count",
			"COUNT(*) FILTER (WHERE i.expiry_date IS NOT NULL AND i.expiry_date <= ? AND i.current_stock > 0) AS expiring_count",
		}, ", "), expiryCutoff).
		Scan(&record).
		Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}
