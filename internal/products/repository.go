package products

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

// Repository wires together product persistence helpers.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// FindByID loads the product without associations.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// GetProductDetail fetches a product with its inventory row preloaded.
func (r *Repository) GetProductDetail(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Preload("Inventory").
		First(&product, "id = ?", id).
		Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// CreateProduct inserts a new product row.
func (r *Repository) CreateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// UpdateProduct updates an existing product row.
func (r *Repository) UpdateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Save(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// Deactivate flips is_active off without removing the row so historic
// orders keep their reference.
func (r *Repository) Deactivate(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", id).
		Update("is_active", false)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// SetImageURL stores the public URL of the uploaded product image.
func (r *Repository) SetImageURL(ctx context.Context, id uuid.UUID, url string) error {
	result := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", id).
		Update("image_url", url)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ListCategories returns the distinct category names in use.
func (r *Repository) ListCategories(ctx context.Context) ([]string, error) {
	var categories []string
	err := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Distinct("category").
		Where("is_active = ?", true).
		Order("category ASC").
		Pluck("category", &categories).
		Error
	return categories, err
}

type productListQuery struct {
	Pagination pagination.Params
	Filters    ProductListFilters
}

// ListProductSummaries returns catalog rows joined with stock counts and
// the preferred supplier name.
func (r *Repository) ListProductSummaries(ctx context.Context, query productListQuery) (*ProductListResult, error) {
	limit := pagination.NormalizeLimit(query.Pagination.Limit)
	offset := pagination.NormalizeOffset(query.Pagination.Offset)

	qb := r.db.WithContext(ctx).
		Table("products p").
		Select(strings.Join([]string{
			"p.id",
			"p.name",
			"p.description",
			"p.sku",
			"p.category",
			"p.subcategory",
			"p.manufacturer",
			"p.unit_price",
			"p.cost_price",
			"p.unit_of_measure",
			"p.reorder_point",
			"p.reorder_quantity",
			"p.image_url",
			"p.is_active",
			"p.created_at",
			"p.updated_at",
			"i.current_stock",
			"i.reserved_stock",
			"s.name AS supplier_name",
		}, ", ")).
		Joins("LEFT JOIN inventory i ON i.product_id = p.id").
		Joins("LEFT JOIN suppliers s ON s.id = i.supplier_id")

	qb = applyProductFilters(qb, query.Filters)

	var total int64
	if err := qb.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, err
	}

	var records []productSummaryRecord
	err := qb.
		Order("p.name ASC").
		Limit(limit).
		Offset(offset).
		Scan(&records).
		Error
	if err != nil {
		return nil, err
	}

	summaries := make([]ProductSummary, 0, len(records))
	for _, record := range records {
		summaries = append(summaries, record.toSummary())
	}

	return &ProductListResult{
		Products: summaries,
		Total:    total,
	}, nil
}

func applyProductFilters(qb *gorm.DB, filter ProductListFilters) *gorm.DB {
	if filter.Category != nil {
		qb = qb.Where("p.category = ?", *filter.Category)
	}
	if filter.Active != nil {
		qb = qb.Where("p.is_active = ?", *filter.Active)
	}
	if search := strings.TrimSpace(filter.Query); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		qb = qb.Where("(LOWER(p.name) LIKE ? OR LOWER(p.sku) LIKE ? OR LOWER(COALESCE(p.description, '')) LIKE ?)", pattern, pattern, pattern)
	}
	return qb
}

type productSummaryRecord struct {
	ID              uuid.UUID
	Name            string
	Description     sql.NullString
	SKU             string
	Category        string
	Subcategory     sql.NullString
	Manufacturer    sql.NullString
	UnitPrice       decimal.Decimal
	CostPrice       decimal.Decimal
	UnitOfMeasure   string
	ReorderPoint    int
	ReorderQuantity int
	ImageURL        sql.NullString
	IsActive        bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
	CurrentStock    sql.NullInt64
	ReservedStock   sql.NullInt64
	SupplierName    sql.NullString
}

func (r productSummaryRecord) toSummary() ProductSummary {
	current := int(r.CurrentStock.Int64)
	reserved := int(r.ReservedStock.Int64)
	return ProductSummary{
		ID:              r.ID,
		Name:            r.Name,
		Description:     nullStringPtr(r.Description),
		SKU:             r.SKU,
		Category:        r.Category,
		Subcategory:     nullStringPtr(r.Subcategory),
		Manufacturer:    nullStringPtr(r.Manufacturer),
		UnitPrice:       r.UnitPrice,
		CostPrice:       r.CostPrice,
		UnitOfMeasure:   r.UnitOfMeasure,
		ReorderPoint:    r.ReorderPoint,
		ReorderQuantity: r.ReorderQuantity,
		ImageURL:        nullStringPtr(r.ImageURL),
		IsActive:        r.IsActive,
		CurrentStock:    current,
		ReservedStock:   reserved,
		AvailableStock:  current - reserved,
		SupplierName:    nullStringPtr(r.SupplierName),
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
}

func nullStringPtr(value sql.NullString) *string {
	if !value.Valid {
		return nil
	}
	v := value.String
	return &v
}
