package suppliers

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/medsup-innovation/medsup-backend/pkg/db/models"
	"github.com/medsup-innovation/medsup-backend/pkg/pagination"
)

// Repository wires together supplier persistence helpers.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Supplier, error) {
	var supplier models.Supplier
	if err := r.db.WithContext(ctx).First(&supplier, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &supplier, nil
}

type supplierListQuery struct {
	Pagination pagination.Params
	Filters    SupplierListFilters
}

// ListSuppliers returns a filtered page ordered by name.
func (r *Repository) ListSuppliers(ctx context.Context, query supplierListQuery) (*SupplierListResult, error) {
	limit := pagination.NormalizeLimit(query.Pagination.Limit)
	offset := pagination.NormalizeOffset(query.Pagination.Offset)

	qb := r.db.WithContext(ctx).Model(&models.Supplier{})
	if query.Filters.Active != nil {
		qb = qb.Where("is_active = ?", *query.Filters.Active)
	}
	if search := strings.TrimSpace(query.Filters.Query); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		qb = qb.Where("(LOWER(name) LIKE ? OR LOWER(COALESCE(contact_person, '')) LIKE ?)", pattern, pattern)
	}

	var total int64
	if err := qb.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, err
	}

	var suppliers []models.Supplier
	err := qb.
		Order("name ASC").
		Limit(limit).
		Offset(offset).
		Find(&suppliers).
		Error
	if err != nil {
		return nil, err
	}

	views := make([]SupplierView, 0, len(suppliers))
	for i := range suppliers {
		views = append(views, toSupplierView(&suppliers[i]))
	}

	return &SupplierListResult{
		Suppliers: views,
		Total:     total,
	}, nil
}
