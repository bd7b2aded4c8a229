package customers

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/medsup-innovation/medsup-backend/pkg/db/models"
	"github.com/medsup-innovation/medsup-backend/pkg/pagination"
)

// Repository wires together customer persistence helpers.
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

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	var customer models.Customer
	if err := r.db.WithContext(ctx).First(&customer, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &customer, nil
}

func (r *Repository) CreateCustomer(ctx context.Context, customer *models.Customer) (*models.Customer, error) {
	if err := r.db.WithContext(ctx).Create(customer).Error; err != nil {
		return nil, err
	}
	return customer, nil
}

func (r *Repository) UpdateCustomer(ctx context.Context, customer *models.Customer) (*models.Customer, error) {
	if err := r.db.WithContext(ctx).Save(customer).Error; err != nil {
		return nil, err
	}
	return customer, nil
}

// Deactivate flips is_active off so order history keeps its reference.
func (r *Repository) Deactivate(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Model(&models.Customer{}).
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

type customerListQuery struct {
	Pagination pagination.Params
	Filters    CustomerListFilters
}

// ListCustomers returns a filtered page ordered by name.
func (r *Repository) ListCustomers(ctx context.Context, query customerListQuery) (*CustomerListResult, error) {
	limit := pagination.NormalizeLimit(query.Pagination.Limit)
	offset := pagination.NormalizeOffset(query.Pagination.Offset)

	qb := r.db.WithContext(ctx).Model(&models.Customer{})
	qb = applyCustomerFilters(qb, query.Filters)

	var total int64
	if err := qb.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, err
	}

	var customers []models.Customer
	err := qb.
		Order("name ASC").
		Limit(limit).
		Offset(offset).
		Find(&customers).
		Error
	if err != nil {
		return nil, err
	}

	views := make([]CustomerView, 0, len(customers))
	for i := range customers {
		views = append(views, toCustomerView(&customers[i]))
	}

	return &CustomerListResult{
		Customers: views,
		Total:     total,
	}, nil
}

func applyCustomerFilters(qb *gorm.DB, filter CustomerListFilters) *gorm.DB {
	if filter.Type != nil {
		qb = qb.Where("type = ?", *filter.Type)
	}
	if filter.Active != nil {
		qb = qb.Where("is_active = ?", *filter.Active)
	}
	if search := strings.TrimSpace(filter.Query); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		qb = qb.Where("(LOWER(name) LIKE ? OR LOWER(COALESCE(email, '')) LIKE ? OR LOWER(COALESCE(contact_person, '')) LIKE ?)", pattern, pattern, pattern)
	}
	return qb
}
