package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product represents a catalog entry for a medical supply item.
type Product struct {
	ID                  uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name                string          `gorm:"column:name;not null"`
	Description         *string         `gorm:"column:description"`
	SKU                 string          `gorm:"column:sku;not null;uniqueIndex"`
	Category            string          `gorm:"column:category;not null"`
	Subcategory         *string         `gorm:"column:subcategory"`
	Manufacturer        *string         `gorm:"column:manufacturer"`
	UnitPrice           decimal.Decimal `gorm:"column:unit_price;type:numeric(12,2);not null"`
	CostPrice           decimal.Decimal `gorm:"column:cost_price;type:numeric(12,2);not null;default:0"`
	UnitOfMeasure       string          `gorm:"column:unit_of_measure;not null"`
	ReorderPoint        int             `gorm:"column:reorder_point;not null;default:0"`
	ReorderQuantity     int             `gorm:"column:reorder_quantity;not null;default:0"`
	RegulatoryInfo      *string         `gorm:"column:regulatory_info"`
	StorageRequirements *string         `gorm:"column:storage_requirements"`
	ShelfLifeMonths     *int            `gorm:"column:shelf_life_months"`
	ImageURL            *string         `gorm:"column:image_url"`
	IsActive            bool            `gorm:"column:is_active;not null;default:true"`
	Inventory           *Inventory      `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CreatedAt           time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt           time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
