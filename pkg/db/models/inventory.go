package models

import (
	"time"

	"github.com/google/uuid"
)

// Inventory holds the stock position for a product. There is at most one
// row per product. AvailableStock is derived as current minus reserved
// and is never persisted.
type Inventory struct {
	ID            uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID     uuid.UUID  `gorm:"column:product_id;type:uuid;not null;uniqueIndex"`
	CurrentStock  int        `gorm:"column:current_stock;not null;default:0"`
	ReservedStock int        `gorm:"column:reserved_stock;not null;default:0"`
	MaximumStock  int        `gorm:"column:maximum_stock;not null;default:0"`
	Location      *string    `gorm:"column:location"`
	BatchNumber   *string    `gorm:"column:batch_number"`
	ExpiryDate    *time.Time `gorm:"column:expiry_date"`
	SupplierID    *uuid.UUID `gorm:"column:supplier_id;type:uuid"`
	CreatedAt     time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName keeps the singular table name used by the schema.
func (Inventory) TableName() string {
	return "inventory"
}

// AvailableStock returns the sellable quantity.
func (i Inventory) AvailableStock() int {
	return i.CurrentStock - i.ReservedStock
}
