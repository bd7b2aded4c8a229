package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/medsup-innovation/medsup-backend/pkg/enums"
)

// Order represents a customer order header. Money columns are captured
// at creation time and recomputed on item changes.
type Order struct {
	ID             uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderNumber    string            `gorm:"column:order_number;not null;uniqueIndex"`
	CustomerID     uuid.UUID         `gorm:"column:customer_id;type:uuid;not null"`
	OrderDate      time.Time         `gorm:"column:order_date;not null"`
	RequiredDate   *time.Time        `gorm:"column:required_date"`
	Status         enums.OrderStatus `gorm:"column:status;type:text;not null;default:'pending'"`
	Subtotal       decimal.Decimal   `gorm:"column:subtotal;type:numeric(12,2);not null;default:0"`
	TaxAmount      decimal.Decimal   `gorm:"column:tax_amount;type:numeric(12,2);not null;default:0"`
	ShippingAmount decimal.Decimal   `gorm:"column:shipping_amount;type:numeric(12,2);not null;default:0"`
	TotalAmount    decimal.Decimal   `gorm:"column:total_amount;type:numeric(12,2);not null;default:0"`
	Notes          *string           `gorm:"column:notes"`
	Items          []OrderItem       `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt      time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
