package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/medsup-innovation/medsup-backend/pkg/enums"
)

// Customer represents a buying institution.
type Customer struct {
	ID            uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name          string             `gorm:"column:name;not null"`
	Type          enums.CustomerType `gorm:"column:type;type:text;not null;default:'other'"`
	ContactPerson *string            `gorm:"column:contact_person"`
	Email         *string            `gorm:"column:email"`
	Phone         *string            `gorm:"column:phone"`
	Address       *string            `gorm:"column:address"`
	City          *string            `gorm:"column:city"`
	PostalCode    *string            `gorm:"column:postal_code"`
	Country       *string            `gorm:"column:country"`
	TaxNumber     *string            `gorm:"column:tax_number"`
	PaymentTerms  *string            `gorm:"column:payment_terms"`
	CreditLimit   decimal.Decimal    `gorm:"column:credit_limit;type:numeric(12,2);not null;default:0"`
	IsActive      bool               `gorm:"column:is_active;not null;default:true"`
	CreatedAt     time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}
