package models

import (
	"time"

	"github.com/google/uuid"
)

// Supplier represents a sourcing vendor referenced by inventory rows.
type Supplier struct {
	ID            uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name          string    `gorm:"column:name;not null"`
	ContactPerson *string   `gorm:"column:contact_person"`
	Email         *string   `gorm:"column:email"`
	Phone         *string   `gorm:"column:phone"`
	Address       *string   `gorm:"column:address"`
	City          *string   `gorm:"column:city"`
	PostalCode    *string   `gorm:"column:postal_code"`
	Country       *string   `gorm:"column:country"`
	IsActive      bool      `gorm:"column:is_active;not null;default:true"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
