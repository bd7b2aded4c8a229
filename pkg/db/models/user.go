package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/medsup-innovation/medsup-backend/pkg/enums"
)

// User represents a back-office operator account.
type User struct {
	ID           uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Email        string         `gorm:"type:text;not null;uniqueIndex"`
	PasswordHash string         `gorm:"column:password_hash;not null"`
	Name         string         `gorm:"column:name;not null"`
	Role         enums.UserRole `gorm:"column:role;type:text;not null;default:'viewer'"`
	IsActive     bool           `gorm:"column:is_active;not null;default:true"`
	LastLoginAt  *time.Time     `gorm:"column:last_login_at"`
	CreatedAt    time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}
