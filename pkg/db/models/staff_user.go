package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/mazaohq/mazao-pos-backend/pkg/enums"
)

// StaffUser is a shop employee who can sign in at the till.
type StaffUser struct {
	ID           uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Email        string          `gorm:"column:email;type:text;not null;uniqueIndex"`
	PasswordHash string          `gorm:"column:password_hash;not null"`
	FullName     string          `gorm:"column:full_name;not null"`
	Phone        *string         `gorm:"column:phone"`
	ShopID       uuid.UUID       `gorm:"column:shop_id;type:uuid;not null"`
	Role         enums.StaffRole `gorm:"column:role;type:staff_role;not null"`
	IsActive     bool            `gorm:"column:is_active;not null;default:true"`
	PIN          *string         `gorm:"column:pin"`
	LastLoginAt  *time.Time      `gorm:"column:last_login_at"`
	CreatedAt    time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
