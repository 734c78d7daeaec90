package models

import (
	"time"

	"github.com/google/uuid"
)

// Shop represents the canonical tenant record for a single retail outlet.
type Shop struct {
	ID            uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name          string     `gorm:"column:name;not null"`
	LogoURL       *string    `gorm:"column:logo_url"`
	Address       *string    `gorm:"column:address"`
	Phone         *string    `gorm:"column:phone"`
	Email         *string    `gorm:"column:email"`
	TaxID         *string    `gorm:"column:tax_id"`
	Currency      string     `gorm:"column:currency;not null;default:'KES'"`
	ReceiptFooter *string    `gorm:"column:receipt_footer"`
	ShopCode      *string    `gorm:"column:shop_code;uniqueIndex"`
	CreatedAt     time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
