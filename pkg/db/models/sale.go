package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mazaohq/mazao-pos-backend/pkg/enums"
)

// Sale is a completed checkout transaction.
type Sale struct {
	ID            uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ShopID        uuid.UUID           `gorm:"column:shop_id;type:uuid;not null;index"`
	CashierID     uuid.UUID           `gorm:"column:cashier_id;type:uuid;not null"`
	ReceiptNumber string              `gorm:"column:receipt_number;not null;uniqueIndex"`
	Status        enums.SaleStatus    `gorm:"column:status;type:sale_status;not null;default:'completed'"`
	PaymentMethod enums.PaymentMethod `gorm:"column:payment_method;type:payment_method;not null"`
	Subtotal      decimal.Decimal     `gorm:"column:subtotal;type:numeric(12,2);not null"`
	Discount      decimal.Decimal     `gorm:"column:discount;type:numeric(12,2);not null;default:0"`
	Total         decimal.Decimal     `gorm:"column:total;type:numeric(12,2);not null"`
	AmountPaid    decimal.Decimal     `gorm:"column:amount_paid;type:numeric(12,2);not null"`
	Change        decimal.Decimal     `gorm:"column:change;type:numeric(12,2);not null;default:0"`
	Note          *string             `gorm:"column:note"`
	VoidedAt      *time.Time          `gorm:"column:voided_at"`
	VoidedBy      *uuid.UUID          `gorm:"column:voided_by;type:uuid"`
	Items         []SaleItem          `gorm:"foreignKey:SaleID;constraint:OnDelete:CASCADE"`
	CreatedAt     time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
