package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mazaohq/mazao-pos-backend/pkg/enums"
)

// SaleItem is one line of a sale. Quantity lines use Quantity and UnitPrice;
// bulk lines record the entry mode plus the derived weight and amount.
type SaleItem struct {
	ID          uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	SaleID      uuid.UUID           `gorm:"column:sale_id;type:uuid;not null;index"`
	ProductID   uuid.UUID           `gorm:"column:product_id;type:uuid;not null"`
	ProductName string              `gorm:"column:product_name;not null"`
	EntryMode   enums.LineEntryMode `gorm:"column:entry_mode;type:line_entry_mode;not null"`
	Quantity    decimal.Decimal     `gorm:"column:quantity;type:numeric(12,3);not null;default:0"`
	WeightKg    *decimal.Decimal    `gorm:"column:weight_kg;type:numeric(12,3)"`
	UnitPrice   decimal.Decimal     `gorm:"column:unit_price;type:numeric(12,2);not null"`
	LineTotal   decimal.Decimal     `gorm:"column:line_total;type:numeric(12,2);not null"`
}
