package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StockReceipt records an incoming batch merged into a product's on-hand
// stock. CostBefore/CostAfter capture the weighted-average merge result.
type StockReceipt struct {
	ID         uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ShopID     uuid.UUID       `gorm:"column:shop_id;type:uuid;not null;index"`
	ProductID  uuid.UUID       `gorm:"column:product_id;type:uuid;not null;index"`
	ReceivedBy uuid.UUID       `gorm:"column:received_by;type:uuid;not null"`
	Quantity   decimal.Decimal `gorm:"column:quantity;type:numeric(12,3);not null"`
	UnitCost   decimal.Decimal `gorm:"column:unit_cost;type:numeric(12,4);not null"`
	CostBefore decimal.Decimal `gorm:"column:cost_before;type:numeric(12,4);not null"`
	CostAfter  decimal.Decimal `gorm:"column:cost_after;type:numeric(12,4);not null"`
	Supplier   *string         `gorm:"column:supplier"`
	CreatedAt  time.Time       `gorm:"column:created_at;autoCreateTime"`
}
