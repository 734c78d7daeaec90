package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/mazaohq/mazao-pos-backend/pkg/enums"
)

// Product is a catalog item owned by a shop. Bulk items sold by weight carry
// a PricePerKg alongside the per-unit price; UnitCost is the weighted-average
// acquisition cost maintained by stock receipts.
type Product struct {
	ID                uuid.UUID             `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ShopID            uuid.UUID             `gorm:"column:shop_id;type:uuid;not null;index"`
	SKU               string                `gorm:"column:sku;not null"`
	Name              string                `gorm:"column:name;not null"`
	Description       *string               `gorm:"column:description"`
	Category          enums.ProductCategory `gorm:"column:category;type:product_category;not null"`
	Unit              enums.ProductUnit     `gorm:"column:unit;type:product_unit;not null"`
	Price             decimal.Decimal       `gorm:"column:price;type:numeric(12,2);not null"`
	PricePerKg        *decimal.Decimal      `gorm:"column:price_per_kg;type:numeric(12,2)"`
	UnitCost          decimal.Decimal       `gorm:"column:unit_cost;type:numeric(12,4);not null;default:0"`
	StockQty          decimal.Decimal       `gorm:"column:stock_qty;type:numeric(12,3);not null;default:0"`
	LowStockThreshold decimal.Decimal       `gorm:"column:low_stock_threshold;type:numeric(12,3);not null;default:0"`
	Tags              pq.StringArray        `gorm:"column:tags;type:text[]"`
	IsActive          bool                  `gorm:"column:is_active;not null;default:true"`
	CreatedAt         time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}
