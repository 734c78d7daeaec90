package reports

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mazaohq/mazao-pos-backend/pkg/enums"
)

// SummaryInput selects the shop and period to report on. A zero From/To pair
// defaults to the last 30 days.
type SummaryInput struct {
	ShopID uuid.UUID
	From   time.Time
	To     time.Time
}

// Totals are the headline numbers for the period. Voided sales are excluded
// from revenue and counted separately.
type Totals struct {
	Transactions int64           `json:"transactions"`
	GrossSales   decimal.Decimal `json:"gross_sales"`
	Discounts    decimal.Decimal `json:"discounts"`
	NetSales     decimal.Decimal `json:"net_sales"`
	VoidedCount  int64           `json:"voided_count"`
}

// PaymentBreakdown is the per-method slice of the period's completed sales.
type PaymentBreakdown struct {
	Method enums.PaymentMethod `json:"method"`
	Count  int64               `json:"count"`
	Total  decimal.Decimal     `json:"total"`
}

// DayTotal is one day of the period's completed sales.
type DayTotal struct {
	Day   string          `json:"day"`
	Count int64           `json:"count"`
	Total decimal.Decimal `json:"total"`
}

// TopProduct ranks products by revenue over the period.
type TopProduct struct {
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	Revenue     decimal.Decimal `json:"revenue"`
}

// LowStockItem flags a product at or below its threshold right now.
type LowStockItem struct {
	ProductID uuid.UUID       `json:"product_id"`
	Name      string          `json:"name"`
	SKU       string          `json:"sku"`
	StockQty  decimal.Decimal `json:"stock_qty"`
	Threshold decimal.Decimal `json:"threshold"`
}

// Summary is the full report payload.
type Summary struct {
	From        time.Time          `json:"from"`
	To          time.Time          `json:"to"`
	Totals      Totals             `json:"totals"`
	ByPayment   []PaymentBreakdown `json:"by_payment"`
	ByDay       []DayTotal         `json:"by_day"`
	TopProducts []TopProduct       `json:"top_products"`
	LowStock    []LowStockItem     `json:"low_stock"`
}
