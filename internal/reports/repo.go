package reports

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	totalsSQL = `
SELECT
  COUNT(*) FILTER (WHERE status = 'completed')                  AS transactions,
  COALESCE(SUM(subtotal) FILTER (WHERE status = 'completed'), 0) AS gross_sales,
  COALESCE(SUM(discount) FILTER (WHERE status = 'completed'), 0) AS discounts,
  COALESCE(SUM(total) FILTER (WHERE status = 'completed'), 0)    AS net_sales,
  COUNT(*) FILTER (WHERE status = 'voided')                     AS voided_count
FROM sales
WHERE shop_id = ? AND created_at >= ? AND created_at < ?
`

	paymentBreakdownSQL = `
SELECT payment_method AS method, COUNT(*) AS count, COALESCE(SUM(total), 0) AS total
FROM sales
WHERE shop_id = ? AND status = 'completed' AND created_at >= ? AND created_at < ?
GROUP BY payment_method
ORDER BY total DESC
`

	dailyTotalsSQL = `
SELECT TO_CHAR(DATE_TRUNC('day', created_at), 'YYYY-MM-DD') AS day,
       COUNT(*) AS count,
       COALESCE(SUM(total), 0) AS total
FROM sales
WHERE shop_id = ? AND status = 'completed' AND created_at >= ? AND created_at < ?
GROUP BY day
ORDER BY day ASC
`

	topProductsSQL = `
SELECT si.product_id, si.product_name, COALESCE(SUM(si.line_total), 0) AS revenue
FROM sale_items si
JOIN sales s ON s.id = si.sale_id
WHERE s.shop_id = ? AND s.status = 'completed' AND s.created_at >= ? AND s.created_at < ?
GROUP BY si.product_id, si.product_name
ORDER BY revenue DESC
LIMIT ?
`

	lowStockSQL = `
SELECT id AS product_id, name, sku, stock_qty, low_stock_threshold AS threshold
FROM products
WHERE shop_id = ? AND is_active = TRUE AND stock_qty <= low_stock_threshold
ORDER BY stock_qty ASC
LIMIT ?
`
)

// Repository runs the report aggregation queries.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Totals returns the headline numbers for a shop over [from, to).
func (r *Repository) Totals(ctx context.Context, shopID uuid.UUID, from, to time.Time) (*Totals, error) {
	var totals Totals
	err := r.db.WithContext(ctx).
		Raw(totalsSQL, shopID, from, to).
		Scan(&totals).Error
	if err != nil {
		return nil, err
	}
	return &totals, nil
}

// PaymentBreakdown splits completed sales by payment method.
func (r *Repository) PaymentBreakdown(ctx context.Context, shopID uuid.UUID, from, to time.Time) ([]PaymentBreakdown, error) {
	var rows []PaymentBreakdown
	err := r.db.WithContext(ctx).
		Raw(paymentBreakdownSQL, shopID, from, to).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// DailyTotals buckets completed sales per day.
func (r *Repository) DailyTotals(ctx context.Context, shopID uuid.UUID, from, to time.Time) ([]DayTotal, error) {
	var rows []DayTotal
	err := r.db.WithContext(ctx).
		Raw(dailyTotalsSQL, shopID, from, to).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// TopProducts ranks products by revenue over the period.
func (r *Repository) TopProducts(ctx context.Context, shopID uuid.UUID, from, to time.Time, limit int) ([]TopProduct, error) {
	var rows []TopProduct
	err := r.db.WithContext(ctx).
		Raw(topProductsSQL, shopID, from, to, limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// LowStockProducts lists active products at or below their threshold.
func (r *Repository) LowStockProducts(ctx context.Context, shopID uuid.UUID, limit int) ([]LowStockItem, error) {
	var rows []LowStockItem
	err := r.db.WithContext(ctx).
		Raw(lowStockSQL, shopID, limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
