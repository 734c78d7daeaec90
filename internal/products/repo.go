package products

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/mazaohq/mazao-pos-backend/pkg/db/models"
	"github.com/mazaohq/mazao-pos-backend/pkg/pagination"
)

// Repository wires together product and stock-receipt persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// Create inserts a product row.
func (r *Repository) Create(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// FindByID loads the product without associations.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// FindForShop loads the product and verifies shop ownership in one query.
func (r *Repository) FindForShop(ctx context.Context, shopID, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		First(&product, "id = ? AND shop_id = ?", id, shopID).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// Update persists the full product row.
func (r *Repository) Update(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Save(product).Error
}

// List returns one keyset page of a shop's catalog, newest first. It fetches
// limit+1 rows so the caller can detect whether another page exists.
func (r *Repository) List(ctx context.Context, input ListInput) ([]models.Product, error) {
	limit := pagination.LimitWithBuffer(input.Pagination.Limit)

	q := r.db.WithContext(ctx).
		Where("shop_id = ?", input.ShopID).
		Order("created_at DESC, id DESC").
		Limit(limit)

	if !input.Filters.Inactive {
		q = q.Where("is_active = ?", true)
	}
	if input.Filters.Category != nil {
		q = q.Where("category = ?", *input.Filters.Category)
	}
	if input.Filters.LowStock {
		q = q.Where("stock_qty <= low_stock_threshold")
	}
	if term := strings.TrimSpace(input.Filters.Query); term != "" {
		like := "%" + strings.ToLower(term) + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(sku) LIKE ?", like, like)
	}

	cursor, err := pagination.ParseCursor(input.Pagination.Cursor)
	if err != nil {
		return nil, err
	}
	if cursor != nil {
		q = q.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}

	var rows []models.Product
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// AdjustStock applies a signed delta to the product's on-hand quantity.
func (r *Repository) AdjustStock(ctx context.Context, id uuid.UUID, delta decimal.Decimal) error {
	return r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", id).
		UpdateColumn("stock_qty", gorm.Expr("stock_qty + ?", delta)).Error
}

// CreateReceipt inserts a stock receipt row.
func (r *Repository) CreateReceipt(ctx context.Context, receipt *models.StockReceipt) error {
	return r.db.WithContext(ctx).Create(receipt).Error
}

// DeleteReceiptsOlderThan trims the stock receipt audit trail. Used by the
// retention job; tx may be nil outside a transaction.
func (r *Repository) DeleteReceiptsOlderThan(ctx context.Context, tx *gorm.DB, cutoff time.Time) (int64, error) {
	db := r.db
	if tx != nil {
		db = tx
	}
	res := db.WithContext(ctx).
		Where("created_at < ?", cutoff).
		Delete(&models.StockReceipt{})
	return res.RowsAffected, res.Error
}

// ListReceipts returns the receipt history for a product, newest first.
func (r *Repository) ListReceipts(ctx context.Context, productID uuid.UUID) ([]models.StockReceipt, error) {
	var rows []models.StockReceipt
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
