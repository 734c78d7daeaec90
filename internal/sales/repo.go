package sales

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/mazaohq/mazao-pos-backend/pkg/db/models"
	"github.com/mazaohq/mazao-pos-backend/pkg/pagination"
)

// Repository covers sale persistence plus the stock moves that happen inside
// a checkout or void transaction.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateSale(ctx context.Context, sale *models.Sale) error
	FindForShop(ctx context.Context, shopID, id uuid.UUID) (*models.Sale, error)
	List(ctx context.Context, input ListInput) ([]models.Sale, error)
	MarkVoided(ctx context.Context, sale *models.Sale) error
	LoadProducts(ctx context.Context, shopID uuid.UUID, ids []uuid.UUID) (map[uuid.UUID]*models.Product, error)
	TakeStock(ctx context.Context, productID uuid.UUID, qty decimal.Decimal) (bool, error)
	ReturnStock(ctx context.Context, productID uuid.UUID, qty decimal.Decimal) error
}

type gormRepository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) WithTx(tx *gorm.DB) Repository {
	return &gormRepository{db: tx}
}

func (r *gormRepository) CreateSale(ctx context.Context, sale *models.Sale) error {
	return r.db.WithContext(ctx).Create(sale).Error
}

func (r *gormRepository) FindForShop(ctx context.Context, shopID, id uuid.UUID) (*models.Sale, error) {
	var sale models.Sale
	err := r.db.WithContext(ctx).
		Preload("Items").
		First(&sale, "id = ? AND shop_id = ?", id, shopID).Error
	if err != nil {
		return nil, err
	}
	return &sale, nil
}

// List returns one keyset page of sales, newest first, limit+1 rows.
func (r *gormRepository) List(ctx context.Context, input ListInput) ([]models.Sale, error) {
	limit := pagination.LimitWithBuffer(input.Pagination.Limit)

	q := r.db.WithContext(ctx).
		Preload("Items").
		Where("shop_id = ?", input.ShopID).
		Order("created_at DESC, id DESC").
		Limit(limit)

	if input.Filters.CashierID != nil {
		q = q.Where("cashier_id = ?", *input.Filters.CashierID)
	}
	if input.Filters.PaymentMethod != nil {
		q = q.Where("payment_method = ?", *input.Filters.PaymentMethod)
	}
	if input.Filters.Status != nil {
		q = q.Where("status = ?", *input.Filters.Status)
	}
	if input.Filters.From != nil {
		q = q.Where("created_at >= ?", *input.Filters.From)
	}
	if input.Filters.To != nil {
		q = q.Where("created_at < ?", *input.Filters.To)
	}

	cursor, err := pagination.ParseCursor(input.Pagination.Cursor)
	if err != nil {
		return nil, err
	}
	if cursor != nil {
		q = q.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}

	var rows []models.Sale
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *gormRepository) MarkVoided(ctx context.Context, sale *models.Sale) error {
	return r.db.WithContext(ctx).
		Model(&models.Sale{}).
		Where("id = ?", sale.ID).
		Updates(map[string]any{
			"status":    sale.Status,
			"voided_at": sale.VoidedAt,
			"voided_by": sale.VoidedBy,
		}).Error
}

func (r *gormRepository) LoadProducts(ctx context.Context, shopID uuid.UUID, ids []uuid.UUID) (map[uuid.UUID]*models.Product, error) {
	var rows []models.Product
	err := r.db.WithContext(ctx).
		Where("shop_id = ? AND id IN ?", shopID, ids).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*models.Product, len(rows))
	for i := range rows {
		byID[rows[i].ID] = &rows[i]
	}
	return byID, nil
}

// TakeStock decrements on-hand stock with a guard so concurrent checkouts
// cannot oversell. Returns false when there was not enough stock.
func (r *gormRepository) TakeStock(ctx context.Context, productID uuid.UUID, qty decimal.Decimal) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ? AND stock_qty >= ?", productID, qty).
		UpdateColumn("stock_qty", gorm.Expr("stock_qty - ?", qty))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *gormRepository) ReturnStock(ctx context.Context, productID uuid.UUID, qty decimal.Decimal) error {
	return r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", productID).
		UpdateColumn("stock_qty", gorm.Expr("stock_qty + ?", qty)).Error
}
