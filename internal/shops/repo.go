package shops

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mazaohq/mazao-pos-backend/pkg/db/models"
)

// Repository exposes shop-related persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a shops repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new shop and returns the persisted model.
func (r *Repository) Create(ctx context.Context, dto CreateShopDTO) (*models.Shop, error) {
	shop := dto.ToModel()
	if err := r.db.WithContext(ctx).Create(shop).Error; err != nil {
		return nil, err
	}
	return shop, nil
}

// FindByID loads a shop by its UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Shop, error) {
	var shop models.Shop
	if err := r.db.WithContext(ctx).First(&shop, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &shop, nil
}

// FindByCode resolves a shop by its human-entered code, case-insensitively.
func (r *Repository) FindByCode(ctx context.Context, code string) (*models.Shop, error) {
	var shop models.Shop
	err := r.db.WithContext(ctx).
		Where("LOWER(shop_code) = ?", strings.ToLower(strings.TrimSpace(code))).
		First(&shop).Error
	if err != nil {
		return nil, err
	}
	return &shop, nil
}

// Update persists the full shop row.
func (r *Repository) Update(ctx context.Context, shop *models.Shop) error {
	return r.db.WithContext(ctx).Save(shop).Error
}
