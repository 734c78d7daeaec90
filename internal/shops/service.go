package shops

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mazaohq/mazao-pos-backend/pkg/db"
	"github.com/mazaohq/mazao-pos-backend/pkg/db/models"
	pkgerrors "github.com/mazaohq/mazao-pos-backend/pkg/errors"
)

type shopRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Shop, error)
	FindByCode(ctx context.Context, code string) (*models.Shop, error)
	Update(ctx context.Context, shop *models.Shop) error
}

// Service exposes shop operations.
type Service interface {
	GetByID(ctx context.Context, id uuid.UUID) (*ShopDTO, error)
	GetBranding(ctx context.Context, code string) (*BrandingDTO, error)
	UpdateSettings(ctx context.Context, shopID uuid.UUID, input UpdateShopInput) (*ShopDTO, error)
}

type service struct {
	repo shopRepository
}

// NewService builds a shop service with the provided repository.
func NewService(repo shopRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("shop repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*ShopDTO, error) {
	shop, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "shop not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load shop")
	}
	return FromModel(shop), nil
}

// GetBranding resolves the pre-login shop view by code. Unknown codes map to
// a plain not-found; no detail beyond that is exposed.
func (s *service) GetBranding(ctx context.Context, code string) (*BrandingDTO, error) {
	if strings.TrimSpace(code) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "shop code is required")
	}
	shop, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "shop not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup shop code")
	}
	return BrandingFromModel(shop), nil
}

func (s *service) UpdateSettings(ctx context.Context, shopID uuid.UUID, input UpdateShopInput) (*ShopDTO, error) {
	shop, err := s.repo.FindByID(ctx, shopID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "shop not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load shop")
	}

	applyShopInput(shop, input)

	if shop.Name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "shop name cannot be empty")
	}

	if err := s.repo.Update(ctx, shop); err != nil {
		if db.IsUniqueViolation(err) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "shop code already in use")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update shop")
	}
	return FromModel(shop), nil
}

func applyShopInput(shop *models.Shop, input UpdateShopInput) {
	if input.Name != nil {
		shop.Name = strings.TrimSpace(*input.Name)
	}
	if input.LogoURL != nil {
		shop.LogoURL = input.LogoURL
	}
	if input.Address != nil {
		shop.Address = input.Address
	}
	if input.Phone != nil {
		shop.Phone = input.Phone
	}
	if input.Email != nil {
		shop.Email = input.Email
	}
	if input.TaxID != nil {
		shop.TaxID = input.TaxID
	}
	if input.Currency != nil && *input.Currency != "" {
		shop.Currency = strings.ToUpper(*input.Currency)
	}
	if input.ReceiptFooter != nil {
		shop.ReceiptFooter = input.ReceiptFooter
	}
	if input.ShopCode != nil {
		trimmed := strings.ToUpper(strings.TrimSpace(*input.ShopCode))
		if trimmed == "" {
			shop.ShopCode = nil
		} else {
			shop.ShopCode = &trimmed
		}
	}
}
