package shops

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mazaohq/mazao-pos-backend/pkg/db/models"
	pkgerrors "github.com/mazaohq/mazao-pos-backend/pkg/errors"
)

type stubShopRepo struct {
	shop    *models.Shop
	err     error
	updated *models.Shop
}

func (s *stubShopRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Shop, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.shop, nil
}

func (s *stubShopRepo) FindByCode(_ context.Context, code string) (*models.Shop, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.shop, nil
}

func (s *stubShopRepo) Update(_ context.Context, shop *models.Shop) error {
	if s.err != nil {
		return s.err
	}
	s.updated = shop
	return nil
}

func baseShop() *models.Shop {
	logo := "https://cdn.mazao.app/logo.png"
	code := "AGRI1"
	footer := "Asante, karibu tena!"
	return &models.Shop{
		ID:            uuid.New(),
		Name:          "Kilimo Agrovet",
		LogoURL:       &logo,
		Currency:      "KES",
		ReceiptFooter: &footer,
		ShopCode:      &code,
	}
}

func TestNewServiceRequiresRepo(t *testing.T) {
	if _, err := NewService(nil); err == nil {
		t.Fatal("expected error creating service without repo")
	}
}

func TestGetBrandingOmitsSensitiveFields(t *testing.T) {
	shop := baseShop()
	taxID := "P0123456X"
	shop.TaxID = &taxID

	svc, err := NewService(&stubShopRepo{shop: shop})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	dto, err := svc.GetBranding(context.Background(), "agri1")
	if err != nil {
		t.Fatalf("get branding: %v", err)
	}
	if dto.Name != shop.Name {
		t.Fatalf("expected name %s got %s", shop.Name, dto.Name)
	}
	if dto.LogoURL == nil || *dto.LogoURL != *shop.LogoURL {
		t.Fatalf("logo not carried over")
	}
}

func TestGetBrandingValidation(t *testing.T) {
	svc, _ := NewService(&stubShopRepo{shop: baseShop()})

	_, err := svc.GetBranding(context.Background(), "   ")
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestGetBrandingNotFound(t *testing.T) {
	svc, _ := NewService(&stubShopRepo{err: gorm.ErrRecordNotFound})

	_, err := svc.GetBranding(context.Background(), "ZZZZZ")
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestUpdateSettingsAppliesPatch(t *testing.T) {
	shop := baseShop()
	repo := &stubShopRepo{shop: shop}
	svc, _ := NewService(repo)

	name := "Kilimo Agrovet Ltd"
	currency := "ugx"
	code := " duka2 "
	dto, err := svc.UpdateSettings(context.Background(), shop.ID, UpdateShopInput{
		Name:     &name,
		Currency: &currency,
		ShopCode: &code,
	})
	if err != nil {
		t.Fatalf("update settings: %v", err)
	}
	if dto.Name != "Kilimo Agrovet Ltd" {
		t.Fatalf("name not applied: %s", dto.Name)
	}
	if dto.Currency != "UGX" {
		t.Fatalf("currency should be upper-cased: %s", dto.Currency)
	}
	if dto.ShopCode == nil || *dto.ShopCode != "DUKA2" {
		t.Fatalf("shop code should be trimmed and upper-cased: %v", dto.ShopCode)
	}
	if repo.updated == nil {
		t.Fatalf("update never reached the repo")
	}
}

func TestUpdateSettingsRejectsEmptyName(t *testing.T) {
	shop := baseShop()
	svc, _ := NewService(&stubShopRepo{shop: shop})

	blank := "   "
	_, err := svc.UpdateSettings(context.Background(), shop.ID, UpdateShopInput{Name: &blank})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUpdateSettingsDependencyError(t *testing.T) {
	svc, _ := NewService(&stubShopRepo{err: errors.New("boom")})

	_, err := svc.UpdateSettings(context.Background(), uuid.New(), UpdateShopInput{})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}
}
