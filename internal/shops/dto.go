package shops

import (
	"time"

	"github.com/google/uuid"

	"github.com/mazaohq/mazao-pos-backend/pkg/db/models"
)

// ShopDTO exposes full tenant data to authenticated staff.
type ShopDTO struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	LogoURL       *string   `json:"logo_url,omitempty"`
	Address       *string   `json:"address,omitempty"`
	Phone         *string   `json:"phone,omitempty"`
	Email         *string   `json:"email,omitempty"`
	TaxID         *string   `json:"tax_id,omitempty"`
	Currency      string    `json:"currency"`
	ReceiptFooter *string   `json:"receipt_footer,omitempty"`
	ShopCode      *string   `json:"shop_code,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// BrandingDTO is the limited pre-login view resolved by shop code. It
// deliberately omits contact and tax details.
type BrandingDTO struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	LogoURL  *string   `json:"logo_url,omitempty"`
	Currency string    `json:"currency"`
}

// CreateShopDTO holds creation-time data for a new shop.
type CreateShopDTO struct {
	Name          string
	LogoURL       *string
	Address       *string
	Phone         *string
	Email         *string
	TaxID         *string
	Currency      *string
	ReceiptFooter *string
	ShopCode      *string
}

// UpdateShopInput captures the settings fields a shop admin may change.
// Nil pointers leave the stored value untouched.
type UpdateShopInput struct {
	Name          *string
	LogoURL       *string
	Address       *string
	Phone         *string
	Email         *string
	TaxID         *string
	Currency      *string
	ReceiptFooter *string
	ShopCode      *string
}

// FromModel maps the persisted shop into a DTO.
func FromModel(m *models.Shop) *ShopDTO {
	if m == nil {
		return nil
	}
	return &ShopDTO{
		ID:            m.ID,
		Name:          m.Name,
		LogoURL:       m.LogoURL,
		Address:       m.Address,
		Phone:         m.Phone,
		Email:         m.Email,
		TaxID:         m.TaxID,
		Currency:      m.Currency,
		ReceiptFooter: m.ReceiptFooter,
		ShopCode:      m.ShopCode,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

// BrandingFromModel maps the persisted shop into the pre-login view.
func BrandingFromModel(m *models.Shop) *BrandingDTO {
	if m == nil {
		return nil
	}
	return &BrandingDTO{
		ID:       m.ID,
		Name:     m.Name,
		LogoURL:  m.LogoURL,
		Currency: m.Currency,
	}
}

func (c CreateShopDTO) ToModel() *models.Shop {
	currency := "KES"
	if c.Currency != nil && *c.Currency != "" {
		currency = *c.Currency
	}
	return &models.Shop{
		Name:          c.Name,
		LogoURL:       c.LogoURL,
		Address:       c.Address,
		Phone:         c.Phone,
		Email:         c.Email,
		TaxID:         c.TaxID,
		Currency:      currency,
		ReceiptFooter: c.ReceiptFooter,
		ShopCode:      c.ShopCode,
	}
}
