package controllers

import (
	"net/http"

	"github.com/mazaohq/mazao-pos-backend/api/middleware"
	"github.com/mazaohq/mazao-pos-backend/api/responses"
	"github.com/mazaohq/mazao-pos-backend/api/validators"
	"github.com/mazaohq/mazao-pos-backend/internal/shops"
	"github.com/mazaohq/mazao-pos-backend/pkg/logger"
)

type updateShopRequest struct {
	Name          *string `json:"name,omitempty"`
	LogoURL       *string `json:"logo_url,omitempty" validate:"omitempty,url"`
	Address       *string `json:"address,omitempty"`
	Phone         *string `json:"phone,omitempty"`
	Email         *string `json:"email,omitempty" validate:"omitempty,email"`
	TaxID         *string `json:"tax_id,omitempty"`
	Currency      *string `json:"currency,omitempty" validate:"omitempty,len=3"`
	ReceiptFooter *string `json:"receipt_footer,omitempty"`
	ShopCode      *string `json:"shop_code,omitempty" validate:"omitempty,min=3,max=16"`
}

// ShopBranding resolves a shop code to the limited pre-login view.
func ShopBranding(service shops.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := validators.SanitizeString(r.URL.Query().Get("code"), 32)
		branding, err := service.GetBranding(r.Context(), code)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, branding)
	}
}

// ShopProfile returns the caller's shop settings.
func ShopProfile(service shops.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		shop, err := service.GetByID(r.Context(), middleware.ShopIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, shop)
	}
}

// ShopUpdate patches the caller's shop settings.
func ShopUpdate(service shops.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req updateShopRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		shop, err := service.UpdateSettings(r.Context(), middleware.ShopIDFromContext(r.Context()), shops.UpdateShopInput{
			Name:          req.Name,
			LogoURL:       req.LogoURL,
			Address:       req.Address,
			Phone:         req.Phone,
			Email:         req.Email,
			TaxID:         req.TaxID,
			Currency:      req.Currency,
			ReceiptFooter: req.ReceiptFooter,
			ShopCode:      req.ShopCode,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, shop)
	}
}
