package controllers

import (
	"net/http"

	"github.com/mazaohq/mazao-pos-backend/api/middleware"
	"github.com/mazaohq/mazao-pos-backend/api/responses"
	"github.com/mazaohq/mazao-pos-backend/api/validators"
	"github.com/mazaohq/mazao-pos-backend/internal/sales"
	"github.com/mazaohq/mazao-pos-backend/pkg/enums"
	pkgerrors "github.com/mazaohq/mazao-pos-backend/pkg/errors"
	"github.com/mazaohq/mazao-pos-backend/pkg/logger"
	"github.com/mazaohq/mazao-pos-backend/pkg/pagination"
)

// SaleCheckout prices the cart, takes stock and records the sale.
func SaleCheckout(service sales.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input sales.CheckoutInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctx := r.Context()
		sale, err := service.Checkout(ctx, middleware.ShopIDFromContext(ctx), middleware.UserIDFromContext(ctx), input)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, sale)
	}
}

// SaleDetail fetches one sale with its line items.
func SaleDetail(service sales.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "saleId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		sale, err := service.Get(r.Context(), middleware.ShopIDFromContext(r.Context()), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, sale)
	}
}

// SaleList pages through the shop's sales history with optional filters.
func SaleList(service sales.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		limit, err := validators.ParseQueryInt(r, "limit", 0, 0, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		cashierID, err := validators.ParseQueryUUID(r, "cashier_id")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		from, err := validators.ParseQueryTime(r, "from")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		to, err := validators.ParseQueryTime(r, "to")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		filters := sales.ListFilters{
			CashierID: cashierID,
			From:      from,
			To:        to,
		}
		if raw := validators.SanitizeString(r.URL.Query().Get("payment_method"), 16); raw != "" {
			method, err := enums.ParsePaymentMethod(raw)
			if err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payment method"))
				return
			}
			filters.PaymentMethod = &method
		}
		if raw := validators.SanitizeString(r.URL.Query().Get("status"), 16); raw != "" {
			status, err := enums.ParseSaleStatus(raw)
			if err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status"))
				return
			}
			filters.Status = &status
		}

		page, err := service.List(ctx, sales.ListInput{
			ShopID:  middleware.ShopIDFromContext(ctx),
			Filters: filters,
			Pagination: pagination.Params{
				Limit:  limit,
				Cursor: validators.SanitizeString(r.URL.Query().Get("cursor"), 200),
			},
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}

// SaleVoid cancels a completed sale and returns its stock.
func SaleVoid(service sales.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "saleId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctx := r.Context()
		sale, err := service.Void(ctx, middleware.ShopIDFromContext(ctx), id, middleware.UserIDFromContext(ctx))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, sale)
	}
}
