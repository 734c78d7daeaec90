package controllers

import (
	"net/http"

	"github.com/mazaohq/mazao-pos-backend/api/middleware"
	"github.com/mazaohq/mazao-pos-backend/api/responses"
	"github.com/mazaohq/mazao-pos-backend/api/validators"
	"github.com/mazaohq/mazao-pos-backend/internal/products"
	"github.com/mazaohq/mazao-pos-backend/pkg/enums"
	pkgerrors "github.com/mazaohq/mazao-pos-backend/pkg/errors"
	"github.com/mazaohq/mazao-pos-backend/pkg/logger"
	"github.com/mazaohq/mazao-pos-backend/pkg/pagination"
)

// ProductCreate adds a catalog item to the caller's shop.
func ProductCreate(service products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input products.CreateProductInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := service.Create(r.Context(), middleware.ShopIDFromContext(r.Context()), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, product)
	}
}

// ProductGet fetches one catalog item.
func ProductGet(service products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := service.Get(r.Context(), middleware.ShopIDFromContext(r.Context()), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

// ProductUpdate patches a catalog item.
func ProductUpdate(service products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var input products.UpdateProductInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := service.Update(r.Context(), middleware.ShopIDFromContext(r.Context()), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

// ProductList pages through the shop catalog with optional filters.
func ProductList(service products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		limit, err := validators.ParseQueryInt(r, "limit", 0, 0, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		lowStock, err := validators.ParseQueryBool(r, "low_stock")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		inactive, err := validators.ParseQueryBool(r, "include_inactive")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		filters := products.ListFilters{
			Query:    validators.SanitizeString(r.URL.Query().Get("q"), 100),
			LowStock: lowStock,
			Inactive: inactive,
		}
		if raw := validators.SanitizeString(r.URL.Query().Get("category"), 32); raw != "" {
			category, err := enums.ParseProductCategory(raw)
			if err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid category"))
				return
			}
			filters.Category = &category
		}

		page, err := service.List(ctx, products.ListInput{
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

// ProductReceiveStock records an incoming batch and merges its cost into the
// on-hand weighted average.
func ProductReceiveStock(service products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var input products.ReceiveStockInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctx := r.Context()
		product, err := service.ReceiveStock(ctx, middleware.ShopIDFromContext(ctx), id, middleware.UserIDFromContext(ctx), input)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}
