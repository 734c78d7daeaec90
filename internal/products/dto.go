package products

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mazaohq/mazao-pos-backend/pkg/db/models"
	"github.com/mazaohq/mazao-pos-backend/pkg/enums"
	"github.com/mazaohq/mazao-pos-backend/pkg/pagination"
)

// ProductDTO is the transport shape for catalog items.
type ProductDTO struct {
	ID                uuid.UUID             `json:"id"`
	ShopID            uuid.UUID             `json:"shop_id"`
	SKU               string                `json:"sku"`
	Name              string                `json:"name"`
	Description       *string               `json:"description,omitempty"`
	Category          enums.ProductCategory `json:"category"`
	Unit              enums.ProductUnit     `json:"unit"`
	Price             decimal.Decimal       `json:"price"`
	PricePerKg        *decimal.Decimal      `json:"price_per_kg,omitempty"`
	UnitCost          decimal.Decimal       `json:"unit_cost"`
	StockQty          decimal.Decimal       `json:"stock_qty"`
	LowStockThreshold decimal.Decimal       `json:"low_stock_threshold"`
	LowStock          bool                  `json:"low_stock"`
	Tags              []string              `json:"tags,omitempty"`
	IsActive          bool                  `json:"is_active"`
	CreatedAt         time.Time             `json:"created_at"`
	UpdatedAt         time.Time             `json:"updated_at"`
}

// CreateProductInput captures the fields needed to add a catalog item.
type CreateProductInput struct {
	SKU               string                `json:"sku" validate:"required"`
	Name              string                `json:"name" validate:"required"`
	Description       *string               `json:"description,omitempty"`
	Category          enums.ProductCategory `json:"category" validate:"required"`
	Unit              enums.ProductUnit     `json:"unit" validate:"required"`
	Price             decimal.Decimal       `json:"price"`
	PricePerKg        *decimal.Decimal      `json:"price_per_kg,omitempty"`
	StockQty          *decimal.Decimal      `json:"stock_qty,omitempty"`
	UnitCost          *decimal.Decimal      `json:"unit_cost,omitempty"`
	LowStockThreshold *decimal.Decimal      `json:"low_stock_threshold,omitempty"`
	Tags              []string              `json:"tags,omitempty"`
}

// UpdateProductInput patches mutable product fields. Nil pointers leave the
// stored value untouched.
type UpdateProductInput struct {
	Name              *string                `json:"name,omitempty"`
	Description       *string                `json:"description,omitempty"`
	Category          *enums.ProductCategory `json:"category,omitempty"`
	Price             *decimal.Decimal       `json:"price,omitempty"`
	PricePerKg        *decimal.Decimal       `json:"price_per_kg,omitempty"`
	LowStockThreshold *decimal.Decimal       `json:"low_stock_threshold,omitempty"`
	Tags              *[]string              `json:"tags,omitempty"`
	IsActive          *bool                  `json:"is_active,omitempty"`
}

// ReceiveStockInput records an incoming batch for a product.
type ReceiveStockInput struct {
	Quantity decimal.Decimal `json:"quantity" validate:"required"`
	UnitCost decimal.Decimal `json:"unit_cost"`
	Supplier *string         `json:"supplier,omitempty"`
}

// ListFilters describe the supported filter knobs for the catalog endpoint.
type ListFilters struct {
	Category *enums.ProductCategory `json:"category,omitempty"`
	Query    string                 `json:"q,omitempty"`
	LowStock bool                   `json:"low_stock,omitempty"`
	Inactive bool                   `json:"include_inactive,omitempty"`
}

// ListInput captures the inputs needed to paginate/filter a shop's catalog.
type ListInput struct {
	ShopID     uuid.UUID
	Filters    ListFilters
	Pagination pagination.Params
}

// ProductPage is one page of catalog results.
type ProductPage struct {
	Items      []ProductDTO `json:"items"`
	NextCursor *string      `json:"next_cursor,omitempty"`
}

// FromModel maps a persisted product into a DTO.
func FromModel(m *models.Product) *ProductDTO {
	if m == nil {
		return nil
	}
	return &ProductDTO{
		ID:                m.ID,
		ShopID:            m.ShopID,
		SKU:               m.SKU,
		Name:              m.Name,
		Description:       m.Description,
		Category:          m.Category,
		Unit:              m.Unit,
		Price:             m.Price,
		PricePerKg:        m.PricePerKg,
		UnitCost:          m.UnitCost,
		StockQty:          m.StockQty,
		LowStockThreshold: m.LowStockThreshold,
		LowStock:          m.StockQty.LessThanOrEqual(m.LowStockThreshold),
		Tags:              append([]string(nil), m.Tags...),
		IsActive:          m.IsActive,
		CreatedAt:         m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
	}
}
