package sales

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mazaohq/mazao-pos-backend/pkg/db/models"
	"github.com/mazaohq/mazao-pos-backend/pkg/enums"
	"github.com/mazaohq/mazao-pos-backend/pkg/pagination"
)

// CheckoutLine is one cart line as keyed in at the counter. Exactly one of
// Quantity, WeightKg, Amount must be set, matching the entry mode.
type CheckoutLine struct {
	ProductID uuid.UUID           `json:"product_id" validate:"required"`
	EntryMode enums.LineEntryMode `json:"entry_mode" validate:"required"`
	Quantity  *decimal.Decimal    `json:"quantity,omitempty"`
	WeightKg  *decimal.Decimal    `json:"weight_kg,omitempty"`
	Amount    *decimal.Decimal    `json:"amount,omitempty"`
}

// CheckoutInput is the full checkout request.
type CheckoutInput struct {
	Lines         []CheckoutLine      `json:"lines" validate:"required,min=1,dive"`
	PaymentMethod enums.PaymentMethod `json:"payment_method" validate:"required"`
	AmountPaid    *decimal.Decimal    `json:"amount_paid,omitempty"`
	Discount      decimal.Decimal     `json:"discount"`
	Note          *string             `json:"note,omitempty"`
}

// SaleItemDTO is the transport shape for a sale line.
type SaleItemDTO struct {
	ID          uuid.UUID           `json:"id"`
	ProductID   uuid.UUID           `json:"product_id"`
	ProductName string              `json:"product_name"`
	EntryMode   enums.LineEntryMode `json:"entry_mode"`
	Quantity    decimal.Decimal     `json:"quantity"`
	WeightKg    *decimal.Decimal    `json:"weight_kg,omitempty"`
	UnitPrice   decimal.Decimal     `json:"unit_price"`
	LineTotal   decimal.Decimal     `json:"line_total"`
}

// SaleDTO is the transport shape for a completed sale.
type SaleDTO struct {
	ID            uuid.UUID           `json:"id"`
	ShopID        uuid.UUID           `json:"shop_id"`
	CashierID     uuid.UUID           `json:"cashier_id"`
	ReceiptNumber string              `json:"receipt_number"`
	Status        enums.SaleStatus    `json:"status"`
	PaymentMethod enums.PaymentMethod `json:"payment_method"`
	Subtotal      decimal.Decimal     `json:"subtotal"`
	Discount      decimal.Decimal     `json:"discount"`
	Total         decimal.Decimal     `json:"total"`
	AmountPaid    decimal.Decimal     `json:"amount_paid"`
	Change        decimal.Decimal     `json:"change"`
	Note          *string             `json:"note,omitempty"`
	VoidedAt      *time.Time          `json:"voided_at,omitempty"`
	VoidedBy      *uuid.UUID          `json:"voided_by,omitempty"`
	Items         []SaleItemDTO       `json:"items"`
	CreatedAt     time.Time           `json:"created_at"`
}

// ListFilters narrows the sales history query.
type ListFilters struct {
	CashierID     *uuid.UUID           `json:"cashier_id,omitempty"`
	PaymentMethod *enums.PaymentMethod `json:"payment_method,omitempty"`
	Status        *enums.SaleStatus    `json:"status,omitempty"`
	From          *time.Time           `json:"from,omitempty"`
	To            *time.Time           `json:"to,omitempty"`
}

// ListInput captures pagination plus filters for the history endpoint.
type ListInput struct {
	ShopID     uuid.UUID
	Filters    ListFilters
	Pagination pagination.Params
}

// SalePage is one page of sales history.
type SalePage struct {
	Items      []SaleDTO `json:"items"`
	NextCursor *string   `json:"next_cursor,omitempty"`
}

// FromModel maps a persisted sale into a DTO.
func FromModel(m *models.Sale) *SaleDTO {
	if m == nil {
		return nil
	}
	dto := &SaleDTO{
		ID:            m.ID,
		ShopID:        m.ShopID,
		CashierID:     m.CashierID,
		ReceiptNumber: m.ReceiptNumber,
		Status:        m.Status,
		PaymentMethod: m.PaymentMethod,
		Subtotal:      m.Subtotal,
		Discount:      m.Discount,
		Total:         m.Total,
		AmountPaid:    m.AmountPaid,
		Change:        m.Change,
		Note:          m.Note,
		VoidedAt:      m.VoidedAt,
		VoidedBy:      m.VoidedBy,
		Items:         make([]SaleItemDTO, 0, len(m.Items)),
		CreatedAt:     m.CreatedAt,
	}
	for _, item := range m.Items {
		dto.Items = append(dto.Items, SaleItemDTO{
			ID:          item.ID,
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			EntryMode:   item.EntryMode,
			Quantity:    item.Quantity,
			WeightKg:    item.WeightKg,
			UnitPrice:   item.UnitPrice,
			LineTotal:   item.LineTotal,
		})
	}
	return dto
}
