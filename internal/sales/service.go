package sales

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/mazaohq/mazao-pos-backend/pkg/db/models"
	"github.com/mazaohq/mazao-pos-backend/pkg/enums"
	pkgerrors "github.com/mazaohq/mazao-pos-backend/pkg/errors"
	"github.com/mazaohq/mazao-pos-backend/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service executes checkouts and serves the sales history.
type Service interface {
	Checkout(ctx context.Context, shopID, cashierID uuid.UUID, input CheckoutInput) (*SaleDTO, error)
	Get(ctx context.Context, shopID, id uuid.UUID) (*SaleDTO, error)
	List(ctx context.Context, input ListInput) (*SalePage, error)
	Void(ctx context.Context, shopID, saleID, actorID uuid.UUID) (*SaleDTO, error)
}

type service struct {
	tx    txRunner
	repo  Repository
	clock func() time.Time
}

// ServiceParams bundles the sales service dependencies.
type ServiceParams struct {
	Tx    txRunner
	Repo  Repository
	Clock func() time.Time
}

// NewService builds the sales service.
func NewService(params ServiceParams) (Service, error) {
	if params.Tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if params.Repo == nil {
		return nil, fmt.Errorf("sales repository required")
	}
	clock := params.Clock
	if clock == nil {
		clock = time.Now
	}
	return &service{tx: params.Tx, repo: params.Repo, clock: clock}, nil
}

func (s *service) Checkout(ctx context.Context, shopID, cashierID uuid.UUID, input CheckoutInput) (*SaleDTO, error) {
	if len(input.Lines) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "checkout requires at least one line")
	}
	if !input.PaymentMethod.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid payment method")
	}
	if input.Discount.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "discount cannot be negative")
	}

	ids := make([]uuid.UUID, 0, len(input.Lines))
	for _, line := range input.Lines {
		ids = append(ids, line.ProductID)
	}

	var sale *models.Sale
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		productsByID, err := repo.LoadProducts(ctx, shopID, ids)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load checkout products")
		}

		priced := make([]PricedLine, 0, len(input.Lines))
		subtotal := decimal.Zero
		for _, line := range input.Lines {
			product, ok := productsByID[line.ProductID]
			if !ok {
				return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
			}
			if !product.IsActive {
				return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("%s is no longer sold", product.Name))
			}

			pl, err := priceLine(product, line)
			if err != nil {
				return err
			}
			priced = append(priced, pl)
			subtotal = subtotal.Add(pl.LineTotal)
		}

		if input.Discount.GreaterThan(subtotal) {
			return pkgerrors.New(pkgerrors.CodeValidation, "discount exceeds subtotal")
		}
		total := subtotal.Sub(input.Discount)

		paid := total
		if input.AmountPaid != nil {
			paid = *input.AmountPaid
		}
		if paid.LessThan(total) {
			return pkgerrors.New(pkgerrors.CodeValidation, "amount paid is less than the total")
		}
		change := paid.Sub(total)

		for _, pl := range priced {
			ok, err := repo.TakeStock(ctx, pl.ProductID, pl.StockDelta)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decrement stock")
			}
			if !ok {
				return pkgerrors.New(pkgerrors.CodeConflict, fmt.Sprintf("insufficient stock for %s", pl.ProductName))
			}
		}

		now := s.clock().UTC()
		record := &models.Sale{
			ShopID:        shopID,
			CashierID:     cashierID,
			ReceiptNumber: newReceiptNumber(now),
			Status:        enums.SaleStatusCompleted,
			PaymentMethod: input.PaymentMethod,
			Subtotal:      subtotal,
			Discount:      input.Discount,
			Total:         total,
			AmountPaid:    paid,
			Change:        change,
			Note:          input.Note,
		}
		for _, pl := range priced {
			record.Items = append(record.Items, models.SaleItem{
				ProductID:   pl.ProductID,
				ProductName: pl.ProductName,
				EntryMode:   pl.EntryMode,
				Quantity:    pl.Quantity,
				WeightKg:    pl.WeightKg,
				UnitPrice:   pl.UnitPrice,
				LineTotal:   pl.LineTotal,
			})
		}
		if err := repo.CreateSale(ctx, record); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist sale")
		}
		sale = record
		return nil
	})
	if err != nil {
		return nil, err
	}
	return FromModel(sale), nil
}

func (s *service) Get(ctx context.Context, shopID, id uuid.UUID) (*SaleDTO, error) {
	sale, err := s.repo.FindForShop(ctx, shopID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "sale not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load sale")
	}
	return FromModel(sale), nil
}

func (s *service) List(ctx context.Context, input ListInput) (*SalePage, error) {
	rows, err := s.repo.List(ctx, input)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list sales")
	}

	limit := pagination.NormalizeLimit(input.Pagination.Limit)
	page := &SalePage{Items: make([]SaleDTO, 0, len(rows))}
	for i := range rows {
		if i == limit {
			cursor := pagination.EncodeCursor(pagination.Cursor{
				CreatedAt: rows[i-1].CreatedAt,
				ID:        rows[i-1].ID,
			})
			page.NextCursor = &cursor
			break
		}
		page.Items = append(page.Items, *FromModel(&rows[i]))
	}
	return page, nil
}

// Void reverses a completed sale: stock returns to the shelf and the sale is
// kept in history with the void audit fields set.
func (s *service) Void(ctx context.Context, shopID, saleID, actorID uuid.UUID) (*SaleDTO, error) {
	var voided *models.Sale
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		sale, err := repo.FindForShop(ctx, shopID, saleID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "sale not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load sale")
		}
		if sale.Status == enums.SaleStatusVoided {
			return pkgerrors.New(pkgerrors.CodeConflict, "sale already voided")
		}

		now := s.clock().UTC()
		sale.Status = enums.SaleStatusVoided
		sale.VoidedAt = &now
		sale.VoidedBy = &actorID
		if err := repo.MarkVoided(ctx, sale); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark sale voided")
		}

		for _, item := range sale.Items {
			delta := item.Quantity
			if item.WeightKg != nil {
				delta = *item.WeightKg
			}
			if err := repo.ReturnStock(ctx, item.ProductID, delta); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "return stock")
			}
		}
		voided = sale
		return nil
	})
	if err != nil {
		return nil, err
	}
	return FromModel(voided), nil
}

func priceLine(product *models.Product, line CheckoutLine) (PricedLine, error) {
	switch line.EntryMode {
	case enums.LineEntryByQuantity:
		if line.Quantity == nil {
			return PricedLine{}, pkgerrors.New(pkgerrors.CodeValidation, "quantity required for quantity lines")
		}
		return PriceQuantityLine(product, *line.Quantity)
	case enums.LineEntryByWeight:
		if line.WeightKg == nil {
			return PricedLine{}, pkgerrors.New(pkgerrors.CodeValidation, "weight required for weight lines")
		}
		return PriceBulkByWeight(product, *line.WeightKg)
	case enums.LineEntryByAmount:
		if line.Amount == nil {
			return PricedLine{}, pkgerrors.New(pkgerrors.CodeValidation, "amount required for amount lines")
		}
		return PriceBulkByAmount(product, *line.Amount)
	default:
		return PricedLine{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid entry mode")
	}
}

// newReceiptNumber builds a human-readable, collision-resistant receipt id,
// e.g. RCP-20260115-7F3A2B41.
func newReceiptNumber(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:8]
	return fmt.Sprintf("RCP-%s-%s", now.Format("20060102"), suffix)
}
