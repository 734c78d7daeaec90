package sales

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mazaohq/mazao-pos-backend/pkg/db/models"
	"github.com/mazaohq/mazao-pos-backend/pkg/enums"
	pkgerrors "github.com/mazaohq/mazao-pos-backend/pkg/errors"
)

const (
	moneyScale  = 2
	weightScale = 3
)

// PricedLine is the outcome of pricing one cart line. StockDelta is the
// quantity to remove from on-hand stock (weight in kg for bulk lines).
type PricedLine struct {
	ProductID   uuid.UUID
	ProductName string
	EntryMode   enums.LineEntryMode
	Quantity    decimal.Decimal
	WeightKg    *decimal.Decimal
	UnitPrice   decimal.Decimal
	LineTotal   decimal.Decimal
	StockDelta  decimal.Decimal
}

// PriceQuantityLine prices a piece/bag/etc line as quantity times unit price.
func PriceQuantityLine(product *models.Product, quantity decimal.Decimal) (PricedLine, error) {
	if quantity.Sign() <= 0 {
		return PricedLine{}, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}
	total := quantity.Mul(product.Price).Round(moneyScale)
	return PricedLine{
		ProductID:   product.ID,
		ProductName: product.Name,
		EntryMode:   enums.LineEntryByQuantity,
		Quantity:    quantity,
		UnitPrice:   product.Price,
		LineTotal:   total,
		StockDelta:  quantity,
	}, nil
}

// PriceBulkByWeight prices a bulk line entered by weight on the scale:
// amount = weight * price per kg.
func PriceBulkByWeight(product *models.Product, weightKg decimal.Decimal) (PricedLine, error) {
	rate, err := bulkRate(product)
	if err != nil {
		return PricedLine{}, err
	}
	if weightKg.Sign() <= 0 {
		return PricedLine{}, pkgerrors.New(pkgerrors.CodeValidation, "weight must be positive")
	}
	weight := weightKg.Round(weightScale)
	total := weight.Mul(rate).Round(moneyScale)
	return PricedLine{
		ProductID:   product.ID,
		ProductName: product.Name,
		EntryMode:   enums.LineEntryByWeight,
		WeightKg:    &weight,
		UnitPrice:   rate,
		LineTotal:   total,
		StockDelta:  weight,
	}, nil
}

// PriceBulkByAmount prices a bulk line entered by the money handed over:
// weight = amount / price per kg. The charged total is the amount as entered.
func PriceBulkByAmount(product *models.Product, amount decimal.Decimal) (PricedLine, error) {
	rate, err := bulkRate(product)
	if err != nil {
		return PricedLine{}, err
	}
	if amount.Sign() <= 0 {
		return PricedLine{}, pkgerrors.New(pkgerrors.CodeValidation, "amount must be positive")
	}
	weight := amount.DivRound(rate, weightScale)
	total := amount.Round(moneyScale)
	return PricedLine{
		ProductID:   product.ID,
		ProductName: product.Name,
		EntryMode:   enums.LineEntryByAmount,
		WeightKg:    &weight,
		UnitPrice:   rate,
		LineTotal:   total,
		StockDelta:  weight,
	}, nil
}

func bulkRate(product *models.Product) (decimal.Decimal, error) {
	if !product.Unit.IsBulk() || product.PricePerKg == nil {
		return decimal.Decimal{}, pkgerrors.New(pkgerrors.CodeValidation, "product is not sold by weight")
	}
	rate := *product.PricePerKg
	if rate.Sign() <= 0 {
		return decimal.Decimal{}, pkgerrors.New(pkgerrors.CodeValidation, "product has no usable price per kg")
	}
	return rate, nil
}
