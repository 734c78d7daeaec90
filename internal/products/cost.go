package products

import "github.com/shopspring/decimal"

const costScale = 4

// MergeUnitCost folds an incoming batch into the running weighted-average
// unit cost. With nothing on hand the batch cost wins outright; otherwise the
// result is (onHand*current + incoming*batch) / (onHand+incoming), rounded to
// four decimal places.
func MergeUnitCost(onHandQty, currentCost, incomingQty, batchCost decimal.Decimal) decimal.Decimal {
	if incomingQty.Sign() <= 0 {
		return currentCost
	}
	if onHandQty.Sign() <= 0 {
		return batchCost.Round(costScale)
	}

	totalQty := onHandQty.Add(incomingQty)
	totalValue := onHandQty.Mul(currentCost).Add(incomingQty.Mul(batchCost))
	return totalValue.DivRound(totalQty, costScale)
}
