package enums

import "fmt"

// ProductUnit is the unit a catalog item is sold in. Bulk items (sold by
// weight off an open bag) use UnitKilogram and carry a price per kg.
type ProductUnit string

const (
	ProductUnitPiece    ProductUnit = "piece"
	ProductUnitKilogram ProductUnit = "kg"
	ProductUnitLitre    ProductUnit = "litre"
	ProductUnitBag      ProductUnit = "bag"
	ProductUnitBale     ProductUnit = "bale"
	ProductUnitCarton   ProductUnit = "carton"
)

var validProductUnits = []ProductUnit{
	ProductUnitPiece,
	ProductUnitKilogram,
	ProductUnitLitre,
	ProductUnitBag,
	ProductUnitBale,
	ProductUnitCarton,
}

func (u ProductUnit) String() string {
	return string(u)
}

func (u ProductUnit) IsValid() bool {
	for _, candidate := range validProductUnits {
		if candidate == u {
			return true
		}
	}
	return false
}

// IsBulk reports whether the unit is sold by weight.
func (u ProductUnit) IsBulk() bool {
	return u == ProductUnitKilogram
}

func ParseProductUnit(value string) (ProductUnit, error) {
	for _, candidate := range validProductUnits {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid product unit %q", value)
}
