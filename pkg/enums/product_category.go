package enums

import "fmt"

// ProductCategory groups catalog items the way the shop floor is organized.
type ProductCategory string

const (
	ProductCategoryFeed       ProductCategory = "feed"
	ProductCategoryFertilizer ProductCategory = "fertilizer"
	ProductCategoryVeterinary ProductCategory = "veterinary"
	ProductCategorySeed       ProductCategory = "seed"
	ProductCategoryEquipment  ProductCategory = "equipment"
	ProductCategoryOther      ProductCategory = "other"
)

var validProductCategories = []ProductCategory{
	ProductCategoryFeed,
	ProductCategoryFertilizer,
	ProductCategoryVeterinary,
	ProductCategorySeed,
	ProductCategoryEquipment,
	ProductCategoryOther,
}

func (c ProductCategory) String() string {
	return string(c)
}

func (c ProductCategory) IsValid() bool {
	for _, candidate := range validProductCategories {
		if candidate == c {
			return true
		}
	}
	return false
}

func ParseProductCategory(value string) (ProductCategory, error) {
	for _, candidate := range validProductCategories {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid product category %q", value)
}
