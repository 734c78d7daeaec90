package enums

import "fmt"

// LineEntryMode records how a bulk sale line was keyed in at the counter:
// by weight on the scale, or by the amount of money the customer handed over.
type LineEntryMode string

const (
	LineEntryByQuantity LineEntryMode = "quantity"
	LineEntryByWeight   LineEntryMode = "weight"
	LineEntryByAmount   LineEntryMode = "amount"
)

var validLineEntryModes = []LineEntryMode{
	LineEntryByQuantity,
	LineEntryByWeight,
	LineEntryByAmount,
}

func (m LineEntryMode) String() string {
	return string(m)
}

func (m LineEntryMode) IsValid() bool {
	for _, candidate := range validLineEntryModes {
		if candidate == m {
			return true
		}
	}
	return false
}

func ParseLineEntryMode(value string) (LineEntryMode, error) {
	for _, candidate := range validLineEntryModes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid line entry mode %q", value)
}
