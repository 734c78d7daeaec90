package security

import (
	"crypto/subtle"
	"fmt"
)

const pinLength = 4

// ValidatePINFormat checks that the value is exactly four ASCII digits.
func ValidatePINFormat(pin string) error {
	if len(pin) != pinLength {
		return fmt.Errorf("pin must be %d digits", pinLength)
	}
	for _, c := range pin {
		if c < '0' || c > '9' {
			return fmt.Errorf("pin must be numeric")
		}
	}
	return nil
}

// ComparePIN reports whether the entered PIN matches the stored one.
// PINs are stored as plain 4-digit strings for parity with the existing
// account records; the comparison is constant-time. See DESIGN.md for the
// hashing migration note.
func ComparePIN(stored, entered string) bool {
	if stored == "" || entered == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(entered)) == 1
}
