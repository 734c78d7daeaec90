package security

import (
	"testing"

	"github.com/mazaohq/mazao-pos-backend/pkg/config"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("duka-secret", config.PasswordConfig{})
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}

	ok, err := VerifyPassword("duka-secret", hash)
	if err != nil {
		t.Fatalf("verify password: %v", err)
	}
	if !ok {
		t.Fatalf("expected password to verify")
	}

	ok, err = VerifyPassword("wrong", hash)
	if err != nil {
		t.Fatalf("verify wrong password: %v", err)
	}
	if ok {
		t.Fatalf("expected wrong password to fail")
	}
}

func TestVerifyPasswordRejectsMalformedHash(t *testing.T) {
	if _, err := VerifyPassword("x", "not-a-hash"); err != ErrInvalidHash {
		t.Fatalf("expected ErrInvalidHash, got %v", err)
	}
}

func TestValidatePINFormat(t *testing.T) {
	if err := ValidatePINFormat("1234"); err != nil {
		t.Fatalf("expected 1234 to be valid: %v", err)
	}
	for _, bad := range []string{"", "123", "12345", "12a4"} {
		if err := ValidatePINFormat(bad); err == nil {
			t.Fatalf("expected %q to be rejected", bad)
		}
	}
}

func TestComparePIN(t *testing.T) {
	if !ComparePIN("4321", "4321") {
		t.Fatalf("expected matching pins to compare equal")
	}
	if ComparePIN("4321", "1234") {
		t.Fatalf("expected mismatched pins to compare unequal")
	}
	if ComparePIN("", "") {
		t.Fatalf("empty pins must never match")
	}
}
