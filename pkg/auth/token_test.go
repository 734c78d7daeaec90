package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/mazaohq/mazao-pos-backend/pkg/config"
	"github.com/mazaohq/mazao-pos-backend/pkg/enums"
)

func TestMintAndParseAccessToken(t *testing.T) {
	cfg := config.JWTConfig{
		Secret:            "secret",
		Issuer:            "mazao-pos",
		ExpirationMinutes: 30,
	}
	now := time.Now().UTC()
	userID := uuid.New()
	shopID := uuid.New()

	payload := AccessTokenPayload{
		UserID: userID,
		ShopID: shopID,
		Role:   enums.StaffRoleManager,
		JTI:    "session-123",
	}

	token, err := MintAccessToken(cfg, now, payload)
	if err != nil {
		t.Fatalf("mint access token: %v", err)
	}

	claims, err := ParseAccessToken(cfg, token)
	if err != nil {
		t.Fatalf("parse access token: %v", err)
	}

	if claims.UserID != userID {
		t.Fatalf("expected user_id %s, got %s", userID, claims.UserID)
	}
	if claims.ShopID != shopID {
		t.Fatalf("shop id not preserved")
	}
	if claims.Role != enums.StaffRoleManager {
		t.Fatalf("unexpected role %s", claims.Role)
	}
	if claims.Issuer != cfg.Issuer {
		t.Fatalf("issuer mismatch: %s", claims.Issuer)
	}
	if claims.ID != "session-123" {
		t.Fatalf("jti not preserved: %s", claims.ID)
	}
}

func TestMintAccessTokenGeneratesJTI(t *testing.T) {
	cfg := config.JWTConfig{Secret: "secret", Issuer: "mazao-pos", ExpirationMinutes: 5}
	payload := AccessTokenPayload{UserID: uuid.New(), ShopID: uuid.New(), Role: enums.StaffRoleCashier}

	token, err := MintAccessToken(cfg, time.Now(), payload)
	if err != nil {
		t.Fatalf("mint access token: %v", err)
	}
	claims, err := ParseAccessToken(cfg, token)
	if err != nil {
		t.Fatalf("parse access token: %v", err)
	}
	if strings.TrimSpace(claims.ID) == "" {
		t.Fatalf("expected generated jti")
	}
}

func TestMintAccessTokenRejectsInvalidRole(t *testing.T) {
	cfg := config.JWTConfig{Secret: "secret", Issuer: "mazao-pos", ExpirationMinutes: 5}
	payload := AccessTokenPayload{UserID: uuid.New(), Role: enums.StaffRole("intern")}
	if _, err := MintAccessToken(cfg, time.Now(), payload); err == nil {
		t.Fatalf("expected error for invalid role")
	}
}

func TestParseAccessTokenRejectsTampered(t *testing.T) {
	cfg := config.JWTConfig{Secret: "secret", Issuer: "mazao-pos", ExpirationMinutes: 5}
	payload := AccessTokenPayload{UserID: uuid.New(), ShopID: uuid.New(), Role: enums.StaffRoleAdmin}
	token, err := MintAccessToken(cfg, time.Now(), payload)
	if err != nil {
		t.Fatalf("mint access token: %v", err)
	}
	other := config.JWTConfig{Secret: "different", Issuer: "mazao-pos", ExpirationMinutes: 5}
	if _, err := ParseAccessToken(other, token); err == nil {
		t.Fatalf("expected signature validation error")
	}
}
