package auth

import (
	"context"
	"testing"
	"time"

	"github.com/mazaohq/mazao-pos-backend/internal/session"
	pkgauth "github.com/mazaohq/mazao-pos-backend/pkg/auth"
	"github.com/mazaohq/mazao-pos-backend/pkg/config"
	"github.com/mazaohq/mazao-pos-backend/pkg/enums"
	pkgerrors "github.com/mazaohq/mazao-pos-backend/pkg/errors"
)

func demoService(t *testing.T, idle time.Duration) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		Registry: session.NewRegistry(nil),
		JWTConfig: config.JWTConfig{
			Secret:            "test-secret",
			Issuer:            "mazao-pos",
			ExpirationMinutes: 30,
		},
		SessionConfig: config.SessionConfig{
			IdleTimeout:    idle,
			MaxPinAttempts: 5,
		},
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestNewServiceValidation(t *testing.T) {
	if _, err := NewService(ServiceParams{}); err == nil {
		t.Fatal("expected error without registry")
	}
	if _, err := NewService(ServiceParams{Registry: session.NewRegistry(nil)}); err == nil {
		t.Fatal("expected error without jwt secret")
	}
}

func TestDemoLoginIssuesToken(t *testing.T) {
	ctx := context.Background()
	svc := demoService(t, time.Minute)

	resp, err := svc.Login(ctx, LoginRequest{Email: "owner@duka.test", Password: "pw"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if resp.Shop == nil || resp.Shop.Name != session.DemoShopName {
		t.Fatalf("expected demo shop, got %+v", resp.Shop)
	}
	if resp.User == nil || resp.User.Role != enums.StaffRoleAdmin {
		t.Fatalf("expected admin user, got %+v", resp.User)
	}

	jwtCfg := config.JWTConfig{Secret: "test-secret", Issuer: "mazao-pos", ExpirationMinutes: 30}
	claims, err := pkgauth.ParseAccessToken(jwtCfg, resp.AccessToken)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if claims.UserID != resp.User.ID || claims.Role != enums.StaffRoleAdmin {
		t.Fatalf("claims mismatch: %+v", claims)
	}

	mgr := svc.ManagerFor(ctx, claims.ID, claims)
	if mgr == nil || !mgr.IsAuthenticated() {
		t.Fatalf("expected live session for jti %s", claims.ID)
	}
}

func TestLoginRejectsBlankPassword(t *testing.T) {
	svc := demoService(t, time.Minute)
	_, err := svc.Login(context.Background(), LoginRequest{Email: "owner@duka.test", Password: ""})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestStaffLoginDemoShop(t *testing.T) {
	ctx := context.Background()
	svc := demoService(t, time.Minute)

	resp, err := svc.StaffLogin(ctx, StaffLoginRequest{ShopCode: "mazao", PIN: session.DemoPIN})
	if err != nil {
		t.Fatalf("staff login: %v", err)
	}
	if resp.Shop.Name != session.DemoShopName {
		t.Fatalf("expected demo shop, got %s", resp.Shop.Name)
	}

	_, wrongErr := svc.StaffLogin(ctx, StaffLoginRequest{ShopCode: "mazao", PIN: "0000"})
	_, badCodeErr := svc.StaffLogin(ctx, StaffLoginRequest{ShopCode: "XXXXX", PIN: session.DemoPIN})
	typedWrong := pkgerrors.As(wrongErr)
	typedBad := pkgerrors.As(badCodeErr)
	if typedWrong == nil || typedBad == nil {
		t.Fatalf("expected typed errors, got %v / %v", wrongErr, badCodeErr)
	}
	if typedWrong.Message() != typedBad.Message() {
		t.Fatalf("staff login failures must be indistinguishable: %q vs %q", typedWrong.Message(), typedBad.Message())
	}
}

func TestUnlockLifecycleThroughService(t *testing.T) {
	ctx := context.Background()
	svc := demoService(t, 40*time.Millisecond)

	resp, err := svc.Login(ctx, LoginRequest{Email: "owner@duka.test", Password: "pw"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	jwtCfg := config.JWTConfig{Secret: "test-secret", Issuer: "mazao-pos", ExpirationMinutes: 30}
	claims, err := pkgauth.ParseAccessToken(jwtCfg, resp.AccessToken)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	sessionID := claims.ID

	// Let the inactivity timer fire.
	time.Sleep(100 * time.Millisecond)
	view, err := svc.Session(ctx, sessionID, claims)
	if err != nil {
		t.Fatalf("session view: %v", err)
	}
	if !view.Authenticated || !view.Locked {
		t.Fatalf("expected locked session, got %+v", view)
	}

	// Wrong PIN four times keeps the session alive.
	for i := 0; i < 4; i++ {
		unlock, err := svc.Unlock(ctx, sessionID, UnlockRequest{PIN: "9999"})
		if err != nil {
			t.Fatalf("unlock attempt %d: %v", i+1, err)
		}
		if unlock.Unlocked || unlock.LoggedOut {
			t.Fatalf("attempt %d should fail without logout: %+v", i+1, unlock)
		}
	}

	// Fifth wrong PIN forces a logout and tears the session down.
	unlock, err := svc.Unlock(ctx, sessionID, UnlockRequest{PIN: "9999"})
	if err != nil {
		t.Fatalf("final unlock: %v", err)
	}
	if !unlock.LoggedOut {
		t.Fatalf("expected forced logout, got %+v", unlock)
	}
	if _, err := svc.Unlock(ctx, sessionID, UnlockRequest{PIN: session.DemoPIN}); err == nil {
		t.Fatalf("unlock after forced logout should fail")
	}
}

func TestUnlockWithCorrectPIN(t *testing.T) {
	ctx := context.Background()
	svc := demoService(t, 40*time.Millisecond)

	resp, err := svc.Login(ctx, LoginRequest{Email: "owner@duka.test", Password: "pw"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	jwtCfg := config.JWTConfig{Secret: "test-secret", Issuer: "mazao-pos", ExpirationMinutes: 30}
	claims, _ := pkgauth.ParseAccessToken(jwtCfg, resp.AccessToken)

	time.Sleep(100 * time.Millisecond)
	unlock, err := svc.Unlock(ctx, claims.ID, UnlockRequest{PIN: session.DemoPIN})
	if err != nil {
		t.Fatalf("unlock: %v", err)
	}
	if !unlock.Unlocked {
		t.Fatalf("correct PIN should unlock: %+v", unlock)
	}
}

func TestLogoutIsIdempotent(t *testing.T) {
	ctx := context.Background()
	svc := demoService(t, time.Minute)

	resp, err := svc.Login(ctx, LoginRequest{Email: "owner@duka.test", Password: "pw"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	jwtCfg := config.JWTConfig{Secret: "test-secret", Issuer: "mazao-pos", ExpirationMinutes: 30}
	claims, _ := pkgauth.ParseAccessToken(jwtCfg, resp.AccessToken)

	if err := svc.Logout(ctx, claims.ID); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if err := svc.Logout(ctx, claims.ID); err != nil {
		t.Fatalf("second logout should be a no-op: %v", err)
	}
	if err := svc.Logout(ctx, "never-existed"); err != nil {
		t.Fatalf("unknown session logout should be a no-op: %v", err)
	}

	view, err := svc.Session(ctx, claims.ID, claims)
	if err != nil {
		t.Fatalf("session view: %v", err)
	}
	if view.Authenticated {
		t.Fatalf("session should be gone after logout")
	}
}

func TestLookupShopDemo(t *testing.T) {
	ctx := context.Background()
	svc := demoService(t, time.Minute)

	shop, err := svc.LookupShop(ctx, "MaZaO")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if shop.Name != session.DemoShopName {
		t.Fatalf("unexpected shop %+v", shop)
	}

	_, err = svc.LookupShop(ctx, "NOPE")
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}
