package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mazaohq/mazao-pos-backend/internal/auth"
	"github.com/mazaohq/mazao-pos-backend/internal/session"
	pkgauth "github.com/mazaohq/mazao-pos-backend/pkg/auth"
	"github.com/mazaohq/mazao-pos-backend/pkg/config"
	"github.com/mazaohq/mazao-pos-backend/pkg/logger"
)

func jwtTestConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "test-secret",
		Issuer:            "mazao-test",
		ExpirationMinutes: 30,
	}
}

func demoAuthService(t *testing.T) auth.Service {
	t.Helper()
	svc, err := auth.NewService(auth.ServiceParams{
		Registry:  session.NewRegistry(nil),
		JWTConfig: jwtTestConfig(),
		SessionConfig: config.SessionConfig{
			IdleTimeout:    time.Minute,
			MaxPinAttempts: 5,
		},
		Logger: logger.New(logger.Options{ServiceName: "test"}),
	})
	if err != nil {
		t.Fatalf("build auth service: %v", err)
	}
	return svc
}

func TestAuthSeedsIdentityAndPassesLockGuard(t *testing.T) {
	svc := demoAuthService(t)
	resp, err := svc.Login(context.Background(), auth.LoginRequest{
		Email:    "owner@mazao.africa",
		Password: "anything",
	})
	if err != nil {
		t.Fatalf("demo login: %v", err)
	}

	var seen bool
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = true
		if got := UserIDFromContext(r.Context()); got != resp.User.ID {
			t.Fatalf("user id = %s, want %s", got, resp.User.ID)
		}
		if got := ShopIDFromContext(r.Context()); got != resp.Shop.ID {
			t.Fatalf("shop id = %s, want %s", got, resp.Shop.ID)
		}
		if SessionIDFromContext(r.Context()) == "" {
			t.Fatal("session id missing from context")
		}
		if SessionFromContext(r.Context()) == nil {
			t.Fatal("session manager missing from context")
		}
		w.WriteHeader(http.StatusOK)
	})
	handler := Auth(jwtTestConfig(), svc, nil)(LockGuard(nil)(inner))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products", nil)
	req.Header.Set("Authorization", "Bearer "+resp.AccessToken)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}
	if !seen {
		t.Fatal("inner handler never ran")
	}
}

func TestAuthRejectsLoggedOutSession(t *testing.T) {
	svc := demoAuthService(t)
	ctx := context.Background()
	resp, err := svc.Login(ctx, auth.LoginRequest{Email: "owner@mazao.africa", Password: "pw"})
	if err != nil {
		t.Fatalf("demo login: %v", err)
	}

	// Terminate server-side; the still-valid JWT must now be rejected.
	claims, err := pkgauth.ParseAccessToken(jwtTestConfig(), resp.AccessToken)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if err := svc.Logout(ctx, claims.ID); err != nil {
		t.Fatalf("logout: %v", err)
	}

	handler := Auth(jwtTestConfig(), svc, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run after logout")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products", nil)
	req.Header.Set("Authorization", "Bearer "+resp.AccessToken)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}
