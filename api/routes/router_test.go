package routes

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/mazaohq/mazao-pos-backend/internal/auth"
	"github.com/mazaohq/mazao-pos-backend/internal/session"
	"github.com/mazaohq/mazao-pos-backend/pkg/config"
	"github.com/mazaohq/mazao-pos-backend/pkg/logger"
)

func testDeps(t *testing.T) Deps {
	t.Helper()
	cfg := &config.Config{}
	cfg.App.Env = "test"
	cfg.JWT = config.JWTConfig{Secret: "router-test-secret", Issuer: "mazao-test", ExpirationMinutes: 30}
	cfg.Session = config.SessionConfig{IdleTimeout: time.Minute, MaxPinAttempts: 5}

	authSvc, err := auth.NewService(auth.ServiceParams{
		Registry:      session.NewRegistry(nil),
		JWTConfig:     cfg.JWT,
		SessionConfig: cfg.Session,
		Logger:        logger.New(logger.Options{ServiceName: "router-test"}),
	})
	if err != nil {
		t.Fatalf("build auth service: %v", err)
	}

	return Deps{
		Config: cfg,
		Logger: logger.New(logger.Options{ServiceName: "router-test"}),
		Auth:   authSvc,
	}
}

func TestRouterHealthLive(t *testing.T) {
	router := NewRouter(testDeps(t))

	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestRouterProtectedRoutesRequireToken(t *testing.T) {
	router := NewRouter(testDeps(t))

	for _, path := range []string{"/api/v1/products", "/api/v1/sales", "/api/v1/reports/summary", "/api/v1/staff"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("%s: expected 401, got %d", path, rec.Code)
		}
	}
}

func TestRouterDemoModeAnswers503ForDomainRoutes(t *testing.T) {
	deps := testDeps(t)
	router := NewRouter(deps)

	login := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", jsonBody(`{"email":"owner@mazao.africa","password":"pw"}`))
	login.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, login)
	if rec.Code != http.StatusOK {
		t.Fatalf("demo login should succeed, got %d (%s)", rec.Code, rec.Body.String())
	}

	token := extractToken(t, rec.Body.Bytes())
	req := httptest.NewRequest(http.MethodGet, "/api/v1/products", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 without a database, got %d (%s)", rec.Code, rec.Body.String())
	}
}

func jsonBody(payload string) *strings.Reader {
	return strings.NewReader(payload)
}

func extractToken(t *testing.T, body []byte) string {
	t.Helper()
	var envelope struct {
		Data struct {
			AccessToken string `json:"access_token"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		t.Fatalf("decode login response: %v", err)
	}
	if envelope.Data.AccessToken == "" {
		t.Fatalf("missing access token in %s", body)
	}
	return envelope.Data.AccessToken
}

func TestRouterShopLookupIsPublic(t *testing.T) {
	router := NewRouter(testDeps(t))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/shops/lookup?code="+session.DemoShopCode, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}
}
