package session

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mazaohq/mazao-pos-backend/pkg/enums"
)

// Demo mode runs the till without any backing database. A fixed shop and
// admin account are fabricated in memory and every login succeeds. It is the
// documented fallback when no database is configured, not an error state.

const (
	DemoShopName = "Mazao Animal Supplies"
	DemoShopCode = "MAZAO"
	DemoPIN      = "1234"
	demoEmail    = "demo@mazao.app"
)

// DemoCollaborators returns an in-memory store and verifier pair backed by
// the fabricated demo shop.
func DemoCollaborators() (AccountStore, Verifier) {
	return NewDemoStore(), NewDemoVerifier()
}

// DemoStore is the fabricated account store used when no database is
// configured. One instance can back any number of managers.
type DemoStore struct {
	mu    sync.Mutex
	shop  Shop
	admin Account
}

// NewDemoStore fabricates the demo shop and its admin account.
func NewDemoStore() *DemoStore {
	shopID := uuid.New()
	code := DemoShopCode
	return &DemoStore{
		shop: Shop{
			ID:       shopID,
			Name:     DemoShopName,
			Currency: "KES",
			ShopCode: &code,
		},
		admin: Account{
			ID:       uuid.New(),
			Email:    demoEmail,
			FullName: "Demo Admin",
			ShopID:   shopID,
			Role:     enums.StaffRoleAdmin,
			IsActive: true,
			PIN:      DemoPIN,
		},
	}
}

func (d *DemoStore) FindByEmail(_ context.Context, _ string) (*Account, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	account := d.admin
	return &account, nil
}

func (d *DemoStore) FindShop(_ context.Context, _ uuid.UUID) (*Shop, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	shop := d.shop
	return &shop, nil
}

func (d *DemoStore) FindShopByCode(_ context.Context, code string) (*Shop, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.shop.ShopCode == nil || !strings.EqualFold(strings.TrimSpace(code), *d.shop.ShopCode) {
		return nil, ErrNoSession
	}
	shop := d.shop
	return &shop, nil
}

func (d *DemoStore) ListStaff(_ context.Context, _ uuid.UUID) ([]Account, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return []Account{d.admin}, nil
}

func (d *DemoStore) UpdateLastLogin(_ context.Context, _ uuid.UUID, at time.Time) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	stamp := at
	d.admin.LastLoginAt = &stamp
	return nil
}

// demoVerifier accepts any non-empty credentials and tracks sign-in state so
// Initialize after Logout behaves like a real relaunch.
type demoVerifier struct {
	mu       sync.Mutex
	signedIn bool
}

// NewDemoVerifier builds a verifier for one demo session.
func NewDemoVerifier() Verifier {
	return &demoVerifier{}
}

func (d *demoVerifier) SignInWithPassword(_ context.Context, email, password string) error {
	if strings.TrimSpace(email) == "" || password == "" {
		return ErrNoSession
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.signedIn = true
	return nil
}

func (d *demoVerifier) SignOut(_ context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.signedIn = false
	return nil
}

func (d *demoVerifier) CurrentSession(_ context.Context) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.signedIn {
		return "", ErrNoSession
	}
	return demoEmail, nil
}
