package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mazaohq/mazao-pos-backend/pkg/enums"
	"github.com/mazaohq/mazao-pos-backend/pkg/logger"
	"github.com/mazaohq/mazao-pos-backend/pkg/security"
)

const (
	userCacheKey = "auth_user"
	shopCacheKey = "auth_shop"

	invalidCredentialsMessage = "invalid email or password"
	invalidStaffLoginMessage  = "invalid shop code or PIN"
	accountDisabledMessage    = "account is disabled"
)

// ErrCacheMiss is returned by Cache implementations when a key is absent.
var ErrCacheMiss = errors.New("cache miss")

// ErrNoSession is returned by Verifier.CurrentSession when no remote auth
// session exists.
var ErrNoSession = errors.New("no active auth session")

// AccountStore is the read surface the manager needs from the row store.
type AccountStore interface {
	FindByEmail(ctx context.Context, email string) (*Account, error)
	FindShop(ctx context.Context, id uuid.UUID) (*Shop, error)
	FindShopByCode(ctx context.Context, code string) (*Shop, error)
	ListStaff(ctx context.Context, shopID uuid.UUID) ([]Account, error)
	UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
}

// Verifier is the credential collaborator. CurrentSession reports the email
// bound to a still-valid remote auth session, or ErrNoSession.
type Verifier interface {
	SignInWithPassword(ctx context.Context, email, password string) error
	SignOut(ctx context.Context) error
	CurrentSession(ctx context.Context) (string, error)
}

// Cache is a string key-value store used for optimistic hydration. All
// failures are swallowed by the manager; a broken cache degrades to an
// empty one.
type Cache interface {
	GetItem(ctx context.Context, key string) (string, error)
	SetItem(ctx context.Context, key, value string) error
	RemoveItem(ctx context.Context, key string) error
}

// Hooks receive lifecycle notifications, typically wired to metrics.
type Hooks struct {
	OnLogin        func(outcome string)
	OnIdleLock     func()
	OnForcedLogout func()
}

// LoginResult is the discriminated outcome of Login and StaffLogin.
type LoginResult struct {
	Success bool
	Error   string
	User    *Account
	Shop    *Shop
}

// UnlockResult reports a PIN unlock attempt. AttemptsLeft counts down to the
// forced logout; LoggedOut is set when the budget is exhausted.
type UnlockResult struct {
	Success      bool
	Error        string
	AttemptsLeft int
	LoggedOut    bool
}

// ShopLookupResult is the outcome of a pre-login shop code lookup.
type ShopLookupResult struct {
	Success bool
	Shop    *Shop
	Error   string
}

// Manager owns one till session: identity, lock state, PIN attempts, and the
// inactivity timer. All operations serialize on an internal mutex, so a
// manager is safe to share across handler goroutines.
type Manager struct {
	mu    sync.Mutex
	state State

	store    AccountStore
	verifier Verifier
	cache    Cache
	logg     *logger.Logger
	hooks    Hooks

	idleTimeout    time.Duration
	maxPinAttempts int
	pinAttempts    int
	idleTimer      *time.Timer

	clock func() time.Time
}

// ManagerParams bundles the dependencies required to build a session manager.
type ManagerParams struct {
	Store          AccountStore
	Verifier       Verifier
	Cache          Cache
	Logger         *logger.Logger
	IdleTimeout    time.Duration
	MaxPinAttempts int
	Hooks          Hooks
}

// NewManager constructs a session manager with the provided collaborators.
func NewManager(params ManagerParams) (*Manager, error) {
	if params.Store == nil {
		return nil, fmt.Errorf("account store is required")
	}
	if params.Verifier == nil {
		return nil, fmt.Errorf("verifier is required")
	}
	if params.Cache == nil {
		params.Cache = NewMemoryCache()
	}
	if params.IdleTimeout <= 0 {
		return nil, fmt.Errorf("idle timeout must be positive")
	}
	if params.MaxPinAttempts <= 0 {
		params.MaxPinAttempts = 5
	}
	return &Manager{
		state:          State{IsLoading: true},
		store:          params.Store,
		verifier:       params.Verifier,
		cache:          params.Cache,
		logg:           params.Logger,
		hooks:          params.Hooks,
		idleTimeout:    params.IdleTimeout,
		maxPinAttempts: params.MaxPinAttempts,
		clock:          time.Now,
	}, nil
}

// Initialize hydrates the session from cache, then reconciles against the
// store. The reconcile phase always wins: a cached user without a live remote
// session is stale and gets cleared. Initialize never returns an error; every
// failure path degrades to an unauthenticated session.
func (m *Manager) Initialize(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Phase 1: optimistic hydration, possibly stale.
	user, shop := m.readCache(ctx)
	m.state = apply(m.state, eventHydrated{user: user, shop: shop})

	// Phase 2: reconcile from the source of truth.
	email, err := m.verifier.CurrentSession(ctx)
	if err != nil || strings.TrimSpace(email) == "" {
		if err != nil && !errors.Is(err, ErrNoSession) {
			m.logError(ctx, err, "session probe failed")
		}
		m.state = apply(m.state, eventReconciled{})
		m.clearCache(ctx)
		m.state = apply(m.state, eventLoadingDone{})
		return
	}

	canonical, err := m.store.FindByEmail(ctx, email)
	if err != nil || canonical == nil || !canonical.IsActive {
		if err != nil {
			m.logError(ctx, err, "reconcile user fetch failed")
		}
		m.state = apply(m.state, eventReconciled{})
		m.clearCache(ctx)
		m.state = apply(m.state, eventLoadingDone{})
		return
	}

	canonicalShop, err := m.store.FindShop(ctx, canonical.ShopID)
	if err != nil {
		m.logError(ctx, err, "reconcile shop fetch failed")
		m.state = apply(m.state, eventReconciled{})
		m.clearCache(ctx)
		m.state = apply(m.state, eventLoadingDone{})
		return
	}

	m.state = apply(m.state, eventReconciled{user: canonical, shop: canonicalShop})
	m.state = apply(m.state, eventLoadingDone{})
	m.writeCache(ctx, canonical, canonicalShop)
	m.resetIdleTimerLocked()
}

// Login authenticates with email and password, binds the matching user and
// shop to the session, and kicks off a best-effort last-login update.
func (m *Manager) Login(ctx context.Context, email, password string) LoginResult {
	m.mu.Lock()
	defer m.mu.Unlock()

	email = strings.TrimSpace(strings.ToLower(email))
	if err := m.verifier.SignInWithPassword(ctx, email, password); err != nil {
		m.notifyLogin("failure")
		return LoginResult{Success: false, Error: invalidCredentialsMessage}
	}

	user, err := m.store.FindByEmail(ctx, email)
	if err != nil || user == nil {
		m.notifyLogin("failure")
		return LoginResult{Success: false, Error: invalidCredentialsMessage}
	}
	if !user.IsActive {
		m.notifyLogin("failure")
		return LoginResult{Success: false, Error: accountDisabledMessage}
	}

	shop, err := m.store.FindShop(ctx, user.ShopID)
	if err != nil {
		m.notifyLogin("failure")
		return LoginResult{Success: false, Error: "could not load shop"}
	}

	m.completeSignInLocked(ctx, user, shop)
	m.notifyLogin("success")
	return LoginResult{Success: true, User: user, Shop: shop}
}

// StaffLogin authenticates with a shop code and a 4-digit PIN. Every failure
// returns the same generic message so callers cannot probe which shop codes
// exist.
func (m *Manager) StaffLogin(ctx context.Context, shopCode, pin string) LoginResult {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := security.ValidatePINFormat(pin); err != nil {
		m.notifyLogin("failure")
		return LoginResult{Success: false, Error: invalidStaffLoginMessage}
	}

	shop, err := m.store.FindShopByCode(ctx, strings.TrimSpace(shopCode))
	if err != nil || shop == nil {
		m.notifyLogin("failure")
		return LoginResult{Success: false, Error: invalidStaffLoginMessage}
	}

	staff, err := m.store.ListStaff(ctx, shop.ID)
	if err != nil {
		m.notifyLogin("failure")
		return LoginResult{Success: false, Error: invalidStaffLoginMessage}
	}

	for i := range staff {
		candidate := staff[i]
		if !candidate.IsActive {
			continue
		}
		if security.ComparePIN(candidate.PIN, pin) {
			m.completeSignInLocked(ctx, &candidate, shop)
			m.notifyLogin("success")
			return LoginResult{Success: true, User: &candidate, Shop: shop}
		}
	}

	m.notifyLogin("failure")
	return LoginResult{Success: false, Error: invalidStaffLoginMessage}
}

// UnlockWithPin clears the inactivity lock when the PIN matches the session
// user's stored PIN. Wrong entries accumulate; exhausting the budget forces a
// full logout instead of prompting forever.
func (m *Manager) UnlockWithPin(ctx context.Context, pin string) UnlockResult {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.state.IsAuthenticated() {
		return UnlockResult{Success: false, Error: "no active session"}
	}
	if !m.state.IsLocked {
		return UnlockResult{Success: true, AttemptsLeft: m.attemptsLeftLocked()}
	}

	if security.ComparePIN(m.state.User.PIN, pin) {
		m.pinAttempts = 0
		m.state = apply(m.state, eventUnlocked{})
		m.resetIdleTimerLocked()
		return UnlockResult{Success: true, AttemptsLeft: m.maxPinAttempts}
	}

	m.pinAttempts++
	if m.pinAttempts >= m.maxPinAttempts {
		m.logoutLocked(ctx)
		if m.hooks.OnForcedLogout != nil {
			m.hooks.OnForcedLogout()
		}
		return UnlockResult{Success: false, Error: "too many attempts", LoggedOut: true}
	}
	return UnlockResult{
		Success:      false,
		Error:        "incorrect PIN",
		AttemptsLeft: m.attemptsLeftLocked(),
	}
}

// Touch records user interaction and restarts the inactivity timer. It is a
// no-op while locked or unauthenticated.
func (m *Manager) Touch() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.state.IsAuthenticated() || m.state.IsLocked {
		return
	}
	m.resetIdleTimerLocked()
}

// Logout clears the session, cache, and remote auth state. Calling it on an
// already signed-out manager is a no-op success.
func (m *Manager) Logout(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logoutLocked(ctx)
}

// HasPermission reports whether the session user qualifies for at least one
// of the required roles. Unauthenticated sessions never qualify.
func (m *Manager) HasPermission(required ...enums.StaffRole) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.state.IsAuthenticated() || len(required) == 0 {
		return false
	}
	for _, role := range required {
		if m.state.User.Role.AtLeast(role) {
			return true
		}
	}
	return false
}

// LookupShopCode resolves a shop by its human-entered code, used for
// pre-login branding and staff login. Matching is case-insensitive.
func (m *Manager) LookupShopCode(ctx context.Context, code string) ShopLookupResult {
	code = strings.TrimSpace(code)
	if code == "" {
		return ShopLookupResult{Success: false, Error: "shop code is required"}
	}
	shop, err := m.store.FindShopByCode(ctx, code)
	if err != nil || shop == nil {
		return ShopLookupResult{Success: false, Error: "shop not found"}
	}
	return ShopLookupResult{Success: true, Shop: shop}
}

// Snapshot returns a copy of the current session state.
func (m *Manager) Snapshot() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// IsAuthenticated reports whether a user is bound to the session.
func (m *Manager) IsAuthenticated() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.IsAuthenticated()
}

func (m *Manager) completeSignInLocked(ctx context.Context, user *Account, shop *Shop) {
	m.pinAttempts = 0
	m.state = apply(m.state, eventSignedIn{user: user, shop: shop})
	m.writeCache(ctx, user, shop)
	m.resetIdleTimerLocked()

	// Best-effort last-login stamp. Failure is ignored and never reaches
	// the caller.
	id := user.ID
	at := m.clock().UTC()
	go func() {
		bg, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := m.store.UpdateLastLogin(bg, id, at); err != nil {
			m.logError(bg, err, "last-login update failed")
		}
	}()
}

func (m *Manager) logoutLocked(ctx context.Context) {
	if m.idleTimer != nil {
		m.idleTimer.Stop()
		m.idleTimer = nil
	}
	m.pinAttempts = 0

	if !m.state.IsAuthenticated() {
		m.state = apply(m.state, eventSignedOut{})
		return
	}

	m.state = apply(m.state, eventSignedOut{})
	m.clearCache(ctx)
	if err := m.verifier.SignOut(ctx); err != nil {
		m.logError(ctx, err, "remote sign-out failed")
	}
}

// resetIdleTimerLocked restarts the single-shot inactivity timer. The timer
// is never persisted; a fresh manager always starts unlocked.
func (m *Manager) resetIdleTimerLocked() {
	if m.idleTimer != nil {
		m.idleTimer.Stop()
	}
	m.idleTimer = time.AfterFunc(m.idleTimeout, m.handleIdleExpiry)
}

func (m *Manager) handleIdleExpiry() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.state.IsAuthenticated() || m.state.IsLocked {
		return
	}
	m.state = apply(m.state, eventLocked{})
	if m.hooks.OnIdleLock != nil {
		m.hooks.OnIdleLock()
	}
}

func (m *Manager) attemptsLeftLocked() int {
	left := m.maxPinAttempts - m.pinAttempts
	if left < 0 {
		return 0
	}
	return left
}

func (m *Manager) readCache(ctx context.Context) (*Account, *Shop) {
	var user *Account
	var shop *Shop

	if raw, err := m.cache.GetItem(ctx, userCacheKey); err == nil && raw != "" {
		var decoded Account
		if jsonErr := json.Unmarshal([]byte(raw), &decoded); jsonErr == nil {
			user = &decoded
		}
	} else if err != nil && !errors.Is(err, ErrCacheMiss) {
		m.logError(ctx, err, "cache read failed")
	}

	if raw, err := m.cache.GetItem(ctx, shopCacheKey); err == nil && raw != "" {
		var decoded Shop
		if jsonErr := json.Unmarshal([]byte(raw), &decoded); jsonErr == nil {
			shop = &decoded
		}
	} else if err != nil && !errors.Is(err, ErrCacheMiss) {
		m.logError(ctx, err, "cache read failed")
	}

	return user, shop
}

func (m *Manager) writeCache(ctx context.Context, user *Account, shop *Shop) {
	if userJSON, err := json.Marshal(user); err == nil {
		if err := m.cache.SetItem(ctx, userCacheKey, string(userJSON)); err != nil {
			m.logError(ctx, err, "cache write failed")
		}
	}
	if shopJSON, err := json.Marshal(shop); err == nil {
		if err := m.cache.SetItem(ctx, shopCacheKey, string(shopJSON)); err != nil {
			m.logError(ctx, err, "cache write failed")
		}
	}
}

func (m *Manager) clearCache(ctx context.Context) {
	if err := m.cache.RemoveItem(ctx, userCacheKey); err != nil && !errors.Is(err, ErrCacheMiss) {
		m.logError(ctx, err, "cache clear failed")
	}
	if err := m.cache.RemoveItem(ctx, shopCacheKey); err != nil && !errors.Is(err, ErrCacheMiss) {
		m.logError(ctx, err, "cache clear failed")
	}
}

func (m *Manager) notifyLogin(outcome string) {
	if m.hooks.OnLogin != nil {
		m.hooks.OnLogin(outcome)
	}
}

func (m *Manager) logError(ctx context.Context, err error, msg string) {
	if m.logg == nil {
		return
	}
	m.logg.Error(ctx, msg, err)
}
