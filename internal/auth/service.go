package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mazaohq/mazao-pos-backend/internal/session"
	pkgauth "github.com/mazaohq/mazao-pos-backend/pkg/auth"
	"github.com/mazaohq/mazao-pos-backend/pkg/config"
	"github.com/mazaohq/mazao-pos-backend/pkg/db/models"
	pkgerrors "github.com/mazaohq/mazao-pos-backend/pkg/errors"
	"github.com/mazaohq/mazao-pos-backend/pkg/logger"
	"github.com/mazaohq/mazao-pos-backend/pkg/metrics"
	redisclient "github.com/mazaohq/mazao-pos-backend/pkg/redis"
)

const sessionExpiredMessage = "session expired"

// Service defines the behavior needed by the auth controllers and middleware.
type Service interface {
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
	StaffLogin(ctx context.Context, req StaffLoginRequest) (*LoginResponse, error)
	Unlock(ctx context.Context, sessionID string, req UnlockRequest) (*UnlockResponse, error)
	Logout(ctx context.Context, sessionID string) error
	Session(ctx context.Context, sessionID string, claims *pkgauth.AccessTokenClaims) (*SessionView, error)
	ManagerFor(ctx context.Context, sessionID string, claims *pkgauth.AccessTokenClaims) *session.Manager
	LookupShop(ctx context.Context, code string) (*ShopView, error)
}

type resumableStaffRepository interface {
	staffRepository
	FindByID(ctx context.Context, id uuid.UUID) (*models.StaffUser, error)
}

// sessionBinder is implemented by verifiers that can be bound to an identity
// outside the password path (staff PIN login, token resume).
type sessionBinder interface {
	MarkSignedIn(email string)
}

type service struct {
	registry   *session.Registry
	jwtCfg     config.JWTConfig
	sessionCfg config.SessionConfig
	logg       *logger.Logger
	redis      *redisclient.Client
	staff      resumableStaffRepository
	shops      shopRepository
	metrics    *metrics.SessionMetrics
	demoStore  *session.DemoStore
	clock      func() time.Time
}

// ServiceParams bundles the dependencies required to build the auth service.
// StaffRepo and ShopRepo nil together put the service in demo mode.
type ServiceParams struct {
	Registry      *session.Registry
	JWTConfig     config.JWTConfig
	SessionConfig config.SessionConfig
	Logger        *logger.Logger
	Redis         *redisclient.Client
	StaffRepo     resumableStaffRepository
	ShopRepo      shopRepository
	Metrics       *metrics.SessionMetrics
}

// NewService constructs the auth service.
func NewService(params ServiceParams) (Service, error) {
	if params.Registry == nil {
		return nil, fmt.Errorf("session registry is required")
	}
	if params.JWTConfig.Secret == "" {
		return nil, fmt.Errorf("jwt secret is required")
	}
	if (params.StaffRepo == nil) != (params.ShopRepo == nil) {
		return nil, fmt.Errorf("staff and shop repositories must be provided together")
	}
	svc := &service{
		registry:   params.Registry,
		jwtCfg:     params.JWTConfig,
		sessionCfg: params.SessionConfig,
		logg:       params.Logger,
		redis:      params.Redis,
		staff:      params.StaffRepo,
		shops:      params.ShopRepo,
		metrics:    params.Metrics,
		clock:      time.Now,
	}
	if svc.demoMode() {
		svc.demoStore = session.NewDemoStore()
	}
	return svc, nil
}

func (s *service) demoMode() bool {
	return s.staff == nil
}

func (s *service) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	jti := uuid.NewString()
	mgr, _, err := s.newManager(jti)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build session")
	}

	result := mgr.Login(ctx, req.Email, req.Password)
	if !result.Success {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, result.Error)
	}
	return s.issueSession(ctx, jti, mgr, result)
}

func (s *service) StaffLogin(ctx context.Context, req StaffLoginRequest) (*LoginResponse, error) {
	jti := uuid.NewString()
	mgr, verifier, err := s.newManager(jti)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build session")
	}

	result := mgr.StaffLogin(ctx, req.ShopCode, req.PIN)
	if !result.Success {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, result.Error)
	}
	// PIN logins bypass the password verifier, so bind the identity for
	// later token resumes.
	if binder, ok := verifier.(sessionBinder); ok {
		binder.MarkSignedIn(result.User.Email)
	}
	return s.issueSession(ctx, jti, mgr, result)
}

func (s *service) issueSession(ctx context.Context, jti string, mgr *session.Manager, result session.LoginResult) (*LoginResponse, error) {
	token, err := pkgauth.MintAccessToken(s.jwtCfg, s.clock(), pkgauth.AccessTokenPayload{
		UserID: result.User.ID,
		ShopID: result.Shop.ID,
		Role:   result.User.Role,
		JTI:    jti,
	})
	if err != nil {
		mgr.Logout(ctx)
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint token")
	}

	s.registry.Put(jti, mgr)
	s.storeSessionKey(ctx, jti, result.User.ID)

	return &LoginResponse{
		AccessToken:      token,
		ExpiresInMinutes: s.jwtCfg.ExpirationMinutes,
		User:             userView(result.User),
		Shop:             shopView(result.Shop),
	}, nil
}

func (s *service) Unlock(ctx context.Context, sessionID string, req UnlockRequest) (*UnlockResponse, error) {
	mgr := s.registry.Get(sessionID)
	if mgr == nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, sessionExpiredMessage)
	}

	result := mgr.UnlockWithPin(ctx, req.PIN)
	if result.LoggedOut {
		s.dropSession(ctx, sessionID)
	}
	return &UnlockResponse{
		Unlocked:     result.Success,
		AttemptsLeft: result.AttemptsLeft,
		LoggedOut:    result.LoggedOut,
	}, nil
}

// Logout tears down the session. Unknown session IDs are a no-op success so
// repeated logouts stay idempotent.
func (s *service) Logout(ctx context.Context, sessionID string) error {
	mgr := s.registry.Get(sessionID)
	if mgr != nil {
		mgr.Logout(ctx)
	}
	s.dropSession(ctx, sessionID)
	return nil
}

func (s *service) Session(ctx context.Context, sessionID string, claims *pkgauth.AccessTokenClaims) (*SessionView, error) {
	mgr := s.ManagerFor(ctx, sessionID, claims)
	if mgr == nil {
		return &SessionView{}, nil
	}
	state := mgr.Snapshot()
	return &SessionView{
		Authenticated: state.IsAuthenticated(),
		Locked:        state.IsLocked,
		User:          userView(state.User),
		Shop:          shopView(state.Shop),
	}, nil
}

// ManagerFor resolves the live manager for a token, resuming one from the
// persisted cache when the process restarted since login. Returns nil when
// the session cannot be resumed; callers treat that as an expired session.
func (s *service) ManagerFor(ctx context.Context, sessionID string, claims *pkgauth.AccessTokenClaims) *session.Manager {
	if mgr := s.registry.Get(sessionID); mgr != nil {
		return mgr
	}
	if claims == nil || !s.sessionAlive(ctx, sessionID) {
		return nil
	}

	mgr, verifier, err := s.newManager(sessionID)
	if err != nil {
		s.logError(ctx, err, "resume session build failed")
		return nil
	}

	email, err := s.resolveEmail(ctx, claims)
	if err != nil {
		return nil
	}
	if binder, ok := verifier.(sessionBinder); ok {
		binder.MarkSignedIn(email)
	} else {
		// Demo verifiers have no resume path; a relaunch means re-login.
		return nil
	}

	mgr.Initialize(ctx)
	if !mgr.IsAuthenticated() {
		return nil
	}
	s.registry.Put(sessionID, mgr)
	return mgr
}

func (s *service) LookupShop(ctx context.Context, code string) (*ShopView, error) {
	if s.demoMode() {
		shop, err := s.demoStore.FindShopByCode(ctx, code)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "shop not found")
		}
		return shopView(shop), nil
	}

	model, err := s.shops.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "shop not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup shop code")
	}
	return shopView(shopFromModel(model)), nil
}

func (s *service) newManager(jti string) (*session.Manager, session.Verifier, error) {
	var store session.AccountStore
	var verifier session.Verifier
	var cache session.Cache

	if s.demoMode() {
		store = s.demoStore
		verifier = session.NewDemoVerifier()
	} else {
		store = newStoreAdapter(s.staff, s.shops)
		verifier = newDBVerifier(s.staff)
	}
	if s.redis != nil {
		cache = session.NewRedisCache(s.redis, jti, s.sessionCfg.CacheTTL())
	}

	mgr, err := session.NewManager(session.ManagerParams{
		Store:          store,
		Verifier:       verifier,
		Cache:          cache,
		Logger:         s.logg,
		IdleTimeout:    s.sessionCfg.IdleTimeout,
		MaxPinAttempts: s.sessionCfg.MaxPinAttempts,
		Hooks: session.Hooks{
			OnLogin:        func(outcome string) { s.metrics.IncLogin(outcome) },
			OnIdleLock:     func() { s.metrics.IncIdleLock() },
			OnForcedLogout: func() { s.metrics.IncForcedLogout() },
		},
	})
	if err != nil {
		return nil, nil, err
	}
	return mgr, verifier, nil
}

func (s *service) resolveEmail(ctx context.Context, claims *pkgauth.AccessTokenClaims) (string, error) {
	user, err := s.staff.FindByID(ctx, claims.UserID)
	if err != nil {
		return "", err
	}
	return user.Email, nil
}

// storeSessionKey mirrors the session into Redis so other instances and the
// sweep job can see it. Best-effort: a Redis outage never blocks a login.
func (s *service) storeSessionKey(ctx context.Context, jti string, userID uuid.UUID) {
	if s.redis == nil {
		return
	}
	ttl := time.Duration(s.jwtCfg.ExpirationMinutes) * time.Minute
	if err := s.redis.Set(ctx, s.redis.SessionKey(jti), userID.String(), ttl); err != nil {
		s.logError(ctx, err, "session key write failed")
	}
}

func (s *service) sessionAlive(ctx context.Context, jti string) bool {
	if s.redis == nil {
		return true
	}
	if _, err := s.redis.Get(ctx, s.redis.SessionKey(jti)); err != nil {
		return false
	}
	return true
}

func (s *service) dropSession(ctx context.Context, jti string) {
	s.registry.Remove(jti)
	if s.redis == nil {
		return
	}
	if err := s.redis.Del(ctx, s.redis.SessionKey(jti)); err != nil {
		s.logError(ctx, err, "session key delete failed")
	}
}

func (s *service) logError(ctx context.Context, err error, msg string) {
	if s.logg == nil {
		return
	}
	s.logg.Error(ctx, msg, err)
}
