package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/mazaohq/mazao-pos-backend/api/responses"
	"github.com/mazaohq/mazao-pos-backend/internal/session"
	pkgauth "github.com/mazaohq/mazao-pos-backend/pkg/auth"
	"github.com/mazaohq/mazao-pos-backend/pkg/config"
	pkgerrors "github.com/mazaohq/mazao-pos-backend/pkg/errors"
	"github.com/mazaohq/mazao-pos-backend/pkg/logger"
)

// SessionResolver maps verified token claims to the live server-side session.
// A nil manager means the session is gone (logged out, swept, or never
// existed) and the token must be rejected even if its signature is valid.
type SessionResolver interface {
	ManagerFor(ctx context.Context, sessionID string, claims *pkgauth.AccessTokenClaims) *session.Manager
}

// Auth verifies the bearer token, resolves the live session manager and seeds
// the request context with the caller's identity. Every request through here
// counts as activity and resets the session's inactivity timer.
func Auth(cfg config.JWTConfig, sessions SessionResolver, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			token := bearerToken(r)
			if token == "" {
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing bearer token"))
				return
			}

			claims, err := pkgauth.ParseAccessToken(cfg, token)
			if err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token"))
				return
			}

			mgr := sessions.ManagerFor(ctx, claims.ID, claims)
			if mgr == nil || !mgr.IsAuthenticated() {
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "session expired"))
				return
			}
			mgr.Touch()

			ctx = WithIdentity(ctx, claims)
			ctx = context.WithValue(ctx, ctxSession, mgr)
			if logg != nil {
				ctx = logg.WithFields(ctx, map[string]any{
					"user_id": claims.UserID.String(),
					"shop_id": claims.ShopID.String(),
				})
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SessionFromContext returns the live manager placed by Auth, or nil.
func SessionFromContext(ctx context.Context) *session.Manager {
	if ctx == nil {
		return nil
	}
	if v, ok := ctx.Value(ctxSession).(*session.Manager); ok {
		return v
	}
	return nil
}

// LockGuard rejects requests while the session is PIN-locked. Unlock, logout
// and session introspection stay reachable so a locked till can recover.
func LockGuard(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			mgr := SessionFromContext(r.Context())
			if mgr == nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "session expired"))
				return
			}
			if mgr.Snapshot().IsLocked {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeLocked, "session locked, unlock with PIN"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(r *http.Request) string {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
