package controllers

import (
	"net/http"

	"github.com/mazaohq/mazao-pos-backend/api/middleware"
	"github.com/mazaohq/mazao-pos-backend/api/responses"
	"github.com/mazaohq/mazao-pos-backend/api/validators"
	"github.com/mazaohq/mazao-pos-backend/internal/auth"
	pkgerrors "github.com/mazaohq/mazao-pos-backend/pkg/errors"
	"github.com/mazaohq/mazao-pos-backend/pkg/logger"
)

// AuthLogin handles email/password sign-in and mints the till's access token.
func AuthLogin(service auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req auth.LoginRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		resp, err := service.Login(r.Context(), req)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, resp)
	}
}

// AuthStaffLogin handles shop-code plus PIN sign-in at the counter.
func AuthStaffLogin(service auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req auth.StaffLoginRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		resp, err := service.StaffLogin(r.Context(), req)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, resp)
	}
}

// AuthUnlock attempts a PIN unlock of the caller's locked session.
func AuthUnlock(service auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req auth.UnlockRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		resp, err := service.Unlock(r.Context(), middleware.SessionIDFromContext(r.Context()), req)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, resp)
	}
}

// AuthLogout terminates the caller's session. Safe to repeat.
func AuthLogout(service auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := service.Logout(r.Context(), middleware.SessionIDFromContext(r.Context())); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"logged_out": true})
	}
}

// AuthTouch registers activity, resetting the session's inactivity timer.
func AuthTouch(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mgr := middleware.SessionFromContext(r.Context())
		if mgr == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "session expired"))
			return
		}
		mgr.Touch()
		responses.WriteSuccess(w, map[string]bool{"locked": mgr.Snapshot().IsLocked})
	}
}

// AuthSession returns the current session snapshot for the caller's token.
func AuthSession(service auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		view, err := service.Session(ctx, middleware.SessionIDFromContext(ctx), middleware.ClaimsFromContext(ctx))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

// ShopLookup resolves a shop code to pre-login branding.
func ShopLookup(service auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := validators.SanitizeString(r.URL.Query().Get("code"), 32)
		if code == "" {
			err := pkgerrors.New(pkgerrors.CodeValidation, "code query parameter is required")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := service.LookupShop(r.Context(), code)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}
