package controllers

import (
	"context"
	"net/http"

	"github.com/mazaohq/mazao-pos-backend/api/responses"
	"github.com/mazaohq/mazao-pos-backend/pkg/config"
	pkgerrors "github.com/mazaohq/mazao-pos-backend/pkg/errors"
	"github.com/mazaohq/mazao-pos-backend/pkg/logger"
)

// Pinger is satisfied by the db and redis clients.
type Pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Mazao-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings the wired backing stores. Nil pingers are skipped, so a
// demo-mode deployment with no database still reports ready.
func HealthReady(cfg *config.Config, logg *logger.Logger, dbP, redisP Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Mazao-Env", cfg.App.Env)
		checks := map[string]string{}

		failed := false
		if dbP != nil {
			checks["db"] = "ok"
			if err := dbP.Ping(r.Context()); err != nil {
				checks["db"] = err.Error()
				failed = true
			}
		}
		if redisP != nil {
			checks["redis"] = "ok"
			if err := redisP.Ping(r.Context()); err != nil {
				checks["redis"] = err.Error()
				failed = true
			}
		}

		if failed {
			err := pkgerrors.New(pkgerrors.CodeDependency, "backing store unavailable").
				WithDetails(checks)
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"status": "ready", "checks": checks})
	}
}
