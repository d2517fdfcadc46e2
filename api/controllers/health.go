package controllers

import (
	"net/http"

	"github.com/aqarlink/aqarlink-backend/api/responses"
	"github.com/aqarlink/aqarlink-backend/pkg/config"
	"github.com/aqarlink/aqarlink-backend/pkg/db"
	pkgerrors "github.com/aqarlink/aqarlink-backend/pkg/errors"
	"github.com/aqarlink/aqarlink-backend/pkg/logger"
	"github.com/aqarlink/aqarlink-backend/pkg/redis"
)

const envHeader = "X-Aqarlink-Env"

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady reports readiness only when the backing stores respond.
func HealthReady(cfg *config.Config, logg *logger.Logger, dbP db.Pinger, redisP redis.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)

		if dbP != nil {
			if err := dbP.Ping(r.Context()); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "database unavailable"))
				return
			}
		}
		if redisP != nil {
			if err := redisP.Ping(r.Context()); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "redis unavailable"))
				return
			}
		}

		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
