package controllers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/chamber122/chamber122-backend/api/responses"
	"github.com/chamber122/chamber122-backend/pkg/config"
	pkgerrors "github.com/chamber122/chamber122-backend/pkg/errors"
	"github.com/chamber122/chamber122-backend/pkg/logger"
	"github.com/chamber122/chamber122-backend/pkg/types"
	"go.uber.org/multierr"
)

func Health(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if cfg != nil {
			w.Header().Set("X-Chamber122-Env", cfg.App.Env)
		}
		responses.WriteSuccess(w, types.Payload{"status": "running"})
	}
}

type pinger interface {
	Ping(ctx context.Context) error
}

// HealthReady pings the database and, when configured, redis.
func HealthReady(cfg *config.Config, logg *logger.Logger, dbP pinger, redisP pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if cfg != nil {
			w.Header().Set("X-Chamber122-Env", cfg.App.Env)
		}
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		checks := map[string]string{}
		var failed error
		if dbP != nil {
			if err := dbP.Ping(ctx); err != nil {
				checks["database"] = "error"
				failed = multierr.Append(failed, fmt.Errorf("database: %w", err))
			} else {
				checks["database"] = "ok"
			}
		}
		if redisP != nil {
			if err := redisP.Ping(ctx); err != nil {
				checks["redis"] = "error"
				failed = multierr.Append(failed, fmt.Errorf("redis: %w", err))
			} else {
				checks["redis"] = "ok"
			}
		}

		if failed != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, failed, "dependency check failed").WithDetails(checks))
			return
		}
		responses.WriteSuccess(w, types.Payload{"status": "ready", "checks": checks})
	}
}
