package controllers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/angelmondragon/catalog-api/api/responses"
	"github.com/angelmondragon/catalog-api/pkg/config"
	"github.com/angelmondragon/catalog-api/pkg/db"
	pkgerrors "github.com/angelmondragon/catalog-api/pkg/errors"
	"github.com/angelmondragon/catalog-api/pkg/logger"
	"github.com/angelmondragon/catalog-api/pkg/redis"
)

const readinessTimeout = 3 * time.Second

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Catalog-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings the database and redis concurrently. A nil redis pinger
// is skipped.
func HealthReady(cfg *config.Config, logg *logger.Logger, dbP db.Pinger, redisP redis.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Catalog-Env", cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()

		g, gctx := errgroup.WithContext(ctx)
		if dbP != nil {
			g.Go(func() error {
				if err := dbP.Ping(gctx); err != nil {
					return fmt.Errorf("database: %w", err)
				}
				return nil
			})
		}
		if redisP != nil {
			g.Go(func() error {
				if err := redisP.Ping(gctx); err != nil {
					return fmt.Errorf("redis: %w", err)
				}
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "dependency unavailable"))
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
