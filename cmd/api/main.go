package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"

	"github.com/angelmondragon/catalog-api/api/routes"
	"github.com/angelmondragon/catalog-api/internal/favorites"
	product "github.com/angelmondragon/catalog-api/internal/products"
	"github.com/angelmondragon/catalog-api/internal/reviews"
	"github.com/angelmondragon/catalog-api/internal/translations"
	"github.com/angelmondragon/catalog-api/pkg/auth/session"
	"github.com/angelmondragon/catalog-api/pkg/config"
	"github.com/angelmondragon/catalog-api/pkg/db"
	"github.com/angelmondragon/catalog-api/pkg/env"
	"github.com/angelmondragon/catalog-api/pkg/i18n"
	"github.com/angelmondragon/catalog-api/pkg/instance"
	"github.com/angelmondragon/catalog-api/pkg/logger"
	"github.com/angelmondragon/catalog-api/pkg/metrics"
	"github.com/angelmondragon/catalog-api/pkg/migrate"
	"github.com/angelmondragon/catalog-api/pkg/pagination"
	"github.com/angelmondragon/catalog-api/pkg/redis"
	"github.com/angelmondragon/catalog-api/pkg/storage"
	"github.com/angelmondragon/catalog-api/pkg/storage/gcs"
	"github.com/angelmondragon/catalog-api/pkg/storage/local"
)

type closer func() error

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var closers []closer
	exit := func(code int) {
		if err := closeAll(closers); err != nil {
			logg.Error(context.Background(), "error releasing resources", err)
		}
		os.Exit(code)
	}

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap database", err)
		exit(1)
	}
	closers = append(closers, dbClient.Close)

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		logg.Error(ctx, "failed to run dev migrations", err)
		exit(1)
	}

	var (
		redisStore routes.RedisStore
		sessions   session.AccessSessionChecker
	)
	if cfg.Redis.Enabled() {
		redisClient, err := redis.New(ctx, cfg.Redis, logg)
		if err != nil {
			logg.Error(ctx, "failed to bootstrap redis", err)
			exit(1)
		}
		closers = append(closers, redisClient.Close)

		sessionManager, err := session.NewManager(redisClient, cfg.JWT)
		if err != nil {
			logg.Error(ctx, "failed to create session manager", err)
			exit(1)
		}
		redisStore, sessions = redisClient, sessionManager
	} else {
		logg.Warn(ctx, "redis disabled: sessions, idempotency and write throttling are off")
	}

	files, closeFiles, err := newStore(ctx, cfg, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap storage", err)
		exit(1)
	}
	if closeFiles != nil {
		closers = append(closers, closeFiles)
	}

	translator, err := i18n.New(cfg.Catalog.Locales, cfg.Catalog.DefaultLocale)
	if err != nil {
		logg.Error(ctx, "failed to load translations", err)
		exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	httpMetrics := metrics.NewHTTPMetrics(registry)
	catalogMetrics := metrics.NewCatalogMetrics(registry)

	conn := dbClient.DB()
	bounds := pagination.Bounds{Default: cfg.Catalog.DefaultPageSize, Max: cfg.Catalog.MaxPageSize}
	productRepo := product.NewRepository(conn)
	translationRepo := translations.NewRepository(conn)

	formatter, err := product.NewFormatter(translationRepo, productRepo, files, cfg.Catalog.CurrencyDecimals)
	if err != nil {
		logg.Error(ctx, "failed to create product formatter", err)
		exit(1)
	}
	productService, err := product.NewService(productRepo, translationRepo, formatter, catalogMetrics, product.ServiceConfig{
		Bounds:       bounds,
		RelatedLimit: cfg.Catalog.RelatedLimit,
	})
	if err != nil {
		logg.Error(ctx, "failed to create product service", err)
		exit(1)
	}
	reviewService, err := reviews.NewService(reviews.NewRepository(conn), productRepo, files, catalogMetrics, logg)
	if err != nil {
		logg.Error(ctx, "failed to create review service", err)
		exit(1)
	}
	favoritesService, err := favorites.NewService(favorites.ServiceParams{
		Repo:      favorites.NewRepository(conn),
		Formatter: formatter,
		Metrics:   catalogMetrics,
		Logger:    logg,
		Bounds:    bounds,
	})
	if err != nil {
		logg.Error(ctx, "failed to create favorites service", err)
		exit(1)
	}

	addr := ":" + env.Get("PORT", cfg.App.Port)
	runCtx := logg.WithFields(ctx, map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": instance.GetID(),
		"storage":  cfg.Storage.Driver,
	})
	logg.Info(runCtx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg, logg, dbClient, redisStore, sessions, translator,
			httpMetrics, registry, productService, reviewService, favoritesService,
		),
		ReadTimeout:  cfg.App.ReadTimeout,
		WriteTimeout: cfg.App.WriteTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			logg.Error(runCtx, "api server stopped unexpectedly", err)
			exit(1)
		}
	case <-ctx.Done():
		logg.Info(runCtx, "shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownWait)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logg.Error(runCtx, "graceful shutdown failed", err)
		cancel()
		exit(1)
	}
	if err := closeAll(closers); err != nil {
		logg.Error(runCtx, "error releasing resources", err)
	}
	logg.Info(runCtx, "api server stopped")
}

// newStore picks the attachment backend. The returned closer may be nil.
func newStore(ctx context.Context, cfg *config.Config, logg *logger.Logger) (storage.Store, closer, error) {
	if strings.EqualFold(cfg.Storage.Driver, config.StorageDriverGCS) {
		client, err := gcs.NewClient(ctx, cfg.Storage, cfg.GCP, logg)
		if err != nil {
			return nil, nil, err
		}
		return client, client.Close, nil
	}
	store, err := local.New(cfg.Storage.LocalRoot, cfg.Storage.PublicBaseURL)
	if err != nil {
		return nil, nil, err
	}
	return store, nil, nil
}

// closeAll releases resources in reverse acquisition order.
func closeAll(closers []closer) error {
	var err error
	for i := len(closers) - 1; i >= 0; i-- {
		err = multierr.Append(err, closers[i]())
	}
	return err
}
