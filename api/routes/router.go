package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/catalog-api/api/controllers"
	"github.com/angelmondragon/catalog-api/api/middleware"
	"github.com/angelmondragon/catalog-api/api/responses"
	"github.com/angelmondragon/catalog-api/internal/favorites"
	product "github.com/angelmondragon/catalog-api/internal/products"
	"github.com/angelmondragon/catalog-api/internal/reviews"
	"github.com/angelmondragon/catalog-api/pkg/auth/session"
	"github.com/angelmondragon/catalog-api/pkg/config"
	"github.com/angelmondragon/catalog-api/pkg/db"
	pkgerrors "github.com/angelmondragon/catalog-api/pkg/errors"
	"github.com/angelmondragon/catalog-api/pkg/i18n"
	"github.com/angelmondragon/catalog-api/pkg/logger"
	"github.com/angelmondragon/catalog-api/pkg/metrics"
	"github.com/angelmondragon/catalog-api/pkg/pagination"
	"github.com/angelmondragon/catalog-api/pkg/redis"
)

// RedisStore is the redis surface the HTTP layer needs: idempotency records,
// write throttling and readiness.
type RedisStore interface {
	redis.IdempotencyStore
	redis.RateLimiter
	redis.Pinger
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisStore RedisStore,
	sessions session.AccessSessionChecker,
	translator *i18n.Translator,
	httpMetrics *metrics.HTTPMetrics,
	gatherer prometheus.Gatherer,
	productService product.Service,
	reviewService reviews.Service,
	favoritesService favorites.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(httpMetrics),
		middleware.CORS(cfg.CORS),
		middleware.Locale(translator, logg),
	)

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		responses.WriteError(req.Context(), nil, w, pkgerrors.New(pkgerrors.CodeNotFound, "route not found"))
	})

	bounds := pagination.Bounds{Default: cfg.Catalog.DefaultPageSize, Max: cfg.Catalog.MaxPageSize}
	requireAuth := middleware.Auth(cfg.JWT, sessions, logg)

	var (
		idempotencyStore redis.IdempotencyStore
		limiter          redis.RateLimiter
		redisPinger      redis.Pinger
	)
	if redisStore != nil {
		idempotencyStore, limiter, redisPinger = redisStore, redisStore, redisStore
	}
	writeGuards := []func(http.Handler) http.Handler{
		middleware.WriteRateLimit(middleware.NewWriteRateLimitPolicy("write", cfg.RateLimit), limiter, logg),
		middleware.Idempotency(idempotencyStore, int64(cfg.Storage.MaxUploadMB)<<20, logg),
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisPinger))
	})

	if gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/products", func(r chi.Router) {
			r.Get("/latest", controllers.LatestProducts(productService, bounds, logg))
			r.Get("/popular", controllers.PopularProducts(productService, bounds, logg))
			r.Get("/discounted", controllers.DiscountedProducts(productService, logg))
			r.Get("/daily-needs", controllers.DailyNeedProducts(productService, bounds, logg))
			r.Get("/search", controllers.SearchProducts(productService, bounds, logg))
			r.Get("/details/{id}", controllers.ProductDetails(productService, logg))
			r.Get("/related-products/{id}", controllers.RelatedProducts(productService, logg))
			r.Get("/reviews/{id}", controllers.ProductReviews(reviewService, logg))
			r.Get("/rating/{id}", controllers.ProductRating(productService, logg))

			r.Group(func(r chi.Router) {
				r.Use(requireAuth)
				r.Use(writeGuards...)
				r.Post("/reviews/submit", controllers.SubmitReview(reviewService, cfg.Storage.MaxUploadMB, logg))
			})
		})

		r.Route("/customer/wish-list", func(r chi.Router) {
			r.Use(requireAuth)
			r.Get("/", controllers.WishList(favoritesService, bounds, logg))

			r.Group(func(r chi.Router) {
				r.Use(writeGuards...)
				r.Post("/add", controllers.WishListAdd(favoritesService, logg))
				r.Delete("/remove", controllers.WishListRemove(favoritesService, logg))
			})
		})
	})

	return r
}
