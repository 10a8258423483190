package favorites

import (
	"context"
	"time"

	product "github.com/angelmondragon/catalog-api/internal/products"
	"github.com/angelmondragon/catalog-api/pkg/db/models"
	pkgerrors "github.com/angelmondragon/catalog-api/pkg/errors"
	"github.com/angelmondragon/catalog-api/pkg/logger"
	"github.com/angelmondragon/catalog-api/pkg/metrics"
	"github.com/angelmondragon/catalog-api/pkg/pagination"
)

type favoriteStore interface {
	AddItems(ctx context.Context, userID uint, productIDs []uint, now time.Time) error
	RemoveProducts(ctx context.Context, productIDs []uint) (int64, error)
	ListProducts(ctx context.Context, userID uint, params pagination.Params) (pagination.Page[models.Product], error)
}

type productFormatter interface {
	FormatList(ctx context.Context, products []models.Product) ([]product.ProductDTO, error)
}

// ServiceParams groups dependencies for the favorites service.
type ServiceParams struct {
	Repo      favoriteStore
	Formatter productFormatter
	Metrics   *metrics.CatalogMetrics
	Logger    *logger.Logger
	Bounds    pagination.Bounds
}

// Service exposes a customer's favorite products.
type Service interface {
	List(ctx context.Context, userID uint, params pagination.Params) (pagination.Page[product.ProductDTO], error)
	Add(ctx context.Context, userID uint, productIDs []uint) error
	Remove(ctx context.Context, userID uint, productIDs []uint) error
}

type service struct {
	repo      favoriteStore
	formatter productFormatter
	metrics   *metrics.CatalogMetrics
	logg      *logger.Logger
	bounds    pagination.Bounds
	now       func() time.Time
}

// NewService builds a favorites service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "favorites repo is required")
	}
	if params.Formatter == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "product formatter is required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "logger is required")
	}
	bounds := params.Bounds
	if bounds.Default <= 0 || bounds.Max <= 0 {
		bounds = pagination.DefaultBounds
	}
	return &service{
		repo:      params.Repo,
		formatter: params.Formatter,
		metrics:   params.Metrics,
		logg:      params.Logger,
		bounds:    bounds,
		now:       time.Now,
	}, nil
}

// List returns the paginated favorite products of a user.
func (s *service) List(ctx context.Context, userID uint, params pagination.Params) (pagination.Page[product.ProductDTO], error) {
	params = s.bounds.Normalize(params)
	page, err := s.repo.ListProducts(ctx, userID, params)
	if err != nil {
		return pagination.Page[product.ProductDTO]{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list favorites")
	}
	items, err := s.formatter.FormatList(ctx, page.Items)
	if err != nil {
		return pagination.Page[product.ProductDTO]{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "format favorites")
	}
	return pagination.Page[product.ProductDTO]{
		Items:  items,
		Total:  page.Total,
		Limit:  page.Limit,
		Offset: page.Offset,
	}, nil
}

// Add favorites every product id for the user without existence checks.
func (s *service) Add(ctx context.Context, userID uint, productIDs []uint) error {
	if err := s.repo.AddItems(ctx, userID, productIDs, s.now()); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "add favorites")
	}
	s.metrics.AddFavorites("added", len(productIDs))
	return nil
}

// Remove deletes the favorites of the given products for every user, not
// just the caller.
func (s *service) Remove(ctx context.Context, userID uint, productIDs []uint) error {
	removed, err := s.repo.RemoveProducts(ctx, productIDs)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "remove favorites")
	}
	s.metrics.AddFavorites("removed", int(removed))
	ctx = s.logg.WithFields(ctx, map[string]any{
		"requested_by": userID,
		"product_ids":  productIDs,
		"rows_removed": removed,
	})
	s.logg.Info(ctx, "favorites removed")
	return nil
}
