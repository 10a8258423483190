package product

import (
	"context"
	"fmt"

	"github.com/angelmondragon/catalog-api/internal/repo"
	"github.com/angelmondragon/catalog-api/pkg/db"
	"github.com/angelmondragon/catalog-api/pkg/db/models"
	"github.com/angelmondragon/catalog-api/pkg/enums"
	pkgerrors "github.com/angelmondragon/catalog-api/pkg/errors"
	"github.com/angelmondragon/catalog-api/pkg/i18n"
	"github.com/angelmondragon/catalog-api/pkg/metrics"
	"github.com/angelmondragon/catalog-api/pkg/pagination"
)

const (
	searchPathPrimary     = "primary"
	searchPathTranslation = "translation"
	defaultRelatedLimit   = 10
)

// Service exposes the storefront catalog reads.
type Service interface {
	Latest(ctx context.Context, params pagination.Params) (pagination.Page[ProductDTO], error)
	Popular(ctx context.Context, params pagination.Params) (pagination.Page[ProductDTO], error)
	DailyNeeds(ctx context.Context, params pagination.Params) (pagination.Page[ProductDTO], error)
	Discounted(ctx context.Context) ([]ProductDTO, error)
	Search(ctx context.Context, name string, params pagination.Params) (pagination.Page[ProductDTO], error)
	Detail(ctx context.Context, id uint) (*ProductDetailDTO, error)
	Related(ctx context.Context, id uint) ([]ProductDTO, error)
	Rating(ctx context.Context, id uint) (float64, error)
}

type productReader interface {
	Latest(ctx context.Context, params pagination.Params) (pagination.Page[models.Product], error)
	Popular(ctx context.Context, params pagination.Params) (pagination.Page[models.Product], error)
	DailyNeeds(ctx context.Context, params pagination.Params) (pagination.Page[models.Product], error)
	Discounted(ctx context.Context) ([]models.Product, error)
	Search(ctx context.Context, tokens []string, params pagination.Params) (pagination.Page[models.Product], error)
	ActiveByIDs(ctx context.Context, ids []uint, params pagination.Params) (pagination.Page[models.Product], error)
	FindByID(ctx context.Context, id uint) (*models.Product, error)
	FindActive(ctx context.Context, id uint) (*models.Product, error)
	Related(ctx context.Context, p *models.Product, limit int) ([]models.Product, error)
	OverallRating(ctx context.Context, productID uint) (RatingAggregate, error)
}

type translationMatcher interface {
	MatchingProductIDs(ctx context.Context, key enums.TranslationKey, tokens []string) ([]uint, error)
}

type productFormatter interface {
	FormatList(ctx context.Context, products []models.Product) ([]ProductDTO, error)
	FormatDetail(ctx context.Context, p *models.Product) (*ProductDetailDTO, error)
}

// ServiceConfig carries the catalog knobs of the product service.
type ServiceConfig struct {
	Bounds       pagination.Bounds
	RelatedLimit int
}

type service struct {
	repo         productReader
	translations translationMatcher
	formatter    productFormatter
	metrics      *metrics.CatalogMetrics
	cfg          ServiceConfig
}

// NewService constructs the product service. metrics may be nil.
func NewService(repo productReader, tr translationMatcher, formatter productFormatter, m *metrics.CatalogMetrics, cfg ServiceConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	if tr == nil {
		return nil, fmt.Errorf("translation repository required")
	}
	if formatter == nil {
		return nil, fmt.Errorf("product formatter required")
	}
	if cfg.RelatedLimit <= 0 {
		cfg.RelatedLimit = defaultRelatedLimit
	}
	if cfg.Bounds.Default <= 0 || cfg.Bounds.Max <= 0 {
		cfg.Bounds = pagination.DefaultBounds
	}
	return &service{
		repo:         repo,
		translations: tr,
		formatter:    formatter,
		metrics:      m,
		cfg:          cfg,
	}, nil
}

func productsNotFound(err error) error {
	return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, i18n.MsgProductsNotFound).
		WithPublicCode(pkgerrors.PublicProductNotFound)
}

func productNotFound(err error) error {
	return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, i18n.MsgProductNotFound).
		WithPublicCode(pkgerrors.PublicProductNotFound)
}

type pageLoader func(ctx context.Context, params pagination.Params) (pagination.Page[models.Product], error)

// listing loads and formats a page; any failure surfaces as product-001.
func (s *service) listing(ctx context.Context, params pagination.Params, load pageLoader) (pagination.Page[ProductDTO], error) {
	params = s.cfg.Bounds.Normalize(params)
	page, err := load(ctx, params)
	if err != nil {
		return pagination.Page[ProductDTO]{}, productsNotFound(err)
	}
	out, err := s.formatPage(ctx, page)
	if err != nil {
		return pagination.Page[ProductDTO]{}, productsNotFound(err)
	}
	return out, nil
}

func (s *service) formatPage(ctx context.Context, page pagination.Page[models.Product]) (pagination.Page[ProductDTO], error) {
	items, err := s.formatter.FormatList(ctx, page.Items)
	if err != nil {
		return pagination.Page[ProductDTO]{}, err
	}
	return pagination.Page[ProductDTO]{
		Items:  items,
		Total:  page.Total,
		Limit:  page.Limit,
		Offset: page.Offset,
	}, nil
}

func (s *service) Latest(ctx context.Context, params pagination.Params) (pagination.Page[ProductDTO], error) {
	return s.listing(ctx, params, s.repo.Latest)
}

func (s *service) Popular(ctx context.Context, params pagination.Params) (pagination.Page[ProductDTO], error) {
	return s.listing(ctx, params, s.repo.Popular)
}

func (s *service) DailyNeeds(ctx context.Context, params pagination.Params) (pagination.Page[ProductDTO], error) {
	return s.listing(ctx, params, s.repo.DailyNeeds)
}

func (s *service) Discounted(ctx context.Context) ([]ProductDTO, error) {
	rows, err := s.repo.Discounted(ctx)
	if err != nil {
		return nil, productsNotFound(err)
	}
	out, err := s.formatter.FormatList(ctx, rows)
	if err != nil {
		return nil, productsNotFound(err)
	}
	return out, nil
}

// Search matches name tokens against products first and falls back to
// translated names when that page is empty.
func (s *service) Search(ctx context.Context, name string, params pagination.Params) (pagination.Page[ProductDTO], error) {
	params = s.cfg.Bounds.Normalize(params)
	tokens := repo.Tokens(name)

	page, err := s.repo.Search(ctx, tokens, params)
	if err != nil {
		return pagination.Page[ProductDTO]{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "search products")
	}

	path := searchPathPrimary
	if len(page.Items) == 0 {
		ids, err := s.translations.MatchingProductIDs(ctx, enums.TranslationKeyName, tokens)
		if err != nil {
			return pagination.Page[ProductDTO]{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "search translations")
		}
		page, err = s.repo.ActiveByIDs(ctx, ids, params)
		if err != nil {
			return pagination.Page[ProductDTO]{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load translated matches")
		}
		path = searchPathTranslation
	}
	s.metrics.IncSearch(path)

	out, err := s.formatPage(ctx, page)
	if err != nil {
		return pagination.Page[ProductDTO]{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "format search results")
	}
	return out, nil
}

func (s *service) Detail(ctx context.Context, id uint) (*ProductDetailDTO, error) {
	product, err := s.repo.FindActive(ctx, id)
	if err != nil {
		return nil, productNotFound(err)
	}
	out, err := s.formatter.FormatDetail(ctx, product)
	if err != nil {
		return nil, productNotFound(err)
	}
	return out, nil
}

func (s *service) Related(ctx context.Context, id uint) ([]ProductDTO, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, productNotFound(err)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load product")
	}

	rows, err := s.repo.Related(ctx, product, s.cfg.RelatedLimit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load related products")
	}
	out, err := s.formatter.FormatList(ctx, rows)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "format related products")
	}
	return out, nil
}

// Rating returns the rounded mean rating. Failures carry the raw error text
// and map to 403.
func (s *service) Rating(ctx context.Context, id uint) (float64, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeForbidden, err, err.Error())
	}
	agg, err := s.repo.OverallRating(ctx, product.ID)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeForbidden, err, err.Error())
	}
	return RoundRating(agg.Average), nil
}
