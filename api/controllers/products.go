package controllers

import (
	"net/http"
	"strings"

	"github.com/angelmondragon/catalog-api/api/responses"
	"github.com/angelmondragon/catalog-api/api/validators"
	product "github.com/angelmondragon/catalog-api/internal/products"
	pkgerrors "github.com/angelmondragon/catalog-api/pkg/errors"
	"github.com/angelmondragon/catalog-api/pkg/i18n"
	"github.com/angelmondragon/catalog-api/pkg/logger"
	"github.com/angelmondragon/catalog-api/pkg/pagination"
	"github.com/angelmondragon/catalog-api/pkg/types"
)

const productIDParam = "id"

type pagedLister func(r *http.Request, params pagination.Params) (pagination.Page[product.ProductDTO], error)

func pagedProducts(page pagination.Page[product.ProductDTO]) types.PagedProducts {
	items := page.Items
	if items == nil {
		items = []product.ProductDTO{}
	}
	return types.PagedProducts{
		TotalSize: page.Total,
		Limit:     page.Limit,
		Offset:    page.Offset,
		Products:  items,
	}
}

func productListing(svc product.Service, bounds pagination.Bounds, logg *logger.Logger, list pagedLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}
		page, err := list(r, validators.ParsePagination(r, bounds))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, pagedProducts(page))
	}
}

// LatestProducts pages active products, newest first.
func LatestProducts(svc product.Service, bounds pagination.Bounds, logg *logger.Logger) http.HandlerFunc {
	return productListing(svc, bounds, logg, func(r *http.Request, params pagination.Params) (pagination.Page[product.ProductDTO], error) {
		return svc.Latest(r.Context(), params)
	})
}

// PopularProducts pages active products by popularity.
func PopularProducts(svc product.Service, bounds pagination.Bounds, logg *logger.Logger) http.HandlerFunc {
	return productListing(svc, bounds, logg, func(r *http.Request, params pagination.Params) (pagination.Page[product.ProductDTO], error) {
		return svc.Popular(r.Context(), params)
	})
}

// DailyNeedProducts pages active daily-need products.
func DailyNeedProducts(svc product.Service, bounds pagination.Bounds, logg *logger.Logger) http.HandlerFunc {
	return productListing(svc, bounds, logg, func(r *http.Request, params pagination.Params) (pagination.Page[product.ProductDTO], error) {
		return svc.DailyNeeds(r.Context(), params)
	})
}

// DiscountedProducts returns every discounted active product as a bare array.
func DiscountedProducts(svc product.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}
		items, err := svc.Discounted(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if items == nil {
			items = []product.ProductDTO{}
		}
		responses.WriteSuccess(w, items)
	}
}

type searchRequest struct {
	Name string `json:"name" validate:"required"`
}

// SearchProducts matches the name query against products and their
// translated names.
func SearchProducts(svc product.Service, bounds pagination.Bounds, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		req := searchRequest{Name: strings.TrimSpace(r.URL.Query().Get("name"))}
		if fields := validators.ValidateStruct(r.Context(), &req); fields != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Validation(fields))
			return
		}

		page, err := svc.Search(r.Context(), req.Name, validators.ParsePagination(r, bounds))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, pagedProducts(page))
	}
}

func malformedProductID(err error) error {
	return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, i18n.MsgProductNotFound).
		WithPublicCode(pkgerrors.PublicProductNotFound)
}

// ProductDetails returns one active product with translations and review count.
func ProductDetails(svc product.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}
		id, err := validators.ParseIDParam(r, productIDParam)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, malformedProductID(err))
			return
		}
		detail, err := svc.Detail(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, detail)
	}
}

// RelatedProducts lists active products sharing the product's category.
func RelatedProducts(svc product.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}
		id, err := validators.ParseIDParam(r, productIDParam)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, malformedProductID(err))
			return
		}
		items, err := svc.Related(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if items == nil {
			items = []product.ProductDTO{}
		}
		responses.WriteSuccess(w, items)
	}
}

// ProductRating writes the product's mean rating as a bare JSON number.
func ProductRating(svc product.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}
		id, err := validators.ParseIDParam(r, productIDParam)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeForbidden, err, err.Error()))
			return
		}
		rating, err := svc.Rating(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rating)
	}
}
