package controllers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	product "github.com/angelmondragon/catalog-api/internal/products"
	pkgerrors "github.com/angelmondragon/catalog-api/pkg/errors"
	"github.com/angelmondragon/catalog-api/pkg/i18n"
	"github.com/angelmondragon/catalog-api/pkg/pagination"
)

type stubProductService struct {
	page       pagination.Page[product.ProductDTO]
	items      []product.ProductDTO
	detail     *product.ProductDetailDTO
	rating     float64
	err        error
	gotParams  pagination.Params
	gotName    string
	gotID      uint
	searchCall int
}

func (s *stubProductService) listing(params pagination.Params) (pagination.Page[product.ProductDTO], error) {
	s.gotParams = params
	return s.page, s.err
}

func (s *stubProductService) Latest(_ context.Context, p pagination.Params) (pagination.Page[product.ProductDTO], error) {
	return s.listing(p)
}

func (s *stubProductService) Popular(_ context.Context, p pagination.Params) (pagination.Page[product.ProductDTO], error) {
	return s.listing(p)
}

func (s *stubProductService) DailyNeeds(_ context.Context, p pagination.Params) (pagination.Page[product.ProductDTO], error) {
	return s.listing(p)
}

func (s *stubProductService) Discounted(context.Context) ([]product.ProductDTO, error) {
	return s.items, s.err
}

func (s *stubProductService) Search(_ context.Context, name string, p pagination.Params) (pagination.Page[product.ProductDTO], error) {
	s.searchCall++
	s.gotName = name
	return s.listing(p)
}

func (s *stubProductService) Detail(_ context.Context, id uint) (*product.ProductDetailDTO, error) {
	s.gotID = id
	return s.detail, s.err
}

func (s *stubProductService) Related(_ context.Context, id uint) ([]product.ProductDTO, error) {
	s.gotID = id
	return s.items, s.err
}

func (s *stubProductService) Rating(_ context.Context, id uint) (float64, error) {
	s.gotID = id
	return s.rating, s.err
}

func notFound(key string) error {
	return pkgerrors.New(pkgerrors.CodeNotFound, key).WithPublicCode(pkgerrors.PublicProductNotFound)
}

func TestLatestProductsWritesPagedEnvelope(t *testing.T) {
	svc := &stubProductService{page: pagination.Page[product.ProductDTO]{
		Items:  []product.ProductDTO{{ID: 2, Name: "Milk"}},
		Total:  11,
		Limit:  1,
		Offset: 2,
	}}
	req := httptest.NewRequest(http.MethodGet, "/api/v1/products/latest?limit=1&offset=2", nil)
	rec := serve(LatestProducts(svc, pagination.DefaultBounds, testLogger()), req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, pagination.Params{Limit: 1, Offset: 2}, svc.gotParams)
	body := decodeBody(t, rec)
	assert.EqualValues(t, 11, body["total_size"])
	assert.EqualValues(t, 1, body["limit"])
	assert.EqualValues(t, 2, body["offset"])
	products := body["products"].([]any)
	require.Len(t, products, 1)
	assert.Equal(t, "Milk", products[0].(map[string]any)["name"])
}

func TestListingFailureIsProductsNotFound(t *testing.T) {
	svc := &stubProductService{err: notFound(i18n.MsgProductsNotFound)}
	for name, h := range map[string]http.Handler{
		"popular":     PopularProducts(svc, pagination.DefaultBounds, testLogger()),
		"daily-needs": DailyNeedProducts(svc, pagination.DefaultBounds, testLogger()),
		"discounted":  DiscountedProducts(svc, testLogger()),
	} {
		rec := serve(h, httptest.NewRequest(http.MethodGet, "/", nil))
		require.Equal(t, http.StatusNotFound, rec.Code, name)
		errs := errorsOf(t, rec)
		assert.Equal(t, "product-001", errs["code"], name)
		assert.Equal(t, "Products not found!", errs["message"], name)
	}
}

func TestDiscountedProductsIsBareArray(t *testing.T) {
	svc := &stubProductService{}
	rec := serve(DiscountedProducts(svc, testLogger()), httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestSearchProductsRequiresName(t *testing.T) {
	svc := &stubProductService{}
	rec := serve(SearchProducts(svc, pagination.DefaultBounds, testLogger()), httptest.NewRequest(http.MethodGet, "/?name=%20%20", nil))

	require.Equal(t, http.StatusForbidden, rec.Code)
	errs := errorsOf(t, rec)
	assert.Equal(t, []any{"The name field is required."}, errs["name"])
	assert.Zero(t, svc.searchCall)
}

func TestSearchProductsPassesTrimmedName(t *testing.T) {
	svc := &stubProductService{page: pagination.Page[product.ProductDTO]{Limit: 15, Offset: 1}}
	rec := serve(SearchProducts(svc, pagination.DefaultBounds, testLogger()), httptest.NewRequest(http.MethodGet, "/?name=+fresh+milk+", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "fresh milk", svc.gotName)
	assert.Equal(t, pagination.Params{Limit: 15, Offset: 1}, svc.gotParams)
	assert.JSONEq(t, `{"total_size":0,"limit":15,"offset":1,"products":[]}`, rec.Body.String())
}

func TestProductDetails(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		svc := &stubProductService{detail: &product.ProductDetailDTO{ProductDTO: product.ProductDTO{ID: 7, Name: "Bread"}, ReviewsCount: 3}}
		req := withURLParam(httptest.NewRequest(http.MethodGet, "/", nil), "id", "7")
		rec := serve(ProductDetails(svc, testLogger()), req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.EqualValues(t, 7, svc.gotID)
		body := decodeBody(t, rec)
		assert.Equal(t, "Bread", body["name"])
		assert.EqualValues(t, 3, body["reviews_count"])
	})

	t.Run("unknown", func(t *testing.T) {
		svc := &stubProductService{err: notFound(i18n.MsgProductNotFound)}
		req := withURLParam(httptest.NewRequest(http.MethodGet, "/", nil), "id", "999")
		rec := serve(ProductDetails(svc, testLogger()), req)

		require.Equal(t, http.StatusNotFound, rec.Code)
		errs := errorsOf(t, rec)
		assert.Equal(t, "product-001", errs["code"])
		assert.Equal(t, "Product not found!", errs["message"])
	})

	t.Run("malformed id", func(t *testing.T) {
		svc := &stubProductService{}
		req := withURLParam(httptest.NewRequest(http.MethodGet, "/", nil), "id", "abc")
		rec := serve(ProductDetails(svc, testLogger()), req)

		require.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "product-001", errorsOf(t, rec)["code"])
	})
}

func TestRelatedProducts(t *testing.T) {
	svc := &stubProductService{items: []product.ProductDTO{{ID: 3}, {ID: 2}}}
	req := withURLParam(httptest.NewRequest(http.MethodGet, "/", nil), "id", "4")
	rec := serve(RelatedProducts(svc, testLogger()), req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 4, svc.gotID)

	var body []map[string]any
	require.NoError(t, jsonUnmarshal(rec, &body))
	require.Len(t, body, 2)

	svc = &stubProductService{}
	rec = serve(RelatedProducts(svc, testLogger()), withURLParam(httptest.NewRequest(http.MethodGet, "/", nil), "id", "4"))
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestProductRating(t *testing.T) {
	t.Run("number body", func(t *testing.T) {
		svc := &stubProductService{rating: 4.5}
		rec := serve(ProductRating(svc, testLogger()), withURLParam(httptest.NewRequest(http.MethodGet, "/", nil), "id", "1"))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `4.5`, rec.Body.String())
	})

	t.Run("failure carries raw text", func(t *testing.T) {
		cause := errors.New("record not found")
		svc := &stubProductService{err: pkgerrors.Wrap(pkgerrors.CodeForbidden, cause, cause.Error())}
		rec := serve(ProductRating(svc, testLogger()), withURLParam(httptest.NewRequest(http.MethodGet, "/", nil), "id", "404"))

		require.Equal(t, http.StatusForbidden, rec.Code)
		errs := errorsOf(t, rec)
		assert.Equal(t, "record not found", errs["message"])
		_, hasCode := errs["code"]
		assert.False(t, hasCode)
	})

	t.Run("malformed id", func(t *testing.T) {
		rec := serve(ProductRating(&stubProductService{}, testLogger()), withURLParam(httptest.NewRequest(http.MethodGet, "/", nil), "id", "x"))
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}
