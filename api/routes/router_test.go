package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/angelmondragon/catalog-api/internal/favorites"
	product "github.com/angelmondragon/catalog-api/internal/products"
	"github.com/angelmondragon/catalog-api/internal/reviews"
	"github.com/angelmondragon/catalog-api/internal/testdb"
	"github.com/angelmondragon/catalog-api/internal/translations"
	pkgAuth "github.com/angelmondragon/catalog-api/pkg/auth"
	"github.com/angelmondragon/catalog-api/pkg/config"
	"github.com/angelmondragon/catalog-api/pkg/db/models"
	"github.com/angelmondragon/catalog-api/pkg/enums"
	"github.com/angelmondragon/catalog-api/pkg/i18n"
	"github.com/angelmondragon/catalog-api/pkg/logger"
	"github.com/angelmondragon/catalog-api/pkg/metrics"
	pkgredis "github.com/angelmondragon/catalog-api/pkg/redis"
	"github.com/angelmondragon/catalog-api/pkg/storage/local"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

type stubSessionChecker struct{}

func (stubSessionChecker) HasSession(context.Context, string) (bool, error) {
	return true, nil
}

type fakeRedis struct {
	data   map[string]string
	counts map[string]int64
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{data: map[string]string{}, counts: map[string]int64{}}
}

func (f *fakeRedis) Get(_ context.Context, key string) (string, error) {
	if v, ok := f.data[key]; ok {
		return v, nil
	}
	return "", pkgredis.ErrNil
}

func (f *fakeRedis) SetNX(_ context.Context, key string, value any, _ time.Duration) (bool, error) {
	if _, ok := f.data[key]; ok {
		return false, nil
	}
	f.data[key], _ = value.(string)
	return true, nil
}

func (f *fakeRedis) Set(_ context.Context, key string, value any, _ time.Duration) error {
	f.data[key], _ = value.(string)
	return nil
}

func (f *fakeRedis) Del(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(f.data, k)
	}
	return nil
}

func (f *fakeRedis) IdempotencyKey(scope, id string) string {
	return "idem:" + scope + ":" + id
}

func (f *fakeRedis) FixedWindowAllow(_ context.Context, scope string, limit int64, _ time.Duration) (bool, int64, error) {
	f.counts[scope]++
	return f.counts[scope] <= limit, f.counts[scope], nil
}

func (f *fakeRedis) Ping(context.Context) error {
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		App:       config.AppConfig{Env: "dev"},
		JWT:       config.JWTConfig{Secret: "secret", Issuer: "catalog", ExpirationMinutes: 60},
		Storage:   config.StorageConfig{MaxUploadMB: 2},
		Catalog:   config.CatalogConfig{DefaultPageSize: 15, MaxPageSize: 100, RelatedLimit: 10, CurrencyDecimals: 2},
		RateLimit: config.RateLimitConfig{WriteWindow: time.Minute, WriteLimit: 100},
		CORS:      config.CORSConfig{AllowedOrigins: []string{"http://localhost:3000"}},
	}
}

type harness struct {
	router http.Handler
	conn   *gorm.DB
	cfg    *config.Config
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	cfg := testConfig()
	conn := testdb.Open(t)
	logg := logger.Nop()

	store, err := local.New(t.TempDir(), "/storage")
	require.NoError(t, err)
	translator, err := i18n.New([]string{"en", "es"}, "en")
	require.NoError(t, err)

	productRepo := product.NewRepository(conn)
	formatter, err := product.NewFormatter(translations.NewRepository(conn), productRepo, store, cfg.Catalog.CurrencyDecimals)
	require.NoError(t, err)
	productSvc, err := product.NewService(productRepo, translations.NewRepository(conn), formatter, nil, product.ServiceConfig{RelatedLimit: cfg.Catalog.RelatedLimit})
	require.NoError(t, err)
	reviewSvc, err := reviews.NewService(reviews.NewRepository(conn), productRepo, store, nil, logg)
	require.NoError(t, err)
	favoritesSvc, err := favorites.NewService(favorites.ServiceParams{
		Repo:      favorites.NewRepository(conn),
		Formatter: formatter,
		Logger:    logg,
	})
	require.NoError(t, err)

	reg := prometheus.NewRegistry()
	router := NewRouter(cfg, logg, stubPinger{}, newFakeRedis(), stubSessionChecker{}, translator,
		metrics.NewHTTPMetrics(reg), reg, productSvc, reviewSvc, favoritesSvc)
	return &harness{router: router, conn: conn, cfg: cfg}
}

func (h *harness) token(t *testing.T, userID uint) string {
	t.Helper()
	token, err := pkgAuth.MintAccessToken(h.cfg.JWT, time.Now(), pkgAuth.AccessTokenPayload{UserID: userID})
	require.NoError(t, err)
	return token
}

func (h *harness) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.router.ServeHTTP(rec, req)
	return rec
}

func TestHealthAndMetrics(t *testing.T) {
	h := newHarness(t)

	rec := h.do(httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = h.do(httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "http_requests_total")
}

func TestUnknownRouteIsJSON(t *testing.T) {
	h := newHarness(t)
	rec := h.do(httptest.NewRequest(http.MethodGet, "/api/v1/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
}

func TestLatestProductsPaging(t *testing.T) {
	h := newHarness(t)
	for i := 0; i < 5; i++ {
		testdb.Product(t, h.conn, fmt.Sprintf("Product %d", i))
	}
	testdb.Product(t, h.conn, "Hidden", testdb.Inactive())

	rec := h.do(httptest.NewRequest(http.MethodGet, "/api/v1/products/latest?limit=2&offset=2", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		TotalSize int64            `json:"total_size"`
		Limit     int              `json:"limit"`
		Offset    int              `json:"offset"`
		Products  []map[string]any `json:"products"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.EqualValues(t, 5, body.TotalSize)
	assert.Equal(t, 2, body.Limit)
	assert.Equal(t, 2, body.Offset)
	assert.Len(t, body.Products, 2)
}

func TestUnknownProductErrors(t *testing.T) {
	h := newHarness(t)

	rec := h.do(httptest.NewRequest(http.MethodGet, "/api/v1/products/details/999", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"errors":{"code":"product-001","message":"Product not found!"}}`, rec.Body.String())

	rec = h.do(httptest.NewRequest(http.MethodGet, "/api/v1/products/rating/999", nil))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestSearchFallsBackToTranslatedName(t *testing.T) {
	h := newHarness(t)
	p := testdb.Product(t, h.conn, "Bread")
	testdb.Translation(t, h.conn, p.ID, "es", enums.TranslationKeyName, "Pan integral")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products/search?name=integral", nil)
	req.Header.Set("X-Localization", "es")
	rec := h.do(req)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		TotalSize int64 `json:"total_size"`
		Products  []struct {
			ID   uint   `json:"id"`
			Name string `json:"name"`
		} `json:"products"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Products, 1)
	assert.Equal(t, p.ID, body.Products[0].ID)
	assert.Equal(t, "Pan integral", body.Products[0].Name)
}

func reviewForm(t *testing.T, productID uint, rating string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("product_id", fmt.Sprint(productID)))
	require.NoError(t, mw.WriteField("order_id", "1"))
	require.NoError(t, mw.WriteField("comment", "tasty"))
	require.NoError(t, mw.WriteField("rating", rating))
	part, err := mw.CreateFormFile("attachment[]", "photo.png")
	require.NoError(t, err)
	_, err = part.Write([]byte("\x89PNG\r\n\x1a\n0000"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestSubmitReviewOverwritesPerUser(t *testing.T) {
	h := newHarness(t)
	p := testdb.Product(t, h.conn, "Cheese")
	u := testdb.User(t, h.conn, "Ana")
	token := h.token(t, u.ID)

	for _, rating := range []string{"3", "5"} {
		body, contentType := reviewForm(t, p.ID, rating)
		req := httptest.NewRequest(http.MethodPost, "/api/v1/products/reviews/submit", body)
		req.Header.Set("Content-Type", contentType)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := h.do(req)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.JSONEq(t, `{"message":"successfully review submitted!"}`, rec.Body.String())
	}

	var rows []models.Review
	require.NoError(t, h.conn.Where("product_id = ?", p.ID).Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.Equal(t, 5.0, rows[0].Rating)
	require.Len(t, rows[0].Attachment, 1)
	assert.True(t, strings.HasPrefix(rows[0].Attachment[0], "review/"))

	rec := h.do(httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/v1/products/rating/%d", p.ID), nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `5`, rec.Body.String())

	body, contentType := reviewForm(t, p.ID, "5.1")
	req := httptest.NewRequest(http.MethodPost, "/api/v1/products/reviews/submit", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = h.do(req)
	require.Equal(t, http.StatusForbidden, rec.Code)
	assert.JSONEq(t, `{"errors":{"rating":["The rating may not be greater than 5."]}}`, rec.Body.String())
}

func TestWishListRequiresToken(t *testing.T) {
	h := newHarness(t)
	rec := h.do(httptest.NewRequest(http.MethodGet, "/api/v1/customer/wish-list", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestWishListRemoveIsNotUserScoped(t *testing.T) {
	h := newHarness(t)
	p := testdb.Product(t, h.conn, "Apples")
	other := testdb.Product(t, h.conn, "Pears")
	alice := testdb.User(t, h.conn, "Alice")
	bob := testdb.User(t, h.conn, "Bob")
	testdb.Favorite(t, h.conn, bob.ID, p.ID)
	testdb.Favorite(t, h.conn, bob.ID, other.ID)

	add := httptest.NewRequest(http.MethodPost, "/api/v1/customer/wish-list/add", strings.NewReader(fmt.Sprintf(`{"product_ids":[%d]}`, p.ID)))
	add.Header.Set("Authorization", "Bearer "+h.token(t, alice.ID))
	rec := h.do(add)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"message":"Item added to favourite list!"}`, rec.Body.String())

	list := httptest.NewRequest(http.MethodGet, "/api/v1/customer/wish-list", nil)
	list.Header.Set("Authorization", "Bearer "+h.token(t, alice.ID))
	rec = h.do(list)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"total_size":1`)

	remove := httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/api/v1/customer/wish-list/remove?product_ids[]=%d", p.ID), nil)
	remove.Header.Set("Authorization", "Bearer "+h.token(t, alice.ID))
	rec = h.do(remove)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var remaining []models.FavoriteProduct
	require.NoError(t, h.conn.Find(&remaining).Error)
	require.Len(t, remaining, 1)
	assert.Equal(t, other.ID, remaining[0].ProductID)
}
