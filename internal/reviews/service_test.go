package reviews

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	product "github.com/angelmondragon/catalog-api/internal/products"
	"github.com/angelmondragon/catalog-api/internal/testdb"
	"github.com/angelmondragon/catalog-api/pkg/db/models"
	pkgerrors "github.com/angelmondragon/catalog-api/pkg/errors"
	"github.com/angelmondragon/catalog-api/pkg/logger"
	"github.com/angelmondragon/catalog-api/pkg/storage/local"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

type fixture struct {
	conn    *gorm.DB
	root    string
	svc     Service
	product *models.Product
	user    *models.User
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	conn := testdb.Open(t)
	root := t.TempDir()
	store, err := local.New(root, "/storage")
	require.NoError(t, err)

	svc, err := NewService(NewRepository(conn), product.NewRepository(conn), store, nil, logger.Nop())
	require.NoError(t, err)

	return fixture{
		conn:    conn,
		root:    root,
		svc:     svc,
		product: testdb.Product(t, conn, "Apple"),
		user:    testdb.User(t, conn, "Ann"),
	}
}

func orderID(id uint) *uint { return &id }

func TestSubmitCreatesReviewWithAttachments(t *testing.T) {
	f := newFixture(t)

	err := f.svc.Submit(context.Background(), SubmitInput{
		UserID:    f.user.ID,
		ProductID: f.product.ID,
		OrderID:   orderID(10),
		Comment:   "tasty",
		Rating:    5,
		Attachments: []Attachment{
			{Filename: "a.png", Data: pngHeader},
			{Filename: "empty.png"},
		},
	})
	require.NoError(t, err)

	var rows []models.Review
	require.NoError(t, f.conn.Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.Equal(t, "tasty", rows[0].Comment)
	assert.Equal(t, 5.0, rows[0].Rating)
	require.Len(t, rows[0].Attachment, 1)
	key := rows[0].Attachment[0]
	assert.True(t, strings.HasPrefix(key, "review/"), key)
	assert.True(t, strings.HasSuffix(key, ".png"), key)

	_, err = os.Stat(filepath.Join(f.root, filepath.FromSlash(key)))
	assert.NoError(t, err)
}

func TestSubmitOverwritesExistingReview(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first := SubmitInput{UserID: f.user.ID, ProductID: f.product.ID, OrderID: orderID(1), Comment: "meh", Rating: 2}
	require.NoError(t, f.svc.Submit(ctx, first))

	second := SubmitInput{UserID: f.user.ID, ProductID: f.product.ID, OrderID: orderID(2), Comment: "great", Rating: 5}
	require.NoError(t, f.svc.Submit(ctx, second))

	var rows []models.Review
	require.NoError(t, f.conn.Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.Equal(t, "great", rows[0].Comment)
	assert.Equal(t, 5.0, rows[0].Rating)
	require.NotNil(t, rows[0].OrderID)
	assert.EqualValues(t, 2, *rows[0].OrderID)
	assert.Empty(t, rows[0].Attachment)
}

func TestSubmitCollectsAllFieldErrors(t *testing.T) {
	f := newFixture(t)

	err := f.svc.Submit(context.Background(), SubmitInput{
		UserID:    f.user.ID,
		ProductID: 9999,
		Invalid: pkgerrors.FieldErrors{
			"rating": {"The rating may not be greater than 5."},
		},
	})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())

	fields := pkgerrors.FieldErrorsOf(err)
	assert.Equal(t, []string{"The rating may not be greater than 5."}, fields["rating"])
	assert.Equal(t, []string{"There is no such product"}, fields["product_id"])

	var count int64
	require.NoError(t, f.conn.Model(&models.Review{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestSubmitStructuralErrorsOnExistingProduct(t *testing.T) {
	f := newFixture(t)

	err := f.svc.Submit(context.Background(), SubmitInput{
		UserID:    f.user.ID,
		ProductID: f.product.ID,
		Invalid:   pkgerrors.FieldErrors{"comment": {"The comment field is required."}},
	})
	fields := pkgerrors.FieldErrorsOf(err)
	require.NotNil(t, fields)
	assert.Equal(t, []string{"comment"}, fields.Fields())
}

type memStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	failPut int
	puts    int
}

func newMemStore() *memStore { return &memStore{objects: map[string][]byte{}} }

func (m *memStore) Put(_ context.Context, key string, body io.Reader, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.puts++
	if m.failPut > 0 && m.puts == m.failPut {
		return errors.New("disk full")
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	m.objects[key] = data
	return nil
}

func (m *memStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, key)
	return nil
}

func (m *memStore) URL(key string) string { return "/storage/" + key }

type failingSave struct {
	*Repository
}

func (failingSave) Save(context.Context, *models.Review) error {
	return errors.New("insert failed")
}

func TestSubmitRemovesAttachmentsWhenSaveFails(t *testing.T) {
	conn := testdb.Open(t)
	p := testdb.Product(t, conn, "Apple")
	u := testdb.User(t, conn, "Ann")
	store := newMemStore()

	svc, err := NewService(failingSave{NewRepository(conn)}, product.NewRepository(conn), store, nil, logger.Nop())
	require.NoError(t, err)

	err = svc.Submit(context.Background(), SubmitInput{
		UserID:      u.ID,
		ProductID:   p.ID,
		Comment:     "x",
		Rating:      3,
		Attachments: []Attachment{{Data: pngHeader}, {Data: []byte("plain text")}},
	})
	require.Error(t, err)
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeInternal))
	assert.Equal(t, 2, store.puts)
	assert.Empty(t, store.objects)
}

func TestSubmitRemovesEarlierAttachmentsWhenUploadFails(t *testing.T) {
	conn := testdb.Open(t)
	p := testdb.Product(t, conn, "Apple")
	u := testdb.User(t, conn, "Ann")
	store := newMemStore()
	store.failPut = 2

	svc, err := NewService(NewRepository(conn), product.NewRepository(conn), store, nil, logger.Nop())
	require.NoError(t, err)

	err = svc.Submit(context.Background(), SubmitInput{
		UserID:      u.ID,
		ProductID:   p.ID,
		Comment:     "x",
		Rating:      3,
		Attachments: []Attachment{{Data: pngHeader}, {Data: pngHeader}},
	})
	require.Error(t, err)
	assert.Empty(t, store.objects)

	var count int64
	require.NoError(t, conn.Model(&models.Review{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestListReturnsReviewsWithCustomer(t *testing.T) {
	f := newFixture(t)
	other := testdb.User(t, f.conn, "Bob")
	testdb.Review(t, f.conn, f.product.ID, f.user.ID, 4)
	testdb.Review(t, f.conn, f.product.ID, other.ID, 2)

	out, err := f.svc.List(context.Background(), f.product.ID)
	require.NoError(t, err)
	require.Len(t, out, 2)
	require.NotNil(t, out[0].Customer)
	assert.Equal(t, "Ann", out[0].Customer.FirstName)
	assert.Equal(t, "Bob", out[1].Customer.FirstName)
	assert.NotNil(t, out[0].Attachment)

	none, err := f.svc.List(context.Background(), 9999)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestNewServiceRequiresDependencies(t *testing.T) {
	_, err := NewService(nil, nil, nil, nil, nil)
	assert.Error(t, err)
}
