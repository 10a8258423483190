// Package testdb opens throwaway sqlite databases for repository tests.
package testdb

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/angelmondragon/catalog-api/pkg/db/models"
	"github.com/angelmondragon/catalog-api/pkg/enums"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Open returns an in-memory database private to t with every model migrated.
func Open(t testing.TB) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{SkipDefaultTransaction: true})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := conn.AutoMigrate(models.All()...); err != nil {
		t.Fatalf("migrate sqlite: %v", err)
	}

	sqlDB, err := conn.DB()
	if err != nil {
		t.Fatalf("sql handle: %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })
	return conn
}

// ProductOption tweaks a seeded product.
type ProductOption func(*models.Product)

func WithCategory(id uint) ProductOption {
	return func(p *models.Product) { p.CategoryID = &id }
}

func WithDiscount(kind enums.DiscountType, amount float64) ProductOption {
	return func(p *models.Product) {
		p.DiscountType = kind
		p.Discount = amount
	}
}

func Inactive() ProductOption {
	return func(p *models.Product) { p.Status = false }
}

func DailyNeeds() ProductOption {
	return func(p *models.Product) { p.DailyNeeds = true }
}

func WithPopularity(n int) ProductOption {
	return func(p *models.Product) { p.PopularityCount = n }
}

func WithDescription(d string) ProductOption {
	return func(p *models.Product) { p.Description = d }
}

func CreatedAt(ts time.Time) ProductOption {
	return func(p *models.Product) { p.CreatedAt = ts }
}

// Product seeds an active product and returns it.
func Product(t testing.TB, conn *gorm.DB, name string, opts ...ProductOption) *models.Product {
	t.Helper()
	p := &models.Product{
		Name:         name,
		Price:        100,
		DiscountType: enums.DiscountTypePercent,
		Status:       true,
		Image:        []string{"product/" + strings.ToLower(strings.ReplaceAll(name, " ", "-")) + ".png"},
	}
	for _, opt := range opts {
		opt(p)
	}
	active := p.Status
	if err := conn.Create(p).Error; err != nil {
		t.Fatalf("create product: %v", err)
	}
	// gorm skips zero values that carry a column default
	if !active {
		if err := conn.Model(p).Update("status", false).Error; err != nil {
			t.Fatalf("deactivate product: %v", err)
		}
		p.Status = false
	}
	return p
}

// User seeds a customer.
func User(t testing.TB, conn *gorm.DB, first string) *models.User {
	t.Helper()
	u := &models.User{
		FirstName: first,
		LastName:  "Tester",
		Email:     fmt.Sprintf("%s-%d@example.com", strings.ToLower(first), time.Now().UnixNano()),
	}
	if err := conn.Create(u).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

// Translation seeds one translated attribute for a product.
func Translation(t testing.TB, conn *gorm.DB, productID uint, locale string, key enums.TranslationKey, value string) {
	t.Helper()
	row := &models.Translation{
		TranslationableType: enums.TranslatableProduct,
		TranslationableID:   productID,
		Locale:              locale,
		Key:                 string(key),
		Value:               value,
	}
	if err := conn.Create(row).Error; err != nil {
		t.Fatalf("create translation: %v", err)
	}
}

// Review seeds a review row.
func Review(t testing.TB, conn *gorm.DB, productID, userID uint, rating float64) *models.Review {
	t.Helper()
	r := &models.Review{ProductID: productID, UserID: userID, Rating: rating, Comment: "seeded", IsActive: true}
	if err := conn.Create(r).Error; err != nil {
		t.Fatalf("create review: %v", err)
	}
	return r
}

// Favorite seeds a favorite row.
func Favorite(t testing.TB, conn *gorm.DB, userID, productID uint) {
	t.Helper()
	if err := conn.Create(&models.FavoriteProduct{UserID: userID, ProductID: productID}).Error; err != nil {
		t.Fatalf("create favorite: %v", err)
	}
}
