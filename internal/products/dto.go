package product

import (
	"time"

	"github.com/angelmondragon/catalog-api/pkg/db/models"
	"github.com/angelmondragon/catalog-api/pkg/enums"
)

// RatingDTO is the per-product rating aggregate embedded in product payloads.
type RatingDTO struct {
	Average   float64 `json:"average"`
	ProductID uint    `json:"product_id"`
}

// ProductDTO is the storefront representation of a product.
type ProductDTO struct {
	ID               uint               `json:"id"`
	Name             string             `json:"name"`
	Description      string             `json:"description"`
	Image            []string           `json:"image"`
	Price            float64            `json:"price"`
	Discount         float64            `json:"discount"`
	DiscountType     enums.DiscountType `json:"discount_type"`
	DiscountedPrice  float64            `json:"discounted_price"`
	DiscountStartsAt *time.Time         `json:"discount_starts_at"`
	DiscountEndsAt   *time.Time         `json:"discount_ends_at"`
	Tax              float64            `json:"tax"`
	Unit             string             `json:"unit"`
	Capacity         float64            `json:"capacity"`
	CategoryID       *uint              `json:"category_id"`
	TotalStock       int                `json:"total_stock"`
	Status           bool               `json:"status"`
	DailyNeeds       bool               `json:"daily_needs"`
	PopularityCount  int                `json:"popularity_count"`
	WishlistCount    int64              `json:"wishlist_count"`
	Rating           []RatingDTO        `json:"rating"`
	CreatedAt        time.Time          `json:"created_at"`
	UpdatedAt        time.Time          `json:"updated_at"`
}

// TranslationDTO is one localized attribute in the detail payload.
type TranslationDTO struct {
	Locale string `json:"locale"`
	Key    string `json:"key"`
	Value  string `json:"value"`
}

// ProductDetailDTO adds the detail-only fields to ProductDTO.
type ProductDetailDTO struct {
	ProductDTO
	Translations []TranslationDTO `json:"translations"`
	ReviewsCount int64            `json:"reviews_count"`
}

// RatingAggregate is the overall rating row of a product: mean and count.
type RatingAggregate struct {
	Average float64
	Total   int64
}

func newTranslationDTOs(rows []models.Translation) []TranslationDTO {
	out := make([]TranslationDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, TranslationDTO{Locale: row.Locale, Key: row.Key, Value: row.Value})
	}
	return out
}
