package product

import (
	"context"
	"fmt"
	"time"

	"github.com/angelmondragon/catalog-api/internal/translations"
	"github.com/angelmondragon/catalog-api/pkg/db/models"
	"github.com/angelmondragon/catalog-api/pkg/enums"
	"github.com/angelmondragon/catalog-api/pkg/i18n"
	"github.com/shopspring/decimal"
)

const ratingDecimals = 2

type translationReader interface {
	ForProducts(ctx context.Context, productIDs []uint, locale string) (map[uint]translations.Values, error)
	ListForProduct(ctx context.Context, productID uint) ([]models.Translation, error)
}

type aggregateReader interface {
	WishlistCounts(ctx context.Context, ids []uint) (map[uint]int64, error)
	RatingAverages(ctx context.Context, ids []uint) (map[uint]float64, error)
	ReviewCount(ctx context.Context, productID uint) (int64, error)
}

// URLResolver turns a storage key into a public URL.
type URLResolver interface {
	URL(key string) string
}

// Formatter shapes product rows into client payloads for the request locale.
type Formatter struct {
	translations translationReader
	aggregates   aggregateReader
	urls         URLResolver
	decimals     int32
	now          func() time.Time
}

// NewFormatter constructs a Formatter. decimals is the currency precision of
// computed prices.
func NewFormatter(tr translationReader, agg aggregateReader, urls URLResolver, decimals int32) (*Formatter, error) {
	if tr == nil {
		return nil, fmt.Errorf("translation repository required")
	}
	if agg == nil {
		return nil, fmt.Errorf("aggregate reader required")
	}
	if urls == nil {
		return nil, fmt.Errorf("url resolver required")
	}
	if decimals < 0 {
		decimals = 0
	}
	return &Formatter{
		translations: tr,
		aggregates:   agg,
		urls:         urls,
		decimals:     decimals,
		now:          time.Now,
	}, nil
}

// FormatList formats many products with batched lookups.
func (f *Formatter) FormatList(ctx context.Context, products []models.Product) ([]ProductDTO, error) {
	out := make([]ProductDTO, 0, len(products))
	if len(products) == 0 {
		return out, nil
	}

	ids := make([]uint, 0, len(products))
	for i := range products {
		ids = append(ids, products[i].ID)
	}

	locale := i18n.LocaleFrom(ctx)
	localized, err := f.translations.ForProducts(ctx, ids, locale)
	if err != nil {
		return nil, fmt.Errorf("loading translations: %w", err)
	}
	wishlist, err := f.aggregates.WishlistCounts(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("counting favorites: %w", err)
	}
	ratings, err := f.aggregates.RatingAverages(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("averaging ratings: %w", err)
	}

	now := f.now()
	for i := range products {
		p := &products[i]
		dto := f.base(p, now, localized[p.ID])
		dto.WishlistCount = wishlist[p.ID]
		if avg, ok := ratings[p.ID]; ok {
			dto.Rating = []RatingDTO{{Average: RoundRating(avg), ProductID: p.ID}}
		}
		out = append(out, dto)
	}
	return out, nil
}

// FormatDetail formats one product and adds its translations and review count.
func (f *Formatter) FormatDetail(ctx context.Context, p *models.Product) (*ProductDetailDTO, error) {
	list, err := f.FormatList(ctx, []models.Product{*p})
	if err != nil {
		return nil, err
	}

	rows, err := f.translations.ListForProduct(ctx, p.ID)
	if err != nil {
		return nil, fmt.Errorf("listing translations: %w", err)
	}
	reviews, err := f.aggregates.ReviewCount(ctx, p.ID)
	if err != nil {
		return nil, fmt.Errorf("counting reviews: %w", err)
	}

	return &ProductDetailDTO{
		ProductDTO:   list[0],
		Translations: newTranslationDTOs(rows),
		ReviewsCount: reviews,
	}, nil
}

func (f *Formatter) base(p *models.Product, now time.Time, localized translations.Values) ProductDTO {
	name, description := p.Name, p.Description
	if v, ok := localized[string(enums.TranslationKeyName)]; ok && v != "" {
		name = v
	}
	if v, ok := localized[string(enums.TranslationKeyDescription)]; ok && v != "" {
		description = v
	}

	images := make([]string, 0, len(p.Image))
	for _, key := range p.Image {
		if key == "" {
			continue
		}
		images = append(images, f.urls.URL(key))
	}

	return ProductDTO{
		ID:               p.ID,
		Name:             name,
		Description:      description,
		Image:            images,
		Price:            p.Price,
		Discount:         p.Discount,
		DiscountType:     p.DiscountType,
		DiscountedPrice:  DiscountedPrice(p, now, f.decimals),
		DiscountStartsAt: p.DiscountStartsAt,
		DiscountEndsAt:   p.DiscountEndsAt,
		Tax:              p.Tax,
		Unit:             p.Unit,
		Capacity:         p.Capacity,
		CategoryID:       p.CategoryID,
		TotalStock:       p.TotalStock,
		Status:           p.Status,
		DailyNeeds:       p.DailyNeeds,
		PopularityCount:  p.PopularityCount,
		Rating:           []RatingDTO{},
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}
}

// DiscountActive reports whether now falls inside the product's discount window.
// Open ends of the window are unbounded.
func DiscountActive(p *models.Product, now time.Time) bool {
	if p.Discount <= 0 {
		return false
	}
	if p.DiscountStartsAt != nil && now.Before(*p.DiscountStartsAt) {
		return false
	}
	if p.DiscountEndsAt != nil && now.After(*p.DiscountEndsAt) {
		return false
	}
	return true
}

// DiscountedPrice applies the product discount to its price, floored at zero
// and rounded to decimals.
func DiscountedPrice(p *models.Product, now time.Time, decimals int32) float64 {
	price := decimal.NewFromFloat(p.Price)
	if DiscountActive(p, now) {
		discount := decimal.NewFromFloat(p.Discount)
		switch p.DiscountType {
		case enums.DiscountTypeAmount:
			price = price.Sub(discount)
		default:
			price = price.Sub(price.Mul(discount).Div(decimal.NewFromInt(100)))
		}
		if price.IsNegative() {
			price = decimal.Zero
		}
	}
	return price.Round(decimals).InexactFloat64()
}

// RoundRating rounds a rating mean to two decimals.
func RoundRating(avg float64) float64 {
	return decimal.NewFromFloat(avg).Round(ratingDecimals).InexactFloat64()
}
