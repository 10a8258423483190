package translations

import (
	"context"

	"github.com/angelmondragon/catalog-api/internal/repo"
	"github.com/angelmondragon/catalog-api/pkg/db/models"
	"github.com/angelmondragon/catalog-api/pkg/enums"
	"gorm.io/gorm"
)

// Values maps an attribute key ("name", "description") to its translated text.
type Values map[string]string

// Repository reads product translations.
type Repository struct {
	repo.Base
	root *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db), root: db}
}

func (r *Repository) products(ctx context.Context) *gorm.DB {
	return r.DB(ctx).
		Model(&models.Translation{}).
		Where("translationable_type = ?", enums.TranslatableProduct)
}

// Lookup returns the translated value for (productID, key, locale). The
// boolean is false when no translation row exists.
func (r *Repository) Lookup(ctx context.Context, productID uint, key enums.TranslationKey, locale string) (string, bool, error) {
	var rows []models.Translation
	err := r.products(ctx).
		Where("translationable_id = ? AND key = ? AND locale = ?", productID, string(key), locale).
		Limit(1).
		Find(&rows).Error
	if err != nil || len(rows) == 0 {
		return "", false, err
	}
	return rows[0].Value, true, nil
}

// ForProducts batches the translations of many products in one locale.
func (r *Repository) ForProducts(ctx context.Context, productIDs []uint, locale string) (map[uint]Values, error) {
	out := make(map[uint]Values, len(productIDs))
	if len(productIDs) == 0 {
		return out, nil
	}

	var rows []models.Translation
	if err := r.products(ctx).
		Where("translationable_id IN ? AND locale = ?", productIDs, locale).
		Order("id").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		vals, ok := out[row.TranslationableID]
		if !ok {
			vals = Values{}
			out[row.TranslationableID] = vals
		}
		vals[row.Key] = row.Value
	}
	return out, nil
}

// ListForProduct returns every translation of a product across locales.
func (r *Repository) ListForProduct(ctx context.Context, productID uint) ([]models.Translation, error) {
	rows := []models.Translation{}
	if err := r.products(ctx).
		Where("translationable_id = ?", productID).
		Order("locale, key, id").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// MatchingProductIDs returns the distinct product ids whose translated
// attribute contains any of the tokens.
func (r *Repository) MatchingProductIDs(ctx context.Context, key enums.TranslationKey, tokens []string) ([]uint, error) {
	ids := []uint{}
	cond := repo.AnyTokenLike(r.root, []string{"value"}, tokens)
	if cond == nil {
		return ids, nil
	}
	err := r.products(ctx).
		Where("key = ?", string(key)).
		Where(cond).
		Distinct("translationable_id").
		Order("translationable_id").
		Pluck("translationable_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}
