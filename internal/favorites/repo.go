package favorites

import (
	"context"
	"time"

	"github.com/angelmondragon/catalog-api/internal/repo"
	"github.com/angelmondragon/catalog-api/pkg/db/models"
	"github.com/angelmondragon/catalog-api/pkg/pagination"
	"gorm.io/gorm"
)

// Repository encapsulates favorite-product persistence.
type Repository struct {
	repo.Base
}

// NewRepository constructs a favorites repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// AddItems inserts one row per product id. Duplicates and unknown ids are
// stored as given.
func (r *Repository) AddItems(ctx context.Context, userID uint, productIDs []uint, now time.Time) error {
	if len(productIDs) == 0 {
		return nil
	}
	rows := make([]models.FavoriteProduct, 0, len(productIDs))
	for _, id := range productIDs {
		rows = append(rows, models.FavoriteProduct{
			UserID:    userID,
			ProductID: id,
			CreatedAt: now,
			UpdatedAt: now,
		})
	}
	return r.DB(ctx).Create(&rows).Error
}

// RemoveProducts deletes every favorite row of the given products, for all users.
func (r *Repository) RemoveProducts(ctx context.Context, productIDs []uint) (int64, error) {
	if len(productIDs) == 0 {
		return 0, nil
	}
	res := r.DB(ctx).Where("product_id IN ?", productIDs).Delete(&models.FavoriteProduct{})
	return res.RowsAffected, res.Error
}

// ListProducts pages the products a user favorited, whatever their status.
func (r *Repository) ListProducts(ctx context.Context, userID uint, params pagination.Params) (pagination.Page[models.Product], error) {
	favorited := r.DB(ctx).
		Model(&models.FavoriteProduct{}).
		Select("product_id").
		Where("user_id = ?", userID)

	query := r.DB(ctx).
		Model(&models.Product{}).
		Where("id IN (?)", favorited).
		Order("id DESC")
	return repo.Paginate[models.Product](query, params)
}
