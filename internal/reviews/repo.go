package reviews

import (
	"context"
	"errors"

	"github.com/angelmondragon/catalog-api/internal/repo"
	"github.com/angelmondragon/catalog-api/pkg/db/models"
	"gorm.io/gorm"
)

// Repository persists product reviews.
type Repository struct {
	repo.Base
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// FindByProductAndUser returns the user's review of a product, or nil.
func (r *Repository) FindByProductAndUser(ctx context.Context, productID, userID uint) (*models.Review, error) {
	var review models.Review
	err := r.DB(ctx).
		Where("product_id = ? AND user_id = ?", productID, userID).
		Order("id").
		First(&review).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &review, nil
}

// Save inserts a new review or overwrites an existing one in place.
func (r *Repository) Save(ctx context.Context, review *models.Review) error {
	if review.ID == 0 {
		return r.DB(ctx).Create(review).Error
	}
	return r.DB(ctx).Save(review).Error
}

// ListForProduct returns every review of a product with its customer.
func (r *Repository) ListForProduct(ctx context.Context, productID uint) ([]models.Review, error) {
	rows := []models.Review{}
	err := r.DB(ctx).
		Preload("Customer").
		Where("product_id = ?", productID).
		Order("id").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
