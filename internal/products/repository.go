package product

import (
	"context"

	"github.com/angelmondragon/catalog-api/internal/repo"
	"github.com/angelmondragon/catalog-api/pkg/db/models"
	"github.com/angelmondragon/catalog-api/pkg/pagination"
	"gorm.io/gorm"
)

// Repository reads products and the aggregates annotated onto them.
type Repository struct {
	repo.Base
	root *gorm.DB
}

// NewRepository binds a product repository to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db), root: db}
}

func (r *Repository) active(ctx context.Context) *gorm.DB {
	return r.DB(ctx).Model(&models.Product{}).Where("status = ?", true)
}

func emptyPage(params pagination.Params) pagination.Page[models.Product] {
	return pagination.Page[models.Product]{Items: []models.Product{}, Limit: params.Limit, Offset: params.Offset}
}

// Latest pages active products, newest first.
func (r *Repository) Latest(ctx context.Context, params pagination.Params) (pagination.Page[models.Product], error) {
	return repo.Paginate[models.Product](r.active(ctx).Order("created_at DESC").Order("id DESC"), params)
}

// Popular pages active products by popularity.
func (r *Repository) Popular(ctx context.Context, params pagination.Params) (pagination.Page[models.Product], error) {
	return repo.Paginate[models.Product](r.active(ctx).Order("popularity_count DESC").Order("id DESC"), params)
}

// DailyNeeds pages active products flagged as daily needs.
func (r *Repository) DailyNeeds(ctx context.Context, params pagination.Params) (pagination.Page[models.Product], error) {
	query := r.active(ctx).Where("daily_needs = ?", true).Order("id DESC")
	return repo.Paginate[models.Product](query, params)
}

// Discounted returns every active product carrying a discount. Unpaged.
func (r *Repository) Discounted(ctx context.Context) ([]models.Product, error) {
	rows := []models.Product{}
	if err := r.active(ctx).Where("discount > ?", 0).Order("id DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Search pages active products whose name or description contains any token.
func (r *Repository) Search(ctx context.Context, tokens []string, params pagination.Params) (pagination.Page[models.Product], error) {
	cond := repo.AnyTokenLike(r.root, []string{"name", "description"}, tokens)
	if cond == nil {
		return emptyPage(params), nil
	}
	return repo.Paginate[models.Product](r.active(ctx).Where(cond).Order("id DESC"), params)
}

// ActiveByIDs pages the active products among ids.
func (r *Repository) ActiveByIDs(ctx context.Context, ids []uint, params pagination.Params) (pagination.Page[models.Product], error) {
	if len(ids) == 0 {
		return emptyPage(params), nil
	}
	return repo.Paginate[models.Product](r.active(ctx).Where("id IN ?", ids).Order("id DESC"), params)
}

// FindByID loads a product regardless of status.
func (r *Repository) FindByID(ctx context.Context, id uint) (*models.Product, error) {
	var product models.Product
	if err := r.DB(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// FindActive loads an active product.
func (r *Repository) FindActive(ctx context.Context, id uint) (*models.Product, error) {
	var product models.Product
	if err := r.active(ctx).Where("id = ?", id).First(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// Exists reports whether a product row with id exists.
func (r *Repository) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	if err := r.DB(ctx).Model(&models.Product{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Related returns up to limit active products in the same category as p.
func (r *Repository) Related(ctx context.Context, p *models.Product, limit int) ([]models.Product, error) {
	rows := []models.Product{}
	if p == nil || p.CategoryID == nil {
		return rows, nil
	}
	err := r.active(ctx).
		Where("category_id = ? AND id <> ?", *p.CategoryID, p.ID).
		Order("id DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// WishlistCounts counts favorite rows per product.
func (r *Repository) WishlistCounts(ctx context.Context, ids []uint) (map[uint]int64, error) {
	out := make(map[uint]int64, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	type countRow struct {
		ProductID uint
		Total     int64
	}
	var rows []countRow
	if err := r.DB(ctx).
		Model(&models.FavoriteProduct{}).
		Select("product_id, COUNT(*) AS total").
		Where("product_id IN ?", ids).
		Group("product_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.ProductID] = row.Total
	}
	return out, nil
}

// RatingAverages returns the mean review rating of every reviewed product among ids.
func (r *Repository) RatingAverages(ctx context.Context, ids []uint) (map[uint]float64, error) {
	out := make(map[uint]float64, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	type avgRow struct {
		ProductID uint
		Average   float64
	}
	var rows []avgRow
	if err := r.DB(ctx).
		Model(&models.Review{}).
		Select("product_id, AVG(rating) AS average").
		Where("product_id IN ?", ids).
		Group("product_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.ProductID] = row.Average
	}
	return out, nil
}

// OverallRating aggregates every review of a product.
func (r *Repository) OverallRating(ctx context.Context, productID uint) (RatingAggregate, error) {
	var agg RatingAggregate
	err := r.DB(ctx).
		Model(&models.Review{}).
		Select("COALESCE(AVG(rating), 0) AS average, COUNT(*) AS total").
		Where("product_id = ?", productID).
		Scan(&agg).Error
	return agg, err
}

// ReviewCount counts the reviews of a product.
func (r *Repository) ReviewCount(ctx context.Context, productID uint) (int64, error) {
	var count int64
	err := r.DB(ctx).Model(&models.Review{}).Where("product_id = ?", productID).Count(&count).Error
	return count, err
}
