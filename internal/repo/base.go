package repo

import (
	"context"

	"github.com/angelmondragon/catalog-api/pkg/pagination"
	"gorm.io/gorm"
)

// Base provides a shared foundation for domain repositories.
type Base struct {
	db *gorm.DB
}

// NewBase constructs a Base repository backed by the provided GORM connection.
func NewBase(db *gorm.DB) Base {
	return Base{db: db}
}

// DB returns the GORM connection bound to the supplied context (if any).
func (b Base) DB(ctx context.Context) *gorm.DB {
	if ctx == nil {
		return b.db
	}
	return b.db.WithContext(ctx)
}

// Paginate counts the rows matched by query, then loads one page of them.
// The query must carry its filters and ordering; the count ignores ordering.
func Paginate[T any](query *gorm.DB, params pagination.Params) (pagination.Page[T], error) {
	page := pagination.Page[T]{Items: []T{}, Limit: params.Limit, Offset: params.Offset}

	if err := query.Session(&gorm.Session{}).Count(&page.Total).Error; err != nil {
		return page, err
	}
	if page.Total == 0 || params.PastEnd(page.Total) {
		return page, nil
	}

	if err := query.Session(&gorm.Session{}).
		Limit(params.Limit).
		Offset(params.SQLOffset()).
		Find(&page.Items).Error; err != nil {
		return page, err
	}
	return page, nil
}
