package models

import (
	"time"

	"github.com/angelmondragon/catalog-api/pkg/enums"
	"github.com/angelmondragon/catalog-api/pkg/types"
)

// Product is a storefront listing. The API only ever reads it.
type Product struct {
	ID               uint               `gorm:"column:id;primaryKey;autoIncrement"`
	Name             string             `gorm:"column:name;not null"`
	Description      string             `gorm:"column:description;type:text"`
	Image            types.StringList   `gorm:"column:image;type:text"`
	Price            float64            `gorm:"column:price;not null;default:0"`
	Discount         float64            `gorm:"column:discount;not null;default:0"`
	DiscountType     enums.DiscountType `gorm:"column:discount_type;not null;default:'percent'"`
	DiscountStartsAt *time.Time         `gorm:"column:discount_starts_at"`
	DiscountEndsAt   *time.Time         `gorm:"column:discount_ends_at"`
	Tax              float64            `gorm:"column:tax;not null;default:0"`
	Unit             string             `gorm:"column:unit"`
	Capacity         float64            `gorm:"column:capacity;not null;default:0"`
	CategoryID       *uint              `gorm:"column:category_id;index"`
	TotalStock       int                `gorm:"column:total_stock;not null;default:0"`
	Status           bool               `gorm:"column:status;not null;default:true;index"`
	DailyNeeds       bool               `gorm:"column:daily_needs;not null;default:false"`
	PopularityCount  int                `gorm:"column:popularity_count;not null;default:0"`
	CreatedAt        time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}
