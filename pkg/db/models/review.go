package models

import (
	"time"

	"github.com/angelmondragon/catalog-api/pkg/types"
)

// Review is a customer's rating of a product. One per (product, user) by upsert.
type Review struct {
	ID         uint             `gorm:"column:id;primaryKey;autoIncrement"`
	ProductID  uint             `gorm:"column:product_id;not null;index:reviews_product_user_idx"`
	UserID     uint             `gorm:"column:user_id;not null;index:reviews_product_user_idx"`
	OrderID    *uint            `gorm:"column:order_id"`
	Comment    string           `gorm:"column:comment;type:text"`
	Rating     float64          `gorm:"column:rating;not null;default:0"`
	Attachment types.StringList `gorm:"column:attachment;type:text"`
	IsActive   bool             `gorm:"column:is_active;not null;default:true"`
	Customer   *User            `gorm:"foreignKey:UserID;references:ID"`
	CreatedAt  time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
