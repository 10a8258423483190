package models

import "time"

// FavoriteProduct links a customer to a liked product. Duplicates are allowed.
type FavoriteProduct struct {
	ID        uint      `gorm:"column:id;primaryKey;autoIncrement"`
	UserID    uint      `gorm:"column:user_id;not null;index:favorite_products_user_id_idx"`
	ProductID uint      `gorm:"column:product_id;not null;index:favorite_products_product_id_idx"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
