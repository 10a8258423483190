package models

import "time"

// User is the customer identity embedded in review listings.
type User struct {
	ID        uint      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	FirstName string    `gorm:"column:f_name" json:"f_name"`
	LastName  string    `gorm:"column:l_name" json:"l_name"`
	Email     string    `gorm:"column:email;uniqueIndex" json:"email"`
	Phone     *string   `gorm:"column:phone" json:"phone"`
	Image     *string   `gorm:"column:image" json:"image"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
