package model

import "time"

// カテゴリ。店舗単位で所有し、商品とは多対多。
type Category struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    int64     `gorm:"not null;index:idx_categories_user_name,unique" json:"user_id"`
	Name      string    `gorm:"type:varchar(255);not null;index:idx_categories_user_name,unique" json:"name"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}
