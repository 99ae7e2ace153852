package model

import (
	"time"

	"gorm.io/gorm"
)

// 商品。店舗（＝ユーザー）単位で所有する。
// Priceはセント単位。
// StockQuantityはNULL許可：NULL = 在庫管理しない商品。
type Product struct {
	ID            int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID        int64      `gorm:"not null;index" json:"user_id"`
	Name          string     `gorm:"type:varchar(255);not null" json:"name"`
	Description   string     `gorm:"type:text" json:"description"`
	Price         int64      `gorm:"not null" json:"price"`
	SKU           string     `gorm:"type:varchar(64);not null;index:idx_products_user_sku,unique" json:"sku"`
	ImageURL      string     `gorm:"type:text" json:"image_url"`
	StockQuantity *int64     `gorm:"column:stock_quantity" json:"stock_quantity"`
	IsActive      bool       `gorm:"not null;default:true" json:"is_active"`
	Categories    []Category `gorm:"many2many:product_categories" json:"categories,omitempty"`

	CreatedAt time.Time      `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// 在庫管理対象か
func (p Product) TracksStock() bool {
	return p.StockQuantity != nil
}
