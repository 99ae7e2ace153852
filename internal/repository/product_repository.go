package repository

import (
	"context"
	"errors"

	"pos/internal/domain/model"
)

var ErrNotFound = errors.New("not found")

// 一覧検索。CategoryIDがnilなら全カテゴリ（"All"）。
type ProductListQuery struct {
	CategoryID *int64
	Q          string
	Page       int
	Limit      int
}

// 商品の永続化（保存・取得）だけを約束。
// すべてowner（userID）でスコープする。
type ProductRepository interface {
	List(ctx context.Context, userID int64, q ProductListQuery) ([]model.Product, int64, error)
	FindByID(ctx context.Context, userID int64, productID int64) (model.Product, error)

	Create(ctx context.Context, p model.Product, categoryIDs []int64) (model.Product, error)
	Update(ctx context.Context, p model.Product, categoryIDs []int64) error
	SoftDelete(ctx context.Context, userID int64, productID int64) error

	// 在庫の権威ある現在値の点読み。在庫管理しない商品はnilを返す。
	QueryStock(ctx context.Context, userID int64, productID int64) (*int64, error)
}
