package repository

import (
	"context"
	"errors"

	"pos/internal/domain/model"
)

// order_numberのユニーク制約に衝突した
var ErrDuplicateOrderNumber = errors.New("duplicate order number")

type OrderRepository interface {
	// 作成した行（主キー込み）を返す。明細insertはこのIDに依存する。
	Create(ctx context.Context, order model.Order) (model.Order, error)

	FindByID(ctx context.Context, userID int64, orderID int64) (model.Order, error)
	ListByUserID(ctx context.Context, userID int64, page int, limit int) ([]model.Order, int64, error)
}
