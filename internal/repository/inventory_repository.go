package repository

import (
	"context"

	"pos/internal/domain/model"
)

type InventoryRepository interface {
	// 在庫が足りるときだけ減算する条件付きUPDATE。
	// 条件を満たさず0行更新だった場合はfalse（= 競合）。
	DecreaseStockIfEnough(ctx context.Context, userID int64, productID int64, qty int64) (bool, error)

	// 在庫の現在値を設定（在庫管理の開始もここで行う）
	SetStock(ctx context.Context, userID int64, productID int64, newStock int64) error

	// 調整履歴作成
	CreateAdjustment(ctx context.Context, adjustment model.InventoryAdjustment) error
}
