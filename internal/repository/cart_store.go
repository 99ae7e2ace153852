package repository

import (
	"context"

	"pos/internal/domain/cart"
	"pos/internal/domain/checkout"
)

// 店舗ユーザーごとのレジセッション。カート行とチェックアウト状態を持つ。
// DBの行にはしない（カートはセッション内だけで生きる）。
type CartSession struct {
	Lines []cart.Line    `json:"lines"`
	Phase checkout.State `json:"phase"`
}

// セッションカートの保存先。メモリ実装とRedis実装がある。
type CartStore interface {
	// 無ければ空セッション（Phase=Idle）を返す
	Get(ctx context.Context, userID int64) (CartSession, error)
	Put(ctx context.Context, userID int64, s CartSession) error
	Delete(ctx context.Context, userID int64) error
}
