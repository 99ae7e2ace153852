package usecase

import (
	"errors"
	"fmt"
)

// チェックアウトの失敗理由。どのステップで落ちたかを呼び出し側が
// 区別できるように型で分ける。自動リトライはしない方針なので、
// 再試行可能かどうか（StoreUnavailableError.Timeout）だけ伝える。

var (
	// セッションが無い・無効
	ErrAuthRequired = errors.New("authentication required")

	// 空カートはリモート呼び出しの前に弾く
	ErrEmptyCart = errors.New("cart is empty")

	// 処理中の二重送信
	ErrCheckoutInProgress = errors.New("checkout already in progress")

	// 前回の注文が未確認（Acknowledge待ち）
	ErrOrderNotAcknowledged = errors.New("completed order must be acknowledged first")

	ErrInvalidPaymentMethod = errors.New("invalid payment method")
)

// 1行分の在庫不足
type InsufficientStockError struct {
	ProductID int64
	Name      string
	Requested int64
	Available int64
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("only %d available", e.Available)
}

// 在庫検証パスで集めた全行分。1行でもあれば注文は作らない。
type InsufficientStockErrors []*InsufficientStockError

func (e InsufficientStockErrors) Error() string {
	return "some items have insufficient stock"
}

// 検証通過後、条件付き減算が0行更新だった（並行販売に負けた）。
// トランザクションごとロールバックされる。
type StockConflictError struct {
	ProductID int64
	Name      string
}

func (e *StockConflictError) Error() string {
	return fmt.Sprintf("stock for %q changed during checkout", e.Name)
}

type OrderCreationError struct {
	Err error
}

func (e *OrderCreationError) Error() string {
	return "failed to create order: " + e.Err.Error()
}

func (e *OrderCreationError) Unwrap() error { return e.Err }

type OrderItemCreationError struct {
	Err error
}

func (e *OrderItemCreationError) Error() string {
	return "failed to create order items: " + e.Err.Error()
}

func (e *OrderItemCreationError) Unwrap() error { return e.Err }

// ストア呼び出し自体の失敗。Timeout=trueは再試行してよい失敗。
type StoreUnavailableError struct {
	Op      string
	Timeout bool
	Err     error
}

func (e *StoreUnavailableError) Error() string {
	if e.Timeout {
		return fmt.Sprintf("store timeout during %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("store unavailable during %s: %v", e.Op, e.Err)
}

func (e *StoreUnavailableError) Unwrap() error { return e.Err }
