package usecase

import (
	"context"
	"errors"
	"net/http"

	"pos/internal/receipt"
	repo "pos/internal/repository"
)

// 注文履歴の読み取り。注文は確定後は不変なので読み取りだけ。
type OrderUsecase struct {
	orders     repo.OrderRepository
	orderItems repo.OrderItemRepository
	store      receipt.StoreInfo
}

func NewOrderUsecase(
	orders repo.OrderRepository,
	orderItems repo.OrderItemRepository,
	store receipt.StoreInfo,
) *OrderUsecase {
	return &OrderUsecase{orders: orders, orderItems: orderItems, store: store}
}

type OrderListOutput struct {
	Items []OrderOutput `json:"items"`
	Total int64         `json:"total"`
	Page  int           `json:"page"`
	Limit int           `json:"limit"`
}

func (u *OrderUsecase) ListMyOrders(ctx context.Context, userID int64, page int, limit int) (OrderListOutput, error) {
	if userID <= 0 {
		return OrderListOutput{}, ErrAuthRequired
	}
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 50
	}

	orders, total, err := u.orders.ListByUserID(ctx, userID, page, limit)
	if err != nil {
		return OrderListOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	outs := make([]OrderOutput, 0, len(orders))
	for _, o := range orders {
		items, err := u.orderItems.ListByOrderID(ctx, o.ID)
		if err != nil {
			return OrderListOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}
		outs = append(outs, toOrderOutput(o, items))
	}

	return OrderListOutput{Items: outs, Total: total, Page: page, Limit: limit}, nil
}

func (u *OrderUsecase) GetMyOrderDetail(ctx context.Context, userID int64, orderID int64) (OrderOutput, error) {
	if userID <= 0 {
		return OrderOutput{}, ErrAuthRequired
	}
	if orderID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	o, err := u.orders.FindByID(ctx, userID, orderID)
	if errors.Is(err, repo.ErrNotFound) {
		return OrderOutput{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return OrderOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	items, err := u.orderItems.ListByOrderID(ctx, o.ID)
	if err != nil {
		return OrderOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return toOrderOutput(o, items), nil
}

// 過去の注文のレシートを再生成する（純粋な射影なので何度でも同じ結果）
func (u *OrderUsecase) GetReceipt(ctx context.Context, userID int64, orderID int64) (receipt.View, error) {
	if userID <= 0 {
		return receipt.View{}, ErrAuthRequired
	}
	if orderID <= 0 {
		return receipt.View{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	o, err := u.orders.FindByID(ctx, userID, orderID)
	if errors.Is(err, repo.ErrNotFound) {
		return receipt.View{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return receipt.View{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	items, err := u.orderItems.ListByOrderID(ctx, o.ID)
	if err != nil {
		return receipt.View{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return receipt.Render(o, items, u.store), nil
}
