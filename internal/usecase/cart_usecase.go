package usecase

import (
	"context"
	"errors"
	"net/http"

	"pos/internal/domain/cart"
	"pos/internal/domain/checkout"
	repo "pos/internal/repository"
)

// CartUsecaseはレジ画面のカート操作。
// カートはDBの行ではなくセッションストアに置く。商品名・単価は
// 追加時点のスナップショットで、確定までは在庫チェックをしない。
type CartUsecase struct {
	carts    repo.CartStore
	products repo.ProductRepository
}

func NewCartUsecase(carts repo.CartStore, products repo.ProductRepository) *CartUsecase {
	return &CartUsecase{carts: carts, products: products}
}

type CartItemResponse struct {
	ProductID     int64  `json:"product_id"`
	Name          string `json:"name"`
	Price         int64  `json:"price"`
	Quantity      int64  `json:"quantity"`
	StockQuantity *int64 `json:"stock_quantity"`
	LineTotal     int64  `json:"line_total"`
}

type CartResponse struct {
	Items    []CartItemResponse `json:"items"`
	Subtotal int64              `json:"subtotal"`
	Tax      int64              `json:"tax"`
	Total    int64              `json:"total"`
	State    string             `json:"state"`
}

func (u *CartUsecase) GetCart(ctx context.Context, userID int64) (CartResponse, error) {
	if userID <= 0 {
		return CartResponse{}, ErrAuthRequired
	}

	sess, err := u.carts.Get(ctx, userID)
	if err != nil {
		return CartResponse{}, &StoreUnavailableError{Op: "load session", Err: err}
	}
	return buildCartResponse(sess), nil
}

// 商品をカートに入れる。同一商品は数量+1（addOrIncrement）。
// 在庫チェックはここでは行わない。
func (u *CartUsecase) AddProduct(ctx context.Context, userID int64, productID int64) (CartResponse, error) {
	if userID <= 0 {
		return CartResponse{}, ErrAuthRequired
	}
	if productID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid product_id")
	}

	sess, sm, err := u.loadModifiable(ctx, userID)
	if err != nil {
		return CartResponse{}, err
	}

	p, err := u.products.FindByID(ctx, userID, productID)
	if errors.Is(err, repo.ErrNotFound) {
		return CartResponse{}, NewHTTPError(http.StatusNotFound, "product not found")
	}
	if err != nil {
		return CartResponse{}, &StoreUnavailableError{Op: "load product", Err: err}
	}
	if !p.IsActive {
		return CartResponse{}, NewHTTPError(http.StatusNotFound, "product not found")
	}

	c := cart.New(sess.Lines...)
	c.AddOrIncrement(cart.Line{
		ProductID:     p.ID,
		Name:          p.Name,
		UnitPrice:     p.Price,
		StockQuantity: p.StockQuantity,
	})

	return u.save(ctx, userID, sess, sm, c)
}

// 数量をdeltaだけ変える。0以下になった行は消える。
func (u *CartUsecase) ChangeQuantity(ctx context.Context, userID int64, productID int64, delta int64) (CartResponse, error) {
	if userID <= 0 {
		return CartResponse{}, ErrAuthRequired
	}
	if delta == 0 {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "delta must be non-zero")
	}

	sess, sm, err := u.loadModifiable(ctx, userID)
	if err != nil {
		return CartResponse{}, err
	}

	c := cart.New(sess.Lines...)
	c.ChangeQuantity(productID, delta)

	return u.save(ctx, userID, sess, sm, c)
}

// 行を無条件に削除
func (u *CartUsecase) RemoveItem(ctx context.Context, userID int64, productID int64) (CartResponse, error) {
	if userID <= 0 {
		return CartResponse{}, ErrAuthRequired
	}

	sess, sm, err := u.loadModifiable(ctx, userID)
	if err != nil {
		return CartResponse{}, err
	}

	c := cart.New(sess.Lines...)
	c.Remove(productID)

	return u.save(ctx, userID, sess, sm, c)
}

// 編集可能な状態でセッションを読む。処理中・完了未確認は409。
func (u *CartUsecase) loadModifiable(ctx context.Context, userID int64) (repo.CartSession, *checkout.Session, error) {
	sess, err := u.carts.Get(ctx, userID)
	if err != nil {
		return repo.CartSession{}, nil, &StoreUnavailableError{Op: "load session", Err: err}
	}

	sm, err := checkout.Resume(sess.Phase)
	if err != nil {
		return repo.CartSession{}, nil, err
	}
	if !sm.CanModifyCart() {
		if sm.State() == checkout.StateProcessing {
			return repo.CartSession{}, nil, ErrCheckoutInProgress
		}
		return repo.CartSession{}, nil, ErrOrderNotAcknowledged
	}
	return sess, sm, nil
}

func (u *CartUsecase) save(ctx context.Context, userID int64, sess repo.CartSession, sm *checkout.Session, c *cart.Cart) (CartResponse, error) {
	sess.Lines = c.Lines()

	//失敗後にカートを触ったら新しい試行としてIdleに戻す
	if sm.State() == checkout.StateFailed || sm.State() == checkout.StateSelectingPayment {
		sess.Phase = checkout.StateIdle
	} else {
		sess.Phase = sm.State()
	}

	if err := u.carts.Put(ctx, userID, sess); err != nil {
		return CartResponse{}, &StoreUnavailableError{Op: "save session", Err: err}
	}
	return buildCartResponse(sess), nil
}

func buildCartResponse(sess repo.CartSession) CartResponse {
	c := cart.New(sess.Lines...)
	totals := c.Totals()

	items := make([]CartItemResponse, 0, c.Len())
	for _, l := range c.Lines() {
		items = append(items, CartItemResponse{
			ProductID:     l.ProductID,
			Name:          l.Name,
			Price:         l.UnitPrice,
			Quantity:      l.Quantity,
			StockQuantity: l.StockQuantity,
			LineTotal:     l.LineTotal(),
		})
	}

	phase := sess.Phase
	if phase == "" {
		phase = checkout.StateIdle
	}

	return CartResponse{
		Items:    items,
		Subtotal: totals.Subtotal,
		Tax:      totals.Tax,
		Total:    totals.Total,
		State:    string(phase),
	}
}
