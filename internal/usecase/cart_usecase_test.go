package usecase_test

import (
	"context"
	"testing"

	"pos/internal/domain/cart"
	"pos/internal/domain/checkout"
	"pos/internal/domain/model"
	"pos/internal/infra/cartstore"
	repo "pos/internal/repository"
	"pos/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type cartFixture struct {
	products *ProductRepoMock
	carts    *cartstore.MemoryStore
	uc       *usecase.CartUsecase
}

func newCartFixture() *cartFixture {
	f := &cartFixture{
		products: new(ProductRepoMock),
		carts:    cartstore.NewMemoryStore(),
	}
	f.uc = usecase.NewCartUsecase(f.carts, f.products)
	return f
}

func TestCartUsecase_GetCart_Empty(t *testing.T) {
	f := newCartFixture()

	out, err := f.uc.GetCart(context.Background(), 7)
	assert.NoError(t, err)
	assert.Empty(t, out.Items)
	assert.Equal(t, int64(0), out.Total)
	assert.Equal(t, string(checkout.StateIdle), out.State)
}

func TestCartUsecase_GetCart_AuthRequired(t *testing.T) {
	f := newCartFixture()

	_, err := f.uc.GetCart(context.Background(), 0)
	assert.ErrorIs(t, err, usecase.ErrAuthRequired)
}

func TestCartUsecase_AddProduct_SnapshotsNameAndPrice(t *testing.T) {
	f := newCartFixture()
	f.products.On("FindByID", mock.Anything, int64(7), int64(1)).Return(model.Product{
		ID:            1,
		UserID:        7,
		Name:          "Americano",
		Price:         1000,
		StockQuantity: ptr(5),
		IsActive:      true,
	}, nil)

	out, err := f.uc.AddProduct(context.Background(), 7, 1)
	assert.NoError(t, err)
	assert.Equal(t, 1, len(out.Items))
	assert.Equal(t, "Americano", out.Items[0].Name)
	assert.Equal(t, int64(1000), out.Items[0].Price)
	assert.Equal(t, int64(1), out.Items[0].Quantity)

	//8%税込みの合計
	assert.Equal(t, int64(1000), out.Subtotal)
	assert.Equal(t, int64(80), out.Tax)
	assert.Equal(t, int64(1080), out.Total)
}

func TestCartUsecase_AddProduct_TwiceIncrements(t *testing.T) {
	f := newCartFixture()
	f.products.On("FindByID", mock.Anything, int64(7), int64(1)).Return(model.Product{
		ID: 1, UserID: 7, Name: "Americano", Price: 1000, IsActive: true,
	}, nil)

	_, err := f.uc.AddProduct(context.Background(), 7, 1)
	assert.NoError(t, err)
	out, err := f.uc.AddProduct(context.Background(), 7, 1)
	assert.NoError(t, err)

	assert.Equal(t, 1, len(out.Items))
	assert.Equal(t, int64(2), out.Items[0].Quantity)
}

func TestCartUsecase_AddProduct_NotFound(t *testing.T) {
	f := newCartFixture()
	f.products.On("FindByID", mock.Anything, int64(7), int64(99)).Return(model.Product{}, repo.ErrNotFound)

	_, err := f.uc.AddProduct(context.Background(), 7, 99)
	he, ok := usecase.AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, 404, he.Status)
}

func TestCartUsecase_AddProduct_InactiveProduct(t *testing.T) {
	//削除済み（論理削除）の商品は404扱い
	f := newCartFixture()
	f.products.On("FindByID", mock.Anything, int64(7), int64(1)).Return(model.Product{
		ID: 1, UserID: 7, Name: "Old", Price: 100, IsActive: false,
	}, nil)

	_, err := f.uc.AddProduct(context.Background(), 7, 1)
	he, ok := usecase.AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, 404, he.Status)
}

func TestCartUsecase_ChangeQuantity_ClampRemovesLine(t *testing.T) {
	f := newCartFixture()
	seedSession(t, f.carts, 7, checkout.StateIdle,
		cart.Line{ProductID: 1, Name: "Americano", UnitPrice: 1000, Quantity: 2},
	)

	out, err := f.uc.ChangeQuantity(context.Background(), 7, 1, -5)
	assert.NoError(t, err)
	assert.Empty(t, out.Items)
}

func TestCartUsecase_ChangeQuantity_ZeroDeltaRejected(t *testing.T) {
	f := newCartFixture()

	_, err := f.uc.ChangeQuantity(context.Background(), 7, 1, 0)
	he, ok := usecase.AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, 400, he.Status)
}

func TestCartUsecase_ChangeQuantity_AbsentLineIsNoOp(t *testing.T) {
	f := newCartFixture()
	seedSession(t, f.carts, 7, checkout.StateIdle,
		cart.Line{ProductID: 1, Name: "Americano", UnitPrice: 1000, Quantity: 2},
	)

	out, err := f.uc.ChangeQuantity(context.Background(), 7, 99, 1)
	assert.NoError(t, err)
	assert.Equal(t, 1, len(out.Items))
	assert.Equal(t, int64(2), out.Items[0].Quantity)
}

func TestCartUsecase_RemoveItem(t *testing.T) {
	f := newCartFixture()
	seedSession(t, f.carts, 7, checkout.StateIdle,
		cart.Line{ProductID: 1, Name: "Americano", UnitPrice: 1000, Quantity: 2},
		cart.Line{ProductID: 2, Name: "Latte", UnitPrice: 1200, Quantity: 1},
	)

	out, err := f.uc.RemoveItem(context.Background(), 7, 1)
	assert.NoError(t, err)
	assert.Equal(t, 1, len(out.Items))
	assert.Equal(t, int64(2), out.Items[0].ProductID)
}

func TestCartUsecase_ModifyWhileProcessing(t *testing.T) {
	f := newCartFixture()
	seedSession(t, f.carts, 7, checkout.StateProcessing,
		cart.Line{ProductID: 1, Name: "Americano", UnitPrice: 1000, Quantity: 1},
	)

	_, err := f.uc.RemoveItem(context.Background(), 7, 1)
	assert.ErrorIs(t, err, usecase.ErrCheckoutInProgress)
}

func TestCartUsecase_ModifyWhileSucceeded(t *testing.T) {
	f := newCartFixture()
	seedSession(t, f.carts, 7, checkout.StateSucceeded,
		cart.Line{ProductID: 1, Name: "Americano", UnitPrice: 1000, Quantity: 1},
	)

	_, err := f.uc.ChangeQuantity(context.Background(), 7, 1, 1)
	assert.ErrorIs(t, err, usecase.ErrOrderNotAcknowledged)
}

func TestCartUsecase_ModifyAfterFailureResetsToIdle(t *testing.T) {
	//失敗後にカートを触ったら新しい試行としてIdleに戻る
	f := newCartFixture()
	seedSession(t, f.carts, 7, checkout.StateFailed,
		cart.Line{ProductID: 1, Name: "Americano", UnitPrice: 1000, Quantity: 2},
	)

	out, err := f.uc.ChangeQuantity(context.Background(), 7, 1, -1)
	assert.NoError(t, err)
	assert.Equal(t, string(checkout.StateIdle), out.State)
}

func seedSession(t *testing.T, s *cartstore.MemoryStore, userID int64, phase checkout.State, lines ...cart.Line) {
	t.Helper()
	err := s.Put(context.Background(), userID, repo.CartSession{Lines: lines, Phase: phase})
	assert.NoError(t, err)
}
