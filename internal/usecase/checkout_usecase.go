package usecase

import (
	"context"
	"errors"
	"time"

	"pos/internal/domain/cart"
	"pos/internal/domain/checkout"
	"pos/internal/domain/model"
	"pos/internal/receipt"
	repo "pos/internal/repository"
)

// UUID等のIDを作る約束
type IDGenerator interface {
	NewID() string
}

// 現在の時間
type Clock interface {
	Now() time.Time
}

// CheckoutUsecaseは注文確定の一連のステップを順番に実行する。
//
//  1. 在庫検証パス（読み取りのみ、全行ぶんのエラーを集める）
//  2. 注文作成
//  3. 注文明細作成
//  4. 条件付き在庫減算（guarded decrement）
//
// 2〜4は1つのトランザクションで実行する。途中で失敗したら
// 全部ロールバックされ、孤児のOrder行は残らない。
// 別セッションとの在庫競合は4の条件付きUPDATEだけで守っている
// （カート追加時点では予約しない）。
type CheckoutUsecase struct {
	tx       repo.TransactionManager
	products repo.ProductRepository
	carts    repo.CartStore
	idGen    IDGenerator
	clock    Clock
	store    receipt.StoreInfo

	//リモート1呼び出しあたりのタイムアウト
	stepTimeout time.Duration
}

func NewCheckoutUsecase(
	tx repo.TransactionManager,
	products repo.ProductRepository,
	carts repo.CartStore,
	idGen IDGenerator,
	clock Clock,
	store receipt.StoreInfo,
	stepTimeout time.Duration,
) *CheckoutUsecase {
	if stepTimeout <= 0 {
		stepTimeout = 5 * time.Second
	}
	return &CheckoutUsecase{
		tx:          tx,
		products:    products,
		carts:       carts,
		idGen:       idGen,
		clock:       clock,
		store:       store,
		stepTimeout: stepTimeout,
	}
}

type CommitInput struct {
	PaymentMethod string
}

type OrderItemOutput struct {
	ProductID int64  `json:"product_id"`
	Name      string `json:"name"`
	Price     int64  `json:"price"`
	Quantity  int64  `json:"quantity"`
}

type OrderOutput struct {
	ID            int64             `json:"id"`
	OrderNumber   string            `json:"order_number"`
	Subtotal      int64             `json:"subtotal"`
	Tax           int64             `json:"tax"`
	Total         int64             `json:"total"`
	PaymentMethod string            `json:"payment_method"`
	CreatedAt     time.Time         `json:"created_at"`
	Items         []OrderItemOutput `json:"items"`
}

type CommitOutput struct {
	Order   OrderOutput  `json:"order"`
	Receipt receipt.View `json:"receipt"`
}

type CheckoutStatusOutput struct {
	State string `json:"state"`
}

// 現在のチェックアウト状態
func (u *CheckoutUsecase) Status(ctx context.Context, userID int64) (CheckoutStatusOutput, error) {
	if userID <= 0 {
		return CheckoutStatusOutput{}, ErrAuthRequired
	}
	sess, err := u.carts.Get(ctx, userID)
	if err != nil {
		return CheckoutStatusOutput{}, &StoreUnavailableError{Op: "load session", Err: err}
	}
	sm, err := checkout.Resume(sess.Phase)
	if err != nil {
		return CheckoutStatusOutput{}, err
	}
	return CheckoutStatusOutput{State: string(sm.State())}, nil
}

// 支払い方法の選択画面へ遷移する
func (u *CheckoutUsecase) SelectPayment(ctx context.Context, userID int64) (CheckoutStatusOutput, error) {
	if userID <= 0 {
		return CheckoutStatusOutput{}, ErrAuthRequired
	}

	sess, err := u.carts.Get(ctx, userID)
	if err != nil {
		return CheckoutStatusOutput{}, &StoreUnavailableError{Op: "load session", Err: err}
	}
	if len(sess.Lines) == 0 {
		return CheckoutStatusOutput{}, ErrEmptyCart
	}

	sm, err := checkout.Resume(sess.Phase)
	if err != nil {
		return CheckoutStatusOutput{}, err
	}
	if err := sm.SelectPayment(); err != nil {
		return CheckoutStatusOutput{}, u.mapTransitionError(sm.State())
	}

	sess.Phase = sm.State()
	if err := u.carts.Put(ctx, userID, sess); err != nil {
		return CheckoutStatusOutput{}, &StoreUnavailableError{Op: "save session", Err: err}
	}
	return CheckoutStatusOutput{State: string(sm.State())}, nil
}

// Commitは注文を確定する。成功するとSucceeded状態になり、
// カートはAcknowledgeされるまで保持される。
func (u *CheckoutUsecase) Commit(ctx context.Context, userID int64, in CommitInput) (CommitOutput, error) {
	if userID <= 0 {
		return CommitOutput{}, ErrAuthRequired
	}

	method, ok := model.ParsePaymentMethod(in.PaymentMethod)
	if !ok {
		return CommitOutput{}, ErrInvalidPaymentMethod
	}

	sess, err := u.carts.Get(ctx, userID)
	if err != nil {
		return CommitOutput{}, &StoreUnavailableError{Op: "load session", Err: err}
	}

	//空カートはリモート呼び出しの前に拒否
	c := cart.New(sess.Lines...)
	if c.IsEmpty() {
		return CommitOutput{}, ErrEmptyCart
	}

	sm, err := checkout.Resume(sess.Phase)
	if err != nil {
		return CommitOutput{}, err
	}
	if err := sm.Begin(); err != nil {
		return CommitOutput{}, u.mapTransitionError(sm.State())
	}

	//処理中フラグを先に保存して二重送信を塞ぐ
	sess.Phase = checkout.StateProcessing
	if err := u.carts.Put(ctx, userID, sess); err != nil {
		return CommitOutput{}, &StoreUnavailableError{Op: "save session", Err: err}
	}

	out, commitErr := u.commit(ctx, userID, c, method)

	if commitErr != nil {
		sess.Phase = checkout.StateFailed
	} else {
		sess.Phase = checkout.StateSucceeded
	}
	if err := u.carts.Put(ctx, userID, sess); err != nil && commitErr == nil {
		//注文自体は確定済みなので成功として返す
		return out, nil
	}
	return out, commitErr
}

// Acknowledgeは完了した注文の確認。ここで初めてカートを空にし、
// 状態をIdleに戻す。タイマーでの自動クリアはしない。
func (u *CheckoutUsecase) Acknowledge(ctx context.Context, userID int64) (CheckoutStatusOutput, error) {
	if userID <= 0 {
		return CheckoutStatusOutput{}, ErrAuthRequired
	}

	sess, err := u.carts.Get(ctx, userID)
	if err != nil {
		return CheckoutStatusOutput{}, &StoreUnavailableError{Op: "load session", Err: err}
	}

	sm, err := checkout.Resume(sess.Phase)
	if err != nil {
		return CheckoutStatusOutput{}, err
	}
	if err := sm.Acknowledge(); err != nil {
		return CheckoutStatusOutput{}, NewHTTPError(409, "no completed order to acknowledge")
	}

	if err := u.carts.Delete(ctx, userID); err != nil {
		return CheckoutStatusOutput{}, &StoreUnavailableError{Op: "clear cart", Err: err}
	}
	return CheckoutStatusOutput{State: string(sm.State())}, nil
}

func (u *CheckoutUsecase) commit(ctx context.Context, userID int64, c *cart.Cart, method model.PaymentMethod) (CommitOutput, error) {
	lines := c.Lines()

	//ステップ1：在庫検証パス（読み取りのみ）。
	//対象行すべてを見てからまとめて失敗させる。
	//減算対象（今も在庫管理されている商品）はここで確定する。
	var stockErrs InsufficientStockErrors
	needsDecrement := make(map[int64]bool, len(lines))
	for _, l := range lines {
		if !l.TracksStock() {
			continue
		}

		stepCtx, cancel := context.WithTimeout(ctx, u.stepTimeout)
		avail, err := u.products.QueryStock(stepCtx, userID, l.ProductID)
		cancel()
		if err != nil {
			return CommitOutput{}, u.wrapStoreErr("query stock", err)
		}
		//カートに入れた後で在庫管理が外された商品はチェック対象外
		if avail == nil {
			continue
		}
		needsDecrement[l.ProductID] = true
		if *avail < l.Quantity {
			stockErrs = append(stockErrs, &InsufficientStockError{
				ProductID: l.ProductID,
				Name:      l.Name,
				Requested: l.Quantity,
				Available: *avail,
			})
		}
	}
	if len(stockErrs) > 0 {
		return CommitOutput{}, stockErrs
	}

	totals := c.Totals()
	now := u.clock.Now()
	orderNumber := "ORD-" + u.idGen.NewID()

	var created model.Order
	items := make([]model.OrderItem, 0, len(lines))

	txCtx, cancel := context.WithTimeout(ctx, 3*u.stepTimeout)
	defer cancel()

	//ステップ2〜4は1トランザクション。どこで失敗しても全部戻る。
	err := u.tx.WithinTx(txCtx, func(r repo.TxRepos) error {
		o, err := r.Orders().Create(txCtx, model.Order{
			UserID:        userID,
			OrderNumber:   orderNumber,
			Subtotal:      totals.Subtotal,
			Tax:           totals.Tax,
			Total:         totals.Total,
			PaymentMethod: method,
			CreatedAt:     now,
		})
		if err != nil {
			return &OrderCreationError{Err: err}
		}

		for _, l := range lines {
			items = append(items, model.OrderItem{
				ProductID:           l.ProductID,
				ProductNameSnapshot: l.Name,
				UnitPriceSnapshot:   l.UnitPrice,
				Quantity:            l.Quantity,
				CreatedAt:           now,
			})
		}
		if err := r.OrderItems().CreateBulk(txCtx, o.ID, items); err != nil {
			return &OrderItemCreationError{Err: err}
		}

		//条件付き減算。ステップ1の後に別セッションが在庫を
		//減らしていた場合はここで0行更新になる。
		for _, l := range lines {
			if !needsDecrement[l.ProductID] {
				continue
			}
			ok, err := r.Inventory().DecreaseStockIfEnough(txCtx, userID, l.ProductID, l.Quantity)
			if err != nil {
				return u.wrapStoreErr("decrement stock", err)
			}
			if !ok {
				return &StockConflictError{ProductID: l.ProductID, Name: l.Name}
			}
		}

		created = o
		return nil
	})
	if err != nil {
		return CommitOutput{}, u.passOrWrap(err)
	}

	return CommitOutput{
		Order:   toOrderOutput(created, items),
		Receipt: receipt.Render(created, items, u.store),
	}, nil
}

func (u *CheckoutUsecase) mapTransitionError(s checkout.State) error {
	switch s {
	case checkout.StateProcessing:
		return ErrCheckoutInProgress
	case checkout.StateSucceeded:
		return ErrOrderNotAcknowledged
	default:
		return NewHTTPError(409, "invalid checkout state")
	}
}

func (u *CheckoutUsecase) wrapStoreErr(op string, err error) error {
	return &StoreUnavailableError{
		Op:      op,
		Timeout: errors.Is(err, context.DeadlineExceeded),
		Err:     err,
	}
}

// トランザクション内で返した型付きエラーはそのまま通し、
// それ以外（接続断・タイムアウト等）はStoreUnavailableに包む。
func (u *CheckoutUsecase) passOrWrap(err error) error {
	var (
		oce *OrderCreationError
		ice *OrderItemCreationError
		sce *StockConflictError
		sue *StoreUnavailableError
	)
	if errors.As(err, &oce) || errors.As(err, &ice) || errors.As(err, &sce) || errors.As(err, &sue) {
		return err
	}
	return u.wrapStoreErr("commit order", err)
}

func toOrderOutput(o model.Order, items []model.OrderItem) OrderOutput {
	outItems := make([]OrderItemOutput, 0, len(items))
	for _, it := range items {
		outItems = append(outItems, OrderItemOutput{
			ProductID: it.ProductID,
			Name:      it.ProductNameSnapshot,
			Price:     it.UnitPriceSnapshot,
			Quantity:  it.Quantity,
		})
	}

	return OrderOutput{
		ID:            o.ID,
		OrderNumber:   o.OrderNumber,
		Subtotal:      o.Subtotal,
		Tax:           o.Tax,
		Total:         o.Total,
		PaymentMethod: string(o.PaymentMethod),
		CreatedAt:     o.CreatedAt,
		Items:         outItems,
	}
}
