package cart

// レジ画面のカート。DBには保存しないセッション内の集約。
// 金額はすべてセント単位のint64で計算する（浮動小数の誤差を避ける）。

// 税率（basis points）。800 = 8%。
const TaxRateBasisPoints int64 = 800

// カートの1行。Name/UnitPriceは追加時点のスナップショット。
// StockQuantityはnil = 在庫管理しない商品（確定時の在庫チェック対象外）。
type Line struct {
	ProductID     int64  `json:"product_id"`
	Name          string `json:"name"`
	UnitPrice     int64  `json:"unit_price"`
	Quantity      int64  `json:"quantity"`
	StockQuantity *int64 `json:"stock_quantity"`
}

func (l Line) LineTotal() int64 {
	return l.UnitPrice * l.Quantity
}

// 在庫管理対象か
func (l Line) TracksStock() bool {
	return l.StockQuantity != nil
}

type Totals struct {
	Subtotal int64 `json:"subtotal"`
	Tax      int64 `json:"tax"`
	Total    int64 `json:"total"`
}

// Cartは追加順を保持する
type Cart struct {
	lines []Line
}

func New(lines ...Line) *Cart {
	c := &Cart{}
	c.lines = append(c.lines, lines...)
	return c
}

// 同一商品があれば数量+1、無ければ数量1で末尾に追加。
// 在庫チェックはここでは行わない（確定時にまとめて検証する）。
func (c *Cart) AddOrIncrement(l Line) {
	for i := range c.lines {
		if c.lines[i].ProductID == l.ProductID {
			c.lines[i].Quantity++
			return
		}
	}
	l.Quantity = 1
	c.lines = append(c.lines, l)
}

// 数量をdeltaだけ変更。結果は0未満にならない。0になった行は削除する。
// 存在しない行への変更は何もしない。
func (c *Cart) ChangeQuantity(productID int64, delta int64) {
	for i := range c.lines {
		if c.lines[i].ProductID != productID {
			continue
		}
		q := c.lines[i].Quantity + delta
		if q <= 0 {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			return
		}
		c.lines[i].Quantity = q
		return
	}
}

// 行を無条件に削除
func (c *Cart) Remove(productID int64) {
	for i := range c.lines {
		if c.lines[i].ProductID == productID {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			return
		}
	}
}

func (c *Cart) IsEmpty() bool {
	return len(c.lines) == 0
}

func (c *Cart) Len() int {
	return len(c.lines)
}

// Linesは内部状態のコピーを返す
func (c *Cart) Lines() []Line {
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

// subtotal = Σ 単価×数量、tax = subtotal×8%（セント単位で四捨五入）、
// total = subtotal + tax。副作用なし。
func (c *Cart) Totals() Totals {
	var subtotal int64
	for _, l := range c.lines {
		subtotal += l.LineTotal()
	}
	tax := RoundTax(subtotal)
	return Totals{
		Subtotal: subtotal,
		Tax:      tax,
		Total:    subtotal + tax,
	}
}

// RoundTaxはセント単位の四捨五入で税額を返す
func RoundTax(subtotalCents int64) int64 {
	return (subtotalCents*TaxRateBasisPoints + 5000) / 10000
}
