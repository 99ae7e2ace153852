package receipt

import (
	"fmt"
	"strings"
	"time"

	"pos/internal/domain/model"
)

// レシートは確定済み注文＋明細からの純粋な射影。
// ネットワークにもストレージにも触らない。

// 店舗の表示情報（設定から渡す）
type StoreInfo struct {
	Name       string `json:"name"`
	Address    string `json:"address"`
	Phone      string `json:"phone"`
	FooterNote string `json:"footer_note"`
}

type Line struct {
	Name      string `json:"name"`
	Quantity  int64  `json:"quantity"`
	UnitPrice int64  `json:"unit_price"`
	LineTotal int64  `json:"line_total"`
}

type View struct {
	Store         StoreInfo `json:"store"`
	OrderNumber   string    `json:"order_number"`
	IssuedAt      time.Time `json:"issued_at"`
	PaymentMethod string    `json:"payment_method"`
	Lines         []Line    `json:"lines"`
	Subtotal      int64     `json:"subtotal"`
	Tax           int64     `json:"tax"`
	Total         int64     `json:"total"`
}

// Renderは注文と明細からレシートを作る。副作用なし。
func Render(o model.Order, items []model.OrderItem, store StoreInfo) View {
	lines := make([]Line, 0, len(items))
	for _, it := range items {
		lines = append(lines, Line{
			Name:      it.ProductNameSnapshot,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPriceSnapshot,
			LineTotal: it.UnitPriceSnapshot * it.Quantity,
		})
	}

	return View{
		Store:         store,
		OrderNumber:   o.OrderNumber,
		IssuedAt:      o.CreatedAt,
		PaymentMethod: string(o.PaymentMethod),
		Lines:         lines,
		Subtotal:      o.Subtotal,
		Tax:           o.Tax,
		Total:         o.Total,
	}
}

// FormatCentsはセントを"$12.34"形式にする
func FormatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s$%d.%02d", sign, cents/100, cents%100)
}

const printWidth = 40

// FormatTextは印刷用の固定幅テキストを返す
func (v View) FormatText() string {
	var b strings.Builder

	center := func(s string) {
		pad := (printWidth - len(s)) / 2
		if pad < 0 {
			pad = 0
		}
		b.WriteString(strings.Repeat(" ", pad))
		b.WriteString(s)
		b.WriteString("\n")
	}
	row := func(left, right string) {
		gap := printWidth - len(left) - len(right)
		if gap < 1 {
			gap = 1
		}
		b.WriteString(left)
		b.WriteString(strings.Repeat(" ", gap))
		b.WriteString(right)
		b.WriteString("\n")
	}
	rule := strings.Repeat("-", printWidth) + "\n"

	if v.Store.Name != "" {
		center(v.Store.Name)
	}
	if v.Store.Address != "" {
		center(v.Store.Address)
	}
	if v.Store.Phone != "" {
		center("Tel: " + v.Store.Phone)
	}
	b.WriteString(rule)

	row("Order #:", v.OrderNumber)
	row("Date:", v.IssuedAt.Format("2006-01-02 15:04:05"))
	row("Payment:", v.PaymentMethod)
	b.WriteString(rule)

	for _, l := range v.Lines {
		b.WriteString(l.Name)
		b.WriteString("\n")
		row(
			fmt.Sprintf("  %d x %s", l.Quantity, FormatCents(l.UnitPrice)),
			FormatCents(l.LineTotal),
		)
	}
	b.WriteString(rule)

	row("Subtotal", FormatCents(v.Subtotal))
	row("Tax (8%)", FormatCents(v.Tax))
	row("Total", FormatCents(v.Total))
	b.WriteString(rule)

	if v.Store.FooterNote != "" {
		center(v.Store.FooterNote)
	}

	return b.String()
}

// Exporterはレシートの外部出力（PDF・メール等）。
// 現状は画面表示と印刷のみ実装で、外部出力は差し込み口だけ用意している。
type Exporter interface {
	Export(v View) ([]byte, error)
}
