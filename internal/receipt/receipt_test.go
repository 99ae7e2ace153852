package receipt_test

import (
	"strings"
	"testing"
	"time"

	"pos/internal/domain/model"
	"pos/internal/receipt"

	"github.com/stretchr/testify/assert"
)

var testStore = receipt.StoreInfo{
	Name:       "Corner POS",
	Address:    "1 Main St",
	Phone:      "555-0100",
	FooterNote: "Thank you for your purchase!",
}

func testOrder() (model.Order, []model.OrderItem) {
	o := model.Order{
		ID:            1,
		UserID:        7,
		OrderNumber:   "ORD-abc123",
		Subtotal:      2000,
		Tax:           160,
		Total:         2160,
		PaymentMethod: model.PaymentMethodCash,
		CreatedAt:     time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC),
	}
	items := []model.OrderItem{
		{OrderID: 1, ProductID: 10, ProductNameSnapshot: "Americano", UnitPriceSnapshot: 1000, Quantity: 2},
	}
	return o, items
}

func TestRender(t *testing.T) {
	o, items := testOrder()

	v := receipt.Render(o, items, testStore)

	assert.Equal(t, "ORD-abc123", v.OrderNumber)
	assert.Equal(t, o.CreatedAt, v.IssuedAt)
	assert.Equal(t, "cash", v.PaymentMethod)
	assert.Equal(t, int64(2000), v.Subtotal)
	assert.Equal(t, int64(160), v.Tax)
	assert.Equal(t, int64(2160), v.Total)

	assert.Equal(t, 1, len(v.Lines))
	assert.Equal(t, "Americano", v.Lines[0].Name)
	assert.Equal(t, int64(2000), v.Lines[0].LineTotal)
}

func TestRender_IsPure(t *testing.T) {
	o, items := testOrder()

	first := receipt.Render(o, items, testStore)
	second := receipt.Render(o, items, testStore)
	assert.Equal(t, first, second)
}

func TestFormatCents(t *testing.T) {
	assert.Equal(t, "$0.00", receipt.FormatCents(0))
	assert.Equal(t, "$0.05", receipt.FormatCents(5))
	assert.Equal(t, "$12.34", receipt.FormatCents(1234))
	assert.Equal(t, "$20.00", receipt.FormatCents(2000))
	assert.Equal(t, "-$1.50", receipt.FormatCents(-150))
}

func TestFormatText(t *testing.T) {
	o, items := testOrder()
	text := receipt.Render(o, items, testStore).FormatText()

	//店舗ヘッダ・明細・合計・フッタが印字される
	assert.Contains(t, text, "Corner POS")
	assert.Contains(t, text, "Tel: 555-0100")
	assert.Contains(t, text, "ORD-abc123")
	assert.Contains(t, text, "2026-03-14 10:30:00")
	assert.Contains(t, text, "Americano")
	assert.Contains(t, text, "2 x $10.00")
	assert.Contains(t, text, "Tax (8%)")
	assert.Contains(t, text, "$21.60")
	assert.Contains(t, text, "Thank you for your purchase!")

	//40桁の罫線で区切る
	for _, line := range strings.Split(text, "\n") {
		assert.LessOrEqual(t, len(line), 40, "line too wide: %q", line)
	}
}

func TestFormatText_SkipsEmptyStoreFields(t *testing.T) {
	o, items := testOrder()
	text := receipt.Render(o, items, receipt.StoreInfo{Name: "Corner POS"}).FormatText()

	assert.NotContains(t, text, "Tel:")
}
