package model

import "time"

type PaymentMethod string

const (
	PaymentMethodQR   PaymentMethod = "qr"
	PaymentMethodCash PaymentMethod = "cash"
	PaymentMethodCard PaymentMethod = "card"
)

// 支払い方法の妥当性チェック
func ParsePaymentMethod(s string) (PaymentMethod, bool) {
	switch PaymentMethod(s) {
	case PaymentMethodQR, PaymentMethodCash, PaymentMethodCard:
		return PaymentMethod(s), true
	default:
		return "", false
	}
}

// 注文。チェックアウト成功時に一度だけ作成され、以後は不変。
// Subtotal/Tax/Totalはセント単位。Total = Subtotal + Tax。
type Order struct {
	ID            int64         `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID        int64         `gorm:"not null;index" json:"user_id"`
	OrderNumber   string        `gorm:"type:varchar(64);not null;uniqueIndex" json:"order_number"`
	Subtotal      int64         `gorm:"not null" json:"subtotal"`
	Tax           int64         `gorm:"not null" json:"tax"`
	Total         int64         `gorm:"not null" json:"total"`
	PaymentMethod PaymentMethod `gorm:"type:varchar(20);not null" json:"payment_method"`
	CreatedAt     time.Time     `gorm:"not null;autoCreateTime" json:"created_at"`
}
