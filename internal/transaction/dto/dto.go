package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

const EventTransactionCompleted = "PosTransactionCompleted"

// TransactionEvent is published once a sale is committed.
type TransactionEvent struct {
	Type          string          `json:"type"`
	TransactionID string          `json:"transaction_id"`
	ReceiptNumber string          `json:"receipt_number"`
	AdminUserID   int64           `json:"admin_user_id"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	PaymentMethod string          `json:"payment_method"`
	Items         []EventItem     `json:"items"`
	OccurredAt    time.Time       `json:"occurred_at"`
}

type EventItem struct {
	ProductID int64  `json:"product_id"`
	Size      string `json:"size"`
	Color     string `json:"color"`
	Quantity  int    `json:"quantity"`
}
