package model

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	PaymentCash         = "CASH"
	PaymentCard         = "CARD"
	PaymentGCash        = "GCASH"
	PaymentMaya         = "MAYA"
	PaymentBankTransfer = "BANK_TRANSFER"
)

const TransactionCompleted = "completed"

type Transaction struct {
	ID               int64               `db:"id" json:"id"`
	TransactionID    string              `db:"transaction_id" json:"transaction_id"`
	ReceiptNumber    string              `db:"receipt_number" json:"receipt_number"`
	AdminUserID      int64               `db:"admin_user_id" json:"admin_user_id"`
	CustomerName     *string             `db:"customer_name" json:"customer_name"`
	Subtotal         decimal.Decimal     `db:"subtotal" json:"subtotal"`
	DiscountAmount   decimal.Decimal     `db:"discount_amount" json:"discount_amount"`
	TaxAmount        decimal.Decimal     `db:"tax_amount" json:"tax_amount"`
	TotalAmount      decimal.Decimal     `db:"total_amount" json:"total_amount"`
	PaymentMethod    string              `db:"payment_method" json:"payment_method"`
	PaymentReference *string             `db:"payment_reference" json:"payment_reference"`
	CashReceived     decimal.NullDecimal `db:"cash_received" json:"cash_received"`
	ChangeGiven      decimal.NullDecimal `db:"change_given" json:"change_given"`
	Status           string              `db:"status" json:"status"`
	TransactionDate  time.Time           `db:"transaction_date" json:"transaction_date"`
	Items            []TransactionItem   `db:"-" json:"items,omitempty"`
}

type TransactionItem struct {
	ID            int64           `db:"id" json:"id"`
	TransactionID string          `db:"transaction_id" json:"transaction_id"`
	ProductID     int64           `db:"product_id" json:"product_id"`
	ProductName   string          `db:"product_name" json:"product_name"`
	Brand         string          `db:"brand" json:"brand"`
	Size          string          `db:"size" json:"size"`
	Color         string          `db:"color" json:"color"`
	Quantity      int             `db:"quantity" json:"quantity"`
	UnitPrice     decimal.Decimal `db:"unit_price" json:"unit_price"`
	TotalPrice    decimal.Decimal `db:"total_price" json:"total_price"`
	ImageURL      *string         `db:"image_url" json:"image_url"`
}

type TransactionListItem struct {
	Transaction
	ItemCount   int     `db:"item_count" json:"item_count"`
	CashierName *string `db:"cashier_name" json:"cashier_name"`
}

// ItemsSubtotal re-derives the subtotal from the line items.
func (t *Transaction) ItemsSubtotal() decimal.Decimal {
	sum := decimal.Zero
	for _, it := range t.Items {
		sum = sum.Add(it.TotalPrice)
	}
	return sum
}

// ItemsSold is the total quantity across all line items.
func (t *Transaction) ItemsSold() int {
	n := 0
	for _, it := range t.Items {
		n += it.Quantity
	}
	return n
}
