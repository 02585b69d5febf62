package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

type ItemInput struct {
	ProductID int64           `json:"productId"`
	Name      string          `json:"name"`
	Brand     string          `json:"brand"`
	Price     decimal.Decimal `json:"price"`
	Color     string          `json:"color"`
	Size      string          `json:"size"`
	Quantity  int             `json:"quantity"`
	Image     *string         `json:"image"`
}

// CreateTransactionInput is the body of POST /api/pos/transactions. The
// cashier fields are filled from the authenticated identity.
type CreateTransactionInput struct {
	AdminUserID int64  `json:"-"`
	CashierName string `json:"-"`

	Items            []ItemInput         `json:"items"`
	Total            decimal.Decimal     `json:"total"`
	PaymentMethod    string              `json:"paymentMethod"`
	CustomerName     string              `json:"customerName"`
	PaymentReference string              `json:"paymentReference"`
	CashReceived     decimal.NullDecimal `json:"cashReceived"`
	ChangeGiven      decimal.NullDecimal `json:"changeGiven"`
}

type TransactionFilters struct {
	Date     *time.Time
	Status   string
	Search   string
	Page     int
	PageSize int
}
