package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// DailySales is the additive per-day, per-cashier rollup. Rows are only ever
// incremented, never recomputed from pos_transactions.
type DailySales struct {
	ID                 int64           `db:"id" json:"id"`
	SaleDate           time.Time       `db:"sale_date" json:"sale_date"`
	AdminUserID        int64           `db:"admin_user_id" json:"admin_user_id"`
	TotalTransactions  int             `db:"total_transactions" json:"total_transactions"`
	TotalItemsSold     int             `db:"total_items_sold" json:"total_items_sold"`
	GrossSales         decimal.Decimal `db:"gross_sales" json:"gross_sales"`
	NetSales           decimal.Decimal `db:"net_sales" json:"net_sales"`
	CashSales          decimal.Decimal `db:"cash_sales" json:"cash_sales"`
	CardSales          decimal.Decimal `db:"card_sales" json:"card_sales"`
	DigitalWalletSales decimal.Decimal `db:"digital_wallet_sales" json:"digital_wallet_sales"`
	BankTransferSales  decimal.Decimal `db:"bank_transfer_sales" json:"bank_transfer_sales"`
	UpdatedAt          time.Time       `db:"updated_at" json:"updated_at"`
}
