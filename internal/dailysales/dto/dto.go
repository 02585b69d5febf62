package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

type RecordSaleInput struct {
	SaleDate      time.Time
	AdminUserID   int64
	ItemsSold     int
	Amount        decimal.Decimal
	PaymentMethod string
}

type DailySalesFilters struct {
	AdminUserID int64
	StartDate   *time.Time
	EndDate     *time.Time
}
