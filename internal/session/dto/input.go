package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

type OpenSessionInput struct {
	UserID       int64
	TerminalName string
	OpeningCash  decimal.Decimal
	Notes        string
}

type CloseSessionInput struct {
	UserID      int64
	SessionID   string
	ClosingCash decimal.Decimal
	Notes       string
}

type ChangeStatusInput struct {
	UserID    int64
	SessionID string
	Action    string // suspend, resume
	Notes     string
}

// CloseParams is what the repository writes when a session is closed.
type CloseParams struct {
	SessionID         string
	ClosingCash       decimal.Decimal
	TotalSales        decimal.Decimal
	TotalTransactions int
	EndTime           time.Time
	Note              string
}
