package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type SessionStatus string

const (
	SessionActive    SessionStatus = "active"
	SessionSuspended SessionStatus = "suspended"
	SessionClosed    SessionStatus = "closed"
)

type Session struct {
	ID                int64               `db:"id" json:"id"`
	SessionID         string              `db:"session_id" json:"session_id"`
	UserID            int64               `db:"user_id" json:"user_id"`
	TerminalName      string              `db:"terminal_name" json:"terminal_name"`
	Status            SessionStatus       `db:"status" json:"status"`
	OpeningCash       decimal.Decimal     `db:"opening_cash" json:"opening_cash"`
	ClosingCash       decimal.NullDecimal `db:"closing_cash" json:"closing_cash"`
	TotalSales        decimal.Decimal     `db:"total_sales" json:"total_sales"`
	TotalTransactions int                 `db:"total_transactions" json:"total_transactions"`
	StartTime         time.Time           `db:"start_time" json:"start_time"`
	EndTime           *time.Time          `db:"end_time" json:"end_time"`
	Notes             *string             `db:"notes" json:"notes"`
}

// SessionWithSales is an active session together with the completed sales
// rung up by its cashier since the session started.
type SessionWithSales struct {
	Session
	ActualSales        decimal.Decimal `db:"actual_sales" json:"actual_sales"`
	ActualTransactions int             `db:"actual_transactions" json:"actual_transactions"`
}

type SessionListItem struct {
	Session
	CashierName      *string         `db:"cashier_name" json:"cashier_name"`
	CashierEmail     *string         `db:"cashier_email" json:"cashier_email"`
	TransactionCount int             `db:"transaction_count" json:"transaction_count"`
	ActualSales      decimal.Decimal `db:"actual_sales" json:"actual_sales"`
}
