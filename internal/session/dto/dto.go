package dto

import (
	"time"

	"github.com/gkicks/gkicks-pos-service/internal/model"
	"github.com/shopspring/decimal"
)

type SessionFilters struct {
	Status      model.SessionStatus
	AdminUserID int64
	StartDate   *time.Time
	EndDate     *time.Time
	Page        int
	PageSize    int
}

const (
	VarianceBalanced = "balanced"
	VarianceOver     = "over"
	VarianceShort    = "short"
)

type SessionSummary struct {
	SessionID         string          `json:"sessionId"`
	TerminalName      string          `json:"terminalName"`
	StartTime         time.Time       `json:"startTime"`
	EndTime           time.Time       `json:"endTime"`
	OpeningCash       decimal.Decimal `json:"openingCash"`
	ClosingCash       decimal.Decimal `json:"closingCash"`
	TotalSales        decimal.Decimal `json:"totalSales"`
	TotalTransactions int             `json:"totalTransactions"`
	ExpectedCash      decimal.Decimal `json:"expectedCash"`
	CashVariance      decimal.Decimal `json:"cashVariance"`
	VarianceStatus    string          `json:"varianceStatus"`
}

type StatusChange struct {
	SessionID string              `json:"sessionId"`
	Status    model.SessionStatus `json:"status"`
}
