package dto

import "github.com/shopspring/decimal"

// SessionRequest is the body of POST /api/pos/sessions. A body carrying
// sessionId closes that session; any other body opens a new one.
type SessionRequest struct {
	SessionID    string           `json:"sessionId"`
	TerminalName string           `json:"terminalName"`
	OpeningCash  *decimal.Decimal `json:"openingCash"`
	ClosingCash  *decimal.Decimal `json:"closingCash"`
	Notes        string           `json:"notes"`
}

type StatusRequest struct {
	SessionID string `json:"sessionId" binding:"required"`
	Action    string `json:"action" binding:"required,oneof=suspend resume"`
	Notes     string `json:"notes"`
}
