package dto

import "github.com/shopspring/decimal"

type SessionResponse struct {
	ID            string                     `json:"id"`
	UserID        string                     `json:"user_id"`
	BranchID      string                     `json:"branch_id"`
	TotalSales    decimal.Decimal            `json:"total_sales"`
	TotalBonus    decimal.Decimal            `json:"total_bonus"`
	PaymentTotals map[string]decimal.Decimal `json:"payment_totals"`
	StartedAt     string                     `json:"started_at"`
	ClosedAt      *string                    `json:"closed_at,omitempty"`
}

type CloseSessionRequest struct {
	BranchID string `json:"branch_id"` // empty closes every open session of the user
}
