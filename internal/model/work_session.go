package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PaymentTotals accumulates money received per payment method.
type PaymentTotals map[string]decimal.Decimal

// Add returns a copy of t with amount added to the method's bucket.
// A nil map is treated as empty.
func (t PaymentTotals) Add(method string, amount decimal.Decimal) PaymentTotals {
	out := make(PaymentTotals, len(t)+1)
	for k, v := range t {
		out[k] = v
	}
	out[method] = out[method].Add(amount)
	return out
}

// WorkSession is a cashier's open shift at a branch. At most one session
// per (user, branch) may be open (closed_at NULL) at any time. Totals are
// maintained incrementally, once per completed sale — best-effort
// analytics, not a correctness-critical ledger.
type WorkSession struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID        uuid.UUID `gorm:"type:uuid;not null;index:idx_session_user_branch"`
	BranchID      uuid.UUID `gorm:"type:uuid;not null;index:idx_session_user_branch"`
	TotalSales    decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	TotalBonus    decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	PaymentTotals PaymentTotals   `gorm:"serializer:json"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
	ClosedAt      *time.Time
}

func (s *WorkSession) BeforeCreate(*gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// Open reports whether the session is still accumulating.
func (s *WorkSession) Open() bool { return s.ClosedAt == nil }

func (WorkSession) TableName() string { return "work_sessions" }
