package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Payment methods accepted at the register.
const (
	PaymentCash          = "cash"
	PaymentCard          = "card"
	PaymentTransfer      = "transfer"
	PaymentDigitalWallet = "digital_wallet"
)

// PaymentMethods lists every accepted payment method.
var PaymentMethods = []string{PaymentCash, PaymentCard, PaymentTransfer, PaymentDigitalWallet}

// ValidPaymentMethod reports whether m is one of the accepted methods.
func ValidPaymentMethod(m string) bool {
	for _, pm := range PaymentMethods {
		if pm == m {
			return true
		}
	}
	return false
}

// Sale is created once, atomically, together with its items and the stock
// decrements it causes. It is never mutated afterwards.
type Sale struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	BranchID      uuid.UUID `gorm:"type:uuid;not null;index"`
	UserID        uuid.UUID `gorm:"type:uuid;not null;index"`
	Customer      *string
	CustomerEmail *string
	PaymentMethod string          `gorm:"type:varchar(20);not null"`
	Status        string          `gorm:"type:varchar(20);not null;default:'completed'"`
	Total         decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CreatedAt     time.Time

	Items []SaleItem `gorm:"foreignKey:SaleID;constraint:OnDelete:CASCADE"`
}

func (s *Sale) BeforeCreate(*gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// SaleItem is one cart line. Quantity counts presentations, not base units.
// UnitPrice and Bonus are captured at sale time — never looked up later.
type SaleItem struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	SaleID         uuid.UUID `gorm:"type:uuid;not null;index"`
	ProductID      uuid.UUID `gorm:"type:uuid;not null;index"`
	PresentationID uuid.UUID `gorm:"type:uuid;not null"`
	Quantity       int       `gorm:"not null"`
	UnitPrice      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	// Bonus is the bonification accrued by this line (per-base-unit rate
	// times the base units sold), snapshotted at sale time.
	Bonus    decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Subtotal decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CreatedAt time.Time
}

func (i *SaleItem) BeforeCreate(*gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
