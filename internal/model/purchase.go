package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Purchase order lifecycle:
//
//	pending -> approved -> received
//	pending | approved -> cancelled
//
// received may also be entered directly at creation time when the goods
// arrive with the order. received and cancelled are terminal.
const (
	PurchasePending   = "pending"
	PurchaseApproved  = "approved"
	PurchaseReceived  = "received"
	PurchaseCancelled = "cancelled"
)

// Purchase is an order placed with a supplier. Receiving it credits stock
// and activates any placeholder products its lines reserved.
type Purchase struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	BusinessID uuid.UUID `gorm:"type:uuid;not null;index"`
	BranchID   uuid.UUID `gorm:"type:uuid;not null;index"`
	SupplierID uuid.UUID `gorm:"type:uuid;not null;index"`
	Status     string    `gorm:"type:varchar(20);not null;default:'pending'"`
	Type       string    `gorm:"type:varchar(20)"`
	Total      decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Notes      string
	CreatedBy  uuid.UUID  `gorm:"type:uuid;not null"`
	ApprovedBy *uuid.UUID `gorm:"type:uuid"`
	ApprovedAt *time.Time
	ReceivedAt *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time

	Items []PurchaseItem `gorm:"foreignKey:PurchaseID;constraint:OnDelete:CASCADE"`
}

func (p *Purchase) BeforeCreate(*gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// PurchaseItem is one order line. Quantity is in base units — it is added
// to product stock as-is on receipt. Immutable once created.
type PurchaseItem struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	PurchaseID     uuid.UUID `gorm:"type:uuid;not null;index"`
	PresentationID uuid.UUID `gorm:"type:uuid;not null"`
	Quantity       int       `gorm:"not null"`
	UnitCost       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Subtotal       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CreatedAt      time.Time
}

func (i *PurchaseItem) BeforeCreate(*gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
