package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Business is the top-level owner of branches, users and purchases.
type Business struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name      string    `gorm:"not null"`
	TaxID     string    `gorm:"column:tax_id"`
	Location  string
	CreatedAt time.Time
	UpdatedAt time.Time

	Branches []Branch `gorm:"foreignKey:BusinessID"`
}

func (b *Business) BeforeCreate(*gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

func (Business) TableName() string { return "businesses" }

// Branch is a physical point of sale belonging to a business.
// Every product, sale and work session is scoped to a branch.
type Branch struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	BusinessID uuid.UUID `gorm:"type:uuid;not null;index"`
	Name       string    `gorm:"not null"`
	Location   string
	Active     bool `gorm:"not null;default:true"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (b *Branch) BeforeCreate(*gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

func (Branch) TableName() string { return "branches" }
