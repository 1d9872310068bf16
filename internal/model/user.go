package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// User stores system users with role-based access.
// Role: "cashier" | "supervisor" | "admin"
type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	BusinessID   uuid.UUID `gorm:"type:uuid;not null;index"`
	Username     string    `gorm:"uniqueIndex;not null"`
	Name         string    `gorm:"not null"`
	Email        *string
	PasswordHash string `gorm:"not null"`
	Role         string `gorm:"type:varchar(20);not null"`
	Active       bool   `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (u *User) BeforeCreate(*gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// BranchUser is the membership row linking a user to a branch.
// AccruedBonus is the cashier's running bonification balance, incremented
// after every completed sale.
type BranchUser struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey"`
	BranchID     uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_branch_user"`
	UserID       uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_branch_user"`
	AccruedBonus decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (bu *BranchUser) BeforeCreate(*gorm.DB) error {
	if bu.ID == uuid.Nil {
		bu.ID = uuid.New()
	}
	return nil
}

func (BranchUser) TableName() string { return "branches_users" }
