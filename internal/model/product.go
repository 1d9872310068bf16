package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// BaseVariant is the reserved presentation label for the base unit.
// Every product has exactly one presentation with this variant and
// units_per_presentation = 1; its price always mirrors the product's
// base price and it is never user-deletable.
const BaseVariant = "unidad"

// Product is a stock-tracked catalog item. Stock is counted in base units;
// all presentation quantities convert down to base units for stock math.
// An inactive product is invisible to sale/browse flows but may still be
// referenced by pending purchase-order lines (placeholder products).
type Product struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	BranchID     uuid.UUID `gorm:"type:uuid;not null;index"`
	Name         string    `gorm:"index;not null"`
	Brand        string
	Barcode      string `gorm:"index"`
	SKU          string `gorm:"column:sku"`
	Cost         decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Price        decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Stock        int             `gorm:"not null;default:0"`
	// Bonification is the per-base-unit incentive accrued to the cashier.
	Bonification decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Expiration   *time.Time
	Active       bool       `gorm:"not null;default:true"`
	CreatedBy    *uuid.UUID `gorm:"type:uuid"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Presentations []ProductPresentation `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
}

func (p *Product) BeforeCreate(*gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// ProductPresentation is a sellable packaging variant of a product
// (e.g. "unidad" = 1 base unit, "pack" = 6). Price overrides the product
// base price when set; nil falls back to the product price.
type ProductPresentation struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;index"`
	Variant   string    `gorm:"not null"`
	Units     int       `gorm:"not null;default:1"`
	Price     *decimal.Decimal `gorm:"type:decimal(12,2)"`
	Active    bool             `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (p *ProductPresentation) BeforeCreate(*gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

func (ProductPresentation) TableName() string { return "product_presentations" }

// IsBase reports whether this is the reserved base-unit presentation.
func (p *ProductPresentation) IsBase() bool { return p.Variant == BaseVariant }
