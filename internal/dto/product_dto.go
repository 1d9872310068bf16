package dto

import "github.com/shopspring/decimal"

type CreateProductRequest struct {
	BranchID     string          `json:"branch_id" validate:"required"`
	Name         string          `json:"name" validate:"required"`
	Brand        string          `json:"brand"`
	Barcode      string          `json:"barcode"`
	SKU          string          `json:"sku"`
	Cost         decimal.Decimal `json:"cost" validate:"min=0"`
	Price        decimal.Decimal `json:"price" validate:"min=0"`
	Stock        int             `json:"stock" validate:"min=0"`
	Bonification decimal.Decimal `json:"bonification" validate:"min=0"`
	Expiration   string          `json:"expiration"`
}

type UpdateProductRequest struct {
	Name         *string          `json:"name"`
	Brand        *string          `json:"brand"`
	Barcode      *string          `json:"barcode"`
	SKU          *string          `json:"sku"`
	Cost         *decimal.Decimal `json:"cost"`
	Price        *decimal.Decimal `json:"price"`
	Bonification *decimal.Decimal `json:"bonification"`
	Expiration   *string          `json:"expiration"`
}

type PresentationResponse struct {
	ID      string           `json:"id"`
	Variant string           `json:"variant"`
	Units   int              `json:"units"`
	Price   *decimal.Decimal `json:"price,omitempty"`
	Active  bool             `json:"active"`
}

type ProductResponse struct {
	ID           string          `json:"id"`
	BranchID     string          `json:"branch_id"`
	Name         string          `json:"name"`
	Brand        string          `json:"brand,omitempty"`
	Barcode      string          `json:"barcode,omitempty"`
	SKU          string          `json:"sku,omitempty"`
	Cost         decimal.Decimal `json:"cost"`
	Price        decimal.Decimal `json:"price"`
	Stock        int             `json:"stock"`
	Bonification decimal.Decimal `json:"bonification"`
	Expiration   *string         `json:"expiration,omitempty"`
	Active       bool            `json:"active"`
	// Presentations lists the additional (non base-unit) presentations.
	Presentations []PresentationResponse `json:"presentations,omitempty"`
}

type ProductFilter struct {
	BranchID string `form:"branch_id"`
	Search   string `form:"search"`
	Barcode  string `form:"barcode"`
	Active   string `form:"active"` // "false" | "all" | default active
	Page     int    `form:"page,default=1" validate:"min=1"`
	Limit    int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type ProductListResponse struct {
	Data  []ProductResponse `json:"data"`
	Total int64             `json:"total"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
}

type AddPresentationRequest struct {
	Variant string           `json:"variant" validate:"required"`
	Units   int              `json:"units" validate:"gte=1"`
	Price   *decimal.Decimal `json:"price"`
}

type UpdatePresentationRequest struct {
	Variant *string          `json:"variant"`
	Units   *int             `json:"units" validate:"omitempty,gte=1"`
	Price   *decimal.Decimal `json:"price"`
}
