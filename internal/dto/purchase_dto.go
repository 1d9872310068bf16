package dto

import "github.com/shopspring/decimal"

// PurchaseLineRequest describes one ordered product by name — the catalog
// resolves or creates the underlying product/presentation. Quantity is in
// base units.
type PurchaseLineRequest struct {
	ProductName string          `json:"product_name" validate:"required"`
	Brand       string          `json:"brand"`
	Barcode     string          `json:"barcode"`
	Quantity    int             `json:"quantity" validate:"gt=0"`
	UnitCost    decimal.Decimal `json:"unit_cost" validate:"gt=0"`
	SalePrice   decimal.Decimal `json:"sale_price" validate:"gt=0"`
	Expiration  string          `json:"expiration"` // YYYY-MM-DD or RFC3339; unparseable is ignored
}

type CreatePurchaseRequest struct {
	BranchID      string                `json:"branch_id"`
	SupplierName  string                `json:"supplier_name" validate:"required"`
	SupplierTaxID string                `json:"supplier_tax_id"`
	Type          string                `json:"type"`
	Notes         string                `json:"notes"`
	// Received marks the order as received at creation time: products are
	// created active and stock is credited in the same transaction.
	Received bool                  `json:"received"`
	Items    []PurchaseLineRequest `json:"items" validate:"required,min=1,dive"`
}

type PurchaseItemResponse struct {
	ID             string          `json:"id"`
	PresentationID string          `json:"presentation_id"`
	Quantity       int             `json:"quantity"`
	UnitCost       decimal.Decimal `json:"unit_cost"`
	Subtotal       decimal.Decimal `json:"subtotal"`
}

type PurchaseResponse struct {
	ID         string                 `json:"id"`
	BusinessID string                 `json:"business_id"`
	BranchID   string                 `json:"branch_id"`
	SupplierID string                 `json:"supplier_id"`
	Status     string                 `json:"status"`
	Type       string                 `json:"type,omitempty"`
	Total      decimal.Decimal        `json:"total"`
	Notes      string                 `json:"notes,omitempty"`
	ApprovedAt *string                `json:"approved_at,omitempty"`
	ReceivedAt *string                `json:"received_at,omitempty"`
	Items      []PurchaseItemResponse `json:"items"`
	CreatedAt  string                 `json:"created_at"`
}

// PurchaseFilter is bound from the query string of GET /v1/purchases.
type PurchaseFilter struct {
	BusinessID string `form:"business_id"`
	BranchID   string `form:"branch_id"`
	Status     string `form:"status"` // pending | approved | received | cancelled | all
	Page       int    `form:"page,default=1" validate:"min=1"`
	Limit      int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type PurchaseListResponse struct {
	Data  []PurchaseResponse `json:"data"`
	Total int64              `json:"total"`
	Page  int                `json:"page"`
	Limit int                `json:"limit"`
}
