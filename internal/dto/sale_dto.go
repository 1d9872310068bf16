package dto

import "github.com/shopspring/decimal"

// SaleLineRequest is one cart line. PresentationUnits is the
// units-per-presentation value shown in the UI at sale time; the server
// re-validates it against the stored presentation before committing.
type SaleLineRequest struct {
	ProductID         string          `json:"product_id" validate:"required"`
	PresentationID    string          `json:"presentation_id" validate:"required"`
	Quantity          int             `json:"quantity" validate:"gt=0"`
	UnitPrice         decimal.Decimal `json:"unit_price" validate:"min=0"`
	PresentationUnits int             `json:"presentation_units" validate:"gte=1"`
}

type CreateSaleRequest struct {
	BranchID      string            `json:"branch_id" validate:"required"`
	Customer      *string           `json:"customer"`
	CustomerEmail *string           `json:"customer_email" validate:"omitempty,email"`
	PaymentMethod string            `json:"payment_method" validate:"required,oneof=cash card transfer digital_wallet"`
	Items         []SaleLineRequest `json:"items" validate:"required,min=1,dive"`
}

// ReceiptLine is a fully denormalized sale line for printing.
type ReceiptLine struct {
	Product   string          `json:"product"`
	Variant   string          `json:"variant"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// Receipt is the denormalized payload returned to the caller after a
// committed sale — everything the ticket needs, no further lookups.
type Receipt struct {
	SaleID           string          `json:"sale_id"`
	Business         string          `json:"business"`
	BusinessTaxID    string          `json:"business_tax_id"`
	BusinessLocation string          `json:"business_location"`
	Branch           string          `json:"branch"`
	BranchLocation   string          `json:"branch_location"`
	Cashier          string          `json:"cashier"`
	Customer         *string         `json:"customer,omitempty"`
	PaymentMethod    string          `json:"payment_method"`
	Lines            []ReceiptLine   `json:"lines"`
	Total            decimal.Decimal `json:"total"`
	CreatedAt        string          `json:"created_at"`
}

type SaleResponse struct {
	SaleID  string   `json:"sale_id"`
	Receipt *Receipt `json:"receipt"`
}

// SaleFilter is bound from the query string of GET /v1/sales.
type SaleFilter struct {
	Date     string `form:"date"` // YYYY-MM-DD; empty = no date filter
	BranchID string `form:"branch_id"`
	Page     int    `form:"page,default=1" validate:"min=1"`
	Limit    int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type SaleListItem struct {
	ID            string          `json:"id"`
	BranchID      string          `json:"branch_id"`
	UserID        string          `json:"user_id"`
	Customer      *string         `json:"customer,omitempty"`
	PaymentMethod string          `json:"payment_method"`
	Status        string          `json:"status"`
	Total         decimal.Decimal `json:"total"`
	ItemCount     int             `json:"item_count"`
	CreatedAt     string          `json:"created_at"`
}

type SaleListResponse struct {
	Data  []SaleListItem `json:"data"`
	Total int64          `json:"total"`
	Page  int            `json:"page"`
	Limit int            `json:"limit"`
}
