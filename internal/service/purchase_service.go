package service

import (
	"context"
	"errors"
	"time"

	"tiendapos/internal/dto"
	"tiendapos/internal/ledger"
	"tiendapos/internal/model"
	"tiendapos/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PurchaseService interface {
	// CreatePurchase registers a supplier order. Every line names a product
	// by text; the catalog resolves it or creates it (active when the order
	// is received on the spot, inactive placeholder otherwise). With
	// req.Received the stock credit happens in the same transaction.
	CreatePurchase(ctx context.Context, userID uuid.UUID, req dto.CreatePurchaseRequest) (*dto.PurchaseResponse, error)

	// ApprovePurchase moves pending -> approved.
	ApprovePurchase(ctx context.Context, userID, purchaseID uuid.UUID) (*dto.PurchaseResponse, error)

	// ReceivePurchase credits stock for every line, activates placeholder
	// products, and marks the order received. Atomic and idempotent-safe:
	// a second receive fails the status guard inside the transaction.
	ReceivePurchase(ctx context.Context, purchaseID uuid.UUID) (*dto.PurchaseResponse, error)

	// CancelPurchase moves pending|approved -> cancelled. No stock moves.
	CancelPurchase(ctx context.Context, purchaseID uuid.UUID) (*dto.PurchaseResponse, error)

	Get(ctx context.Context, id uuid.UUID) (*dto.PurchaseResponse, error)
	List(ctx context.Context, filter dto.PurchaseFilter) (*dto.PurchaseListResponse, error)
}

type purchaseService struct {
	purchases repository.PurchaseRepository
	products  repository.ProductRepository
	branches  repository.BranchRepository
	users     repository.UserRepository
	catalog   CatalogService
}

func NewPurchaseService(
	purchases repository.PurchaseRepository,
	products repository.ProductRepository,
	branches repository.BranchRepository,
	users repository.UserRepository,
	catalog CatalogService,
) PurchaseService {
	return &purchaseService{
		purchases: purchases,
		products:  products,
		branches:  branches,
		users:     users,
		catalog:   catalog,
	}
}

func (s *purchaseService) CreatePurchase(ctx context.Context, userID uuid.UUID, req dto.CreatePurchaseRequest) (*dto.PurchaseResponse, error) {
	if len(req.Items) == 0 {
		return nil, errors.New("la compra no tiene productos")
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, ErrUserNotFound
	}

	branchID := user.BusinessID // default branch alias when none supplied
	if req.BranchID != "" {
		parsed, err := uuid.Parse(req.BranchID)
		if err != nil {
			return nil, ErrBranchNotFound
		}
		branchID = parsed
	}
	branch, err := resolveBranch(ctx, s.branches, user.BusinessID, branchID)
	if err != nil {
		return nil, err
	}

	supplierID, err := s.catalog.FindOrCreateSupplier(ctx, user.BusinessID, req.SupplierName, req.SupplierTaxID)
	if err != nil {
		return nil, err
	}

	// Resolve or create a product per line before opening the write
	// transaction. Received orders create missing products active; pending
	// orders create inactive placeholders that stay hidden from the sale
	// catalog until the goods arrive.
	total := decimal.Zero
	items := make([]model.PurchaseItem, 0, len(req.Items))
	for _, line := range req.Items {
		in := ProductInput{
			Name:       line.ProductName,
			Brand:      line.Brand,
			Barcode:    line.Barcode,
			Cost:       line.UnitCost,
			Price:      line.SalePrice,
			Expiration: line.Expiration,
			CreatedBy:  &user.ID,
		}
		outcome, presID, err := s.catalog.ResolveProduct(ctx, branch.ID, in, req.Received)
		if err != nil {
			return nil, err
		}
		if outcome == ResolveNotFound {
			presID, err = s.catalog.CreatePlaceholder(ctx, branch.ID, in)
			if err != nil {
				return nil, err
			}
		}

		subtotal := line.UnitCost.Mul(decimal.NewFromInt(int64(line.Quantity)))
		total = total.Add(subtotal)
		items = append(items, model.PurchaseItem{
			PresentationID: presID,
			Quantity:       line.Quantity,
			UnitCost:       line.UnitCost,
			Subtotal:       subtotal,
		})
	}

	purchase := &model.Purchase{
		BusinessID: user.BusinessID,
		BranchID:   branch.ID,
		SupplierID: supplierID,
		Status:     model.PurchasePending,
		Type:       req.Type,
		Total:      total,
		Notes:      req.Notes,
		CreatedBy:  user.ID,
		Items:      items,
	}

	txErr := runTx(ctx, s.purchases.DB(), func(tx *gorm.DB) error {
		// Credit before the insert so the row is born with its final
		// status — received orders persist status and received_at in the
		// same INSERT as the stock writes.
		if req.Received {
			if err := s.creditStock(tx, purchase); err != nil {
				return err
			}
		}
		return s.purchases.Create(ctx, tx, purchase)
	})
	if txErr != nil {
		if isConstraintErr(txErr) {
			return nil, &StorageError{Err: txErr}
		}
		return nil, txErr
	}

	return purchaseToResponse(purchase), nil
}

func (s *purchaseService) ApprovePurchase(ctx context.Context, userID, purchaseID uuid.UUID) (*dto.PurchaseResponse, error) {
	var purchase *model.Purchase
	txErr := runTx(ctx, s.purchases.DB(), func(tx *gorm.DB) error {
		p, err := s.purchases.FindByIDTx(tx, purchaseID)
		if err != nil {
			return ErrPurchaseNotFound
		}
		if p.Status != model.PurchasePending {
			return &PurchaseStateError{Status: p.Status, Action: "aprobarse"}
		}
		now := time.Now().UTC()
		p.Status = model.PurchaseApproved
		p.ApprovedBy = &userID
		p.ApprovedAt = &now
		purchase = p
		return s.purchases.UpdateTx(tx, p)
	})
	if txErr != nil {
		return nil, txErr
	}
	return purchaseToResponse(purchase), nil
}

func (s *purchaseService) ReceivePurchase(ctx context.Context, purchaseID uuid.UUID) (*dto.PurchaseResponse, error) {
	txErr := runTx(ctx, s.purchases.DB(), func(tx *gorm.DB) error {
		// The status read shares the transaction with the stock writes, so
		// two concurrent receives of the same order cannot both pass.
		p, err := s.purchases.FindByIDTx(tx, purchaseID)
		if err != nil {
			return ErrPurchaseNotFound
		}
		if p.Status != model.PurchasePending && p.Status != model.PurchaseApproved {
			return &PurchaseStateError{Status: p.Status, Action: "recibirse"}
		}
		if p.BranchID == uuid.Nil {
			return ErrBranchNotFound
		}
		if len(p.Items) == 0 {
			return errors.New("la compra no tiene productos para recibir")
		}
		if err := s.creditStock(tx, p); err != nil {
			return err
		}
		return s.purchases.UpdateTx(tx, p)
	})
	if txErr != nil {
		if isConstraintErr(txErr) {
			return nil, &StorageError{Err: txErr}
		}
		return nil, txErr
	}

	// Post-commit check: re-read through a fresh connection and confirm
	// the status flip actually landed before reporting success.
	verified, err := s.purchases.FindByID(ctx, purchaseID)
	if err != nil || verified.Status != model.PurchaseReceived {
		return nil, ErrReceiveNotConfirmed
	}
	return purchaseToResponse(verified), nil
}

// creditStock adds every line's quantity to its product stock, activates
// products that were created as placeholders, and flips the purchase to
// received. Runs inside the caller's tx; every read goes through the tx
// too — the pool holds a single connection, so a read through the base
// handle would block behind the open transaction.
func (s *purchaseService) creditStock(tx *gorm.DB, p *model.Purchase) error {
	for i := range p.Items {
		item := &p.Items[i]
		presentation, err := s.products.FindPresentationByIDTx(tx, item.PresentationID)
		if err != nil {
			return ErrPresentationMissing
		}
		product, err := s.products.FindByIDTx(tx, presentation.ProductID)
		if err != nil {
			return ErrProductNotFound
		}

		newStock := ledger.Apply(product.Stock, ledger.ReceiptDelta(item.Quantity))
		if err := s.products.SetStockTx(tx, product.ID, newStock); err != nil {
			return err
		}
		if !product.Active {
			if err := s.products.ActivateTx(tx, product.ID); err != nil {
				return err
			}
			if err := s.products.ActivatePresentationsTx(tx, product.ID); err != nil {
				return err
			}
		}
	}
	now := time.Now().UTC()
	p.Status = model.PurchaseReceived
	p.ReceivedAt = &now
	return nil
}

func (s *purchaseService) CancelPurchase(ctx context.Context, purchaseID uuid.UUID) (*dto.PurchaseResponse, error) {
	var purchase *model.Purchase
	txErr := runTx(ctx, s.purchases.DB(), func(tx *gorm.DB) error {
		p, err := s.purchases.FindByIDTx(tx, purchaseID)
		if err != nil {
			return ErrPurchaseNotFound
		}
		if p.Status != model.PurchasePending && p.Status != model.PurchaseApproved {
			return &PurchaseStateError{Status: p.Status, Action: "cancelarse"}
		}
		p.Status = model.PurchaseCancelled
		purchase = p
		return s.purchases.UpdateTx(tx, p)
	})
	if txErr != nil {
		return nil, txErr
	}
	return purchaseToResponse(purchase), nil
}

func (s *purchaseService) Get(ctx context.Context, id uuid.UUID) (*dto.PurchaseResponse, error) {
	p, err := s.purchases.FindByID(ctx, id)
	if err != nil {
		return nil, ErrPurchaseNotFound
	}
	return purchaseToResponse(p), nil
}

func (s *purchaseService) List(ctx context.Context, filter dto.PurchaseFilter) (*dto.PurchaseListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	purchases, total, err := s.purchases.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.PurchaseResponse, 0, len(purchases))
	for i := range purchases {
		items = append(items, *purchaseToResponse(&purchases[i]))
	}
	return &dto.PurchaseListResponse{Data: items, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func purchaseToResponse(p *model.Purchase) *dto.PurchaseResponse {
	resp := &dto.PurchaseResponse{
		ID:         p.ID.String(),
		BusinessID: p.BusinessID.String(),
		BranchID:   p.BranchID.String(),
		SupplierID: p.SupplierID.String(),
		Status:     p.Status,
		Type:       p.Type,
		Total:      p.Total,
		Notes:      p.Notes,
		CreatedAt:  p.CreatedAt.Format(time.RFC3339),
	}
	if p.ApprovedAt != nil {
		v := p.ApprovedAt.Format(time.RFC3339)
		resp.ApprovedAt = &v
	}
	if p.ReceivedAt != nil {
		v := p.ReceivedAt.Format(time.RFC3339)
		resp.ReceivedAt = &v
	}
	for _, item := range p.Items {
		resp.Items = append(resp.Items, dto.PurchaseItemResponse{
			ID:             item.ID.String(),
			PresentationID: item.PresentationID.String(),
			Quantity:       item.Quantity,
			UnitCost:       item.UnitCost,
			Subtotal:       item.Subtotal,
		})
	}
	return resp
}
