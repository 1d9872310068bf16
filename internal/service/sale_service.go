package service

import (
	"context"
	"errors"
	"strings"

	"tiendapos/internal/dto"
	"tiendapos/internal/ledger"
	"tiendapos/internal/model"
	"tiendapos/internal/repository"
	"tiendapos/internal/worker"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type SaleService interface {
	CreateSale(ctx context.Context, userID uuid.UUID, req dto.CreateSaleRequest) (*dto.SaleResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.SaleListItem, error)
	List(ctx context.Context, filter dto.SaleFilter) (*dto.SaleListResponse, error)
}

type saleService struct {
	sales      repository.SaleRepository
	products   repository.ProductRepository
	branches   repository.BranchRepository
	users      repository.UserRepository
	dispatcher *worker.Dispatcher
}

func NewSaleService(
	sales repository.SaleRepository,
	products repository.ProductRepository,
	branches repository.BranchRepository,
	users repository.UserRepository,
	dispatcher *worker.Dispatcher,
) SaleService {
	return &saleService{
		sales:      sales,
		products:   products,
		branches:   branches,
		users:      users,
		dispatcher: dispatcher,
	}
}

// runTx executes fn inside a GORM transaction when db is available, or
// calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// resolveBranch normalizes the caller-supplied branch id. A branch id that
// equals a business id is a legacy alias for "the business's first branch",
// which is created lazily when the business has none yet.
func resolveBranch(ctx context.Context, branches repository.BranchRepository, businessID, branchID uuid.UUID) (*model.Branch, error) {
	if branchID == businessID {
		b, err := branches.FirstByBusiness(ctx, businessID)
		if err == nil {
			return b, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		created := &model.Branch{
			BusinessID: businessID,
			Name:       "Principal",
			Active:     true,
		}
		if err := branches.Create(ctx, created); err != nil {
			return nil, err
		}
		return created, nil
	}

	b, err := branches.FindByID(ctx, branchID)
	if err != nil || b.BusinessID != businessID {
		return nil, ErrBranchNotFound
	}
	return b, nil
}

// isConstraintErr recognizes storage-level integrity failures (foreign
// keys, unique constraints) so they surface as a distinct user-facing
// message.
func isConstraintErr(err error) bool {
	if errors.Is(err, gorm.ErrForeignKeyViolated) || errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "constraint")
}

// ── CreateSale ────────────────────────────────────────────────────────────────
// One ACID transaction per sale:
//  1. validate input shape, user, branch (legacy alias), payment method
//  2. batch-resolve products and presentations; verify presentation
//     ownership and units; verify aggregated stock per product
//  3. BEGIN TX: insert sale + items, write every stock decrement
//  4. COMMIT
//  5. (async) session accrual, cashier bonus, receipt PDF / email

type resolvedLine struct {
	product       *model.Product
	presentation  *model.ProductPresentation
	quantity      int
	unitPrice     decimal.Decimal
	requiredUnits int
	subtotal      decimal.Decimal
	bonus         decimal.Decimal
}

func (s *saleService) CreateSale(ctx context.Context, userID uuid.UUID, req dto.CreateSaleRequest) (*dto.SaleResponse, error) {
	if len(req.Items) == 0 {
		return nil, errors.New("la venta no tiene productos")
	}
	if !model.ValidPaymentMethod(req.PaymentMethod) {
		return nil, errors.New("método de pago inválido")
	}
	branchID, err := uuid.Parse(req.BranchID)
	if err != nil {
		return nil, ErrBranchNotFound
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, ErrUserNotFound
	}
	branch, err := resolveBranch(ctx, s.branches, user.BusinessID, branchID)
	if err != nil {
		return nil, err
	}

	// Batch-resolve everything the cart references.
	productIDs := make([]uuid.UUID, 0, len(req.Items))
	presentationIDs := make([]uuid.UUID, 0, len(req.Items))
	seenProducts := map[uuid.UUID]bool{}
	seenPresentations := map[uuid.UUID]bool{}
	for _, item := range req.Items {
		pid, err := uuid.Parse(item.ProductID)
		if err != nil {
			return nil, ErrProductNotFound
		}
		prID, err := uuid.Parse(item.PresentationID)
		if err != nil {
			return nil, ErrPresentationMissing
		}
		if !seenProducts[pid] {
			seenProducts[pid] = true
			productIDs = append(productIDs, pid)
		}
		if !seenPresentations[prID] {
			seenPresentations[prID] = true
			presentationIDs = append(presentationIDs, prID)
		}
	}

	products, err := s.products.FindByIDs(ctx, productIDs)
	if err != nil {
		return nil, err
	}
	productByID := make(map[uuid.UUID]*model.Product, len(products))
	for i := range products {
		productByID[products[i].ID] = &products[i]
	}
	if len(productByID) != len(productIDs) {
		return nil, ErrProductNotFound
	}

	presentations, err := s.products.FindPresentationsByIDs(ctx, presentationIDs)
	if err != nil {
		return nil, err
	}
	presentationByID := make(map[uuid.UUID]*model.ProductPresentation, len(presentations))
	for i := range presentations {
		presentationByID[presentations[i].ID] = &presentations[i]
	}
	if len(presentationByID) != len(presentationIDs) {
		return nil, ErrPresentationMissing
	}

	// Verify each line and accumulate required base units per product.
	resolved := make([]resolvedLine, 0, len(req.Items))
	requiredByProduct := map[uuid.UUID]int{}
	total := decimal.Zero
	totalBonus := decimal.Zero

	for _, item := range req.Items {
		pid := uuid.MustParse(item.ProductID)
		prID := uuid.MustParse(item.PresentationID)
		product := productByID[pid]
		presentation := presentationByID[prID]

		if presentation.ProductID != product.ID {
			return nil, ErrPresentationMismatch
		}
		if presentation.Units != item.PresentationUnits {
			return nil, ErrUnitsMismatch
		}

		required := ledger.RequiredBaseUnits(presentation.Units, item.Quantity)
		requiredByProduct[product.ID] += required

		lineBonus := product.Bonification.Mul(decimal.NewFromInt(int64(required)))
		subtotal := item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))
		total = total.Add(subtotal)
		totalBonus = totalBonus.Add(lineBonus)

		resolved = append(resolved, resolvedLine{
			product:       product,
			presentation:  presentation,
			quantity:      item.Quantity,
			unitPrice:     item.UnitPrice,
			requiredUnits: required,
			subtotal:      subtotal,
			bonus:         lineBonus,
		})
	}

	// Aggregated check: several lines may drain the same product.
	for pid, required := range requiredByProduct {
		product := productByID[pid]
		if required > product.Stock {
			return nil, &StockError{
				Product:   product.Name,
				Available: product.Stock,
				Required:  required,
			}
		}
	}

	// ACID transaction: sale header, items, stock decrements.
	sale := model.Sale{
		BranchID:      branch.ID,
		UserID:        user.ID,
		Customer:      req.Customer,
		CustomerEmail: req.CustomerEmail,
		PaymentMethod: req.PaymentMethod,
		Status:        "completed",
		Total:         total,
	}
	for _, r := range resolved {
		sale.Items = append(sale.Items, model.SaleItem{
			ProductID:      r.product.ID,
			PresentationID: r.presentation.ID,
			Quantity:       r.quantity,
			UnitPrice:      r.unitPrice,
			Bonus:          r.bonus,
			Subtotal:       r.subtotal,
		})
	}

	txErr := runTx(ctx, s.sales.DB(), func(tx *gorm.DB) error {
		if err := s.sales.Create(ctx, tx, &sale); err != nil {
			return err
		}
		for pid, required := range requiredByProduct {
			product := productByID[pid]
			newStock := ledger.Apply(product.Stock, -required)
			if err := s.products.SetStockTx(tx, pid, newStock); err != nil {
				return err
			}
		}
		return nil
	})
	if txErr != nil {
		if isConstraintErr(txErr) {
			return nil, &StorageError{Err: txErr}
		}
		return nil, txErr
	}

	receipt := buildReceipt(&sale, user, branch, resolved)
	if business, err := s.branches.FindBusinessByID(ctx, user.BusinessID); err == nil {
		WithBusiness(receipt, business)
	} else {
		log.Warn().Err(err).
			Str("business_id", user.BusinessID.String()).
			Msg("business header unavailable for receipt")
	}

	// Best-effort side effects — a failure here never fails the sale.
	if s.dispatcher != nil {
		s.dispatcher.EnqueueSessionAccrual(worker.SessionAccrualJob{
			UserID:        user.ID,
			BranchID:      branch.ID,
			SaleTotal:     total,
			SaleBonus:     totalBonus,
			PaymentMethod: req.PaymentMethod,
		})
		s.dispatcher.EnqueueReceipt(worker.ReceiptJob{
			Receipt:       receipt,
			CustomerEmail: req.CustomerEmail,
		})
	}

	return &dto.SaleResponse{SaleID: sale.ID.String(), Receipt: receipt}, nil
}

func buildReceipt(sale *model.Sale, user *model.User, branch *model.Branch, resolved []resolvedLine) *dto.Receipt {
	receipt := &dto.Receipt{
		SaleID:         sale.ID.String(),
		Branch:         branch.Name,
		BranchLocation: branch.Location,
		Cashier:        user.Name,
		Customer:       sale.Customer,
		PaymentMethod:  sale.PaymentMethod,
		Total:          sale.Total,
		CreatedAt:      sale.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
	for _, r := range resolved {
		receipt.Lines = append(receipt.Lines, dto.ReceiptLine{
			Product:   r.product.Name,
			Variant:   r.presentation.Variant,
			Quantity:  r.quantity,
			UnitPrice: r.unitPrice,
			Subtotal:  r.subtotal,
		})
	}
	return receipt
}

// WithBusiness fills the business header fields of a receipt. Kept apart
// from buildReceipt so unit tests can exercise the receipt without a
// business directory.
func WithBusiness(receipt *dto.Receipt, business *model.Business) {
	receipt.Business = business.Name
	receipt.BusinessTaxID = business.TaxID
	receipt.BusinessLocation = business.Location
}

func (s *saleService) Get(ctx context.Context, id uuid.UUID) (*dto.SaleListItem, error) {
	sale, err := s.sales.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("venta no encontrada")
	}
	item := saleToListItem(sale)
	return &item, nil
}

func (s *saleService) List(ctx context.Context, filter dto.SaleFilter) (*dto.SaleListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	sales, total, err := s.sales.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.SaleListItem, 0, len(sales))
	for i := range sales {
		items = append(items, saleToListItem(&sales[i]))
	}
	return &dto.SaleListResponse{Data: items, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func saleToListItem(sale *model.Sale) dto.SaleListItem {
	return dto.SaleListItem{
		ID:            sale.ID.String(),
		BranchID:      sale.BranchID.String(),
		UserID:        sale.UserID.String(),
		Customer:      sale.Customer,
		PaymentMethod: sale.PaymentMethod,
		Status:        sale.Status,
		Total:         sale.Total,
		ItemCount:     len(sale.Items),
		CreatedAt:     sale.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}
