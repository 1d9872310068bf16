package service_test

import (
	"context"
	"errors"
	"testing"

	"tiendapos/internal/dto"
	"tiendapos/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildSaleSvc() (service.SaleService, *stubSaleRepo, *stubProductRepo, *stubUserRepo, *stubBranchRepo) {
	productRepo := newStubProductRepo()
	saleRepo := newStubSaleRepo()
	userRepo := newStubUserRepo()
	branchRepo := newStubBranchRepo()
	svc := service.NewSaleService(saleRepo, productRepo, branchRepo, userRepo, nil)
	return svc, saleRepo, productRepo, userRepo, branchRepo
}

func saleLine(p, pres uuid.UUID, qty, units int, price float64) dto.SaleLineRequest {
	return dto.SaleLineRequest{
		ProductID:         p.String(),
		PresentationID:    pres.String(),
		Quantity:          qty,
		UnitPrice:         decimal.NewFromFloat(price),
		PresentationUnits: units,
	}
}

func TestCreateSale_InsufficientStock(t *testing.T) {
	svc, saleRepo, productRepo, userRepo, branchRepo := buildSaleSvc()
	user, branch := seedUserAndBranch(userRepo, branchRepo)
	p, base := seedProduct(productRepo, branch.ID, "Agua 500ml", "779001", 5, 15)

	_, err := svc.CreateSale(context.Background(), user.ID, dto.CreateSaleRequest{
		BranchID:      branch.ID.String(),
		PaymentMethod: "cash",
		Items:         []dto.SaleLineRequest{saleLine(p.ID, base.ID, 6, 1, 15)},
	})

	var stockErr *service.StockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, "Agua 500ml", stockErr.Product)
	assert.Equal(t, 5, stockErr.Available)
	assert.Equal(t, 6, stockErr.Required)

	// Nothing written: stock intact, no sale stored.
	assert.Equal(t, 5, p.Stock)
	assert.Empty(t, saleRepo.sales)
}

func TestCreateSale_PackDecrementsBaseUnits(t *testing.T) {
	svc, _, productRepo, userRepo, branchRepo := buildSaleSvc()
	user, branch := seedUserAndBranch(userRepo, branchRepo)
	p, _ := seedProduct(productRepo, branch.ID, "Cerveza 355ml", "779002", 10, 9)
	six := seedPresentation(productRepo, p.ID, "six-pack", 6, 50)

	resp, err := svc.CreateSale(context.Background(), user.ID, dto.CreateSaleRequest{
		BranchID:      branch.ID.String(),
		PaymentMethod: "cash",
		Items:         []dto.SaleLineRequest{saleLine(p.ID, six.ID, 1, 6, 50)},
	})

	require.NoError(t, err)
	assert.Equal(t, 4, p.Stock) // 10 - 6
	require.Len(t, resp.Receipt.Lines, 1)
	assert.Equal(t, "six-pack", resp.Receipt.Lines[0].Variant)
	assert.True(t, resp.Receipt.Total.Equal(decimal.NewFromInt(50)))
}

func TestCreateSale_AggregatesLinesOverSameProduct(t *testing.T) {
	svc, saleRepo, productRepo, userRepo, branchRepo := buildSaleSvc()
	user, branch := seedUserAndBranch(userRepo, branchRepo)
	p, base := seedProduct(productRepo, branch.ID, "Gaseosa 2L", "779003", 8, 20)
	six := seedPresentation(productRepo, p.ID, "six-pack", 6, 100)

	// 6 + 3 = 9 base units needed, only 8 in stock. Each line alone fits.
	_, err := svc.CreateSale(context.Background(), user.ID, dto.CreateSaleRequest{
		BranchID:      branch.ID.String(),
		PaymentMethod: "card",
		Items: []dto.SaleLineRequest{
			saleLine(p.ID, six.ID, 1, 6, 100),
			saleLine(p.ID, base.ID, 3, 1, 20),
		},
	})

	var stockErr *service.StockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, 9, stockErr.Required)
	assert.Equal(t, 8, p.Stock)
	assert.Empty(t, saleRepo.sales)
}

func TestCreateSale_PresentationOwnershipRejected(t *testing.T) {
	svc, _, productRepo, userRepo, branchRepo := buildSaleSvc()
	user, branch := seedUserAndBranch(userRepo, branchRepo)
	p1, _ := seedProduct(productRepo, branch.ID, "Yerba 1kg", "779004", 10, 30)
	p2, base2 := seedProduct(productRepo, branch.ID, "Azúcar 1kg", "779005", 10, 10)

	// Line references p1 but pays p2's presentation.
	_, err := svc.CreateSale(context.Background(), user.ID, dto.CreateSaleRequest{
		BranchID:      branch.ID.String(),
		PaymentMethod: "cash",
		Items:         []dto.SaleLineRequest{saleLine(p1.ID, base2.ID, 1, 1, 10)},
	})

	require.ErrorIs(t, err, service.ErrPresentationMismatch)
	assert.Equal(t, 10, p1.Stock)
	assert.Equal(t, 10, p2.Stock)
}

func TestCreateSale_StaleUnitsRejected(t *testing.T) {
	svc, _, productRepo, userRepo, branchRepo := buildSaleSvc()
	user, branch := seedUserAndBranch(userRepo, branchRepo)
	p, _ := seedProduct(productRepo, branch.ID, "Galletitas", "779006", 20, 5)
	pack := seedPresentation(productRepo, p.ID, "pack", 4, 18)

	// Client still shows the old 3-unit pack.
	_, err := svc.CreateSale(context.Background(), user.ID, dto.CreateSaleRequest{
		BranchID:      branch.ID.String(),
		PaymentMethod: "cash",
		Items:         []dto.SaleLineRequest{saleLine(p.ID, pack.ID, 1, 3, 18)},
	})

	require.ErrorIs(t, err, service.ErrUnitsMismatch)
	assert.Equal(t, 20, p.Stock)
}

func TestCreateSale_StorageFailureLeavesStockIntact(t *testing.T) {
	svc, saleRepo, productRepo, userRepo, branchRepo := buildSaleSvc()
	user, branch := seedUserAndBranch(userRepo, branchRepo)
	p, base := seedProduct(productRepo, branch.ID, "Leche 1L", "779007", 10, 12)

	saleRepo.failCreate = errors.New("FOREIGN KEY constraint failed")

	_, err := svc.CreateSale(context.Background(), user.ID, dto.CreateSaleRequest{
		BranchID:      branch.ID.String(),
		PaymentMethod: "cash",
		Items:         []dto.SaleLineRequest{saleLine(p.ID, base.ID, 2, 1, 12)},
	})

	var storageErr *service.StorageError
	require.ErrorAs(t, err, &storageErr)
	assert.Equal(t, 10, p.Stock)
	assert.Empty(t, saleRepo.sales)
}

func TestCreateSale_ReceiptIsDenormalized(t *testing.T) {
	svc, saleRepo, productRepo, userRepo, branchRepo := buildSaleSvc()
	user, branch := seedUserAndBranch(userRepo, branchRepo)
	p, base := seedProduct(productRepo, branch.ID, "Café 250g", "779008", 10, 40)

	customer := "Juan Pérez"
	resp, err := svc.CreateSale(context.Background(), user.ID, dto.CreateSaleRequest{
		BranchID:      branch.ID.String(),
		Customer:      &customer,
		PaymentMethod: "transfer",
		Items:         []dto.SaleLineRequest{saleLine(p.ID, base.ID, 2, 1, 40)},
	})

	require.NoError(t, err)
	r := resp.Receipt
	assert.Equal(t, "Tienda Demo", r.Business)
	assert.Equal(t, "30-70000000-3", r.BusinessTaxID)
	assert.Equal(t, "Av. Rivadavia 1234", r.BusinessLocation)
	assert.Equal(t, branch.Name, r.Branch)
	assert.Equal(t, user.Name, r.Cashier)
	assert.Equal(t, "Juan Pérez", *r.Customer)
	assert.Equal(t, "transfer", r.PaymentMethod)
	require.Len(t, r.Lines, 1)
	assert.Equal(t, "Café 250g", r.Lines[0].Product)
	assert.True(t, r.Lines[0].Subtotal.Equal(decimal.NewFromInt(80)))
	assert.True(t, r.Total.Equal(decimal.NewFromInt(80)))

	// The sale itself was stored with its items.
	sale, err := saleRepo.FindByID(context.Background(), uuid.MustParse(resp.SaleID))
	require.NoError(t, err)
	assert.Len(t, sale.Items, 1)
	assert.Equal(t, 8, p.Stock)
}

func TestCreateSale_BusinessIDAliasResolvesFirstBranch(t *testing.T) {
	svc, _, productRepo, userRepo, branchRepo := buildSaleSvc()
	user, branch := seedUserAndBranch(userRepo, branchRepo)
	p, base := seedProduct(productRepo, branch.ID, "Pan lactal", "779009", 5, 8)

	// Legacy clients send the business id where the branch id belongs.
	resp, err := svc.CreateSale(context.Background(), user.ID, dto.CreateSaleRequest{
		BranchID:      user.BusinessID.String(),
		PaymentMethod: "cash",
		Items:         []dto.SaleLineRequest{saleLine(p.ID, base.ID, 1, 1, 8)},
	})

	require.NoError(t, err)
	assert.Equal(t, branch.Name, resp.Receipt.Branch)
	assert.Equal(t, 4, p.Stock)
}

func TestCreateSale_UnknownPaymentMethod(t *testing.T) {
	svc, _, productRepo, userRepo, branchRepo := buildSaleSvc()
	user, branch := seedUserAndBranch(userRepo, branchRepo)
	p, base := seedProduct(productRepo, branch.ID, "Detergente", "779010", 5, 25)

	_, err := svc.CreateSale(context.Background(), user.ID, dto.CreateSaleRequest{
		BranchID:      branch.ID.String(),
		PaymentMethod: "cheque",
		Items:         []dto.SaleLineRequest{saleLine(p.ID, base.ID, 1, 1, 25)},
	})
	assert.ErrorContains(t, err, "método de pago")
}
