package service_test

import (
	"context"

	"tiendapos/internal/dto"
	"tiendapos/internal/model"
	"tiendapos/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ── Stubs ─────────────────────────────────────────────────────────────────────
// In-memory repository implementations. They return gorm.ErrRecordNotFound
// for misses so the services' errors.Is checks behave as in production.
// DB() returns nil, which makes runTx call the body directly (no real tx).

type stubProductRepo struct {
	products      map[uuid.UUID]*model.Product
	presentations map[uuid.UUID]*model.ProductPresentation
}

func newStubProductRepo() *stubProductRepo {
	return &stubProductRepo{
		products:      make(map[uuid.UUID]*model.Product),
		presentations: make(map[uuid.UUID]*model.ProductPresentation),
	}
}

func (r *stubProductRepo) DB() *gorm.DB { return nil }

func (r *stubProductRepo) Create(_ context.Context, p *model.Product) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.products[p.ID] = p
	return nil
}

func (r *stubProductRepo) CreateTx(_ *gorm.DB, p *model.Product) error {
	return r.Create(context.Background(), p)
}

func (r *stubProductRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (r *stubProductRepo) FindByIDs(_ context.Context, ids []uuid.UUID) ([]model.Product, error) {
	var out []model.Product
	for _, id := range ids {
		if p, ok := r.products[id]; ok {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *stubProductRepo) FindActiveByName(_ context.Context, branchID uuid.UUID, name string) (*model.Product, error) {
	for _, p := range r.products {
		if p.BranchID == branchID && p.Active && p.Name == name {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubProductRepo) FindActiveByBarcode(_ context.Context, branchID uuid.UUID, barcode string) (*model.Product, error) {
	for _, p := range r.products {
		if p.BranchID == branchID && p.Active && p.Barcode == barcode {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubProductRepo) List(_ context.Context, filter dto.ProductFilter) ([]model.Product, int64, error) {
	var out []model.Product
	for _, p := range r.products {
		switch filter.Active {
		case "all":
		case "false":
			if p.Active {
				continue
			}
		default:
			if !p.Active {
				continue
			}
		}
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (r *stubProductRepo) Update(_ context.Context, p *model.Product) error {
	r.products[p.ID] = p
	return nil
}

func (r *stubProductRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	if p, ok := r.products[id]; ok {
		p.Active = false
	}
	return nil
}

func (r *stubProductRepo) SetStockTx(_ *gorm.DB, id uuid.UUID, stock int) error {
	p, ok := r.products[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.Stock = stock
	return nil
}

func (r *stubProductRepo) ActivateTx(_ *gorm.DB, id uuid.UUID) error {
	p, ok := r.products[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.Active = true
	return nil
}

func (r *stubProductRepo) FindByIDTx(_ *gorm.DB, id uuid.UUID) (*model.Product, error) {
	return r.FindByID(context.Background(), id)
}

func (r *stubProductRepo) FindPresentationByIDTx(_ *gorm.DB, id uuid.UUID) (*model.ProductPresentation, error) {
	return r.FindPresentationByID(context.Background(), id)
}

func (r *stubProductRepo) CreatePresentation(_ context.Context, p *model.ProductPresentation) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.presentations[p.ID] = p
	return nil
}

func (r *stubProductRepo) CreatePresentationTx(_ *gorm.DB, p *model.ProductPresentation) error {
	return r.CreatePresentation(context.Background(), p)
}

func (r *stubProductRepo) FindPresentationByID(_ context.Context, id uuid.UUID) (*model.ProductPresentation, error) {
	p, ok := r.presentations[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (r *stubProductRepo) FindPresentationsByIDs(_ context.Context, ids []uuid.UUID) ([]model.ProductPresentation, error) {
	var out []model.ProductPresentation
	for _, id := range ids {
		if p, ok := r.presentations[id]; ok {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *stubProductRepo) FindBasePresentation(_ context.Context, productID uuid.UUID) (*model.ProductPresentation, error) {
	for _, p := range r.presentations {
		if p.ProductID == productID && p.Variant == model.BaseVariant {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubProductRepo) ListPresentations(_ context.Context, productID uuid.UUID) ([]model.ProductPresentation, error) {
	var out []model.ProductPresentation
	for _, p := range r.presentations {
		if p.ProductID == productID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *stubProductRepo) UpdatePresentation(_ context.Context, p *model.ProductPresentation) error {
	r.presentations[p.ID] = p
	return nil
}

func (r *stubProductRepo) UpdatePresentationPrice(_ context.Context, id uuid.UUID, price decimal.Decimal) error {
	p, ok := r.presentations[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	v := price
	p.Price = &v
	return nil
}

func (r *stubProductRepo) ActivatePresentationsTx(_ *gorm.DB, productID uuid.UUID) error {
	for _, p := range r.presentations {
		if p.ProductID == productID {
			p.Active = true
		}
	}
	return nil
}

func (r *stubProductRepo) DeactivatePresentation(_ context.Context, id uuid.UUID) error {
	if p, ok := r.presentations[id]; ok {
		p.Active = false
	}
	return nil
}

var _ repository.ProductRepository = (*stubProductRepo)(nil)

// stubSaleRepo captures created sales; failCreate forces the write inside
// the sale transaction to fail.
type stubSaleRepo struct {
	sales      map[uuid.UUID]*model.Sale
	failCreate error
}

func newStubSaleRepo() *stubSaleRepo {
	return &stubSaleRepo{sales: make(map[uuid.UUID]*model.Sale)}
}

func (r *stubSaleRepo) DB() *gorm.DB { return nil }

func (r *stubSaleRepo) Create(_ context.Context, _ *gorm.DB, s *model.Sale) error {
	if r.failCreate != nil {
		return r.failCreate
	}
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	r.sales[s.ID] = s
	return nil
}

func (r *stubSaleRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Sale, error) {
	s, ok := r.sales[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return s, nil
}

func (r *stubSaleRepo) List(_ context.Context, _ dto.SaleFilter) ([]model.Sale, int64, error) {
	var out []model.Sale
	for _, s := range r.sales {
		out = append(out, *s)
	}
	return out, int64(len(out)), nil
}

var _ repository.SaleRepository = (*stubSaleRepo)(nil)

type stubPurchaseRepo struct {
	purchases map[uuid.UUID]*model.Purchase
}

func newStubPurchaseRepo() *stubPurchaseRepo {
	return &stubPurchaseRepo{purchases: make(map[uuid.UUID]*model.Purchase)}
}

func (r *stubPurchaseRepo) DB() *gorm.DB { return nil }

func (r *stubPurchaseRepo) Create(_ context.Context, _ *gorm.DB, p *model.Purchase) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.purchases[p.ID] = p
	return nil
}

func (r *stubPurchaseRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Purchase, error) {
	p, ok := r.purchases[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (r *stubPurchaseRepo) FindByIDTx(_ *gorm.DB, id uuid.UUID) (*model.Purchase, error) {
	return r.FindByID(context.Background(), id)
}

func (r *stubPurchaseRepo) UpdateTx(_ *gorm.DB, p *model.Purchase) error {
	r.purchases[p.ID] = p
	return nil
}

func (r *stubPurchaseRepo) List(_ context.Context, filter dto.PurchaseFilter) ([]model.Purchase, int64, error) {
	var out []model.Purchase
	for _, p := range r.purchases {
		if filter.Status != "" && filter.Status != "all" && p.Status != filter.Status {
			continue
		}
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

var _ repository.PurchaseRepository = (*stubPurchaseRepo)(nil)

type stubSupplierRepo struct {
	suppliers map[uuid.UUID]*model.Supplier
}

func newStubSupplierRepo() *stubSupplierRepo {
	return &stubSupplierRepo{suppliers: make(map[uuid.UUID]*model.Supplier)}
}

func (r *stubSupplierRepo) Create(_ context.Context, s *model.Supplier) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	s.Active = true
	r.suppliers[s.ID] = s
	return nil
}

func (r *stubSupplierRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Supplier, error) {
	s, ok := r.suppliers[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return s, nil
}

func (r *stubSupplierRepo) FindActiveMatch(_ context.Context, businessID uuid.UUID, name, taxID string) (*model.Supplier, error) {
	for _, s := range r.suppliers {
		if s.BusinessID != businessID || !s.Active {
			continue
		}
		if s.Name == name || (taxID != "" && s.TaxID == taxID) {
			return s, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubSupplierRepo) List(_ context.Context, businessID uuid.UUID) ([]model.Supplier, error) {
	var out []model.Supplier
	for _, s := range r.suppliers {
		if s.BusinessID == businessID && s.Active {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (r *stubSupplierRepo) Update(_ context.Context, s *model.Supplier) error {
	r.suppliers[s.ID] = s
	return nil
}

func (r *stubSupplierRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	if s, ok := r.suppliers[id]; ok {
		s.Active = false
	}
	return nil
}

var _ repository.SupplierRepository = (*stubSupplierRepo)(nil)

type stubSessionRepo struct {
	sessions map[uuid.UUID]*model.WorkSession
}

func newStubSessionRepo() *stubSessionRepo {
	return &stubSessionRepo{sessions: make(map[uuid.UUID]*model.WorkSession)}
}

func (r *stubSessionRepo) Create(_ context.Context, s *model.WorkSession) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	r.sessions[s.ID] = s
	return nil
}

func (r *stubSessionRepo) FindOpen(_ context.Context, userID, branchID uuid.UUID) (*model.WorkSession, error) {
	for _, s := range r.sessions {
		if s.UserID == userID && s.BranchID == branchID && s.Open() {
			return s, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubSessionRepo) FindOpenByUser(_ context.Context, userID uuid.UUID) ([]model.WorkSession, error) {
	var out []model.WorkSession
	for _, s := range r.sessions {
		if s.UserID == userID && s.Open() {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (r *stubSessionRepo) FindByID(_ context.Context, id uuid.UUID) (*model.WorkSession, error) {
	s, ok := r.sessions[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return s, nil
}

func (r *stubSessionRepo) Save(_ context.Context, s *model.WorkSession) error {
	r.sessions[s.ID] = s
	return nil
}

var _ repository.SessionRepository = (*stubSessionRepo)(nil)

type stubUserRepo struct {
	users       map[uuid.UUID]*model.User
	memberships map[string]*model.BranchUser
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{
		users:       make(map[uuid.UUID]*model.User),
		memberships: make(map[string]*model.BranchUser),
	}
}

func membershipKey(branchID, userID uuid.UUID) string {
	return branchID.String() + "/" + userID.String()
}

func (r *stubUserRepo) Create(_ context.Context, u *model.User) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	r.users[u.ID] = u
	return nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*model.User, error) {
	for _, u := range r.users {
		if u.Username == username && u.Active {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubUserRepo) Update(_ context.Context, u *model.User) error {
	r.users[u.ID] = u
	return nil
}

func (r *stubUserRepo) AddBonus(_ context.Context, branchID, userID uuid.UUID, amount decimal.Decimal) error {
	key := membershipKey(branchID, userID)
	m, ok := r.memberships[key]
	if !ok {
		m = &model.BranchUser{ID: uuid.New(), BranchID: branchID, UserID: userID}
		r.memberships[key] = m
	}
	m.AccruedBonus = m.AccruedBonus.Add(amount)
	return nil
}

var _ repository.UserRepository = (*stubUserRepo)(nil)

type stubBranchRepo struct {
	branches   map[uuid.UUID]*model.Branch
	businesses map[uuid.UUID]*model.Business
}

func newStubBranchRepo() *stubBranchRepo {
	return &stubBranchRepo{
		branches:   make(map[uuid.UUID]*model.Branch),
		businesses: make(map[uuid.UUID]*model.Business),
	}
}

func (r *stubBranchRepo) Create(_ context.Context, b *model.Branch) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	r.branches[b.ID] = b
	return nil
}

func (r *stubBranchRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Branch, error) {
	b, ok := r.branches[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return b, nil
}

func (r *stubBranchRepo) FirstByBusiness(_ context.Context, businessID uuid.UUID) (*model.Branch, error) {
	for _, b := range r.branches {
		if b.BusinessID == businessID && b.Active {
			return b, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubBranchRepo) FindBusinessByID(_ context.Context, id uuid.UUID) (*model.Business, error) {
	b, ok := r.businesses[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return b, nil
}

func (r *stubBranchRepo) CreateBusiness(_ context.Context, b *model.Business) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	r.businesses[b.ID] = b
	return nil
}

var _ repository.BranchRepository = (*stubBranchRepo)(nil)

// ── Seed helpers ──────────────────────────────────────────────────────────────

func seedProduct(repo *stubProductRepo, branchID uuid.UUID, name, barcode string, stock int, price float64) (*model.Product, *model.ProductPresentation) {
	p := &model.Product{
		ID:       uuid.New(),
		BranchID: branchID,
		Name:     name,
		Barcode:  barcode,
		Stock:    stock,
		Price:    decimal.NewFromFloat(price),
		Active:   true,
	}
	repo.products[p.ID] = p

	priceCopy := p.Price
	base := &model.ProductPresentation{
		ID:        uuid.New(),
		ProductID: p.ID,
		Variant:   model.BaseVariant,
		Units:     1,
		Price:     &priceCopy,
		Active:    true,
	}
	repo.presentations[base.ID] = base
	return p, base
}

func seedPresentation(repo *stubProductRepo, productID uuid.UUID, variant string, units int, price float64) *model.ProductPresentation {
	v := decimal.NewFromFloat(price)
	p := &model.ProductPresentation{
		ID:        uuid.New(),
		ProductID: productID,
		Variant:   variant,
		Units:     units,
		Price:     &v,
		Active:    true,
	}
	repo.presentations[p.ID] = p
	return p
}

func seedUserAndBranch(users *stubUserRepo, branches *stubBranchRepo) (*model.User, *model.Branch) {
	businessID := uuid.New()
	branches.businesses[businessID] = &model.Business{
		ID:       businessID,
		Name:     "Tienda Demo",
		TaxID:    "30-70000000-3",
		Location: "Av. Rivadavia 1234",
	}
	branch := &model.Branch{ID: uuid.New(), BusinessID: businessID, Name: "Principal", Active: true}
	branches.branches[branch.ID] = branch

	user := &model.User{
		ID:         uuid.New(),
		BusinessID: businessID,
		Username:   "cajero@demo",
		Name:       "Cajero Demo",
		Role:       "cashier",
		Active:     true,
	}
	users.users[user.ID] = user
	return user, branch
}
