package service

import (
	"context"
	"errors"
	"time"

	"tiendapos/internal/dto"
	"tiendapos/internal/model"
	"tiendapos/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ResolveOutcome tags the result of ResolveProduct so callers handle the
// not-found fallback (placeholder creation) as an explicit case instead of
// a nil check.
type ResolveOutcome int

const (
	ResolveFound ResolveOutcome = iota
	ResolveCreated
	ResolveNotFound
)

// ProductInput carries the catalog fields purchasing supplies when
// resolving or creating a product.
type ProductInput struct {
	Name         string
	Brand        string
	Barcode      string
	Cost         decimal.Decimal
	Price        decimal.Decimal
	Bonification decimal.Decimal
	Expiration   string
	CreatedBy    *uuid.UUID
}

// CatalogService owns products, presentations and suppliers: the
// find-or-create semantics used by purchasing, the presentation integrity
// checks used by sales, and the catalog CRUD surface.
type CatalogService interface {
	// FindPresentationForSaleLine fails with ErrPresentationMismatch when
	// the presentation's owning product is not productID.
	FindPresentationForSaleLine(ctx context.Context, productID, presentationID uuid.UUID) (*model.ProductPresentation, error)

	// ResolveProduct looks up an active product in the branch by barcode
	// (when supplied) or exact name, updates its pricing on a hit, and
	// returns the id of its base-unit presentation. When no product
	// matches it either creates one (createIfMissing) or reports
	// ResolveNotFound and lets the caller decide.
	ResolveProduct(ctx context.Context, branchID uuid.UUID, in ProductInput, createIfMissing bool) (ResolveOutcome, uuid.UUID, error)

	// CreatePlaceholder creates an inactive product and its inactive
	// base-unit presentation, reserving a stable presentation id for a
	// not-yet-received purchase-order line.
	CreatePlaceholder(ctx context.Context, branchID uuid.UUID, in ProductInput) (uuid.UUID, error)

	FindOrCreateSupplier(ctx context.Context, businessID uuid.UUID, name, taxID string) (uuid.UUID, error)

	// Catalog surface
	Create(ctx context.Context, req dto.CreateProductRequest) (*dto.ProductResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.ProductResponse, error)
	List(ctx context.Context, filter dto.ProductFilter) (*dto.ProductListResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateProductRequest) (*dto.ProductResponse, error)
	Deactivate(ctx context.Context, id uuid.UUID) error

	AddPresentation(ctx context.Context, productID uuid.UUID, req dto.AddPresentationRequest) (*dto.PresentationResponse, error)
	UpdatePresentation(ctx context.Context, id uuid.UUID, req dto.UpdatePresentationRequest) (*dto.PresentationResponse, error)
	RemovePresentation(ctx context.Context, id uuid.UUID) error
}

type catalogService struct {
	products  repository.ProductRepository
	suppliers repository.SupplierRepository
}

func NewCatalogService(products repository.ProductRepository, suppliers repository.SupplierRepository) CatalogService {
	return &catalogService{products: products, suppliers: suppliers}
}

// ── Sale-line integrity ───────────────────────────────────────────────────────

func (s *catalogService) FindPresentationForSaleLine(ctx context.Context, productID, presentationID uuid.UUID) (*model.ProductPresentation, error) {
	p, err := s.products.FindPresentationByID(ctx, presentationID)
	if err != nil {
		return nil, ErrPresentationMissing
	}
	if p.ProductID != productID {
		return nil, ErrPresentationMismatch
	}
	return p, nil
}

// ── Find-or-create product ────────────────────────────────────────────────────

func (s *catalogService) ResolveProduct(ctx context.Context, branchID uuid.UUID, in ProductInput, createIfMissing bool) (ResolveOutcome, uuid.UUID, error) {
	existing, err := s.lookupActive(ctx, branchID, in)
	switch {
	case err == nil:
		presID, err := s.refreshExisting(ctx, existing, in)
		if err != nil {
			return ResolveFound, uuid.Nil, err
		}
		return ResolveFound, presID, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		// fall through
	default:
		return ResolveNotFound, uuid.Nil, err
	}

	if !createIfMissing {
		return ResolveNotFound, uuid.Nil, nil
	}

	presID, err := s.createWithBase(ctx, branchID, in, true)
	if err != nil {
		return ResolveNotFound, uuid.Nil, err
	}
	return ResolveCreated, presID, nil
}

// lookupActive matches by barcode first when one is supplied, then by
// exact name.
func (s *catalogService) lookupActive(ctx context.Context, branchID uuid.UUID, in ProductInput) (*model.Product, error) {
	if in.Barcode != "" {
		p, err := s.products.FindActiveByBarcode(ctx, branchID, in.Barcode)
		if err == nil {
			return p, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}
	return s.products.FindActiveByName(ctx, branchID, in.Name)
}

// refreshExisting updates cost, price and expiration on a matched product
// and propagates the new price to its base presentation, creating that
// presentation if it was somehow missing.
func (s *catalogService) refreshExisting(ctx context.Context, p *model.Product, in ProductInput) (uuid.UUID, error) {
	p.Cost = in.Cost
	p.Price = in.Price
	if exp := parseExpiration(in.Expiration); exp != nil {
		p.Expiration = exp
	}
	if err := s.products.Update(ctx, p); err != nil {
		return uuid.Nil, err
	}

	base, err := s.products.FindBasePresentation(ctx, p.ID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		base = &model.ProductPresentation{
			ProductID: p.ID,
			Variant:   model.BaseVariant,
			Units:     1,
			Price:     &in.Price,
			Active:    p.Active,
		}
		if err := s.products.CreatePresentation(ctx, base); err != nil {
			return uuid.Nil, err
		}
		return base.ID, nil
	}
	if err != nil {
		return uuid.Nil, err
	}
	if err := s.products.UpdatePresentationPrice(ctx, base.ID, in.Price); err != nil {
		return uuid.Nil, err
	}
	return base.ID, nil
}

// createWithBase creates the product and its base-unit presentation in one
// transaction and returns the presentation id.
func (s *catalogService) createWithBase(ctx context.Context, branchID uuid.UUID, in ProductInput, active bool) (uuid.UUID, error) {
	product := &model.Product{
		BranchID:     branchID,
		Name:         in.Name,
		Brand:        in.Brand,
		Barcode:      in.Barcode,
		Cost:         in.Cost,
		Price:        in.Price,
		Stock:        0,
		Bonification: in.Bonification,
		Expiration:   parseExpiration(in.Expiration),
		Active:       active,
		CreatedBy:    in.CreatedBy,
	}
	base := &model.ProductPresentation{
		Variant: model.BaseVariant,
		Units:   1,
		Price:   &in.Price,
		Active:  active,
	}

	err := runTx(ctx, s.products.DB(), func(tx *gorm.DB) error {
		if err := s.products.CreateTx(tx, product); err != nil {
			return err
		}
		base.ProductID = product.ID
		return s.products.CreatePresentationTx(tx, base)
	})
	if err != nil {
		return uuid.Nil, err
	}
	return base.ID, nil
}

func (s *catalogService) CreatePlaceholder(ctx context.Context, branchID uuid.UUID, in ProductInput) (uuid.UUID, error) {
	return s.createWithBase(ctx, branchID, in, false)
}

// parseExpiration accepts a bare YYYY-MM-DD date (UTC midnight) or a full
// RFC 3339 timestamp. Anything else is stored as absent, never an error.
func parseExpiration(s string) *time.Time {
	if s == "" {
		return nil
	}
	if t, err := time.ParseInLocation("2006-01-02", s, time.UTC); err == nil {
		return &t
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return &t
	}
	return nil
}

// ── Suppliers ─────────────────────────────────────────────────────────────────

func (s *catalogService) FindOrCreateSupplier(ctx context.Context, businessID uuid.UUID, name, taxID string) (uuid.UUID, error) {
	existing, err := s.suppliers.FindActiveMatch(ctx, businessID, name, taxID)
	if err == nil {
		return existing.ID, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return uuid.Nil, err
	}

	supplier := &model.Supplier{
		BusinessID: businessID,
		Name:       name,
		TaxID:      taxID,
	}
	if err := s.suppliers.Create(ctx, supplier); err != nil {
		return uuid.Nil, err
	}
	return supplier.ID, nil
}

// ── Catalog surface ───────────────────────────────────────────────────────────

func (s *catalogService) Create(ctx context.Context, req dto.CreateProductRequest) (*dto.ProductResponse, error) {
	branchID, err := uuid.Parse(req.BranchID)
	if err != nil {
		return nil, ErrBranchNotFound
	}

	product := &model.Product{
		BranchID:     branchID,
		Name:         req.Name,
		Brand:        req.Brand,
		Barcode:      req.Barcode,
		SKU:          req.SKU,
		Cost:         req.Cost,
		Price:        req.Price,
		Stock:        req.Stock,
		Bonification: req.Bonification,
		Expiration:   parseExpiration(req.Expiration),
		Active:       true,
	}
	base := &model.ProductPresentation{
		Variant: model.BaseVariant,
		Units:   1,
		Price:   &req.Price,
		Active:  true,
	}
	err = runTx(ctx, s.products.DB(), func(tx *gorm.DB) error {
		if err := s.products.CreateTx(tx, product); err != nil {
			return err
		}
		base.ProductID = product.ID
		return s.products.CreatePresentationTx(tx, base)
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, product.ID)
}

func (s *catalogService) Get(ctx context.Context, id uuid.UUID) (*dto.ProductResponse, error) {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, ErrProductNotFound
	}
	presentations, err := s.products.ListPresentations(ctx, id)
	if err != nil {
		return nil, err
	}
	return productToResponse(product, presentations), nil
}

func (s *catalogService) List(ctx context.Context, filter dto.ProductFilter) (*dto.ProductListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	products, total, err := s.products.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(products))
	for i := range products {
		items = append(items, *productToResponse(&products[i], nil))
	}
	return &dto.ProductListResponse{Data: items, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func (s *catalogService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, ErrProductNotFound
	}

	if req.Name != nil {
		product.Name = *req.Name
	}
	if req.Brand != nil {
		product.Brand = *req.Brand
	}
	if req.Barcode != nil {
		product.Barcode = *req.Barcode
	}
	if req.SKU != nil {
		product.SKU = *req.SKU
	}
	if req.Cost != nil {
		product.Cost = *req.Cost
	}
	if req.Bonification != nil {
		product.Bonification = *req.Bonification
	}
	if req.Expiration != nil {
		product.Expiration = parseExpiration(*req.Expiration)
	}

	priceChanged := req.Price != nil && !req.Price.Equal(product.Price)
	if req.Price != nil {
		product.Price = *req.Price
	}

	if err := s.products.Update(ctx, product); err != nil {
		return nil, err
	}

	// The base presentation's price always mirrors the product base price.
	if priceChanged {
		base, err := s.products.FindBasePresentation(ctx, id)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			base = &model.ProductPresentation{
				ProductID: id,
				Variant:   model.BaseVariant,
				Units:     1,
				Price:     req.Price,
				Active:    product.Active,
			}
			if err := s.products.CreatePresentation(ctx, base); err != nil {
				return nil, err
			}
		} else if err != nil {
			return nil, err
		} else if err := s.products.UpdatePresentationPrice(ctx, base.ID, *req.Price); err != nil {
			return nil, err
		}
	}

	return s.Get(ctx, id)
}

func (s *catalogService) Deactivate(ctx context.Context, id uuid.UUID) error {
	return s.products.SoftDelete(ctx, id)
}

// ── Presentations ─────────────────────────────────────────────────────────────

func (s *catalogService) AddPresentation(ctx context.Context, productID uuid.UUID, req dto.AddPresentationRequest) (*dto.PresentationResponse, error) {
	if req.Variant == model.BaseVariant {
		return nil, ErrBasePresentation
	}
	if _, err := s.products.FindByID(ctx, productID); err != nil {
		return nil, ErrProductNotFound
	}
	p := &model.ProductPresentation{
		ProductID: productID,
		Variant:   req.Variant,
		Units:     req.Units,
		Price:     req.Price,
		Active:    true,
	}
	if err := s.products.CreatePresentation(ctx, p); err != nil {
		return nil, err
	}
	resp := presentationToResponse(p)
	return &resp, nil
}

func (s *catalogService) UpdatePresentation(ctx context.Context, id uuid.UUID, req dto.UpdatePresentationRequest) (*dto.PresentationResponse, error) {
	p, err := s.products.FindPresentationByID(ctx, id)
	if err != nil {
		return nil, ErrPresentationMissing
	}
	if p.IsBase() {
		return nil, ErrBasePresentation
	}
	if req.Variant != nil {
		if *req.Variant == model.BaseVariant {
			return nil, ErrBasePresentation
		}
		p.Variant = *req.Variant
	}
	if req.Units != nil {
		p.Units = *req.Units
	}
	if req.Price != nil {
		p.Price = req.Price
	}
	if err := s.products.UpdatePresentation(ctx, p); err != nil {
		return nil, err
	}
	resp := presentationToResponse(p)
	return &resp, nil
}

func (s *catalogService) RemovePresentation(ctx context.Context, id uuid.UUID) error {
	p, err := s.products.FindPresentationByID(ctx, id)
	if err != nil {
		return ErrPresentationMissing
	}
	if p.IsBase() {
		return ErrBasePresentation
	}
	return s.products.DeactivatePresentation(ctx, id)
}

// ── Mapping ───────────────────────────────────────────────────────────────────

func productToResponse(p *model.Product, presentations []model.ProductPresentation) *dto.ProductResponse {
	resp := &dto.ProductResponse{
		ID:           p.ID.String(),
		BranchID:     p.BranchID.String(),
		Name:         p.Name,
		Brand:        p.Brand,
		Barcode:      p.Barcode,
		SKU:          p.SKU,
		Cost:         p.Cost,
		Price:        p.Price,
		Stock:        p.Stock,
		Bonification: p.Bonification,
		Active:       p.Active,
	}
	if p.Expiration != nil {
		exp := p.Expiration.Format("2006-01-02")
		resp.Expiration = &exp
	}
	// Additional presentations only — the reserved base-unit row is never
	// listed here.
	for i := range presentations {
		if presentations[i].IsBase() {
			continue
		}
		resp.Presentations = append(resp.Presentations, presentationToResponse(&presentations[i]))
	}
	return resp
}

func presentationToResponse(p *model.ProductPresentation) dto.PresentationResponse {
	return dto.PresentationResponse{
		ID:      p.ID.String(),
		Variant: p.Variant,
		Units:   p.Units,
		Price:   p.Price,
		Active:  p.Active,
	}
}
