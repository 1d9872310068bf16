package repository

import (
	"context"

	"tiendapos/internal/dto"
	"tiendapos/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ProductRepository defines the data access contract for products and
// their presentations. Services depend on this interface, not on the
// concrete GORM implementation, enabling unit testing via stubs.
type ProductRepository interface {
	Create(ctx context.Context, p *model.Product) error
	CreateTx(tx *gorm.DB, p *model.Product) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Product, error)
	FindActiveByName(ctx context.Context, branchID uuid.UUID, name string) (*model.Product, error)
	FindActiveByBarcode(ctx context.Context, branchID uuid.UUID, barcode string) (*model.Product, error)
	List(ctx context.Context, filter dto.ProductFilter) ([]model.Product, int64, error)
	Update(ctx context.Context, p *model.Product) error
	SoftDelete(ctx context.Context, id uuid.UUID) error

	// Used inside transactions — callers must pass the tx instance. The
	// database pool allows a single connection, so a read through the base
	// handle would block behind an open transaction.
	FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Product, error)
	FindPresentationByIDTx(tx *gorm.DB, id uuid.UUID) (*model.ProductPresentation, error)
	SetStockTx(tx *gorm.DB, id uuid.UUID, stock int) error
	ActivateTx(tx *gorm.DB, id uuid.UUID) error

	// Presentations
	CreatePresentation(ctx context.Context, p *model.ProductPresentation) error
	CreatePresentationTx(tx *gorm.DB, p *model.ProductPresentation) error
	FindPresentationByID(ctx context.Context, id uuid.UUID) (*model.ProductPresentation, error)
	FindPresentationsByIDs(ctx context.Context, ids []uuid.UUID) ([]model.ProductPresentation, error)
	FindBasePresentation(ctx context.Context, productID uuid.UUID) (*model.ProductPresentation, error)
	ListPresentations(ctx context.Context, productID uuid.UUID) ([]model.ProductPresentation, error)
	UpdatePresentation(ctx context.Context, p *model.ProductPresentation) error
	UpdatePresentationPrice(ctx context.Context, id uuid.UUID, price decimal.Decimal) error
	ActivatePresentationsTx(tx *gorm.DB, productID uuid.UUID) error
	DeactivatePresentation(ctx context.Context, id uuid.UUID) error

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type productRepo struct{ db *gorm.DB }

func NewProductRepository(db *gorm.DB) ProductRepository { return &productRepo{db: db} }

func (r *productRepo) DB() *gorm.DB { return r.db }

func (r *productRepo) Create(ctx context.Context, p *model.Product) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *productRepo) CreateTx(tx *gorm.DB, p *model.Product) error {
	return tx.Create(p).Error
}

func (r *productRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error
	return &p, err
}

func (r *productRepo) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Product, error) {
	var products []model.Product
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&products).Error
	return products, err
}

func (r *productRepo) FindActiveByName(ctx context.Context, branchID uuid.UUID, name string) (*model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).
		Where("branch_id = ? AND name = ? AND active = ?", branchID, name, true).
		First(&p).Error
	return &p, err
}

func (r *productRepo) FindActiveByBarcode(ctx context.Context, branchID uuid.UUID, barcode string) (*model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).
		Where("branch_id = ? AND barcode = ? AND active = ?", branchID, barcode, true).
		First(&p).Error
	return &p, err
}

func (r *productRepo) List(ctx context.Context, filter dto.ProductFilter) ([]model.Product, int64, error) {
	var products []model.Product
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Product{})

	if filter.BranchID != "" {
		q = q.Where("branch_id = ?", filter.BranchID)
	}

	// Active filter: "false" = inactive, "all" = everything, default = active only.
	// Placeholder products stay hidden from the default catalog listing.
	switch filter.Active {
	case "false":
		q = q.Where("active = ?", false)
	case "all":
		// no filter
	default:
		q = q.Where("active = ?", true)
	}

	if filter.Barcode != "" {
		q = q.Where("barcode = ?", filter.Barcode)
	}
	if filter.Search != "" {
		q = q.Where("name LIKE ?", "%"+filter.Search+"%")
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Order("name ASC").Limit(filter.Limit).Offset(offset).Find(&products).Error
	return products, total, err
}

func (r *productRepo) Update(ctx context.Context, p *model.Product) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *productRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Product{}).Where("id = ?", id).Update("active", false).Error
}

func (r *productRepo) FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Product, error) {
	var p model.Product
	err := tx.First(&p, "id = ?", id).Error
	return &p, err
}

func (r *productRepo) FindPresentationByIDTx(tx *gorm.DB, id uuid.UUID) (*model.ProductPresentation, error) {
	var p model.ProductPresentation
	err := tx.First(&p, "id = ?", id).Error
	return &p, err
}

func (r *productRepo) SetStockTx(tx *gorm.DB, id uuid.UUID, stock int) error {
	return tx.Model(&model.Product{}).Where("id = ?", id).Update("stock", stock).Error
}

func (r *productRepo) ActivateTx(tx *gorm.DB, id uuid.UUID) error {
	return tx.Model(&model.Product{}).Where("id = ?", id).Update("active", true).Error
}

func (r *productRepo) CreatePresentation(ctx context.Context, p *model.ProductPresentation) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *productRepo) CreatePresentationTx(tx *gorm.DB, p *model.ProductPresentation) error {
	return tx.Create(p).Error
}

func (r *productRepo) FindPresentationByID(ctx context.Context, id uuid.UUID) (*model.ProductPresentation, error) {
	var p model.ProductPresentation
	err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error
	return &p, err
}

func (r *productRepo) FindPresentationsByIDs(ctx context.Context, ids []uuid.UUID) ([]model.ProductPresentation, error) {
	var presentations []model.ProductPresentation
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&presentations).Error
	return presentations, err
}

func (r *productRepo) FindBasePresentation(ctx context.Context, productID uuid.UUID) (*model.ProductPresentation, error) {
	var p model.ProductPresentation
	err := r.db.WithContext(ctx).
		Where("product_id = ? AND variant = ?", productID, model.BaseVariant).
		First(&p).Error
	return &p, err
}

func (r *productRepo) ListPresentations(ctx context.Context, productID uuid.UUID) ([]model.ProductPresentation, error) {
	var presentations []model.ProductPresentation
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("units ASC").
		Find(&presentations).Error
	return presentations, err
}

func (r *productRepo) UpdatePresentation(ctx context.Context, p *model.ProductPresentation) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *productRepo) UpdatePresentationPrice(ctx context.Context, id uuid.UUID, price decimal.Decimal) error {
	return r.db.WithContext(ctx).Model(&model.ProductPresentation{}).
		Where("id = ?", id).Update("price", price).Error
}

func (r *productRepo) ActivatePresentationsTx(tx *gorm.DB, productID uuid.UUID) error {
	return tx.Model(&model.ProductPresentation{}).
		Where("product_id = ?", productID).Update("active", true).Error
}

func (r *productRepo) DeactivatePresentation(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.ProductPresentation{}).
		Where("id = ?", id).Update("active", false).Error
}
