package repository

import (
	"context"

	"tiendapos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SupplierRepository interface {
	Create(ctx context.Context, s *model.Supplier) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Supplier, error)
	// FindActiveMatch resolves a supplier by exact name, or by name OR
	// tax id when taxID is non-empty.
	FindActiveMatch(ctx context.Context, businessID uuid.UUID, name, taxID string) (*model.Supplier, error)
	List(ctx context.Context, businessID uuid.UUID) ([]model.Supplier, error)
	Update(ctx context.Context, s *model.Supplier) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
}

type supplierRepo struct{ db *gorm.DB }

func NewSupplierRepository(db *gorm.DB) SupplierRepository { return &supplierRepo{db: db} }

func (r *supplierRepo) Create(ctx context.Context, s *model.Supplier) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *supplierRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Supplier, error) {
	var s model.Supplier
	err := r.db.WithContext(ctx).First(&s, "id = ?", id).Error
	return &s, err
}

func (r *supplierRepo) FindActiveMatch(ctx context.Context, businessID uuid.UUID, name, taxID string) (*model.Supplier, error) {
	var s model.Supplier
	q := r.db.WithContext(ctx).Where("business_id = ? AND active = ?", businessID, true)
	if taxID != "" {
		q = q.Where("name = ? OR tax_id = ?", name, taxID)
	} else {
		q = q.Where("name = ?", name)
	}
	err := q.First(&s).Error
	return &s, err
}

func (r *supplierRepo) List(ctx context.Context, businessID uuid.UUID) ([]model.Supplier, error) {
	var suppliers []model.Supplier
	err := r.db.WithContext(ctx).
		Where("business_id = ? AND active = ?", businessID, true).
		Order("name ASC").
		Find(&suppliers).Error
	return suppliers, err
}

func (r *supplierRepo) Update(ctx context.Context, s *model.Supplier) error {
	return r.db.WithContext(ctx).Save(s).Error
}

func (r *supplierRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Supplier{}).Where("id = ?", id).Update("active", false).Error
}
