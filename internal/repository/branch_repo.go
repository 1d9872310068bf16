package repository

import (
	"context"

	"tiendapos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BranchRepository interface {
	Create(ctx context.Context, b *model.Branch) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Branch, error)
	FirstByBusiness(ctx context.Context, businessID uuid.UUID) (*model.Branch, error)

	FindBusinessByID(ctx context.Context, id uuid.UUID) (*model.Business, error)
	CreateBusiness(ctx context.Context, b *model.Business) error
}

type branchRepo struct{ db *gorm.DB }

func NewBranchRepository(db *gorm.DB) BranchRepository { return &branchRepo{db: db} }

func (r *branchRepo) Create(ctx context.Context, b *model.Branch) error {
	return r.db.WithContext(ctx).Create(b).Error
}

func (r *branchRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Branch, error) {
	var b model.Branch
	err := r.db.WithContext(ctx).First(&b, "id = ?", id).Error
	return &b, err
}

func (r *branchRepo) FirstByBusiness(ctx context.Context, businessID uuid.UUID) (*model.Branch, error) {
	var b model.Branch
	err := r.db.WithContext(ctx).
		Where("business_id = ? AND active = ?", businessID, true).
		Order("created_at ASC").
		First(&b).Error
	return &b, err
}

func (r *branchRepo) FindBusinessByID(ctx context.Context, id uuid.UUID) (*model.Business, error) {
	var b model.Business
	err := r.db.WithContext(ctx).First(&b, "id = ?", id).Error
	return &b, err
}

func (r *branchRepo) CreateBusiness(ctx context.Context, b *model.Business) error {
	return r.db.WithContext(ctx).Create(b).Error
}
