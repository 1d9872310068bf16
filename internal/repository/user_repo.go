package repository

import (
	"context"

	"tiendapos/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type UserRepository interface {
	Create(ctx context.Context, u *model.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	Update(ctx context.Context, u *model.User) error

	// AddBonus increments the cashier's accrued bonification on the
	// (branch, user) membership row, creating it on first accrual.
	AddBonus(ctx context.Context, branchID, userID uuid.UUID, amount decimal.Decimal) error
}

type userRepo struct{ db *gorm.DB }

func NewUserRepository(db *gorm.DB) UserRepository { return &userRepo{db: db} }

func (r *userRepo) Create(ctx context.Context, u *model.User) error {
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *userRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	var u model.User
	err := r.db.WithContext(ctx).First(&u, "id = ?", id).Error
	return &u, err
}

func (r *userRepo) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	var u model.User
	err := r.db.WithContext(ctx).
		Where("username = ? AND active = ?", username, true).
		First(&u).Error
	return &u, err
}

func (r *userRepo) Update(ctx context.Context, u *model.User) error {
	return r.db.WithContext(ctx).Save(u).Error
}

func (r *userRepo) AddBonus(ctx context.Context, branchID, userID uuid.UUID, amount decimal.Decimal) error {
	res := r.db.WithContext(ctx).Model(&model.BranchUser{}).
		Where("branch_id = ? AND user_id = ?", branchID, userID).
		Update("accrued_bonus", gorm.Expr("accrued_bonus + ?", amount))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return r.db.WithContext(ctx).Create(&model.BranchUser{
			BranchID:     branchID,
			UserID:       userID,
			AccruedBonus: amount,
		}).Error
	}
	return nil
}
