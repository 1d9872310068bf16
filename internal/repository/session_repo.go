package repository

import (
	"context"

	"tiendapos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SessionRepository interface {
	Create(ctx context.Context, s *model.WorkSession) error
	FindOpen(ctx context.Context, userID, branchID uuid.UUID) (*model.WorkSession, error)
	FindOpenByUser(ctx context.Context, userID uuid.UUID) ([]model.WorkSession, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.WorkSession, error)
	Save(ctx context.Context, s *model.WorkSession) error
}

type sessionRepo struct{ db *gorm.DB }

func NewSessionRepository(db *gorm.DB) SessionRepository { return &sessionRepo{db: db} }

func (r *sessionRepo) Create(ctx context.Context, s *model.WorkSession) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *sessionRepo) FindOpen(ctx context.Context, userID, branchID uuid.UUID) (*model.WorkSession, error) {
	var s model.WorkSession
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND branch_id = ? AND closed_at IS NULL", userID, branchID).
		First(&s).Error
	return &s, err
}

func (r *sessionRepo) FindOpenByUser(ctx context.Context, userID uuid.UUID) ([]model.WorkSession, error) {
	var sessions []model.WorkSession
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND closed_at IS NULL", userID).
		Find(&sessions).Error
	return sessions, err
}

func (r *sessionRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.WorkSession, error) {
	var s model.WorkSession
	err := r.db.WithContext(ctx).First(&s, "id = ?", id).Error
	return &s, err
}

func (r *sessionRepo) Save(ctx context.Context, s *model.WorkSession) error {
	return r.db.WithContext(ctx).Save(s).Error
}
