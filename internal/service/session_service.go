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

type SessionService interface {
	// StartSession opens a shift for the cashier at the branch, or returns
	// the already-open one. Idempotent.
	StartSession(ctx context.Context, userID, branchID uuid.UUID) (*dto.SessionResponse, error)

	// UpdateOnSale folds one committed sale into the cashier's open
	// session, creating it first when the cashier never explicitly opened
	// one. Satisfies the worker.SessionAccumulator interface.
	UpdateOnSale(ctx context.Context, userID, branchID uuid.UUID, total, bonus decimal.Decimal, paymentMethod string) error

	// CloseSession stamps closed_at on the open session at the branch.
	// Closing an already-closed or absent session is a no-op.
	CloseSession(ctx context.Context, userID, branchID uuid.UUID) (*dto.SessionResponse, error)

	// CloseAllForUser closes every open session of the user, across
	// branches. Called at logout.
	CloseAllForUser(ctx context.Context, userID uuid.UUID) (int, error)

	Current(ctx context.Context, userID, branchID uuid.UUID) (*dto.SessionResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.SessionResponse, error)
}

type sessionService struct {
	sessions repository.SessionRepository
}

func NewSessionService(sessions repository.SessionRepository) SessionService {
	return &sessionService{sessions: sessions}
}

func (s *sessionService) StartSession(ctx context.Context, userID, branchID uuid.UUID) (*dto.SessionResponse, error) {
	session, err := s.findOrOpen(ctx, userID, branchID)
	if err != nil {
		return nil, err
	}
	return sessionToResponse(session), nil
}

func (s *sessionService) findOrOpen(ctx context.Context, userID, branchID uuid.UUID) (*model.WorkSession, error) {
	session, err := s.sessions.FindOpen(ctx, userID, branchID)
	if err == nil {
		return session, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	session = &model.WorkSession{
		UserID:        userID,
		BranchID:      branchID,
		TotalSales:    decimal.Zero,
		TotalBonus:    decimal.Zero,
		PaymentTotals: model.PaymentTotals{},
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *sessionService) UpdateOnSale(ctx context.Context, userID, branchID uuid.UUID, total, bonus decimal.Decimal, paymentMethod string) error {
	session, err := s.findOrOpen(ctx, userID, branchID)
	if err != nil {
		return err
	}
	session.TotalSales = session.TotalSales.Add(total)
	session.TotalBonus = session.TotalBonus.Add(bonus)
	session.PaymentTotals = session.PaymentTotals.Add(paymentMethod, total)
	return s.sessions.Save(ctx, session)
}

func (s *sessionService) CloseSession(ctx context.Context, userID, branchID uuid.UUID) (*dto.SessionResponse, error) {
	session, err := s.sessions.FindOpen(ctx, userID, branchID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	session.ClosedAt = &now
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, err
	}
	return sessionToResponse(session), nil
}

func (s *sessionService) CloseAllForUser(ctx context.Context, userID uuid.UUID) (int, error) {
	open, err := s.sessions.FindOpenByUser(ctx, userID)
	if err != nil {
		return 0, err
	}
	now := time.Now().UTC()
	closed := 0
	for i := range open {
		open[i].ClosedAt = &now
		if err := s.sessions.Save(ctx, &open[i]); err != nil {
			return closed, err
		}
		closed++
	}
	return closed, nil
}

func (s *sessionService) Current(ctx context.Context, userID, branchID uuid.UUID) (*dto.SessionResponse, error) {
	session, err := s.sessions.FindOpen(ctx, userID, branchID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return sessionToResponse(session), nil
}

func (s *sessionService) Get(ctx context.Context, id uuid.UUID) (*dto.SessionResponse, error) {
	session, err := s.sessions.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("sesión no encontrada")
	}
	return sessionToResponse(session), nil
}

func sessionToResponse(s *model.WorkSession) *dto.SessionResponse {
	resp := &dto.SessionResponse{
		ID:            s.ID.String(),
		UserID:        s.UserID.String(),
		BranchID:      s.BranchID.String(),
		TotalSales:    s.TotalSales,
		TotalBonus:    s.TotalBonus,
		PaymentTotals: s.PaymentTotals,
		StartedAt:     s.CreatedAt.Format(time.RFC3339),
	}
	if s.ClosedAt != nil {
		v := s.ClosedAt.Format(time.RFC3339)
		resp.ClosedAt = &v
	}
	return resp
}
