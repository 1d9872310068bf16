package service_test

import (
	"context"
	"testing"

	"tiendapos/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartSession_Idempotent(t *testing.T) {
	repo := newStubSessionRepo()
	svc := service.NewSessionService(repo)
	userID, branchID := uuid.New(), uuid.New()

	first, err := svc.StartSession(context.Background(), userID, branchID)
	require.NoError(t, err)
	second, err := svc.StartSession(context.Background(), userID, branchID)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, repo.sessions, 1)
}

func TestUpdateOnSale_AccumulatesTotalsPerMethod(t *testing.T) {
	repo := newStubSessionRepo()
	svc := service.NewSessionService(repo)
	userID, branchID := uuid.New(), uuid.New()

	sales := []struct {
		total  int64
		bonus  int64
		method string
	}{
		{100, 2, "cash"},
		{250, 5, "card"},
		{50, 1, "cash"},
	}
	for _, s := range sales {
		err := svc.UpdateOnSale(context.Background(), userID, branchID,
			decimal.NewFromInt(s.total), decimal.NewFromInt(s.bonus), s.method)
		require.NoError(t, err)
	}

	resp, err := svc.Current(context.Background(), userID, branchID)
	require.NoError(t, err)
	require.NotNil(t, resp)
	assert.True(t, resp.TotalSales.Equal(decimal.NewFromInt(400)))
	assert.True(t, resp.TotalBonus.Equal(decimal.NewFromInt(8)))
	assert.True(t, resp.PaymentTotals["cash"].Equal(decimal.NewFromInt(150)))
	assert.True(t, resp.PaymentTotals["card"].Equal(decimal.NewFromInt(250)))
}

func TestUpdateOnSale_OpensSessionWhenAbsent(t *testing.T) {
	repo := newStubSessionRepo()
	svc := service.NewSessionService(repo)
	userID, branchID := uuid.New(), uuid.New()

	err := svc.UpdateOnSale(context.Background(), userID, branchID,
		decimal.NewFromInt(80), decimal.Zero, "transfer")
	require.NoError(t, err)

	resp, err := svc.Current(context.Background(), userID, branchID)
	require.NoError(t, err)
	require.NotNil(t, resp)
	assert.True(t, resp.TotalSales.Equal(decimal.NewFromInt(80)))
}

func TestCloseSession_Idempotent(t *testing.T) {
	repo := newStubSessionRepo()
	svc := service.NewSessionService(repo)
	userID, branchID := uuid.New(), uuid.New()

	_, err := svc.StartSession(context.Background(), userID, branchID)
	require.NoError(t, err)

	closed, err := svc.CloseSession(context.Background(), userID, branchID)
	require.NoError(t, err)
	require.NotNil(t, closed)
	assert.NotNil(t, closed.ClosedAt)

	// Second close: nothing open, no error.
	again, err := svc.CloseSession(context.Background(), userID, branchID)
	require.NoError(t, err)
	assert.Nil(t, again)

	// A new start opens a fresh session, not the closed one.
	fresh, err := svc.StartSession(context.Background(), userID, branchID)
	require.NoError(t, err)
	assert.NotEqual(t, closed.ID, fresh.ID)
	assert.True(t, fresh.TotalSales.IsZero())
}

func TestCloseAllForUser(t *testing.T) {
	repo := newStubSessionRepo()
	svc := service.NewSessionService(repo)
	userID := uuid.New()
	branchA, branchB := uuid.New(), uuid.New()

	_, err := svc.StartSession(context.Background(), userID, branchA)
	require.NoError(t, err)
	_, err = svc.StartSession(context.Background(), userID, branchB)
	require.NoError(t, err)

	closed, err := svc.CloseAllForUser(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, 2, closed)

	for _, branchID := range []uuid.UUID{branchA, branchB} {
		resp, err := svc.Current(context.Background(), userID, branchID)
		require.NoError(t, err)
		assert.Nil(t, resp)
	}
}
