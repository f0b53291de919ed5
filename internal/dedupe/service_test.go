package dedupe_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/homeledger/homeledger/internal/dedupe"
	"github.com/homeledger/homeledger/internal/transaction"
)

func TestService_RemoveDuplicates(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := transaction.NewMockRepository(ctrl)
	cltx := transaction.NewMockCleanupTx(ctrl)
	svc := dedupe.NewService(repo)

	userID := uuid.New()
	date := time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC)
	first := &transaction.Transaction{
		ID:          uuid.New(),
		Amount:      decimal.NewFromFloat(45.00),
		Type:        transaction.TypeExpense,
		Description: "Electric bill",
		Date:        date,
	}
	second := &transaction.Transaction{
		ID:          uuid.New(),
		Amount:      decimal.NewFromFloat(45.00),
		Type:        transaction.TypeExpense,
		Description: "Electric bill",
		Date:        date,
	}
	other := &transaction.Transaction{
		ID:          uuid.New(),
		Amount:      decimal.NewFromFloat(12.00),
		Type:        transaction.TypeExpense,
		Description: "Lunch",
		Date:        date,
	}

	repo.EXPECT().BeginCleanup(gomock.Any(), userID).Return(cltx, nil)
	cltx.EXPECT().ListAll(gomock.Any()).Return([]*transaction.Transaction{first, second, other}, nil)
	cltx.EXPECT().DeleteTransactions(gomock.Any(), []uuid.UUID{second.ID}).Return(int64(1), nil)
	cltx.EXPECT().Commit().Return(nil)
	cltx.EXPECT().Rollback().Return(nil)

	deleted, err := svc.RemoveDuplicates(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)
}

func TestService_RemoveDuplicates_NoneFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := transaction.NewMockRepository(ctrl)
	cltx := transaction.NewMockCleanupTx(ctrl)
	svc := dedupe.NewService(repo)

	userID := uuid.New()

	repo.EXPECT().BeginCleanup(gomock.Any(), userID).Return(cltx, nil)
	cltx.EXPECT().ListAll(gomock.Any()).Return(nil, nil)
	cltx.EXPECT().Rollback().Return(nil)

	deleted, err := svc.RemoveDuplicates(context.Background(), userID)
	require.NoError(t, err)
	assert.Zero(t, deleted)
}

func TestService_RemoveDuplicates_BeginError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := transaction.NewMockRepository(ctrl)
	svc := dedupe.NewService(repo)

	repo.EXPECT().BeginCleanup(gomock.Any(), gomock.Any()).Return(nil, errors.New("lock timeout"))

	_, err := svc.RemoveDuplicates(context.Background(), uuid.New())
	assert.Error(t, err)
}

func TestService_RemoveDuplicates_DeleteError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := transaction.NewMockRepository(ctrl)
	cltx := transaction.NewMockCleanupTx(ctrl)
	svc := dedupe.NewService(repo)

	userID := uuid.New()
	date := time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC)
	dup := func() *transaction.Transaction {
		return &transaction.Transaction{
			ID:          uuid.New(),
			Amount:      decimal.NewFromInt(9),
			Type:        transaction.TypeExpense,
			Description: "Same",
			Date:        date,
		}
	}

	repo.EXPECT().BeginCleanup(gomock.Any(), userID).Return(cltx, nil)
	cltx.EXPECT().ListAll(gomock.Any()).Return([]*transaction.Transaction{dup(), dup()}, nil)
	cltx.EXPECT().DeleteTransactions(gomock.Any(), gomock.Any()).Return(int64(0), errors.New("db error"))
	cltx.EXPECT().Rollback().Return(nil)

	_, err := svc.RemoveDuplicates(context.Background(), userID)
	assert.Error(t, err)
}
