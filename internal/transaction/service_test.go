package transaction_test

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

	"github.com/homeledger/homeledger/internal/transaction"
)

func TestService_Create(t *testing.T) {
	type args struct {
		params transaction.CreateParams
	}

	type testCase struct {
		name      string
		args      args
		setupMock func(m *transaction.MockRepository)
		wantErr   bool
	}

	tests := []testCase{
		{
			name: "Success",
			args: args{
				params: transaction.CreateParams{
					UserID:      uuid.New(),
					Amount:      decimal.NewFromFloat(10.50),
					Type:        transaction.TypeExpense,
					Description: "Test Transaction",
					Date:        time.Date(2024, 10, 27, 0, 0, 0, 0, time.UTC),
					CategoryID:  uuid.New(),
				},
			},
			setupMock: func(m *transaction.MockRepository) {
				m.EXPECT().
					CreateTransaction(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, tx *transaction.Transaction) error {
						tx.ID = uuid.New()
						tx.CreatedAt = time.Now()
						return nil
					})
			},
			wantErr: false,
		},
		{
			name: "RepoError",
			args: args{
				params: transaction.CreateParams{
					Amount: decimal.NewFromInt(500),
				},
			},
			setupMock: func(m *transaction.MockRepository) {
				m.EXPECT().
					CreateTransaction(gomock.Any(), gomock.Any()).
					Return(errors.New("db error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := transaction.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			svc := transaction.NewService(repo)
			got, err := svc.Create(context.Background(), tt.args.params)

			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, got)

				return
			}

			assert.NoError(t, err)
			assert.NotNil(t, got)
			assert.NotEmpty(t, got.ID)
		})
	}
}

func TestService_Create_Defaults(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := transaction.NewMockRepository(ctrl)
	svc := transaction.NewService(repo)

	var stored *transaction.Transaction
	repo.EXPECT().
		CreateTransaction(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, tx *transaction.Transaction) error {
			stored = tx
			return nil
		})

	got, err := svc.Create(context.Background(), transaction.CreateParams{
		Amount:      decimal.NewFromFloat(-42.10),
		Type:        transaction.TypeExpense,
		Description: "Groceries",
		Date:        time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	assert.Equal(t, transaction.SourceManual, stored.Source)
	assert.True(t, got.Amount.Equal(decimal.NewFromFloat(42.10)), "amount is stored unsigned")
}

func TestService_List(t *testing.T) {
	type args struct {
		filter transaction.ListFilter
	}

	type testCase struct {
		name      string
		args      args
		setupMock func(m *transaction.MockRepository)
		wantLen   int
		wantErr   bool
	}

	tests := []testCase{
		{
			name: "Success",
			args: args{filter: transaction.ListFilter{}},
			setupMock: func(m *transaction.MockRepository) {
				m.EXPECT().
					ListTransactions(gomock.Any(), transaction.ListFilter{}).
					Return([]*transaction.Transaction{
						{ID: uuid.New()},
						{ID: uuid.New()},
					}, nil)
			},
			wantLen: 2,
			wantErr: false,
		},
		{
			name: "Error",
			args: args{filter: transaction.ListFilter{}},
			setupMock: func(m *transaction.MockRepository) {
				m.EXPECT().
					ListTransactions(gomock.Any(), transaction.ListFilter{}).
					Return(nil, errors.New("list error"))
			},
			wantLen: 0,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := transaction.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			svc := transaction.NewService(repo)
			got, err := svc.List(context.Background(), tt.args.filter)

			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			assert.NoError(t, err)
			assert.Len(t, got, tt.wantLen)
		})
	}
}

func TestService_Update(t *testing.T) {
	id := uuid.New()
	newDesc := "Renamed"
	newAmount := decimal.NewFromFloat(99.99)
	newDate := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	type testCase struct {
		name      string
		params    transaction.UpdateParams
		setupMock func(m *transaction.MockRepository)
		wantErr   error
		check     func(t *testing.T, got *transaction.Transaction)
	}

	tests := []testCase{
		{
			name:   "UpdatesDescription",
			params: transaction.UpdateParams{Description: &newDesc},
			setupMock: func(m *transaction.MockRepository) {
				m.EXPECT().
					GetTransaction(gomock.Any(), id).
					Return(&transaction.Transaction{ID: id, Source: transaction.SourceManual, Description: "Old"}, nil)
				m.EXPECT().
					UpdateTransaction(gomock.Any(), gomock.Any()).
					Return(nil)
			},
			check: func(t *testing.T, got *transaction.Transaction) {
				assert.Equal(t, "Renamed", got.Description)
			},
		},
		{
			name:   "AmountStoredUnsigned",
			params: transaction.UpdateParams{Amount: &newAmount},
			setupMock: func(m *transaction.MockRepository) {
				m.EXPECT().
					GetTransaction(gomock.Any(), id).
					Return(&transaction.Transaction{ID: id, Source: transaction.SourceManual}, nil)
				m.EXPECT().
					UpdateTransaction(gomock.Any(), gomock.Any()).
					Return(nil)
			},
			check: func(t *testing.T, got *transaction.Transaction) {
				assert.True(t, got.Amount.Equal(decimal.NewFromFloat(99.99)))
			},
		},
		{
			name:   "ImportedAmountLocked",
			params: transaction.UpdateParams{Amount: &newAmount},
			setupMock: func(m *transaction.MockRepository) {
				m.EXPECT().
					GetTransaction(gomock.Any(), id).
					Return(&transaction.Transaction{ID: id, Source: transaction.SourceCSVImport}, nil)
			},
			wantErr: transaction.ErrImportedFieldLocked,
		},
		{
			name:   "ImportedDateLocked",
			params: transaction.UpdateParams{Date: &newDate},
			setupMock: func(m *transaction.MockRepository) {
				m.EXPECT().
					GetTransaction(gomock.Any(), id).
					Return(&transaction.Transaction{ID: id, Source: transaction.SourceCSVImport}, nil)
			},
			wantErr: transaction.ErrImportedFieldLocked,
		},
		{
			name:   "ImportedDescriptionStillEditable",
			params: transaction.UpdateParams{Description: &newDesc},
			setupMock: func(m *transaction.MockRepository) {
				m.EXPECT().
					GetTransaction(gomock.Any(), id).
					Return(&transaction.Transaction{ID: id, Source: transaction.SourceCSVImport}, nil)
				m.EXPECT().
					UpdateTransaction(gomock.Any(), gomock.Any()).
					Return(nil)
			},
			check: func(t *testing.T, got *transaction.Transaction) {
				assert.Equal(t, "Renamed", got.Description)
			},
		},
		{
			name:   "NotFound",
			params: transaction.UpdateParams{Description: &newDesc},
			setupMock: func(m *transaction.MockRepository) {
				m.EXPECT().
					GetTransaction(gomock.Any(), id).
					Return(nil, transaction.ErrNotFound)
			},
			wantErr: transaction.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := transaction.NewMockRepository(ctrl)
			tt.setupMock(repo)

			svc := transaction.NewService(repo)
			got, err := svc.Update(context.Background(), id, tt.params)

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)

				return
			}

			require.NoError(t, err)
			tt.check(t, got)
		})
	}
}

func TestService_CreateBatch(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := transaction.NewMockRepository(ctrl)
	svc := transaction.NewService(repo)

	userID := uuid.New()
	date := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	params := []transaction.CreateParams{
		{
			UserID:      userID,
			Amount:      decimal.NewFromInt(1000),
			Type:        transaction.TypeExpense,
			Source:      transaction.SourceCSVImport,
			Description: "Coffee",
			Date:        date,
		},
		{
			UserID:      userID,
			Amount:      decimal.NewFromInt(2000),
			Type:        transaction.TypeIncome,
			Source:      transaction.SourceCSVImport,
			Description: "Refund",
			Date:        date,
		},
	}

	repo.EXPECT().CreateTransactions(gomock.Any(), gomock.Len(2)).Return(nil)

	txs, err := svc.CreateBatch(context.Background(), params)
	require.NoError(t, err)
	assert.Len(t, txs, 2)
	assert.Equal(t, transaction.SourceCSVImport, txs[0].Source)
	assert.True(t, txs[0].Amount.Equal(decimal.NewFromInt(1000)))
}

func TestService_CreateBatch_Empty(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := transaction.NewMockRepository(ctrl)
	svc := transaction.NewService(repo)

	txs, err := svc.CreateBatch(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, txs)
}

func TestService_DeleteBatch(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := transaction.NewMockRepository(ctrl)
	svc := transaction.NewService(repo)

	userID := uuid.New()
	ids := []uuid.UUID{uuid.New(), uuid.New()}

	repo.EXPECT().DeleteTransactions(gomock.Any(), userID, ids).Return(int64(2), nil)

	deleted, err := svc.DeleteBatch(context.Background(), userID, ids)
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)
}

func TestService_DeleteBatch_Empty(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := transaction.NewMockRepository(ctrl)
	svc := transaction.NewService(repo)

	deleted, err := svc.DeleteBatch(context.Background(), uuid.New(), nil)
	require.NoError(t, err)
	assert.Zero(t, deleted)
}

func TestService_ResetAll(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := transaction.NewMockRepository(ctrl)
	svc := transaction.NewService(repo)

	userID := uuid.New()
	repo.EXPECT().DeleteAllTransactions(gomock.Any(), userID).Return(nil)

	require.NoError(t, svc.ResetAll(context.Background(), userID))
}
