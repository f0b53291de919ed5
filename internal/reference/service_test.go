package reference_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/homeledger/homeledger/internal/reference"
	"github.com/homeledger/homeledger/internal/transaction"
)

func TestService_CreateCategory(t *testing.T) {
	type testCase struct {
		name      string
		params    reference.CategoryParams
		setupMock func(m *reference.MockRepository)
		wantType  transaction.Type
		wantErr   bool
	}

	tests := []testCase{
		{
			name:   "Success",
			params: reference.CategoryParams{Name: "Rent", Icon: "🏠", Color: "blue", Type: transaction.TypeExpense},
			setupMock: func(m *reference.MockRepository) {
				m.EXPECT().
					CreateCategory(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, c *reference.Category) error {
						c.ID = uuid.New()
						return nil
					})
			},
			wantType: transaction.TypeExpense,
		},
		{
			name:   "DefaultsToExpense",
			params: reference.CategoryParams{Name: "Misc"},
			setupMock: func(m *reference.MockRepository) {
				m.EXPECT().
					CreateCategory(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, c *reference.Category) error {
						c.ID = uuid.New()
						return nil
					})
			},
			wantType: transaction.TypeExpense,
		},
		{
			name:   "RepoError",
			params: reference.CategoryParams{Name: "Rent"},
			setupMock: func(m *reference.MockRepository) {
				m.EXPECT().
					CreateCategory(gomock.Any(), gomock.Any()).
					Return(errors.New("db error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := reference.NewMockRepository(ctrl)
			tt.setupMock(repo)

			svc := reference.NewService(repo)
			got, err := svc.CreateCategory(context.Background(), tt.params)

			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, got)

				return
			}

			require.NoError(t, err)
			assert.NotEmpty(t, got.ID)
			assert.Equal(t, tt.wantType, got.Type)
		})
	}
}

func TestService_DefaultCategory_Existing(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := reference.NewMockRepository(ctrl)
	svc := reference.NewService(repo)

	existing := &reference.Category{ID: uuid.New(), Name: reference.DefaultCategoryName}
	repo.EXPECT().
		GetCategoryByName(gomock.Any(), reference.DefaultCategoryName).
		Return(existing, nil)

	got, err := svc.DefaultCategory(context.Background())
	require.NoError(t, err)
	assert.Equal(t, existing, got)
}

func TestService_DefaultCategory_CreatesWhenMissing(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := reference.NewMockRepository(ctrl)
	svc := reference.NewService(repo)

	repo.EXPECT().
		GetCategoryByName(gomock.Any(), reference.DefaultCategoryName).
		Return(nil, reference.ErrCategoryNotFound)
	repo.EXPECT().
		CreateCategory(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, c *reference.Category) error {
			c.ID = uuid.New()
			return nil
		})

	got, err := svc.DefaultCategory(context.Background())
	require.NoError(t, err)
	assert.Equal(t, reference.DefaultCategoryName, got.Name)
	assert.Equal(t, transaction.TypeExpense, got.Type)
}

func TestService_DefaultCategory_LookupError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := reference.NewMockRepository(ctrl)
	svc := reference.NewService(repo)

	repo.EXPECT().
		GetCategoryByName(gomock.Any(), reference.DefaultCategoryName).
		Return(nil, errors.New("db error"))

	_, err := svc.DefaultCategory(context.Background())
	assert.Error(t, err)
}

func TestService_CreateProperty(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := reference.NewMockRepository(ctrl)
	svc := reference.NewService(repo)

	userID := uuid.New()
	repo.EXPECT().
		CreateProperty(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, p *reference.Property) error {
			p.ID = uuid.New()
			return nil
		})

	got, err := svc.CreateProperty(context.Background(), reference.PropertyParams{
		UserID:  userID,
		Name:    "Main St Duplex",
		Address: "12 Main St",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, got.ID)
	assert.Equal(t, userID, got.UserID)
}

func TestCategoryMap(t *testing.T) {
	a := &reference.Category{ID: uuid.New(), Name: "Rent"}
	b := &reference.Category{ID: uuid.New(), Name: "Food"}

	m := reference.CategoryMap([]*reference.Category{a, b})
	assert.Len(t, m, 2)
	assert.Equal(t, "Rent", m[a.ID].Name)
	assert.Equal(t, "Food", m[b.ID].Name)
}

func TestPropertyMap(t *testing.T) {
	p := &reference.Property{ID: uuid.New(), Name: "Duplex"}

	m := reference.PropertyMap([]*reference.Property{p})
	assert.Len(t, m, 1)
	assert.Equal(t, "Duplex", m[p.ID].Name)
}
