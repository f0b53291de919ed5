package auth_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"

	"github.com/homeledger/homeledger/internal/auth"
)

const testSecret = "test-secret"

func TestService_Register(t *testing.T) {
	type testCase struct {
		name      string
		params    auth.RegisterParams
		setupMock func(m *auth.MockRepository)
		wantErr   error
	}

	tests := []testCase{
		{
			name:   "Success",
			params: auth.RegisterParams{Email: "a@b.test", Name: "Alex", Password: "hunter22"},
			setupMock: func(m *auth.MockRepository) {
				m.EXPECT().
					GetUserByEmail(gomock.Any(), "a@b.test").
					Return(nil, auth.ErrUserNotFound)
				m.EXPECT().
					CreateUser(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, u *auth.User) error {
						u.ID = uuid.New()
						u.CreatedAt = time.Now()
						return nil
					})
			},
		},
		{
			name:   "EmailTaken",
			params: auth.RegisterParams{Email: "a@b.test", Password: "hunter22"},
			setupMock: func(m *auth.MockRepository) {
				m.EXPECT().
					GetUserByEmail(gomock.Any(), "a@b.test").
					Return(&auth.User{ID: uuid.New(), Email: "a@b.test"}, nil)
			},
			wantErr: auth.ErrEmailTaken,
		},
		{
			name:   "LookupError",
			params: auth.RegisterParams{Email: "a@b.test", Password: "hunter22"},
			setupMock: func(m *auth.MockRepository) {
				m.EXPECT().
					GetUserByEmail(gomock.Any(), "a@b.test").
					Return(nil, errors.New("db error"))
			},
			wantErr: errors.New("db error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := auth.NewMockRepository(ctrl)
			tt.setupMock(repo)

			svc := auth.NewService(repo, testSecret, time.Hour)
			got, err := svc.Register(context.Background(), tt.params)

			if tt.wantErr != nil {
				assert.Error(t, err)
				assert.Nil(t, got)

				return
			}

			require.NoError(t, err)
			assert.NotEmpty(t, got.ID)
			assert.NotEqual(t, "hunter22", got.PasswordHash, "password is stored hashed")
			assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(got.PasswordHash), []byte("hunter22")))
		})
	}
}

func TestService_Login(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("hunter22"), bcrypt.MinCost)
	require.NoError(t, err)

	user := &auth.User{ID: uuid.New(), Email: "a@b.test", PasswordHash: string(hash)}

	type testCase struct {
		name      string
		password  string
		setupMock func(m *auth.MockRepository)
		wantErr   error
	}

	tests := []testCase{
		{
			name:     "Success",
			password: "hunter22",
			setupMock: func(m *auth.MockRepository) {
				m.EXPECT().GetUserByEmail(gomock.Any(), "a@b.test").Return(user, nil)
			},
		},
		{
			name:     "WrongPassword",
			password: "nope",
			setupMock: func(m *auth.MockRepository) {
				m.EXPECT().GetUserByEmail(gomock.Any(), "a@b.test").Return(user, nil)
			},
			wantErr: auth.ErrInvalidCredentials,
		},
		{
			name:     "UnknownEmail",
			password: "hunter22",
			setupMock: func(m *auth.MockRepository) {
				m.EXPECT().GetUserByEmail(gomock.Any(), "a@b.test").Return(nil, auth.ErrUserNotFound)
			},
			wantErr: auth.ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := auth.NewMockRepository(ctrl)
			tt.setupMock(repo)

			svc := auth.NewService(repo, testSecret, time.Hour)
			got, token, err := svc.Login(context.Background(), "a@b.test", tt.password)

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, token)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, user.ID, got.ID)
			assert.NotEmpty(t, token)

			userID, err := svc.VerifyToken(token)
			require.NoError(t, err)
			assert.Equal(t, user.ID, userID)
		})
	}
}

func TestService_VerifyToken_Invalid(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc := auth.NewService(auth.NewMockRepository(ctrl), testSecret, time.Hour)

	_, err := svc.VerifyToken("not.a.token")
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestService_VerifyToken_WrongSecret(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := auth.NewMockRepository(ctrl)
	hash, err := bcrypt.GenerateFromPassword([]byte("pw"), bcrypt.MinCost)
	require.NoError(t, err)

	user := &auth.User{ID: uuid.New(), Email: "a@b.test", PasswordHash: string(hash)}
	repo.EXPECT().GetUserByEmail(gomock.Any(), "a@b.test").Return(user, nil)

	issuer := auth.NewService(repo, "issuer-secret", time.Hour)
	_, token, err := issuer.Login(context.Background(), "a@b.test", "pw")
	require.NoError(t, err)

	verifier := auth.NewService(auth.NewMockRepository(ctrl), "other-secret", time.Hour)
	_, err = verifier.VerifyToken(token)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestMiddleware(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := auth.NewMockRepository(ctrl)
	hash, err := bcrypt.GenerateFromPassword([]byte("pw"), bcrypt.MinCost)
	require.NoError(t, err)

	user := &auth.User{ID: uuid.New(), Email: "a@b.test", PasswordHash: string(hash)}
	repo.EXPECT().GetUserByEmail(gomock.Any(), "a@b.test").Return(user, nil)

	svc := auth.NewService(repo, testSecret, time.Hour)
	_, token, err := svc.Login(context.Background(), "a@b.test", "pw")
	require.NoError(t, err)

	var gotUserID uuid.UUID

	handler := svc.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := auth.UserID(r.Context())
		require.True(t, ok)
		gotUserID = id
		w.WriteHeader(http.StatusNoContent)
	}))

	t.Run("ValidToken", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, user.ID, gotUserID)
	})

	t.Run("MissingHeader", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("GarbageToken", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer garbage")
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
