package transaction

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=transaction
type Repository interface {
	CreateTransaction(ctx context.Context, tx *Transaction) error
	CreateTransactions(ctx context.Context, txs []*Transaction) error
	GetTransaction(ctx context.Context, id uuid.UUID) (*Transaction, error)
	UpdateTransaction(ctx context.Context, tx *Transaction) error

	ListTransactions(ctx context.Context, filter ListFilter) ([]*Transaction, error)
	DeleteTransaction(ctx context.Context, id uuid.UUID) error
	DeleteTransactions(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) (int64, error)
	DeleteAllTransactions(ctx context.Context, userID uuid.UUID) error

	BeginCleanup(ctx context.Context, userID uuid.UUID) (CleanupTx, error)
}

// CleanupTx is a store transaction holding a per-user lock for the duration
// of a duplicate-removal pass. Listing happens in creation order (creation
// time ascending, ID as tiebreak) so the surviving first occurrence of each
// fingerprint is deterministic.
type CleanupTx interface {
	ListAll(ctx context.Context) ([]*Transaction, error)
	DeleteTransactions(ctx context.Context, ids []uuid.UUID) (int64, error)
	Commit() error
	Rollback() error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type CreateParams struct {
	UserID      uuid.UUID
	Amount      decimal.Decimal
	Type        Type
	Source      Source
	Description string
	Date        time.Time
	CategoryID  uuid.UUID
	PropertyID  *uuid.UUID
}

type ListFilter struct {
	UserID      uuid.UUID
	StartDate   *time.Time
	EndDate     *time.Time
	CategoryIDs []uuid.UUID
	Source      *Source
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Transaction, error) {
	tx := paramsToTransaction(params)
	if err := s.repo.CreateTransaction(ctx, tx); err != nil {
		return nil, err
	}

	return tx, nil
}

// CreateBatch persists a pre-built series (a recurrence expansion or a
// confirmed import) in a single store call.
func (s *Service) CreateBatch(ctx context.Context, params []CreateParams) ([]*Transaction, error) {
	if len(params) == 0 {
		return nil, nil
	}

	txs := make([]*Transaction, len(params))
	for i, p := range params {
		txs[i] = paramsToTransaction(p)
	}

	if err := s.repo.CreateTransactions(ctx, txs); err != nil {
		return nil, fmt.Errorf("create transactions: %w", err)
	}

	return txs, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Transaction, error) {
	return s.repo.GetTransaction(ctx, id)
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Transaction, error) {
	return s.repo.ListTransactions(ctx, filter)
}

type UpdateParams struct {
	Description *string
	Amount      *decimal.Decimal
	Type        *Type
	Date        *time.Time
	CategoryID  *uuid.UUID
	PropertyID  *uuid.UUID
}

// Update replaces the given fields on a transaction. Amount and date of
// CSV-imported transactions are locked; attempts to change them fail with
// ErrImportedFieldLocked.
func (s *Service) Update(ctx context.Context, id uuid.UUID, params UpdateParams) (*Transaction, error) {
	tx, err := s.repo.GetTransaction(ctx, id)
	if err != nil {
		return nil, err
	}

	if tx.Source == SourceCSVImport && (params.Amount != nil || params.Date != nil) {
		return nil, ErrImportedFieldLocked
	}

	if params.Description != nil {
		tx.Description = *params.Description
	}

	if params.Amount != nil {
		tx.Amount = params.Amount.Abs()
	}

	if params.Type != nil {
		tx.Type = *params.Type
	}

	if params.Date != nil {
		tx.Date = *params.Date
	}

	if params.CategoryID != nil {
		tx.CategoryID = *params.CategoryID
	}

	if params.PropertyID != nil {
		tx.PropertyID = params.PropertyID
	}

	if err := s.repo.UpdateTransaction(ctx, tx); err != nil {
		return nil, err
	}

	return tx, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteTransaction(ctx, id)
}

// DeleteBatch removes the given transactions, scoped to the user so one user
// cannot delete another's records. Returns how many were removed.
func (s *Service) DeleteBatch(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	return s.repo.DeleteTransactions(ctx, userID, ids)
}

// ResetAll removes every transaction belonging to the user.
func (s *Service) ResetAll(ctx context.Context, userID uuid.UUID) error {
	return s.repo.DeleteAllTransactions(ctx, userID)
}

// BeginCleanup opens a locked cleanup pass for the user's transactions.
func (s *Service) BeginCleanup(ctx context.Context, userID uuid.UUID) (CleanupTx, error) {
	return s.repo.BeginCleanup(ctx, userID)
}

func paramsToTransaction(p CreateParams) *Transaction {
	source := p.Source
	if source == "" {
		source = SourceManual
	}

	return &Transaction{
		UserID:      p.UserID,
		Amount:      p.Amount.Abs(),
		Type:        p.Type,
		Source:      source,
		Description: p.Description,
		Date:        p.Date,
		CategoryID:  p.CategoryID,
		PropertyID:  p.PropertyID,
	}
}
