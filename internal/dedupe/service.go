package dedupe

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/homeledger/homeledger/internal/transaction"
)

// Service runs duplicate-removal passes over a user's stored transactions.
type Service struct {
	repo transaction.Repository
}

func NewService(repo transaction.Repository) *Service {
	return &Service{repo: repo}
}

// RemoveDuplicates deletes every later occurrence of each fingerprint in the
// user's transaction set and returns how many were removed. The whole pass
// runs inside one locked store transaction so two concurrent passes cannot
// disagree about which occurrence survives.
func (s *Service) RemoveDuplicates(ctx context.Context, userID uuid.UUID) (int64, error) {
	tx, err := s.repo.BeginCleanup(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("begin cleanup: %w", err)
	}
	defer tx.Rollback()

	txs, err := tx.ListAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("list transactions: %w", err)
	}

	ids := FindDuplicateGroup(txs)
	if len(ids) == 0 {
		return 0, nil
	}

	deleted, err := tx.DeleteTransactions(ctx, ids)
	if err != nil {
		return 0, fmt.Errorf("delete duplicates: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit cleanup: %w", err)
	}

	return deleted, nil
}
