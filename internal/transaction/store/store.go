package store

import (
	"context"
	"database/sql"
	"fmt"
	"hash/fnv"

	"github.com/google/uuid"

	"github.com/homeledger/homeledger/internal/transaction"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// scanTransaction reads a transaction row from the scanner and returns a populated Transaction.
// Expected column order: id, user_id, amount, type, source, description, date, category_id, property_id, created_at, updated_at
func scanTransaction(s scanner) (*transaction.Transaction, error) {
	var tx transaction.Transaction

	var typeStr, sourceStr string

	var propID *uuid.UUID

	if err := s.Scan(
		&tx.ID, &tx.UserID, &tx.Amount, &typeStr, &sourceStr, &tx.Description, &tx.Date,
		&tx.CategoryID, &propID,
		&tx.CreatedAt, &tx.UpdatedAt,
	); err != nil {
		return nil, err
	}

	tx.Type = transaction.Type(typeStr)
	tx.Source = transaction.Source(sourceStr)
	tx.PropertyID = propID

	return &tx, nil
}

const selectTransactionColumns = `
	t.id, t.user_id, t.amount, t.type, t.source, t.description, t.date,
	t.category_id, t.property_id, t.created_at, t.updated_at
`

const insertTransactionQuery = `
	INSERT INTO transactions (user_id, amount, type, source, description, date, category_id, property_id, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
	RETURNING id, created_at
`

func (s *Store) CreateTransaction(ctx context.Context, tx *transaction.Transaction) error {
	err := s.db.QueryRowContext(ctx, insertTransactionQuery,
		tx.UserID,
		tx.Amount,
		tx.Type,
		tx.Source,
		tx.Description,
		tx.Date,
		tx.CategoryID,
		tx.PropertyID,
	).Scan(&tx.ID, &tx.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating transaction: %w", err)
	}

	return nil
}

func (s *Store) CreateTransactions(ctx context.Context, txs []*transaction.Transaction) error {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer dbTx.Rollback()

	for _, tx := range txs {
		err := dbTx.QueryRowContext(ctx, insertTransactionQuery,
			tx.UserID,
			tx.Amount,
			tx.Type,
			tx.Source,
			tx.Description,
			tx.Date,
			tx.CategoryID,
			tx.PropertyID,
		).Scan(&tx.ID, &tx.CreatedAt)
		if err != nil {
			return fmt.Errorf("creating transaction: %w", err)
		}
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}

func (s *Store) GetTransaction(ctx context.Context, id uuid.UUID) (*transaction.Transaction, error) {
	query := `SELECT ` + selectTransactionColumns + `
		FROM transactions t
		WHERE t.id = $1`

	tx, err := scanTransaction(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, transaction.ErrNotFound
		}

		return nil, fmt.Errorf("getting transaction: %w", err)
	}

	return tx, nil
}

func (s *Store) ListTransactions(ctx context.Context, filter transaction.ListFilter) ([]*transaction.Transaction, error) {
	query := `SELECT ` + selectTransactionColumns + `
		FROM transactions t
		WHERE t.user_id = $1`

	args := []any{filter.UserID}
	argIdx := 2

	if filter.StartDate != nil {
		query += fmt.Sprintf(" AND t.date >= $%d", argIdx)

		args = append(args, *filter.StartDate)
		argIdx++
	}

	if filter.EndDate != nil {
		query += fmt.Sprintf(" AND t.date <= $%d", argIdx)

		args = append(args, *filter.EndDate)
		argIdx++
	}

	if len(filter.CategoryIDs) > 0 {
		query += fmt.Sprintf(" AND t.category_id = ANY($%d)", argIdx)

		args = append(args, filter.CategoryIDs)
		argIdx++
	}

	if filter.Source != nil {
		query += fmt.Sprintf(" AND t.source = $%d", argIdx)

		args = append(args, *filter.Source)
		argIdx++
	}

	query += " ORDER BY t.date DESC, t.created_at DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}
	defer rows.Close()

	var txs []*transaction.Transaction

	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning transaction: %w", err)
		}

		txs = append(txs, tx)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating transaction rows: %w", err)
	}

	return txs, nil
}

func (s *Store) UpdateTransaction(ctx context.Context, tx *transaction.Transaction) error {
	query := `
		UPDATE transactions
		SET amount = $1, type = $2, description = $3, date = $4, category_id = $5, property_id = $6, updated_at = NOW()
		WHERE id = $7
	`

	_, err := s.db.ExecContext(ctx, query,
		tx.Amount,
		tx.Type,
		tx.Description,
		tx.Date,
		tx.CategoryID,
		tx.PropertyID,
		tx.ID,
	)
	if err != nil {
		return fmt.Errorf("updating transaction: %w", err)
	}

	return nil
}

func (s *Store) DeleteTransaction(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM transactions WHERE id = $1`

	res, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("deleting transaction: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("counting deleted rows: %w", err)
	}

	if affected == 0 {
		return transaction.ErrNotFound
	}

	return nil
}

func (s *Store) DeleteTransactions(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) (int64, error) {
	query := `DELETE FROM transactions WHERE user_id = $1 AND id = ANY($2)`

	res, err := s.db.ExecContext(ctx, query, userID, ids)
	if err != nil {
		return 0, fmt.Errorf("deleting transactions: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("counting deleted rows: %w", err)
	}

	return affected, nil
}

func (s *Store) DeleteAllTransactions(ctx context.Context, userID uuid.UUID) error {
	query := `DELETE FROM transactions WHERE user_id = $1`

	if _, err := s.db.ExecContext(ctx, query, userID); err != nil {
		return fmt.Errorf("deleting user transactions: %w", err)
	}

	return nil
}

func cleanupLockKey(userID uuid.UUID) int64 {
	h := fnv.New64a()
	h.Write([]byte("tx-cleanup"))
	h.Write([]byte{0})
	h.Write([]byte(userID.String()))

	return int64(h.Sum64())
}

type cleanupTx struct {
	tx     *sql.Tx
	userID uuid.UUID
}

func (s *Store) BeginCleanup(ctx context.Context, userID uuid.UUID) (transaction.CleanupTx, error) {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning cleanup tx: %w", err)
	}

	lockKey := cleanupLockKey(userID)
	if _, err := dbTx.ExecContext(ctx, "SELECT pg_advisory_xact_lock($1)", lockKey); err != nil {
		dbTx.Rollback()
		return nil, fmt.Errorf("acquiring cleanup lock: %w", err)
	}

	return &cleanupTx{tx: dbTx, userID: userID}, nil
}

func (c *cleanupTx) Commit() error   { return c.tx.Commit() }
func (c *cleanupTx) Rollback() error { return c.tx.Rollback() }

// ListAll returns the user's transactions in creation order so callers can
// rely on the first occurrence of a fingerprint being stable across passes.
func (c *cleanupTx) ListAll(ctx context.Context) ([]*transaction.Transaction, error) {
	query := `SELECT ` + selectTransactionColumns + `
		FROM transactions t
		WHERE t.user_id = $1
		ORDER BY t.created_at ASC, t.id ASC`

	rows, err := c.tx.QueryContext(ctx, query, c.userID)
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}
	defer rows.Close()

	var txs []*transaction.Transaction

	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning transaction: %w", err)
		}

		txs = append(txs, tx)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating transaction rows: %w", err)
	}

	return txs, nil
}

func (c *cleanupTx) DeleteTransactions(ctx context.Context, ids []uuid.UUID) (int64, error) {
	query := `DELETE FROM transactions WHERE user_id = $1 AND id = ANY($2)`

	res, err := c.tx.ExecContext(ctx, query, c.userID, ids)
	if err != nil {
		return 0, fmt.Errorf("deleting transactions: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("counting deleted rows: %w", err)
	}

	return affected, nil
}
