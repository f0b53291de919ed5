package transaction

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/homeledger/homeledger/internal/transaction"
)

type transactionResponse struct {
	ID          uuid.UUID          `json:"id"`
	Amount      decimal.Decimal    `json:"amount"`
	Type        transaction.Type   `json:"type"`
	Source      transaction.Source `json:"source"`
	Description string             `json:"description"`
	Date        time.Time          `json:"date"`
	CategoryID  uuid.UUID          `json:"category_id"`
	PropertyID  *uuid.UUID         `json:"property_id,omitempty"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   *time.Time         `json:"updated_at,omitempty"`
}

func toResponse(tx *transaction.Transaction) transactionResponse {
	return transactionResponse{
		ID:          tx.ID,
		Amount:      tx.Amount,
		Type:        tx.Type,
		Source:      tx.Source,
		Description: tx.Description,
		Date:        tx.Date,
		CategoryID:  tx.CategoryID,
		PropertyID:  tx.PropertyID,
		CreatedAt:   tx.CreatedAt,
		UpdatedAt:   tx.UpdatedAt,
	}
}

func toResponseList(txs []*transaction.Transaction) []transactionResponse {
	resp := make([]transactionResponse, len(txs))
	for i, tx := range txs {
		resp[i] = toResponse(tx)
	}

	return resp
}
