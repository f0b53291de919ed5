// Package reference holds the category and property entities transactions
// point at. The ingestion and analytics code treats their IDs as opaque; only
// reporting dereferences name and type.
package reference

import (
	"errors"

	"github.com/google/uuid"

	"github.com/homeledger/homeledger/internal/transaction"
)

var (
	ErrCategoryNotFound = errors.New("category not found")
	ErrPropertyNotFound = errors.New("property not found")
)

// DefaultCategoryName is the catch-all category confirmed CSV imports land
// in. It is created on demand.
const DefaultCategoryName = "Uncategorized"

// Category labels transactions for grouping and display.
type Category struct {
	ID    uuid.UUID
	Name  string
	Icon  string
	Color string
	Type  transaction.Type
}

// Property is a real-estate asset whose transactions are tracked for
// profit/loss reporting.
type Property struct {
	ID      uuid.UUID
	UserID  uuid.UUID
	Name    string
	Address string
}
