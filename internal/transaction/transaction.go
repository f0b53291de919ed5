package transaction

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Type represents the type of transaction (income or expense).
type Type string

const (
	TypeIncome  Type = "income"
	TypeExpense Type = "expense"
)

// Valid reports whether t is a known transaction type.
func (t Type) Valid() bool {
	return t == TypeIncome || t == TypeExpense
}

// Source records how a transaction entered the system.
type Source string

const (
	SourceManual    Source = "manual"
	SourceRecurring Source = "recurring"
	SourceCSVImport Source = "csv_import"
)

var (
	ErrNotFound = errors.New("transaction not found")

	// ErrImportedFieldLocked is returned when an update tries to change the
	// amount or date of a CSV-imported transaction.
	ErrImportedFieldLocked = errors.New("amount and date of imported transactions cannot be changed")
)

// Transaction represents a financial transaction.
//
// Amount is always the absolute magnitude of the movement; the sign shown to
// users is derived from Type at display time and never stored.
type Transaction struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	Amount      decimal.Decimal
	Type        Type
	Source      Source
	Description string
	Date        time.Time
	CategoryID  uuid.UUID
	PropertyID  *uuid.UUID
	CreatedAt   time.Time
	UpdatedAt   *time.Time
}

// ImportCandidate is a transaction-shaped draft produced by CSV
// normalization. It is either discarded or converted into a Transaction when
// the user confirms the import; IsDuplicate is advisory and never persisted.
type ImportCandidate struct {
	Date        time.Time
	Description string
	Amount      decimal.Decimal
	Type        Type
	IsDuplicate bool
}
