package importer_test

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/homeledger/homeledger/internal/importer"
	"github.com/homeledger/homeledger/internal/transaction"
)

func TestService_Preview(t *testing.T) {
	csv := `Posting Date,Description,Amount
01/15/2024,DEBIT PURCHASE,($45.00)
01/16/2024,PAYROLL DEPOSIT,"$1,234.56"
01/17/2024,VOID,0.00
`

	svc := importer.NewService()

	candidates, err := svc.Preview(strings.NewReader(csv), nil)
	require.NoError(t, err)
	require.Len(t, candidates, 2)

	assert.Equal(t, "DEBIT PURCHASE", candidates[0].Description)
	assert.True(t, candidates[0].Amount.Equal(decimal.RequireFromString("45.00")))
	assert.Equal(t, transaction.TypeExpense, candidates[0].Type)
	assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), candidates[0].Date)

	assert.Equal(t, "PAYROLL DEPOSIT", candidates[1].Description)
	assert.True(t, candidates[1].Amount.Equal(decimal.RequireFromString("1234.56")))
	assert.Equal(t, transaction.TypeIncome, candidates[1].Type)
}

func TestService_Preview_FlagsDuplicates(t *testing.T) {
	csv := `Date,Description,Amount
2024-01-15,Coffee,-4.50
2024-01-16,Lunch,-12.00
`

	existing := []*transaction.Transaction{
		{
			ID:          uuid.New(),
			Amount:      decimal.RequireFromString("4.50"),
			Type:        transaction.TypeExpense,
			Description: "Coffee",
			Date:        time.Date(2024, 1, 15, 9, 30, 0, 0, time.UTC),
		},
	}

	svc := importer.NewService()

	candidates, err := svc.Preview(strings.NewReader(csv), existing)
	require.NoError(t, err)
	require.Len(t, candidates, 2)

	assert.True(t, candidates[0].IsDuplicate)
	assert.False(t, candidates[1].IsDuplicate)
}

func TestService_Preview_SemicolonDelimited(t *testing.T) {
	csv := `Date;Description;Amount
2024-02-01;Groceries;-30.00
`

	svc := importer.NewService()

	candidates, err := svc.Preview(strings.NewReader(csv), nil)
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, "Groceries", candidates[0].Description)
	assert.Equal(t, transaction.TypeExpense, candidates[0].Type)
}

func TestService_Preview_HeaderOnly(t *testing.T) {
	svc := importer.NewService()

	candidates, err := svc.Preview(strings.NewReader("Date,Description,Amount\n"), nil)
	require.NoError(t, err)
	assert.Empty(t, candidates)
}

func TestService_Preview_RaggedRowsDegradeToDefaults(t *testing.T) {
	// Short rows lose trailing fields; the normalizer falls back to defaults
	// and only the zero-amount row is dropped.
	csv := `Date,Description,Amount
2024-03-01,Partial
2024-03-02,Full,-9.99
`

	svc := importer.NewService()

	candidates, err := svc.Preview(strings.NewReader(csv), nil)
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, "Full", candidates[0].Description)
}
