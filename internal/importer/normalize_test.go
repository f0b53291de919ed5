package importer_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/homeledger/homeledger/internal/importer"
	"github.com/homeledger/homeledger/internal/transaction"
)

var now = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func TestNormalizeRow_AmountFormats(t *testing.T) {
	type testCase struct {
		name       string
		amount     string
		wantAmount string
		wantType   transaction.Type
	}

	tests := []testCase{
		{
			name:       "CurrencyWithThousands",
			amount:     "$1,234.56",
			wantAmount: "1234.56",
			wantType:   transaction.TypeIncome,
		},
		{
			name:       "AccountingNegative",
			amount:     "(100.00)",
			wantAmount: "100.00",
			wantType:   transaction.TypeExpense,
		},
		{
			name:       "MinusSign",
			amount:     "-50",
			wantAmount: "50",
			wantType:   transaction.TypeExpense,
		},
		{
			name:       "CurrencyAccountingNegative",
			amount:     "($45.00)",
			wantAmount: "45.00",
			wantType:   transaction.TypeExpense,
		},
		{
			name:       "PlainPositive",
			amount:     "20.5",
			wantAmount: "20.5",
			wantType:   transaction.TypeIncome,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row := map[string]string{
				"Date":        "2024-01-15",
				"Description": "Store",
				"Amount":      tt.amount,
			}

			c, ok := importer.NormalizeRow(row, now)
			require.True(t, ok)

			assert.True(t, c.Amount.Equal(decimal.RequireFromString(tt.wantAmount)),
				"got %s want %s", c.Amount, tt.wantAmount)
			assert.Equal(t, tt.wantType, c.Type)
			assert.False(t, c.Amount.IsNegative())
		})
	}
}

func TestNormalizeRow_ZeroAmountDropsRow(t *testing.T) {
	type testCase struct {
		name string
		row  map[string]string
	}

	tests := []testCase{
		{name: "ExplicitZero", row: map[string]string{"Amount": "0.00", "Date": "2024-01-01"}},
		{name: "Unparsable", row: map[string]string{"Amount": "N/A", "Date": "2024-01-01"}},
		{name: "MissingAmount", row: map[string]string{"Date": "2024-01-01", "Description": "x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := importer.NormalizeRow(tt.row, now)
			assert.False(t, ok)
		})
	}
}

func TestNormalizeRow_HeaderCasingAndWhitespace(t *testing.T) {
	row := map[string]string{
		" Posting Date ": "01/15/2024",
		"DESCRIPTION":    "Coffee shop",
		"  AMOUNT":       "4.50",
	}

	c, ok := importer.NormalizeRow(row, now)
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), c.Date)
	assert.Equal(t, "Coffee shop", c.Description)
}

func TestNormalizeRow_CandidateKeyPriority(t *testing.T) {
	// "posting date" outranks "date"; "transaction description" outranks
	// "memo".
	row := map[string]string{
		"Posting Date":            "2024-03-01",
		"Date":                    "2020-01-01",
		"Transaction Description": "Specific",
		"Memo":                    "Generic memo",
		"Amount":                  "10.00",
	}

	c, ok := importer.NormalizeRow(row, now)
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), c.Date)
	assert.Equal(t, "Specific", c.Description)
}

func TestNormalizeRow_DateFallsBackToNow(t *testing.T) {
	type testCase struct {
		name string
		row  map[string]string
	}

	tests := []testCase{
		{name: "MissingDate", row: map[string]string{"Amount": "5.00"}},
		{name: "UnparsableDate", row: map[string]string{"Amount": "5.00", "Date": "someday"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, ok := importer.NormalizeRow(tt.row, now)
			require.True(t, ok)
			assert.Equal(t, now, c.Date)
		})
	}
}

func TestNormalizeRow_PlaceholderDescription(t *testing.T) {
	c, ok := importer.NormalizeRow(map[string]string{"Amount": "5.00", "Date": "2024-01-01"}, now)
	require.True(t, ok)
	assert.Equal(t, importer.PlaceholderDescription, c.Description)
}

func TestNormalizeRow_GenericLabelUpgrade(t *testing.T) {
	type testCase struct {
		name string
		row  map[string]string
		want string
	}

	tests := []testCase{
		{
			name: "LongerDescriptionWins",
			row: map[string]string{
				"Payee":       "ACH DEBIT",
				"Description": "ACME UTILITIES MONTHLY BILL",
				"Amount":      "-80.00",
			},
			want: "ACME UTILITIES MONTHLY BILL",
		},
		{
			name: "ShorterAlternativeIgnored",
			row: map[string]string{
				"Payee":       "ACH CREDIT PAYROLL",
				"Description": "PAY",
				"Amount":      "100.00",
			},
			want: "ACH CREDIT PAYROLL",
		},
		{
			name: "NonGenericKeptAsIs",
			row: map[string]string{
				"Payee":       "Corner Bakery",
				"Description": "Corner Bakery Downtown Branch",
				"Amount":      "-12.00",
			},
			want: "Corner Bakery",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, ok := importer.NormalizeRow(tt.row, now)
			require.True(t, ok)
			assert.Equal(t, tt.want, c.Description)
		})
	}
}

func TestNormalizeRow_TypeResolution(t *testing.T) {
	type testCase struct {
		name string
		row  map[string]string
		want transaction.Type
	}

	tests := []testCase{
		{
			name: "ExplicitDebit",
			row:  map[string]string{"Amount": "25.00", "Type": "DEBIT", "Date": "2024-01-01"},
			want: transaction.TypeExpense,
		},
		{
			name: "ExplicitCredit",
			row:  map[string]string{"Amount": "25.00", "Details": "ACH CREDIT", "Date": "2024-01-01"},
			want: transaction.TypeIncome,
		},
		{
			name: "NegativeOverridesCreditLabel",
			row:  map[string]string{"Amount": "-25.00", "Type": "CREDIT", "Date": "2024-01-01"},
			want: transaction.TypeExpense,
		},
		{
			name: "PositiveDefaultsToIncome",
			row:  map[string]string{"Amount": "25.00", "Date": "2024-01-01"},
			want: transaction.TypeIncome,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, ok := importer.NormalizeRow(tt.row, now)
			require.True(t, ok)
			assert.Equal(t, tt.want, c.Type)
		})
	}
}

func TestNormalizeRow_IdempotentOnCanonicalRows(t *testing.T) {
	row := map[string]string{
		"Posting Date": "01/15/2024",
		"Description":  "DEBIT PURCHASE",
		"Amount":       "($45.00)",
	}

	first, ok := importer.NormalizeRow(row, now)
	require.True(t, ok)

	// Re-normalize the candidate's own output under canonical column names,
	// with the sign rendered from the type the way a display layer would.
	rendered := first.Amount.String()
	if first.Type == transaction.TypeExpense {
		rendered = "-" + rendered
	}

	second, ok := importer.NormalizeRow(map[string]string{
		"date":        first.Date.Format("2006-01-02"),
		"description": first.Description,
		"amount":      rendered,
	}, now)
	require.True(t, ok)

	assert.True(t, first.Amount.Equal(second.Amount))
	assert.Equal(t, first.Type, second.Type)
	assert.Equal(t, first.Description, second.Description)
}

func TestNormalizeRow_EndToEnd(t *testing.T) {
	row := map[string]string{
		"Posting Date": "01/15/2024",
		"Description":  "DEBIT PURCHASE",
		"Amount":       "($45.00)",
	}

	c, ok := importer.NormalizeRow(row, now)
	require.True(t, ok)

	assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), c.Date)
	assert.Equal(t, "DEBIT PURCHASE", c.Description)
	assert.True(t, c.Amount.Equal(decimal.RequireFromString("45.00")))
	assert.Equal(t, transaction.TypeExpense, c.Type)
}
