package view

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"

	"github.com/homeledger/homeledger/internal/transaction"
)

const dbTimeout = 5 * time.Second

// CommonModel carries the terminal dimensions every view needs for layout.
type CommonModel struct {
	Width  int
	Height int
}

// BackMsg asks the root model to return to the menu.
type BackMsg struct{}

func Back() tea.Msg {
	return BackMsg{}
}

// FormatAmount renders a stored magnitude with the sign implied by the
// transaction type.
func FormatAmount(amount decimal.Decimal, typ transaction.Type) string {
	if typ == transaction.TypeExpense {
		return amount.Abs().Neg().StringFixed(2)
	}

	return amount.Abs().StringFixed(2)
}

// FormatDate formats a time.Time into YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(time.DateOnly)
}

// DbCtx returns a context with a standard timeout for database operations.
func DbCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), dbTimeout)
}
