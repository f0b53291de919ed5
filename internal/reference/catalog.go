package reference

import (
	"context"

	"github.com/homeledger/homeledger/internal/transaction"
)

// catalog is the built-in category set installed on first start. Names are
// unique and act as the idempotency key for SeedCatalog.
var catalog = []CategoryParams{
	{Name: "Food", Icon: "🍔", Color: "orange", Type: transaction.TypeExpense},
	{Name: "Shopping", Icon: "🛍️", Color: "pink", Type: transaction.TypeExpense},
	{Name: "Daily", Icon: "🧴", Color: "blue", Type: transaction.TypeExpense},
	{Name: "Transport", Icon: "🚌", Color: "indigo", Type: transaction.TypeExpense},
	{Name: "Vegetables", Icon: "🥕", Color: "green", Type: transaction.TypeExpense},
	{Name: "Fruits", Icon: "🍎", Color: "red", Type: transaction.TypeExpense},
	{Name: "Snacks", Icon: "🍪", Color: "yellow", Type: transaction.TypeExpense},
	{Name: "Sports", Icon: "🏸", Color: "lime", Type: transaction.TypeExpense},
	{Name: "Entertainment", Icon: "🎮", Color: "purple", Type: transaction.TypeExpense},
	{Name: "Communication", Icon: "📱", Color: "cyan", Type: transaction.TypeExpense},
	{Name: "Clothes", Icon: "👕", Color: "rose", Type: transaction.TypeExpense},
	{Name: "Beauty", Icon: "💄", Color: "fuchsia", Type: transaction.TypeExpense},
	{Name: "Housing", Icon: "🏠", Color: "slate", Type: transaction.TypeExpense},
	{Name: "Home", Icon: "🛋️", Color: "stone", Type: transaction.TypeExpense},
	{Name: "Kids", Icon: "👶", Color: "sky", Type: transaction.TypeExpense},
	{Name: "Elders", Icon: "👴", Color: "gray", Type: transaction.TypeExpense},
	{Name: "Social", Icon: "🥂", Color: "violet", Type: transaction.TypeExpense},
	{Name: "Travel", Icon: "✈️", Color: "teal", Type: transaction.TypeExpense},
	{Name: "Alcohol", Icon: "🍷", Color: "red", Type: transaction.TypeExpense},
	{Name: "Digital", Icon: "💻", Color: "zinc", Type: transaction.TypeExpense},
	{Name: "Car", Icon: "🚗", Color: "blue", Type: transaction.TypeExpense},
	{Name: "Medical", Icon: "💊", Color: "rose", Type: transaction.TypeExpense},
	{Name: "Books", Icon: "📚", Color: "amber", Type: transaction.TypeExpense},
	{Name: "Learning", Icon: "🎓", Color: "emerald", Type: transaction.TypeExpense},
	{Name: "Pets", Icon: "🐱", Color: "orange", Type: transaction.TypeExpense},
	{Name: "Gifts", Icon: "🎁", Color: "pink", Type: transaction.TypeExpense},
	{Name: "Office", Icon: "📎", Color: "slate", Type: transaction.TypeExpense},
	{Name: "Repair", Icon: "🔧", Color: "neutral", Type: transaction.TypeExpense},
	{Name: "Donation", Icon: "❤️", Color: "rose", Type: transaction.TypeExpense},
	{Name: "Lottery", Icon: "🎫", Color: "yellow", Type: transaction.TypeExpense},
	{Name: "Relatives", Icon: "👥", Color: "indigo", Type: transaction.TypeExpense},
	{Name: "Others", Icon: "📝", Color: "gray", Type: transaction.TypeExpense},

	{Name: "Salary", Icon: "💰", Color: "green", Type: transaction.TypeIncome},
	{Name: "Part-time", Icon: "⏱️", Color: "lime", Type: transaction.TypeIncome},
	{Name: "Investment", Icon: "📈", Color: "emerald", Type: transaction.TypeIncome},
	{Name: "Rental Income", Icon: "🔑", Color: "cyan", Type: transaction.TypeIncome},
	{Name: "Bonus", Icon: "🧧", Color: "red", Type: transaction.TypeIncome},
	{Name: "Refund", Icon: "↩️", Color: "blue", Type: transaction.TypeIncome},
	{Name: "Reimbursement", Icon: "🧾", Color: "indigo", Type: transaction.TypeIncome},
	{Name: "Lottery (Win)", Icon: "🎰", Color: "yellow", Type: transaction.TypeIncome},
	{Name: "Other Income", Icon: "📥", Color: "gray", Type: transaction.TypeIncome},
}

// CatalogSize is the number of built-in categories. Exposed for startup
// logging and tests.
var CatalogSize = len(catalog)

// SeedCatalog installs the built-in categories that are not present yet and
// reports how many it created. Running it again is a no-op, so it is called
// unconditionally on every API start.
func (s *Service) SeedCatalog(ctx context.Context) (int, error) {
	existing, err := s.repo.ListCategories(ctx)
	if err != nil {
		return 0, err
	}

	have := make(map[string]struct{}, len(existing))
	for _, c := range existing {
		have[c.Name] = struct{}{}
	}

	created := 0
	for _, params := range catalog {
		if _, ok := have[params.Name]; ok {
			continue
		}

		if _, err := s.CreateCategory(ctx, params); err != nil {
			return created, err
		}
		created++
	}

	return created, nil
}
