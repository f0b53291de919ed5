// Package dedupe identifies duplicate transactions by an exact composite
// fingerprint of calendar day, amount, description and type.
//
// Two genuinely different transactions sharing all four components are
// indistinguishable to this package; that false-positive risk is the accepted
// trade-off of an exact key.
package dedupe

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/homeledger/homeledger/internal/transaction"
)

// Key computes the duplicate fingerprint for one transaction's components.
// Only the calendar day of the date participates; time of day is ignored.
// The amount is rendered with two decimal places so numerically equal
// decimals ("45" vs "45.00") produce the same key.
func Key(date time.Time, amount decimal.Decimal, description string, typ transaction.Type) string {
	var b strings.Builder

	b.WriteString(date.Format(time.DateOnly))
	b.WriteByte('|')
	b.WriteString(amount.StringFixed(2))
	b.WriteByte('|')
	b.WriteString(description)
	b.WriteByte('|')
	b.WriteString(string(typ))

	return b.String()
}

// Fingerprint computes the duplicate key for a stored transaction.
func Fingerprint(t *transaction.Transaction) string {
	return Key(t.Date, t.Amount, t.Description, t.Type)
}

// FlagDuplicates marks each candidate whose fingerprint matches any existing
// transaction. The flag is advisory: flagged candidates stay in the returned
// slice; the caller decides whether to drop them. The input slices are not
// mutated.
func FlagDuplicates(candidates []transaction.ImportCandidate, existing []*transaction.Transaction) []transaction.ImportCandidate {
	seen := make(map[string]struct{}, len(existing))
	for _, t := range existing {
		seen[Fingerprint(t)] = struct{}{}
	}

	out := make([]transaction.ImportCandidate, len(candidates))

	for i, c := range candidates {
		_, dup := seen[Key(c.Date, c.Amount, c.Description, c.Type)]

		out[i] = c
		out[i].IsDuplicate = dup
	}

	return out
}

// FindDuplicateGroup walks the transactions in the given order, keeps the
// first occurrence of each fingerprint and returns the IDs of every later
// occurrence. The caller must supply a deterministic order; the store lists
// by creation time ascending with ID as tiebreak.
func FindDuplicateGroup(txs []*transaction.Transaction) []uuid.UUID {
	seen := make(map[string]struct{}, len(txs))

	var duplicates []uuid.UUID

	for _, t := range txs {
		key := Fingerprint(t)

		if _, ok := seen[key]; ok {
			duplicates = append(duplicates, t.ID)
			continue
		}

		seen[key] = struct{}{}
	}

	return duplicates
}
