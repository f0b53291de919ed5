package importer

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/homeledger/homeledger/internal/transaction"
)

// PlaceholderDescription is substituted when a row carries no usable
// description.
const PlaceholderDescription = "Imported Transaction"

// Field resolution tries these candidate column names in order against the
// normalized (trimmed, lowercased) header; the first present key wins.
// Adding support for a new bank export is adding its column names here.
var (
	dateKeys        = []string{"posting date", "transaction date", "date", "date (utc)", "trans_date"}
	descriptionKeys = []string{"transaction description", "description", "descriptio", "memo", "trans_desc", "payee", "details"}
	amountKeys      = []string{"amount", "value", "amount (usd)", "trans_amount"}
)

// genericLabels are bank-generated descriptions worth replacing with a more
// specific value when one exists under the literal "description" column.
var genericLabels = []string{"DEBIT", "CREDIT", "ACH DEBIT", "ACH CREDIT"}

// dateLayouts are tried in order when a date column resolves to a string.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
	"01/02/2006",
	"1/2/2006",
	"01-02-2006",
	"Jan 2, 2006",
}

// NormalizeRow turns one raw CSV row into an import candidate.
//
// Every malformed field degrades to a default (zero amount, placeholder
// description, now as the date) instead of failing the row. The only
// rejection is a final amount of exactly zero, reported by the second return.
func NormalizeRow(row map[string]string, now time.Time) (transaction.ImportCandidate, bool) {
	normalized := make(map[string]string, len(row))
	for k, v := range row {
		normalized[strings.ToLower(strings.TrimSpace(k))] = v
	}

	date := resolveDate(lookup(normalized, dateKeys), now)
	rawAmount := parseAmount(lookup(normalized, amountKeys))
	description := resolveDescription(lookup(normalized, descriptionKeys), normalized)
	typ := resolveType(normalized, rawAmount)

	amount := rawAmount.Abs()
	if amount.IsZero() {
		return transaction.ImportCandidate{}, false
	}

	return transaction.ImportCandidate{
		Date:        date,
		Description: description,
		Amount:      amount,
		Type:        typ,
	}, true
}

// lookup returns the value of the first candidate key present in the row.
func lookup(row map[string]string, candidates []string) string {
	for _, key := range candidates {
		if v, ok := row[key]; ok {
			return v
		}
	}

	return ""
}

func resolveDate(raw string, now time.Time) time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return now
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t
		}
	}

	// Unresolvable dates degrade to now rather than rejecting the row.
	return now
}

// parseAmount reads a potentially signed, currency-formatted string into a
// signed decimal. Unparsable input yields zero.
func parseAmount(raw string) decimal.Decimal {
	s := strings.TrimSpace(raw)
	if s == "" {
		return decimal.Zero
	}

	// Accounting notation wraps negatives in parentheses: (100.00).
	negative := strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")")
	if strings.Contains(s, "-") {
		negative = true
	}

	var clean strings.Builder

	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' {
			clean.WriteRune(r)
		}
	}

	d, err := decimal.NewFromString(clean.String())
	if err != nil {
		return decimal.Zero
	}

	d = d.Abs()
	if negative {
		return d.Neg()
	}

	return d
}

func resolveDescription(base string, row map[string]string) string {
	desc := strings.TrimSpace(base)
	if desc == "" {
		return PlaceholderDescription
	}

	// Generic bank labels (DEBIT, ACH CREDIT, ...) are upgraded when the
	// literal "description" column holds a longer, more specific value.
	upper := strings.ToUpper(desc)

	for _, label := range genericLabels {
		if !strings.Contains(upper, label) {
			continue
		}

		if alt := strings.TrimSpace(row["description"]); len(alt) > len(desc) {
			return alt
		}

		break
	}

	return desc
}

func resolveType(row map[string]string, rawAmount decimal.Decimal) transaction.Type {
	typ := transaction.TypeIncome
	if rawAmount.IsNegative() {
		typ = transaction.TypeExpense
	}

	label := row["details"]
	if label == "" {
		label = row["type"]
	}

	upper := strings.ToUpper(label)

	if strings.Contains(upper, "DEBIT") {
		typ = transaction.TypeExpense
	}

	if strings.Contains(upper, "CREDIT") {
		typ = transaction.TypeIncome
	}

	// Negative amounts always win over explicit labels.
	if rawAmount.IsNegative() {
		typ = transaction.TypeExpense
	}

	return typ
}
