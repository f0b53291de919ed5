// Package analytics computes reporting projections over a transaction
// collection: expense totals per category, time-bucketed income/expense
// series, and per-property profit.
//
// All projections are pure. Date-range and category filters are the caller's
// responsibility; the aggregator consumes whatever collection it is given.
package analytics

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/homeledger/homeledger/internal/reference"
	"github.com/homeledger/homeledger/internal/transaction"
)

// Granularity selects the time-series bucket size.
type Granularity string

const (
	GranularityDaily   Granularity = "daily"
	GranularityWeekly  Granularity = "weekly"
	GranularityMonthly Granularity = "monthly"
)

// Valid reports whether g is a known granularity.
func (g Granularity) Valid() bool {
	switch g {
	case GranularityDaily, GranularityWeekly, GranularityMonthly:
		return true
	}

	return false
}

// CategoryTotal is one row of the expense-by-category projection.
type CategoryTotal struct {
	CategoryID uuid.UUID
	Name       string
	Total      decimal.Decimal
}

// Bucket is one time-aligned aggregation unit. Key sorts chronologically;
// Label is the human-readable form.
type Bucket struct {
	Key     string
	Label   string
	Income  decimal.Decimal
	Expense decimal.Decimal
	Net     decimal.Decimal
}

// PropertyProfit is one row of the per-property projection. Profit keeps its
// sign; loss-making properties report a negative value.
type PropertyProfit struct {
	PropertyID uuid.UUID
	Name       string
	Income     decimal.Decimal
	Expense    decimal.Decimal
	Profit     decimal.Decimal
}

// Report bundles the three projections.
type Report struct {
	CategoryTotals []CategoryTotal
	TimeSeries     []Bucket
	PropertyProfit []PropertyProfit
}

// Reference carries the category and property metadata the projections need
// for naming rows. IDs missing from the maps still aggregate; their rows get
// an empty name.
type Reference struct {
	Categories map[uuid.UUID]reference.Category
	Properties map[uuid.UUID]reference.Property
}

// BuildReport runs all three projections over the given collection.
func BuildReport(txs []*transaction.Transaction, refs Reference, g Granularity) Report {
	return Report{
		CategoryTotals: CategoryTotals(txs, refs.Categories),
		TimeSeries:     TimeSeries(txs, g),
		PropertyProfit: PropertyProfits(txs, refs.Properties),
	}
}

// CategoryTotals sums expense amounts per category. Income transactions are
// ignored: this projection is expense-focused. Only categories with a
// positive total are emitted, sorted descending by total.
func CategoryTotals(txs []*transaction.Transaction, categories map[uuid.UUID]reference.Category) []CategoryTotal {
	sums := make(map[uuid.UUID]decimal.Decimal)

	for _, t := range txs {
		if t.Type != transaction.TypeExpense {
			continue
		}

		sums[t.CategoryID] = sums[t.CategoryID].Add(t.Amount)
	}

	totals := make([]CategoryTotal, 0, len(sums))

	for id, total := range sums {
		if !total.IsPositive() {
			continue
		}

		totals = append(totals, CategoryTotal{
			CategoryID: id,
			Name:       categories[id].Name,
			Total:      total,
		})
	}

	sort.Slice(totals, func(i, j int) bool {
		if !totals[i].Total.Equal(totals[j].Total) {
			return totals[i].Total.GreaterThan(totals[j].Total)
		}

		return totals[i].Name < totals[j].Name
	})

	return totals
}

// TimeSeries groups transactions into buckets of the given granularity and
// sums income, expense and net per bucket. Buckets come back sorted
// ascending by key.
func TimeSeries(txs []*transaction.Transaction, g Granularity) []Bucket {
	buckets := make(map[string]*Bucket)

	for _, t := range txs {
		key, label := bucketKey(t.Date, g)

		b, ok := buckets[key]
		if !ok {
			b = &Bucket{Key: key, Label: label}
			buckets[key] = b
		}

		switch t.Type {
		case transaction.TypeIncome:
			b.Income = b.Income.Add(t.Amount)
		case transaction.TypeExpense:
			b.Expense = b.Expense.Add(t.Amount)
		}

		b.Net = b.Income.Sub(b.Expense)
	}

	out := make([]Bucket, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, *b)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })

	return out
}

// bucketKey derives the sortable key and display label for one date.
//
// Weekly keys use the ISO week (Thursday-anchored, via time.Time.ISOWeek)
// and the ISO year, zero-padded so lexical order is chronological order.
func bucketKey(date time.Time, g Granularity) (string, string) {
	switch g {
	case GranularityWeekly:
		isoYear, isoWeek := date.ISOWeek()
		return fmt.Sprintf("%d-W%02d", isoYear, isoWeek),
			fmt.Sprintf("W%d %02d", isoWeek, isoYear%100)
	case GranularityMonthly:
		return date.Format("2006-01"), date.Format("Jan 06")
	default:
		return date.Format(time.DateOnly), date.Format("Jan 2")
	}
}

// PropertyProfits sums income minus expense per property. Transactions
// without a property are excluded entirely rather than bucketed under a
// placeholder.
func PropertyProfits(txs []*transaction.Transaction, properties map[uuid.UUID]reference.Property) []PropertyProfit {
	rows := make(map[uuid.UUID]*PropertyProfit)

	for _, t := range txs {
		if t.PropertyID == nil {
			continue
		}

		id := *t.PropertyID

		row, ok := rows[id]
		if !ok {
			row = &PropertyProfit{PropertyID: id, Name: properties[id].Name}
			rows[id] = row
		}

		switch t.Type {
		case transaction.TypeIncome:
			row.Income = row.Income.Add(t.Amount)
		case transaction.TypeExpense:
			row.Expense = row.Expense.Add(t.Amount)
		}
	}

	out := make([]PropertyProfit, 0, len(rows))

	for _, row := range rows {
		row.Profit = row.Income.Sub(row.Expense)
		out = append(out, *row)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })

	return out
}
