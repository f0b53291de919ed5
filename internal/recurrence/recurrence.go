// Package recurrence expands a transaction template into a dated series of
// instances.
package recurrence

import (
	"time"

	"github.com/homeledger/homeledger/internal/transaction"
)

// Frequency is the repetition interval of a recurring transaction.
type Frequency string

const (
	FrequencyNone    Frequency = "none"
	FrequencyDaily   Frequency = "daily"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
	FrequencyYearly  Frequency = "yearly"
)

// Valid reports whether f is one of the known frequencies.
func (f Frequency) Valid() bool {
	switch f {
	case FrequencyNone, FrequencyDaily, FrequencyWeekly, FrequencyMonthly, FrequencyYearly:
		return true
	}

	return false
}

// MaxGenerated caps how many instances one expansion may generate beyond the
// seed.
const MaxGenerated = 500

// Spec describes one expansion request. The anchor date is the template's
// date; Until is the inclusive end of the series. A Spec is consumed once and
// never persisted.
type Spec struct {
	Frequency Frequency
	Until     *time.Time
}

// Expand produces the ordered series of transactions for a template.
//
// The unadvanced template is always emitted first with SourceManual. Each
// generated instance copies every template field except the date, which
// advances by the frequency step, and the source, which is forced to
// SourceRecurring. Month and year steps use time.AddDate, so day-of-month
// overflow normalizes the way the standard library does (Jan 31 + 1 month =
// Mar 2 or Mar 3).
//
// The walk stops at the first of: Frequency none, an instance landing past
// Until (an instance exactly on Until is included), a missing Until, or
// MaxGenerated generated instances. The second return reports whether the
// cap cut the series short. The result always has between 1 and
// MaxGenerated+1 entries.
func Expand(template transaction.Transaction, spec Spec) ([]transaction.Transaction, bool) {
	seed := template
	seed.Source = transaction.SourceManual

	series := []transaction.Transaction{seed}

	if spec.Frequency == FrequencyNone || !spec.Frequency.Valid() || spec.Until == nil {
		return series, false
	}

	current := template.Date

	for {
		current = advance(current, spec.Frequency)
		if current.After(*spec.Until) {
			return series, false
		}

		instance := template
		instance.Date = current
		instance.Source = transaction.SourceRecurring

		series = append(series, instance)

		if len(series)-1 >= MaxGenerated {
			// Only report a cut when another instance would actually have
			// landed inside the window.
			return series, !advance(current, spec.Frequency).After(*spec.Until)
		}
	}
}

func advance(t time.Time, f Frequency) time.Time {
	switch f {
	case FrequencyDaily:
		return t.AddDate(0, 0, 1)
	case FrequencyWeekly:
		return t.AddDate(0, 0, 7)
	case FrequencyMonthly:
		return t.AddDate(0, 1, 0)
	case FrequencyYearly:
		return t.AddDate(1, 0, 0)
	}

	return t
}
