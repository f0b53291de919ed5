package view

import (
	"time"
)

type Timeframe int

const (
	TimeframeAll       Timeframe = 0
	TimeframeThisMonth Timeframe = 1
	TimeframeLastMonth Timeframe = 2
	TimeframeThisYear  Timeframe = 3
)

const timeframeCount = 4

func (t Timeframe) String() string {
	switch t {
	case TimeframeAll:
		return "All Time"
	case TimeframeThisMonth:
		return "This Month"
	case TimeframeLastMonth:
		return "Last Month"
	case TimeframeThisYear:
		return "This Year"
	}

	return "Unknown"
}

// TimeframeToDateRange returns the inclusive date range for a timeframe.
// TimeframeAll returns zero times; callers treat those as no filter.
func TimeframeToDateRange(tf Timeframe) (time.Time, time.Time) {
	now := time.Now()

	var start, end time.Time

	switch tf {
	case TimeframeThisMonth:
		start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		end = now
	case TimeframeLastMonth:
		lastMonth := now.AddDate(0, -1, 0)
		start = time.Date(lastMonth.Year(), lastMonth.Month(), 1, 0, 0, 0, 0, lastMonth.Location())
		end = start.AddDate(0, 1, -1)
	case TimeframeThisYear:
		start = time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())
		end = now
	}

	return start, end
}
