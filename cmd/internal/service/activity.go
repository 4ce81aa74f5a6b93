package service

import (
	"math"
	"time"
)

// DefaultActivityMonths is the histogram span used by the profile page.
const DefaultActivityMonths = 6

type MonthActivity struct {
	Year  int
	Month time.Month
	Label string
	Count int
}

// ActivityWindowStart is the first instant of the oldest month covered by
// MonthlyActivity for the same arguments.
func ActivityWindowStart(now time.Time, monthsBack int) time.Time {
	if monthsBack <= 0 {
		monthsBack = DefaultActivityMonths
	}
	return time.Date(now.Year(), now.Month()-time.Month(monthsBack-1), 1, 0, 0, 0, 0, now.Location())
}

// MonthlyActivity buckets created by calendar month over the monthsBack
// months ending with the month of now, oldest first. Timestamps outside the
// window are ignored. Buckets are keyed by (year, month) so the same month of
// different years never merge.
func MonthlyActivity(now time.Time, created []time.Time, monthsBack int) []MonthActivity {
	if monthsBack <= 0 {
		monthsBack = DefaultActivityMonths
	}

	start := ActivityWindowStart(now, monthsBack)
	months := make([]MonthActivity, monthsBack)
	index := make(map[[2]int]int, monthsBack)

	for i := range months {
		m := start.AddDate(0, i, 0)
		months[i] = MonthActivity{Year: m.Year(), Month: m.Month(), Label: m.Month().String()}
		index[[2]int{m.Year(), int(m.Month())}] = i
	}

	for _, at := range created {
		at = at.In(now.Location())
		if i, ok := index[[2]int{at.Year(), int(at.Month())}]; ok {
			months[i].Count++
		}
	}
	return months
}

// CompletionPercentage is the share of completed notes, rounded half away
// from zero. Zero notes yield 0.
func CompletionPercentage(total, incomplete int64) int {
	if total <= 0 {
		return 0
	}
	return 100 - int(math.Round(100*float64(incomplete)/float64(total)))
}
