// Package stats summarizes dated, amount-bearing records into dashboard
// totals. Aggregation is pure: the reference time and calendar location
// are passed in explicitly so results are reproducible.
package stats

import "time"

// Record is a single dated amount with a category. Amounts are in cents.
type Record struct {
	Amount   int64
	Category string
	Date     time.Time
}

// Summary holds aggregated totals for a set of records.
type Summary struct {
	Total      int64            `json:"total"`
	ByCategory map[string]int64 `json:"by_category"`
	ThisMonth  int64            `json:"this_month"`
	LastMonth  int64            `json:"last_month"`
	Count      int              `json:"count"`
}

// Aggregate computes totals over records relative to the given reference
// time in the given location. "This month" covers [first of ref's month,
// ref]; "last month" covers the entire previous calendar month.
func Aggregate(records []Record, ref time.Time, loc *time.Location) Summary {
	ref = ref.In(loc)
	thisMonthStart := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, loc)
	lastMonthStart := thisMonthStart.AddDate(0, -1, 0)

	summary := Summary{
		ByCategory: make(map[string]int64),
		Count:      len(records),
	}

	for _, r := range records {
		summary.Total += r.Amount
		summary.ByCategory[r.Category] += r.Amount

		d := r.Date.In(loc)
		switch {
		case !d.Before(thisMonthStart) && !d.After(ref):
			summary.ThisMonth += r.Amount
		case !d.Before(lastMonthStart) && d.Before(thisMonthStart):
			summary.LastMonth += r.Amount
		}
	}

	return summary
}
