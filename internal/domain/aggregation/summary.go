package aggregation

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/spendwise/backend/internal/domain/entity"
)

// Summary is the total and per-category spend inside a window.
// Categories without a matching expense are absent from CategoryTotals.
type Summary struct {
	TotalSpent     decimal.Decimal
	CategoryTotals map[string]decimal.Decimal
}

// EmptySummary returns a zero-valued summary with a non-nil category map.
func EmptySummary() Summary {
	return Summary{
		TotalSpent:     decimal.Zero,
		CategoryTotals: map[string]decimal.Decimal{},
	}
}

// RangeSummary sums the expenses whose CreatedAt lies in [start, end].
// Both bounds are inclusive. A range with start after end is empty.
func RangeSummary(expenses []*entity.Expense, start, end time.Time) Summary {
	summary := EmptySummary()
	if start.After(end) {
		return summary
	}

	for _, e := range expenses {
		if e == nil || e.CreatedAt.Before(start) || e.CreatedAt.After(end) {
			continue
		}
		summary.TotalSpent = summary.TotalSpent.Add(e.Amount)
		summary.CategoryTotals[e.Category] = summary.CategoryTotals[e.Category].Add(e.Amount)
	}

	return summary
}

// DaySummary summarises the calendar day containing date, interpreted in loc.
func DaySummary(expenses []*entity.Expense, date time.Time, loc *time.Location) Summary {
	return RangeSummary(expenses, StartOfDay(date, loc), EndOfDay(date, loc))
}

// MonthSummary summarises one calendar month, interpreted in loc.
func MonthSummary(expenses []*entity.Expense, year int, month time.Month, loc *time.Location) Summary {
	start, end := MonthBounds(year, month, loc)
	return RangeSummary(expenses, start, end)
}
