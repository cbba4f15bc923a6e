package aggregation

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/spendwise/backend/internal/domain/entity"
)

// MonthBucket is the total spend of one calendar month.
type MonthBucket struct {
	Year  int
	Month time.Month
	Total decimal.Decimal
}

type monthKey struct {
	year  int
	month time.Month
}

// MonthlyHistory groups expenses by the (year, month) of CreatedAt in loc.
// The result holds one bucket per month that has data, oldest first.
func MonthlyHistory(expenses []*entity.Expense, loc *time.Location) []MonthBucket {
	l := orUTC(loc)
	totals := make(map[monthKey]decimal.Decimal)

	for _, e := range expenses {
		if e == nil {
			continue
		}
		local := e.CreatedAt.In(l)
		key := monthKey{year: local.Year(), month: local.Month()}
		totals[key] = totals[key].Add(e.Amount)
	}

	history := make([]MonthBucket, 0, len(totals))
	for key, total := range totals {
		history = append(history, MonthBucket{Year: key.year, Month: key.month, Total: total})
	}

	sort.Slice(history, func(i, j int) bool {
		if history[i].Year != history[j].Year {
			return history[i].Year < history[j].Year
		}
		return history[i].Month < history[j].Month
	})

	return history
}
