package dto

import (
	"errors"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/spendwise/backend/internal/domain/aggregation"
	"github.com/spendwise/backend/internal/domain/entity"
)

const dateLayout = "2006-01-02"

// errBadDate is returned by ParseDate for unparseable input.
var errBadDate = errors.New("date must be YYYY-MM-DD or RFC3339")

// CreateExpenseRequest represents the request body for recording an expense.
type CreateExpenseRequest struct {
	Amount   *decimal.Decimal `json:"amount"`
	Category string           `json:"category"`
	Date     *string          `json:"date,omitempty"`
}

// ExpenseResponse represents an expense in API responses.
type ExpenseResponse struct {
	ID        string    `json:"id"`
	Amount    float64   `json:"amount"`
	Category  string    `json:"category"`
	OwnerID   string    `json:"ownerId"`
	CreatedAt time.Time `json:"createdAt"`
}

// SummaryResponse is the shape of every summary endpoint.
type SummaryResponse struct {
	TotalSpent     float64            `json:"totalSpent"`
	CategoryTotals map[string]float64 `json:"categoryTotals"`
}

// MonthBucketResponse is one entry of the monthly history.
type MonthBucketResponse struct {
	Year  int     `json:"year"`
	Month int     `json:"month"`
	Total float64 `json:"total"`
}

// PredictionResponse represents the next-month forecast.
type PredictionResponse struct {
	Predicted int64                 `json:"predicted"`
	Window    []MonthBucketResponse `json:"window"`
}

// ToExpenseResponse converts a domain Expense entity to an ExpenseResponse DTO.
func ToExpenseResponse(e *entity.Expense) ExpenseResponse {
	return ExpenseResponse{
		ID:        e.ID.String(),
		Amount:    e.Amount.InexactFloat64(),
		Category:  e.Category,
		OwnerID:   e.OwnerID.String(),
		CreatedAt: e.CreatedAt,
	}
}

// ToExpenseResponses converts a slice of expenses, never returning nil.
func ToExpenseResponses(expenses []*entity.Expense) []ExpenseResponse {
	out := make([]ExpenseResponse, 0, len(expenses))
	for _, e := range expenses {
		out = append(out, ToExpenseResponse(e))
	}
	return out
}

// ToSummaryResponse converts an aggregation Summary.
func ToSummaryResponse(s aggregation.Summary) SummaryResponse {
	totals := make(map[string]float64, len(s.CategoryTotals))
	for category, amount := range s.CategoryTotals {
		totals[category] = amount.InexactFloat64()
	}
	return SummaryResponse{
		TotalSpent:     s.TotalSpent.InexactFloat64(),
		CategoryTotals: totals,
	}
}

// ToHistoryResponse converts month buckets, keeping them in ascending order.
func ToHistoryResponse(history []aggregation.MonthBucket) []MonthBucketResponse {
	out := make([]MonthBucketResponse, 0, len(history))
	for _, b := range history {
		out = append(out, MonthBucketResponse{Year: b.Year, Month: int(b.Month), Total: b.Total.InexactFloat64()})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Year != out[j].Year {
			return out[i].Year < out[j].Year
		}
		return out[i].Month < out[j].Month
	})
	return out
}

// ParseDate accepts RFC3339 or a bare YYYY-MM-DD date, which is read as
// midnight in loc.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	if t, err := time.ParseInLocation(dateLayout, s, loc); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Time{}, errBadDate
}
