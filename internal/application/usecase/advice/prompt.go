package advice

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/spendwise/backend/internal/domain/entity"
)

// PromptData holds everything the coaching prompt is built from.
type PromptData struct {
	Recent         []*entity.Expense
	MonthTotal     decimal.Decimal
	Predicted      int64
	CurrencySymbol string
	Month          time.Month
}

// BuildPrompt renders the coaching prompt. Expenses are listed one per line
// as "<symbol><amount> - <category>" in the order given.
func BuildPrompt(data PromptData) string {
	var sb strings.Builder

	sb.WriteString("You are a personal finance coach.\n")
	sb.WriteString("Give short, practical advice based on the user's spending patterns.\n\n")

	sb.WriteString("Recent expenses:\n")
	for _, e := range data.Recent {
		sb.WriteString(fmt.Sprintf("%s%s - %s\n", data.CurrencySymbol, e.Amount.String(), e.Category))
	}

	sb.WriteString(fmt.Sprintf("\nSpent so far in %s: %s%s\n", data.Month, data.CurrencySymbol, data.MonthTotal.StringFixed(2)))
	sb.WriteString(fmt.Sprintf("Forecast for next month: %s%d\n", data.CurrencySymbol, data.Predicted))

	sb.WriteString("\nProvide 2-3 actionable tips to improve spending habits.\n")
	sb.WriteString("Keep it concise and friendly.\n")

	return sb.String()
}
