package advice

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	domainerror "github.com/spendwise/backend/internal/domain/error"
)

// RiskLevel is an investor's stated appetite for volatility.
type RiskLevel string

const (
	RiskLow    RiskLevel = "Low"
	RiskMedium RiskLevel = "Medium"
	RiskHigh   RiskLevel = "High"
)

var investmentAdvice = map[RiskLevel]string{
	RiskLow: `You have a low risk appetite.
Recommended options:
• Fixed Deposits
• Debt mutual funds
• Recurring deposits
• Emergency fund (6 months expenses)
Avoid volatile investments.`,
	RiskMedium: `You have a moderate risk appetite.
Recommended options:
• SIPs in index funds
• Balanced mutual funds
• Some exposure to ETFs
Maintain diversification.`,
	RiskHigh: `You have a high risk appetite.
Recommended options:
• Equity mutual funds
• Index ETFs
• Long-term SIPs
Ensure emergency fund before investing.`,
}

// ParseRiskLevel matches low, medium or high case-insensitively.
func ParseRiskLevel(s string) (RiskLevel, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low":
		return RiskLow, true
	case "medium":
		return RiskMedium, true
	case "high":
		return RiskHigh, true
	default:
		return "", false
	}
}

// InvestmentAdviceInput represents the input for investment advice.
type InvestmentAdviceInput struct {
	OwnerID   uuid.UUID
	RiskLevel string
}

// InvestmentAdviceOutput represents rule-based investment advice.
type InvestmentAdviceOutput struct {
	RiskLevel        RiskLevel
	InvestmentAdvice string
	TotalSpent       decimal.Decimal
}

// GetInvestmentAdvice returns the recommendation for the risk level together
// with the owner's all-time spend.
func (s *Service) GetInvestmentAdvice(ctx context.Context, input InvestmentAdviceInput) (*InvestmentAdviceOutput, error) {
	level, ok := ParseRiskLevel(input.RiskLevel)
	if !ok {
		return nil, domainerror.NewAdviceError(
			domainerror.ErrCodeInvalidRiskLevel,
			"riskLevel must be Low, Medium or High",
			domainerror.ErrInvalidRiskLevel,
		)
	}

	total, err := s.expenses.TotalSpent(ctx, input.OwnerID)
	if err != nil {
		return nil, err
	}

	return &InvestmentAdviceOutput{
		RiskLevel:        level,
		InvestmentAdvice: investmentAdvice[level],
		TotalSpent:       total,
	}, nil
}
