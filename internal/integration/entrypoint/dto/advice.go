package dto

// AdviceResponse represents spending advice. Generated is false for the
// fixed text returned before any expense is recorded.
type AdviceResponse struct {
	Advice    string `json:"advice"`
	Generated bool   `json:"generated"`
}

// InvestmentAdviceRequest represents the request body for investment advice.
type InvestmentAdviceRequest struct {
	RiskLevel string `json:"riskLevel"`
}

// InvestmentAdviceResponse represents rule-based investment advice.
type InvestmentAdviceResponse struct {
	RiskLevel        string  `json:"riskLevel"`
	InvestmentAdvice string  `json:"investmentAdvice"`
	TotalSpent       float64 `json:"totalSpent"`
}
