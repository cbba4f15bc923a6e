package advice

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/spendwise/backend/internal/application/usecase/expense"
	"github.com/spendwise/backend/internal/domain/aggregation"
	"github.com/spendwise/backend/internal/domain/entity"
	domainerror "github.com/spendwise/backend/internal/domain/error"
)

const (
	// NoExpensesAdvice is returned when the owner has nothing recorded yet.
	NoExpensesAdvice = "Start tracking your expenses to get personalized advice!"

	// FallbackAdvice is returned when the generator replies with no text.
	FallbackAdvice = "Track expenses consistently to get better insights."
)

// GetAdviceOutput represents generated spending advice.
type GetAdviceOutput struct {
	Advice    string
	Generated bool
}

// GetAdvice builds a coaching prompt from the owner's recent expenses, this
// month's total and next month's forecast, and asks the generator for tips.
func (s *Service) GetAdvice(ctx context.Context, ownerID uuid.UUID) (*GetAdviceOutput, error) {
	if ownerID == uuid.Nil {
		return nil, domainerror.NewExpenseError(
			domainerror.ErrCodeNotAuthenticated,
			"not authenticated",
			domainerror.ErrNotAuthenticated,
		)
	}

	var (
		recent     []*entity.Expense
		monthTotal aggregation.Summary
		forecast   *expense.PredictNextOutput
	)

	now := s.now().In(s.expenses.Location())
	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		r, err := s.expenseRepo.FindRecentByOwner(gCtx, ownerID, RecentExpenseLimit)
		if err != nil {
			return domainerror.NewExpenseError(
				domainerror.ErrCodeStoreUnavailable,
				"expense store unavailable",
				err,
			)
		}
		recent = r
		return nil
	})

	g.Go(func() error {
		m, err := s.expenses.MonthSummary(gCtx, expense.MonthSummaryInput{
			OwnerID: ownerID,
			Month:   int(now.Month()),
			Year:    now.Year(),
		})
		if err != nil {
			return err
		}
		monthTotal = m
		return nil
	})

	g.Go(func() error {
		p, err := s.expenses.PredictNext(gCtx, ownerID)
		if err != nil {
			return err
		}
		forecast = p
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	if len(recent) == 0 {
		return &GetAdviceOutput{Advice: NoExpensesAdvice}, nil
	}

	if s.generator == nil || !s.generator.IsAvailable() {
		return nil, domainerror.NewAdviceError(
			domainerror.ErrCodeAdviceUnavailable,
			"advice service unavailable",
			domainerror.ErrAdviceUnavailable,
		)
	}

	prompt := BuildPrompt(PromptData{
		Recent:         recent,
		MonthTotal:     monthTotal.TotalSpent,
		Predicted:      forecast.Predicted,
		CurrencySymbol: s.currencySymbol,
		Month:          now.Month(),
	})

	start := time.Now()
	text, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		classified := classifyGeneratorError(err)
		slog.Error("Advice generation failed",
			"owner_id", ownerID,
			"code", classified.Code,
			"retryable", classified.Retryable,
			"error", err,
		)
		return nil, classified.toDomain(err)
	}

	slog.Info("Advice generated",
		"owner_id", ownerID,
		"expenses", len(recent),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	text = strings.TrimSpace(text)
	if text == "" {
		return &GetAdviceOutput{Advice: FallbackAdvice}, nil
	}
	return &GetAdviceOutput{Advice: text, Generated: true}, nil
}
