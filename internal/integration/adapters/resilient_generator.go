package adapters

import (
	"context"
	"errors"
	"time"

	"github.com/sony/gobreaker"

	"github.com/spendwise/backend/internal/application/adapter"
	"github.com/spendwise/backend/internal/infra/observability"
	"github.com/spendwise/backend/internal/infra/resilience"
)

// ResilientAdviceGenerator guards an AdviceGenerator with a circuit breaker
// and a concurrency bulkhead.
type ResilientAdviceGenerator struct {
	next     adapter.AdviceGenerator
	breaker  *gobreaker.CircuitBreaker
	bulkhead *resilience.Bulkhead
	metrics  *observability.Metrics
}

var _ adapter.AdviceGenerator = (*ResilientAdviceGenerator)(nil)

// NewResilientAdviceGenerator wraps next. metrics may be nil.
func NewResilientAdviceGenerator(
	next adapter.AdviceGenerator,
	settings resilience.BreakerSettings,
	maxConcurrency int,
	metrics *observability.Metrics,
) *ResilientAdviceGenerator {
	return &ResilientAdviceGenerator{
		next:     next,
		breaker:  resilience.NewCircuitBreaker("advice-generator", settings),
		bulkhead: resilience.NewBulkhead(maxConcurrency),
		metrics:  metrics,
	}
}

// IsAvailable reports whether the wrapped generator is configured.
func (r *ResilientAdviceGenerator) IsAvailable() bool {
	return r.next.IsAvailable()
}

// Generate calls the wrapped generator. While the breaker is open it fails
// fast with gobreaker.ErrOpenState.
func (r *ResilientAdviceGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	start := time.Now()

	if err := r.bulkhead.Acquire(ctx); err != nil {
		r.metrics.ObserveAdvice(observability.AdviceOutcomeUnavailable, time.Since(start))
		return "", err
	}
	defer r.bulkhead.Release()

	result, err := r.breaker.Execute(func() (any, error) {
		return r.next.Generate(ctx, prompt)
	})
	if err != nil {
		outcome := observability.AdviceOutcomeError
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			outcome = observability.AdviceOutcomeUnavailable
		}
		r.metrics.ObserveAdvice(outcome, time.Since(start))
		return "", err
	}

	r.metrics.ObserveAdvice(observability.AdviceOutcomeSuccess, time.Since(start))
	text, _ := result.(string)
	return text, nil
}

// State returns the breaker state, for health reporting.
func (r *ResilientAdviceGenerator) State() gobreaker.State {
	return r.breaker.State()
}
