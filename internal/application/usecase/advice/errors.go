package advice

import (
	"context"
	"errors"
	"strings"

	"github.com/sony/gobreaker"

	domainerror "github.com/spendwise/backend/internal/domain/error"
)

// generatorFailure is a classified advice generator error.
type generatorFailure struct {
	Code      domainerror.AdviceErrorCode
	Message   string
	Retryable bool
}

func (f generatorFailure) toDomain(cause error) *domainerror.AdviceError {
	sentinel := domainerror.ErrAdviceGeneration
	if f.Code == domainerror.ErrCodeAdviceUnavailable {
		sentinel = domainerror.ErrAdviceUnavailable
	}
	return domainerror.NewAdviceError(f.Code, f.Message, errors.Join(sentinel, cause))
}

// classifyGeneratorError maps a generator error onto an advice error code and
// a retryable flag for logging.
func classifyGeneratorError(err error) generatorFailure {
	errStr := strings.ToLower(err.Error())

	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return generatorFailure{
			Code:      domainerror.ErrCodeAdviceUnavailable,
			Message:   "advice service temporarily unavailable, try again shortly",
			Retryable: true,
		}
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return generatorFailure{
			Code:      domainerror.ErrCodeAdviceGeneration,
			Message:   "advice generation timed out",
			Retryable: true,
		}
	}

	if strings.Contains(errStr, "rate limit") || strings.Contains(errStr, "quota") ||
		strings.Contains(errStr, "429") || strings.Contains(errStr, "resource exhausted") {
		return generatorFailure{
			Code:      domainerror.ErrCodeAdviceUnavailable,
			Message:   "advice rate limit reached, try again later",
			Retryable: true,
		}
	}

	if strings.Contains(errStr, "401") || strings.Contains(errStr, "403") ||
		strings.Contains(errStr, "api key") || strings.Contains(errStr, "permission denied") {
		return generatorFailure{
			Code:      domainerror.ErrCodeAdviceGeneration,
			Message:   "advice generation failed",
			Retryable: false,
		}
	}

	return generatorFailure{
		Code:      domainerror.ErrCodeAdviceGeneration,
		Message:   "advice generation failed",
		Retryable: true,
	}
}
