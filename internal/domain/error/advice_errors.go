package error

import "errors"

// Advice domain errors.
var (
	// ErrInvalidRiskLevel is returned when the investment risk level is not Low, Medium or High.
	ErrInvalidRiskLevel = errors.New("risk level must be Low, Medium or High")

	// ErrAdviceGeneration is returned when the advice generator fails.
	ErrAdviceGeneration = errors.New("advice generation failed")

	// ErrAdviceUnavailable is returned when the advice generator is disabled or its breaker is open.
	ErrAdviceUnavailable = errors.New("advice service unavailable")
)

// AdviceErrorCode defines error codes for advice errors.
// Format: ADV-XXYYYY where XX is category and YYYY is specific error.
type AdviceErrorCode string

const (
	// Validation errors (01XXXX)
	ErrCodeInvalidRiskLevel AdviceErrorCode = "ADV-010001"

	// Throttling errors (02XXXX)
	ErrCodeAdviceRateLimited AdviceErrorCode = "ADV-020001"

	// Generator errors (03XXXX)
	ErrCodeAdviceGeneration  AdviceErrorCode = "ADV-030001"
	ErrCodeAdviceUnavailable AdviceErrorCode = "ADV-030002"
)

// AdviceError represents an advice error with code and message.
type AdviceError struct {
	Code    AdviceErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *AdviceError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *AdviceError) Unwrap() error {
	return e.Err
}

// NewAdviceError creates a new AdviceError with the given code and message.
func NewAdviceError(code AdviceErrorCode, message string, err error) *AdviceError {
	return &AdviceError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
