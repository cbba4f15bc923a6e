// Package error defines domain-specific errors for the Spendwise application.
package error

import "errors"

// Expense domain errors.
var (
	// ErrInvalidExpense is returned when an expense is missing a positive amount or a category.
	ErrInvalidExpense = errors.New("amount and category required")

	// ErrCategoryTooLong is returned when the category label exceeds the maximum length.
	ErrCategoryTooLong = errors.New("category too long")

	// ErrInvalidPeriod is returned when a month or year query parameter is missing or out of range.
	ErrInvalidPeriod = errors.New("valid month and year required")

	// ErrInvalidDate is returned when a date or range bound cannot be parsed.
	ErrInvalidDate = errors.New("invalid date")

	// ErrNotAuthenticated is returned when no owner identity is available.
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrStoreUnavailable is returned when the expense store cannot serve a request.
	ErrStoreUnavailable = errors.New("expense store unavailable")
)

// ExpenseErrorCode defines error codes for expense errors.
// Format: EXP-XXYYYY where XX is category and YYYY is specific error.
type ExpenseErrorCode string

const (
	// Validation errors (01XXXX)
	ErrCodeInvalidExpense   ExpenseErrorCode = "EXP-010001"
	ErrCodeCategoryTooLong  ExpenseErrorCode = "EXP-010002"
	ErrCodeInvalidPeriod    ExpenseErrorCode = "EXP-010003"
	ErrCodeInvalidDate      ExpenseErrorCode = "EXP-010004"
	ErrCodeInvalidBody      ExpenseErrorCode = "EXP-010005"

	// Identity errors (02XXXX)
	ErrCodeNotAuthenticated ExpenseErrorCode = "EXP-020001"

	// Internal errors (99XXXX)
	ErrCodeStoreUnavailable ExpenseErrorCode = "EXP-990001"
)

// ExpenseError represents an expense error with code and message.
type ExpenseError struct {
	Code    ExpenseErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *ExpenseError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *ExpenseError) Unwrap() error {
	return e.Err
}

// NewExpenseError creates a new ExpenseError with the given code and message.
func NewExpenseError(code ExpenseErrorCode, message string, err error) *ExpenseError {
	return &ExpenseError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// IsValidation reports whether the code belongs to the validation category.
func (c ExpenseErrorCode) IsValidation() bool {
	return len(c) > 6 && c[4:6] == "01"
}
