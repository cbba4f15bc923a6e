package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domainerror "github.com/spendwise/backend/internal/domain/error"
	"github.com/spendwise/backend/internal/integration/entrypoint/dto"
)

// writeExpenseError writes err if it is an ExpenseError and reports whether it did.
func writeExpenseError(ctx *gin.Context, err error) bool {
	var expErr *domainerror.ExpenseError
	if !errors.As(err, &expErr) {
		return false
	}
	ctx.JSON(getStatusCodeForExpenseError(expErr.Code), dto.ErrorResponse{
		Error: expErr.Message,
		Code:  string(expErr.Code),
	})
	return true
}

// getStatusCodeForExpenseError maps expense error codes to HTTP status codes.
func getStatusCodeForExpenseError(code domainerror.ExpenseErrorCode) int {
	switch {
	case code.IsValidation():
		return http.StatusBadRequest
	case code == domainerror.ErrCodeNotAuthenticated:
		return http.StatusUnauthorized
	case code == domainerror.ErrCodeStoreUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeInternalError(ctx *gin.Context) {
	ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{
		Error: "An internal error occurred",
	})
}

func writeBadRequest(ctx *gin.Context, code domainerror.ExpenseErrorCode, message string) {
	ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
		Error: message,
		Code:  string(code),
	})
}
