package controller

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/spendwise/backend/internal/application/usecase/advice"
	domainerror "github.com/spendwise/backend/internal/domain/error"
	"github.com/spendwise/backend/internal/integration/entrypoint/dto"
	"github.com/spendwise/backend/internal/integration/entrypoint/middleware"
)

// AdviceController handles spending and investment advice endpoints.
type AdviceController struct {
	service *advice.Service
}

// NewAdviceController creates a new advice controller instance.
func NewAdviceController(service *advice.Service) *AdviceController {
	return &AdviceController{
		service: service,
	}
}

// GetAdvice handles POST /advice requests.
func (c *AdviceController) GetAdvice(ctx *gin.Context) {
	userID, _ := middleware.GetUserIDFromContext(ctx)

	output, err := c.service.GetAdvice(ctx.Request.Context(), userID)
	if err != nil {
		c.handleAdviceError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.AdviceResponse{Advice: output.Advice, Generated: output.Generated})
}

// GetInvestmentAdvice handles POST /advice/investment requests.
func (c *AdviceController) GetInvestmentAdvice(ctx *gin.Context) {
	userID, _ := middleware.GetUserIDFromContext(ctx)

	var req dto.InvestmentAdviceRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid request body",
			Code:  string(domainerror.ErrCodeInvalidRiskLevel),
		})
		return
	}

	output, err := c.service.GetInvestmentAdvice(ctx.Request.Context(), advice.InvestmentAdviceInput{
		OwnerID:   userID,
		RiskLevel: req.RiskLevel,
	})
	if err != nil {
		c.handleAdviceError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.InvestmentAdviceResponse{
		RiskLevel:        string(output.RiskLevel),
		InvestmentAdvice: output.InvestmentAdvice,
		TotalSpent:       output.TotalSpent.InexactFloat64(),
	})
}

// handleAdviceError handles advice errors and returns appropriate HTTP responses.
func (c *AdviceController) handleAdviceError(ctx *gin.Context, err error) {
	var advErr *domainerror.AdviceError
	if errors.As(err, &advErr) {
		ctx.JSON(c.getStatusCodeForAdviceError(advErr.Code), dto.ErrorResponse{
			Error: advErr.Message,
			Code:  string(advErr.Code),
		})
		return
	}

	if writeExpenseError(ctx, err) {
		return
	}

	slog.Error("Unhandled advice error", "path", ctx.FullPath(), "error", err)
	writeInternalError(ctx)
}

// getStatusCodeForAdviceError maps advice error codes to HTTP status codes.
func (c *AdviceController) getStatusCodeForAdviceError(code domainerror.AdviceErrorCode) int {
	switch code {
	case domainerror.ErrCodeInvalidRiskLevel:
		return http.StatusBadRequest
	case domainerror.ErrCodeAdviceRateLimited:
		return http.StatusTooManyRequests
	case domainerror.ErrCodeAdviceGeneration:
		return http.StatusBadGateway
	case domainerror.ErrCodeAdviceUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
