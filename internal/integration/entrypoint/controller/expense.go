package controller

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/spendwise/backend/internal/application/usecase/expense"
	domainerror "github.com/spendwise/backend/internal/domain/error"
	"github.com/spendwise/backend/internal/infra/observability"
	"github.com/spendwise/backend/internal/integration/entrypoint/dto"
	"github.com/spendwise/backend/internal/integration/entrypoint/middleware"
)

// ExpenseController handles expense and summary endpoints.
type ExpenseController struct {
	service *expense.Service
	metrics *observability.Metrics
}

// NewExpenseController creates a new expense controller instance. metrics may be nil.
func NewExpenseController(service *expense.Service, metrics *observability.Metrics) *ExpenseController {
	return &ExpenseController{
		service: service,
		metrics: metrics,
	}
}

// Create handles POST /expenses requests.
func (c *ExpenseController) Create(ctx *gin.Context) {
	userID, _ := middleware.GetUserIDFromContext(ctx)

	var req dto.CreateExpenseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		writeBadRequest(ctx, domainerror.ErrCodeInvalidBody, "Invalid request body")
		return
	}

	if req.Amount == nil {
		writeBadRequest(ctx, domainerror.ErrCodeInvalidExpense, domainerror.ErrInvalidExpense.Error())
		return
	}

	input := expense.AddExpenseInput{
		OwnerID:  userID,
		Amount:   *req.Amount,
		Category: req.Category,
	}

	if req.Date != nil && *req.Date != "" {
		date, err := dto.ParseDate(*req.Date, c.service.Location())
		if err != nil {
			writeBadRequest(ctx, domainerror.ErrCodeInvalidDate, err.Error())
			return
		}
		input.Date = &date
	}

	output, err := c.service.AddExpense(ctx.Request.Context(), input)
	if err != nil {
		c.handleExpenseError(ctx, err)
		return
	}

	c.metrics.IncrExpenseCreated()
	ctx.JSON(http.StatusCreated, dto.ToExpenseResponse(output.Expense))
}

// List handles GET /expenses requests.
func (c *ExpenseController) List(ctx *gin.Context) {
	userID, _ := middleware.GetUserIDFromContext(ctx)

	expenses, err := c.service.ListExpenses(ctx.Request.Context(), userID)
	if err != nil {
		c.handleExpenseError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToExpenseResponses(expenses))
}

// MonthSummary handles GET /expenses/summary?month=&year= requests.
// Both parameters are required.
func (c *ExpenseController) MonthSummary(ctx *gin.Context) {
	userID, _ := middleware.GetUserIDFromContext(ctx)

	month, ok := requiredQueryInt(ctx, "month")
	if !ok {
		writeBadRequest(ctx, domainerror.ErrCodeInvalidPeriod, domainerror.ErrInvalidPeriod.Error())
		return
	}
	year, ok := requiredQueryInt(ctx, "year")
	if !ok {
		writeBadRequest(ctx, domainerror.ErrCodeInvalidPeriod, domainerror.ErrInvalidPeriod.Error())
		return
	}

	summary, err := c.service.MonthSummary(ctx.Request.Context(), expense.MonthSummaryInput{
		OwnerID: userID,
		Month:   month,
		Year:    year,
	})
	if err != nil {
		c.handleExpenseError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToSummaryResponse(summary))
}

// DaySummary handles GET /expenses/summary/day?date=YYYY-MM-DD requests.
// A missing date means today.
func (c *ExpenseController) DaySummary(ctx *gin.Context) {
	userID, _ := middleware.GetUserIDFromContext(ctx)

	date := c.service.Now()
	if raw := ctx.Query("date"); raw != "" {
		parsed, err := dto.ParseDate(raw, c.service.Location())
		if err != nil {
			writeBadRequest(ctx, domainerror.ErrCodeInvalidDate, err.Error())
			return
		}
		date = parsed
	}

	summary, err := c.service.DaySummary(ctx.Request.Context(), expense.DaySummaryInput{
		OwnerID: userID,
		Date:    date,
	})
	if err != nil {
		c.handleExpenseError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToSummaryResponse(summary))
}

// RangeSummary handles GET /expenses/summary/range?start=&end= requests.
// A bare end date covers that whole day.
func (c *ExpenseController) RangeSummary(ctx *gin.Context) {
	userID, _ := middleware.GetUserIDFromContext(ctx)
	loc := c.service.Location()

	rawStart, rawEnd := ctx.Query("start"), ctx.Query("end")
	if rawStart == "" || rawEnd == "" {
		writeBadRequest(ctx, domainerror.ErrCodeInvalidDate, "start and end are required")
		return
	}

	start, err := dto.ParseDate(rawStart, loc)
	if err != nil {
		writeBadRequest(ctx, domainerror.ErrCodeInvalidDate, err.Error())
		return
	}
	end, err := dto.ParseDate(rawEnd, loc)
	if err != nil {
		writeBadRequest(ctx, domainerror.ErrCodeInvalidDate, err.Error())
		return
	}
	if len(rawEnd) == len("2006-01-02") {
		end = end.AddDate(0, 0, 1).Add(-1)
	}

	summary, err := c.service.RangeSummary(ctx.Request.Context(), expense.RangeSummaryInput{
		OwnerID: userID,
		Start:   start,
		End:     end,
	})
	if err != nil {
		c.handleExpenseError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToSummaryResponse(summary))
}

// History handles GET /expenses/history requests.
func (c *ExpenseController) History(ctx *gin.Context) {
	userID, _ := middleware.GetUserIDFromContext(ctx)

	history, err := c.service.MonthlyHistory(ctx.Request.Context(), userID)
	if err != nil {
		c.handleExpenseError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToHistoryResponse(history))
}

// Prediction handles GET /expenses/prediction requests.
func (c *ExpenseController) Prediction(ctx *gin.Context) {
	userID, _ := middleware.GetUserIDFromContext(ctx)

	output, err := c.service.PredictNext(ctx.Request.Context(), userID)
	if err != nil {
		c.handleExpenseError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.PredictionResponse{
		Predicted: output.Predicted,
		Window:    dto.ToHistoryResponse(output.Window),
	})
}

// handleExpenseError handles expense errors and returns appropriate HTTP responses.
func (c *ExpenseController) handleExpenseError(ctx *gin.Context, err error) {
	if writeExpenseError(ctx, err) {
		return
	}
	slog.Error("Unhandled expense error", "path", ctx.FullPath(), "error", err)
	writeInternalError(ctx)
}

// requiredQueryInt reads an integer query parameter. Absent, empty and
// non-numeric values are all rejected.
func requiredQueryInt(ctx *gin.Context, key string) (int, bool) {
	raw, present := ctx.GetQuery(key)
	if !present || raw == "" {
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}
