package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/spendwise/backend/internal/application/usecase/advice"
	"github.com/spendwise/backend/internal/application/usecase/auth"
	"github.com/spendwise/backend/internal/application/usecase/expense"
	domainerror "github.com/spendwise/backend/internal/domain/error"
	"github.com/spendwise/backend/internal/integration/adapters"
	"github.com/spendwise/backend/internal/integration/entrypoint/dto"
	"github.com/spendwise/backend/internal/integration/entrypoint/middleware"
	"github.com/spendwise/backend/internal/integration/persistence"
	"github.com/spendwise/backend/internal/integration/persistence/model"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubGenerator struct {
	reply     string
	err       error
	available bool
}

func (g *stubGenerator) Generate(context.Context, string) (string, error) {
	return g.reply, g.err
}

func (g *stubGenerator) IsAvailable() bool {
	return g.available
}

type testServer struct {
	engine    *gin.Engine
	generator *stubGenerator
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	if err := db.AutoMigrate(&model.UserModel{}, &model.ExpenseModel{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	userRepo := persistence.NewUserRepository(db)
	expenseRepo := persistence.NewExpenseRepository(db)
	passwordService := adapters.NewPasswordServiceWithCost(bcrypt.MinCost)
	tokenService := adapters.NewTokenService("test-secret", time.Hour)

	expenseSvc := expense.NewService(expenseRepo, nil, time.UTC)
	generator := &stubGenerator{reply: "Cook at home more often.", available: true}
	adviceSvc := advice.NewService(expenseRepo, expenseSvc, generator, "₹")

	authController := NewAuthController(
		auth.NewSignupUseCase(userRepo, passwordService, tokenService),
		auth.NewLoginUseCase(userRepo, passwordService, tokenService),
	)
	expenseController := NewExpenseController(expenseSvc, nil)
	adviceController := NewAdviceController(adviceSvc)
	authMiddleware := middleware.NewAuthMiddleware(tokenService)

	r := gin.New()
	r.POST("/auth/signup", authController.Signup)
	r.POST("/auth/login", authController.Login)

	protected := r.Group("")
	protected.Use(authMiddleware.Authenticate())
	protected.POST("/expenses", expenseController.Create)
	protected.GET("/expenses", expenseController.List)
	protected.GET("/expenses/summary", expenseController.MonthSummary)
	protected.GET("/expenses/summary/day", expenseController.DaySummary)
	protected.GET("/expenses/summary/range", expenseController.RangeSummary)
	protected.GET("/expenses/history", expenseController.History)
	protected.GET("/expenses/prediction", expenseController.Prediction)
	protected.POST("/advice", adviceController.GetAdvice)
	protected.POST("/advice/investment", adviceController.GetInvestmentAdvice)

	return &testServer{engine: r, generator: generator}
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

func (s *testServer) signup(t *testing.T, email string) string {
	t.Helper()
	w := s.do(t, http.MethodPost, "/auth/signup", "", map[string]string{
		"name": "Asha", "email": email, "password": "password123",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("signup failed: %d %s", w.Code, w.Body.String())
	}
	var resp dto.AuthResponse
	decode(t, w, &resp)
	return resp.Token
}

func (s *testServer) addExpense(t *testing.T, token string, amount float64, category, date string) {
	t.Helper()
	w := s.do(t, http.MethodPost, "/expenses", token, map[string]any{
		"amount": amount, "category": category, "date": date,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("add expense failed: %d %s", w.Code, w.Body.String())
	}
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), v); err != nil {
		t.Fatalf("invalid JSON %q: %v", w.Body.String(), err)
	}
}

func assertError(t *testing.T, w *httptest.ResponseRecorder, status int, code string) {
	t.Helper()
	if w.Code != status {
		t.Fatalf("expected status %d, got %d: %s", status, w.Code, w.Body.String())
	}
	var resp dto.ErrorResponse
	decode(t, w, &resp)
	if resp.Code != code {
		t.Errorf("expected code %s, got %s", code, resp.Code)
	}
}

func TestAuthController(t *testing.T) {
	s := newTestServer(t)
	s.signup(t, "asha@example.com")

	tests := []struct {
		name   string
		path   string
		body   any
		status int
		code   string
	}{
		{
			name:   "duplicate email ignores case",
			path:   "/auth/signup",
			body:   map[string]string{"name": "A", "email": "ASHA@example.com", "password": "password123"},
			status: http.StatusConflict,
			code:   string(domainerror.ErrCodeEmailExists),
		},
		{
			name:   "weak password",
			path:   "/auth/signup",
			body:   map[string]string{"name": "B", "email": "b@example.com", "password": "short"},
			status: http.StatusBadRequest,
			code:   string(domainerror.ErrCodeWeakPassword),
		},
		{
			name:   "invalid email",
			path:   "/auth/signup",
			body:   map[string]string{"name": "B", "email": "not-an-email", "password": "password123"},
			status: http.StatusBadRequest,
			code:   string(domainerror.ErrCodeInvalidEmail),
		},
		{
			name:   "malformed body",
			path:   "/auth/signup",
			body:   "{",
			status: http.StatusBadRequest,
			code:   string(domainerror.ErrCodeMissingFields),
		},
		{
			name:   "wrong password",
			path:   "/auth/login",
			body:   map[string]string{"email": "asha@example.com", "password": "wrong-password"},
			status: http.StatusUnauthorized,
			code:   string(domainerror.ErrCodeInvalidCredentials),
		},
		{
			name:   "unknown email",
			path:   "/auth/login",
			body:   map[string]string{"email": "nobody@example.com", "password": "password123"},
			status: http.StatusUnauthorized,
			code:   string(domainerror.ErrCodeInvalidCredentials),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertError(t, s.do(t, http.MethodPost, tt.path, "", tt.body), tt.status, tt.code)
		})
	}

	t.Run("login succeeds", func(t *testing.T) {
		w := s.do(t, http.MethodPost, "/auth/login", "", map[string]string{
			"email": "Asha@Example.com", "password": "password123",
		})
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
		}
		var resp dto.AuthResponse
		decode(t, w, &resp)
		if resp.Token == "" || resp.User.Email != "asha@example.com" {
			t.Errorf("unexpected response: %+v", resp)
		}
	})
}

func TestExpenseController_Create(t *testing.T) {
	s := newTestServer(t)
	token := s.signup(t, "asha@example.com")

	tests := []struct {
		name   string
		body   any
		status int
		code   string
	}{
		{name: "missing amount", body: map[string]any{"category": "Food"}, status: http.StatusBadRequest, code: string(domainerror.ErrCodeInvalidExpense)},
		{name: "zero amount", body: map[string]any{"amount": 0, "category": "Food"}, status: http.StatusBadRequest, code: string(domainerror.ErrCodeInvalidExpense)},
		{name: "sub-cent amount", body: map[string]any{"amount": 0.001, "category": "Food"}, status: http.StatusBadRequest, code: string(domainerror.ErrCodeInvalidExpense)},
		{name: "amount beyond column", body: map[string]any{"amount": 1e20, "category": "Food"}, status: http.StatusBadRequest, code: string(domainerror.ErrCodeInvalidExpense)},
		{name: "blank category", body: map[string]any{"amount": 10, "category": "  "}, status: http.StatusBadRequest, code: string(domainerror.ErrCodeInvalidExpense)},
		{name: "bad date", body: map[string]any{"amount": 10, "category": "Food", "date": "15/03/2024"}, status: http.StatusBadRequest, code: string(domainerror.ErrCodeInvalidDate)},
		{name: "malformed body", body: "{\"amount\": ", status: http.StatusBadRequest, code: string(domainerror.ErrCodeInvalidBody)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertError(t, s.do(t, http.MethodPost, "/expenses", token, tt.body), tt.status, tt.code)
		})
	}

	t.Run("created", func(t *testing.T) {
		w := s.do(t, http.MethodPost, "/expenses", token, map[string]any{
			"amount": "12.50", "category": " Food ", "date": "2024-03-10",
		})
		if w.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
		}
		var resp dto.ExpenseResponse
		decode(t, w, &resp)
		if resp.Amount != 12.5 || resp.Category != "Food" {
			t.Errorf("unexpected expense: %+v", resp)
		}
		if !resp.CreatedAt.Equal(time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)) {
			t.Errorf("unexpected createdAt %s", resp.CreatedAt)
		}
	})

	t.Run("requires token", func(t *testing.T) {
		w := s.do(t, http.MethodPost, "/expenses", "", map[string]any{"amount": 1, "category": "Food"})
		if w.Code != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", w.Code)
		}
	})
}

func TestExpenseController_ListIsOwnerScoped(t *testing.T) {
	s := newTestServer(t)
	asha := s.signup(t, "asha@example.com")
	ravi := s.signup(t, "ravi@example.com")

	s.addExpense(t, asha, 10, "Food", "2024-03-01")
	s.addExpense(t, asha, 20, "Travel", "2024-03-05")
	s.addExpense(t, ravi, 99, "Food", "2024-03-02")

	var list []dto.ExpenseResponse
	decode(t, s.do(t, http.MethodGet, "/expenses", asha, nil), &list)

	if len(list) != 2 {
		t.Fatalf("expected 2 expenses, got %d", len(list))
	}
	if list[0].Category != "Travel" || list[1].Category != "Food" {
		t.Errorf("expected newest first, got %s then %s", list[0].Category, list[1].Category)
	}
}

func TestExpenseController_Summaries(t *testing.T) {
	s := newTestServer(t)
	token := s.signup(t, "asha@example.com")

	s.addExpense(t, token, 100, "Food", "2024-01-10")
	s.addExpense(t, token, 200, "Food", "2024-02-10")
	s.addExpense(t, token, 250, "Food", "2024-03-10")
	s.addExpense(t, token, 50.5, "Travel", "2024-03-31")

	t.Run("month", func(t *testing.T) {
		var resp dto.SummaryResponse
		w := s.do(t, http.MethodGet, "/expenses/summary?month=3&year=2024", token, nil)
		decode(t, w, &resp)
		if resp.TotalSpent != 300.5 {
			t.Errorf("expected 300.5, got %v", resp.TotalSpent)
		}
		if resp.CategoryTotals["Food"] != 250 || resp.CategoryTotals["Travel"] != 50.5 {
			t.Errorf("unexpected category totals %v", resp.CategoryTotals)
		}
	})

	t.Run("day", func(t *testing.T) {
		var resp dto.SummaryResponse
		decode(t, s.do(t, http.MethodGet, "/expenses/summary/day?date=2024-02-10", token, nil), &resp)
		if resp.TotalSpent != 200 {
			t.Errorf("expected 200, got %v", resp.TotalSpent)
		}
	})

	t.Run("range with bare end date covers the whole day", func(t *testing.T) {
		var resp dto.SummaryResponse
		w := s.do(t, http.MethodGet, "/expenses/summary/range?start=2024-03-01&end=2024-03-31", token, nil)
		decode(t, w, &resp)
		if resp.TotalSpent != 300.5 {
			t.Errorf("expected 300.5, got %v", resp.TotalSpent)
		}
	})

	t.Run("inverted range is empty", func(t *testing.T) {
		var resp dto.SummaryResponse
		decode(t, s.do(t, http.MethodGet, "/expenses/summary/range?start=2024-03-31&end=2024-03-01", token, nil), &resp)
		if resp.TotalSpent != 0 || len(resp.CategoryTotals) != 0 {
			t.Errorf("expected empty summary, got %+v", resp)
		}
	})

	t.Run("history", func(t *testing.T) {
		var resp []dto.MonthBucketResponse
		decode(t, s.do(t, http.MethodGet, "/expenses/history", token, nil), &resp)
		if len(resp) != 3 {
			t.Fatalf("expected 3 buckets, got %d", len(resp))
		}
		if resp[0].Month != 1 || resp[2].Month != 3 || resp[2].Total != 300.5 {
			t.Errorf("unexpected history %+v", resp)
		}
	})

	t.Run("prediction", func(t *testing.T) {
		var resp dto.PredictionResponse
		decode(t, s.do(t, http.MethodGet, "/expenses/prediction", token, nil), &resp)
		// (100 + 200 + 300.5) / 3 = 200.1666...
		if resp.Predicted != 200 {
			t.Errorf("expected 200, got %d", resp.Predicted)
		}
		if len(resp.Window) != 3 {
			t.Errorf("expected 3 window buckets, got %d", len(resp.Window))
		}
	})

	badRequests := []struct {
		name string
		path string
		code string
	}{
		{name: "missing month and year", path: "/expenses/summary", code: string(domainerror.ErrCodeInvalidPeriod)},
		{name: "missing year", path: "/expenses/summary?month=3", code: string(domainerror.ErrCodeInvalidPeriod)},
		{name: "missing month", path: "/expenses/summary?year=2024", code: string(domainerror.ErrCodeInvalidPeriod)},
		{name: "empty month", path: "/expenses/summary?month=&year=2024", code: string(domainerror.ErrCodeInvalidPeriod)},
		{name: "non-numeric month", path: "/expenses/summary?month=march&year=2024", code: string(domainerror.ErrCodeInvalidPeriod)},
		{name: "month out of range", path: "/expenses/summary?month=13&year=2024", code: string(domainerror.ErrCodeInvalidPeriod)},
		{name: "bad day", path: "/expenses/summary/day?date=yesterday", code: string(domainerror.ErrCodeInvalidDate)},
		{name: "range missing end", path: "/expenses/summary/range?start=2024-03-01", code: string(domainerror.ErrCodeInvalidDate)},
		{name: "range bad start", path: "/expenses/summary/range?start=x&end=2024-03-01", code: string(domainerror.ErrCodeInvalidDate)},
	}
	for _, tt := range badRequests {
		t.Run(tt.name, func(t *testing.T) {
			assertError(t, s.do(t, http.MethodGet, tt.path, token, nil), http.StatusBadRequest, tt.code)
		})
	}
}

func TestAdviceController(t *testing.T) {
	s := newTestServer(t)
	token := s.signup(t, "asha@example.com")

	t.Run("no expenses", func(t *testing.T) {
		var resp dto.AdviceResponse
		decode(t, s.do(t, http.MethodPost, "/advice", token, nil), &resp)
		if resp.Advice != advice.NoExpensesAdvice || resp.Generated {
			t.Errorf("unexpected advice %+v", resp)
		}
	})

	s.addExpense(t, token, 1500, "Rent", "2024-03-01")

	t.Run("generated", func(t *testing.T) {
		var resp dto.AdviceResponse
		w := s.do(t, http.MethodPost, "/advice", token, nil)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
		}
		decode(t, w, &resp)
		if resp.Advice != "Cook at home more often." || !resp.Generated {
			t.Errorf("unexpected advice %+v", resp)
		}
	})

	t.Run("generator failure", func(t *testing.T) {
		s.generator.err = errors.New("upstream exploded")
		defer func() { s.generator.err = nil }()
		assertError(t, s.do(t, http.MethodPost, "/advice", token, nil), http.StatusBadGateway, string(domainerror.ErrCodeAdviceGeneration))
	})

	t.Run("generator unavailable", func(t *testing.T) {
		s.generator.available = false
		defer func() { s.generator.available = true }()
		assertError(t, s.do(t, http.MethodPost, "/advice", token, nil), http.StatusServiceUnavailable, string(domainerror.ErrCodeAdviceUnavailable))
	})

	t.Run("investment", func(t *testing.T) {
		var resp dto.InvestmentAdviceResponse
		w := s.do(t, http.MethodPost, "/advice/investment", token, map[string]string{"riskLevel": "HIGH"})
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
		}
		decode(t, w, &resp)
		if resp.RiskLevel != "High" || resp.TotalSpent != 1500 || resp.InvestmentAdvice == "" {
			t.Errorf("unexpected response %+v", resp)
		}
	})

	t.Run("investment with unknown risk", func(t *testing.T) {
		w := s.do(t, http.MethodPost, "/advice/investment", token, map[string]string{"riskLevel": "yolo"})
		assertError(t, w, http.StatusBadRequest, string(domainerror.ErrCodeInvalidRiskLevel))
	})
}

func TestHealthController(t *testing.T) {
	tests := []struct {
		name       string
		db         func() bool
		cache      func() bool
		hitRatio   func() float64
		wantStatus int
		want       HealthResponse
	}{
		{
			name:       "healthy without cache",
			db:         func() bool { return true },
			wantStatus: http.StatusOK,
			want:       HealthResponse{Status: "ok", Database: "connected", Cache: "disabled"},
		},
		{
			name:       "cache down is not fatal",
			db:         func() bool { return true },
			cache:      func() bool { return false },
			wantStatus: http.StatusOK,
			want:       HealthResponse{Status: "ok", Database: "connected", Cache: "disconnected"},
		},
		{
			name:       "database down",
			db:         func() bool { return false },
			cache:      func() bool { return true },
			wantStatus: http.StatusServiceUnavailable,
			want:       HealthResponse{Status: "degraded", Database: "disconnected", Cache: "connected"},
		},
		{
			name:       "reports cache hit ratio",
			db:         func() bool { return true },
			cache:      func() bool { return true },
			hitRatio:   func() float64 { return 0.75 },
			wantStatus: http.StatusOK,
			want:       HealthResponse{Status: "ok", Database: "connected", Cache: "connected", CacheHitRatio: 0.75},
		},
		{
			name:       "hit ratio hidden while cache disabled",
			db:         func() bool { return true },
			hitRatio:   func() float64 { return 0.75 },
			wantStatus: http.StatusOK,
			want:       HealthResponse{Status: "ok", Database: "connected", Cache: "disabled"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.GET("/health", NewHealthController(tt.db, tt.cache).WithCacheHitRatio(tt.hitRatio).Check)

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

			if w.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d", tt.wantStatus, w.Code)
			}
			var got HealthResponse
			decode(t, w, &got)
			got.Timestamp = ""
			if got != tt.want {
				t.Errorf("expected %+v, got %+v", tt.want, got)
			}
		})
	}
}
