package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "homeledger/internal/errors"
	"homeledger/internal/models"
	"homeledger/internal/pagination"
	"homeledger/internal/services"
	"homeledger/internal/stats"
)

type mockExpenseService struct {
	createExpenseFn   func(userID uint, amount int64, category models.ExpenseCategory, date time.Time, description string, paymentMethod models.PaymentMethod) (*models.Expense, error)
	getUserExpensesFn func(userID uint, page pagination.PageRequest, filter services.ExpenseFilter) (*pagination.PageResponse[models.Expense], error)
	getExpenseByIDFn  func(userID, expenseID uint) (*models.Expense, error)
	updateExpenseFn   func(userID, expenseID uint, update services.ExpenseUpdate) (*models.Expense, error)
	deleteExpenseFn   func(userID, expenseID uint) error
	getExpenseStatsFn func(userID uint, ref time.Time) (*stats.Summary, error)
}

func (m *mockExpenseService) CreateExpense(userID uint, amount int64, category models.ExpenseCategory, date time.Time, description string, paymentMethod models.PaymentMethod) (*models.Expense, error) {
	if m.createExpenseFn != nil {
		return m.createExpenseFn(userID, amount, category, date, description, paymentMethod)
	}
	return &models.Expense{}, nil
}

func (m *mockExpenseService) GetUserExpenses(userID uint, page pagination.PageRequest, filter services.ExpenseFilter) (*pagination.PageResponse[models.Expense], error) {
	if m.getUserExpensesFn != nil {
		return m.getUserExpensesFn(userID, page, filter)
	}
	return &pagination.PageResponse[models.Expense]{Data: []models.Expense{}}, nil
}

func (m *mockExpenseService) GetExpenseByID(userID, expenseID uint) (*models.Expense, error) {
	if m.getExpenseByIDFn != nil {
		return m.getExpenseByIDFn(userID, expenseID)
	}
	return &models.Expense{}, nil
}

func (m *mockExpenseService) UpdateExpense(userID, expenseID uint, update services.ExpenseUpdate) (*models.Expense, error) {
	if m.updateExpenseFn != nil {
		return m.updateExpenseFn(userID, expenseID, update)
	}
	return &models.Expense{}, nil
}

func (m *mockExpenseService) DeleteExpense(userID, expenseID uint) error {
	if m.deleteExpenseFn != nil {
		return m.deleteExpenseFn(userID, expenseID)
	}
	return nil
}

func (m *mockExpenseService) GetExpenseStats(userID uint, ref time.Time) (*stats.Summary, error) {
	if m.getExpenseStatsFn != nil {
		return m.getExpenseStatsFn(userID, ref)
	}
	return &stats.Summary{ByCategory: map[string]int64{}}, nil
}

var _ services.ExpenseServicer = (*mockExpenseService)(nil)

func setupExpenseRouter(handler *ExpenseHandler) *gin.Engine {
	r := gin.New()
	grp := r.Group("/expenses", injectUserID(1))
	grp.POST("", handler.CreateExpense)
	grp.GET("", handler.GetExpenses)
	grp.GET("/stats", handler.GetExpenseStats)
	grp.GET("/:id", handler.GetExpense)
	grp.PUT("/:id", handler.UpdateExpense)
	grp.DELETE("/:id", handler.DeleteExpense)
	return r
}

func TestExpenseHandler_CreateExpense(t *testing.T) {
	t.Run("returns 201 on success", func(t *testing.T) {
		svc := &mockExpenseService{
			createExpenseFn: func(userID uint, amount int64, category models.ExpenseCategory, date time.Time, _ string, _ models.PaymentMethod) (*models.Expense, error) {
				return &models.Expense{
					Base:     models.Base{ID: 1},
					UserID:   userID,
					Amount:   amount,
					Category: category,
					Date:     date,
				}, nil
			},
		}
		handler := NewExpenseHandler(svc)
		r := setupExpenseRouter(handler)

		rec := doRequest(r, "POST", "/expenses",
			`{"amount":4550,"category":"food","date":"2026-08-20","description":"Weekly groceries"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		expense := result["expense"].(map[string]interface{})
		if expense["amount"] != float64(4550) {
			t.Errorf("expected amount 4550, got %v", expense["amount"])
		}
		if expense["category"] != "food" {
			t.Errorf("expected category food, got %v", expense["category"])
		}
	})

	t.Run("returns 400 on unknown category", func(t *testing.T) {
		handler := NewExpenseHandler(&mockExpenseService{})
		r := setupExpenseRouter(handler)

		rec := doRequest(r, "POST", "/expenses",
			`{"amount":4550,"category":"rent","date":"2026-08-20"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})

	t.Run("returns 400 on missing date", func(t *testing.T) {
		handler := NewExpenseHandler(&mockExpenseService{})
		r := setupExpenseRouter(handler)

		rec := doRequest(r, "POST", "/expenses", `{"amount":4550,"category":"food"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 400 on unknown payment method", func(t *testing.T) {
		handler := NewExpenseHandler(&mockExpenseService{})
		r := setupExpenseRouter(handler)

		rec := doRequest(r, "POST", "/expenses",
			`{"amount":4550,"category":"food","date":"2026-08-20","payment_method":"barter"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestExpenseHandler_GetExpenses(t *testing.T) {
	t.Run("returns 200 with page of expenses", func(t *testing.T) {
		svc := &mockExpenseService{
			getUserExpensesFn: func(_ uint, page pagination.PageRequest, _ services.ExpenseFilter) (*pagination.PageResponse[models.Expense], error) {
				resp := pagination.NewPageResponse([]models.Expense{
					{Base: models.Base{ID: 1}, Amount: 4550},
				}, page.Page, page.PageSize, 1)
				return &resp, nil
			},
		}
		handler := NewExpenseHandler(svc)
		r := setupExpenseRouter(handler)

		rec := doRequest(r, "GET", "/expenses", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		data := result["data"].([]interface{})
		if len(data) != 1 {
			t.Errorf("expected 1 expense, got %d", len(data))
		}
	})

	t.Run("forwards date range to the service", func(t *testing.T) {
		var gotFilter services.ExpenseFilter
		svc := &mockExpenseService{
			getUserExpensesFn: func(_ uint, _ pagination.PageRequest, filter services.ExpenseFilter) (*pagination.PageResponse[models.Expense], error) {
				gotFilter = filter
				return &pagination.PageResponse[models.Expense]{Data: []models.Expense{}}, nil
			},
		}
		handler := NewExpenseHandler(svc)
		r := setupExpenseRouter(handler)

		rec := doRequest(r, "GET", "/expenses?from=2026-08-01&to=2026-08-31", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if gotFilter.FromDate == nil || gotFilter.ToDate == nil {
			t.Fatal("date range not forwarded")
		}
		if gotFilter.FromDate.Month() != time.August {
			t.Errorf("expected August, got %v", gotFilter.FromDate.Month())
		}
	})

	t.Run("returns 400 on malformed date filter", func(t *testing.T) {
		handler := NewExpenseHandler(&mockExpenseService{})
		r := setupExpenseRouter(handler)

		rec := doRequest(r, "GET", "/expenses?from=yesterday", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestExpenseHandler_GetExpense(t *testing.T) {
	t.Run("returns 200 with expense", func(t *testing.T) {
		svc := &mockExpenseService{
			getExpenseByIDFn: func(_, expenseID uint) (*models.Expense, error) {
				return &models.Expense{Base: models.Base{ID: expenseID}, Amount: 4550}, nil
			},
		}
		handler := NewExpenseHandler(svc)
		r := setupExpenseRouter(handler)

		rec := doRequest(r, "GET", "/expenses/2", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("returns 404 on unknown expense", func(t *testing.T) {
		svc := &mockExpenseService{
			getExpenseByIDFn: func(_, _ uint) (*models.Expense, error) {
				return nil, apperrors.ErrExpenseNotFound
			},
		}
		handler := NewExpenseHandler(svc)
		r := setupExpenseRouter(handler)

		rec := doRequest(r, "GET", "/expenses/99", "")

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "EXPENSE_NOT_FOUND")
	})

	t.Run("returns 403 on another user's expense", func(t *testing.T) {
		svc := &mockExpenseService{
			getExpenseByIDFn: func(_, _ uint) (*models.Expense, error) {
				return nil, apperrors.ErrForbidden
			},
		}
		handler := NewExpenseHandler(svc)
		r := setupExpenseRouter(handler)

		rec := doRequest(r, "GET", "/expenses/3", "")

		if rec.Code != http.StatusForbidden {
			t.Fatalf("expected 403, got %d", rec.Code)
		}
	})
}

func TestExpenseHandler_UpdateExpense(t *testing.T) {
	t.Run("returns 200 and forwards only provided fields", func(t *testing.T) {
		var gotUpdate services.ExpenseUpdate
		svc := &mockExpenseService{
			updateExpenseFn: func(_, expenseID uint, update services.ExpenseUpdate) (*models.Expense, error) {
				gotUpdate = update
				return &models.Expense{Base: models.Base{ID: expenseID}}, nil
			},
		}
		handler := NewExpenseHandler(svc)
		r := setupExpenseRouter(handler)

		rec := doRequest(r, "PUT", "/expenses/1", `{"description":"Corrected receipt"}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if gotUpdate.Description == nil || *gotUpdate.Description != "Corrected receipt" {
			t.Error("description not forwarded")
		}
		if gotUpdate.Amount != nil {
			t.Error("absent fields should stay nil")
		}
	})

	t.Run("returns 404 on unknown expense", func(t *testing.T) {
		svc := &mockExpenseService{
			updateExpenseFn: func(_, _ uint, _ services.ExpenseUpdate) (*models.Expense, error) {
				return nil, apperrors.ErrExpenseNotFound
			},
		}
		handler := NewExpenseHandler(svc)
		r := setupExpenseRouter(handler)

		rec := doRequest(r, "PUT", "/expenses/99", `{"amount":100}`)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})
}

func TestExpenseHandler_DeleteExpense(t *testing.T) {
	t.Run("returns 200 on success", func(t *testing.T) {
		handler := NewExpenseHandler(&mockExpenseService{})
		r := setupExpenseRouter(handler)

		rec := doRequest(r, "DELETE", "/expenses/1", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("returns 403 on another user's expense", func(t *testing.T) {
		svc := &mockExpenseService{
			deleteExpenseFn: func(_, _ uint) error {
				return apperrors.ErrForbidden
			},
		}
		handler := NewExpenseHandler(svc)
		r := setupExpenseRouter(handler)

		rec := doRequest(r, "DELETE", "/expenses/1", "")

		if rec.Code != http.StatusForbidden {
			t.Fatalf("expected 403, got %d", rec.Code)
		}
	})
}

func TestExpenseHandler_GetExpenseStats(t *testing.T) {
	t.Run("returns 200 with summary", func(t *testing.T) {
		svc := &mockExpenseService{
			getExpenseStatsFn: func(_ uint, _ time.Time) (*stats.Summary, error) {
				return &stats.Summary{
					Total:      20000,
					ThisMonth:  12000,
					LastMonth:  8000,
					Count:      5,
					ByCategory: map[string]int64{"food": 12000, "transport": 8000},
				}, nil
			},
		}
		handler := NewExpenseHandler(svc)
		r := setupExpenseRouter(handler)

		rec := doRequest(r, "GET", "/expenses/stats", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		summary := result["stats"].(map[string]interface{})
		if summary["count"] != float64(5) {
			t.Errorf("expected count 5, got %v", summary["count"])
		}
	})
}
