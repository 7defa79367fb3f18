package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	apperrors "homeledger/internal/errors"
	"homeledger/internal/models"
	"homeledger/internal/pagination"
	"homeledger/internal/stats"
)

// expenseService handles expense-related business logic.
type expenseService struct {
	db  *gorm.DB
	loc *time.Location
}

// NewExpenseService creates a new ExpenseServicer. The location fixes the
// calendar used for stats month boundaries.
func NewExpenseService(db *gorm.DB, loc *time.Location) ExpenseServicer {
	return &expenseService{db: db, loc: loc}
}

// CreateExpense creates a new expense owned by the given user.
func (s *expenseService) CreateExpense(
	userID uint,
	amount int64,
	category models.ExpenseCategory,
	date time.Time,
	description string,
	paymentMethod models.PaymentMethod,
) (*models.Expense, error) {
	if amount < 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must not be negative")
	}

	expense := &models.Expense{
		UserID:        userID,
		Amount:        amount,
		Category:      category,
		Date:          date,
		Description:   description,
		PaymentMethod: paymentMethod,
	}

	if err := s.db.Create(expense).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return expense, nil
}

// GetUserExpenses returns a paginated list of the user's expenses with optional filters.
func (s *expenseService) GetUserExpenses(userID uint, page pagination.PageRequest, filter ExpenseFilter) (*pagination.PageResponse[models.Expense], error) {
	page.Defaults()

	base := s.db.Model(&models.Expense{}).Where("user_id = ?", userID)
	if filter.Category != nil {
		base = base.Where("category = ?", *filter.Category)
	}
	if filter.FromDate != nil {
		base = base.Where("date >= ?", *filter.FromDate)
	}
	if filter.ToDate != nil {
		base = base.Where("date <= ?", *filter.ToDate)
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var expenses []models.Expense
	if err := base.Order("date DESC").Scopes(pagination.Paginate(page)).Find(&expenses).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(expenses, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetExpenseByID returns an expense by ID if it belongs to the user.
func (s *expenseService) GetExpenseByID(userID, expenseID uint) (*models.Expense, error) {
	return s.getOwnedExpense(userID, expenseID)
}

// UpdateExpense updates an existing expense's fields.
func (s *expenseService) UpdateExpense(userID, expenseID uint, update ExpenseUpdate) (*models.Expense, error) {
	expense, err := s.getOwnedExpense(userID, expenseID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if update.Amount != nil {
		if *update.Amount < 0 {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must not be negative")
		}
		updates["amount"] = *update.Amount
	}
	if update.Category != nil {
		updates["category"] = *update.Category
	}
	if update.Date != nil {
		updates["date"] = *update.Date
	}
	if update.Description != nil {
		updates["description"] = *update.Description
	}
	if update.PaymentMethod != nil {
		updates["payment_method"] = *update.PaymentMethod
	}

	if len(updates) > 0 {
		if err := s.db.Model(expense).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}
	return expense, nil
}

// DeleteExpense deletes an expense owned by the user.
func (s *expenseService) DeleteExpense(userID, expenseID uint) error {
	expense, err := s.getOwnedExpense(userID, expenseID)
	if err != nil {
		return err
	}
	if err := s.db.Delete(expense).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// GetExpenseStats aggregates the user's expenses relative to the reference time.
func (s *expenseService) GetExpenseStats(userID uint, ref time.Time) (*stats.Summary, error) {
	var expenses []models.Expense
	if err := s.db.Where("user_id = ?", userID).Find(&expenses).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	records := make([]stats.Record, 0, len(expenses))
	for _, e := range expenses {
		records = append(records, stats.Record{
			Amount:   e.Amount,
			Category: string(e.Category),
			Date:     e.Date,
		})
	}

	summary := stats.Aggregate(records, ref, s.loc)
	return &summary, nil
}

// getOwnedExpense fetches an expense, distinguishing missing (not found)
// from foreign (forbidden).
func (s *expenseService) getOwnedExpense(userID, expenseID uint) (*models.Expense, error) {
	var expense models.Expense
	if err := s.db.First(&expense, expenseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrExpenseNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if expense.UserID != userID {
		return nil, apperrors.ErrForbidden
	}
	return &expense, nil
}
