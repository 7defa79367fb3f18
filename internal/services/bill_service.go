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

// billService handles bill-related business logic.
type billService struct {
	db  *gorm.DB
	loc *time.Location
}

// NewBillService creates a new BillServicer. The location fixes the
// calendar used for stats month boundaries.
func NewBillService(db *gorm.DB, loc *time.Location) BillServicer {
	return &billService{db: db, loc: loc}
}

// CreateBill creates a new bill owned by the given user.
func (s *billService) CreateBill(
	userID uint,
	name string,
	amount int64,
	category models.BillCategory,
	dueDate time.Time,
	description string,
	paymentMethod models.PaymentMethod,
	isRecurring bool,
	interval models.RecurringInterval,
) (*models.Bill, error) {
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "bill name is required")
	}
	if amount < 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must not be negative")
	}
	if isRecurring && interval == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "recurring bills require an interval")
	}

	bill := &models.Bill{
		UserID:            userID,
		Name:              name,
		Amount:            amount,
		Category:          category,
		Status:            models.BillStatusPending,
		DueDate:           dueDate,
		Description:       description,
		PaymentMethod:     paymentMethod,
		IsRecurring:       isRecurring,
		RecurringInterval: interval,
	}

	if err := s.db.Create(bill).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return bill, nil
}

// GetUserBills returns a paginated list of the user's bills with optional filters.
func (s *billService) GetUserBills(userID uint, page pagination.PageRequest, filter BillFilter) (*pagination.PageResponse[models.Bill], error) {
	page.Defaults()

	now := time.Now()

	base := s.db.Model(&models.Bill{}).Where("user_id = ?", userID)
	if filter.Category != nil {
		base = base.Where("category = ?", *filter.Category)
	}
	if filter.Status != nil {
		// Overdue is never stored; it is pending past the due date. The
		// filter has to match what the list reports, so pending and
		// overdue split the stored pending rows on the due date.
		switch *filter.Status {
		case models.BillStatusOverdue:
			base = base.Where("status = ? AND due_date < ?", models.BillStatusPending, now)
		case models.BillStatusPending:
			base = base.Where("status = ? AND due_date >= ?", models.BillStatusPending, now)
		default:
			base = base.Where("status = ?", *filter.Status)
		}
	}
	if filter.FromDate != nil {
		base = base.Where("due_date >= ?", *filter.FromDate)
	}
	if filter.ToDate != nil {
		base = base.Where("due_date <= ?", *filter.ToDate)
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var bills []models.Bill
	if err := base.Order("due_date").Scopes(pagination.Paginate(page)).Find(&bills).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	for i := range bills {
		markOverdue(&bills[i], now)
	}

	result := pagination.NewPageResponse(bills, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetBillByID returns a bill by ID if it belongs to the user.
func (s *billService) GetBillByID(userID, billID uint) (*models.Bill, error) {
	bill, err := s.getOwnedBill(userID, billID, "PaymentHistory")
	if err != nil {
		return nil, err
	}
	markOverdue(bill, time.Now())
	return bill, nil
}

// UpdateBill updates an existing bill's fields.
func (s *billService) UpdateBill(userID, billID uint, update BillUpdate) (*models.Bill, error) {
	bill, err := s.getOwnedBill(userID, billID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if update.Name != nil {
		if *update.Name == "" {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "bill name is required")
		}
		updates["name"] = *update.Name
	}
	if update.Amount != nil {
		if *update.Amount < 0 {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must not be negative")
		}
		updates["amount"] = *update.Amount
	}
	if update.Category != nil {
		updates["category"] = *update.Category
	}
	if update.DueDate != nil {
		updates["due_date"] = *update.DueDate
	}
	if update.Description != nil {
		updates["description"] = *update.Description
	}
	if update.PaymentMethod != nil {
		updates["payment_method"] = *update.PaymentMethod
	}
	if update.IsRecurring != nil {
		updates["is_recurring"] = *update.IsRecurring
	}
	if update.RecurringInterval != nil {
		updates["recurring_interval"] = *update.RecurringInterval
	}

	if len(updates) > 0 {
		if err := s.db.Model(bill).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}
	return bill, nil
}

// DeleteBill deletes a bill owned by the user.
func (s *billService) DeleteBill(userID, billID uint) error {
	bill, err := s.getOwnedBill(userID, billID)
	if err != nil {
		return err
	}
	if err := s.db.Delete(bill).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// MarkAsPaid records a payment against the bill. The status becomes paid
// (repeat calls keep it paid) and every call appends to the payment
// history. On the first transition to paid, a recurring bill spawns its
// next pending occurrence with the due date advanced by the interval.
func (s *billService) MarkAsPaid(userID, billID uint, reference string) (*models.Bill, error) {
	bill, err := s.getOwnedBill(userID, billID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	wasPaid := bill.Status == models.BillStatusPaid

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(bill).Updates(map[string]interface{}{
			"status":         models.BillStatusPaid,
			"last_paid_date": &now,
		}).Error; err != nil {
			return err
		}

		payment := &models.BillPayment{
			BillID:    bill.ID,
			Amount:    bill.Amount,
			PaidAt:    now,
			Reference: reference,
		}
		if err := tx.Create(payment).Error; err != nil {
			return err
		}

		if !wasPaid && bill.IsRecurring {
			next := nextBill(bill)
			if err := tx.Create(next).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return s.GetBillByID(userID, billID)
}

// GetBillStats aggregates the user's bills relative to the reference time.
func (s *billService) GetBillStats(userID uint, ref time.Time) (*stats.Summary, error) {
	var bills []models.Bill
	if err := s.db.Where("user_id = ?", userID).Find(&bills).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	records := make([]stats.Record, 0, len(bills))
	for _, b := range bills {
		records = append(records, stats.Record{
			Amount:   b.Amount,
			Category: string(b.Category),
			Date:     b.DueDate,
		})
	}

	summary := stats.Aggregate(records, ref, s.loc)
	return &summary, nil
}

// getOwnedBill fetches a bill, distinguishing missing (not found) from
// foreign (forbidden). Existence is checked first so a non-owner never
// learns more than "this exists".
func (s *billService) getOwnedBill(userID, billID uint, preloads ...string) (*models.Bill, error) {
	query := s.db
	for _, p := range preloads {
		query = query.Preload(p)
	}

	var bill models.Bill
	if err := query.First(&bill, billID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrBillNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if bill.UserID != userID {
		return nil, apperrors.ErrForbidden
	}
	return &bill, nil
}

// nextBill returns the next occurrence of a recurring bill: a fresh
// pending record with the due date advanced and no payment history.
func nextBill(bill *models.Bill) *models.Bill {
	return &models.Bill{
		UserID:            bill.UserID,
		Name:              bill.Name,
		Amount:            bill.Amount,
		Category:          bill.Category,
		Status:            models.BillStatusPending,
		DueDate:           bill.RecurringInterval.NextDueDate(bill.DueDate),
		Description:       bill.Description,
		PaymentMethod:     bill.PaymentMethod,
		IsRecurring:       true,
		RecurringInterval: bill.RecurringInterval,
	}
}

// markOverdue rewrites a pending bill's reported status to overdue once
// its due date has passed. The stored status stays pending.
func markOverdue(bill *models.Bill, now time.Time) {
	if bill.Status == models.BillStatusPending && bill.DueDate.Before(now) {
		bill.Status = models.BillStatusOverdue
	}
}
