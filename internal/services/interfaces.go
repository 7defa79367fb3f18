package services

import (
	"time"

	"homeledger/internal/models"
	"homeledger/internal/pagination"
	"homeledger/internal/stats"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(name, email, password string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id uint) (*models.User, error)
	VerifyPassword(user *models.User, password string) bool
	AttemptLogin(email, password string) (*models.User, error)
	StoreRefreshTokenHash(userID uint, tokenHash string) error
	GetRefreshTokenHash(userID uint) (string, error)
	GetHouseholdUsers(userID uint) ([]models.User, error)
}

// MemberView is the canonical representation of a household member,
// assembled from the membership entry and its user record.
type MemberView struct {
	UserID   uint                 `json:"user_id"`
	Name     string               `json:"name"`
	Email    string               `json:"email"`
	Role     models.HouseholdRole `json:"role"`
	JoinedAt time.Time            `json:"joined_at"`
}

// HouseholdServicer defines the contract for household membership logic.
type HouseholdServicer interface {
	CreateHousehold(ownerID uint, name string) (*models.Household, error)
	JoinHousehold(userID uint, inviteCode string) (*models.Household, error)
	GetUserHousehold(userID uint) (*models.Household, error)
	RenameHousehold(actorID uint, name string) (*models.Household, error)
	GetMembers(userID uint) ([]MemberView, error)
	GetInviteCode(actorID uint) (string, error)
	RemoveMember(actorID, targetUserID uint) error
	ChangeRole(actorID, targetUserID uint, newRole models.HouseholdRole) (*MemberView, error)
	LeaveHousehold(userID uint) error
}

// BillFilter holds optional filter parameters for listing bills.
type BillFilter struct {
	Category *models.BillCategory
	Status   *models.BillStatus
	FromDate *time.Time
	ToDate   *time.Time
}

// BillUpdate holds the mutable fields of a bill; nil means "leave unchanged".
type BillUpdate struct {
	Name              *string
	Amount            *int64
	Category          *models.BillCategory
	DueDate           *time.Time
	Description       *string
	PaymentMethod     *models.PaymentMethod
	IsRecurring       *bool
	RecurringInterval *models.RecurringInterval
}

// BillServicer defines the contract for bill-related business logic.
type BillServicer interface {
	CreateBill(userID uint, name string, amount int64, category models.BillCategory, dueDate time.Time, description string, paymentMethod models.PaymentMethod, isRecurring bool, interval models.RecurringInterval) (*models.Bill, error)
	GetUserBills(userID uint, page pagination.PageRequest, filter BillFilter) (*pagination.PageResponse[models.Bill], error)
	GetBillByID(userID, billID uint) (*models.Bill, error)
	UpdateBill(userID, billID uint, update BillUpdate) (*models.Bill, error)
	DeleteBill(userID, billID uint) error
	MarkAsPaid(userID, billID uint, reference string) (*models.Bill, error)
	GetBillStats(userID uint, ref time.Time) (*stats.Summary, error)
}

// ExpenseFilter holds optional filter parameters for listing expenses.
type ExpenseFilter struct {
	Category *models.ExpenseCategory
	FromDate *time.Time
	ToDate   *time.Time
}

// ExpenseUpdate holds the mutable fields of an expense; nil means "leave unchanged".
type ExpenseUpdate struct {
	Amount        *int64
	Category      *models.ExpenseCategory
	Date          *time.Time
	Description   *string
	PaymentMethod *models.PaymentMethod
}

// ExpenseServicer defines the contract for expense-related business logic.
type ExpenseServicer interface {
	CreateExpense(userID uint, amount int64, category models.ExpenseCategory, date time.Time, description string, paymentMethod models.PaymentMethod) (*models.Expense, error)
	GetUserExpenses(userID uint, page pagination.PageRequest, filter ExpenseFilter) (*pagination.PageResponse[models.Expense], error)
	GetExpenseByID(userID, expenseID uint) (*models.Expense, error)
	UpdateExpense(userID, expenseID uint, update ExpenseUpdate) (*models.Expense, error)
	DeleteExpense(userID, expenseID uint) error
	GetExpenseStats(userID uint, ref time.Time) (*stats.Summary, error)
}

// ContributionFilter holds optional filter parameters for listing contributions.
type ContributionFilter struct {
	Category *models.ContributionCategory
	Status   *models.ContributionStatus
	FromDate *time.Time
	ToDate   *time.Time
}

// ContributionUpdate holds the mutable fields of a contribution; nil means "leave unchanged".
type ContributionUpdate struct {
	Amount        *int64
	Category      *models.ContributionCategory
	Status        *models.ContributionStatus
	Date          *time.Time
	Description   *string
	PaymentMethod *models.PaymentMethod
}

// ContributionServicer defines the contract for contribution-related business logic.
type ContributionServicer interface {
	CreateContribution(userID uint, amount int64, category models.ContributionCategory, date time.Time, description string, paymentMethod models.PaymentMethod) (*models.Contribution, error)
	GetUserContributions(userID uint, page pagination.PageRequest, filter ContributionFilter) (*pagination.PageResponse[models.Contribution], error)
	GetContributionByID(userID, contributionID uint) (*models.Contribution, error)
	UpdateContribution(userID, contributionID uint, update ContributionUpdate) (*models.Contribution, error)
	DeleteContribution(userID, contributionID uint) error
	GetContributionStats(userID uint, ref time.Time) (*stats.Summary, error)
}

// NotificationServicer defines the contract for notification logic.
type NotificationServicer interface {
	Notify(userID uint, notificationType models.NotificationType, title, message string) error
	GetUserNotifications(userID uint, page pagination.PageRequest, unreadOnly bool) (*pagination.PageResponse[models.Notification], error)
	MarkRead(userID, notificationID uint) (*models.Notification, error)
	MarkAllRead(userID uint) error
	DeleteNotification(userID, notificationID uint) error
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(userID uint, action, resourceType string, resourceID uint, ipAddress string, changes map[string]interface{})
}
