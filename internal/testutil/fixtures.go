package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"homeledger/internal/invite"
	"homeledger/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates a user with a hashed password and unique email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	email := fmt.Sprintf("user%d@test.com", nextID())
	return CreateTestUserWithEmail(t, db, email)
}

// CreateTestUserWithEmail creates a user with the given email.
func CreateTestUserWithEmail(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Name:     fmt.Sprintf("Test User %d", nextID()),
		Email:    email,
		Password: string(hash),
		IsActive: true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestHousehold creates a household owned by the given user, with
// the owner stored as its first member.
func CreateTestHousehold(t *testing.T, db *gorm.DB, owner *models.User) *models.Household {
	t.Helper()

	code, err := invite.NewCode()
	if err != nil {
		t.Fatalf("failed to generate invite code: %v", err)
	}

	household := &models.Household{
		Name:       fmt.Sprintf("Test Household %d", nextID()),
		OwnerID:    owner.ID,
		InviteCode: code,
	}
	if err := db.Create(household).Error; err != nil {
		t.Fatalf("failed to create test household: %v", err)
	}

	AddTestMember(t, db, household, owner, models.HouseholdRoleOwner)
	return household
}

// AddTestMember adds a user to a household with the given role and keeps
// the user row in sync.
func AddTestMember(t *testing.T, db *gorm.DB, household *models.Household, user *models.User, role models.HouseholdRole) *models.HouseholdMember {
	t.Helper()

	member := &models.HouseholdMember{
		HouseholdID: household.ID,
		UserID:      user.ID,
		Role:        role,
		JoinedAt:    time.Now(),
	}
	if err := db.Create(member).Error; err != nil {
		t.Fatalf("failed to create test household member: %v", err)
	}

	if err := db.Model(user).Updates(map[string]interface{}{
		"household_id":   household.ID,
		"household_role": role,
	}).Error; err != nil {
		t.Fatalf("failed to update test user household fields: %v", err)
	}
	return member
}

// CreateTestBill creates a pending bill for the user, due a week from now.
func CreateTestBill(t *testing.T, db *gorm.DB, userID uint, amount int64) *models.Bill {
	t.Helper()

	bill := &models.Bill{
		UserID:   userID,
		Name:     fmt.Sprintf("Test Bill %d", nextID()),
		Amount:   amount,
		Category: models.BillCategoryUtilities,
		Status:   models.BillStatusPending,
		DueDate:  time.Now().AddDate(0, 0, 7),
	}
	if err := db.Create(bill).Error; err != nil {
		t.Fatalf("failed to create test bill: %v", err)
	}
	return bill
}

// CreateTestRecurringBill creates a pending recurring bill with the given interval.
func CreateTestRecurringBill(t *testing.T, db *gorm.DB, userID uint, amount int64, interval models.RecurringInterval) *models.Bill {
	t.Helper()

	bill := &models.Bill{
		UserID:            userID,
		Name:              fmt.Sprintf("Test Recurring Bill %d", nextID()),
		Amount:            amount,
		Category:          models.BillCategoryRent,
		Status:            models.BillStatusPending,
		DueDate:           time.Now().AddDate(0, 0, 7),
		IsRecurring:       true,
		RecurringInterval: interval,
	}
	if err := db.Create(bill).Error; err != nil {
		t.Fatalf("failed to create test recurring bill: %v", err)
	}
	return bill
}

// CreateTestExpense creates an expense for the user on the given date.
func CreateTestExpense(t *testing.T, db *gorm.DB, userID uint, amount int64, date time.Time) *models.Expense {
	t.Helper()

	expense := &models.Expense{
		UserID:   userID,
		Amount:   amount,
		Category: models.ExpenseCategoryFood,
		Date:     date,
	}
	if err := db.Create(expense).Error; err != nil {
		t.Fatalf("failed to create test expense: %v", err)
	}
	return expense
}

// CreateTestContribution creates a completed contribution for the user on the given date.
func CreateTestContribution(t *testing.T, db *gorm.DB, userID uint, amount int64, date time.Time) *models.Contribution {
	t.Helper()

	contribution := &models.Contribution{
		UserID:   userID,
		Amount:   amount,
		Category: models.ContributionCategoryGroceries,
		Status:   models.ContributionStatusCompleted,
		Date:     date,
	}
	if err := db.Create(contribution).Error; err != nil {
		t.Fatalf("failed to create test contribution: %v", err)
	}
	return contribution
}

// CreateTestNotification creates an unread notification for the user.
func CreateTestNotification(t *testing.T, db *gorm.DB, userID uint) *models.Notification {
	t.Helper()

	notification := &models.Notification{
		UserID: userID,
		Type:   models.NotificationTypeMemberJoined,
		Title:  fmt.Sprintf("Test Notification %d", nextID()),
	}
	if err := db.Create(notification).Error; err != nil {
		t.Fatalf("failed to create test notification: %v", err)
	}
	return notification
}
