package models

import "time"

// BillCategory represents the category of a bill
type BillCategory string

const (
	BillCategoryRent         BillCategory = "rent"
	BillCategoryUtilities    BillCategory = "utilities"
	BillCategoryElectricity  BillCategory = "electricity"
	BillCategoryWater        BillCategory = "water"
	BillCategoryInternet     BillCategory = "internet"
	BillCategoryInsurance    BillCategory = "insurance"
	BillCategorySubscription BillCategory = "subscription"
	BillCategoryOther        BillCategory = "other"
)

// BillStatus represents the payment status of a bill
type BillStatus string

const (
	BillStatusPending BillStatus = "pending"
	BillStatusPaid    BillStatus = "paid"
	BillStatusOverdue BillStatus = "overdue"
)

// RecurringInterval represents how often a recurring bill repeats
type RecurringInterval string

const (
	RecurringIntervalWeekly    RecurringInterval = "weekly"
	RecurringIntervalMonthly   RecurringInterval = "monthly"
	RecurringIntervalQuarterly RecurringInterval = "quarterly"
	RecurringIntervalYearly    RecurringInterval = "yearly"
)

// NextDueDate returns the due date of the following occurrence after the
// given due date.
func (i RecurringInterval) NextDueDate(dueDate time.Time) time.Time {
	switch i {
	case RecurringIntervalWeekly:
		return dueDate.AddDate(0, 0, 7)
	case RecurringIntervalQuarterly:
		return dueDate.AddDate(0, 3, 0)
	case RecurringIntervalYearly:
		return dueDate.AddDate(1, 0, 0)
	default:
		return dueDate.AddDate(0, 1, 0)
	}
}

// Bill represents a recurring or one-off obligation owned by a single user
type Bill struct {
	Base
	UserID            uint              `gorm:"not null;index" json:"user_id"`
	Name              string            `gorm:"not null" json:"name"`
	Amount            int64             `gorm:"type:bigint;not null" json:"amount"`
	Category          BillCategory      `gorm:"size:32;not null" json:"category"`
	Status            BillStatus        `gorm:"size:16;not null;default:pending" json:"status"`
	DueDate           time.Time         `gorm:"not null" json:"due_date"`
	Description       string            `json:"description"`
	PaymentMethod     PaymentMethod     `gorm:"size:32" json:"payment_method,omitempty"`
	IsRecurring       bool              `gorm:"default:false" json:"is_recurring"`
	RecurringInterval RecurringInterval `gorm:"size:16" json:"recurring_interval,omitempty"`
	LastPaidDate      *time.Time        `json:"last_paid_date,omitempty"`

	PaymentHistory []BillPayment `gorm:"foreignKey:BillID" json:"payment_history,omitempty"`
}

// BillPayment is a single entry in a bill's append-only payment history
type BillPayment struct {
	Base
	BillID    uint      `gorm:"not null;index" json:"bill_id"`
	Amount    int64     `gorm:"type:bigint;not null" json:"amount"`
	PaidAt    time.Time `gorm:"not null" json:"paid_at"`
	Reference string    `json:"reference,omitempty"`
}
