package models

import "time"

// ExpenseCategory represents the category of an expense
type ExpenseCategory string

const (
	ExpenseCategoryFood          ExpenseCategory = "food"
	ExpenseCategoryTransport     ExpenseCategory = "transport"
	ExpenseCategoryEntertainment ExpenseCategory = "entertainment"
	ExpenseCategoryHealth        ExpenseCategory = "health"
	ExpenseCategoryShopping      ExpenseCategory = "shopping"
	ExpenseCategoryUtilities     ExpenseCategory = "utilities"
	ExpenseCategoryOther         ExpenseCategory = "other"
)

// PaymentMethod represents how a financial record was paid
type PaymentMethod string

const (
	PaymentMethodCash         PaymentMethod = "cash"
	PaymentMethodCard         PaymentMethod = "card"
	PaymentMethodBankTransfer PaymentMethod = "bank_transfer"
	PaymentMethodOther        PaymentMethod = "other"
)

// Expense represents a one-off spending record owned by a single user
type Expense struct {
	Base
	UserID        uint            `gorm:"not null;index" json:"user_id"`
	Amount        int64           `gorm:"type:bigint;not null" json:"amount"`
	Category      ExpenseCategory `gorm:"size:32;not null" json:"category"`
	Date          time.Time       `gorm:"not null" json:"date"`
	Description   string          `json:"description"`
	PaymentMethod PaymentMethod   `gorm:"size:32" json:"payment_method,omitempty"`
}
