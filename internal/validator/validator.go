// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"homeledger/internal/invite"
)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("bill_category", validateBillCategory)
		_ = v.RegisterValidation("bill_status", validateBillStatus)
		_ = v.RegisterValidation("expense_category", validateExpenseCategory)
		_ = v.RegisterValidation("contribution_category", validateContributionCategory)
		_ = v.RegisterValidation("contribution_status", validateContributionStatus)
		_ = v.RegisterValidation("payment_method", validatePaymentMethod)
		_ = v.RegisterValidation("recurring_interval", validateRecurringInterval)
		_ = v.RegisterValidation("household_role", validateHouseholdRole)
		_ = v.RegisterValidation("invite_code", validateInviteCode)
	}
}

func validateBillCategory(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "rent", "utilities", "electricity", "water", "internet", "insurance", "subscription", "other":
		return true
	}
	return false
}

func validateBillStatus(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "pending", "paid", "overdue":
		return true
	}
	return false
}

func validateExpenseCategory(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "food", "transport", "entertainment", "health", "shopping", "utilities", "other":
		return true
	}
	return false
}

func validateContributionCategory(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "groceries", "rent", "utilities", "savings", "other":
		return true
	}
	return false
}

func validateContributionStatus(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "pending", "completed":
		return true
	}
	return false
}

func validatePaymentMethod(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "cash", "card", "bank_transfer", "other":
		return true
	}
	return false
}

func validateRecurringInterval(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "weekly", "monthly", "quarterly", "yearly":
		return true
	}
	return false
}

func validateHouseholdRole(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "owner", "admin", "member", "viewer":
		return true
	}
	return false
}

func validateInviteCode(fl validator.FieldLevel) bool {
	return invite.IsValid(fl.Field().String())
}
