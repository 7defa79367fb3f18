package models

import "time"

// ContributionCategory represents the category of a household contribution
type ContributionCategory string

const (
	ContributionCategoryGroceries ContributionCategory = "groceries"
	ContributionCategoryRent      ContributionCategory = "rent"
	ContributionCategoryUtilities ContributionCategory = "utilities"
	ContributionCategorySavings   ContributionCategory = "savings"
	ContributionCategoryOther     ContributionCategory = "other"
)

// ContributionStatus represents the state of a contribution
type ContributionStatus string

const (
	ContributionStatusPending   ContributionStatus = "pending"
	ContributionStatusCompleted ContributionStatus = "completed"
)

// Contribution represents money a user has put toward shared household
// costs, owned by that user
type Contribution struct {
	Base
	UserID        uint                 `gorm:"not null;index" json:"user_id"`
	Amount        int64                `gorm:"type:bigint;not null" json:"amount"`
	Category      ContributionCategory `gorm:"size:32;not null" json:"category"`
	Status        ContributionStatus   `gorm:"size:16;not null;default:completed" json:"status"`
	Date          time.Time            `gorm:"not null" json:"date"`
	Description   string               `json:"description"`
	PaymentMethod PaymentMethod        `gorm:"size:32" json:"payment_method,omitempty"`
}
