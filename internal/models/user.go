package models

import "time"

// User represents the user model in the database
type User struct {
	Base
	Name                string        `gorm:"not null" json:"name"`
	Email               string        `gorm:"uniqueIndex;not null" json:"email"`
	Password            string        `gorm:"not null" json:"-"`
	IsActive            bool          `gorm:"default:true" json:"is_active"`
	HouseholdID         *uint         `json:"household_id,omitempty"`
	HouseholdRole       HouseholdRole `gorm:"size:16" json:"household_role,omitempty"`
	RefreshTokenHash    string        `gorm:"size:64" json:"-"`
	FailedLoginAttempts int           `gorm:"default:0" json:"-"`
	LockedUntil         *time.Time    `json:"-"`
	LastLoginAt         *time.Time    `json:"last_login_at,omitempty"`

	Bills         []Bill         `gorm:"foreignKey:UserID" json:"bills,omitempty"`
	Expenses      []Expense      `gorm:"foreignKey:UserID" json:"expenses,omitempty"`
	Contributions []Contribution `gorm:"foreignKey:UserID" json:"contributions,omitempty"`
	Notifications []Notification `gorm:"foreignKey:UserID" json:"notifications,omitempty"`
}
