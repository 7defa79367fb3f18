package models

import "time"

// HouseholdRole represents a user's role within a household
type HouseholdRole string

const (
	HouseholdRoleOwner  HouseholdRole = "owner"
	HouseholdRoleAdmin  HouseholdRole = "admin"
	HouseholdRoleMember HouseholdRole = "member"
	HouseholdRoleViewer HouseholdRole = "viewer"
)

// CanAdminister reports whether the role may perform household
// administrative actions (remove members, change roles, view the
// invite code).
func (r HouseholdRole) CanAdminister() bool {
	return r == HouseholdRoleOwner || r == HouseholdRoleAdmin
}

// Household represents a named group of users sharing finances
type Household struct {
	Base
	Name       string `gorm:"not null" json:"name"`
	OwnerID    uint   `gorm:"not null" json:"owner_id"`
	InviteCode string `gorm:"uniqueIndex;size:8;not null" json:"-"`

	Members []HouseholdMember `gorm:"foreignKey:HouseholdID" json:"members,omitempty"`
}

// HouseholdMember represents a user's membership in a household
type HouseholdMember struct {
	Base
	HouseholdID uint          `gorm:"not null;index" json:"household_id"`
	UserID      uint          `gorm:"not null;index" json:"user_id"`
	Role        HouseholdRole `gorm:"size:16;not null" json:"role"`
	JoinedAt    time.Time     `gorm:"not null" json:"joined_at"`

	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
