package models

// NotificationType represents the kind of event a notification records
type NotificationType string

const (
	NotificationTypeMemberJoined  NotificationType = "member_joined"
	NotificationTypeMemberRemoved NotificationType = "member_removed"
	NotificationTypeRoleChanged   NotificationType = "role_changed"
	NotificationTypeBillDue       NotificationType = "bill_due"
)

// Notification represents a user-facing event record
type Notification struct {
	Base
	UserID  uint             `gorm:"not null;index" json:"user_id"`
	Type    NotificationType `gorm:"size:32;not null" json:"type"`
	Title   string           `gorm:"not null" json:"title"`
	Message string           `json:"message"`
	IsRead  bool             `gorm:"default:false" json:"is_read"`
}
