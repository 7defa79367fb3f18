package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "homeledger/internal/errors"
	"homeledger/internal/models"
	"homeledger/internal/pagination"
)

// notificationService handles notification business logic.
type notificationService struct {
	db *gorm.DB
}

// NewNotificationService creates a new NotificationServicer.
func NewNotificationService(db *gorm.DB) NotificationServicer {
	return &notificationService{db: db}
}

// Notify records a notification for a user.
func (s *notificationService) Notify(userID uint, notificationType models.NotificationType, title, message string) error {
	notification := &models.Notification{
		UserID:  userID,
		Type:    notificationType,
		Title:   title,
		Message: message,
	}
	if err := s.db.Create(notification).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// GetUserNotifications returns a paginated list of the user's notifications,
// newest first.
func (s *notificationService) GetUserNotifications(userID uint, page pagination.PageRequest, unreadOnly bool) (*pagination.PageResponse[models.Notification], error) {
	page.Defaults()

	base := s.db.Model(&models.Notification{}).Where("user_id = ?", userID)
	if unreadOnly {
		base = base.Where("is_read = ?", false)
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var notifications []models.Notification
	if err := base.Order("created_at DESC").Scopes(pagination.Paginate(page)).Find(&notifications).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(notifications, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// MarkRead marks a single notification as read.
func (s *notificationService) MarkRead(userID, notificationID uint) (*models.Notification, error) {
	notification, err := s.getOwnedNotification(userID, notificationID)
	if err != nil {
		return nil, err
	}

	if err := s.db.Model(notification).Update("is_read", true).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return notification, nil
}

// MarkAllRead marks all of the user's notifications as read.
func (s *notificationService) MarkAllRead(userID uint) error {
	if err := s.db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// DeleteNotification deletes a notification owned by the user.
func (s *notificationService) DeleteNotification(userID, notificationID uint) error {
	notification, err := s.getOwnedNotification(userID, notificationID)
	if err != nil {
		return err
	}
	if err := s.db.Delete(notification).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// getOwnedNotification fetches a notification, distinguishing missing
// (not found) from foreign (forbidden).
func (s *notificationService) getOwnedNotification(userID, notificationID uint) (*models.Notification, error) {
	var notification models.Notification
	if err := s.db.First(&notification, notificationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotificationNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if notification.UserID != userID {
		return nil, apperrors.ErrForbidden
	}
	return &notification, nil
}
