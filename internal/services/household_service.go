package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	apperrors "homeledger/internal/errors"
	"homeledger/internal/invite"
	"homeledger/internal/logger"
	"homeledger/internal/models"
)

// maxInviteCodeAttempts bounds the generate-check-retry loop used to
// resolve invite code collisions.
const maxInviteCodeAttempts = 10

// householdService handles household membership business logic.
type householdService struct {
	db            *gorm.DB
	notifications NotificationServicer
}

// NewHouseholdService creates a new HouseholdServicer.
func NewHouseholdService(db *gorm.DB, notifications NotificationServicer) HouseholdServicer {
	return &householdService{db: db, notifications: notifications}
}

// CreateHousehold creates a household owned by the given user. The owner
// becomes the first member with the owner role.
func (s *householdService) CreateHousehold(ownerID uint, name string) (*models.Household, error) {
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "household name is required")
	}

	var owner models.User
	if err := s.db.First(&owner, ownerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if owner.HouseholdID != nil {
		return nil, apperrors.ErrAlreadyInHousehold
	}

	code, err := s.uniqueInviteCode()
	if err != nil {
		return nil, err
	}

	household := &models.Household{
		Name:       name,
		OwnerID:    ownerID,
		InviteCode: code,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(household).Error; err != nil {
			return err
		}

		member := &models.HouseholdMember{
			HouseholdID: household.ID,
			UserID:      ownerID,
			Role:        models.HouseholdRoleOwner,
			JoinedAt:    time.Now(),
		}
		if err := tx.Create(member).Error; err != nil {
			return err
		}

		return tx.Model(&owner).Updates(map[string]interface{}{
			"household_id":   household.ID,
			"household_role": models.HouseholdRoleOwner,
		}).Error
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return household, nil
}

// uniqueInviteCode generates an invite code and retries on collision with
// an existing household.
func (s *householdService) uniqueInviteCode() (string, error) {
	for attempt := 0; attempt < maxInviteCodeAttempts; attempt++ {
		code, err := invite.NewCode()
		if err != nil {
			return "", apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		var count int64
		if err := s.db.Model(&models.Household{}).Where("invite_code = ?", code).Count(&count).Error; err != nil {
			return "", apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if count == 0 {
			return code, nil
		}
	}
	return "", apperrors.ErrInviteCodeExhausted
}

// JoinHousehold adds the user to the household matching the invite code.
// Joining a household the user already belongs to is a no-op.
func (s *householdService) JoinHousehold(userID uint, inviteCode string) (*models.Household, error) {
	var household models.Household
	if err := s.db.Where("invite_code = ?", inviteCode).First(&household).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrInviteCodeNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if user.HouseholdID != nil {
		if *user.HouseholdID == household.ID {
			return &household, nil
		}
		return nil, apperrors.ErrAlreadyInHousehold
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		member := &models.HouseholdMember{
			HouseholdID: household.ID,
			UserID:      userID,
			Role:        models.HouseholdRoleMember,
			JoinedAt:    time.Now(),
		}
		if err := tx.Create(member).Error; err != nil {
			return err
		}

		return tx.Model(&user).Updates(map[string]interface{}{
			"household_id":   household.ID,
			"household_role": models.HouseholdRoleMember,
		}).Error
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	s.notify(household.OwnerID, models.NotificationTypeMemberJoined,
		"New household member",
		fmt.Sprintf("%s joined %s", user.Name, household.Name))

	return &household, nil
}

// GetUserHousehold returns the household the user belongs to.
func (s *householdService) GetUserHousehold(userID uint) (*models.Household, error) {
	member, err := s.membership(userID)
	if err != nil {
		return nil, err
	}

	var household models.Household
	if err := s.db.First(&household, member.HouseholdID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrHouseholdNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &household, nil
}

// RenameHousehold changes the household name. Requires owner or admin role.
func (s *householdService) RenameHousehold(actorID uint, name string) (*models.Household, error) {
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "household name is required")
	}

	actor, err := s.requireAdmin(actorID)
	if err != nil {
		return nil, err
	}

	var household models.Household
	if err := s.db.First(&household, actor.HouseholdID).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if err := s.db.Model(&household).Update("name", name).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &household, nil
}

// GetMembers lists the members of the user's household as MemberViews,
// ordered by join time.
func (s *householdService) GetMembers(userID uint) ([]MemberView, error) {
	member, err := s.membership(userID)
	if err != nil {
		return nil, err
	}

	var members []models.HouseholdMember
	if err := s.db.Preload("User").
		Where("household_id = ?", member.HouseholdID).
		Order("joined_at").
		Find(&members).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	views := make([]MemberView, 0, len(members))
	for _, m := range members {
		views = append(views, MemberView{
			UserID:   m.UserID,
			Name:     m.User.Name,
			Email:    m.User.Email,
			Role:     m.Role,
			JoinedAt: m.JoinedAt,
		})
	}
	return views, nil
}

// GetInviteCode returns the household invite code. Requires owner or admin role.
func (s *householdService) GetInviteCode(actorID uint) (string, error) {
	actor, err := s.requireAdmin(actorID)
	if err != nil {
		return "", err
	}

	var household models.Household
	if err := s.db.First(&household, actor.HouseholdID).Error; err != nil {
		return "", apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return household.InviteCode, nil
}

// RemoveMember removes a member from the actor's household. Requires owner
// or admin role; owners can only be removed by another owner, and the last
// owner can never be removed.
func (s *householdService) RemoveMember(actorID, targetUserID uint) error {
	actor, err := s.requireAdmin(actorID)
	if err != nil {
		return err
	}

	target, err := s.memberOf(actor.HouseholdID, targetUserID)
	if err != nil {
		return err
	}

	if target.Role == models.HouseholdRoleOwner {
		if actor.Role != models.HouseholdRoleOwner {
			return apperrors.ErrInsufficientRole
		}
		owners, err := s.countOwners(actor.HouseholdID)
		if err != nil {
			return err
		}
		if owners <= 1 {
			return apperrors.ErrCannotRemoveOwner
		}
	}

	if err := s.removeMembership(target); err != nil {
		return err
	}

	s.notify(targetUserID, models.NotificationTypeMemberRemoved,
		"Removed from household",
		"You were removed from your household")

	return nil
}

// ChangeRole changes a member's role. Requires owner or admin role; the
// last owner cannot be demoted.
func (s *householdService) ChangeRole(actorID, targetUserID uint, newRole models.HouseholdRole) (*MemberView, error) {
	actor, err := s.requireAdmin(actorID)
	if err != nil {
		return nil, err
	}

	target, err := s.memberOf(actor.HouseholdID, targetUserID)
	if err != nil {
		return nil, err
	}

	if target.Role == models.HouseholdRoleOwner && newRole != models.HouseholdRoleOwner {
		owners, err := s.countOwners(actor.HouseholdID)
		if err != nil {
			return nil, err
		}
		if owners <= 1 {
			return nil, apperrors.ErrLastOwner
		}
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(target).Update("role", newRole).Error; err != nil {
			return err
		}
		return tx.Model(&models.User{}).Where("id = ?", targetUserID).
			Update("household_role", newRole).Error
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	s.notify(targetUserID, models.NotificationTypeRoleChanged,
		"Household role changed",
		fmt.Sprintf("Your household role is now %s", newRole))

	var user models.User
	if err := s.db.First(&user, targetUserID).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return &MemberView{
		UserID:   target.UserID,
		Name:     user.Name,
		Email:    user.Email,
		Role:     newRole,
		JoinedAt: target.JoinedAt,
	}, nil
}

// LeaveHousehold removes the user from their own household. The last owner
// cannot leave.
func (s *householdService) LeaveHousehold(userID uint) error {
	member, err := s.membership(userID)
	if err != nil {
		return err
	}

	if member.Role == models.HouseholdRoleOwner {
		owners, err := s.countOwners(member.HouseholdID)
		if err != nil {
			return err
		}
		if owners <= 1 {
			return apperrors.ErrLastOwner
		}
	}

	return s.removeMembership(member)
}

// membership returns the user's membership entry, or ErrNotInHousehold.
func (s *householdService) membership(userID uint) (*models.HouseholdMember, error) {
	var member models.HouseholdMember
	if err := s.db.Where("user_id = ?", userID).First(&member).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotInHousehold
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &member, nil
}

// requireAdmin returns the actor's membership if their role permits
// household administration.
func (s *householdService) requireAdmin(actorID uint) (*models.HouseholdMember, error) {
	actor, err := s.membership(actorID)
	if err != nil {
		return nil, err
	}
	if !actor.Role.CanAdminister() {
		return nil, apperrors.ErrInsufficientRole
	}
	return actor, nil
}

// memberOf returns the membership of targetUserID within the given
// household, or ErrMemberNotFound.
func (s *householdService) memberOf(householdID, targetUserID uint) (*models.HouseholdMember, error) {
	var member models.HouseholdMember
	if err := s.db.Where("household_id = ? AND user_id = ?", householdID, targetUserID).
		First(&member).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrMemberNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &member, nil
}

// countOwners returns the number of members with the owner role.
func (s *householdService) countOwners(householdID uint) (int64, error) {
	var count int64
	if err := s.db.Model(&models.HouseholdMember{}).
		Where("household_id = ? AND role = ?", householdID, models.HouseholdRoleOwner).
		Count(&count).Error; err != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return count, nil
}

// removeMembership hard-deletes a membership row and clears the user's
// household fields. Membership removal is immediate, not a soft delete.
func (s *householdService) removeMembership(member *models.HouseholdMember) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Delete(member).Error; err != nil {
			return err
		}
		return tx.Model(&models.User{}).Where("id = ?", member.UserID).
			Updates(map[string]interface{}{
				"household_id":   nil,
				"household_role": "",
			}).Error
	})
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// notify records a notification without letting failures disrupt the
// membership operation that triggered it.
func (s *householdService) notify(userID uint, notificationType models.NotificationType, title, message string) {
	if s.notifications == nil {
		return
	}
	if err := s.notifications.Notify(userID, notificationType, title, message); err != nil {
		logger.Get().Errorw("failed to create notification",
			"error", err,
			"user_id", userID,
			"type", notificationType,
		)
	}
}
