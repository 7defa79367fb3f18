package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	apperrors "homeledger/internal/errors"
	"homeledger/internal/models"
	"homeledger/internal/pagination"
	"homeledger/internal/stats"
)

// contributionService handles contribution-related business logic.
type contributionService struct {
	db  *gorm.DB
	loc *time.Location
}

// NewContributionService creates a new ContributionServicer. The location
// fixes the calendar used for stats month boundaries.
func NewContributionService(db *gorm.DB, loc *time.Location) ContributionServicer {
	return &contributionService{db: db, loc: loc}
}

// CreateContribution creates a new contribution owned by the given user.
func (s *contributionService) CreateContribution(
	userID uint,
	amount int64,
	category models.ContributionCategory,
	date time.Time,
	description string,
	paymentMethod models.PaymentMethod,
) (*models.Contribution, error) {
	if amount < 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must not be negative")
	}

	contribution := &models.Contribution{
		UserID:        userID,
		Amount:        amount,
		Category:      category,
		Status:        models.ContributionStatusCompleted,
		Date:          date,
		Description:   description,
		PaymentMethod: paymentMethod,
	}

	if err := s.db.Create(contribution).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return contribution, nil
}

// GetUserContributions returns a paginated list of the user's contributions with optional filters.
func (s *contributionService) GetUserContributions(userID uint, page pagination.PageRequest, filter ContributionFilter) (*pagination.PageResponse[models.Contribution], error) {
	page.Defaults()

	base := s.db.Model(&models.Contribution{}).Where("user_id = ?", userID)
	if filter.Category != nil {
		base = base.Where("category = ?", *filter.Category)
	}
	if filter.Status != nil {
		base = base.Where("status = ?", *filter.Status)
	}
	if filter.FromDate != nil {
		base = base.Where("date >= ?", *filter.FromDate)
	}
	if filter.ToDate != nil {
		base = base.Where("date <= ?", *filter.ToDate)
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var contributions []models.Contribution
	if err := base.Order("date DESC").Scopes(pagination.Paginate(page)).Find(&contributions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(contributions, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetContributionByID returns a contribution by ID if it belongs to the user.
func (s *contributionService) GetContributionByID(userID, contributionID uint) (*models.Contribution, error) {
	return s.getOwnedContribution(userID, contributionID)
}

// UpdateContribution updates an existing contribution's fields.
func (s *contributionService) UpdateContribution(userID, contributionID uint, update ContributionUpdate) (*models.Contribution, error) {
	contribution, err := s.getOwnedContribution(userID, contributionID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if update.Amount != nil {
		if *update.Amount < 0 {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must not be negative")
		}
		updates["amount"] = *update.Amount
	}
	if update.Category != nil {
		updates["category"] = *update.Category
	}
	if update.Status != nil {
		updates["status"] = *update.Status
	}
	if update.Date != nil {
		updates["date"] = *update.Date
	}
	if update.Description != nil {
		updates["description"] = *update.Description
	}
	if update.PaymentMethod != nil {
		updates["payment_method"] = *update.PaymentMethod
	}

	if len(updates) > 0 {
		if err := s.db.Model(contribution).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}
	return contribution, nil
}

// DeleteContribution deletes a contribution owned by the user.
func (s *contributionService) DeleteContribution(userID, contributionID uint) error {
	contribution, err := s.getOwnedContribution(userID, contributionID)
	if err != nil {
		return err
	}
	if err := s.db.Delete(contribution).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// GetContributionStats aggregates the user's contributions relative to the reference time.
func (s *contributionService) GetContributionStats(userID uint, ref time.Time) (*stats.Summary, error) {
	var contributions []models.Contribution
	if err := s.db.Where("user_id = ?", userID).Find(&contributions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	records := make([]stats.Record, 0, len(contributions))
	for _, c := range contributions {
		records = append(records, stats.Record{
			Amount:   c.Amount,
			Category: string(c.Category),
			Date:     c.Date,
		})
	}

	summary := stats.Aggregate(records, ref, s.loc)
	return &summary, nil
}

// getOwnedContribution fetches a contribution, distinguishing missing
// (not found) from foreign (forbidden).
func (s *contributionService) getOwnedContribution(userID, contributionID uint) (*models.Contribution, error) {
	var contribution models.Contribution
	if err := s.db.First(&contribution, contributionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrContributionNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if contribution.UserID != userID {
		return nil, apperrors.ErrForbidden
	}
	return &contribution, nil
}
