package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "homeledger/internal/errors"
	"homeledger/internal/models"
	"homeledger/internal/pagination"
	"homeledger/internal/services"
)

// ContributionHandler handles contribution-related requests.
type ContributionHandler struct {
	contributionService services.ContributionServicer
}

// NewContributionHandler creates a new ContributionHandler.
func NewContributionHandler(contributionService services.ContributionServicer) *ContributionHandler {
	return &ContributionHandler{contributionService: contributionService}
}

// CreateContributionRequest represents the request payload for creating a contribution
type CreateContributionRequest struct {
	Amount        int64                       `json:"amount" binding:"min=0"`
	Category      models.ContributionCategory `json:"category" binding:"required,contribution_category"`
	Date          string                      `json:"date" binding:"required"`
	Description   string                      `json:"description" binding:"max=500"`
	PaymentMethod models.PaymentMethod        `json:"payment_method" binding:"omitempty,payment_method"`
}

// UpdateContributionRequest represents the request payload for updating a contribution.
// Omitted fields are left unchanged.
type UpdateContributionRequest struct {
	Amount        *int64                       `json:"amount" binding:"omitempty,min=0"`
	Category      *models.ContributionCategory `json:"category" binding:"omitempty,contribution_category"`
	Status        *models.ContributionStatus   `json:"status" binding:"omitempty,contribution_status"`
	Date          *string                      `json:"date"`
	Description   *string                      `json:"description" binding:"omitempty,max=500"`
	PaymentMethod *models.PaymentMethod        `json:"payment_method" binding:"omitempty,payment_method"`
}

// contributionListQuery holds the filter and pagination query parameters for listing contributions.
type contributionListQuery struct {
	pagination.PageRequest
	Category string `form:"category" binding:"omitempty,contribution_category"`
	Status   string `form:"status" binding:"omitempty,contribution_status"`
	From     string `form:"from"`
	To       string `form:"to"`
}

// CreateContribution handles contribution creation
// @Summary     Create a contribution
// @Tags        contributions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateContributionRequest true "Contribution details"
// @Success     201 {object} models.Contribution "Contribution created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /contributions [post]
func (h *ContributionHandler) CreateContribution(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateContributionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	date, err := parseFlexibleTime(req.Date)
	if err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	contribution, err := h.contributionService.CreateContribution(userID, req.Amount,
		req.Category, date, req.Description, req.PaymentMethod)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"contribution": contribution})
}

// GetContributions lists the caller's contributions
// @Summary     List contributions
// @Description List the caller's contributions with optional category/status/date filters
// @Tags        contributions
// @Produce     json
// @Security    BearerAuth
// @Param       page query int false "Page number"
// @Param       page_size query int false "Page size"
// @Param       category query string false "Filter by category"
// @Param       status query string false "Filter by status"
// @Param       from query string false "Earliest date (YYYY-MM-DD)"
// @Param       to query string false "Latest date (YYYY-MM-DD)"
// @Success     200 {object} pagination.PageResponse[models.Contribution] "Contributions"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /contributions [get]
func (h *ContributionHandler) GetContributions(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var query contributionListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	var filter services.ContributionFilter
	if query.Category != "" {
		category := models.ContributionCategory(query.Category)
		filter.Category = &category
	}
	if query.Status != "" {
		status := models.ContributionStatus(query.Status)
		filter.Status = &status
	}
	if query.From != "" {
		from, err := parseFlexibleTime(query.From)
		if err != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
			return
		}
		filter.FromDate = &from
	}
	if query.To != "" {
		to, err := parseFlexibleTime(query.To)
		if err != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
			return
		}
		filter.ToDate = &to
	}

	result, err := h.contributionService.GetUserContributions(userID, query.PageRequest, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetContribution returns a single contribution
// @Summary     Get a contribution
// @Tags        contributions
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Contribution ID"
// @Success     200 {object} models.Contribution "Contribution"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Not the owner"
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /contributions/{id} [get]
func (h *ContributionHandler) GetContribution(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	contributionID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	contribution, err := h.contributionService.GetContributionByID(userID, contributionID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"contribution": contribution})
}

// UpdateContribution updates a contribution
// @Summary     Update a contribution
// @Tags        contributions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Contribution ID"
// @Param       request body UpdateContributionRequest true "Fields to update"
// @Success     200 {object} models.Contribution "Updated contribution"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Not the owner"
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /contributions/{id} [put]
func (h *ContributionHandler) UpdateContribution(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	contributionID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateContributionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	update := services.ContributionUpdate{
		Amount:        req.Amount,
		Category:      req.Category,
		Status:        req.Status,
		Description:   req.Description,
		PaymentMethod: req.PaymentMethod,
	}
	if req.Date != nil {
		date, err := parseFlexibleTime(*req.Date)
		if err != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
			return
		}
		update.Date = &date
	}

	contribution, err := h.contributionService.UpdateContribution(userID, contributionID, update)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"contribution": contribution})
}

// DeleteContribution deletes a contribution
// @Summary     Delete a contribution
// @Tags        contributions
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Contribution ID"
// @Success     200 {object} map[string]string "Contribution deleted"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Not the owner"
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /contributions/{id} [delete]
func (h *ContributionHandler) DeleteContribution(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	contributionID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.contributionService.DeleteContribution(userID, contributionID); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Contribution deleted"})
}

// GetContributionStats returns aggregated contribution totals
// @Summary     Get contribution stats
// @Tags        contributions
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} stats.Summary "Aggregated totals"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /contributions/stats [get]
func (h *ContributionHandler) GetContributionStats(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	summary, err := h.contributionService.GetContributionStats(userID, time.Now())
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"stats": summary})
}
