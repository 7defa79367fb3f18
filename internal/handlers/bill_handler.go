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

// BillHandler handles bill-related requests.
type BillHandler struct {
	billService services.BillServicer
}

// NewBillHandler creates a new BillHandler.
func NewBillHandler(billService services.BillServicer) *BillHandler {
	return &BillHandler{billService: billService}
}

// CreateBillRequest represents the request payload for creating a bill
type CreateBillRequest struct {
	Name              string                   `json:"name" binding:"required,max=100"`
	Amount            int64                    `json:"amount" binding:"min=0"`
	Category          models.BillCategory      `json:"category" binding:"required,bill_category"`
	DueDate           string                   `json:"due_date" binding:"required"`
	Description       string                   `json:"description" binding:"max=500"`
	PaymentMethod     models.PaymentMethod     `json:"payment_method" binding:"omitempty,payment_method"`
	IsRecurring       bool                     `json:"is_recurring"`
	RecurringInterval models.RecurringInterval `json:"recurring_interval" binding:"omitempty,recurring_interval"`
}

// UpdateBillRequest represents the request payload for updating a bill.
// Omitted fields are left unchanged.
type UpdateBillRequest struct {
	Name              *string                   `json:"name" binding:"omitempty,max=100"`
	Amount            *int64                    `json:"amount" binding:"omitempty,min=0"`
	Category          *models.BillCategory      `json:"category" binding:"omitempty,bill_category"`
	DueDate           *string                   `json:"due_date"`
	Description       *string                   `json:"description" binding:"omitempty,max=500"`
	PaymentMethod     *models.PaymentMethod     `json:"payment_method" binding:"omitempty,payment_method"`
	IsRecurring       *bool                     `json:"is_recurring"`
	RecurringInterval *models.RecurringInterval `json:"recurring_interval" binding:"omitempty,recurring_interval"`
}

// MarkBillPaidRequest represents the request payload for marking a bill paid
type MarkBillPaidRequest struct {
	Reference string `json:"reference" binding:"max=100"`
}

// billListQuery holds the filter and pagination query parameters for listing bills.
type billListQuery struct {
	pagination.PageRequest
	Category string `form:"category" binding:"omitempty,bill_category"`
	Status   string `form:"status" binding:"omitempty,bill_status"`
	From     string `form:"from"`
	To       string `form:"to"`
}

// CreateBill handles bill creation
// @Summary     Create a bill
// @Tags        bills
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateBillRequest true "Bill details"
// @Success     201 {object} models.Bill "Bill created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /bills [post]
func (h *BillHandler) CreateBill(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	dueDate, err := parseFlexibleTime(req.DueDate)
	if err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	bill, err := h.billService.CreateBill(userID, req.Name, req.Amount, req.Category,
		dueDate, req.Description, req.PaymentMethod, req.IsRecurring, req.RecurringInterval)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"bill": bill})
}

// GetBills lists the caller's bills
// @Summary     List bills
// @Description List the caller's bills with optional category/status/date filters
// @Tags        bills
// @Produce     json
// @Security    BearerAuth
// @Param       page query int false "Page number"
// @Param       page_size query int false "Page size"
// @Param       category query string false "Filter by category"
// @Param       status query string false "Filter by status"
// @Param       from query string false "Earliest due date (YYYY-MM-DD)"
// @Param       to query string false "Latest due date (YYYY-MM-DD)"
// @Success     200 {object} pagination.PageResponse[models.Bill] "Bills"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /bills [get]
func (h *BillHandler) GetBills(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var query billListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	filter, err := billFilterFromQuery(query)
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.billService.GetUserBills(userID, query.PageRequest, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetBill returns a single bill
// @Summary     Get a bill
// @Tags        bills
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Bill ID"
// @Success     200 {object} models.Bill "Bill"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Not the owner"
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /bills/{id} [get]
func (h *BillHandler) GetBill(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	billID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	bill, err := h.billService.GetBillByID(userID, billID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"bill": bill})
}

// UpdateBill updates a bill
// @Summary     Update a bill
// @Tags        bills
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Bill ID"
// @Param       request body UpdateBillRequest true "Fields to update"
// @Success     200 {object} models.Bill "Updated bill"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Not the owner"
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /bills/{id} [put]
func (h *BillHandler) UpdateBill(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	billID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	update := services.BillUpdate{
		Name:              req.Name,
		Amount:            req.Amount,
		Category:          req.Category,
		Description:       req.Description,
		PaymentMethod:     req.PaymentMethod,
		IsRecurring:       req.IsRecurring,
		RecurringInterval: req.RecurringInterval,
	}
	if req.DueDate != nil {
		dueDate, err := parseFlexibleTime(*req.DueDate)
		if err != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
			return
		}
		update.DueDate = &dueDate
	}

	bill, err := h.billService.UpdateBill(userID, billID, update)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"bill": bill})
}

// DeleteBill deletes a bill
// @Summary     Delete a bill
// @Tags        bills
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Bill ID"
// @Success     200 {object} map[string]string "Bill deleted"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Not the owner"
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /bills/{id} [delete]
func (h *BillHandler) DeleteBill(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	billID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.billService.DeleteBill(userID, billID); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Bill deleted"})
}

// MarkBillPaid records a payment against a bill
// @Summary     Mark a bill as paid
// @Description Record a payment; every call appends to the payment history, and a recurring bill spawns its next occurrence on the first payment
// @Tags        bills
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Bill ID"
// @Param       request body MarkBillPaidRequest true "Payment reference"
// @Success     200 {object} models.Bill "Updated bill"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Not the owner"
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /bills/{id}/pay [post]
func (h *BillHandler) MarkBillPaid(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	billID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	// The body is optional; a bare POST records a payment without a reference.
	var req MarkBillPaidRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
			return
		}
	}

	bill, err := h.billService.MarkAsPaid(userID, billID, req.Reference)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"bill": bill})
}

// GetBillStats returns aggregated bill totals
// @Summary     Get bill stats
// @Tags        bills
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} stats.Summary "Aggregated totals"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /bills/stats [get]
func (h *BillHandler) GetBillStats(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	summary, err := h.billService.GetBillStats(userID, time.Now())
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"stats": summary})
}

// billFilterFromQuery converts query parameters into a service-layer filter.
func billFilterFromQuery(query billListQuery) (services.BillFilter, error) {
	var filter services.BillFilter
	if query.Category != "" {
		category := models.BillCategory(query.Category)
		filter.Category = &category
	}
	if query.Status != "" {
		status := models.BillStatus(query.Status)
		filter.Status = &status
	}
	if query.From != "" {
		from, err := parseFlexibleTime(query.From)
		if err != nil {
			return filter, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error())
		}
		filter.FromDate = &from
	}
	if query.To != "" {
		to, err := parseFlexibleTime(query.To)
		if err != nil {
			return filter, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error())
		}
		filter.ToDate = &to
	}
	return filter, nil
}
