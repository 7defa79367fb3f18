package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "homeledger/internal/errors"
	"homeledger/internal/models"
	"homeledger/internal/services"
)

// HouseholdHandler handles household membership requests.
type HouseholdHandler struct {
	householdService services.HouseholdServicer
	auditService     services.AuditServicer
}

// NewHouseholdHandler creates a new HouseholdHandler.
func NewHouseholdHandler(householdService services.HouseholdServicer, auditService services.AuditServicer) *HouseholdHandler {
	return &HouseholdHandler{householdService: householdService, auditService: auditService}
}

// CreateHouseholdRequest represents the request payload for creating a household
type CreateHouseholdRequest struct {
	Name string `json:"name" binding:"required,max=100"`
}

// JoinHouseholdRequest represents the request payload for joining by invite code
type JoinHouseholdRequest struct {
	InviteCode string `json:"invite_code" binding:"required,invite_code"`
}

// ChangeRoleRequest represents the request payload for changing a member's role
type ChangeRoleRequest struct {
	Role models.HouseholdRole `json:"role" binding:"required,household_role"`
}

// RenameHouseholdRequest represents the request payload for renaming a household
type RenameHouseholdRequest struct {
	Name string `json:"name" binding:"required,max=100"`
}

// HouseholdResponse represents a household in the response
type HouseholdResponse struct {
	ID      uint   `json:"id"`
	Name    string `json:"name"`
	OwnerID uint   `json:"owner_id"`
}

func householdResponse(h *models.Household) HouseholdResponse {
	return HouseholdResponse{ID: h.ID, Name: h.Name, OwnerID: h.OwnerID}
}

// CreateHousehold handles household creation
// @Summary     Create a household
// @Description Create a household owned by the caller and generate its invite code
// @Tags        household
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateHouseholdRequest true "Household details"
// @Success     201 {object} HouseholdResponse "Household created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     409 {object} ErrorResponse "Already in a household"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /household [post]
func (h *HouseholdHandler) CreateHousehold(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateHouseholdRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	household, err := h.householdService.CreateHousehold(userID, req.Name)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "household_create", "household", household.ID, c.ClientIP(), nil)
	c.JSON(http.StatusCreated, gin.H{
		"household":   householdResponse(household),
		"invite_code": household.InviteCode,
	})
}

// JoinHousehold handles join-by-invite-code
// @Summary     Join a household
// @Description Join the household matching the invite code; joining the same household twice is a no-op
// @Tags        household
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body JoinHouseholdRequest true "Invite code"
// @Success     200 {object} HouseholdResponse "Joined household"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Unknown invite code"
// @Failure     409 {object} ErrorResponse "Already in another household"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /household/join [post]
func (h *HouseholdHandler) JoinHousehold(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req JoinHouseholdRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	household, err := h.householdService.JoinHousehold(userID, req.InviteCode)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "household_join", "household", household.ID, c.ClientIP(), nil)
	c.JSON(http.StatusOK, gin.H{"household": householdResponse(household)})
}

// GetHousehold returns the caller's household
// @Summary     Get current household
// @Tags        household
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} HouseholdResponse "Household"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Not in a household"
// @Router      /household [get]
func (h *HouseholdHandler) GetHousehold(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	household, err := h.householdService.GetUserHousehold(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"household": householdResponse(household)})
}

// RenameHousehold renames the caller's household
// @Summary     Rename household
// @Description Rename the household; requires the owner or admin role
// @Tags        household
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body RenameHouseholdRequest true "New name"
// @Success     200 {object} HouseholdResponse "Household renamed"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Insufficient role"
// @Failure     404 {object} ErrorResponse "Not in a household"
// @Router      /household [put]
func (h *HouseholdHandler) RenameHousehold(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req RenameHouseholdRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	household, err := h.householdService.RenameHousehold(userID, req.Name)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "household_rename", "household", household.ID, c.ClientIP(),
		map[string]interface{}{"name": req.Name})
	c.JSON(http.StatusOK, gin.H{"household": householdResponse(household)})
}

// GetMembers lists the members of the caller's household
// @Summary     List household members
// @Tags        household
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} map[string][]services.MemberView "Members"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Not in a household"
// @Router      /household/members [get]
func (h *HouseholdHandler) GetMembers(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	members, err := h.householdService.GetMembers(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"members": members})
}

// GetInviteCode returns the household invite code
// @Summary     Get invite code
// @Description Get the household invite code; requires the owner or admin role
// @Tags        household
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} map[string]string "Invite code"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Insufficient role"
// @Failure     404 {object} ErrorResponse "Not in a household"
// @Router      /household/invite-code [get]
func (h *HouseholdHandler) GetInviteCode(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	code, err := h.householdService.GetInviteCode(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"invite_code": code})
}

// RemoveMember removes a member from the caller's household
// @Summary     Remove a household member
// @Description Remove a member; requires the owner or admin role, and the last owner cannot be removed
// @Tags        household
// @Produce     json
// @Security    BearerAuth
// @Param       userId path int true "Target user ID"
// @Success     200 {object} map[string]string "Member removed"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Insufficient role"
// @Failure     404 {object} ErrorResponse "Member not found"
// @Failure     409 {object} ErrorResponse "Cannot remove the last owner"
// @Router      /household/members/{userId} [delete]
func (h *HouseholdHandler) RemoveMember(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	targetID, err := parsePathID(c, "userId")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.householdService.RemoveMember(userID, targetID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "member_remove", "user", targetID, c.ClientIP(), nil)
	c.JSON(http.StatusOK, gin.H{"message": "Member removed"})
}

// ChangeRole changes a household member's role
// @Summary     Change a member's role
// @Description Change a member's role; requires the owner or admin role, and the last owner cannot be demoted
// @Tags        household
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       userId path int true "Target user ID"
// @Param       request body ChangeRoleRequest true "New role"
// @Success     200 {object} services.MemberView "Updated member"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Insufficient role"
// @Failure     404 {object} ErrorResponse "Member not found"
// @Failure     409 {object} ErrorResponse "Cannot demote the last owner"
// @Router      /household/members/{userId}/role [put]
func (h *HouseholdHandler) ChangeRole(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	targetID, err := parsePathID(c, "userId")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req ChangeRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	member, err := h.householdService.ChangeRole(userID, targetID, req.Role)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "member_role_change", "user", targetID, c.ClientIP(),
		map[string]interface{}{"role": string(req.Role)})
	c.JSON(http.StatusOK, gin.H{"member": member})
}

// LeaveHousehold removes the caller from their household
// @Summary     Leave household
// @Description Leave the current household; the last owner cannot leave
// @Tags        household
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} map[string]string "Left household"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Not in a household"
// @Failure     409 {object} ErrorResponse "Last owner cannot leave"
// @Router      /household/leave [post]
func (h *HouseholdHandler) LeaveHousehold(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.householdService.LeaveHousehold(userID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "household_leave", "user", userID, c.ClientIP(), nil)
	c.JSON(http.StatusOK, gin.H{"message": "Left household"})
}
