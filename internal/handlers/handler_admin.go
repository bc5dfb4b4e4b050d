package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/moneta-ict/moneta-backend/internal/apperrors"
	"github.com/moneta-ict/moneta-backend/internal/core/domain"
	portssvc "github.com/moneta-ict/moneta-backend/internal/core/ports/services"
	"github.com/moneta-ict/moneta-backend/internal/dto"
	"github.com/moneta-ict/moneta-backend/internal/middleware"
)

// AdminHandler handles operator-facing request management.
type AdminHandler struct {
	userService     portssvc.UserSvcFacade
	workflowService portssvc.WorkflowSvcFacade
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(us portssvc.UserSvcFacade, ws portssvc.WorkflowSvcFacade) *AdminHandler {
	return &AdminHandler{
		userService:     us,
		workflowService: ws,
	}
}

// registerAdminRoutes sets up operator routes gated on the admin role.
func registerAdminRoutes(rg *gin.RouterGroup, userService portssvc.UserSvcFacade, workflowService portssvc.WorkflowSvcFacade) {
	h := NewAdminHandler(userService, workflowService)

	admin := rg.Group("/admin", middleware.RequireAdmin())
	{
		admin.GET("/requests", h.ListRequests)
		admin.POST("/requests/:reference/decision", h.Decide)
		admin.GET("/users/:userID", h.GetUser)
	}
}

// ListRequests godoc
// @Summary List requests across all users
// @Description Lists requests for operator review, newest first.
// @Tags admin
// @Produce json
// @Param status query string false "Filter by status"
// @Param type query string false "Filter by type"
// @Param limit query int false "Page size" default(50)
// @Param offset query int false "Page offset" default(0)
// @Success 200 {array} dto.RequestResponse
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /admin/requests [get]
func (h *AdminHandler) ListRequests(c *gin.Context) {
	var params dto.ListRequestsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters"})
		return
	}

	requests, err := h.workflowService.ListAllRequests(c.Request.Context(), domain.RequestFilter{
		Status: domain.RequestStatus(params.Status),
		Type:   domain.RequestType(params.Type),
		Limit:  params.Limit,
		Offset: params.Offset,
	})
	if err != nil {
		respondWorkflowError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToRequestResponses(requests))
}

// Decide godoc
// @Summary Decide a request
// @Description Approves or rejects a pending request. A repeated decision on the same request returns 409 and leaves the ledger untouched.
// @Tags admin
// @Accept json
// @Produce json
// @Param reference path string true "Request Reference"
// @Param decision body dto.DecisionRequest true "Verdict"
// @Success 200 {object} dto.DecisionResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Already resolved"
// @Security BearerAuth
// @Router /admin/requests/{reference}/decision [post]
func (h *AdminHandler) Decide(c *gin.Context) {
	operatorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Authentication required"})
		return
	}

	var req dto.DecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	request, err := h.workflowService.Decide(c.Request.Context(), c.Param("reference"), req.Decision, operatorID)
	if err != nil {
		respondWorkflowError(c, err)
		return
	}

	resp := dto.DecisionResponse{Request: dto.ToRequestResponse(request)}
	// Report the holder's balance when the verdict moved money.
	ledgerTouched := (request.Type == domain.TypeDeposit && request.Status == domain.StatusCompleted) ||
		(request.Type == domain.TypeWithdrawal && request.Status == domain.StatusRejected)
	if ledgerTouched {
		if user, err := h.userService.GetUserByID(c.Request.Context(), request.UserID); err == nil {
			resp.NewBalance = &user.Balance
		}
	}

	c.JSON(http.StatusOK, resp)
}

// GetUser godoc
// @Summary Get a user profile
// @Description Returns any user's profile for operator support.
// @Tags admin
// @Produce json
// @Param userID path string true "User ID"
// @Success 200 {object} dto.UserResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /admin/users/{userID} [get]
func (h *AdminHandler) GetUser(c *gin.Context) {
	user, err := h.userService.GetUserByID(c.Request.Context(), c.Param("userID"))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "User not found"})
			return
		}
		respondWorkflowError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToUserResponse(user))
}
