package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	"github.com/moneta-ict/moneta-backend/internal/apperrors"
	"github.com/moneta-ict/moneta-backend/internal/core/domain"
	portssvc "github.com/moneta-ict/moneta-backend/internal/core/ports/services"
	coresvc "github.com/moneta-ict/moneta-backend/internal/core/services"
	"github.com/moneta-ict/moneta-backend/internal/dto"
	"github.com/moneta-ict/moneta-backend/internal/middleware"
	"github.com/moneta-ict/moneta-backend/internal/platform/config"
	"github.com/moneta-ict/moneta-backend/internal/storage"
)

// RequestHandler handles monetary request operations for account holders.
type RequestHandler struct {
	workflowService portssvc.WorkflowSvcFacade
	evidenceStore   *storage.EvidenceStore
	instructions    dto.BankInstructions
}

// NewRequestHandler creates a new RequestHandler.
func NewRequestHandler(ws portssvc.WorkflowSvcFacade, store *storage.EvidenceStore, cfg *config.Config) *RequestHandler {
	return &RequestHandler{
		workflowService: ws,
		evidenceStore:   store,
		instructions: dto.BankInstructions{
			BankName:      cfg.DepositBankName,
			AccountNumber: cfg.DepositAccountNumber,
			AccountName:   cfg.DepositAccountName,
		},
	}
}

// registerRequestRoutes sets up the routes for monetary requests.
func registerRequestRoutes(rg *gin.RouterGroup, cfg *config.Config, workflowService portssvc.WorkflowSvcFacade, store *storage.EvidenceStore) {
	h := NewRequestHandler(workflowService, store, cfg)

	// Request creation is rate limited per IP, reads are not.
	rate, _ := limiter.NewRateFromFormatted("30-M")
	createLimiter := middleware.RateLimit(limiter.New(memory.NewStore(), rate))

	requests := rg.Group("/requests")
	{
		requests.POST("/deposit", createLimiter, h.CreateDeposit)
		requests.POST("/:reference/evidence", createLimiter, h.UploadEvidence)
		requests.POST("/withdrawal", createLimiter, h.CreateWithdrawal)
		requests.POST("/investment", createLimiter, h.CreateInvestment)
		requests.GET("", h.ListOwn)
		requests.GET("/:reference", h.GetOwn)
	}
	rg.GET("/investments/plans", h.ListPlans)
}

// respondWorkflowError maps workflow service errors to HTTP responses.
func respondWorkflowError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Request not found"})
	case errors.Is(err, apperrors.ErrAlreadyResolved):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "Request has already been resolved"})
	case errors.Is(err, apperrors.ErrInvalidTransition):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "Request is not in a state that allows this operation"})
	case errors.Is(err, apperrors.ErrInsufficientFunds):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Insufficient funds"})
	case errors.Is(err, coresvc.ErrCurrencyMismatch):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Currency does not match your account currency"})
	case errors.Is(err, coresvc.ErrBelowMinimum):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	case errors.Is(err, apperrors.ErrValidation):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	default:
		logger := middleware.GetLoggerFromCtx(c.Request.Context())
		logger.Error("Workflow operation failed", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Internal server error"})
	}
}

// CreateDeposit godoc
// @Summary Open a deposit request
// @Description Opens a PENDING deposit and returns the bank transfer instructions.
// @Tags requests
// @Accept json
// @Produce json
// @Param deposit body dto.CreateDepositRequest true "Deposit Info"
// @Success 201 {object} dto.DepositCreatedResponse
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /requests/deposit [post]
func (h *RequestHandler) CreateDeposit(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Authentication required"})
		return
	}

	var req dto.CreateDepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	request, err := h.workflowService.CreateDeposit(c.Request.Context(), userID, req)
	if err != nil {
		respondWorkflowError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.DepositCreatedResponse{
		Request:      dto.ToRequestResponse(request),
		Instructions: h.instructions,
	})
}

// UploadEvidence godoc
// @Summary Upload proof of payment
// @Description Attaches a payment proof image to a deposit and moves it to REVIEWING.
// @Tags requests
// @Accept multipart/form-data
// @Produce json
// @Param reference path string true "Request Reference"
// @Param paymentProof formData file true "Proof image (jpg, png or gif, max 5MB)"
// @Success 200 {object} dto.EvidenceUploadedResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Security BearerAuth
// @Router /requests/{reference}/evidence [post]
func (h *RequestHandler) UploadEvidence(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Authentication required"})
		return
	}
	reference := c.Param("reference")

	fileHeader, err := c.FormFile("paymentProof")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Payment proof file is required"})
		return
	}

	evidenceURL, err := h.evidenceStore.Save(fileHeader)
	if err != nil {
		respondWorkflowError(c, err)
		return
	}

	request, err := h.workflowService.AttachEvidence(c.Request.Context(), userID, reference, evidenceURL)
	if err != nil {
		respondWorkflowError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.EvidenceUploadedResponse{
		Reference:      request.Reference,
		Status:         request.Status,
		EvidenceURL:    request.EvidenceURL,
		ReviewDeadline: *request.ReviewDeadline,
	})
}

// CreateWithdrawal godoc
// @Summary Open a withdrawal request
// @Description Debits the balance immediately and opens a PENDING withdrawal for operator payout.
// @Tags requests
// @Accept json
// @Produce json
// @Param withdrawal body dto.CreateWithdrawalRequest true "Withdrawal Info"
// @Success 201 {object} dto.RequestResponse
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /requests/withdrawal [post]
func (h *RequestHandler) CreateWithdrawal(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Authentication required"})
		return
	}

	var req dto.CreateWithdrawalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	request, err := h.workflowService.CreateWithdrawal(c.Request.Context(), userID, req)
	if err != nil {
		respondWorkflowError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToRequestResponse(request))
}

// CreateInvestment godoc
// @Summary Open an investment
// @Description Debits the balance and opens an ACTIVE investment with a snapshot of the plan terms.
// @Tags requests
// @Accept json
// @Produce json
// @Param investment body dto.CreateInvestmentRequest true "Investment Info"
// @Success 201 {object} dto.RequestResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /requests/investment [post]
func (h *RequestHandler) CreateInvestment(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Authentication required"})
		return
	}

	var req dto.CreateInvestmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	request, err := h.workflowService.CreateInvestment(c.Request.Context(), userID, req)
	if err != nil {
		respondWorkflowError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToRequestResponse(request))
}

// ListOwn godoc
// @Summary List own requests
// @Description Lists the authenticated user's requests, newest first.
// @Tags requests
// @Produce json
// @Param status query string false "Filter by status"
// @Param type query string false "Filter by type"
// @Param limit query int false "Page size" default(50)
// @Param offset query int false "Page offset" default(0)
// @Success 200 {array} dto.RequestResponse
// @Security BearerAuth
// @Router /requests [get]
func (h *RequestHandler) ListOwn(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Authentication required"})
		return
	}

	var params dto.ListRequestsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters"})
		return
	}

	requests, err := h.workflowService.ListUserRequests(c.Request.Context(), userID, domain.RequestFilter{
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

// GetOwn godoc
// @Summary Get one of own requests
// @Description Retrieves a single request owned by the authenticated user.
// @Tags requests
// @Produce json
// @Param reference path string true "Request Reference"
// @Success 200 {object} dto.RequestResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /requests/{reference} [get]
func (h *RequestHandler) GetOwn(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Authentication required"})
		return
	}

	request, err := h.workflowService.GetRequest(c.Request.Context(), userID, c.Param("reference"))
	if err != nil {
		respondWorkflowError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToRequestResponse(request))
}

// ListPlans godoc
// @Summary List investment plans
// @Description Returns the investment plan catalog.
// @Tags requests
// @Produce json
// @Success 200 {array} dto.PlanResponse
// @Security BearerAuth
// @Router /investments/plans [get]
func (h *RequestHandler) ListPlans(c *gin.Context) {
	plans := h.workflowService.ListPlans(c.Request.Context())
	c.JSON(http.StatusOK, dto.ToPlanResponses(plans))
}
