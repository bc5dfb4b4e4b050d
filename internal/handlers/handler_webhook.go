package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/moneta-ict/moneta-backend/internal/apperrors"
	"github.com/moneta-ict/moneta-backend/internal/core/domain"
	portssvc "github.com/moneta-ict/moneta-backend/internal/core/ports/services"
	"github.com/moneta-ict/moneta-backend/internal/middleware"
	"github.com/moneta-ict/moneta-backend/internal/platform/config"
	"github.com/moneta-ict/moneta-backend/internal/platform/telegram"
)

// secretTokenHeader is set by Telegram on every webhook delivery when the
// webhook was registered with a secret.
const secretTokenHeader = "X-Telegram-Bot-Api-Secret-Token"

// WebhookHandler processes inbound Telegram updates from the operator chat.
type WebhookHandler struct {
	workflowService portssvc.WorkflowSvcFacade
	telegramClient  *telegram.Client
	webhookSecret   string
}

// NewWebhookHandler creates a new WebhookHandler.
func NewWebhookHandler(ws portssvc.WorkflowSvcFacade, client *telegram.Client, cfg *config.Config) *WebhookHandler {
	return &WebhookHandler{
		workflowService: ws,
		telegramClient:  client,
		webhookSecret:   cfg.TelegramWebhookSecret,
	}
}

// registerWebhookRoutes sets up the Telegram webhook endpoint.
func registerWebhookRoutes(rg *gin.Engine, cfg *config.Config, services *portssvc.ServiceContainer, client *telegram.Client) {
	h := NewWebhookHandler(services.Workflow, client, cfg)
	rg.POST("/webhook/telegram", h.HandleUpdate)
}

// HandleUpdate consumes one Telegram update. Telegram retries deliveries that
// do not return 2xx, so every recognized update is acknowledged with 200 even
// when the decision inside it fails; the operator gets the outcome through
// the callback answer instead.
func (h *WebhookHandler) HandleUpdate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	if h.webhookSecret != "" && c.GetHeader(secretTokenHeader) != h.webhookSecret {
		logger.Warn("Webhook update rejected, secret token mismatch")
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Invalid secret token"})
		return
	}

	var update telegram.Update
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid update payload"})
		return
	}

	if update.CallbackQuery == nil {
		// Plain chat messages are not commands, nothing to do.
		c.Status(http.StatusOK)
		return
	}

	decision, reference, ok := parseDecisionCallback(update.CallbackQuery.Data)
	if !ok {
		logger.Warn("Ignoring unrecognized callback data", slog.String("data", update.CallbackQuery.Data))
		h.answerCallback(c, update.CallbackQuery.ID, "Unrecognized action")
		c.Status(http.StatusOK)
		return
	}

	operatorID := fmt.Sprintf("telegram:%d", update.CallbackQuery.From.ID)
	request, err := h.workflowService.Decide(c.Request.Context(), reference, decision, operatorID)

	var answer string
	switch {
	case err == nil:
		if request.Status == domain.StatusCompleted {
			answer = fmt.Sprintf("✅ %s approved", reference)
		} else {
			answer = fmt.Sprintf("❌ %s rejected", reference)
		}
	case errors.Is(err, apperrors.ErrAlreadyResolved):
		answer = fmt.Sprintf("%s was already resolved", reference)
	case errors.Is(err, apperrors.ErrNotFound):
		answer = fmt.Sprintf("%s not found", reference)
	default:
		logger.Error("Failed to apply operator decision",
			slog.String("reference", reference),
			slog.String("error", err.Error()))
		answer = "Something went wrong, please retry"
	}

	h.answerCallback(c, update.CallbackQuery.ID, answer)
	c.Status(http.StatusOK)
}

// answerCallback acknowledges the button press, best-effort.
func (h *WebhookHandler) answerCallback(c *gin.Context, callbackQueryID, text string) {
	if h.telegramClient == nil || !h.telegramClient.Enabled() {
		return
	}
	if err := h.telegramClient.AnswerCallbackQuery(c.Request.Context(), callbackQueryID, text); err != nil {
		logger := middleware.GetLoggerFromCtx(c.Request.Context())
		logger.Warn("Failed to answer callback query", slog.String("error", err.Error()))
	}
}

// parseDecisionCallback splits callback data of the form approve_<reference>
// or reject_<reference>.
func parseDecisionCallback(data string) (domain.Decision, string, bool) {
	switch {
	case strings.HasPrefix(data, "approve_"):
		return domain.DecisionApprove, strings.TrimPrefix(data, "approve_"), true
	case strings.HasPrefix(data, "reject_"):
		return domain.DecisionReject, strings.TrimPrefix(data, "reject_"), true
	default:
		return "", "", false
	}
}
