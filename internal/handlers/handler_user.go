package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/moneta-ict/moneta-backend/internal/apperrors"
	portssvc "github.com/moneta-ict/moneta-backend/internal/core/ports/services"
	"github.com/moneta-ict/moneta-backend/internal/dto"
	"github.com/moneta-ict/moneta-backend/internal/middleware"
)

// UserHandler handles user profile requests.
type UserHandler struct {
	userService portssvc.UserSvcFacade
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(us portssvc.UserSvcFacade) *UserHandler {
	return &UserHandler{userService: us}
}

// registerUserRoutes sets up the routes for user profiles.
func registerUserRoutes(rg *gin.RouterGroup, userService portssvc.UserSvcFacade) {
	h := NewUserHandler(userService)

	users := rg.Group("/users")
	{
		users.GET("/me", h.Me)
	}
}

// Me godoc
// @Summary Get own profile
// @Description Returns the authenticated user's profile including balance.
// @Tags users
// @Produce json
// @Success 200 {object} dto.UserResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /users/me [get]
func (h *UserHandler) Me(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Authentication required"})
		return
	}

	user, err := h.userService.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "User not found"})
			return
		}
		logger := middleware.GetLoggerFromCtx(c.Request.Context())
		logger.Error("Failed to fetch user profile", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to fetch profile"})
		return
	}

	c.JSON(http.StatusOK, dto.ToUserResponse(user))
}
