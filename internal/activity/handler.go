package activity

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"dashboard/internal/middleware"
)

// Handler serves the activity feed
type Handler struct {
	service *Service
	logger  *slog.Logger
}

// NewHandler creates a new activity handler
func NewHandler(service *Service, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{service: service, logger: logger}
}

// RegisterRoutes mounts the activity endpoints on an authenticated group
func (h *Handler) RegisterRoutes(api *gin.RouterGroup) {
	api.GET("/activity", h.List)
}

// List handles GET /api/activity?q=&page=
func (h *Handler) List(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return
	}

	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "page must be a number"})
		return
	}

	result, err := h.service.List(c.Request.Context(), userID, c.Query("q"), page)
	if err != nil {
		h.logger.Error("Failed to list activity", "user_id", userID, "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to list activity"})
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: result})
}
