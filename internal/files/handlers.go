package files

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"dashboard/internal/middleware"
)

// Handler handles HTTP requests for files
type Handler struct {
	service *Service
	logger  *slog.Logger
}

// NewHandler creates a new files handler
func NewHandler(service *Service, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{service: service, logger: logger}
}

// RegisterRoutes mounts the file endpoints on an authenticated group
func (h *Handler) RegisterRoutes(api *gin.RouterGroup) {
	filesGroup := api.Group("/files")
	{
		filesGroup.GET("", h.ListFiles)
		filesGroup.POST("/upload-url", h.GenerateUploadURL)
		filesGroup.POST("/download-url", h.GenerateDownloadURL)
		filesGroup.DELETE("/*key", h.DeleteFile)
	}
}

func (h *Handler) userID(c *gin.Context) (string, bool) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized", Code: "UNAUTHORIZED"})
	}
	return userID, ok
}

func (h *Handler) fail(c *gin.Context, err error, message, code string) {
	switch {
	case errors.Is(err, ErrForbidden):
		c.JSON(http.StatusForbidden, ErrorResponse{Error: "File does not belong to you", Code: "FORBIDDEN"})
	case errors.Is(err, ErrInvalidFile):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: message, Code: "INVALID_FILE", Details: err.Error()})
	default:
		h.logger.Error(message, "user_id", c.GetString(middleware.KeyUserID), "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: message, Code: code})
	}
}

// GenerateUploadURL handles POST /api/files/upload-url
func (h *Handler) GenerateUploadURL(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	var req GenerateUploadURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid request body",
			Code:    "INVALID_REQUEST",
			Details: err.Error(),
		})
		return
	}

	response, err := h.service.GenerateUploadURL(c.Request.Context(), userID, &req)
	if err != nil {
		h.fail(c, err, "Failed to generate upload URL", "GENERATION_FAILED")
		return
	}
	c.JSON(http.StatusOK, response)
}

// GenerateDownloadURL handles POST /api/files/download-url
func (h *Handler) GenerateDownloadURL(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	var req GenerateDownloadURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid request body",
			Code:    "INVALID_REQUEST",
			Details: err.Error(),
		})
		return
	}

	response, err := h.service.GenerateDownloadURL(c.Request.Context(), userID, req.FileKey)
	if err != nil {
		h.fail(c, err, "Failed to generate download URL", "GENERATION_FAILED")
		return
	}
	c.JSON(http.StatusOK, response)
}

// ListFiles handles GET /api/files
func (h *Handler) ListFiles(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	files, err := h.service.List(c.Request.Context(), userID)
	if err != nil {
		h.fail(c, err, "Failed to list files", "LIST_FAILED")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "files": files})
}

// DeleteFile handles DELETE /api/files/*key. Keys contain slashes, so the
// whole remaining path is the key.
func (h *Handler) DeleteFile(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	fileKey := strings.TrimPrefix(c.Param("key"), "/")
	if fileKey == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "File key is required", Code: "INVALID_FILE_KEY"})
		return
	}

	if err := h.service.DeleteFile(c.Request.Context(), userID, fileKey); err != nil {
		h.fail(c, err, "Failed to delete file", "DELETE_FAILED")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"message":  "File deleted successfully",
		"file_key": fileKey,
	})
}
