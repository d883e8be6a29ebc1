package folders

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"dashboard/internal/middleware"
)

// Handler handles HTTP requests for folders and notes
type Handler struct {
	service *Service
	logger  *slog.Logger
}

// NewHandler creates a new folders handler
func NewHandler(service *Service, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{service: service, logger: logger}
}

func (h *Handler) userID(c *gin.Context) (string, bool) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}
	return userID, ok
}

// fail maps service errors to responses
func (h *Handler) fail(c *gin.Context, err error, action string) {
	switch {
	case errors.Is(err, ErrFolderNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "folder not found"})
	case errors.Is(err, ErrNoteNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "note not found"})
	case errors.Is(err, ErrInvalidParent):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid parent folder"})
	default:
		h.logger.Error("Failed to "+action, "user_id", c.GetString(middleware.KeyUserID), "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to " + action})
	}
}

// ListFolders handles GET /api/folders. With ?view=tree the folders are
// nested.
func (h *Handler) ListFolders(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	if c.Query("view") == "tree" {
		tree, err := h.service.Tree(c.Request.Context(), userID)
		if err != nil {
			h.fail(c, err, "list folders")
			return
		}
		c.JSON(http.StatusOK, Response{Success: true, Data: tree})
		return
	}

	folders, err := h.service.ListFolders(c.Request.Context(), userID)
	if err != nil {
		h.fail(c, err, "list folders")
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: folders})
}

// CreateFolder handles POST /api/folders
func (h *Handler) CreateFolder(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	var req CreateFolderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	folder, err := h.service.CreateFolder(c.Request.Context(), userID, req.Name, req.ParentID)
	if err != nil {
		h.fail(c, err, "create folder")
		return
	}
	c.JSON(http.StatusCreated, Response{Success: true, Message: "Folder created", Data: folder})
}

// GetFolder handles GET /api/folders/:id
func (h *Handler) GetFolder(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	folder, err := h.service.GetFolder(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		h.fail(c, err, "get folder")
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: folder})
}

// UpdateFolder handles PATCH /api/folders/:id
func (h *Handler) UpdateFolder(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	var req UpdateFolderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	folder, err := h.service.UpdateFolder(c.Request.Context(), userID, c.Param("id"), req.Name, req.ParentID)
	if err != nil {
		h.fail(c, err, "update folder")
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Message: "Folder updated", Data: folder})
}

// DeleteFolder handles DELETE /api/folders/:id
func (h *Handler) DeleteFolder(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	if err := h.service.DeleteFolder(c.Request.Context(), userID, c.Param("id")); err != nil {
		h.fail(c, err, "delete folder")
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Message: "Folder deleted"})
}

// ListNotes handles GET /api/folders/:id/notes
func (h *Handler) ListNotes(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	notes, err := h.service.ListNotes(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		h.fail(c, err, "list notes")
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: notes})
}

// CreateNote handles POST /api/folders/:id/notes
func (h *Handler) CreateNote(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	var req CreateNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	note, err := h.service.CreateNote(c.Request.Context(), userID, c.Param("id"), req.Title, req.Body)
	if err != nil {
		h.fail(c, err, "create note")
		return
	}
	c.JSON(http.StatusCreated, Response{Success: true, Message: "Note created", Data: note})
}

// GetNote handles GET /api/notes/:id
func (h *Handler) GetNote(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	note, err := h.service.GetNote(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		h.fail(c, err, "get note")
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: note})
}

// UpdateNote handles PATCH /api/notes/:id
func (h *Handler) UpdateNote(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	var req UpdateNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	note, err := h.service.UpdateNote(c.Request.Context(), userID, c.Param("id"), req.Title, req.Body)
	if err != nil {
		h.fail(c, err, "update note")
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Message: "Note updated", Data: note})
}

// DeleteNote handles DELETE /api/notes/:id
func (h *Handler) DeleteNote(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	if err := h.service.DeleteNote(c.Request.Context(), userID, c.Param("id")); err != nil {
		h.fail(c, err, "delete note")
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Message: "Note deleted"})
}
