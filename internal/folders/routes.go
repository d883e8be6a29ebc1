package folders

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts the folder and note endpoints on an authenticated
// group.
func (h *Handler) RegisterRoutes(api *gin.RouterGroup) {
	folders := api.Group("/folders")
	{
		folders.GET("", h.ListFolders)           // GET /api/folders?view=tree
		folders.POST("", h.CreateFolder)         // POST /api/folders
		folders.GET("/:id", h.GetFolder)         // GET /api/folders/:id
		folders.PATCH("/:id", h.UpdateFolder)    // PATCH /api/folders/:id
		folders.DELETE("/:id", h.DeleteFolder)   // DELETE /api/folders/:id
		folders.GET("/:id/notes", h.ListNotes)   // GET /api/folders/:id/notes
		folders.POST("/:id/notes", h.CreateNote) // POST /api/folders/:id/notes
	}

	notes := api.Group("/notes")
	{
		notes.GET("/:id", h.GetNote)
		notes.PATCH("/:id", h.UpdateNote)
		notes.DELETE("/:id", h.DeleteNote)
	}
}
