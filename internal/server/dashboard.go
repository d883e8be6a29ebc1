package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"dashboard/internal/middleware"
)

type navLink struct {
	Href  string `json:"href"`
	Label string `json:"label"`
}

var dashboardLinks = []navLink{
	{Href: "/dashboard", Label: "Dashboard"},
	{Href: "/dashboard/folders", Label: "Folders"},
}

// dashboardHandler serves the signed-in landing view
func (s *Server) dashboardHandler(c *gin.Context) {
	out := middleware.Outcome(c, s.deps.Validator)
	c.JSON(http.StatusOK, gin.H{
		"user":       out.User,
		"navigation": dashboardLinks,
	})
}

// foldersPageHandler serves the file explorer view
func (s *Server) foldersPageHandler(c *gin.Context) {
	out := middleware.Outcome(c, s.deps.Validator)

	tree, err := s.deps.Folders.Tree(c.Request.Context(), out.User.ID)
	if err != nil {
		s.deps.Logger.Error("Failed to load folder tree", "user_id", out.User.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load folders"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"title":   "File Explorer",
		"user":    out.User,
		"folders": tree,
	})
}
