package server

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"dashboard/internal/activity"
	"dashboard/internal/auth"
	"dashboard/internal/files"
	"dashboard/internal/folders"
	"dashboard/internal/middleware"
)

// RegisterRoutes builds the gin engine with every route mounted
func (s *Server) RegisterRoutes() http.Handler {
	d := s.deps

	var recorder activity.Recorder = activity.Discard
	if d.Activity != nil {
		recorder = d.Activity
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID(), middleware.Logging(d.Logger))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     d.Config.CORSAllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Accept", "Content-Type", middleware.RequestHeaderID},
		ExposeHeaders:    []string{middleware.RequestHeaderID},
		AllowCredentials: true, // session cookie
	}))
	r.Use(middleware.RequestScope(), middleware.LoadSession(d.Validator, auth.SignOutPath))

	r.GET("/health", s.healthHandler)

	auth.NewHandler(d.Users, d.Sessions, d.Validator, recorder, d.Logger).RegisterRoutes(r)

	// Page routes redirect to the sign-in page, API routes answer 401.
	pages := r.Group("/dashboard")
	pages.Use(middleware.RequirePage(d.Validator, d.Config.SignInPath))
	{
		pages.GET("", s.dashboardHandler)
		pages.GET("/folders", s.foldersPageHandler)
	}

	api := r.Group("/api")
	api.Use(middleware.RequireAuth(d.Validator))

	folders.NewHandler(d.Folders, d.Logger).RegisterRoutes(api)
	if d.Activity != nil {
		activity.NewHandler(d.Activity, d.Logger).RegisterRoutes(api)
	}

	if d.Storage != nil {
		files.NewHandler(files.NewService(d.Storage, recorder), d.Logger).RegisterRoutes(api)
	} else {
		filesGroup := api.Group("/files")
		filesGroup.GET("", storageUnavailable)
		filesGroup.POST("/upload-url", storageUnavailable)
		filesGroup.POST("/download-url", storageUnavailable)
		filesGroup.DELETE("/*key", storageUnavailable)
	}

	return r
}

func storageUnavailable(c *gin.Context) {
	c.JSON(http.StatusServiceUnavailable, files.ErrorResponse{
		Success: false,
		Error:   "Storage service is not available",
		Code:    "STORAGE_UNAVAILABLE",
	})
}

func (s *Server) healthHandler(c *gin.Context) {
	ctx := c.Request.Context()
	status := http.StatusOK

	dbHealth := s.deps.DB.Health(ctx)
	if dbHealth["status"] != "up" {
		status = http.StatusServiceUnavailable
	}
	response := gin.H{"database": dbHealth}

	if s.deps.Storage != nil {
		storageHealth := map[string]string{"status": "up"}
		if err := s.deps.Storage.Health(ctx); err != nil {
			storageHealth["status"] = "down"
			storageHealth["error"] = err.Error()
		}
		response["storage"] = storageHealth
	}

	c.JSON(status, response)
}
