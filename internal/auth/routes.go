package auth

import (
	"github.com/gin-gonic/gin"

	"dashboard/internal/middleware"
)

// SignOutPath is validated by its handler only, so a session about to be
// deleted is never renewed first. Pass it to middleware.LoadSession.
const SignOutPath = "/auth/sign-out"

// RegisterRoutes mounts the auth endpoints. Session loading and scoping are
// expected to be installed on r already.
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	authGroup := r.Group("/auth")
	{
		authGroup.POST("/sign-up", h.SignUp)
		authGroup.POST("/sign-in", h.SignIn)
		authGroup.POST("/sign-out", h.SignOut)
		authGroup.GET("/me", h.Me)
		authGroup.POST("/sign-out-all", middleware.RequireAuth(h.validator), h.SignOutAll)
	}

	account := r.Group("/api/account")
	account.Use(middleware.RequireAuth(h.validator))
	{
		account.PATCH("", h.UpdateAccount)
	}
}
