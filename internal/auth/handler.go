// Package auth serves the password sign-up, sign-in and sign-out endpoints
// and the current account endpoints.
package auth

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"dashboard/internal/activity"
	"dashboard/internal/middleware"
	"dashboard/internal/session"
	"dashboard/internal/users"
)

// Handler handles authentication-related HTTP requests
type Handler struct {
	users     users.Service
	sessions  *session.Manager
	validator *session.Validator
	activity  activity.Recorder
	logger    *slog.Logger
}

// NewHandler creates a new authentication handler. A nil recorder drops
// activity entries.
func NewHandler(svc users.Service, sessions *session.Manager, validator *session.Validator, recorder activity.Recorder, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	if recorder == nil {
		recorder = activity.Discard
	}
	return &Handler{
		users:     svc,
		sessions:  sessions,
		validator: validator,
		activity:  recorder,
		logger:    logger.With("component", "auth"),
	}
}

// SignUp handles POST /auth/sign-up
func (h *Handler) SignUp(c *gin.Context) {
	var req CredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.users.SignUp(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, users.ErrEmailExists) {
			c.JSON(http.StatusConflict, gin.H{
				"error":   "email_taken",
				"message": "This email is already registered",
				"field":   "email",
			})
			return
		}
		h.logger.Error("Failed to sign up", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create account"})
		return
	}

	if h.startSession(c, user, http.StatusCreated) {
		h.activity.Record(c.Request.Context(), user.ID, activity.ActionSignUp, "Created account", nil)
	}
}

// SignIn handles POST /auth/sign-in
func (h *Handler) SignIn(c *gin.Context) {
	var req CredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.users.Authenticate(c.Request.Context(), req.Email, req.Password)
	if errors.Is(err, users.ErrInvalidCredentials) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "incorrect email or password"})
		return
	}
	if err != nil {
		h.logger.Error("Failed to sign in", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to sign in"})
		return
	}

	// Drop any session the client already holds so ids are never reused
	// across sign-ins.
	if prev, ok := middleware.CurrentSession(c); ok {
		if err := h.sessions.Invalidate(c.Request.Context(), prev.ID); err != nil {
			h.logger.Warn("Failed to invalidate previous session", "user_id", prev.UserID, "error", err)
		}
	}

	if h.startSession(c, user, http.StatusOK) {
		h.activity.Record(c.Request.Context(), user.ID, activity.ActionSignIn, "Signed in", activity.Metadata{
			"client_ip": c.ClientIP(),
		})
	}
}

func (h *Handler) startSession(c *gin.Context, user *users.User, status int) bool {
	sess, err := h.sessions.Create(c.Request.Context(), user.ID)
	if err != nil {
		h.logger.Error("Failed to create session", "user_id", user.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create session"})
		return false
	}

	session.GinJar(c).SetCookie(h.validator.Codec().SessionCookie(sess.ID))
	c.JSON(status, AuthResponse{User: user, Session: sessionInfo(sess)})
	return true
}

// SignOut handles POST /auth/sign-out. It deletes the session named by the
// cookie without validating it first and succeeds whether or not the request
// carried one.
func (h *Handler) SignOut(c *gin.Context) {
	jar := session.GinJar(c)
	codec := h.validator.Codec()

	value, _ := jar.Cookie(codec.CookieName())
	id, ok := codec.Decode(value)
	if !ok {
		c.JSON(http.StatusOK, gin.H{"message": "already signed out"})
		return
	}

	// Lookup only reads; it neither renews nor deletes.
	owner := ""
	if sess, err := h.sessions.Lookup(c.Request.Context(), id); err == nil {
		owner = sess.UserID
	}

	if err := h.sessions.Invalidate(c.Request.Context(), id); err != nil {
		h.logger.Error("Failed to delete session", "user_id", owner, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to sign out"})
		return
	}

	jar.SetCookie(codec.BlankCookie())
	if owner != "" {
		h.activity.Record(c.Request.Context(), owner, activity.ActionSignOut, "Signed out", nil)
	}
	c.JSON(http.StatusOK, gin.H{"message": "signed out"})
}

// SignOutAll handles POST /auth/sign-out-all, ending every session of the
// current user.
func (h *Handler) SignOutAll(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	if err := h.sessions.InvalidateUser(c.Request.Context(), userID); err != nil {
		h.logger.Error("Failed to delete user sessions", "user_id", userID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to sign out"})
		return
	}

	session.GinJar(c).SetCookie(h.validator.Codec().BlankCookie())
	h.activity.Record(c.Request.Context(), userID, activity.ActionSignOutAll, "Signed out of every session", nil)
	c.JSON(http.StatusOK, gin.H{"message": "signed out everywhere"})
}

// Me handles GET /auth/me
func (h *Handler) Me(c *gin.Context) {
	out := middleware.Outcome(c, h.validator)
	c.JSON(http.StatusOK, MeResponse{User: out.User, Session: sessionInfo(out.Session)})
}

// UpdateAccount handles PATCH /api/account
func (h *Handler) UpdateAccount(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req UpdateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.users.UpdateAccount(c.Request.Context(), userID, users.UpdateParams{
		Name:  req.Name,
		Email: req.Email,
	})
	if err != nil {
		switch {
		case errors.Is(err, users.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		case errors.Is(err, users.ErrEmailExists):
			c.JSON(http.StatusConflict, gin.H{
				"error":   "email_taken",
				"message": "This email is already registered",
				"field":   "email",
			})
		default:
			h.logger.Error("Failed to update account", "user_id", userID, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update account"})
		}
		return
	}

	fields := activity.Metadata{}
	if req.Name != nil {
		fields["name"] = true
	}
	if req.Email != nil {
		fields["email"] = true
	}
	h.activity.Record(c.Request.Context(), userID, activity.ActionAccountUpdate, "Updated account", fields)
	c.JSON(http.StatusOK, user)
}
