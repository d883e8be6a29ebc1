// Package middleware holds the gin middleware shared by every route: request
// ids, request scoped session validation, access control and request logging.
package middleware

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"dashboard/internal/session"
)

// Context keys set on the gin context
const (
	KeyRequestID = "request_id"
	KeyUserID    = "user_id"
	KeyEmail     = "email"
)

// RequestHeaderID is echoed on every response
const RequestHeaderID = "X-Request-ID"

// RequestID assigns every request an id. A well-formed incoming X-Request-ID
// is kept so callers can correlate logs.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestHeaderID)
		if _, err := uuid.Parse(requestID); err != nil {
			requestID = uuid.New().String()
		}

		c.Set(KeyRequestID, requestID)
		c.Writer.Header().Set(RequestHeaderID, requestID)

		c.Next()
	}
}

// RequestScope attaches a fresh session validation scope to the request
// context. Everything downstream that validates the session shares one
// result.
func RequestScope() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request = c.Request.WithContext(session.WithScope(c.Request.Context()))
		c.Next()
	}
}

// LoadSession validates the session cookie and exposes the identity on the
// gin context. It never rejects a request. Routes listed in skipPaths are not
// validated up front, so their sessions are neither renewed nor cleared unless
// the handler asks for the outcome itself.
func LoadSession(v *session.Validator, skipPaths ...string) gin.HandlerFunc {
	skip := make(map[string]struct{}, len(skipPaths))
	for _, p := range skipPaths {
		skip[p] = struct{}{}
	}
	return func(c *gin.Context) {
		if _, ok := skip[c.FullPath()]; !ok {
			Outcome(c, v)
		}
		c.Next()
	}
}

// Outcome returns the session outcome for the request, validating on first
// use. The request context must carry a scope from RequestScope; the scope is
// what keeps validation and cookie writes to one per request.
func Outcome(c *gin.Context, v *session.Validator) session.Outcome {
	out := v.ValidateRequest(c.Request.Context(), session.GinJar(c))
	if out.Authenticated() {
		c.Set(KeyUserID, out.User.ID)
		c.Set(KeyEmail, out.User.Email)
	}
	return out
}

// RequireAuth rejects unauthenticated API requests with 401
func RequireAuth(v *session.Validator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !Outcome(c, v).Authenticated() {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "unauthorized",
			})
			return
		}
		c.Next()
	}
}

// RequirePage redirects unauthenticated page requests to signInPath
func RequirePage(v *session.Validator, signInPath string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !Outcome(c, v).Authenticated() {
			c.Redirect(http.StatusFound, signInPath)
			c.Abort()
			return
		}
		c.Next()
	}
}

// UserID returns the authenticated user id
func UserID(c *gin.Context) (string, bool) {
	id := c.GetString(KeyUserID)
	return id, id != ""
}

// CurrentSession returns the authenticated session if the request has
// already been validated
func CurrentSession(c *gin.Context) (*session.Session, bool) {
	res, ok := session.Cached(c.Request.Context())
	if !ok {
		return nil, false
	}
	return res.Outcome.Session, res.Outcome.Authenticated()
}

// Logging emits one structured line per request
func Logging(logger *slog.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = slog.Default()
	}
	return func(c *gin.Context) {
		start := time.Now()

		rw := newResponseWriter(c.Writer)
		c.Writer = rw

		c.Next()

		status := c.Writer.Status()
		attrs := []any{
			"request_id", c.GetString(KeyRequestID),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"latency_ms", float64(time.Since(start).Microseconds()) / 1000,
			"client_ip", c.ClientIP(),
			"response_size", rw.Size(),
		}
		if query := c.Request.URL.RawQuery; query != "" {
			attrs = append(attrs, "query", query)
		}
		if userID, ok := UserID(c); ok {
			attrs = append(attrs, "user_id", userID)
		}
		if n := len(c.Writer.Header().Values("Set-Cookie")); n > 0 {
			attrs = append(attrs, "set_cookie", n)
		}
		if len(c.Errors) > 0 {
			attrs = append(attrs, "error", strings.TrimSpace(c.Errors.String()))
		}

		switch {
		case status >= 500:
			logger.Error("Request failed - server error", attrs...)
		case status >= 400:
			logger.Warn("Request failed - client error", attrs...)
		default:
			logger.Info("Request completed", attrs...)
		}
	}
}
