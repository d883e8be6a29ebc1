package session

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodec(t *testing.T) {
	c := NewCodec("", false)
	assert.Equal(t, DefaultCookieName, c.CookieName())

	_, ok := c.Decode("")
	assert.False(t, ok)

	id, ok := c.Decode(c.Encode("sess_abc123"))
	require.True(t, ok)
	assert.Equal(t, "sess_abc123", id)

	ck := c.SessionCookie("sess_abc123")
	assert.False(t, ck.Secure)
	assert.Equal(t, "sess_abc123", ck.Value)

	blank := c.BlankCookie()
	assert.Empty(t, blank.Value)
	assert.Equal(t, -1, blank.MaxAge)
	assert.Equal(t, ck.Path, blank.Path)
	assert.Equal(t, ck.Name, blank.Name)
}

func TestGinJar(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Request.AddCookie(&http.Cookie{Name: "auth_session", Value: "sess_abc123"})

	jar := GinJar(c)
	v, ok := jar.Cookie("auth_session")
	assert.True(t, ok)
	assert.Equal(t, "sess_abc123", v)

	_, ok = jar.Cookie("other")
	assert.False(t, ok)

	jar.SetCookie(NewCodec("auth_session", true).BlankCookie())
	assert.Contains(t, w.Header().Get("Set-Cookie"), "auth_session=;")
	assert.Contains(t, w.Header().Get("Set-Cookie"), "Max-Age=0")
}
