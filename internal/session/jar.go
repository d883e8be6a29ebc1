package session

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// CookieJar reads cookies from the current request and writes cookies to
// the current response.
type CookieJar interface {
	Cookie(name string) (string, bool)
	SetCookie(cookie *http.Cookie)
}

type ginJar struct {
	c *gin.Context
}

// GinJar adapts a gin context to a CookieJar
func GinJar(c *gin.Context) CookieJar {
	return ginJar{c: c}
}

func (j ginJar) Cookie(name string) (string, bool) {
	value, err := j.c.Cookie(name)
	if err != nil {
		return "", false
	}
	return value, true
}

func (j ginJar) SetCookie(cookie *http.Cookie) {
	http.SetCookie(j.c.Writer, cookie)
}
