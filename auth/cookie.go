package auth

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const RefreshCookieName = "refreshToken"

type CookieConfig struct {
	Secure bool
	Domain string
}

func (cc CookieConfig) SetRefresh(c *gin.Context, token string, maxAge time.Duration) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     RefreshCookieName,
		Value:    token,
		Path:     "/",
		Domain:   cc.Domain,
		MaxAge:   int(maxAge.Seconds()),
		HttpOnly: true,
		Secure:   cc.Secure,
		SameSite: http.SameSiteStrictMode,
	})
}

func (cc CookieConfig) ClearRefresh(c *gin.Context) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     RefreshCookieName,
		Value:    "",
		Path:     "/",
		Domain:   cc.Domain,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   cc.Secure,
		SameSite: http.SameSiteStrictMode,
	})
}

func RefreshFromRequest(c *gin.Context) string {
	token, err := c.Cookie(RefreshCookieName)
	if err != nil {
		return ""
	}
	return token
}
