package rest

import (
	"net/http"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/server/auth"
	"github.com/gin-gonic/gin"
)

func (s *HTTPServer) setTokenCookies(c *gin.Context, tokens *auth.TokenPair) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(common.AccessTokenCookieName, tokens.AccessToken, seconds(s.cookies.AccessTTL), "/", s.cookies.Domain, s.cookies.Secure, true)
	c.SetCookie(common.RefreshTokenCookieName, tokens.RefreshToken, seconds(s.cookies.RefreshTTL), "/", s.cookies.Domain, s.cookies.Secure, true)
}

func (s *HTTPServer) clearAccessCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(common.AccessTokenCookieName, "", -1, "/", s.cookies.Domain, s.cookies.Secure, true)
}

// seconds converts a TTL to a cookie Max-Age; zero keeps a session cookie.
func seconds(d time.Duration) int {
	return int(d / time.Second)
}
