// Package cookie carries the refresh token between the browser and the auth handlers.
// The session manager never sees cookies; it only receives and returns raw token strings.
package cookie

import (
	"net/http"
	"strings"
	"time"

	"miniblog/config"

	"github.com/labstack/echo/v4"
)

// RefreshCookie writes and reads the HttpOnly refresh token cookie.
type RefreshCookie struct {
	name     string
	domain   string
	path     string
	secure   bool
	sameSite http.SameSite
	maxAge   time.Duration
}

// NewRefreshCookie builds the cookie settings from configuration.
func NewRefreshCookie(cfg *config.Config) *RefreshCookie {
	rc := &RefreshCookie{
		name:     "refresh_token",
		path:     "/",
		sameSite: http.SameSiteLaxMode,
	}
	if cfg.Auth != nil {
		rc.maxAge = cfg.Auth.RefreshTokenTTL
	}
	if c := cfg.Cookie; c != nil {
		if c.Name != "" {
			rc.name = c.Name
		}
		if c.Path != "" {
			rc.path = c.Path
		}
		rc.domain = c.Domain
		rc.secure = c.Secure
		rc.sameSite = parseSameSite(c.SameSite)
	}

	return rc
}

// Read returns the refresh token sent by the client, or "" when absent.
func (rc *RefreshCookie) Read(c echo.Context) string {
	ck, err := c.Cookie(rc.name)
	if err != nil {
		return ""
	}

	return ck.Value
}

// Set stores token in the cookie for the lifetime of a refresh token.
func (rc *RefreshCookie) Set(c echo.Context, token string) {
	ck := rc.base()
	ck.Value = token
	ck.MaxAge = int(rc.maxAge.Seconds())
	ck.Expires = time.Now().Add(rc.maxAge)
	c.SetCookie(ck)
}

// Clear expires the cookie on the client.
func (rc *RefreshCookie) Clear(c echo.Context) {
	ck := rc.base()
	ck.MaxAge = -1
	ck.Expires = time.Unix(0, 0)
	c.SetCookie(ck)
}

func (rc *RefreshCookie) base() *http.Cookie {
	return &http.Cookie{
		Name:     rc.name,
		Domain:   rc.domain,
		Path:     rc.path,
		Secure:   rc.secure,
		HttpOnly: true,
		SameSite: rc.sameSite,
	}
}

func parseSameSite(value string) http.SameSite {
	switch strings.ToLower(value) {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}
