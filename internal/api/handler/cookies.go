package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/chatapp/realtime-chat/internal/api/middleware"
)

const (
	refreshTokenCookie = "refresh_token"
	refreshCookiePath  = "/api/auth"
)

// CookieOptions controls the session cookies. Secure is off in development so
// the cookies work over plain http://localhost.
type CookieOptions struct {
	Secure bool
}

func (o CookieOptions) setSession(c echo.Context, access string, accessExp time.Time, refresh string, refreshExp time.Time) {
	c.SetCookie(o.cookie(middleware.AccessTokenCookie, access, "/", accessExp))
	c.SetCookie(o.cookie(refreshTokenCookie, refresh, refreshCookiePath, refreshExp))
}

func (o CookieOptions) clearSession(c echo.Context) {
	for _, ck := range []*http.Cookie{
		o.cookie(middleware.AccessTokenCookie, "", "/", time.Time{}),
		o.cookie(refreshTokenCookie, "", refreshCookiePath, time.Time{}),
	} {
		ck.MaxAge = -1
		ck.Expires = time.Unix(0, 0)
		c.SetCookie(ck)
	}
}

func (o CookieOptions) cookie(name, value, path string, expires time.Time) *http.Cookie {
	ck := &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     path,
		HttpOnly: true,
		Secure:   o.Secure,
		SameSite: http.SameSiteStrictMode,
	}
	if !expires.IsZero() {
		ck.Expires = expires
		ck.MaxAge = int(time.Until(expires).Seconds())
	}
	return ck
}
