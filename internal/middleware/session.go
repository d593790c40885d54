package middleware

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const (
	SessionCookie = "session_id"
	SessionHeader = "X-Session-ID"

	sessionKey = "session_id"
)

// SessionMiddleware ties requests to a cart session. The id comes from the
// session cookie or the X-Session-ID header; a new one is issued otherwise.
func SessionMiddleware(ttl time.Duration, secure bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := c.Request().Header.Get(SessionHeader)
			if cookie, err := c.Cookie(SessionCookie); err == nil && cookie.Value != "" {
				id = cookie.Value
			}
			if _, err := uuid.Parse(id); err != nil {
				id = uuid.NewString()
			}

			c.SetCookie(&http.Cookie{
				Name:     SessionCookie,
				Value:    id,
				Path:     "/",
				MaxAge:   int(ttl.Seconds()),
				HttpOnly: true,
				Secure:   secure,
				SameSite: http.SameSiteLaxMode,
			})
			c.Response().Header().Set(SessionHeader, id)
			c.Set(sessionKey, id)
			return next(c)
		}
	}
}

func SessionID(c echo.Context) string {
	id, _ := c.Get(sessionKey).(string)
	return id
}
