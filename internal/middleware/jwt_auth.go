package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/mahinuzzaman/pulsefeed/internal/session"
)

// JWTAuthMiddleware validates the bearer token through the session service
// and stores the resolved session in the request context.
func JWTAuthMiddleware(sessions *session.Service) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Missing Authorization header")
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid Authorization header format")
			}

			sess, err := sessions.GetSession(parts[1])
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid or expired token")
			}

			c.Set("session", sess)
			c.Set("userID", sess.UserID)
			return next(c)
		}
	}
}

// SessionFromContext returns the session stored by JWTAuthMiddleware, or nil
// on unauthenticated routes.
func SessionFromContext(c echo.Context) *session.Session {
	sess, _ := c.Get("session").(*session.Session)
	return sess
}

// UserIDFromContext returns the authenticated user's ID, or the empty string
func UserIDFromContext(c echo.Context) string {
	id, _ := c.Get("userID").(string)
	return id
}
