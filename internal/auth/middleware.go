// Package auth resolves the acting user for protected routes.
package auth

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// userIDHeader names the header the frontend's session layer forwards.
const userIDHeader = "X-User-ID"

// contextKey is the echo context key the resolved user id is stored
// under.
const contextKey = "user_id"

// RequireUser rejects requests that carry no user identity.
func RequireUser(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		userID := c.Request().Header.Get(userIDHeader)
		if userID == "" {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "missing user identity"})
		}
		c.Set(contextKey, userID)
		return next(c)
	}
}

// UserID returns the acting user resolved by RequireUser, or the empty
// string on unprotected routes.
func UserID(c echo.Context) string {
	if id, ok := c.Get(contextKey).(string); ok {
		return id
	}
	return ""
}
