package middleware

import (
	"net/http"

	"firebase.google.com/go/v4/auth"
	"github.com/labstack/echo/v4"
)

// RequireAuth returns a middleware that verifies Firebase session cookies
func RequireAuth(authClient *auth.Client) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if authClient == nil {
				return echo.NewHTTPError(http.StatusServiceUnavailable, "authentication is not configured")
			}

			cookie, err := c.Cookie("session")
			if err != nil || cookie.Value == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "please log in to continue")
			}

			decodedToken, err := authClient.VerifySessionCookie(c.Request().Context(), cookie.Value)
			if err != nil {
				clearCookie := &http.Cookie{
					Name:     "session",
					Value:    "",
					MaxAge:   -1,
					HttpOnly: true,
					Path:     "/",
				}
				c.SetCookie(clearCookie)
				return echo.NewHTTPError(http.StatusUnauthorized, "session expired, please log in again")
			}

			c.Set("userUID", decodedToken.UID)
			if email, ok := decodedToken.Claims["email"].(string); ok {
				c.Set("userEmail", email)
			}

			return next(c)
		}
	}
}

// RequireAdmin ensures the authenticated user carries the admin custom
// claim. Must run after RequireAuth.
func RequireAdmin(authClient *auth.Client) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			uid, _ := c.Get("userUID").(string)
			if uid == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "please log in to continue")
			}
			user, err := authClient.GetUser(c.Request().Context(), uid)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "could not verify account")
			}
			if isAdmin, ok := user.CustomClaims["admin"].(bool); !ok || !isAdmin {
				return echo.NewHTTPError(http.StatusForbidden, "admin access required")
			}
			return next(c)
		}
	}
}
