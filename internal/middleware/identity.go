package middleware

import "github.com/labstack/echo/v4"

// Subject returns the token subject stored by JWTAuth, or "anon" for
// unauthenticated requests.
func Subject(c echo.Context) string {
	if s, ok := c.Get(ctxSubject).(string); ok && s != "" {
		return s
	}
	return "anon"
}

func passthrough(next echo.HandlerFunc) echo.HandlerFunc { return next }
