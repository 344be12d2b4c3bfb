package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"authdesk/internal/api"
	"authdesk/internal/model"
)

// RequireRole 必須接在 RequireAuth 之後
func RequireRole(roles ...model.Role) echo.MiddlewareFunc {
	names := make([]string, 0, len(roles))
	for _, r := range roles {
		names = append(names, roleTitle(r))
	}
	denied := strings.Join(names, " or ") + " access required"

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			u, ok := Principal(c)
			if !ok {
				return c.JSON(http.StatusUnauthorized, api.ErrorResponse{Message: "Unauthorized"})
			}
			if !u.Role.Satisfies(roles...) {
				return c.JSON(http.StatusForbidden, api.ErrorResponse{Message: denied})
			}
			return next(c)
		}
	}
}

func roleTitle(r model.Role) string {
	s := string(r)
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
