package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"authdesk/internal/api"
	"authdesk/internal/logger"
	"authdesk/internal/metrics"
	"authdesk/internal/model"
)

const bearerPrefix = "Bearer "

func bearerToken(c echo.Context) string {
	h := c.Request().Header.Get(echo.HeaderAuthorization)
	if !strings.HasPrefix(h, bearerPrefix) {
		return ""
	}
	return strings.TrimSpace(h[len(bearerPrefix):])
}

// RequireAuth 驗證 bearer token，載入使用者並檢查帳號是否啟用。
// 成功時使用者以 WithPrincipal 放入 request context。
func RequireAuth(users model.UserStore, tokens model.TokenVerifier, log *logger.Logger, m *metrics.Metrics) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := bearerToken(c)
			if raw == "" {
				m.AuthFailure(metrics.ReasonMissingToken)
				return c.JSON(http.StatusUnauthorized, api.ErrorResponse{Message: "Unauthorized"})
			}

			userID, err := tokens.Verify(raw)
			if err != nil {
				log.Debug("token rejected", "path", c.Path(), "error", err)
				m.AuthFailure(metrics.ReasonInvalidToken)
				return c.JSON(http.StatusUnauthorized, api.ErrorResponse{Message: "Invalid token"})
			}

			user, err := users.GetByID(c.Request().Context(), userID)
			switch {
			case errors.Is(err, model.ErrNotFound):
				m.AuthFailure(metrics.ReasonInactive)
				return c.JSON(http.StatusUnauthorized, api.ErrorResponse{Message: "Account inactive"})
			case err != nil:
				log.Error("load principal failed", "path", c.Path(), "error", err)
				return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: "Internal server error"})
			case !user.IsActive:
				m.AuthFailure(metrics.ReasonInactive)
				return c.JSON(http.StatusUnauthorized, api.ErrorResponse{Message: "Account inactive"})
			}

			req := c.Request()
			c.SetRequest(req.WithContext(WithPrincipal(req.Context(), user)))
			return next(c)
		}
	}
}
