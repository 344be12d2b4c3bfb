// File: internal/handler/auth/logout.go
package auth

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"authdesk/internal/api"
)

// LogoutHandler token 為無狀態，伺服器端不做任何處理
// @Summary     Log out
// @Tags        auth
// @Produce     json
// @Success     200 {object} api.MessageResponse
// @Failure     401 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /auth/logout [post]
func LogoutHandler() echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, api.MessageResponse{Message: "Logout successful"})
	}
}
