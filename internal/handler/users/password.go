// File: internal/handler/users/password.go
package users

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"authdesk/internal/api"
	"authdesk/internal/events"
	"authdesk/internal/logger"
	"authdesk/internal/middleware"
	"authdesk/internal/model"
	"authdesk/internal/service"
)

// ChangePasswordHandler 驗證舊密碼並更新為新密碼
// @Summary     Change own password
// @Tags        users
// @Accept      json
// @Produce     json
// @Param       body body     api.ChangePasswordRequest true "舊密碼與新密碼"
// @Success     200  {object} api.MessageResponse
// @Failure     400  {object} api.ValidationErrorResponse
// @Failure     401  {object} api.ErrorResponse
// @Failure     500  {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /user/password [put]
func ChangePasswordHandler(users model.UserStore, hasher *service.PasswordHasher, pub events.Publisher, log *logger.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req api.ChangePasswordRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "Invalid request body"})
		}
		if err := c.Validate(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ValidationErrorResponse{Errors: api.FieldErrors(err)})
		}

		principal, ok := middleware.Principal(c)
		if !ok {
			return c.JSON(http.StatusUnauthorized, api.ErrorResponse{Message: "Unauthorized"})
		}

		if !hasher.Verify(req.OldPassword, principal.PasswordHash) {
			return c.JSON(http.StatusUnauthorized, api.ErrorResponse{Message: "Incorrect old password"})
		}

		hash, err := hasher.Hash(req.NewPassword)
		if err != nil {
			log.Error("change password: hash failed", "user_id", principal.ID.String(), "error", err)
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: "Internal server error"})
		}

		ctx := c.Request().Context()
		if err := users.UpdatePassword(ctx, principal.ID, hash); err != nil {
			log.Error("change password: update failed", "user_id", principal.ID.String(), "error", err)
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: "Internal server error"})
		}

		if err := pub.Publish(ctx, events.New(events.TypeUserPasswordChanged, principal.ID, nil)); err != nil {
			log.Warn("change password: publish event failed", "user_id", principal.ID.String(), "error", err)
		}
		return c.JSON(http.StatusOK, api.MessageResponse{Message: "Password changed successfully"})
	}
}
