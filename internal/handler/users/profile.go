// File: internal/handler/users/profile.go
package users

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"authdesk/internal/api"
	"authdesk/internal/logger"
	"authdesk/internal/middleware"
	"authdesk/internal/model"
)

// GetProfileHandler 取得當前使用者資料
// @Summary     Get own profile
// @Tags        users
// @Produce     json
// @Success     200 {object} api.UserResponse
// @Failure     401 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /user [get]
func GetProfileHandler() echo.HandlerFunc {
	return func(c echo.Context) error {
		u, ok := middleware.Principal(c)
		if !ok {
			return c.JSON(http.StatusUnauthorized, api.ErrorResponse{Message: "Unauthorized"})
		}
		return c.JSON(http.StatusOK, api.NewUserResponse(u))
	}
}

// UpdateProfileHandler 更新當前使用者的姓名或 email，只套用有提供的欄位
// @Summary     Update own profile
// @Tags        users
// @Accept      json
// @Produce     json
// @Param       body body     api.UpdateProfileRequest true "要更新的欄位"
// @Success     200  {object} api.MessageResponse
// @Failure     400  {object} api.ValidationErrorResponse
// @Failure     401  {object} api.ErrorResponse
// @Failure     409  {object} api.ErrorResponse
// @Failure     500  {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /user [put]
func UpdateProfileHandler(users model.UserStore, log *logger.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req api.UpdateProfileRequest
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

		updated := *principal
		if req.FullName != nil {
			updated.FullName = *req.FullName
		}
		if req.Email != nil {
			updated.Email = strings.ToLower(*req.Email)
		}

		err := users.UpdateProfile(c.Request().Context(), &updated)
		switch {
		case errors.Is(err, model.ErrEmailTaken):
			return c.JSON(http.StatusConflict, api.ErrorResponse{Message: "Email already in use"})
		case errors.Is(err, model.ErrNotFound):
			return c.JSON(http.StatusNotFound, api.ErrorResponse{Message: "User not found"})
		case err != nil:
			log.Error("update profile failed", "user_id", principal.ID.String(), "error", err)
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: "Internal server error"})
		}
		return c.JSON(http.StatusOK, api.MessageResponse{Message: "Profile updated successfully"})
	}
}
