// File: internal/handler/admin/users.go
package admin

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"authdesk/internal/api"
	"authdesk/internal/events"
	"authdesk/internal/logger"
	"authdesk/internal/model"
)

const (
	defaultPage  = 1
	defaultLimit = 10
)

// positiveOr 解析正整數，失敗或小於 1 時回傳預設值
func positiveOr(raw string, def int) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return def
	}
	return n
}

// ListUsersHandler 分頁列出所有使用者
// @Summary     List users
// @Description 依建立時間排序；page/limit 非數字或小於 1 時使用預設值 1/10
// @Tags        admin
// @Produce     json
// @Param       page  query    int false "頁碼" default(1)
// @Param       limit query    int false "每頁筆數" default(10)
// @Success     200   {object} api.UserListResponse
// @Failure     401   {object} api.ErrorResponse
// @Failure     403   {object} api.ErrorResponse
// @Failure     500   {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /admin [get]
func ListUsersHandler(users model.UserStore, log *logger.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		var q api.ListUsersQuery
		if err := c.Bind(&q); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "Invalid query"})
		}
		page := positiveOr(q.Page, defaultPage)
		limit := positiveOr(q.Limit, defaultLimit)

		ctx := c.Request().Context()
		total, err := users.Count(ctx)
		if err != nil {
			log.Error("list users: count failed", "error", err)
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: "Internal server error"})
		}

		totalPages := total / limit
		if total%limit > 0 {
			totalPages++
		}
		list := []model.User{}
		// 超出最後一頁時不必再查
		if page <= totalPages {
			list, err = users.List(ctx, (page-1)*limit, limit)
			if err != nil {
				log.Error("list users: query failed", "error", err)
				return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: "Internal server error"})
			}
		}

		resp := api.UserListResponse{
			Page:       page,
			TotalPages: totalPages,
			Users:      make([]api.UserResponse, 0, len(list)),
		}
		for i := range list {
			resp.Users = append(resp.Users, api.NewUserResponse(&list[i]))
		}
		return c.JSON(http.StatusOK, resp)
	}
}

// ToggleUserStatusHandler 切換使用者啟用狀態
// @Summary     Toggle user status
// @Tags        admin
// @Produce     json
// @Param       userId path     string true "使用者 ID (UUID)"
// @Success     200    {object} api.MessageResponse
// @Failure     401    {object} api.ErrorResponse
// @Failure     403    {object} api.ErrorResponse
// @Failure     404    {object} api.ErrorResponse
// @Failure     500    {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /admin/{userId}/toggle [put]
func ToggleUserStatusHandler(users model.UserStore, pub events.Publisher, log *logger.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := uuid.Parse(c.Param("userId"))
		if err != nil {
			return c.JSON(http.StatusNotFound, api.ErrorResponse{Message: "User not found"})
		}

		ctx := c.Request().Context()
		active, err := users.ToggleActive(ctx, id)
		switch {
		case errors.Is(err, model.ErrNotFound):
			return c.JSON(http.StatusNotFound, api.ErrorResponse{Message: "User not found"})
		case err != nil:
			log.Error("toggle user failed", "user_id", id.String(), "error", err)
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: "Internal server error"})
		}

		if err := pub.Publish(ctx, events.New(events.TypeUserStatusChanged, id, map[string]any{"isActive": active})); err != nil {
			log.Warn("toggle user: publish event failed", "user_id", id.String(), "error", err)
		}

		msg := "User deactivated"
		if active {
			msg = "User activated"
		}
		return c.JSON(http.StatusOK, api.MessageResponse{Message: msg})
	}
}
