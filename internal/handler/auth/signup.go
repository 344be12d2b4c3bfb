// File: internal/handler/auth/signup.go
package auth

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"authdesk/internal/api"
	"authdesk/internal/events"
	"authdesk/internal/logger"
	"authdesk/internal/model"
	"authdesk/internal/service"
)

// SignupHandler 註冊新使用者並回傳 token
// @Summary     Sign up
// @Description 建立一般使用者帳號（role=user, isActive=true），並回傳 bearer token
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       body body     api.SignupRequest true "註冊資料"
// @Success     201  {object} api.TokenResponse
// @Failure     400  {object} api.ValidationErrorResponse
// @Failure     409  {object} api.ErrorResponse
// @Failure     500  {object} api.ErrorResponse
// @Router      /auth/signup [post]
func SignupHandler(users model.UserStore, hasher *service.PasswordHasher, tokens model.TokenIssuer, pub events.Publisher, log *logger.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req api.SignupRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "Invalid request body"})
		}
		if err := c.Validate(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ValidationErrorResponse{Errors: api.FieldErrors(err)})
		}

		ctx := c.Request().Context()
		email := strings.ToLower(req.Email)

		exists, err := users.EmailExists(ctx, email)
		if err != nil {
			log.Error("signup: email lookup failed", "error", err)
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: "Internal server error"})
		}
		if exists {
			return c.JSON(http.StatusConflict, api.ErrorResponse{Message: "User already exists"})
		}

		hash, err := hasher.Hash(req.Password)
		if err != nil {
			log.Error("signup: hash password failed", "error", err)
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: "Internal server error"})
		}

		user, err := users.Create(ctx, model.NewUser(req.FullName, email, hash))
		if errors.Is(err, model.ErrEmailTaken) {
			// 並發註冊同一 email，由唯一索引擋下
			return c.JSON(http.StatusConflict, api.ErrorResponse{Message: "User already exists"})
		}
		if err != nil {
			log.Error("signup: create user failed", "error", err)
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: "Internal server error"})
		}

		if err := pub.Publish(ctx, events.New(events.TypeUserCreated, user.ID, map[string]any{
			"email": user.Email,
			"role":  string(user.Role),
		})); err != nil {
			log.Warn("signup: publish event failed", "user_id", user.ID.String(), "error", err)
		}

		token, err := tokens.Issue(user.ID)
		if err != nil {
			log.Error("signup: issue token failed", "error", err)
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: "Internal server error"})
		}
		return c.JSON(http.StatusCreated, api.TokenResponse{Message: "User created successfully", Token: token})
	}
}
