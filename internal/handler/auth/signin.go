// File: internal/handler/auth/signin.go
package auth

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"authdesk/internal/api"
	"authdesk/internal/logger"
	"authdesk/internal/metrics"
	"authdesk/internal/model"
	"authdesk/internal/service"
)

const dummyPassword = "authdesk-dummy-password"

// fallbackDummyHash 是 dummyPassword 在 cost 10 下的 bcrypt 摘要，
// 執行期產生失敗時使用
const fallbackDummyHash = "$2a$10$GH/bQod3lycGw1YDqaiHKuXlU4k5UZfkIHaiDg095IrAImEQu/qjG"

var hashDummy = func(h *service.PasswordHasher) (string, error) {
	return h.Hash(dummyPassword)
}

// SigninHandler 使用 email/password 驗證並回傳 token
// @Summary     Sign in
// @Description 驗證 email 與密碼；未知 email 與錯誤密碼回傳相同的 401
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       body body     api.SigninRequest true "登入資料"
// @Success     200  {object} api.TokenResponse
// @Failure     400  {object} api.ValidationErrorResponse
// @Failure     401  {object} api.ErrorResponse
// @Failure     500  {object} api.ErrorResponse
// @Router      /auth/signin [post]
func SigninHandler(users model.UserStore, hasher *service.PasswordHasher, tokens model.TokenIssuer, log *logger.Logger, m *metrics.Metrics) echo.HandlerFunc {
	// 未知 email 時仍跑一次 bcrypt，讓兩種失敗的耗時一致
	dummyHash, err := hashDummy(hasher)
	if err != nil {
		log.Warn("signin: dummy hash failed, using fallback digest", "error", err)
		dummyHash = fallbackDummyHash
	}

	return func(c echo.Context) error {
		var req api.SigninRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "Invalid request body"})
		}
		if err := c.Validate(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ValidationErrorResponse{Errors: api.FieldErrors(err)})
		}

		user, err := users.GetByEmail(c.Request().Context(), strings.ToLower(req.Email))
		switch {
		case errors.Is(err, model.ErrNotFound):
			hasher.Verify(req.Password, dummyHash)
			m.AuthFailure(metrics.ReasonCredentials)
			return c.JSON(http.StatusUnauthorized, api.ErrorResponse{Message: "Invalid credentials"})
		case err != nil:
			log.Error("signin: lookup failed", "error", err)
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: "Internal server error"})
		}

		if !hasher.Verify(req.Password, user.PasswordHash) {
			m.AuthFailure(metrics.ReasonCredentials)
			return c.JSON(http.StatusUnauthorized, api.ErrorResponse{Message: "Invalid credentials"})
		}

		token, err := tokens.Issue(user.ID)
		if err != nil {
			log.Error("signin: issue token failed", "error", err)
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: "Internal server error"})
		}
		return c.JSON(http.StatusOK, api.TokenResponse{Message: "Login successful", Token: token})
	}
}
