package middleware

import (
	"context"

	"github.com/labstack/echo/v4"

	"authdesk/internal/model"
)

type principalKey struct{}

// WithPrincipal 將已驗證的使用者放入 context
func WithPrincipal(ctx context.Context, u *model.User) context.Context {
	return context.WithValue(ctx, principalKey{}, u)
}

// PrincipalFrom 取出已驗證的使用者；未經 RequireAuth 時回傳 false
func PrincipalFrom(ctx context.Context) (*model.User, bool) {
	u, ok := ctx.Value(principalKey{}).(*model.User)
	return u, ok && u != nil
}

// Principal is PrincipalFrom for an echo request.
func Principal(c echo.Context) (*model.User, bool) {
	return PrincipalFrom(c.Request().Context())
}
