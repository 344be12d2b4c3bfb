// File: internal/router/router.go
package router

import (
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "authdesk/docs" // 引入 swag 產出的 docs

	"authdesk/internal/cache"
	"authdesk/internal/database"
	"authdesk/internal/events"
	"authdesk/internal/handler"
	"authdesk/internal/handler/admin"
	"authdesk/internal/handler/auth"
	"authdesk/internal/handler/users"
	"authdesk/internal/logger"
	"authdesk/internal/metrics"
	"authdesk/internal/middleware"
	"authdesk/internal/model"
	"authdesk/internal/service"
)

// Deps 路由所需的所有相依元件
type Deps struct {
	DB          database.DB
	Cache       cache.Cache
	Users       model.UserStore
	Hasher      *service.PasswordHasher
	Tokens      *service.TokenService
	Events      events.Publisher
	Metrics     *metrics.Metrics
	Log         *logger.Logger
	CORSOrigins []string
}

// Setup 註冊所有路由與中介層
func Setup(e *echo.Echo, d Deps) {
	e.Use(d.Metrics.Middleware())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: d.CORSOrigins,
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	requireAuth := middleware.RequireAuth(d.Users, d.Tokens, d.Log, d.Metrics)

	// 健康檢查與監控
	e.GET("/ping", handler.PingHandler(d.DB, d.Cache))
	e.GET("/metrics", d.Metrics.Handler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// 註冊、登入、登出
	apiAuth := e.Group("/auth")
	apiAuth.POST("/signup", auth.SignupHandler(d.Users, d.Hasher, d.Tokens, d.Events, d.Log))
	apiAuth.POST("/signin", auth.SigninHandler(d.Users, d.Hasher, d.Tokens, d.Log, d.Metrics))
	apiAuth.POST("/logout", auth.LogoutHandler(), requireAuth)

	// 當前使用者個人資料
	apiUser := e.Group("/user", requireAuth)
	apiUser.GET("", users.GetProfileHandler())
	apiUser.PUT("", users.UpdateProfileHandler(d.Users, d.Log))
	apiUser.PUT("/password", users.ChangePasswordHandler(d.Users, d.Hasher, d.Events, d.Log))

	// 管理員專屬
	apiAdmin := e.Group("/admin", requireAuth, middleware.RequireRole(model.RoleAdmin))
	apiAdmin.GET("", admin.ListUsersHandler(d.Users, d.Log))
	apiAdmin.PUT("/:userId/toggle", admin.ToggleUserStatusHandler(d.Users, d.Events, d.Log))
}
