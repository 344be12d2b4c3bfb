// File: cmd/service/main.go
// @title        AuthDesk API
// @version      1.0
// @description  使用者註冊、登入、個人資料與管理員帳號管理 API
// @host         localhost:8080
// @BasePath     /
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
// @description Bearer token，格式為 "Bearer {token}"
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"

	"authdesk/internal/api"
	"authdesk/internal/cache"
	"authdesk/internal/config"
	"authdesk/internal/database"
	"authdesk/internal/events"
	"authdesk/internal/logger"
	"authdesk/internal/metrics"
	"authdesk/internal/router"
	"authdesk/internal/service"
	"authdesk/internal/store"
	"authdesk/internal/worker"
)

const (
	dbPingTimeout   = 5 * time.Second
	shutdownTimeout = 10 * time.Second
)

// 測試時可覆寫
var (
	loadConfig       = config.NewConfig
	newPgxPool       = database.NewPgxPool
	newRedisClient   = cache.NewRedisClient
	runMigrationsFn  = database.RunMigrations
	newKafkaProducer = events.NewSyncProducer
	newWorkerPool    = worker.NewPool
	startServer      = func(e *echo.Echo, addr string) error { return e.Start(addr) }
	exitFunc         = os.Exit
)

func run(ctx context.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := logger.New(cfg.LogLevel)

	// 先執行遷移再建立連線池
	if err := runMigrationsFn(cfg.Database.URL); err != nil {
		return fmt.Errorf("Migration 執行失敗: %w", err)
	}

	db, err := newPgxPool(ctx, cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("DB 連線失敗: %w", err)
	}
	defer db.Close()

	pingCtx, cancel := context.WithTimeout(ctx, dbPingTimeout)
	err = db.Ping(pingCtx)
	cancel()
	if err != nil {
		return fmt.Errorf("DB 連線失敗: %w", err)
	}

	rdb, err := newRedisClient(cfg.Redis)
	if err != nil {
		return fmt.Errorf("Redis 連線失敗: %w", err)
	}
	defer func() {
		if err := rdb.Close(); err != nil {
			log.Warn("關閉 Redis 連線失敗", "error", err)
		}
	}()

	var sink events.Publisher = events.NewLogPublisher(log)
	if len(cfg.Kafka.Brokers) > 0 {
		producer, err := newKafkaProducer(cfg.Kafka.Brokers)
		if err != nil {
			return fmt.Errorf("Kafka 連線失敗: %w", err)
		}
		kp := events.NewKafkaPublisher(producer, cfg.Kafka.Topic)
		defer func() {
			if err := kp.Close(); err != nil {
				log.Warn("關閉 Kafka producer 失敗", "error", err)
			}
		}()
		sink = kp
	}

	// 事件在背景送出；Stop 會在 producer 關閉前執行並清空佇列
	wp := newWorkerPool(cfg.Worker.Count, cfg.Worker.Queue)
	defer wp.Stop()

	e := echo.New()
	e.HideBanner = true
	e.Validator = api.NewValidator()
	e.Debug = cfg.HTTP.Debug
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	router.Setup(e, router.Deps{
		DB:          db,
		Cache:       rdb,
		Users:       store.NewUserStore(db),
		Hasher:      service.NewPasswordHasher(cfg.Password.BcryptCost),
		Tokens:      service.NewTokenService(cfg.JWT),
		Events:      events.NewAsyncPublisher(sink, wp, log),
		Metrics:     metrics.New(prometheus.NewRegistry()),
		Log:         log,
		CORSOrigins: cfg.HTTP.CORSOrigins,
	})

	errCh := make(chan error, 1)
	go func() { errCh <- startServer(e, cfg.HTTP.Addr) }()
	log.Info("service started", "addr", cfg.HTTP.Addr)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP 服務失敗: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down")
	sctx, scancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer scancel()
	if err := e.Shutdown(sctx); err != nil {
		return fmt.Errorf("HTTP 關閉失敗: %w", err)
	}
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		logger.New(0).Error("service stopped", "error", err)
		stop()
		exitFunc(1)
	}
}
