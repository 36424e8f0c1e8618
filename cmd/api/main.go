package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "go.uber.org/automaxprocs"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"wishcircle-api/internal/app"
	"wishcircle-api/internal/core/config"
	"wishcircle-api/internal/core/database"
	"wishcircle-api/internal/core/logger"
	"wishcircle-api/internal/core/server"
	"wishcircle-api/internal/repo"
	"wishcircle-api/internal/service"
	"wishcircle-api/internal/transport/http/handler"
	"wishcircle-api/internal/transport/http/router"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load(os.Getenv("CONFIG_PATH"))
	log, cleanup := logger.FromConfig(cfg.Log)
	defer cleanup()
	defer logger.RedirectStdLog(log, zapcore.InfoLevel)()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 数据库（失败会直接 Fatal）
	db := app.MustOpenDB(cfg, log)
	defer func() { _ = database.Close(db) }()

	// 依赖
	jwter := app.NewJWTer(cfg.JWT)
	opts := []service.Option{service.WithLogger(log)}
	if rc := app.OpenCache(ctx, cfg.Redis, log); rc != nil {
		defer func() { _ = rc.Close() }()
		opts = append(opts, service.WithCache(rc, time.Duration(cfg.Redis.ScoreTTLSec)*time.Second))
	}
	socialSvc := service.NewSocialService(repo.NewStore(db), jwter, opts...)

	// 路由（用户端）
	r := router.NewAPIEngine(log, cfg.App.HTTP,
		handler.NewSocialHandler(socialSvc, jwter, cfg.Upload.MaxImageMB, log),
		handler.NewContentHandler(db, jwter),
	)

	// HTTP Server
	hc := cfg.App.HTTP
	srv := server.BuildServer(
		server.Addr(hc.Host, hc.Port), r,
		time.Duration(hc.ReadTimeoutSec)*time.Second,
		time.Duration(hc.WriteTimeoutSec)*time.Second,
		time.Duration(hc.IdleTimeoutSec)*time.Second,
	)

	// 启动日志
	baseURL := server.BaseURL(hc.Host, hc.Port)
	log.Info("user api starting",
		zap.String("open", baseURL),
		zap.String("health", baseURL+"/health"),
		zap.String("api_v1", baseURL+"/api/v1"),
	)

	if err := server.Run(ctx, srv, log, "user api"); err != nil {
		log.Error("user api FAILED", zap.Error(err))
	}
}
