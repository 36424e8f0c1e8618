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

	// DB 连接（失败直接 Fatal）
	db := app.MustOpenDB(cfg, log)
	defer func() { _ = database.Close(db) }()

	// 依赖
	jwter := app.NewJWTer(cfg.JWT)
	adminH := handler.NewAdminHandler(service.NewAdminService(repo.NewStore(db)), log)

	// 路由（后台端）：超时 / 限流沿用用户端配置
	r := router.NewAdminEngine(log, cfg.App.HTTP, jwter, adminH)

	// HTTP Server
	ac := cfg.App.Admin
	srv := server.BuildServer(server.Addr(ac.Host, ac.Port), r, 5*time.Second, 10*time.Second, 60*time.Second)

	// 启动前打印可点击地址
	baseURL := server.BaseURL(ac.Host, ac.Port)
	log.Info("admin api starting",
		zap.String("open", baseURL),
		zap.String("health", baseURL+"/health"),
		zap.String("admin_v1", baseURL+"/admin/v1"),
	)

	if err := server.Run(ctx, srv, log, "admin api"); err != nil {
		log.Error("admin api FAILED", zap.Error(err))
	}
}
