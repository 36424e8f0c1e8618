package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"wishcircle-api/internal/core/config"
	"wishcircle-api/internal/core/server"
	mdw "wishcircle-api/internal/transport/http/middleware"
)

func NewAPIEngine(l *zap.Logger, hc config.HTTP, mods ...APIModule) *gin.Engine {
	r := newEngine(l, hc)

	// 前缀
	api := r.Group("/api/v1")
	mountAPI(api, mods)

	return r
}

// newEngine 两个进程共用的中间件链 + /health + /metrics
func newEngine(l *zap.Logger, hc config.HTTP) *gin.Engine {
	if l == nil {
		l = zap.NewNop()
	}
	r := server.NewEngine(hc.CORSOrigins)

	maxInFlight := hc.MaxInFlight
	if maxInFlight <= 0 {
		maxInFlight = 300
	}
	maxBodyMB := hc.MaxBodyMB
	if maxBodyMB <= 0 {
		maxBodyMB = 16
	}
	timeout := time.Duration(hc.RequestTimeoutSec) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	r.Use(
		mdw.RequestID(),
		mdw.ConcurrencyLimit(maxInFlight),
		mdw.MaxBodyBytes(maxBodyMB<<20),
		mdw.Timeout(timeout),
		mdw.Recovery(l),
		mdw.Metrics(),
		mdw.AccessLog(l),
	)

	// 健康检查
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}
