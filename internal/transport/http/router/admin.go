package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"wishcircle-api/internal/core/auth"
	"wishcircle-api/internal/core/config"
	"wishcircle-api/internal/domain"
	mdw "wishcircle-api/internal/transport/http/middleware"
)

func NewAdminEngine(l *zap.Logger, hc config.HTTP, jwter *auth.JWTer, mods ...AdminModule) *gin.Engine {
	r := newEngine(l, hc)

	// 管理端 v1（统一要求 admin 角色）
	admin := r.Group("/admin/v1")
	admin.Use(mdw.AuthJWT(jwter, domain.RoleAdmin))
	mountAdmin(admin, mods)

	return r
}
