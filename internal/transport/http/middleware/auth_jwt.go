package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"wishcircle-api/internal/core/auth"
	resp "wishcircle-api/internal/transport/http/response"
)

const bearerPrefix = "Bearer "

// AuthJWT 要求合法 Bearer token；requireRole 非空时校验角色
func AuthJWT(j *auth.JWTer, requireRole string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ah := c.GetHeader("Authorization")
		if !strings.HasPrefix(ah, bearerPrefix) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, resp.Error(http.StatusUnauthorized, "missing token"))
			return
		}
		claims, err := j.Parse(strings.TrimPrefix(ah, bearerPrefix))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, resp.Error(http.StatusUnauthorized, "invalid token"))
			return
		}
		if requireRole != "" && claims.Role != requireRole {
			c.AbortWithStatusJSON(http.StatusForbidden, resp.Error(http.StatusForbidden, ""))
			return
		}
		c.Set(KeyClaims, claims)
		c.Set(KeyUserID, claims.UserID)
		c.Set(KeyRole, claims.Role)
		c.Next()
	}
}

// HeaderIdentity Authorization 头即用户标识：
// "Bearer <jwt>" 校验后取 userId；否则原值直接当 userId 用
func HeaderIdentity(j *auth.JWTer) gin.HandlerFunc {
	return func(c *gin.Context) {
		ah := strings.TrimSpace(c.GetHeader("Authorization"))
		if ah == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, resp.Error(http.StatusUnauthorized, "missing authorization header"))
			return
		}
		uid := ah
		if strings.HasPrefix(ah, bearerPrefix) {
			claims, err := j.Parse(strings.TrimPrefix(ah, bearerPrefix))
			if err != nil {
				c.AbortWithStatusJSON(http.StatusUnauthorized, resp.Error(http.StatusUnauthorized, "invalid token"))
				return
			}
			c.Set(KeyClaims, claims)
			uid = claims.UserID
		}
		c.Set(KeyUserID, uid)
		c.Next()
	}
}
