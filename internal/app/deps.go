// Package app 两个进程共用的启动装配
package app

import (
	"context"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"wishcircle-api/internal/core/auth"
	"wishcircle-api/internal/core/cache"
	"wishcircle-api/internal/core/config"
	"wishcircle-api/internal/core/database"
	"wishcircle-api/internal/repo"
)

// MustOpenDB 连接失败 / 迁移失败直接 Fatal
func MustOpenDB(cfg *config.Config, l *zap.Logger) *gorm.DB {
	db, err := database.NewGorm(database.Opts{
		Driver:             cfg.DB.Driver,
		DSN:                cfg.DB.DSN,
		Username:           cfg.DB.Username,
		Password:           cfg.DB.Password,
		MaxOpenConns:       cfg.DB.MaxOpenConns,
		MaxIdleConns:       cfg.DB.MaxIdleConns,
		ConnMaxLifetimeMin: cfg.DB.ConnMaxLifetimeMin,
		LogLevel:           cfg.DB.LogLevel,
		Log:                l,
	})
	if err != nil {
		l.Fatal("db open", zap.Error(err))
	}
	l.Info("database connected", zap.String("driver", cfg.DB.Driver))

	if cfg.DB.AutoMigrate {
		if err := repo.Migrate(db); err != nil {
			l.Fatal("automigrate failed", zap.Error(err))
		}
		l.Info("automigrate done")
	}
	return db
}

func NewJWTer(c config.JWT) *auth.JWTer {
	return &auth.JWTer{
		Secret: []byte(c.Secret),
		Issuer: c.Issuer,
		TTL:    time.Duration(c.AccessTokenTTLMin) * time.Minute,
	}
}

// OpenCache redis 未启用或连不上时返回 nil（分数直接读库）
func OpenCache(ctx context.Context, c config.Redis, l *zap.Logger) *cache.Cache {
	if !c.Enable {
		return nil
	}
	rc := cache.New(c.Addr, c.Password, c.DB)
	pctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := rc.Ping(pctx); err != nil {
		l.Warn("redis unavailable, cache disabled", zap.String("addr", c.Addr), zap.Error(err))
		_ = rc.Close()
		return nil
	}
	l.Info("redis connected", zap.String("addr", c.Addr))
	return rc
}
