// Package repotest 提供测试用的内存 sqlite 库
package repotest

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"wishcircle-api/internal/core/database"
	"wishcircle-api/internal/domain"
)

// NewDB 每次返回独立的内存库（已迁移）
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()
	db, err := database.NewGorm(database.Opts{
		Driver:       "sqlite",
		DSN:          "file:" + uuid.NewString() + "?mode=memory&cache=shared",
		MaxOpenConns: 1,
		MaxIdleConns: 1,
		LogLevel:     "silent",
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })

	require.NoError(t, db.AutoMigrate(domain.Models()...))
	return db
}
