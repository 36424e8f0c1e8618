package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNormalizeMySQLDSN(t *testing.T) {
	cases := []struct {
		name, in, user, pass, want string
	}{
		{
			name: "native dsn untouched",
			in:   "root:pw@tcp(127.0.0.1:3306)/app?parseTime=true",
			want: "root:pw@tcp(127.0.0.1:3306)/app?parseTime=true",
		},
		{
			name: "url form",
			in:   "mysql://root:pw@db:3306/app",
			want: "root:pw@tcp(db:3306)/app?charset=utf8mb4&parseTime=true",
		},
		{
			name: "jdbc params and overrides",
			in:   "jdbc:mysql://db:3306/app?useSSL=false&characterEncoding=utf8&useUnicode=true",
			user: "svc", pass: "secret",
			want: "svc:secret@tcp(db:3306)/app?charset=utf8&parseTime=true&tls=false",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, normalizeMySQLDSN(tc.in, tc.user, tc.pass))
		})
	}
}

func TestMaskDSN(t *testing.T) {
	assert.Equal(t, "root:****@tcp(db:3306)/app", maskDSN("root:pw@tcp(db:3306)/app"))
	assert.Equal(t, "tcp(db:3306)/app", maskDSN("tcp(db:3306)/app"))
}

func TestNewGorm_UnsupportedDriver(t *testing.T) {
	_, err := NewGorm(Opts{Driver: "oracle"})
	assert.ErrorIs(t, err, ErrUnsupportedDriver)
}

func TestNewGorm_SQLiteMemory(t *testing.T) {
	db, err := NewGorm(Opts{Driver: "sqlite", DSN: "file:gormtest?mode=memory&cache=shared", MaxOpenConns: 1, MaxIdleConns: 1, LogLevel: "silent"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(db) })

	var one int
	require.NoError(t, db.Raw("SELECT 1").Scan(&one).Error)
	assert.Equal(t, 1, one)
}

func TestNewGorm_SQLLogsGoThroughZap(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	db, err := NewGorm(Opts{
		Driver:       "sqlite",
		DSN:          "file:gormlogtest?mode=memory&cache=shared",
		MaxOpenConns: 1,
		LogLevel:     "info",
		Log:          zap.New(core),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(db) })

	var one int
	require.NoError(t, db.Raw("SELECT 1").Scan(&one).Error)

	entries := logs.FilterMessageSnippet("SELECT 1").All()
	require.NotEmpty(t, entries)
	assert.Equal(t, "gorm", entries[0].LoggerName)
}
