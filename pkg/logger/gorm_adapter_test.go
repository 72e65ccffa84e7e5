package logger

import (
	"context"
	"errors"
	"testing"
	"time"

	"ordercore/infrastructure/persistence"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	gormlogger "gorm.io/gorm/logger"
)

func observe(t *testing.T) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	t.Cleanup(Replace(zap.New(core)))
	return logs
}

func messages(logs *observer.ObservedLogs) []string {
	var out []string
	for _, e := range logs.All() {
		out = append(out, e.Message)
	}
	return out
}

func TestGormLoggerAdapterLevels(t *testing.T) {
	tests := []struct {
		name      string
		level     gormlogger.LogLevel
		wantInfo  bool
		wantTrace bool
	}{
		{"warn", gormlogger.Warn, false, false},
		{"info", gormlogger.Info, true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logs := observe(t)
			adapter := NewGormLoggerAdapter(tt.level)
			ctx := context.Background()

			adapter.Info(ctx, "test info message")
			adapter.Warn(ctx, "test warn message")
			adapter.Error(ctx, "test error message")
			adapter.Trace(ctx, time.Now(), func() (string, int64) {
				return "SELECT * FROM orders", 1
			}, nil)

			got := messages(logs)
			assert.Equal(t, tt.wantInfo, contains(got, "test info message"))
			assert.Contains(t, got, "test warn message")
			assert.Contains(t, got, "test error message")
			assert.Equal(t, tt.wantTrace, contains(got, "SQL query executed"))
		})
	}
}

func TestGormLoggerAdapterSilent(t *testing.T) {
	logs := observe(t)
	adapter := NewGormLoggerAdapter(gormlogger.Info).LogMode(gormlogger.Silent)

	adapter.Trace(context.Background(), time.Now(), func() (string, int64) { return "SELECT 1", 1 }, errors.New("boom"))
	assert.Zero(t, logs.Len())
}

func TestGormLoggerAdapterTraceFields(t *testing.T) {
	logs := observe(t)
	adapter := NewGormLoggerAdapterWithConfig(gormlogger.Info, &GormLoggerConfig{
		SlowThreshold:             10 * time.Millisecond,
		IgnoreRecordNotFoundError: true,
	})
	ctx := persistence.ContextWithRequestID(context.Background(), "req-123")

	adapter.Trace(ctx, time.Now(), func() (string, int64) {
		time.Sleep(15 * time.Millisecond)
		return "SELECT * FROM orders WHERE order_id = 'O1'", 1
	}, nil)
	adapter.Trace(ctx, time.Now(), func() (string, int64) {
		return "SELECT * FROM orders WHERE order_id = 'missing'", 0
	}, gormlogger.ErrRecordNotFound)
	adapter.Trace(ctx, time.Now(), func() (string, int64) {
		return "INSERT INTO orders", 0
	}, errors.New("constraint failed"))

	entries := logs.All()
	if assert.Len(t, entries, 2) {
		assert.Equal(t, "Slow SQL query", entries[0].Message)
		assert.Equal(t, "req-123", entries[0].ContextMap()["request_id"])
		assert.Equal(t, "Database operation failed", entries[1].Message)
		assert.Equal(t, "INSERT INTO orders", entries[1].ContextMap()["sql"])
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
