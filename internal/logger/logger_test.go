package logger

import (
	"testing"

	"github.com/jackc/pgx/v5/tracelog"
	"github.com/rs/zerolog"

	"github.com/deppfellow/netanomics/internal/config"
)

func TestGetPgxTraceLogLevelMatchesTracelog(t *testing.T) {
	tests := []struct {
		level zerolog.Level
		want  tracelog.LogLevel
	}{
		{zerolog.TraceLevel, tracelog.LogLevelTrace},
		{zerolog.DebugLevel, tracelog.LogLevelDebug},
		{zerolog.InfoLevel, tracelog.LogLevelInfo},
		{zerolog.WarnLevel, tracelog.LogLevelWarn},
		{zerolog.ErrorLevel, tracelog.LogLevelError},
		{zerolog.Disabled, tracelog.LogLevelNone},
	}
	for _, tt := range tests {
		if got := tracelog.LogLevel(GetPgxTraceLogLevel(tt.level)); got != tt.want {
			t.Errorf("GetPgxTraceLogLevel(%v) = %v, want %v", tt.level, got, tt.want)
		}
	}
}

func TestNewLoggerWithServiceLevel(t *testing.T) {
	cfg := config.DefaultObservabilityConfig()
	cfg.Logging.Level = "warn"

	logger := NewLoggerWithService(cfg, NewLoggerService(cfg))
	if logger.GetLevel() != zerolog.WarnLevel {
		t.Fatalf("level = %v, want warn", logger.GetLevel())
	}
}

func TestLoggerServiceWithoutLicense(t *testing.T) {
	ls := NewLoggerService(config.DefaultObservabilityConfig())
	if ls.GetApplication() != nil {
		t.Fatal("GetApplication() != nil without a license key")
	}
	ls.Shutdown()
}

func TestWithTraceContextNilTransaction(t *testing.T) {
	base := zerolog.Nop()
	if got := WithTraceContext(base, nil); got.GetLevel() != base.GetLevel() {
		t.Fatal("WithTraceContext(nil) changed the logger")
	}
}
