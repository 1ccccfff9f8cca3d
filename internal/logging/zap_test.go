package logging

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestZapLogger_LevelsAndFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := NewZapLogger(zap.New(core))
	ctx := context.Background()

	log.Debug(ctx, "dbg", "a", 1)
	log.Info(ctx, "inf", "b", 2)
	log.Warn(ctx, "wrn", "c", 3)
	log.Error(ctx, "err", "d", 4)

	entries := logs.AllUntimed()
	require.Len(t, entries, 4)

	wantLevels := []zapcore.Level{zapcore.DebugLevel, zapcore.InfoLevel, zapcore.WarnLevel, zapcore.ErrorLevel}
	wantKeys := []string{"a", "b", "c", "d"}
	for i, e := range entries {
		assert.Equal(t, wantLevels[i], e.Level)
		assert.Contains(t, e.ContextMap(), wantKeys[i])
	}
}

func TestZapLogger_WithAndCorrelation(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	log := NewZapLogger(zap.New(core)).With("component", "backup")
	ctx := WithCorrelationID(context.Background(), "corr-7")

	log.Info(ctx, "export started")

	entries := logs.FilterMessage("export started").AllUntimed()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "backup", fields["component"])
	assert.Equal(t, "corr-7", fields["correlation_id"])
}

func TestNew_Backends(t *testing.T) {
	for _, backend := range []string{"", BackendSlog, BackendZap} {
		var buf bytes.Buffer
		log, err := New(backend, &buf, false)
		require.NoError(t, err, backend)

		log.Debug(context.Background(), "hidden")
		log.Info(context.Background(), "visible")

		assert.NotContains(t, buf.String(), "hidden", backend)
		assert.Contains(t, buf.String(), "visible", backend)
	}

	_, err := New("logrus", &bytes.Buffer{}, false)
	require.Error(t, err)
}
