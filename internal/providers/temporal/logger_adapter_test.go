package temporal_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/log"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/feral-file/ff-acquirer/internal/providers/temporal"
)

func TestZapLoggerAdapter_Levels(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	adapter := temporal.NewZapLoggerAdapter(zap.New(core))

	adapter.Debug("debug", "k", 1)
	adapter.Info("info", "k", 2)
	adapter.Warn("warn", "k", 3)
	adapter.Error("error", "k", 4)

	entries := logs.All()
	require.Len(t, entries, 4)
	assert.Equal(t, zapcore.DebugLevel, entries[0].Level)
	assert.Equal(t, zapcore.InfoLevel, entries[1].Level)
	assert.Equal(t, zapcore.WarnLevel, entries[2].Level)
	assert.Equal(t, zapcore.ErrorLevel, entries[3].Level)
	assert.Equal(t, int64(4), entries[3].ContextMap()["k"])
}

func TestZapLoggerAdapter_Keyvals(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	adapter := temporal.NewZapLoggerAdapter(zap.New(core))

	adapter.Info("odd keyvals", "WorkflowID", "wf-1", 42, "answer", "dangling")

	entries := logs.All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "wf-1", fields["WorkflowID"])
	assert.Equal(t, "answer", fields["42"])
	assert.NotContains(t, fields, "dangling")
}

func TestZapLoggerAdapter_With(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	adapter := temporal.NewZapLoggerAdapter(zap.New(core))

	withLogger, ok := adapter.(log.WithLogger)
	require.True(t, ok)

	child := withLogger.With("Namespace", "default")
	child.Info("hello", "TaskQueue", "acquirer-maintenance")
	adapter.Info("plain")

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "default", entries[0].ContextMap()["Namespace"])
	assert.Equal(t, "acquirer-maintenance", entries[0].ContextMap()["TaskQueue"])
	assert.NotContains(t, entries[1].ContextMap(), "Namespace")
}
