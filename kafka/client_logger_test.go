package kafka

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/twmb/franz-go/pkg/kgo"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestKgoZapLogger(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	logger := KgoZapLogger{logger: zap.New(core).Sugar()}
	assert.Equal(t, kgo.LogLevelDebug, logger.Level())

	logger.Log(kgo.LogLevelDebug, "dropped by the core")
	logger.Log(kgo.LogLevelInfo, "connected", "broker", "1")
	logger.Log(kgo.LogLevelWarn, "retrying")
	logger.Log(kgo.LogLevelError, "request failed", "err", "timeout")

	entries := logs.All()
	if assert.Len(t, entries, 3) {
		assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
		assert.Equal(t, "1", entries[0].ContextMap()["broker"])
		assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
		assert.Equal(t, zapcore.ErrorLevel, entries[2].Level)
	}
}
