package logger_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/mamadbah2/traders/internal/config"
	"github.com/mamadbah2/traders/pkg/logger"
)

func TestNewHonoursLevel(t *testing.T) {
	log, err := logger.New(config.LogConfig{Level: "warn", Format: "json"})
	require.NoError(t, err)
	assert.False(t, log.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, log.Core().Enabled(zapcore.WarnLevel))
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	_, err := logger.New(config.LogConfig{Level: "chatty"})
	assert.Error(t, err)
}

func TestNamedNilBase(t *testing.T) {
	assert.NotNil(t, logger.Named(nil, "svc"))
}

func TestNamedChildLogger(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	logger.Named(zap.New(core), "router").Info("router initialized")

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "router", logs.All()[0].LoggerName)
}
