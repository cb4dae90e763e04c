package observability

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewLogger(t *testing.T) {
	logger, err := NewLogger(true, false)
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zapcore.DebugLevel))
	assert.True(t, logger.Core().Enabled(zapcore.InfoLevel))

	debugLogger, err := NewLogger(false, true)
	require.NoError(t, err)
	assert.True(t, debugLogger.Core().Enabled(zapcore.DebugLevel))
}

func TestCommonFields(t *testing.T) {
	fields := CommonFields("  openai ", "")
	require.Len(t, fields, 1)
	assert.Equal(t, FieldProvider, fields[0].Key)
	assert.Equal(t, "openai", fields[0].String)

	assert.Len(t, CommonFields("anthropic", "claude-3-5-sonnet-latest"), 2)
	assert.Empty(t, CommonFields("", " "))
}

func TestWithCommonFields(t *testing.T) {
	core, observed := observer.New(zapcore.InfoLevel)

	WithCommonFields(zap.New(core), "gemini", "gemini-2.5-flash").Info("sent")

	entries := observed.All()
	require.Len(t, entries, 1)
	ctx := entries[0].ContextMap()
	assert.Equal(t, "gemini", ctx[FieldProvider])
	assert.Equal(t, "gemini-2.5-flash", ctx[FieldModel])

	assert.NotNil(t, WithCommonFields(nil, "", ""))
}

func TestTruncateForLog(t *testing.T) {
	assert.Equal(t, "abc", TruncateForLog("  abc  ", 5))
	assert.Equal(t, "ab...", TruncateForLog("abcdef", 2))
	assert.Equal(t, "ré...", TruncateForLog("résumé", 2))
	assert.Equal(t, "", TruncateForLog("abc", 0))
}
