package utils

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestValidateEmail(t *testing.T) {
	assert.NoError(t, ValidateEmail("ana@example.com"))
	assert.NoError(t, ValidateEmail("first.last+jobs@mail.example.org"))
	assert.Error(t, ValidateEmail("ana@example"))
	assert.Error(t, ValidateEmail("not an email"))
	assert.Error(t, ValidateEmail(""))
}

func TestSanitizeString(t *testing.T) {
	assert.Equal(t, "Acme Corp", SanitizeString("  Acme\x00 Corp\n "))
	assert.Equal(t, "", SanitizeString("\t\r"))
}

func TestValidateExtension(t *testing.T) {
	allowed := []string{".pdf", ".png"}
	assert.NoError(t, ValidateExtension("receipt.PDF", allowed))
	assert.NoError(t, ValidateExtension("scan.png", allowed))
	assert.Error(t, ValidateExtension("script.sh", allowed))
	assert.Error(t, ValidateExtension("README", allowed))
}

func TestServiceLogger_ConvertsPairs(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	l := NewServiceLogger(zap.New(core))

	l.Info("Job approved", "job_id", int64(7), 42, "skipped", "dangling")
	l.Error("Save failed", "error", errors.New("disk full"))

	entries := logs.All()
	require.Len(t, entries, 2)

	ctx := entries[0].ContextMap()
	assert.Equal(t, int64(7), ctx["job_id"])
	assert.Len(t, ctx, 1)

	assert.Equal(t, zapcore.ErrorLevel, entries[1].Level)
	assert.Equal(t, "disk full", entries[1].ContextMap()["error"])
}

func TestNewServiceLogger_NilIsSafe(t *testing.T) {
	assert.NotPanics(t, func() {
		NewServiceLogger(nil).Info("nothing", "k", "v")
	})
}

func TestNewLogger_FallsBackToInfo(t *testing.T) {
	logger, err := NewLogger(LoggerConfig{Level: "loud", Format: "json", OutputPath: "stderr"})
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zapcore.InfoLevel))
	assert.False(t, logger.Core().Enabled(zapcore.DebugLevel))
}
