package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	lvl, err := ParseLevel("")
	require.NoError(t, err)
	assert.Equal(t, zapcore.InfoLevel, lvl)

	lvl, err = ParseLevel(" DEBUG ")
	require.NoError(t, err)
	assert.Equal(t, zapcore.DebugLevel, lvl)

	_, err = ParseLevel("chatty")
	assert.Error(t, err)
}

func TestNewWithSinkJSON(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewWithSink(Options{Level: "info", Format: "json"}, zapcore.AddSync(&buf))
	require.NoError(t, err)

	logger.Debug("hidden")
	logger.Info("snapshot taken", zap.Int("threads", 3))
	require.NoError(t, logger.Sync())

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "snapshot taken", entry["msg"])
	assert.Equal(t, float64(3), entry["threads"])
	assert.Contains(t, entry, "ts")
}

func TestNewWithSinkRejectsUnknownFormat(t *testing.T) {
	_, err := NewWithSink(Options{Format: "xml"}, zapcore.AddSync(&bytes.Buffer{}))
	assert.EqualError(t, err, `invalid log format "xml" (allowed: json, console)`)
}
