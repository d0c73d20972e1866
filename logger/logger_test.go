package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/chuck21619/cardtable/config"
)

func TestNewWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "table.log")

	log, closeLog, err := New(config.Log{Level: "info", Format: "json", File: path, MaxSizeMB: 1})
	require.NoError(t, err)

	log.Info("card appended")
	log.Debug("filtered out")
	closeLog()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "card appended")
	assert.NotContains(t, string(data), "filtered out")
}

func TestNewRejectsBadSettings(t *testing.T) {
	_, _, err := New(config.Log{Level: "loud"})
	assert.Error(t, err)

	_, _, err = New(config.Log{Level: "info", Format: "xml"})
	assert.Error(t, err)
}

func TestNewConsole(t *testing.T) {
	log, closeLog, err := New(config.Log{Level: "debug"})
	require.NoError(t, err)
	defer closeLog()
	assert.True(t, log.Core().Enabled(zapcore.DebugLevel))
}
