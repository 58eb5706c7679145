package logging

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewAppendsTimestampedLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "logs", "sync.log")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("2024-01-01 00:00:00 - previous run\n"), 0o644))

	logger, closeFn, err := New("production", "info", path)
	require.NoError(t, err)
	logger.Info("PULLING SHIPPING FILE")
	logger.Info("Order closed", zap.Int64("order_id", 2002))
	logger.Debug("not written at info level")
	closeFn()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	require.Len(t, lines, 3)

	assert.Equal(t, "2024-01-01 00:00:00 - previous run", lines[0])
	stamp := regexp.MustCompile(`^\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2} - `)
	assert.Regexp(t, stamp, lines[1])
	assert.True(t, strings.HasSuffix(lines[1], " - PULLING SHIPPING FILE"))
	assert.Contains(t, lines[2], `Order closed - {"order_id": 2002}`)
}

func TestNewCreatesMissingDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b", "run.log")

	logger, closeFn, err := New("development", "info", path)
	require.NoError(t, err)
	logger.Info("hello")
	closeFn()

	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	_, _, err := New("development", "loud", "")
	assert.Error(t, err)
}
