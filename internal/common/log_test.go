// File path: internal/common/log_test.go
package common

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggerCapturesHistory(t *testing.T) {
	logger := Logger()
	require.NotNil(t, logger)
	assert.Same(t, logger, Logger())

	logger.Info("history check one")
	logger.Warn("history check two")

	entries := LogEntries()
	require.GreaterOrEqual(t, len(entries), 2)

	var found *LogEntry
	for i := range entries {
		if entries[i].Message == "history check two" {
			found = &entries[i]
		}
	}
	require.NotNil(t, found)
	assert.Equal(t, "warn", found.Level)
	assert.WithinDuration(t, time.Now().UTC(), found.Time, time.Minute)
}

func TestLogSinkBounded(t *testing.T) {
	s := &logSink{max: 3}
	for i := 0; i < 10; i++ {
		s.capture(slog.NewRecord(time.Now(), slog.LevelInfo, "message", 0))
	}
	assert.Len(t, s.entries(), 3)
}
