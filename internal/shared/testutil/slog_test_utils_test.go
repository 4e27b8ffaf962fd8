package testutil

import (
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBufferedSlogHandler(t *testing.T) {
	t.Run("captures log records", func(t *testing.T) {
		logger, handler := NewTestLogger(t)

		logger.Info("test message", slog.String("key", "value"))
		logger.Error("error message", slog.Int("code", 500))

		assert.Len(t, handler.GetRecords(), 2)
		assert.True(t, handler.ContainsMessage("test message"))
		assert.True(t, handler.ContainsAttr("key", "value"))
	})

	t.Run("filters by level", func(t *testing.T) {
		logger, handler := NewTestLogger(t)

		logger.Debug("debug msg")
		logger.Info("info msg")
		logger.Warn("warn msg")
		logger.Error("error msg")

		assert.Len(t, handler.GetRecordsByLevel(slog.LevelInfo), 1)
		assert.Len(t, handler.GetRecordsByLevel(slog.LevelError), 1)
		assert.Len(t, handler.GetRecordsByLevel(slog.LevelDebug), 1)
	})

	t.Run("keeps attributes from With", func(t *testing.T) {
		logger, handler := NewTestLogger(t)

		logger.With(slog.String("component", "refresher")).Info("cycle finished")

		assert.True(t, handler.ContainsAttr("component", "refresher"))
		assert.Equal(t, 1, handler.Count())
	})

	t.Run("prefixes grouped attributes", func(t *testing.T) {
		logger, handler := NewTestLogger(t)

		logger.WithGroup("source").Info("fetched", slog.Int("bytes", 10))

		assert.True(t, handler.ContainsAttr("source.bytes", int64(10)))
	})

	t.Run("clear", func(t *testing.T) {
		logger, handler := NewTestLogger(t)

		logger.Info("message 1")
		logger.Info("message 2")
		require.Equal(t, 2, handler.Count())

		handler.Clear()
		assert.Equal(t, 0, handler.Count())
	})
}

func TestProductionCSV(t *testing.T) {
	doc := NewProductionCSV().Set(10, 1, "2000").Set(31, 25, "x").String()
	lines := strings.Split(strings.TrimSuffix(doc, "\n"), "\n")

	require.Len(t, lines, 33)
	assert.True(t, strings.HasPrefix(lines[10], "Conventional Books,2000,11000"))
	assert.Len(t, strings.Split(lines[31], ","), 26)

	short := NewProductionCSV().Truncate(20).String()
	assert.Equal(t, 20, strings.Count(short, "\n"))

	assert.Equal(t, SampleProductionCSV(), NewProductionCSV().String())
}
