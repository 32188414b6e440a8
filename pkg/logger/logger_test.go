package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NastyaGoryachaya/crypto-compare-service/internal/config"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"":        slog.LevelInfo,
		"info":    slog.LevelInfo,
		" DEBUG ": slog.LevelDebug,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
	}
	for in, want := range cases {
		got, err := parseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := parseLevel("verbose")
	assert.Error(t, err)
}

func TestReplaceAttrs(t *testing.T) {
	ts := time.Date(2024, 1, 1, 9, 30, 0, 0, time.FixedZone("BRT", -3*3600))
	a := replaceAttrs(nil, slog.Time(slog.TimeKey, ts))
	assert.Equal(t, "2024-01-01T12:30:00Z", a.Value.String())

	a = replaceAttrs(nil, slog.Any(slog.LevelKey, slog.LevelWarn))
	assert.Equal(t, "WARN", a.Value.String())

	a = replaceAttrs(nil, slog.Any(slog.SourceKey, &slog.Source{File: "/a/b/market_service.go", Line: 42}))
	assert.Equal(t, "market_service.go:42", a.Value.String())
}

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	return rec
}

func TestNewLogger_ServiceAttr(t *testing.T) {
	var buf bytes.Buffer
	l := newLogger(&buf, &config.LoggerConfig{Level: "warn", Format: "json"})

	l.Info("dropped")
	assert.Zero(t, buf.Len())

	l.Warn("catalog unavailable")
	rec := decodeLine(t, &buf)
	assert.Equal(t, ServiceName, rec["service"])
	assert.Equal(t, "WARN", rec["level"])
	assert.Equal(t, "catalog unavailable", rec["msg"])
}

func TestWithComparison(t *testing.T) {
	var buf bytes.Buffer
	base := newLogger(&buf, &config.LoggerConfig{Level: "debug", Format: "json"})

	WithComparison(base, 42, 7).Info("comparison sent")
	rec := decodeLine(t, &buf)
	assert.Equal(t, float64(42), rec["chat_id"])
	assert.Equal(t, float64(7), rec["token"])

	buf.Reset()
	WithComparison(base, 0, 3).Info("comparison served")
	rec = decodeLine(t, &buf)
	_, hasChat := rec["chat_id"]
	assert.False(t, hasChat)
	assert.Equal(t, float64(3), rec["token"])
}
