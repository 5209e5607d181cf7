package log

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	cases := []struct {
		in   string
		want slog.Level
	}{
		{"trace", LevelTrace},
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"loud", slog.LevelInfo},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ParseLevel(tc.in), tc.in)
	}
}

func TestLevelFilterSplitsOutput(t *testing.T) {
	var out, errOut bytes.Buffer
	h := MultiHandler{hs: []slog.Handler{
		LevelFilter{pass: func(l slog.Level) bool { return l < slog.LevelError }, h: slog.NewTextHandler(&out, &slog.HandlerOptions{Level: LevelTrace})},
		LevelFilter{pass: func(l slog.Level) bool { return l >= slog.LevelError }, h: slog.NewTextHandler(&errOut, nil)},
	}}
	logger := slog.New(h).With("port", "/dev/ttyUSB0")

	logger.Log(context.Background(), LevelTrace, "frame")
	logger.Info("connected")
	logger.Error("write failed")

	assert.Contains(t, out.String(), "frame")
	assert.Contains(t, out.String(), "connected")
	assert.NotContains(t, out.String(), "write failed")
	assert.Contains(t, errOut.String(), "write failed")
	assert.Contains(t, errOut.String(), "port=/dev/ttyUSB0")
}

func TestMultiHandlerEnabled(t *testing.T) {
	h := MultiHandler{hs: []slog.Handler{
		slog.NewTextHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelWarn}),
	}}
	assert.False(t, h.Enabled(context.Background(), slog.LevelInfo))
	assert.True(t, h.Enabled(context.Background(), slog.LevelError))
}

func TestColorHandler(t *testing.T) {
	var buf bytes.Buffer
	h := &colorHandler{w: &buf, level: LevelTrace}
	logger := slog.New(h).With("mode", "extended")

	logger.Log(context.Background(), LevelTrace, "sending update", "bytes", 20)

	line := buf.String()
	assert.Contains(t, line, "TRACE")
	assert.Contains(t, line, "sending update")
	assert.Contains(t, line, "mode=extended")
	assert.Contains(t, line, "bytes=20")
	assert.True(t, strings.HasSuffix(line, "\n"))

	buf.Reset()
	quiet := &colorHandler{w: &buf, level: slog.LevelInfo}
	assert.False(t, quiet.Enabled(context.Background(), slog.LevelDebug))
}

func TestRawLogger(t *testing.T) {
	var buf bytes.Buffer
	r := NewRaw(&buf)

	r.Log(true, []byte{0x5A, 0xFF, 0x00})
	r.Log(false, []byte{0x6B})
	r.Log(false, nil)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "TX 3 bytes: 5a ff 00")
	assert.Contains(t, lines[1], "RX 1 bytes: 6b")

	stamp := strings.SplitN(lines[0], " TX", 2)[0]
	_, err := time.Parse("2006/01/02 15:04:05.000", stamp)
	assert.NoError(t, err)
}

func TestRawLoggerNil(t *testing.T) {
	assert.NotPanics(t, func() {
		NewRaw(nil).Log(true, []byte{1, 2, 3})
	})
}

func TestHex(t *testing.T) {
	assert.Equal(t, "", Hex(nil))
	assert.Equal(t, "00", Hex([]byte{0}))
	assert.Equal(t, "5a 80 7f ff", Hex([]byte{0x5A, 0x80, 0x7F, 0xFF}))
}
