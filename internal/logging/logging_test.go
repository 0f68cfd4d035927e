package logging

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("chatty"))
}

func TestInitAndHelpers(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	t.Cleanup(func() {
		defaultLogger = prev
		slog.SetDefault(prev)
	})

	Init(slog.LevelInfo, "json", &buf)
	Debug("topology", "hidden %d", 1)
	Info("server", "listening on :%s", "8081")
	Error("store", errors.New("disk full"), "put failed")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"msg":"listening on :8081"`)
	assert.Contains(t, out, `"subsystem":"server"`)
	assert.Contains(t, out, `"error":"disk full"`)
}
