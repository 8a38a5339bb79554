package logging

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestNewQuietHidesDebug(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, false)
	logger.Debug("reading file", zap.String("path", "a.go"))
	logger.Warn("invalid @order value, using 0")
	_ = logger.Sync()

	out := buf.String()
	assert.NotContains(t, out, "reading file")
	assert.Contains(t, out, "WARN")
	assert.Contains(t, out, "invalid @order value")
}

func TestNewVerboseShowsDebug(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, true)
	logger.Debug("reading file", zap.String("path", "a.go"))
	_ = logger.Sync()

	out := buf.String()
	assert.Contains(t, out, "DEBUG")
	assert.Contains(t, out, "reading file")
	assert.Contains(t, out, "a.go")
}
