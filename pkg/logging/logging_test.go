package logging

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLogLevelString(t *testing.T) {
	tests := []struct {
		level    LogLevel
		expected string
	}{
		{LevelDebug, "DEBUG"},
		{LevelInfo, "INFO"},
		{LevelWarn, "WARN"},
		{LevelError, "ERROR"},
		{LogLevel(99), "UNKNOWN"},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.expected, tc.level.String())
	}
}

func TestInitForCLIWritesStructuredLines(t *testing.T) {
	var buf bytes.Buffer
	InitForCLI(LevelInfo, &buf)

	Warn("test", "something %s happened", "odd")
	out := buf.String()

	assert.Contains(t, out, "level=WARN")
	assert.Contains(t, out, "something odd happened")
	assert.Contains(t, out, "subsystem=test")
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	InitForCLI(LevelInfo, &buf)

	Debug("test", "hidden detail")
	assert.Empty(t, buf.String())

	InitForCLI(LevelDebug, &buf)
	Debug("test", "now visible")
	assert.Contains(t, buf.String(), "now visible")
}

func TestErrorAttachesErrAttr(t *testing.T) {
	var buf bytes.Buffer
	InitForCLI(LevelInfo, &buf)

	Error("test", errors.New("kaboom"), "operation failed")
	out := buf.String()

	assert.Contains(t, out, "level=ERROR")
	assert.Contains(t, out, "operation failed")
	assert.Contains(t, out, "kaboom")
}
