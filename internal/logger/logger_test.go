package logger

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLogSeverityFiltering(t *testing.T) {
	var buf bytes.Buffer
	Init(&buf, "text", LevelWarning)
	defer Init(&buf, "text", LevelInfo)

	Infof("should not appear")
	assert.Empty(t, buf.String())

	Warnf("should appear")
	assert.Contains(t, buf.String(), "severity=WARNING")
	assert.Contains(t, buf.String(), "should appear")
}

func TestParseSeverity(t *testing.T) {
	lvl, err := ParseSeverity("ERROR")
	assert.NoError(t, err)
	assert.Equal(t, LevelError, lvl)

	_, err = ParseSeverity("NOPE")
	assert.Error(t, err)
}
