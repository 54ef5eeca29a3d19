package logging

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func fixedSink(buf *bytes.Buffer) *WriterSink {
	s := NewWriterSink(buf)
	s.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }
	return s
}

func TestWriterSinkWarnIncludesTimestampAndMessage(t *testing.T) {
	var buf bytes.Buffer
	s := fixedSink(&buf)

	s.Warn("L=%d exceeds line size", 200)

	line := buf.String()
	assert.True(t, strings.HasPrefix(line, "2026-01-02T03:04:05Z WARN "))
	assert.Contains(t, line, "L=200 exceeds line size")
}

func TestWriterSinkInvariantIncludesFatalTagAndError(t *testing.T) {
	var buf bytes.Buffer
	s := fixedSink(&buf)

	s.Invariant(errors.New("drum stepped re-entrantly"))

	line := buf.String()
	assert.True(t, strings.HasPrefix(line, "2026-01-02T03:04:05Z FATAL "))
	assert.Contains(t, line, "drum stepped re-entrantly")
}

func TestDiscardSinkDropsEverything(t *testing.T) {
	assert.NotPanics(t, func() {
		Discard.Warn("whatever %d", 1)
		Discard.Invariant(errors.New("ignored"))
	})
}
