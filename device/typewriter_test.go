package device

import (
	"bufio"
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTypewriterReadMapsTokensThroughASCIITable(t *testing.T) {
	in := bufio.NewScanner(strings.NewReader("0 u S"))
	var buf bytes.Buffer
	tw := NewTypewriter(in, bufio.NewWriter(&buf))

	c, ok := tw.Read()
	assert.True(t, ok)
	assert.Equal(t, byte(0x10), c)

	c, ok = tw.Read()
	assert.True(t, ok)
	assert.Equal(t, byte(0x1A), c)

	c, ok = tw.Read()
	assert.True(t, ok)
	assert.Equal(t, byte(0x04), c)
}

func TestTypewriterReadReturnsStopOnEOF(t *testing.T) {
	in := bufio.NewScanner(strings.NewReader(""))
	var buf bytes.Buffer
	tw := NewTypewriter(in, bufio.NewWriter(&buf))

	c, ok := tw.Read()
	assert.True(t, ok)
	assert.Equal(t, byte(stopCode), c)
}

func TestTypewriterWriteRendersGlyphs(t *testing.T) {
	var buf bytes.Buffer
	tw := NewTypewriter(bufio.NewScanner(strings.NewReader("")), bufio.NewWriter(&buf))

	assert.True(t, tw.Write(0x10))
	assert.True(t, tw.Write(0x1A))
	assert.Equal(t, "0u", buf.String())
}

func TestTypewriterCancelStopsReadAndWrite(t *testing.T) {
	var buf bytes.Buffer
	tw := NewTypewriter(bufio.NewScanner(strings.NewReader("0")), bufio.NewWriter(&buf))
	tw.Cancel()

	_, ok := tw.Read()
	assert.False(t, ok)
	assert.False(t, tw.Write(0x10))
}
