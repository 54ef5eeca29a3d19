package decode

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lookbusy1344/g15emu/word"
)

func TestDecodeEncodeRoundTrip(t *testing.T) {
	c := Command{
		C1: true,
		D:  28,
		S:  6,
		C:  1,
		N:  91,
		BP: true,
		T:  42,
		DI: false,
	}
	w := Encode(c)
	got := Decode(w)
	assert.Equal(t, c, got)
}

func TestCSRequiresCHighBitAndLowFieldBits(t *testing.T) {
	c := Command{C: 2, S: 5, D: 10}
	assert.True(t, c.CS())

	c.C = 0
	assert.False(t, c.CS(), "CS requires characteristic 2 or 3")

	c.C = 3
	c.S = 24 // MQ, top bit of S field set
	assert.False(t, c.CS())
}

func TestL107Adjustment(t *testing.T) {
	c := Command{N: 10, T: 50, D: 0, S: 0}
	adj := c.WithL107Adjustment()
	assert.Equal(t, uint8((10-20+108)%108), adj.N)
	assert.Equal(t, uint8((50-20+108)%108), adj.T)

	mul := Command{N: 10, T: 50, D: 31, S: 24}
	adjMul := mul.WithL107Adjustment()
	assert.Equal(t, uint8((10-20+108)%108), adjMul.N)
	assert.Equal(t, uint8(50), adjMul.T, "MUL's T is not adjusted at L=107")
}

func TestDecodeFieldLayout(t *testing.T) {
	// DI bit (28), T (21-27)=0x7F, BP (20), N(13-19)=0x7F, C(11-12)=3, S(6-10)=0x1F, D(1-5)=0x1F, C1 bit0
	raw := word.Word(0)
	raw |= 1 << 28
	raw |= 0x7F << 21
	raw |= 1 << 20
	raw |= 0x7F << 13
	raw |= 0x3 << 11
	raw |= 0x1F << 6
	raw |= 0x1F << 1
	raw |= 1

	c := Decode(raw)
	assert.True(t, c.DI)
	assert.Equal(t, uint8(0x7F), c.T)
	assert.True(t, c.BP)
	assert.Equal(t, uint8(0x7F), c.N)
	assert.Equal(t, uint8(0x3), c.C)
	assert.Equal(t, uint8(0x1F), c.S)
	assert.Equal(t, uint8(0x1F), c.D)
	assert.True(t, c.C1)
}

func TestEmbedMarkRoundTripsThroughMarkField(t *testing.T) {
	c := Decode(word.Word(0x1FFFFFFF)) // every field at its max value
	for _, mark := range []uint8{0, 1, 13, 55, 107} {
		w := c.EmbedMark(mark)
		got := Decode(w)
		assert.Equal(t, mark, got.MarkField(), "mark %d should round-trip through EmbedMark/MarkField", mark)
	}
}

func TestEmbedMarkLeavesSignBitAlone(t *testing.T) {
	c := Command{C1: true, Raw: Encode(Command{C1: true})}
	w := c.EmbedMark(99)
	assert.True(t, Decode(w).C1, "EmbedMark must not clobber the sign/C1 bit at position 0")
}
