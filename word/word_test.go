package word

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMakeSignMagnitudeRoundTrip(t *testing.T) {
	for _, mag := range []uint32{0, 1, 0x0FFFFFFF, 0x1234567} {
		for _, sign := range []bool{false, true} {
			w := Make(sign, mag)
			assert.Equal(t, sign, w.Sign())
			assert.Equal(t, mag, w.Magnitude())
		}
	}
}

func TestComplementSingleRoundTrip(t *testing.T) {
	// complementSingle(complementSingle(w)) = w for all w where w != (sign=1, mag=0).
	for _, mag := range []uint32{0, 1, 2, 0x0FFFFFFF, 0x7654321} {
		for _, sign := range []bool{false, true} {
			if sign && mag == 0 {
				continue
			}
			w := Make(sign, mag)
			c1 := ComplementSingle(w)
			c2 := ComplementSingle(c1.Word)
			assert.Equal(t, w, c2.Word, "sign=%v mag=%#x", sign, mag)
		}
	}
}

func TestAddSingleOverflow(t *testing.T) {
	half := uint32(WordMask) / 2
	a := Make(false, half)
	b := Make(false, half)
	res := AddSingle(a, b, false)
	assert.True(t, res.Overflow, "equal positive halves of wordMask should overflow")
}

func TestAddSingleIdentityWithZero(t *testing.T) {
	a := Make(false, 5)
	zero := Make(false, 0)
	res := AddSingle(a, zero, false)
	require.False(t, res.Overflow)
	assert.Equal(t, a, res.Sum)
}

func TestAddSingleSuppressesMinusZero(t *testing.T) {
	a := Make(false, 7)
	negZero := Make(true, 0)
	res := AddSingle(a, negZero, true)
	assert.False(t, res.Overflow)
	assert.Equal(t, a, res.Sum, "suppressed -0 addend should behave as +0")
}

func TestDoublePrecisionAddSignRule(t *testing.T) {
	// Even word carries out of its 28-bit field, odd word adds a full
	// magnitude and zero plus that carry, so it carries out too:
	// newCarry = true, so the odd sign should be augendSign XOR
	// addendSign XOR true.
	augendEven := Make(false, 0x0FFFFFFF)
	addendEven := Make(true, 1)
	even := AddDoubleEven(augendEven, addendEven)
	require.True(t, even.Carry)

	odd := AddDoubleOdd(Make(false, 0x0FFFFFFF), Make(true, 0), even)
	wantSign := (even.AugendSign != even.AddendSign) != true
	assert.Equal(t, wantSign, odd.Sign)
}

func TestIsNegativeZero(t *testing.T) {
	assert.True(t, Make(true, 0).IsNegativeZero())
	assert.False(t, Make(false, 0).IsNegativeZero())
	assert.False(t, Make(true, 1).IsNegativeZero())
}
