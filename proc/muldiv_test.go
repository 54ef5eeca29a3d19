package proc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lookbusy1344/g15emu/decode"
	"github.com/lookbusy1344/g15emu/word"
)

func TestMulRejectsDeferred(t *testing.T) {
	p, _ := newTestProcessor(t)
	p.Cmd = decode.Command{T: 2, DI: true}
	assert.Error(t, p.mul())
}

func TestMulRejectsOddStart(t *testing.T) {
	p, d := newTestProcessor(t)
	d.L = 1
	p.Cmd = decode.Command{T: 2}
	assert.Error(t, p.mul())
}

func TestMulAccumulatesPartialProductWhenMultiplierBitSet(t *testing.T) {
	p, d := newTestProcessor(t)
	d.L = 0
	d.SetMQ(1, word.Word(1<<28)) // MQ:1 T29 set, so the partial-product bit is 1
	d.SetID(0, word.Make(false, 4))
	p.Cmd = decode.Command{T: 2}

	require.NoError(t, p.mul())

	assert.Equal(t, word.Make(false, 2), d.ID(0), "ID shifts right one place")
	assert.Equal(t, word.Make(false, 2), d.PN(0), "PN's even word accumulates the shifted ID")
	assert.Equal(t, word.Word(0), d.PN(1))
	assert.Equal(t, uint8(2), d.L)
}

func TestDivRejectsDeferred(t *testing.T) {
	p, _ := newTestProcessor(t)
	p.Cmd = decode.Command{T: 2, DI: true}
	assert.Error(t, p.div())
}

func TestDivRejectsOddStart(t *testing.T) {
	p, d := newTestProcessor(t)
	d.L = 1
	p.Cmd = decode.Command{T: 2}
	assert.Error(t, p.div())
}

func TestDivSetsQuotientMarkerBitOnCompletion(t *testing.T) {
	p, d := newTestProcessor(t)
	d.L = 0
	p.Cmd = decode.Command{T: 0}

	require.NoError(t, p.div())

	assert.NotZero(t, d.MQ(0)&0x2, "MQ:0 T2 should be set once the division finishes")
}

func TestShiftMovesIDRightAndMQLeftAcrossBothHalves(t *testing.T) {
	p, d := newTestProcessor(t)
	d.L = 0
	d.SetID(0, word.Make(false, 3))
	d.SetID(1, 0)
	d.SetMQ(0, word.Make(false, 0x08000000))
	d.SetMQ(1, 0)
	p.Cmd = decode.Command{T: 2, C: 1}

	require.NoError(t, p.shift())

	assert.Equal(t, word.Make(false, 1), d.ID(0))
	assert.Equal(t, word.Make(false, 0x08000000), d.ID(1))
	assert.Equal(t, word.Word(0), d.MQ(0))
	assert.Equal(t, word.Make(false, 1), d.MQ(1))
}

func TestShiftCountsARUnderC0(t *testing.T) {
	p, d := newTestProcessor(t)
	d.L = 0
	p.Cmd = decode.Command{T: 2, C: 0}

	require.NoError(t, p.shift())

	assert.Equal(t, word.Make(false, 1), d.AR())
}

func TestShiftARWrapsAndStopsEarly(t *testing.T) {
	p, d := newTestProcessor(t)
	d.L = 0
	d.SetAR(word.Make(false, 0x0FFFFFFF))
	p.Cmd = decode.Command{T: 4, C: 0}

	require.NoError(t, p.shift())

	assert.Equal(t, word.Make(false, 0), d.AR())
	assert.Equal(t, uint8(2), d.L, "the loop returns early once AR wraps")
}

func TestNormalizeStopsImmediatelyWhenTopBitSet(t *testing.T) {
	p, d := newTestProcessor(t)
	d.SetMQ(1, word.Word(1<<28))
	p.Cmd = decode.Command{T: 4, C: 1}

	require.NoError(t, p.normalize())

	assert.Equal(t, word.Word(1<<28), d.MQ(1))
}

func TestNormalizeStopsOnceTopBitReached(t *testing.T) {
	p, d := newTestProcessor(t)
	d.L = 1
	d.SetMQ(1, word.Make(false, 0x04000000))
	p.Cmd = decode.Command{T: 4, C: 1}

	require.NoError(t, p.normalize())

	assert.Equal(t, word.Make(false, 0x08000000), d.MQ(1))
	assert.Equal(t, uint8(2), d.L, "the loop stops after the single shift that sets the top bit")
}
