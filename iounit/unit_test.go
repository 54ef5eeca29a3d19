package iounit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lookbusy1344/g15emu/decode"
	"github.com/lookbusy1344/g15emu/device"
	"github.com/lookbusy1344/g15emu/drum"
	"github.com/lookbusy1344/g15emu/logging"
	"github.com/lookbusy1344/g15emu/timing"
)

func newTestUnit(t *testing.T) *Unit {
	t.Helper()
	d := drum.New()
	clk := timing.NewClock(d)
	clk.DisableThrottle()
	return New(d, clk, logging.Discard)
}

func TestDispatchWithNoDeviceHangsImmediately(t *testing.T) {
	u := newTestUnit(t)

	require.NoError(t, u.Dispatch(decode.Command{S: 1})) // OpTypeAR, no device registered
	u.Wait()

	assert.Equal(t, Hung, u.State())
}

func TestDispatchRejectsUnassignedS(t *testing.T) {
	u := newTestUnit(t)
	err := u.Dispatch(decode.Command{S: 10})
	assert.Error(t, err)
}

func TestDispatchAbsorbsDuplicateOfActiveOp(t *testing.T) {
	u := newTestUnit(t)
	u.Devices[OpTapeRead] = device.NewTapeReader([]byte{InStop})

	require.NoError(t, u.Dispatch(decode.Command{S: 4}))
	// Second dispatch of the same S while active is absorbed, not rejected.
	err := u.Dispatch(decode.Command{S: 4})
	u.Wait()

	assert.NoError(t, err)
	assert.Equal(t, Finished, u.State())
}

// blockingReader is a Device whose Read blocks until the test sends a
// code on release, giving tests a deterministic rendezvous point instead
// of racing the I/O goroutine's scheduling.
type blockingReader struct {
	release chan byte
}

func (b *blockingReader) Read() (byte, bool) {
	c, ok := <-b.release
	return c, ok
}
func (b *blockingReader) Write(byte) bool { return false }
func (b *blockingReader) Cancel()         {}

func TestDispatchRejectsDifferentOpWhileBusy(t *testing.T) {
	u := newTestUnit(t)
	u.Devices[OpTypeIn] = &blockingReader{release: make(chan byte)}

	require.NoError(t, u.Dispatch(decode.Command{S: 7}))
	err := u.Dispatch(decode.Command{S: 1})

	assert.Error(t, err)
}

func TestDispatchCancellationStopsInFlightOperation(t *testing.T) {
	u := newTestUnit(t)
	// buffered so the send below never blocks, whether or not the I/O
	// goroutine reaches Read before it sees the cancellation
	reader := &blockingReader{release: make(chan byte, 1)}
	u.Devices[OpTapeRead] = reader

	require.NoError(t, u.Dispatch(decode.Command{S: 4}))
	u.Clock.CancelIO()
	reader.release <- 0x10 // unblock Read now that cancellation is already set

	u.Wait()
	assert.Equal(t, Canceled, u.State())
}

func TestTypeARWritesSevenDigitsThenStop(t *testing.T) {
	u := newTestUnit(t)
	punch := device.NewTapePunch()
	u.Devices[OpTypeAR] = punch

	require.NoError(t, u.Dispatch(decode.Command{S: 1}))
	u.Wait()

	require.Len(t, punch.Codes, 8, "7 digit codes plus a final STOP")
	assert.Equal(t, byte(InStop), punch.Codes[7])
}

func TestStateStringNames(t *testing.T) {
	cases := map[State]string{
		Idle:     "idle",
		Active:   "active",
		Canceled: "canceled",
		Hung:     "hung",
		Finished: "finished",
		State(99): "unknown",
	}
	for state, want := range cases {
		assert.Equal(t, want, state.String())
	}
}
