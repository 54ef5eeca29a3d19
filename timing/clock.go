// Package timing implements the drum's cooperative scheduling core:
// stepDrum, the processor/I-O arbitration rule, the waitFor/waitUntil
// family, and the real-time throttle (spec.md §4.C, §5).
package timing

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/lookbusy1344/g15emu/drum"
)

const (
	// MinThrottleDelay is the minimum real-time pause taken at a slice
	// boundary (spec.md §4.C).
	MinThrottleDelay = 4 * time.Millisecond
	// WordTime is the simulated duration of one word-time. The G-15 drum
	// spins at roughly 100,000 words/sec on its long lines; we model that
	// here purely so eTime has a unit, not for cycle-accurate wall-clock
	// fidelity (spec.md §1 Non-goals).
	WordTime = 10 * time.Microsecond
	// SliceWordTimes is how many word-times make up one throttled slice.
	SliceWordTimes = 400
)

// Clock owns the drum and arbitrates stepping between the processor and
// the I/O subsystem, per spec.md §4.C "Arbitration (the crux)". Both
// sides call Step (processor) or IOStep (I/O) once per word-time; Clock
// guarantees each word-time advances L exactly once.
type Clock struct {
	Drum *drum.Drum

	mu          sync.Mutex
	procWaiting *WaitSignal
	ioWaiting   *WaitSignal
	procRunning bool
	ioRunning   bool

	eTime         time.Duration
	eTimeSliceEnd time.Duration
	runTime       time.Duration
	sliceStart    time.Time

	stopped     atomic.Bool
	ioCanceled  atomic.Bool
	sleep       func(time.Duration) // injectable for tests
	wallClockOn bool
}

// NewClock returns a Clock driving d, with real-time throttling enabled.
func NewClock(d *drum.Drum) *Clock {
	return &Clock{
		Drum:          d,
		eTimeSliceEnd: time.Duration(SliceWordTimes) * WordTime,
		sleep:         time.Sleep,
		wallClockOn:   true,
	}
}

// DisableThrottle turns off the real-time wait at slice boundaries, for
// tests that need to run many word-times quickly.
func (c *Clock) DisableThrottle() { c.wallClockOn = false }

// SetProcessorRunning marks whether the processor task is currently
// active. The I/O subsystem consults this to decide whether it may step
// the drum unilaterally.
func (c *Clock) SetProcessorRunning(running bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.procRunning = running
	if !running && c.procWaiting != nil {
		sig := c.procWaiting
		c.procWaiting = nil
		sig.Proceed()
	}
}

// SetIORunning marks whether an I/O coroutine is currently active.
func (c *Clock) SetIORunning(running bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ioRunning = running
	if !running && c.ioWaiting != nil {
		sig := c.ioWaiting
		c.ioWaiting = nil
		sig.Proceed()
	}
}

// Stop requests the processor halt at its next suspension point.
func (c *Clock) Stop() { c.stopped.Store(true) }

// Stopped reports whether Stop has been called.
func (c *Clock) Stopped() bool { return c.stopped.Load() }

// ResetStop clears the halt request (used when starting a fresh run).
func (c *Clock) ResetStop() { c.stopped.Store(false) }

// CancelIO requests that every active I/O precession loop exit at its
// next iteration boundary (spec.md §5 "Cancellation").
func (c *Clock) CancelIO() { c.ioCanceled.Store(true) }

// IOCanceled reports whether CancelIO has been called.
func (c *Clock) IOCanceled() bool { return c.ioCanceled.Load() }

// ResetIOCancel clears the I/O cancellation flag (used when a new I/O
// command starts).
func (c *Clock) ResetIOCancel() { c.ioCanceled.Store(false) }

// ETime returns accumulated emulation time.
func (c *Clock) ETime() time.Duration { return c.eTime }

// RunTime returns the accumulated wall-clock time spent in throttle
// sleeps at slice boundaries; time spent stepping between those sleeps is
// not counted.
func (c *Clock) RunTime() time.Duration { return c.runTime }

// physicalStep is the single primitive that actually advances L and
// emulation time, then throttles at a slice boundary. It must never be
// called concurrently with itself; Step/IOStep's rendezvous logic is what
// guarantees that (spec.md §9 "Stepping re-entrancy check").
func (c *Clock) physicalStep() {
	c.Drum.Advance()
	c.eTime += WordTime

	if c.eTime < c.eTimeSliceEnd {
		return
	}
	c.eTimeSliceEnd = c.eTime + time.Duration(SliceWordTimes)*WordTime
	if !c.wallClockOn {
		return
	}
	start := time.Now()
	c.sleep(MinThrottleDelay)
	c.runTime += time.Since(start)
}

// Step advances the drum one word-time as the processor. If no I/O
// coroutine is active it steps directly; otherwise it arbitrates with the
// I/O side per the rule in spec.md §4.C.
func (c *Clock) Step() {
	c.mu.Lock()
	if !c.ioRunning {
		c.mu.Unlock()
		c.physicalStep()
		return
	}
	if c.ioWaiting != nil {
		sig := c.ioWaiting
		c.ioWaiting = nil
		c.mu.Unlock()
		c.physicalStep()
		sig.Proceed()
		return
	}
	sig := NewWaitSignal()
	c.procWaiting = sig
	c.mu.Unlock()
	sig.Wait()
}

// IOStep advances the drum one word-time as the I/O subsystem, arbitrating
// with the processor symmetrically to Step.
func (c *Clock) IOStep() {
	c.mu.Lock()
	if !c.procRunning {
		c.mu.Unlock()
		c.physicalStep()
		return
	}
	if c.procWaiting != nil {
		sig := c.procWaiting
		c.procWaiting = nil
		c.mu.Unlock()
		c.physicalStep()
		sig.Proceed()
		return
	}
	sig := NewWaitSignal()
	c.ioWaiting = sig
	c.mu.Unlock()
	sig.Wait()
}

// WaitFor steps the drum n word-times as the processor, stopping early if
// the processor is halted mid-loop (spec.md §4.C "waitFor(n)").
func (c *Clock) WaitFor(n uint8) {
	for i := uint8(0); i < n; i++ {
		if c.Stopped() {
			return
		}
		c.Step()
	}
}

// IOWaitFor steps the drum n word-times as the I/O subsystem, stopping
// early if I/O has been canceled mid-loop.
func (c *Clock) IOWaitFor(n uint8) {
	for i := uint8(0); i < n; i++ {
		if c.IOCanceled() {
			return
		}
		c.IOStep()
	}
}

// WaitUntil steps the processor to word-time t, using
// drum.ComputeDrumCount to honor the line-wrap adjustment.
func (c *Clock) WaitUntil(t uint8) {
	n := drum.ComputeDrumCount(c.Drum.L, t)
	if n == 0 {
		return
	}
	c.WaitFor(n)
}

// IOWaitUntil steps the I/O subsystem to word-time t.
func (c *Clock) IOWaitUntil(t uint8) {
	n := drum.ComputeDrumCount(c.Drum.L, t)
	if n == 0 {
		return
	}
	c.IOWaitFor(n)
}

// IOWaitUntil4 steps the I/O subsystem to word-time t within a 4-word
// line: count = (t - L + 108) mod 4 (spec.md §4.C).
func (c *Clock) IOWaitUntil4(t uint8) {
	count := (int(t) - int(c.Drum.L) + drum.LongLineSize) % 4
	if count > 0 {
		c.IOWaitFor(uint8(count))
	}
}
