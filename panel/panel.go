// Package panel implements the control-panel contract spec.md §6
// describes: the three switches, the reset button's CN-reload-then-boot
// sequence, and a channel-based bell sink standing in for the physical
// lamp/bell hardware (spec.md §1 Non-goals: "the control-panel UI —
// reduced to a switch-state read interface and an event sink").
package panel

import (
	"github.com/lookbusy1344/g15emu/device"
	"github.com/lookbusy1344/g15emu/drum"
	"github.com/lookbusy1344/g15emu/word"
)

// ComputeSwitch positions (spec.md §6 "Control-panel contract").
type ComputeSwitch int

const (
	ComputeOff ComputeSwitch = iota
	ComputeGo
	ComputeBP
)

// EnableSwitch positions.
type EnableSwitch int

const (
	EnableOff EnableSwitch = iota
	EnableOn
)

// PunchSwitch positions.
type PunchSwitch int

const (
	PunchOff PunchSwitch = iota
	PunchPunch
	PunchRewind
)

// Panel holds the three switches plus the reset/bell plumbing. Reading a
// switch never blocks; Bell delivery is a buffered channel so the
// processor's S=17 callback never stalls waiting for a UI to drain it.
type Panel struct {
	Compute ComputeSwitch
	Enable  EnableSwitch
	Punch   PunchSwitch

	bell chan struct{}
}

// New returns a Panel with all switches off.
func New() *Panel {
	return &Panel{bell: make(chan struct{}, 16)}
}

// ComputeSwitchBP reports whether the compute switch is in the BP
// position, the reading proc.Processor.ComputeSwitchBP wires in for the
// S=20 return-exit rule.
func (p *Panel) ComputeSwitchBP() bool { return p.Compute == ComputeBP }

// Ring enqueues a bell event; it never blocks (a full channel drops the
// oldest pending ring rather than stalling the emulation loop).
func (p *Panel) Ring() {
	select {
	case p.bell <- struct{}{}:
	default:
		<-p.bell
		p.bell <- struct{}{}
	}
}

// Bell returns the channel a UI drains to learn the bell rang.
func (p *Panel) Bell() <-chan struct{} { return p.bell }

// bootLine is the drum line the reset button's second tape block loads
// into: line 23, the line CD=7 designates (spec.md §8 scenario 5: "the
// second block loaded into line 23 and executed").
const bootLine = 23

// Reset implements the reset button: loads CN from the bootstrap tape's
// first block via the supplied reader, then transfers the second block
// into line 23, the bootstrap's starting command line (spec.md §6
// "Control-panel contract": "Reset button: re-loads CN from a paper-tape
// block and then loads a bootstrap"; spec.md §8 scenario 5 pins the
// target line). The caller is responsible for setting the processor's CD
// to 7 so execution actually starts from line 23.
func Reset(d *drum.Drum, reader device.Device) error {
	d.Reset()

	var cn [drum.LongLineSize]word.Word
	for i := range cn {
		hi, ok := reader.Read()
		if !ok {
			break
		}
		lo, ok := reader.Read()
		if !ok {
			break
		}
		cn[i] = word.Make(hi&1 != 0, uint32(lo)<<23|uint32(hi)<<18)
	}
	d.LoadCN(cn)

	// The second block fills line 23's words, packed the same way.
	for i := 0; i < drum.FastLineSize; i++ {
		hi, ok := reader.Read()
		if !ok {
			break
		}
		lo, ok := reader.Read()
		if !ok {
			break
		}
		d.L = uint8(i)
		d.Write(bootLine, word.Make(hi&1 != 0, uint32(lo)<<23|uint32(hi)<<18))
	}
	d.L = 0
	return nil
}
