// Package proc implements the processor state machine (spec.md §4.D):
// fetch, transfer-state dispatch on (source, destination, characteristic,
// precision), and the D=31 special command family including MUL, DIV,
// SHIFT and NORM.
package proc

import (
	"github.com/lookbusy1344/g15emu/coreerr"
	"github.com/lookbusy1344/g15emu/decode"
	"github.com/lookbusy1344/g15emu/drum"
	"github.com/lookbusy1344/g15emu/iounit"
	"github.com/lookbusy1344/g15emu/logging"
	"github.com/lookbusy1344/g15emu/timing"
	"github.com/lookbusy1344/g15emu/word"
)

// cdLines maps the 3-bit command-line designator to an actual drum line
// number (spec.md §3 "Registers": "CD (command-line designator, 3 bits
// → line 0,1,2,3,4,5,19,23)").
var cdLines = [8]int{0, 1, 2, 3, 4, 5, 19, 23}

// Processor is the G-15 fetch/execute engine. It holds no storage of its
// own beyond transient per-transfer scratch; all persistent state lives
// on the Drum it's handed (spec.md §9 "Global singletons").
type Processor struct {
	Drum  *drum.Drum
	Clock *timing.Clock
	IO    *iounit.Unit
	Sink  logging.Sink

	CD  uint8 // command-line designator, 0-7
	Cmd decode.Command

	// fromAR replaces the source's overloaded cmdLoc==127 sentinel
	// (spec.md §9 "Open questions"): a fetch that pulled CM from AR (via
	// CG) is recorded here explicitly rather than folded into a word-time
	// field.
	fromAR bool

	// Transient double-precision carry state, valid only between the
	// even and odd word-time steps of one DP transfer: dpEven feeds
	// the addition path (AddDoubleOdd), dpCarry/dpSign feed the
	// complement path (ComplementDoubleOdd).
	dpEven  word.DPEvenResult
	dpCarry uint32
	dpSign  bool

	// LastError holds the most recent invariant violation; once set the
	// run loop halts (spec.md §7 "Propagation").
	LastError error

	// TraceHook, if set, is called once per fetched command for the
	// debugger/disassembler to observe (Component F "formats trace
	// output").
	TraceHook func(loc uint8, cmd decode.Command)

	// ComputeSwitchBP reports the panel's compute switch position; nil
	// means the switch reads as "off" (spec.md §4.D "Return-exit rule").
	ComputeSwitchBP func() bool

	// Bell, if set, is invoked by the S=17 special command (spec.md §4.D;
	// panel event sink, Non-goal-reduced to a callback).
	Bell func()
}

// New returns a Processor driving d through clk, dispatching I/O commands
// to io. sink receives warnings; logging.Discard is a valid choice.
func New(d *drum.Drum, clk *timing.Clock, io *iounit.Unit, sink logging.Sink) *Processor {
	if sink == nil {
		sink = logging.Discard
	}
	return &Processor{Drum: d, Clock: clk, IO: io, Sink: sink}
}

// Halted reports whether the CH flip-flop has been set, stopping
// execution after the current transfer completes.
func (p *Processor) Halted() bool { return p.Drum.Flags.CH }

// Run executes fetch/transfer cycles until CH is set, an invariant
// violation occurs, or the clock's Stop is requested.
func (p *Processor) Run() error {
	p.Clock.ResetStop()
	p.Clock.SetProcessorRunning(true)
	defer p.Clock.SetProcessorRunning(false)

	for !p.Halted() && !p.Clock.Stopped() {
		if err := p.Cycle(); err != nil {
			p.LastError = err
			if coreerr.IsInvariant(err) {
				return err
			}
			p.Sink.Warn("%s", err)
		}
	}
	return nil
}

// Cycle runs exactly one fetch followed by its transfer execution.
func (p *Processor) Cycle() error {
	if err := p.Fetch(); err != nil {
		return err
	}
	return p.Transfer()
}

// Fetch implements spec.md §4.D "Fetch cycle".
func (p *Processor) Fetch() error {
	d := p.Drum

	// spec.md §4.D "Fetch cycle": normally the next fetch is from the
	// word-time the just-executed command named in its N field; if CQ
	// was set (a TEST that came out true), the location advances one
	// further, to (N+1) mod 108.
	nextLoc := p.Cmd.N
	if d.Flags.CQ {
		nextLoc = uint8((int(p.Cmd.N) + 1) % drum.LongLineSize)
		d.Flags.CQ = false
	}
	p.Clock.WaitUntil(nextLoc)

	var cm = d.Read(cdLines[p.CD])
	p.fromAR = d.Flags.CG
	if d.Flags.CG {
		cm = d.AR()
		d.Flags.CG = false
	}

	cmd := decode.Decode(cm)
	if d.L == drum.LongLineSize-1 {
		cmd = cmd.WithL107Adjustment()
	}
	p.Cmd = cmd

	d.Flags.RC = false
	d.Flags.TR = true

	if p.TraceHook != nil {
		p.TraceHook(d.L, cmd)
	}

	p.Clock.WaitFor(1)
	if cmd.DI {
		p.Clock.WaitFor(1)
	}
	return nil
}
