// Package drum implements the G-15's rotating store: the 20 long lines,
// 4 fast lines, the MQ/ID/PN registers, the AR accumulator, the CN number
// track, the MZ I/O buffer, and the word-time counter L that every other
// subsystem synchronizes against (spec.md §3, §4.B).
package drum

import (
	"fmt"

	"github.com/lookbusy1344/g15emu/word"
)

// Line numbers, per spec.md §3.
const (
	LineLongFirst = 0
	LineLongLast  = 19
	LineFastFirst = 20
	LineFastLast  = 23
	LineMQ        = 24
	LineID        = 25
	LinePN        = 26
	LineTest      = 27
	LineAR        = 28
	LineRead27    = 27 // alias, kept for clarity at call sites that read line 27
	LineSynth29   = 29
	LineSynth30   = 30
	LineSynth31   = 31

	// LongLineSize is the word capacity of a long line (and of CN).
	LongLineSize = 108
	// FastLineSize is the word capacity of a fast line (lines 20-23).
	FastLineSize = 4
	// RegisterSize is the word capacity of MQ, ID and PN.
	RegisterSize = 2
	// MZSize is the word capacity of the I/O scratch buffer.
	MZSize = 4
)

// FlipFlops holds the single-bit latches that persist across commands
// (spec.md §3 "Flip-flops"). BP, C1, DI and CS are per-command decoded
// fields and live on the processor's current command, not here.
type FlipFlops struct {
	AS bool // auto-reload enabled
	CG bool // next command comes from AR
	CH bool // halt requested
	CQ bool // TEST result
	CZ bool // stepping disabled
	FO bool // overflow latch
	IP bool // DP sign carrier
	OS bool // I/O sign buffer
	RC bool // read-command state
	TR bool // transfer state
	SA bool // typewriter enabled
}

// Drum is the rotating store. Callers must not reach into its storage
// directly; all access goes through Read/Write and the typed accessors
// below so that line-size reduction and register aliasing stay correct
// (spec.md §9 "Global singletons").
type Drum struct {
	L uint8 // 0..107, the current word-time

	longLines [20][LongLineSize]word.Word
	fastLines [4][FastLineSize]word.Word
	mq        [RegisterSize]word.Word
	id        [RegisterSize]word.Word
	pn        [RegisterSize]word.Word
	ar        word.Word
	cn        [LongLineSize]word.Word
	mz        [MZSize]word.Word

	// IR/OR are single-word registers wired to optional external hardware
	// (spec.md §4.B); they default to zero when nothing is attached.
	IR word.Word
	OR word.Word

	Flags FlipFlops
}

// New returns a Drum at word-time 0 with all storage zeroed.
func New() *Drum {
	return &Drum{}
}

// Reset clears all storage and flip-flops and returns L to 0, as on
// machine power-up (spec.md §3 "Lifecycles").
func (d *Drum) Reset() {
	*d = Drum{}
}

// CE reports whether L is currently even.
func (d *Drum) CE() bool { return d.L%2 == 0 }

// L2 returns L mod 2, the index into a 2-word register.
func (d *Drum) L2() uint8 { return d.L % 2 }

// L4 returns L mod 4, the index into a fast line.
func (d *Drum) L4() uint8 { return d.L % 4 }

// Advance moves L forward by one word-time, wrapping 107 -> 0. It does not
// perform any throttling or scheduling; that is timing.Clock's job.
func (d *Drum) Advance() {
	d.L++
	if d.L >= LongLineSize {
		d.L = 0
	}
}

// Read resolves line to the word addressed by the current L, per
// spec.md §3's per-line addressing rules. Line 27 (TEST) always reads
// zero; lines 29-31 are synthesized and read through ReadSynth.
func (d *Drum) Read(line int) word.Word {
	switch {
	case line >= LineLongFirst && line <= LineLongLast:
		return d.longLines[line][d.L]
	case line >= LineFastFirst && line <= LineFastLast:
		return d.fastLines[line-LineFastFirst][d.L4()]
	case line == LineMQ:
		return d.mq[d.L2()]
	case line == LineID:
		return d.id[d.L2()]
	case line == LinePN:
		return d.pn[d.L2()]
	case line == LineTest:
		return 0
	case line == LineAR:
		return d.ar
	case line == LineSynth29, line == LineSynth30, line == LineSynth31:
		return d.ReadSynth(line)
	default:
		return 0
	}
}

// Write resolves line to the word addressed by the current L and stores w,
// per spec.md §3. Line 27 (TEST) discards the value but the caller is
// expected to have already driven CQ from the late bus (see proc package).
// Lines 29-31 are read-only synthesized sources; writing them is a
// programming error the caller must not commit (those writes are the D=31
// special command family instead).
func (d *Drum) Write(line int, w word.Word) error {
	w &= word.WordMask
	switch {
	case line >= LineLongFirst && line <= LineLongLast:
		d.longLines[line][d.L] = w
	case line >= LineFastFirst && line <= LineFastLast:
		d.fastLines[line-LineFastFirst][d.L4()] = w
	case line == LineMQ:
		d.mq[d.L2()] = w
	case line == LineID:
		d.id[d.L2()] = w
	case line == LinePN:
		d.pn[d.L2()] = w
	case line == LineTest:
		// writes to TEST are observed, not stored.
	case line == LineAR:
		d.ar = w
	default:
		return fmt.Errorf("drum: line %d is not a writable destination", line)
	}
	return nil
}

// ReadCN reads the number track at the current L.
func (d *Drum) ReadCN() word.Word { return d.cn[d.L] }

// WriteCN writes the number track at the current L.
func (d *Drum) WriteCN(w word.Word) { d.cn[d.L] = w & word.WordMask }

// LoadCN bulk-loads the number track, used by the boot/reset path.
func (d *Drum) LoadCN(words [LongLineSize]word.Word) { d.cn = words }

// ReadSynth computes one of the three synthesized read-only sources
// (spec.md §4.B "Reading synthesized lines"), each derived from whatever
// lines 20/21 and AR/IR currently address at L.
func (d *Drum) ReadSynth(line int) word.Word {
	l20 := d.Read(LineFastFirst)
	l21 := d.Read(LineFastFirst + 1)
	switch line {
	case LineTest: // 27 (read side)
		return (l20 & l21) | (^l20 & d.ar & word.WordMask)
	case LineSynth29:
		return l20 & d.IR
	case LineSynth30:
		return ^l20 & l21 & word.WordMask
	case LineSynth31:
		return l20 & l21
	default:
		return 0
	}
}

// AR returns the accumulator's current value.
func (d *Drum) AR() word.Word { return d.ar }

// SetAR stores directly into AR, bypassing line resolution (used by the
// D=31 special commands and by MUL/DIV/SHIFT/NORM bit-level primitives).
func (d *Drum) SetAR(w word.Word) { d.ar = w & word.WordMask }

// MZ returns the I/O scratch buffer word at local index i (0..3).
func (d *Drum) MZ(i int) word.Word { return d.mz[i] }

// SetMZ stores the I/O scratch buffer word at local index i (0..3).
func (d *Drum) SetMZ(i int, w word.Word) { d.mz[i] = w & word.WordMask }

// MQ returns the MQ register word at local index i (0 or 1).
func (d *Drum) MQ(i int) word.Word { return d.mq[i] }

// SetMQ stores the MQ register word at local index i (0 or 1).
func (d *Drum) SetMQ(i int, w word.Word) { d.mq[i] = w & word.WordMask }

// ID returns the ID register word at local index i (0 or 1).
func (d *Drum) ID(i int) word.Word { return d.id[i] }

// SetID stores the ID register word at local index i (0 or 1).
func (d *Drum) SetID(i int, w word.Word) { d.id[i] = w & word.WordMask }

// PN returns the PN register word at local index i (0 or 1).
func (d *Drum) PN(i int) word.Word { return d.pn[i] }

// SetPN stores the PN register word at local index i (0 or 1).
func (d *Drum) SetPN(i int, w word.Word) { d.pn[i] = w & word.WordMask }

// LongLine returns a copy of long line n's 108 words, for inspection by
// the debugger and end-to-end tests.
func (d *Drum) LongLine(n int) [LongLineSize]word.Word { return d.longLines[n] }

// FastLine returns a copy of fast line n's (0..3) 4 words.
func (d *Drum) FastLine(n int) [FastLineSize]word.Word { return d.fastLines[n] }
