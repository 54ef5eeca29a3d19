package iounit

import (
	"github.com/lookbusy1344/g15emu/drum"
	"github.com/lookbusy1344/g15emu/timing"
	"github.com/lookbusy1344/g15emu/word"
)

// The five primitives below implement spec.md §4.E "Precession
// primitives". The four line/MZ primitives each process exactly one
// 4-word group of the target line (ioPrecessARToCode takes a single
// word-time on AR), one word per word-time via clk.IOWaitFor(1), at whatever
// word-time the line is currently addressed from — this is what "cycling
// forward" means for a register whose contents move one word position
// per call. All five abort at the next iteration boundary and return the
// zero/"empty" result if the I/O-cancel flag becomes set mid-loop
// (spec.md §4.E).

func bitMask(nBits int) uint32 { return (uint32(1) << uint(nBits)) - 1 }

// ioPrecessCodeToLine stores nBits of code into the low-order bits of
// the line's currently addressed word while precessing the existing
// contents upward, returning the high-order nBits shifted out after the
// fourth word.
func ioPrecessCodeToLine(d *drum.Drum, clk *timing.Clock, code byte, nBits int, line int) uint32 {
	mask := bitMask(nBits)
	carry := uint32(code) & mask
	for i := 0; i < 4; i++ {
		if clk.IOCanceled() {
			return 0
		}
		w := uint32(d.Read(line))
		out := (w >> uint(29-nBits)) & mask
		next := ((w << uint(nBits)) | carry) & uint32(word.WordMask)
		d.Write(line, word.Word(next))
		carry = out
		clk.IOWaitFor(1)
	}
	return carry
}

// ioPrecessLineToCode is the converse: precesses the line's words upward
// while reading the outgoing high nBits of the fourth word out as a code
// each call, reporting whether the line has become entirely zero.
func ioPrecessLineToCode(d *drum.Drum, clk *timing.Clock, line int, nBits int) (code byte, lineIsNowAllZero bool) {
	mask := bitMask(nBits)
	allZero := true
	var out uint32
	for i := 0; i < 4; i++ {
		if clk.IOCanceled() {
			return 0, false
		}
		w := uint32(d.Read(line))
		out = (w >> uint(29-nBits)) & mask
		next := (w << uint(nBits)) & uint32(word.WordMask)
		if next != 0 {
			allZero = false
		}
		d.Write(line, word.Word(next))
		clk.IOWaitFor(1)
	}
	return byte(out), allZero
}

// ioPrecessMZToLine19 swaps the 4-word MZ buffer with the current 4-word
// group of line 19, cycling line 19 forward by one group (spec.md §4.E).
func ioPrecessMZToLine19(d *drum.Drum, clk *timing.Clock) {
	for i := 0; i < 4; i++ {
		if clk.IOCanceled() {
			return
		}
		mz := d.MZ(i)
		line19 := d.Read(19)
		d.SetMZ(i, line19)
		d.Write(19, mz)
		clk.IOWaitFor(1)
	}
}

// ioPrecessLongLineToMZ seeds MZ from the current 4-word group of line,
// returning the initial nBits code extracted from the first word
// (spec.md §4.E).
func ioPrecessLongLineToMZ(d *drum.Drum, clk *timing.Clock, line int, nBits int) byte {
	mask := bitMask(nBits)
	var first uint32
	for i := 0; i < 4; i++ {
		if clk.IOCanceled() {
			return 0
		}
		w := uint32(d.Read(line))
		if i == 0 {
			first = w
		}
		d.SetMZ(i, word.Word(w))
		clk.IOWaitFor(1)
	}
	return byte((first >> uint(29-nBits)) & mask)
}

// ioPrecessARToCode shifts AR left by nBits, writing zeros into the low
// bits, returning the high nBits shifted out (spec.md §4.E). The boolean
// "empty" result is always false: AR has no auto-reload concept.
func ioPrecessARToCode(d *drum.Drum, clk *timing.Clock, nBits int) (code byte, empty bool) {
	if clk.IOCanceled() {
		return 0, false
	}
	mask := bitMask(nBits)
	ar := uint32(d.AR())
	out := (ar >> uint(29-nBits)) & mask
	next := (ar << uint(nBits)) & uint32(word.WordMask)
	d.SetAR(word.Word(next))
	clk.IOWaitFor(1)
	return byte(out), false
}
