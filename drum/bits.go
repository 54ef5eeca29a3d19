package drum

import "github.com/lookbusy1344/g15emu/word"

// This file implements the bit-level register accessors spec.md §4.B
// names directly (getID1T1, setMQ0T2, getMQ0T29, getMQ1T29, getPN0T1,
// setPN0T1, flipPN0T1, getPN0T29). "Tn" is the G-15's own bit-time
// numbering, counting from 1: T1 is the first bit to pass the read head
// in a word period, which is the sign bit; T29 is the last, the top
// magnitude bit. In our zero-indexed Word, T1 == bit 0 (the sign) and
// T29 == bit 28 (the top magnitude bit). MUL/DIV/SHIFT/NORM move single
// bits between registers one word-time at a time and read these directly
// rather than going through the full sign-magnitude accessors.

func bitAt(w word.Word, tIndex int) bool {
	return (w>>uint(tIndex-1))&1 != 0
}

func setBitAt(w word.Word, tIndex int, v bool) word.Word {
	mask := word.Word(1) << uint(tIndex-1)
	if v {
		return (w | mask) & word.WordMask
	}
	return (w &^ mask) & word.WordMask
}

// GetID1T1 returns the sign bit (T1) of ID's odd word (index 1).
func (d *Drum) GetID1T1() bool { return bitAt(d.id[1], 1) }

// SetMQ0T2 sets bit T2 (the magnitude's low bit) of MQ's even word.
func (d *Drum) SetMQ0T2(v bool) { d.mq[0] = setBitAt(d.mq[0], 2, v) }

// GetMQ0T29 returns the top magnitude bit (T29) of MQ's even word.
func (d *Drum) GetMQ0T29() bool { return bitAt(d.mq[0], 29) }

// GetMQ1T29 returns the top magnitude bit (T29) of MQ's odd word.
func (d *Drum) GetMQ1T29() bool { return bitAt(d.mq[1], 29) }

// GetPN0T1 returns the sign bit (T1) of PN's even word.
func (d *Drum) GetPN0T1() bool { return bitAt(d.pn[0], 1) }

// SetPN0T1 sets the sign bit (T1) of PN's even word.
func (d *Drum) SetPN0T1(v bool) { d.pn[0] = setBitAt(d.pn[0], 1, v) }

// FlipPN0T1 complements the sign bit (T1) of PN's even word.
func (d *Drum) FlipPN0T1() { d.pn[0] = setBitAt(d.pn[0], 1, !bitAt(d.pn[0], 1)) }

// GetPN0T29 returns the top magnitude bit (T29) of PN's even word.
func (d *Drum) GetPN0T29() bool { return bitAt(d.pn[0], 29) }

// ShiftLeftIn shifts w left by one bit (toward higher magnitude order),
// discarding the outgoing top bit and inserting in at the bottom
// magnitude bit (T2), used by MUL/DIV/SHIFT/NORM's bit-serial loops.
// It returns the updated word and the bit shifted out of T29.
func ShiftLeftIn(w word.Word, in bool) (word.Word, bool) {
	out := bitAt(w, 29)
	mag := w.Magnitude() << 1
	if in {
		mag |= 1
	}
	return word.Make(w.Sign(), mag&0x0FFFFFFF), out
}

// ShiftRightIn shifts w right by one bit within the magnitude field,
// discarding the outgoing bottom bit (T2) and inserting in at the top
// magnitude bit (T29). Used by MUL's "ID right" step.
func ShiftRightIn(w word.Word, in bool) (word.Word, bool) {
	mag := w.Magnitude()
	out := mag&1 != 0
	mag >>= 1
	if in {
		mag |= 1 << 27
	}
	return word.Make(w.Sign(), mag), out
}
