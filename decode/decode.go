// Package decode implements Component F: parsing the 29-bit command word
// into its fields (spec.md §4.D "Command word") and formatting a decoded
// command for trace output. It does not execute anything; proc calls into
// here once per fetch and drives transfer-state execution itself.
package decode

import "github.com/lookbusy1344/g15emu/word"

// Command is a fully decoded 29-bit command word.
type Command struct {
	Raw word.Word

	C1 bool  // bit 0: 0 = single, 1 = double precision
	D  uint8 // bits 1-5: destination line (0-31)
	S  uint8 // bits 6-10: source line (0-31)
	C  uint8 // bits 11-12: characteristic (0-3)
	N  uint8 // bits 13-19: next command word-time
	BP bool  // bit 20: breakpoint flag
	T  uint8 // bits 21-27: operand word-time
	DI bool  // bit 28: 0 = immediate, 1 = deferred
}

// Decode splits w into its command fields, per the bit layout table in
// spec.md §4.D.
func Decode(w word.Word) Command {
	raw := uint32(w)
	return Command{
		Raw: w,
		C1:  raw&0x1 != 0,
		D:   uint8((raw >> 1) & 0x1F),
		S:   uint8((raw >> 6) & 0x1F),
		C:   uint8((raw >> 11) & 0x3),
		N:   uint8((raw >> 13) & 0x7F),
		BP:  raw&(1<<20) != 0,
		T:   uint8((raw >> 21) & 0x7F),
		DI:  raw&(1<<28) != 0,
	}
}

// Encode reassembles a command word from its fields, used by tests that
// need to synthesize commands.
func Encode(c Command) word.Word {
	var raw uint32
	if c.C1 {
		raw |= 0x1
	}
	raw |= uint32(c.D&0x1F) << 1
	raw |= uint32(c.S&0x1F) << 6
	raw |= uint32(c.C&0x3) << 11
	raw |= uint32(c.N&0x7F) << 13
	if c.BP {
		raw |= 1 << 20
	}
	raw |= uint32(c.T&0x7F) << 21
	if c.DI {
		raw |= 1 << 28
	}
	return word.Word(raw) & word.WordMask
}

// CS reports the derived "via AR" condition: characteristic's high bit
// set (C is 2 or 3) and both S and D have their field's own high bit
// clear (spec.md §4.D: "CS... set when both S and D are in 0..23 and
// characteristic is 2 or 3" — the textual "0..23" gloss is approximate;
// the bit formula spec.md gives literally is authoritative and is what
// this implements, see DESIGN.md).
func (c Command) CS() bool {
	return c.C&0x2 != 0 && c.S&0x10 == 0 && c.D&0x10 == 0
}

// markFieldMask covers CM bits 1-13 (0-indexed bit positions 1 through
// 13, i.e. the 13 bits directly above the sign/C1 bit), the field
// MarkField reads and EmbedMark writes, so a mark set by S=21 round-trips
// back through a later S=20 (spec.md §4.D "Mark-exit rule", "Return-exit
// rule"; as with CS, the textual bit range is the literal formula this
// implements — see DESIGN.md).
const markFieldMask = uint32(0x1FFF) << 1

// MarkField returns the S=20 return-exit rule's "m" operand: CM bits
// 1-13, reduced mod 108 so it compares against the word-time fields n
// and t the same rule uses (spec.md §4.D "Return-exit rule").
func (c Command) MarkField() uint8 {
	return uint8(((uint32(c.Raw) >> 1) & 0x1FFF) % 108)
}

// EmbedMark returns c's raw word with CM bits 1-13 replaced by mark,
// used by the S=21 mark-exit command to rewrite the command word in
// place (spec.md §4.D "Mark-exit rule"). Every other bit, including the
// sign/C1 bit at position 0, is left untouched.
func (c Command) EmbedMark(mark uint8) word.Word {
	raw := uint32(c.Raw) &^ markFieldMask
	raw |= (uint32(mark) << 1) & markFieldMask
	return word.Word(raw) & word.WordMask
}

// WithL107Adjustment applies the L=107 number-track compensation
// described in spec.md §4.D: when executed from L=107, N is reduced by
// 20 mod 108, and unless this is a MUL/DIV/SHIFT/NORM special command
// (D=31, S in {24,25,26,27}), T is reduced the same way.
func (c Command) WithL107Adjustment() Command {
	adjusted := c
	adjusted.N = uint8((int(c.N) - 20 + 108) % 108)
	if !(c.D == 31 && (c.S == 24 || c.S == 25 || c.S == 26 || c.S == 27)) {
		adjusted.T = uint8((int(c.T) - 20 + 108) % 108)
	}
	return adjusted
}
