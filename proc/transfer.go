package proc

import (
	"github.com/lookbusy1344/g15emu/drum"
	"github.com/lookbusy1344/g15emu/word"
)

// Transfer implements spec.md §4.D "Transfer cycle": it computes the
// step count for the current command and executes one word per step,
// advancing the drum between steps, then returns the machine to the
// read-command state.
func (p *Processor) Transfer() error {
	defer func() {
		p.Drum.Flags.TR = false
		p.Drum.Flags.RC = true
	}()

	if p.Cmd.D == 31 {
		return p.special()
	}

	count := p.transferCount()
	for i := uint8(0); i < count; i++ {
		if p.Clock.Stopped() {
			return nil
		}
		if err := p.transferStep(); err != nil {
			return err
		}
		p.Clock.WaitFor(1)
	}
	return nil
}

// transferCount implements the immediate/deferred count rule (spec.md
// §4.D "Transfer cycle").
func (p *Processor) transferCount() uint8 {
	if p.Cmd.DI {
		count := uint8(1)
		if p.Cmd.C1 && p.Drum.CE() {
			count++
		}
		return count
	}
	diff := (int(p.Cmd.T) - int(p.Drum.L) + drum.LongLineSize) % drum.LongLineSize
	if diff == 0 {
		diff = 1
	}
	return uint8(diff)
}

// readSource reads the operand the current command's source line
// presents at the drum's current L. Line 27 as a source is the "read
// side" TEST synthesis, distinct from Read(27)'s always-zero behavior
// for writes (spec.md §4.B "Reading synthesized lines").
func (p *Processor) readSource() word.Word {
	switch p.Cmd.S {
	case 27, 29, 30, 31:
		return p.Drum.ReadSynth(int(p.Cmd.S))
	default:
		return p.Drum.Read(int(p.Cmd.S))
	}
}

func isRegisterLine(line uint8) bool {
	return line == 24 || line == 25 || line == 26
}

// transform applies the TR/AD/AV/SU characteristic meaning to src,
// ignoring CS (spec.md §4.D "Characteristic semantics"). Callers that
// need the CS-dependent via-AR routing apply this to produce the value
// that flows into AR, and separately move AR's previous contents to the
// destination.
func (p *Processor) transform(src word.Word) word.Word {
	switch p.Cmd.C {
	case 0: // TR
		return src
	case 1: // AD
		return word.ComplementSingle(src).Word
	case 2: // AV
		return word.Make(false, src.Magnitude())
	default: // 3: SU
		flipped := src ^ word.SignMask
		return word.ComplementSingle(flipped).Word
	}
}

// dpSourceWithIP applies the DP even-word sign substitution spec.md §4.D
// describes: "Double precision on C=0/C=2 forces the even word of a
// register source to have its sign cleared and replaced by IP for
// sign-carrying sources (MQ/ID/PN)."
func (p *Processor) dpSourceWithIP(src word.Word) word.Word {
	if p.Cmd.C1 && p.Drum.CE() && isRegisterLine(p.Cmd.S) && (p.Cmd.C == 0 || p.Cmd.C == 2) {
		return word.Make(p.Drum.Flags.IP, src.Magnitude())
	}
	return src
}

// transferStep executes one word-time's worth of the current transfer:
// read the source, apply the characteristic, write the destination.
func (p *Processor) transferStep() error {
	src := p.dpSourceWithIP(p.readSource())

	switch p.Cmd.D {
	case 24, 26:
		return p.transferToMQorPN(src)
	case 25:
		return p.transferToID(src)
	case 27:
		return p.transferToTest(src)
	case 28:
		return p.transferToAR(src)
	case 29:
		return p.transferToARPlus(src)
	case 30:
		return p.transferToPNPlus(src)
	default: // 0-23: ordinary lines
		return p.transferToOrdinary(src)
	}
}

// transferToOrdinary implements D=0..23 (spec.md §4.D "Destination-specific
// transfers"): via-AR applies only when CS is set (which already implies
// S is a low-numbered line).
func (p *Processor) transferToOrdinary(src word.Word) error {
	if p.Cmd.CS() {
		newAR := p.transform(src)
		old := p.Drum.AR()
		p.Drum.SetAR(newAR)
		return p.Drum.Write(int(p.Cmd.D), old)
	}
	return p.Drum.Write(int(p.Cmd.D), p.transform(src))
}

// transferToMQorPN implements D=24 (MQ) and D=26 (PN) (spec.md §4.D).
func (p *Processor) transferToMQorPN(src word.Word) error {
	dest := p.Cmd.D

	if p.Cmd.C != 0 {
		if p.Cmd.CS() {
			newAR := p.transform(src)
			old := p.Drum.AR()
			p.Drum.SetAR(newAR)
			return p.Drum.Write(int(dest), old)
		}
		return p.Drum.Write(int(dest), p.transform(src))
	}

	// C == 0 (TR), the register-source special cases.
	if dest == 26 && p.Cmd.S == 26 {
		// PN -> PN: complement cycle (spec.md §4.D).
		if p.Drum.CE() {
			signed := word.Make(p.Drum.Flags.IP, src.Magnitude())
			c := word.ComplementSingle(signed)
			p.dpCarry = c.DPCarry
			p.dpSign = signed.Sign()
			return p.Drum.Write(26, c.Word)
		}
		out := word.ComplementDoubleOdd(src, p.dpSign, p.dpCarry)
		return p.Drum.Write(26, out)
	}

	if isRegisterLine(p.Cmd.S) {
		val := src
		if p.Drum.CE() {
			val = word.Make(p.Drum.Flags.IP, src.Magnitude())
		}
		return p.Drum.Write(int(dest), val)
	}

	// Non-register source: toggle IP when the even-word sign bit is 1.
	if p.Drum.CE() && src.Sign() {
		p.Drum.Flags.IP = !p.Drum.Flags.IP
	}
	return p.Drum.Write(int(dest), src)
}

// transferToID implements D=25: write ID, clear the corresponding half of
// PN, capture the stored sign into IP (spec.md §4.D).
func (p *Processor) transferToID(src word.Word) error {
	val := p.transform(src)
	if err := p.Drum.Write(25, val); err != nil {
		return err
	}
	p.Drum.SetPN(int(p.Drum.L2()), 0)
	p.Drum.Flags.IP = val.Sign()
	return nil
}

// transferToTest implements D=27: drive CQ from the late bus, which must
// detect a bit-pattern -0 as non-zero (spec.md §4.D).
func (p *Processor) transferToTest(src word.Word) error {
	val := p.transform(src)
	if val != 0 {
		p.Drum.Flags.CQ = true
	}
	return nil
}

// transferToAR implements D=28: CS is never honored, and every step adds
// to a zero augend with minus-zero suppression (spec.md §4.D).
func (p *Processor) transferToAR(src word.Word) error {
	val := p.transform(src)
	suppress := p.Cmd.C == 1 || p.Cmd.C == 3
	res := word.AddSingle(word.Make(false, 0), val, suppress)
	p.Drum.SetAR(res.Sum)
	return nil
}

// transferToARPlus implements D=29: addition to AR, latching FO on
// overflow (spec.md §4.D).
func (p *Processor) transferToARPlus(src word.Word) error {
	val := p.transform(src)
	suppress := p.Cmd.C == 1 || p.Cmd.C == 3
	res := word.AddSingle(p.Drum.AR(), val, suppress)
	p.Drum.SetAR(res.Sum)
	if res.Overflow {
		p.Drum.Flags.FO = true
	}
	return nil
}

// transferToPNPlus implements D=30: the DP even/odd add primitives drive
// an accumulation into PN (spec.md §4.D).
func (p *Processor) transferToPNPlus(src word.Word) error {
	val := p.transform(src)
	if p.Drum.CE() {
		even := word.AddDoubleEven(p.Drum.PN(0), val)
		p.dpEven = even
		p.Drum.SetPN(0, word.Make(p.Drum.PN(0).Sign(), even.Sum))
		return nil
	}
	odd := word.AddDoubleOdd(p.Drum.PN(1), val, p.dpEven)
	p.Drum.SetPN(1, word.Make(odd.Sign, odd.Sum))
	p.Drum.SetPN0T1(odd.Sign)
	if odd.Overflow {
		p.Drum.Flags.FO = true
	}
	return nil
}

