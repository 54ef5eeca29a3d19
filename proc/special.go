package proc

import "github.com/lookbusy1344/g15emu/word"

// isLoopingSpecial reports the S values that manage their own word-time
// advancement (MUL/DIV/SHIFT/NORM iterate T times internally); every
// other D=31 command takes a fixed, small number of word-times and is
// paced here.
func isLoopingSpecial(s uint8) bool {
	return s == 24 || s == 25 || s == 26 || s == 27
}

// special implements the D=31 family, dispatched on S (spec.md §4.D
// "D=31 special commands"). S values outside the table below are I/O
// commands and are handed to the I/O unit (spec.md §4.E).
func (p *Processor) special() error {
	d := p.Drum

	if !isLoopingSpecial(p.Cmd.S) && p.Cmd.DI {
		p.Clock.WaitUntil(p.Cmd.T)
	}

	var err error
	switch p.Cmd.S {
	case 16: // HALT
		d.Flags.CH = true
	case 17: // ring bell
		if p.Bell != nil {
			p.Bell()
		}
	case 18: // M20 AND ID -> OR
		d.OR = d.Read(20) & d.ID(int(d.L2())) & word.WordMask
	case 19: // DA-1 start/stop, stubbed
	case 20: // select-command-line & return-exit
		p.returnExit()
	case 21: // select-command-line & mark-exit
		err = p.markExit()
	case 22: // CQ := AR sign
		d.Flags.CQ = d.AR().Sign()
	case 23: // clear (C=0) or PN.M2 shuffle (C=3)
		p.clearOrShuffle()
	case 24:
		err = p.mul()
	case 25:
		err = p.div()
	case 26:
		err = p.shift()
	case 27:
		err = p.normalize()
	case 28: // test ready signals -> CQ
		p.testReady()
	case 29: // test FO
		d.Flags.CQ = d.Flags.FO
		d.Flags.FO = false
	case 30: // mag-tape file-code, stubbed
	case 31: // odds-and-sods
		err = p.oddsAndSods()
	case 0: // I/O cancel
		p.Clock.CancelIO()
	default:
		if p.IO != nil {
			err = p.IO.Dispatch(p.Cmd)
		}
	}
	if err != nil {
		return err
	}
	if !isLoopingSpecial(p.Cmd.S) {
		p.Clock.WaitFor(1)
	}
	return nil
}

// clearOrShuffle implements S=23: C=0 clears MQ/ID/PN and IP; C=3 moves
// PN's odd word into ID and PN's even word into PN's odd word (spec.md
// §4.D "D=31 special commands").
func (p *Processor) clearOrShuffle() {
	d := p.Drum
	switch p.Cmd.C {
	case 0:
		d.SetMQ(0, 0)
		d.SetMQ(1, 0)
		d.SetID(0, 0)
		d.SetID(1, 0)
		d.SetPN(0, 0)
		d.SetPN(1, 0)
		d.Flags.IP = false
	case 3:
		d.SetID(int(d.L2()), d.PN(1))
		d.SetPN(1, d.PN(0))
	}
}

// testReady implements S=28 (spec.md §4.D).
func (p *Processor) testReady() {
	d := p.Drum
	switch p.Cmd.C {
	case 0:
		d.Flags.CQ = p.IO == nil || !p.IO.Busy()
	case 1, 2:
		d.Flags.CQ = true // IR/OR readiness, stubbed
	default: // 3: DA always off
		d.Flags.CQ = true
	}
}

// oddsAndSods implements S=31 (spec.md §4.D).
func (p *Processor) oddsAndSods() error {
	d := p.Drum
	switch p.Cmd.C {
	case 0:
		d.Flags.CG = true
	case 1:
		if err := d.Write(18, d.Read(18)|d.ReadCN()); err != nil {
			return err
		}
	case 2:
		if err := d.Write(18, d.Read(18)|d.Read(20)); err != nil {
			return err
		}
	}
	return nil
}

// computeSwitchBP reads the panel's compute switch, defaulting to off
// when no panel is wired.
func (p *Processor) computeSwitchBP() bool {
	if p.ComputeSwitchBP == nil {
		return false
	}
	return p.ComputeSwitchBP()
}

// returnExit implements the S=20 rule verbatim (spec.md §4.D
// "Return-exit rule"): loc=L, n=N, t=T+DI, m=CM bits 1-13, all compared
// forward from loc.
func (p *Processor) returnExit() {
	d := p.Drum
	loc := d.L
	n := p.Cmd.N
	t := p.Cmd.T
	if p.Cmd.DI {
		t++
	}
	m := p.Cmd.MarkField()

	fwd := func(x uint8) uint8 { return uint8((int(x) - int(loc) + 108) % 108) }
	fn, ft, fm := fwd(n), fwd(t), fwd(m)

	if (p.computeSwitchBP() && p.Cmd.BP) || !d.Flags.CZ {
		p.Cmd.N = m
		return
	}
	if ft == fn || (ft <= fn && fn <= fm) {
		return // keep N == n
	}
	p.Cmd.N = m
}

// markExit implements S=21: embed a mark into CM bits 1-13, taking
// exactly one word-time regardless of precision/immediacy, advancing to
// T first when deferred (spec.md §4.D "Mark-exit rule"). The mark is
// written back into the command word at its source line via EmbedMark,
// the same field a later S=20 return-exit reads through MarkField;
// p.Cmd.N is updated separately so this processor's own next fetch also
// goes to the mark.
func (p *Processor) markExit() error {
	d := p.Drum
	var mark uint8
	if !p.Cmd.DI {
		mark = d.L
	} else {
		mark = p.Cmd.T % 108
	}
	raw := p.Cmd.EmbedMark(mark)
	p.Cmd.N = mark
	return d.Write(cdLines[p.CD], raw)
}
