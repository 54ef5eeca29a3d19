package proc

import (
	"github.com/lookbusy1344/g15emu/coreerr"
	"github.com/lookbusy1344/g15emu/drum"
	"github.com/lookbusy1344/g15emu/word"
)

// mul implements S=24 (spec.md §4.D "MUL"): T counts shift+add
// iterations times two, alternating an even half-step (shift ID right,
// shift MQ left, conditionally add ID to PN's even half) with an odd
// half-step doing the matching odd-half work, gated on the partial
// product bit captured at the even step.
func (p *Processor) mul() error {
	d := p.Drum
	if p.Cmd.DI {
		return coreerr.NewUsageWarning("MUL", "must be immediate")
	}
	if !d.CE() {
		return coreerr.NewUsageWarning("MUL", "must start on an even word")
	}

	var pm bool
	var idCarry, mqCarry bool
	iterations := int(p.Cmd.T) / 2
	for i := 0; i < iterations; i++ {
		if p.Clock.Stopped() {
			return nil
		}

		// even half-step
		pm = d.GetMQ1T29()
		id0, idOut := drum.ShiftRightIn(d.ID(0), idCarry)
		d.SetID(0, id0)
		idCarry = idOut
		mq0, mqOut := drum.ShiftLeftIn(d.MQ(0), mqCarry)
		d.SetMQ(0, mq0)
		mqCarry = mqOut
		if pm {
			even := word.AddDoubleEven(d.PN(0), d.ID(0))
			p.dpEven = even
			d.SetPN(0, word.Make(d.PN(0).Sign(), even.Sum))
		}
		p.Clock.WaitFor(1)

		// odd half-step
		id1, idOut1 := drum.ShiftRightIn(d.ID(1), idCarry)
		d.SetID(1, id1)
		idCarry = idOut1
		mq1, mqOut1 := drum.ShiftLeftIn(d.MQ(1), mqCarry)
		d.SetMQ(1, mq1)
		mqCarry = mqOut1
		if pm {
			odd := word.AddDoubleOdd(d.PN(1), d.ID(1), p.dpEven)
			d.SetPN(1, word.Make(odd.Sign, odd.Sum))
			d.SetPN0T1(odd.Sign)
		}
		p.Clock.WaitFor(1)
	}
	return nil
}

// div implements S=25 (spec.md §4.D "DIV"): non-restoring division with
// Princeton rounding. Must be immediate and start on an even word.
func (p *Processor) div() error {
	d := p.Drum
	if p.Cmd.DI {
		return coreerr.NewUsageWarning("DIV", "must be immediate")
	}
	if !d.CE() {
		return coreerr.NewUsageWarning("DIV", "must start on an even word")
	}

	qBit := false
	var mqShiftCarry bool
	iterations := int(p.Cmd.T) / 2
	for i := 0; i < iterations; i++ {
		if p.Clock.Stopped() {
			return nil
		}

		// even half-step
		d.SetMQ0T2(qBit)
		mq0, _ := drum.ShiftLeftIn(d.MQ(0), false)
		d.SetMQ(0, mq0)

		rSignEven := d.PN(0).Sign()
		idSignedEven := word.Make(!rSignEven, d.ID(0).Magnitude())
		cEven := word.ComplementSingle(idSignedEven)
		p.dpCarry = cEven.DPCarry
		p.dpSign = idSignedEven.Sign()

		even := word.AddDoubleEven(d.PN(0), cEven.Word)
		p.dpEven = even
		pn0, pn0carry := drum.ShiftLeftIn(word.Make(d.PN(0).Sign(), even.Sum), false)
		d.SetPN(0, pn0)
		evenShiftCarry := pn0carry
		p.Clock.WaitFor(1)

		// odd half-step
		idOdd := word.ComplementDoubleOdd(d.ID(1), p.dpSign, p.dpCarry)
		odd := word.AddDoubleOdd(d.PN(1), idOdd, p.dpEven)
		rSign := odd.Sign
		pn1, pn1carry := drum.ShiftLeftIn(word.Make(odd.Sign, odd.Sum), evenShiftCarry)
		d.SetPN(1, pn1)
		d.SetPN0T1(pn1.Sign())
		mqShiftCarry = pn1carry
		qBit = !rSign
		p.Clock.WaitFor(1)
	}
	if mqShiftCarry {
		d.Flags.FO = true
	}
	d.SetMQ0T2(true)
	return nil
}

// shift implements S=26 (spec.md §4.D "Shift & Normalize"): T
// half-steps of "ID right, MQ left"; under C=0, AR increments every
// full (even+odd) pair and the loop ends early on AR wraparound.
func (p *Processor) shift() error {
	d := p.Drum
	countAR := p.Cmd.C == 0
	var idCarry, mqCarry bool
	for i := uint8(0); i < p.Cmd.T; i++ {
		if p.Clock.Stopped() {
			return nil
		}
		half := d.L2()
		id, idOut := drum.ShiftRightIn(d.ID(int(half)), idCarry)
		d.SetID(int(half), id)
		idCarry = idOut
		mq, mqOut := drum.ShiftLeftIn(d.MQ(int(half)), mqCarry)
		d.SetMQ(int(half), mq)
		mqCarry = mqOut

		if countAR && half == 1 {
			ar := d.AR()
			next := word.Make(ar.Sign(), ar.Magnitude()+1)
			if ar.Magnitude() == 0x0FFFFFFF {
				d.SetAR(word.Make(ar.Sign(), 0))
				p.Clock.WaitFor(1)
				return nil
			}
			d.SetAR(next)
		}
		p.Clock.WaitFor(1)
	}
	return nil
}

// normalize implements S=27 (spec.md §4.D "Shift & Normalize"): shift
// MQ left until MQ:1 T29 is 1 or T is exhausted; under C=0, AR
// increments every full pair.
func (p *Processor) normalize() error {
	d := p.Drum
	countAR := p.Cmd.C == 0
	var mqCarry bool
	for i := uint8(0); i < p.Cmd.T; i++ {
		if p.Clock.Stopped() || d.GetMQ1T29() {
			return nil
		}
		half := d.L2()
		mq, mqOut := drum.ShiftLeftIn(d.MQ(int(half)), mqCarry)
		d.SetMQ(int(half), mq)
		mqCarry = mqOut

		if countAR && half == 1 {
			ar := d.AR()
			d.SetAR(word.Make(ar.Sign(), ar.Magnitude()+1))
		}
		p.Clock.WaitFor(1)
	}
	return nil
}
