package iounit

import "github.com/lookbusy1344/g15emu/device"

// decodeInputCode implements spec.md §4.E "Input decode" for one
// incoming 5-bit code: data codes precess into line 23; control codes
// drive OS/reload/auto-reload as the table describes. It returns
// reload=true when a RELOAD (or an auto-reload-triggering STOP/full
// marker) should run.
func (u *Unit) decodeInputCode(code byte) (reload bool) {
	d := u.Drum
	if isDataCode(code) {
		marker := ioPrecessCodeToLine(d, u.Clock, code&0x0F, 4, 23)
		if d.Flags.AS && marker != 0 {
			return true
		}
		return false
	}
	switch code & 0x07 {
	case InSpace, InPeriod:
		// ignored
	case InMinus:
		d.Flags.OS = true
	case InCR, InTab:
		ioPrecessCodeToLine(d, u.Clock, boolToBit(d.Flags.OS), 1, 23)
		d.Flags.OS = false
	case InStop:
		return true
	case InReload:
		return true
	case InWait:
		ioPrecessCodeToLine(d, u.Clock, 0, 4, 23)
	}
	return false
}

func boolToBit(b bool) byte {
	if b {
		return 1
	}
	return 0
}

// runReload implements the RELOAD action: copy line 23 into MZ, kick
// off the MZ<->line19 exchange, and, when auto-reload (AS) is set, zero
// line 23's four words for the next block (spec.md §4.E "Input decode").
func (u *Unit) runReload() {
	ioPrecessLongLineToMZ(u.Drum, u.Clock, 23, 4)
	ioPrecessMZToLine19(u.Drum, u.Clock)
	if u.Drum.Flags.AS {
		for i := 0; i < 4; i++ {
			if u.Clock.IOCanceled() {
				return
			}
			u.Drum.Write(23, 0)
			u.Clock.IOWaitFor(1)
		}
	}
}

// readLoop pulls codes from dev one at a time, decoding each through the
// input table (a RELOAD runs the reload and keeps reading), until a STOP
// ends the block or the device hangs or I/O is canceled. It's shared by type-in and paper-tape-read.
func (u *Unit) readLoop(dev device.Device) (hung bool, err error) {
	if dev == nil {
		return true, nil
	}
	for {
		if u.Clock.IOCanceled() {
			return false, nil
		}
		code, ok := dev.Read()
		if !ok {
			return true, nil
		}
		reload := u.decodeInputCode(code)
		u.Clock.IOWaitFor(2)
		if reload {
			u.runReload()
		}
		if code == InStop && !isDataCode(code) {
			return false, nil
		}
	}
}

func (u *Unit) typeIn(dev device.Device) (bool, error)   { return u.readLoop(dev) }
func (u *Unit) tapeRead(dev device.Device) (bool, error) { return u.readLoop(dev) }

// writeLoop drains MZ one format-coded word at a time to dev, following
// spec.md §4.E "Output encode", until an OutStop or device/cancel
// condition ends the block.
func (u *Unit) writeLoop(dev device.Device) (hung bool, err error) {
	if dev == nil {
		return true, nil
	}
	d := u.Drum
	for {
		if u.Clock.IOCanceled() {
			return false, nil
		}
		mzWord := d.MZ(0)
		fmtCode := byte((uint32(mzWord) >> 26) & 0x7)
		switch fmtCode {
		case OutDigit:
			code, empty := ioPrecessARToCode(d, u.Clock, 4)
			if empty {
				code = InStop | dataBit
			}
			if !dev.Write(code | dataBit) {
				return true, nil
			}
		case OutStop:
			dev.Write(InStop)
			u.Clock.IOWaitFor(2)
			return false, nil
		case OutCR, OutTab:
			dev.Write(InCR)
		case OutPeriod:
			dev.Write(InPeriod)
		case OutSign:
			if d.Flags.OS {
				dev.Write(InMinus)
			} else {
				dev.Write(InSpace)
			}
		case OutReload:
			u.runReload()
		case OutWait:
			// discard 4 bits: nothing to write
		}
		u.Clock.IOWaitFor(4)
		ioPrecessMZToLine19(d, u.Clock)
	}
}

func (u *Unit) type19(dev device.Device) (bool, error)  { return u.writeLoop(dev) }
func (u *Unit) punch19(dev device.Device) (bool, error) { return u.writeLoop(dev) }

// typeAR types out AR's contents as seven 4-bit codes, then a STOP
// (spec.md §4.E "I/O operations": "type-AR").
func (u *Unit) typeAR(dev device.Device) (bool, error) {
	if dev == nil {
		return true, nil
	}
	d := u.Drum
	for i := 0; i < 7; i++ {
		if u.Clock.IOCanceled() {
			return false, nil
		}
		code, _ := ioPrecessARToCode(d, u.Clock, 4)
		if !dev.Write(code | dataBit) {
			return true, nil
		}
		u.Clock.IOWaitFor(2)
	}
	dev.Write(InStop)
	return false, nil
}

// tapeReverse implements the two paper-tape-reverse phases: phase 1
// backs the reader up one block; phase 2 re-primes line 19 from the
// now-current block (spec.md §4.E "I/O operations").
func (u *Unit) tapeReverse(dev device.Device, phase int) (bool, error) {
	rev, ok := dev.(device.ReversibleDevice)
	if !ok {
		return true, nil
	}
	switch phase {
	case 1:
		if hung := rev.ReverseBlock(); hung {
			return true, nil
		}
	case 2:
		u.runReload()
	}
	u.Clock.IOWaitFor(4)
	return false, nil
}
