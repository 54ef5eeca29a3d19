package iounit

// Input control codes (spec.md §4.E "Input decode"): a code with bit 4
// set is a data code whose low 4 bits precess into line 23; otherwise
// the low 3 bits select one of these.
const (
	InSpace  byte = 0
	InMinus  byte = 1
	InCR     byte = 2
	InTab    byte = 3
	InStop   byte = 4
	InReload byte = 5
	InPeriod byte = 6
	InWait   byte = 7

	dataBit byte = 0x10
)

// isDataCode reports whether code carries 4 bits of data rather than a
// control function.
func isDataCode(code byte) bool { return code&dataBit != 0 }

// Output format codes (spec.md §4.E "Output encode"), the 3-bit field
// MZ's selected word carries for each character cycle.
const (
	OutDigit  byte = 0
	OutStop   byte = 1
	OutCR     byte = 2
	OutPeriod byte = 3
	OutSign   byte = 4
	OutReload byte = 5
	OutTab    byte = 6
	OutWait   byte = 7
)
