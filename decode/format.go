package decode

import "fmt"

var characteristicNames = [4]string{"TR", "AD", "AV", "SU"}

// lineName renders a line number the way the G-15 manuals and the
// original bootstrap listings do: numeric for ordinary lines, mnemonic
// for the registers and synthesized sources.
func lineName(line uint8) string {
	switch line {
	case 24:
		return "MQ"
	case 25:
		return "ID"
	case 26:
		return "PN"
	case 27:
		return "TEST"
	case 28:
		return "AR"
	case 29, 30, 31:
		return fmt.Sprintf("L%d", line)
	default:
		return fmt.Sprintf("%d", line)
	}
}

// Characteristic returns the mnemonic for c's characteristic field,
// accounting for the CS-dependent TVA/AVA vs AV/SU split (spec.md §4.D
// "Characteristic semantics").
func (c Command) Characteristic() string {
	switch c.C {
	case 2:
		if c.CS() {
			return "TVA"
		}
		return "AV"
	case 3:
		if c.CS() {
			return "AVA"
		}
		return "SU"
	default:
		return characteristicNames[c.C]
	}
}

// String renders a decoded command the way a trace line or disassembly
// listing would, e.g. "SI 6 -> AR T42 N17" for a single-precision
// immediate transfer from line 6 into AR.
func (c Command) String() string {
	prec := "S"
	if c.C1 {
		prec = "D"
	}
	mode := "I"
	if c.DI {
		mode = "X"
	}
	bp := ""
	if c.BP {
		bp = " BP"
	}
	return fmt.Sprintf("%s%s %s -> %s T%d N%d%s",
		prec, mode, lineName(c.S), lineName(c.D), c.T, c.N, bp)
}

// Mnemonic returns the characteristic's mnemonic (TR, AD, TVA/AV,
// AVA/SU) for commands
// whose destination isn't the D=31 special family, and the special
// command's name otherwise (spec.md §4.D "D=31 special commands").
func (c Command) Mnemonic() string {
	if c.D != 31 {
		return c.Characteristic()
	}
	if name, ok := specialMnemonics[c.S]; ok {
		return name
	}
	return "IO"
}

var specialMnemonics = map[uint8]string{
	16: "HLT",
	17: "BEL",
	18: "M20AND",
	19: "DA",
	20: "RTN",
	21: "MRK",
	22: "TSA",
	23: "CLR",
	24: "MUL",
	25: "DIV",
	26: "SHF",
	27: "NRM",
	28: "TRDY",
	29: "TOV",
	30: "MTF",
	31: "ODD",
}
