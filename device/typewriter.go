package device

import "bufio"

// outputGlyphs renders each 5-bit data code (0x10-0x19 digits, 0x1A-0x1F
// letters) the way the console typewriter would print it; control codes
// are handled by the caller before a byte ever reaches Write.
var outputGlyphs = "0123456789uvwxyz"

// Typewriter is a console-backed device used for type-AR, type-19 and
// type-in (spec.md §4.E "I/O operations"). Reads come from an input
// scanner one code at a time (fed by the host reading operator
// keystrokes); writes render to an output stream.
type Typewriter struct {
	in   *bufio.Scanner
	out  *bufio.Writer
	done bool
}

// NewTypewriter wraps in/out. Use bufio.NewScanner(os.Stdin) and
// bufio.NewWriter(os.Stdout) for an interactive console. The input
// scanner is switched to word splitting, so each whitespace-delimited
// token is one code.
func NewTypewriter(in *bufio.Scanner, out *bufio.Writer) *Typewriter {
	if in != nil {
		in.Split(bufio.ScanWords)
	}
	return &Typewriter{in: in, out: out}
}

// Read implements Device: each call pulls the next whitespace-delimited
// token the host scanner produced and maps it through the ASCII tape
// table, falling back to STOP on EOF.
func (t *Typewriter) Read() (byte, bool) {
	if t.done || t.in == nil {
		return 0, false
	}
	if !t.in.Scan() {
		return stopCode, true
	}
	tok := t.in.Text()
	if tok == "" {
		return 0, true // SPACE
	}
	code, ok := asciiCodeTable[tok[0]]
	if !ok {
		return 0, true
	}
	return code, true
}

// Write implements Device: renders a data code as a glyph, ignoring
// control codes the caller hasn't already special-cased.
func (t *Typewriter) Write(code byte) bool {
	if t.done || t.out == nil {
		return false
	}
	if code >= 0x10 && int(code-0x10) < len(outputGlyphs) {
		t.out.WriteByte(outputGlyphs[code-0x10])
	}
	t.out.Flush()
	return true
}

// Cancel implements Device.
func (t *Typewriter) Cancel() { t.done = true }
