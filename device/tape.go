package device

import (
	"bufio"
	"fmt"
	"io"
)

// asciiCodeTable maps the ASCII (.pti) character set to 5-bit G-15
// codes (spec.md §6 "Paper-tape image formats").
var asciiCodeTable = map[byte]byte{
	'0': 0x10, '1': 0x11, '2': 0x12, '3': 0x13, '4': 0x14,
	'5': 0x15, '6': 0x16, '7': 0x17, '8': 0x18, '9': 0x19,
	'u': 0x1A, 'v': 0x1B, 'w': 0x1C, 'x': 0x1D, 'y': 0x1E, 'z': 0x1F,
	'-': 0x01, 'C': 0x02, 'T': 0x03, 'S': 0x04, '/': 0x05, '.': 0x06,
	'H': 0x07, ' ': 0x00,
}

// reverseBits5 reverses the low 5 bits of b.
func reverseBits5(b byte) byte {
	var out byte
	for i := 0; i < 5; i++ {
		out <<= 1
		out |= (b >> uint(i)) & 1
	}
	return out
}

// LoadPierce decodes a Pierce-code (.pt) tape image: one 8-bit byte per
// frame laid out "_ _ _ 1 2 3 . 4 5" MSB-to-LSB, channel 5 in bit 0, with
// the low 5 bits bit-reversed before interpretation (spec.md §6).
func LoadPierce(r io.Reader) ([]byte, error) {
	raw, err := io.ReadAll(bufio.NewReader(r))
	if err != nil {
		return nil, fmt.Errorf("device: reading Pierce tape image: %w", err)
	}
	codes := make([]byte, len(raw))
	for i, b := range raw {
		codes[i] = reverseBits5(b & 0x1F)
	}
	return codes, nil
}

// LoadStandard decodes a Standard-code (.ptr) tape image: one byte per
// frame already in G-15 channel order (spec.md §6).
func LoadStandard(r io.Reader) ([]byte, error) {
	raw, err := io.ReadAll(bufio.NewReader(r))
	if err != nil {
		return nil, fmt.Errorf("device: reading standard tape image: %w", err)
	}
	codes := make([]byte, len(raw))
	for i, b := range raw {
		codes[i] = b & 0x1F
	}
	return codes, nil
}

// LoadASCII decodes an ASCII (.pti) tape image: text mapped character by
// character through the fixed table (spec.md §6). Characters outside the
// table are rejected.
func LoadASCII(r io.Reader) ([]byte, error) {
	raw, err := io.ReadAll(bufio.NewReader(r))
	if err != nil {
		return nil, fmt.Errorf("device: reading ASCII tape image: %w", err)
	}
	codes := make([]byte, 0, len(raw))
	for _, b := range raw {
		if b == '\n' || b == '\r' {
			continue
		}
		code, ok := asciiCodeTable[b]
		if !ok {
			return nil, fmt.Errorf("device: ASCII tape image has unmapped character %q", b)
		}
		codes = append(codes, code)
	}
	return codes, nil
}
