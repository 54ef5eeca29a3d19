package decode

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCharacteristicNamesOrdinaryCases(t *testing.T) {
	assert.Equal(t, "TR", Command{C: 0}.Characteristic())
	assert.Equal(t, "AD", Command{C: 1}.Characteristic())
}

func TestCharacteristicSplitsOnCS(t *testing.T) {
	// S and D both under 0x10 so CS() is true for C=2/3.
	withCS := Command{C: 2, S: 1, D: 1}
	assert.Equal(t, "TVA", withCS.Characteristic())

	withoutCS := Command{C: 2, S: 0x10, D: 1}
	assert.Equal(t, "AV", withoutCS.Characteristic())

	assert.Equal(t, "AVA", Command{C: 3, S: 1, D: 1}.Characteristic())
	assert.Equal(t, "SU", Command{C: 3, S: 0x10, D: 1}.Characteristic())
}

func TestStringRendersLineMnemonicsAndFields(t *testing.T) {
	c := Command{C1: false, DI: false, S: 24, D: 28, T: 42, N: 17}
	assert.Equal(t, "SI MQ -> AR T42 N17", c.String())
}

func TestStringRendersDoublePrecisionDeferredAndBP(t *testing.T) {
	c := Command{C1: true, DI: true, BP: true, S: 6, D: 3, T: 5, N: 9}
	assert.Equal(t, "DX 6 -> 3 T5 N9 BP", c.String())
}

func TestMnemonicReturnsCharacteristicForOrdinaryDestination(t *testing.T) {
	c := Command{D: 6, C: 1}
	assert.Equal(t, "AD", c.Mnemonic())
}

func TestMnemonicReturnsSpecialNameForD31(t *testing.T) {
	assert.Equal(t, "HLT", Command{D: 31, S: 16}.Mnemonic())
	assert.Equal(t, "MUL", Command{D: 31, S: 24}.Mnemonic())
}

func TestMnemonicFallsBackToIOForUnnamedD31Source(t *testing.T) {
	assert.Equal(t, "IO", Command{D: 31, S: 7}.Mnemonic())
}
