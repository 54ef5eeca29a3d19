package coreerr

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewInvariantFormatsMessage(t *testing.T) {
	err := NewInvariant("Fetch", "L=%d out of range", 200)
	assert.EqualError(t, err, "invariant violation in Fetch: L=200 out of range")
	assert.True(t, IsInvariant(err))
	assert.False(t, IsUsageWarning(err))
}

func TestNewUsageWarningFormatsMessage(t *testing.T) {
	err := NewUsageWarning("MUL", "must start on an even word")
	assert.EqualError(t, err, "MUL: must start on an even word")
	assert.True(t, IsUsageWarning(err))
	assert.False(t, IsInvariant(err))
}

func TestIsInvariantRejectsOtherErrorTypes(t *testing.T) {
	assert.False(t, IsInvariant(NewUsageWarning("op", "msg")))
	assert.False(t, IsUsageWarning(NewInvariant("op", "msg")))
}
