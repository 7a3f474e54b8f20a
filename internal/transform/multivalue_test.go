package transform

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCodeSet(t *testing.T) {
	known := []string{"C", "I", "J", "N"}

	set := ParseCodeSet("CJ", known)
	assert.True(t, set.Has("C"))
	assert.False(t, set.Has("I"))
	assert.True(t, set.Has("J"))
	assert.False(t, set.Has("N"))

	assert.True(t, ParseCodeSet("", known).Empty())
	assert.True(t, ParseCodeSet(" ", known).Empty())

	// Codes outside the known list never enter the set.
	set = ParseCodeSet("CX", known)
	assert.True(t, set.Has("C"))
	assert.False(t, set.Has("X"))
}

func TestParseCodeSetContradictionsPreserved(t *testing.T) {
	// "AZ" means both "alcohol involved" and "no substance involved" in the
	// source data. The contradiction is kept, not corrected.
	known := []string{"A", "D", "Z"}
	set := ParseCodeSet("AZ", known)
	assert.True(t, set.Has("A"))
	assert.True(t, set.Has("Z"))
	assert.False(t, set.Has("D"))
}
