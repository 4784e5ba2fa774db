package canard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestRoundFrameLengthUpTable(t *testing.T) {
	cases := map[int]int{
		0: 0, 1: 1, 7: 7, 8: 8,
		9: 12, 12: 12,
		13: 16, 16: 16,
		17: 20, 24: 24,
		25: 32, 32: 32,
		33: 48, 48: 48,
		49: 64, 64: 64,
	}
	for in, want := range cases {
		assert.Equal(t, want, roundFrameLengthUp(in), "in=%d", in)
	}
}

func TestIsValidFrameLength(t *testing.T) {
	valid := []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 12, 16, 20, 24, 32, 48, 64}
	for _, n := range valid {
		assert.True(t, IsValidFrameLength(n), "n=%d", n)
	}
	invalid := []int{9, 10, 11, 13, 25, 63, 65}
	for _, n := range invalid {
		assert.False(t, IsValidFrameLength(n), "n=%d", n)
	}
}

func TestRoundFrameLengthUpNeverShrinks(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(0, 64).Draw(rt, "n")
		got := roundFrameLengthUp(n)
		assert.GreaterOrEqual(t, got, n)
		assert.True(t, IsValidFrameLength(got))
	})
}

func TestPresentationLayerMTU(t *testing.T) {
	assert.Equal(t, MTUCANClassic-1, presentationLayerMTU(MTUCANClassic))
	assert.Equal(t, MTUCANFD-1, presentationLayerMTU(MTUCANFD))
	assert.Equal(t, MTUCANClassic-1, presentationLayerMTU(1)) // below classic, coerced up
	assert.Equal(t, MTUCANFD-1, presentationLayerMTU(1000))   // above FD, capped
}
