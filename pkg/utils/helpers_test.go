package utils

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHaversine(t *testing.T) {
	assert.InDelta(t, 0, Haversine(22.5818, 88.4819, 22.5818, 88.4819), 1e-9)

	// Aristocrat Hotel marker to the Biswa Bangla Gate marker, roughly 0.75 km.
	d := Haversine(22.5818, 88.4819, 22.5790, 88.4750)
	assert.InDelta(t, 0.77, d, 0.05)
	assert.InDelta(t, d, Haversine(22.5790, 88.4750, 22.5818, 88.4819), 1e-9)
}

func TestClampAndRound(t *testing.T) {
	assert.Equal(t, 0.0, Clamp(-3, 0, 10))
	assert.Equal(t, 10.0, Clamp(12, 0, 10))
	assert.Equal(t, 4.5, Clamp(4.5, 0, 10))

	assert.Equal(t, 27.4, RoundTo(27.4449, 1))
	assert.Equal(t, 312.46, RoundTo(312.456, 2))
}

func TestRandomRanges(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	for i := 0; i < 1000; i++ {
		n := IntBetween(r, -10, 15)
		assert.GreaterOrEqual(t, n, -10)
		assert.Less(t, n, 15)

		f := FloatBetween(r, 24, 36)
		assert.GreaterOrEqual(t, f, 24.0)
		assert.Less(t, f, 36.0)
	}
	assert.Equal(t, 5, IntBetween(r, 5, 5))
}
