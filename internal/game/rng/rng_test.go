package rng

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashString(t *testing.T) {
	assert.Equal(t, uint32(440920331), HashString("abc"))
	assert.Equal(t, uint32(2166136261), HashString(""))
	assert.Equal(t, uint32(3597787782), HashString("seed-1"))
}

func TestHashSeedTruncates(t *testing.T) {
	assert.Equal(t, uint32(42), HashSeed(42))
	assert.Equal(t, uint32(4294967295), HashSeed(-1))
	assert.Equal(t, uint32(1), HashSeed(1<<32+1))
}

func TestDeriveSeed(t *testing.T) {
	assert.Equal(t, uint32(2679938182), DeriveSeed(12345, 0))
	assert.Equal(t, uint32(4167466954), DeriveSeed(12345, 1))
	assert.Equal(t, uint32(301794027), DeriveSeed(0, 0))
	assert.Equal(t, uint32(3610910960), DeriveSeed(4294967295, 7))
}

func TestSourceGoldenSequence(t *testing.T) {
	cases := []struct {
		seed uint32
		want []float64
	}{
		{1, []float64{0.6270739405881613, 0.002735721180215478, 0.5274470399599522, 0.9810509674716741, 0.9683778982143849}},
		{42, []float64{0.6011037519201636, 0.44829055899754167, 0.8524657934904099, 0.6697340414393693, 0.17481389874592423}},
		{0, []float64{0.0003297457005828619, 0.2232720274478197, 0.1462021479383111, 0.46732782293111086, 0.5450490827206522}},
	}

	for _, tc := range cases {
		src := New(tc.seed)
		for i, want := range tc.want {
			assert.Equal(t, want, src.Next(), "seed %d draw %d", tc.seed, i)
		}
	}
}

func TestZeroSeedMatchesReplacementConstant(t *testing.T) {
	a := New(0)
	b := New(zeroStateSeed)
	for i := 0; i < 16; i++ {
		require.Equal(t, b.Next(), a.Next())
	}
}

func TestIntDiceSequence(t *testing.T) {
	src := New(42)
	got := make([]int, 10)
	for i := range got {
		got[i] = src.Int(1, 20)
	}
	assert.Equal(t, []int{13, 9, 18, 14, 4, 11, 6, 13, 18, 10}, got)
}

func TestIntStaysInRange(t *testing.T) {
	src := New(HashString("range"))
	for i := 0; i < 5000; i++ {
		v := src.Int(-3, 3)
		require.GreaterOrEqual(t, v, -3)
		require.LessOrEqual(t, v, 3)
	}
	assert.Equal(t, 5, src.Int(5, 5))
}

func TestIntPanicsOnInvertedRange(t *testing.T) {
	assert.Panics(t, func() { New(1).Int(2, 1) })
}

func TestShuffleGolden(t *testing.T) {
	items := []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}
	Shuffle(New(7), items)
	assert.Equal(t, []int{6, 5, 8, 1, 2, 3, 4, 7, 9, 0}, items)
}

func TestSameSeedSameStream(t *testing.T) {
	a := New(DeriveSeed(99, 3))
	b := New(DeriveSeed(99, 3))
	itemsA := []string{"a", "b", "c", "d", "e"}
	itemsB := []string{"a", "b", "c", "d", "e"}
	Shuffle(a, itemsA)
	Shuffle(b, itemsB)
	assert.Equal(t, itemsA, itemsB)

	pickA, okA := Pick(a, itemsA)
	pickB, okB := Pick(b, itemsB)
	assert.True(t, okA)
	assert.True(t, okB)
	assert.Equal(t, pickA, pickB)
}

func TestPickEmpty(t *testing.T) {
	_, ok := Pick[int](New(1), nil)
	assert.False(t, ok)
}
