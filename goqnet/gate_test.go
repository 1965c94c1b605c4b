package goqnet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBitOps(t *testing.T) {
	assert.Equal(t, uint32(1), BitAt(6, 1))
	assert.Equal(t, uint32(0), BitAt(6, 0))

	assert.Equal(t, uint32(5), SwapBits(6, 0, 1))
	assert.Equal(t, uint32(3), SwapBits(3, 0, 1), "equal bits are a no-op")
	assert.Equal(t, uint32(6), SwapBits(5, 0, 1))

	assert.Equal(t, []int{0, 2}, PositionsOfOnes(5))
	assert.Equal(t, []int{1, 2}, PositionsOfOnes(6))
	assert.Equal(t, uint32(5), FromPositions(0, 2))
	assert.Equal(t, uint32(5), FromPositions(2, 0))

	// bit 0 -> 2, bit 1 -> 0, bit 2 -> 1
	perm := []int{2, 0, 1}
	assert.Equal(t, uint32(5), ApplyPermutation(3, perm))
	assert.Equal(t, uint32(3), ApplyPermutation(6, perm))
	assert.Equal(t, uint32(6), ApplyPermutation(5, perm))
}

func TestPositionsRoundTrip(t *testing.T) {
	for _, g := range AllGates(MaxQubits) {
		pos := PositionsOfOnes(uint32(g))
		require.Len(t, pos, 2)
		require.Equal(t, uint32(g), FromPositions(pos...))

		lo, hi := g.Qubits()
		require.Equal(t, pos, []int{lo, hi})
	}
}

func TestGateValidate(t *testing.T) {
	g, err := NewGate(6, 3)
	require.NoError(t, err)
	assert.Equal(t, GateOf(1, 2), g)
	assert.Equal(t, "6", g.String())

	for _, bad := range []int64{0, 1, 4, 7, 9, -3, 1 << 40} {
		_, err := NewGate(bad, 3)
		assert.ErrorIs(t, err, ErrInvalidGate, "mask %d", bad)
	}

	// 9 = (q0,q3) only fits a register of 4 or more
	_, err = NewGate(9, 4)
	assert.NoError(t, err)
	_, err = NewGate(9, 0)
	assert.NoError(t, err)
}

func TestAllGates(t *testing.T) {
	assert.Equal(t, []Gate{3, 5, 6}, AllGates(3))
	assert.Equal(t, []Gate{3, 5, 6, 9, 10, 12}, AllGates(4))
	assert.Len(t, AllGates(5), 10)
	assert.Nil(t, AllGates(1))
}

func TestGateSwapAndPermute(t *testing.T) {
	assert.Equal(t, Gate(5), Gate(6).Swap(0, 1))
	assert.Equal(t, Gate(3), Gate(3).Swap(0, 1))
	assert.Equal(t, Gate(6), Gate(3).Permute([]int{1, 2, 0}))
}
