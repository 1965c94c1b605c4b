package goqnet

import (
	"math/bits"
	"strconv"

	"github.com/pkg/errors"
)

// Bit operations use the LSB convention: qubit k is bit k of a gate mask.
//
//	q0 ----
//	q1 ----
//	q2 ----
//
// gate (q0,q1)=3, (q0,q2)=5, (q1,q2)=6

// BitAt returns the k-th bit of num (0 or 1).
func BitAt(num uint32, k int) uint32 {
	return (num >> uint(k)) & 1
}

// SwapBits exchanges bit p1 and bit p2 of num.  If both bits are equal, num is returned unchanged.
func SwapBits(num uint32, p1, p2 int) uint32 {
	xor := BitAt(num, p1) ^ BitAt(num, p2)

	// mask is 00xor000xor00 with xor placed at p1 and p2
	mask := (xor << uint(p1)) | (xor << uint(p2))
	return num ^ mask
}

// PositionsOfOnes returns the positions of the set bits of num, ascending.
//
// Example: 6 = 0b110 yields (1,2)
func PositionsOfOnes(num uint32) []int {
	poss := make([]int, 0, bits.OnesCount32(num))
	for num != 0 {
		k := bits.TrailingZeros32(num)
		poss = append(poss, k)
		num &^= 1 << uint(k)
	}
	return poss
}

// FromPositions is the inverse of PositionsOfOnes.
func FromPositions(positions ...int) uint32 {
	num := uint32(0)
	for _, k := range positions {
		num |= 1 << uint(k)
	}
	return num
}

// ApplyPermutation remaps each set bit k of num to bit perm[k].
func ApplyPermutation(num uint32, perm []int) uint32 {
	out := uint32(0)
	for num != 0 {
		k := bits.TrailingZeros32(num)
		num &^= 1 << uint(k)
		out |= 1 << uint(perm[k])
	}
	return out
}

// Gate is a two-qubit gate: an unordered pair of qubit indices encoded as a bit mask with exactly two bits set.
type Gate uint32

// GateOf returns the gate acting on qubits i and j.  The caller guarantees i != j; use PairGate for untrusted input.
func GateOf(i, j int) Gate {
	return Gate(FromPositions(i, j))
}

// PairGate returns the gate acting on qubits i and j of a register of nqubit qubits (MaxQubits if nqubit is 0).
func PairGate(i, j, nqubit int) (Gate, error) {
	limit := nqubit
	if limit <= 0 || limit > MaxQubits {
		limit = MaxQubits
	}
	if i == j || i < 0 || j < 0 || i >= limit || j >= limit {
		return 0, errors.Wrapf(ErrInvalidGate, "qubit pair %d-%d", i, j)
	}
	return GateOf(i, j), nil
}

// NewGate checks that mask encodes a gate on a register of nqubit qubits.
// An nqubit of 0 only checks the two-bit invariant.
func NewGate(mask int64, nqubit int) (Gate, error) {
	if mask <= 0 || mask > int64(^uint32(0)) {
		return 0, ErrInvalidGate
	}
	g := Gate(mask)
	if err := g.Validate(nqubit); err != nil {
		return 0, err
	}
	return g, nil
}

// Validate returns ErrInvalidGate if g is not a two-bit mask within the first nqubit bits (or MaxQubits if nqubit is 0).
func (g Gate) Validate(nqubit int) error {
	if bits.OnesCount32(uint32(g)) != 2 {
		return ErrInvalidGate
	}
	limit := nqubit
	if limit <= 0 || limit > MaxQubits {
		limit = MaxQubits
	}
	if bits.Len32(uint32(g)) > limit {
		return ErrInvalidGate
	}
	return nil
}

// Qubits returns the two qubit positions of g, lo < hi.
func (g Gate) Qubits() (lo, hi int) {
	lo = bits.TrailingZeros32(uint32(g))
	hi = bits.Len32(uint32(g)) - 1
	return
}

// Swap returns g with qubit positions p1 and p2 exchanged.
func (g Gate) Swap(p1, p2 int) Gate {
	return Gate(SwapBits(uint32(g), p1, p2))
}

// Permute relabels the qubits of g: qubit k becomes perm[k].
func (g Gate) Permute(perm []int) Gate {
	return Gate(ApplyPermutation(uint32(g), perm))
}

func (g Gate) String() string {
	return strconv.FormatUint(uint64(g), 10)
}

// AllGates returns every two-qubit gate on nqubit qubits in ascending mask order.
func AllGates(nqubit int) []Gate {
	if nqubit < 2 {
		return nil
	}
	gates := make([]Gate, 0, nqubit*(nqubit-1)/2)
	for hi := 1; hi < nqubit; hi++ {
		for lo := 0; lo < hi; lo++ {
			gates = append(gates, GateOf(lo, hi))
		}
	}
	return gates
}
