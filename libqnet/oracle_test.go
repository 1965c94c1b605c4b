package libqnet

import (
	"bytes"
	"testing"

	"github.com/2x3systems/goqnet/goqnet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat/combin"
)

// allSequences returns every gate sequence of the given depth on nqubit qubits, valid or not.
func allSequences(nqubit, depth int) []goqnet.Network {
	gates := goqnet.AllGates(nqubit)
	dims := make([]int, depth)
	for i := range dims {
		dims[i] = len(gates)
	}
	var nets []goqnet.Network
	for _, idx := range combin.Cartesian(dims) {
		net := make(goqnet.Network, depth)
		for i, gi := range idx {
			net[i] = gates[gi]
		}
		nets = append(nets, net)
	}
	return nets
}

func validSequences(nqubit, depth int) []goqnet.Network {
	var nets []goqnet.Network
	for _, net := range allSequences(nqubit, depth) {
		if !net.HasRunExceeding(goqnet.MaxRun) {
			nets = append(nets, net)
		}
	}
	return nets
}

func key(net goqnet.Network) string {
	return string(CanonicalKey(net, nil))
}

func TestCanonicalKeyMatchesOrbit(t *testing.T) {
	for _, tc := range []struct{ nqubit, depth int }{
		{3, 4},
		{4, 3},
	} {
		oracle := NewOracle(tc.nqubit)
		nets := allSequences(tc.nqubit, tc.depth)
		keys := make([]string, len(nets))
		for i, net := range nets {
			keys[i] = key(net)
		}
		for i, a := range nets {
			for j, b := range nets {
				byKey := keys[i] == keys[j]
				require.Equal(t, oracle.IsEquivalentByOrbit(a, b), byKey, "%v vs %v", a, b)
			}
		}
	}
}

func TestCanonicalKeyInvariantUnderRelabeling(t *testing.T) {
	for _, tc := range []struct{ nqubit, depth int }{
		{5, 3},
		{6, 2},
	} {
		perms := NewOracle(tc.nqubit).permutations()
		for _, net := range allSequences(tc.nqubit, tc.depth) {
			k := key(net)
			for _, perm := range perms {
				require.Equal(t, k, key(net.Permuted(perm)), "%v under %v", net, perm)
			}
		}
	}
}

func TestMultigraphAgreesWithKey(t *testing.T) {
	const nqubit = 3
	perms := NewOracle(nqubit).permutations()
	nets := allSequences(nqubit, 4)
	for _, a := range nets {
		mga := NewMultigraph(a, nqubit)
		for _, b := range nets {
			mgb := NewMultigraph(b, nqubit)
			isomorphic := false
			for _, perm := range perms {
				if mga.Relabeled(perm).Equal(mgb) {
					isomorphic = true
					break
				}
			}
			require.Equal(t, isomorphic, IsEquivalent(a, b, nqubit), "%v vs %v", a, b)
		}
	}
}

func TestCanonicalForm(t *testing.T) {
	for _, net := range allSequences(4, 3) {
		form := CanonicalForm(net)
		require.True(t, IsEquivalent(net, form, 4), "%v vs %v", net, form)
		require.Equal(t, form, CanonicalForm(form))
	}

	// First gate always becomes (q0,q1)
	assert.Equal(t, goqnet.Network{3, 5, 3}, CanonicalForm(goqnet.Network{12, 10, 12}))
	assert.Empty(t, CanonicalKey(goqnet.Network{}, nil))

	// Keys append to dst
	prefix := []byte{0xAA}
	k := CanonicalKey(goqnet.Network{3, 6}, prefix)
	assert.True(t, bytes.HasPrefix(k, prefix))
	assert.Len(t, k, 3)
}

func TestIsEquivalent(t *testing.T) {
	assert.True(t, IsEquivalent(goqnet.Network{3, 6, 3}, goqnet.Network{3, 5, 3}, 3))
	assert.True(t, IsEquivalent(goqnet.Network{3, 5, 5}, goqnet.Network{5, 3, 3}, 3))
	assert.False(t, IsEquivalent(goqnet.Network{3, 3, 5}, goqnet.Network{3, 5, 5}, 3))
	assert.False(t, IsEquivalent(goqnet.Network{3, 12}, goqnet.Network{3, 6}, 4))

	assert.Panics(t, func() {
		IsEquivalent(goqnet.Network{3}, goqnet.Network{3, 5}, 3)
	})
}

func TestBitPermutedOrbit(t *testing.T) {
	oracle := NewOracle(3)
	assert.Equal(t, []goqnet.Network{{3}, {5}, {6}}, oracle.Orbit(goqnet.Network{3}))
	assert.Equal(t, []goqnet.Network{{5}, {6}}, oracle.BitPermutedOrbit(goqnet.Network{3}, false))

	// The triangle maps onto each of its 6 edge orderings.
	assert.Len(t, oracle.Orbit(goqnet.Network{3, 5, 6}), 6)

	assert.Len(t, NewOracle(4).Orbit(goqnet.Network{3, 3}), 6)
	assert.Len(t, NewOracle(4).Orbit(goqnet.Network{3, 12}), 6)
}

func TestSwapConjugates(t *testing.T) {
	// positions_of_ones(3) = (0,1), so 6 becomes swap_bits(6,0,1) = 5
	assert.Equal(t, []goqnet.Network{{3, 5, 3}}, SwapConjugates(goqnet.Network{3, 6, 3}))
	assert.Equal(t, []goqnet.Network{{5, 6, 5}}, SwapConjugates(goqnet.Network{5, 3, 5}))

	// Swapping a gate over its own qubits changes nothing.
	assert.Empty(t, SwapConjugates(goqnet.Network{3, 3, 3}))
	assert.Empty(t, SwapConjugates(goqnet.Network{3, 6}))
	assert.Empty(t, SwapConjugates(goqnet.Network{3, 6, 5}))

	assert.Equal(t,
		[]goqnet.Network{{3, 5, 6, 5}, {3, 6, 3, 5}},
		SwapConjugates(goqnet.Network{3, 5, 3, 5}))

	// Disjoint gates commute with the swap.
	assert.Empty(t, SwapConjugates(goqnet.Network{3, 12, 3}))
}

func TestClassClosure(t *testing.T) {
	oracle := NewOracle(3)

	assert.True(t, oracle.IsClassEquivalent(goqnet.Network{3, 6, 3}, goqnet.Network{3, 5, 3}, GenSwapConjugation))

	// Relabel-distinct but related by one swap-conjugation
	a, b := goqnet.Network{3, 5, 3, 5}, goqnet.Network{3, 5, 6, 5}
	require.False(t, oracle.IsEquivalent(a, b))
	assert.True(t, oracle.IsClassEquivalent(a, b, GenSwapConjugation))
	assert.True(t, oracle.IsClassEquivalent(b, a, GenSwapConjugation))
	assert.False(t, oracle.IsClassEquivalent(a, b, GenTimeReversal))

	// (3,3,5) reverses to (5,3,3), a relabeling of (3,5,5)
	c, d := goqnet.Network{3, 3, 5}, goqnet.Network{3, 5, 5}
	assert.False(t, oracle.IsClassEquivalent(c, d, 0))
	assert.False(t, oracle.IsClassEquivalent(c, d, GenSwapConjugation))
	assert.True(t, oracle.IsClassEquivalent(c, d, GenTimeReversal))

	closure := ClassClosure(c, GenTimeReversal)
	assert.ElementsMatch(t, []string{key(c), key(d)}, closure)
	assert.Equal(t, []string{key(c)}, ClassClosure(c, 0))
}

func TestMultigraph(t *testing.T) {
	mg := NewMultigraph(goqnet.Network{3, 6, 3}, 3)
	assert.Equal(t, []int{0, 2}, mg.Labels(0, 1))
	assert.Equal(t, []int{0, 2}, mg.Labels(1, 0))
	assert.Equal(t, []int{1}, mg.Labels(1, 2))
	assert.Empty(t, mg.Labels(0, 2))
	assert.Equal(t, 2, mg.Degree(0))
	assert.Equal(t, 3, mg.Degree(1))
	assert.Equal(t, 1, mg.Degree(2))
	assert.Equal(t, []QubitPair{{0, 1}, {1, 2}}, mg.Pairs())
	assert.Equal(t, "01:[0 2] 12:[1]", mg.String())

	other := NewMultigraph(goqnet.Network{3, 5, 3}, 3)
	assert.False(t, mg.Equal(other))
	assert.True(t, mg.Relabeled([]int{1, 0, 2}).Equal(other))
}
