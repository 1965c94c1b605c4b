package libqnet

import (
	"bytes"
	"sort"
	"sync"

	"github.com/2x3systems/goqnet/goqnet"
	"github.com/emirpasic/gods/sets/treeset"
	"gonum.org/v1/gonum/stat/combin"
)

// Generators selects which class generators (beyond qubit relabeling) a closure applies.
type Generators uint8

const (
	GenSwapConjugation Generators = 1 << iota
	GenTimeReversal
)

// Oracle answers equivalence questions about networks on a fixed qubit register.
//
// All methods are safe for concurrent use.
type Oracle struct {
	nqubit    int
	permsOnce sync.Once
	perms     [][]int
}

func NewOracle(nqubit int) *Oracle {
	return &Oracle{
		nqubit: nqubit,
	}
}

func (o *Oracle) NQubit() int {
	return o.nqubit
}

// permutations returns all nqubit! relabelings of the register; the identity is first.
func (o *Oracle) permutations() [][]int {
	o.permsOnce.Do(func() {
		o.perms = combin.Permutations(o.nqubit, o.nqubit)
		sort.Slice(o.perms, func(i, j int) bool {
			return lessInts(o.perms[i], o.perms[j])
		})
	})
	return o.perms
}

func lessInts(a, b []int) bool {
	for i := range a {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}

func networkComparator(a, b interface{}) int {
	return a.(goqnet.Network).Compare(b.(goqnet.Network))
}

func setToNetworks(set *treeset.Set) []goqnet.Network {
	nets := make([]goqnet.Network, 0, set.Size())
	for _, v := range set.Values() {
		nets = append(nets, v.(goqnet.Network))
	}
	return nets
}

// TimeReversed returns net in reverse gate order (the Hermitian-conjugate circuit).
func TimeReversed(net goqnet.Network) goqnet.Network {
	return net.Reversed()
}

// BitPermutedOrbit returns every distinct network obtained by applying a qubit permutation uniformly to net.
//
// If includeSelf is false, net itself is excluded from the returned orbit (used when comparing a network against
// its own orbit); orbit export for drawing includes it.
func (o *Oracle) BitPermutedOrbit(net goqnet.Network, includeSelf bool) []goqnet.Network {
	orbit := treeset.NewWith(networkComparator)
	for _, perm := range o.permutations() {
		orbit.Add(net.Permuted(perm))
	}
	if !includeSelf {
		orbit.Remove(net)
	}
	return setToNetworks(orbit)
}

// Orbit is BitPermutedOrbit including net itself.
func (o *Oracle) Orbit(net goqnet.Network) []goqnet.Network {
	return o.BitPermutedOrbit(net, true)
}

// SwapConjugates returns the distinct networks formed by swap-conjugating one sandwiched gate of net.
//
// For each interior position j where net[j-1] == net[j+1], net[j] is replaced by its bit swap over the two qubits of
// net[j-1].  Variants equal to net are omitted.
func SwapConjugates(net goqnet.Network) []goqnet.Network {
	variants := treeset.NewWith(networkComparator)
	for j := 1; j+1 < len(net); j++ {
		g1, g2 := net[j-1], net[j+1]
		if g1 != g2 {
			continue
		}
		p1, p2 := g1.Qubits()
		swapped := net[j].Swap(p1, p2)
		if swapped == net[j] {
			continue
		}
		variant := net.Clone()
		variant[j] = swapped
		variants.Add(variant)
	}
	return setToNetworks(variants)
}

// IsEquivalent reports if b is obtainable from a by qubit relabeling alone, i.e. if their labeled multigraphs
// are isomorphic with every edge keeping its position label.
//
// a and b must have equal depth.
func (o *Oracle) IsEquivalent(a, b goqnet.Network) bool {
	if len(a) != len(b) {
		panic("IsEquivalent: networks differ in depth")
	}
	var ka, kb [64]byte
	return bytes.Equal(CanonicalKey(a, ka[:0]), CanonicalKey(b, kb[:0]))
}

// IsEquivalent is a convenience for NewOracle(nqubit).IsEquivalent(a, b).
func IsEquivalent(a, b goqnet.Network, nqubit int) bool {
	return NewOracle(nqubit).IsEquivalent(a, b)
}

// IsEquivalentByOrbit answers the same question as IsEquivalent by materializing the relabeling orbit of a.
// It costs nqubit! network images per call.
func (o *Oracle) IsEquivalentByOrbit(a, b goqnet.Network) bool {
	if len(a) != len(b) {
		panic("IsEquivalentByOrbit: networks differ in depth")
	}
	for _, perm := range o.permutations() {
		if a.Permuted(perm).Equal(b) {
			return true
		}
	}
	return false
}

// ClassClosure returns the canonical keys of every network reachable from net by qubit relabeling and the given
// generators, applied repeatedly until no new key appears.  The key of net itself is included.
func ClassClosure(net goqnet.Network, gens Generators) []string {
	var scrap [64]byte
	seen := map[string]struct{}{
		string(CanonicalKey(net, scrap[:0])): {},
	}
	queue := []goqnet.Network{net}

	visit := func(X goqnet.Network) {
		key := string(CanonicalKey(X, scrap[:0]))
		if _, exists := seen[key]; !exists {
			seen[key] = struct{}{}
			queue = append(queue, X)
		}
	}

	for len(queue) > 0 {
		X := queue[0]
		queue = queue[1:]

		if gens&GenSwapConjugation != 0 {
			for _, Xs := range SwapConjugates(X) {
				visit(Xs)
			}
		}
		if gens&GenTimeReversal != 0 {
			visit(TimeReversed(X))
		}
	}

	keys := make([]string, 0, len(seen))
	for key := range seen {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// IsClassEquivalent reports if a and b fall in the same class under qubit relabeling plus the given generators.
func (o *Oracle) IsClassEquivalent(a, b goqnet.Network, gens Generators) bool {
	if len(a) != len(b) {
		panic("IsClassEquivalent: networks differ in depth")
	}
	var scrap [64]byte
	kb := string(CanonicalKey(b, scrap[:0]))
	for _, key := range ClassClosure(a, gens) {
		if key == kb {
			return true
		}
	}
	return false
}
