package goqnet

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Network is an ordered sequence of gates (a circuit template).  Order matters: position i is the i-th gate executed.
type Network []Gate

// Depth is the number of gates in this Network.
func (net Network) Depth() int {
	return len(net)
}

// Clone returns a copy of net with its own backing array.
func (net Network) Clone() Network {
	if net == nil {
		return nil
	}
	return append(make(Network, 0, len(net)), net...)
}

// Append returns a new Network consisting of net followed by g.  net is not modified.
func (net Network) Append(g Gate) Network {
	out := make(Network, len(net)+1)
	copy(out, net)
	out[len(net)] = g
	return out
}

// Reversed returns net in reverse execution order.
func (net Network) Reversed() Network {
	N := len(net)
	out := make(Network, N)
	for i, g := range net {
		out[N-1-i] = g
	}
	return out
}

// Permuted applies the qubit relabeling perm uniformly to every gate.
func (net Network) Permuted(perm []int) Network {
	out := make(Network, len(net))
	for i, g := range net {
		out[i] = g.Permute(perm)
	}
	return out
}

func (net Network) Equal(other Network) bool {
	if len(net) != len(other) {
		return false
	}
	for i, g := range net {
		if other[i] != g {
			return false
		}
	}
	return true
}

// Compare orders networks by depth then gate-by-gate.
func (net Network) Compare(other Network) int {
	if d := len(net) - len(other); d != 0 {
		return d
	}
	for i, g := range net {
		if g != other[i] {
			if g < other[i] {
				return -1
			}
			return 1
		}
	}
	return 0
}

// HasRunExceeding reports if net contains more than maxRun consecutive identical gates.
// Scanning stops at the first violation.
func (net Network) HasRunExceeding(maxRun int) bool {
	if len(net) == 0 {
		return false
	}
	run, prev := 0, net[0]
	for _, g := range net {
		if g == prev {
			run++
		} else {
			prev = g
			run = 1
		}
		if run > maxRun {
			return true
		}
	}
	return false
}

// TrailingRun returns the length of the run of identical gates that ends net.
func (net Network) TrailingRun() int {
	N := len(net)
	if N == 0 {
		return 0
	}
	run := 1
	for i := N - 2; i >= 0 && net[i] == net[N-1]; i-- {
		run++
	}
	return run
}

// Validate checks every gate against nqubit and the run limit.
func (net Network) Validate(nqubit int) error {
	for i, g := range net {
		if err := g.Validate(nqubit); err != nil {
			return errors.Wrapf(err, "gate %d (value %d)", i, uint32(g))
		}
	}
	if net.HasRunExceeding(MaxRun) {
		return errors.Errorf("network %v has more than %d consecutive identical gates", net, MaxRun)
	}
	return nil
}

// Ints returns the literal gate integers of net.
func (net Network) Ints() []int {
	vals := make([]int, len(net))
	for i, g := range net {
		vals[i] = int(g)
	}
	return vals
}

// NetworkFromInts validates and converts literal gate integers (as found in a Record).
func NetworkFromInts(vals []int, nqubit int) (Network, error) {
	net := make(Network, len(vals))
	for i, v := range vals {
		g, err := NewGate(int64(v), nqubit)
		if err != nil {
			return nil, errors.Wrapf(err, "gate %d (value %d)", i, v)
		}
		net[i] = g
	}
	return net, nil
}

// Edges returns the qubit pair of each gate, in network order.
func (net Network) Edges() [][2]int {
	edges := make([][2]int, len(net))
	for i, g := range net {
		lo, hi := g.Qubits()
		edges[i] = [2]int{lo, hi}
	}
	return edges
}

// NetworkFromEdges is the inverse of Edges, checking each qubit pair against nqubit (0 denotes MaxQubits).
func NetworkFromEdges(edges [][2]int, nqubit int) (Network, error) {
	net := make(Network, len(edges))
	for i, e := range edges {
		g, err := PairGate(e[0], e[1], nqubit)
		if err != nil {
			return nil, errors.Wrapf(err, "edge %d", i)
		}
		net[i] = g
	}
	return net, nil
}

// String formats net as a gate tuple, e.g. "(3,6,3)".
func (net Network) String() string {
	b := strings.Builder{}
	b.Grow(4 * len(net))
	b.WriteByte('(')
	for i, g := range net {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatUint(uint64(g), 10))
	}
	b.WriteByte(')')
	return b.String()
}

// ID is a file-name friendly identifier, e.g. "3-6-3".
func (net Network) ID() string {
	b := strings.Builder{}
	for i, g := range net {
		if i > 0 {
			b.WriteByte('-')
		}
		b.WriteString(strconv.FormatUint(uint64(g), 10))
	}
	return b.String()
}
