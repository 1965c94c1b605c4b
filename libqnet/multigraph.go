package libqnet

import (
	"fmt"
	"strings"

	"github.com/2x3systems/goqnet/goqnet"
)

// QubitPair is an unordered qubit pair, A < B.
type QubitPair struct {
	A, B int
}

// Multigraph is the labeled multigraph view of a Network: one node per qubit and one edge per gate, labeled by the
// gate's position.  It is derived from a Network and never edited independently.
type Multigraph struct {
	nqubit int
	labels map[QubitPair][]int
	degree []int
}

// NewMultigraph builds the labeled multigraph of net on nqubit nodes.
func NewMultigraph(net goqnet.Network, nqubit int) *Multigraph {
	mg := &Multigraph{
		nqubit: nqubit,
		labels: make(map[QubitPair][]int, len(net)),
		degree: make([]int, nqubit),
	}
	for pos, g := range net {
		lo, hi := g.Qubits()
		pair := QubitPair{lo, hi}
		mg.labels[pair] = append(mg.labels[pair], pos)
		mg.degree[lo]++
		mg.degree[hi]++
	}
	return mg
}

func (mg *Multigraph) NQubit() int {
	return mg.nqubit
}

// Labels returns the ascending edge labels between qubits i and j.
func (mg *Multigraph) Labels(i, j int) []int {
	if i > j {
		i, j = j, i
	}
	return mg.labels[QubitPair{i, j}]
}

// Degree returns the number of edges incident to qubit q.
func (mg *Multigraph) Degree(q int) int {
	return mg.degree[q]
}

// Pairs returns the qubit pairs carrying at least one edge, in ascending order.
func (mg *Multigraph) Pairs() []QubitPair {
	pairs := make([]QubitPair, 0, len(mg.labels))
	for j := 1; j < mg.nqubit; j++ {
		for i := 0; i < j; i++ {
			if len(mg.labels[QubitPair{i, j}]) > 0 {
				pairs = append(pairs, QubitPair{i, j})
			}
		}
	}
	return pairs
}

// Equal reports if mg and other have identical labeled edges between every pair of qubits.
func (mg *Multigraph) Equal(other *Multigraph) bool {
	if mg.nqubit != other.nqubit || len(mg.labels) != len(other.labels) {
		return false
	}
	for pair, la := range mg.labels {
		lb := other.labels[pair]
		if len(la) != len(lb) {
			return false
		}
		for k := range la {
			if la[k] != lb[k] {
				return false
			}
		}
	}
	return true
}

// Relabeled returns the multigraph with node k renamed to perm[k].
func (mg *Multigraph) Relabeled(perm []int) *Multigraph {
	out := &Multigraph{
		nqubit: mg.nqubit,
		labels: make(map[QubitPair][]int, len(mg.labels)),
		degree: make([]int, mg.nqubit),
	}
	for pair, labels := range mg.labels {
		a, b := perm[pair.A], perm[pair.B]
		if a > b {
			a, b = b, a
		}
		out.labels[QubitPair{a, b}] = append([]int(nil), labels...)
	}
	for q, d := range mg.degree {
		out.degree[perm[q]] = d
	}
	return out
}

// String lists each edge pair with its labels, e.g. "01:[0 2] 12:[1]".
func (mg *Multigraph) String() string {
	var b strings.Builder
	for i, pair := range mg.Pairs() {
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%d%d:%v", pair.A, pair.B, mg.labels[pair])
	}
	return b.String()
}
