package goqnet

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunLimit(t *testing.T) {
	assert.True(t, Network{3, 3, 3, 3}.HasRunExceeding(MaxRun))
	assert.False(t, Network{3, 3, 3}.HasRunExceeding(MaxRun))
	assert.False(t, Network{3, 3, 3, 5, 3, 3, 3}.HasRunExceeding(MaxRun))
	assert.True(t, Network{5, 3, 3, 3, 3, 6}.HasRunExceeding(MaxRun))
	assert.False(t, Network{}.HasRunExceeding(MaxRun))

	assert.Equal(t, 3, Network{5, 3, 3, 3}.TrailingRun())
	assert.Equal(t, 1, Network{3, 5}.TrailingRun())
	assert.Equal(t, 0, Network{}.TrailingRun())

	assert.Error(t, Network{3, 3, 3, 3}.Validate(3))
	assert.NoError(t, Network{3, 6, 3}.Validate(3))
	assert.ErrorIs(t, Network{3, 7}.Validate(3), ErrInvalidGate)
}

func TestNetworkOps(t *testing.T) {
	net := Network{3, 6, 5}

	assert.Equal(t, Network{5, 6, 3}, net.Reversed())
	assert.Equal(t, Network{3, 6, 5, 3}, net.Append(3))
	assert.Equal(t, Network{3, 6, 5}, net, "Append must not modify its receiver")

	clone := net.Clone()
	clone[0] = 6
	assert.Equal(t, Gate(3), net[0])

	assert.Equal(t, Network{3, 5, 6}, net.Permuted([]int{1, 0, 2}))

	assert.Equal(t, "(3,6,5)", net.String())
	assert.Equal(t, "3-6-5", net.ID())

	assert.Equal(t, [][2]int{{0, 1}, {1, 2}, {0, 2}}, net.Edges())
	fromEdges, err := NetworkFromEdges(net.Edges(), 3)
	require.NoError(t, err)
	assert.Equal(t, net, fromEdges)

	for _, tc := range []struct {
		edges  [][2]int
		nqubit int
	}{
		{[][2]int{{0, 1}, {2, 2}}, 3},
		{[][2]int{{0, 3}}, 3},
		{[][2]int{{-1, 0}}, 3},
		{[][2]int{{0, 16}}, 0},
	} {
		_, err = NetworkFromEdges(tc.edges, tc.nqubit)
		assert.ErrorIs(t, err, ErrInvalidGate, "%v", tc.edges)
	}

	assert.Equal(t, 0, net.Compare(Network{3, 6, 5}))
	assert.Less(t, net.Compare(Network{3, 6, 6}), 0)
	assert.Greater(t, net.Compare(Network{3, 5, 6}), 0)
	assert.Less(t, Network{12}.Compare(Network{3, 3}), 0)
}

func TestRecordDecode(t *testing.T) {
	opts := EnumOpts{NQubit: 3, Depth: 2}
	rec := NewRecord(&opts, 2, []Network{{3, 5}, {3, 3}}, false)
	assert.Equal(t, [][]int{{3, 5}, {3, 3}}, rec.Networks)

	nets, err := rec.Decode()
	require.NoError(t, err)
	assert.Equal(t, []Network{{3, 5}, {3, 3}}, nets)

	bad := rec
	bad.Networks = [][]int{{3, 7}}
	_, err = bad.Decode()
	assert.ErrorIs(t, err, ErrCorruptRecord)
	assert.Contains(t, err.Error(), ErrInvalidGate.Error())

	bad.Networks = [][]int{{3}}
	_, err = bad.Decode()
	assert.ErrorIs(t, err, ErrCorruptRecord)

	bad.Depth = 4
	bad.Networks = [][]int{{3, 3, 3, 3}}
	_, err = bad.Decode()
	assert.ErrorIs(t, err, ErrCorruptRecord)

	bad = rec
	bad.NQubit = 1
	_, err = bad.Decode()
	assert.ErrorIs(t, err, ErrCorruptRecord)

	empty := Record{NQubit: 3, Depth: 0, Networks: [][]int{{}}}
	nets, err = empty.Decode()
	require.NoError(t, err)
	require.Len(t, nets, 1)
	assert.Empty(t, nets[0])
}

func TestEnumOptsValidate(t *testing.T) {
	assert.NoError(t, (&EnumOpts{NQubit: 2, Depth: 1}).Validate())
	assert.ErrorIs(t, (&EnumOpts{NQubit: 1, Depth: 1}).Validate(), ErrInvalidConfiguration)
	assert.ErrorIs(t, (&EnumOpts{NQubit: MaxQubits + 1, Depth: 1}).Validate(), ErrInvalidConfiguration)
	assert.ErrorIs(t, (&EnumOpts{NQubit: 3, Depth: 0}).Validate(), ErrInvalidConfiguration)
	assert.ErrorIs(t, (&EnumOpts{NQubit: 3, Depth: 2, Workers: -1}).Validate(), ErrInvalidConfiguration)
}

type nopCloser struct {
	strings.Builder
}

func (*nopCloser) Close() error { return nil }

type firstGateOnce struct {
	seen map[Gate]bool
}

func (k *firstGateOnce) TryAddNetwork(net Network) bool {
	if k.seen[net[0]] {
		return false
	}
	k.seen[net[0]] = true
	return true
}

func (k *firstGateOnce) Close() {}

func TestNetworkStream(t *testing.T) {
	nets := []Network{{3, 5}, {3, 6}, {5, 3}, {3, 3}}

	assert.Equal(t, nets, StreamNetworks(nets).Collect())
	assert.Equal(t, 4, StreamNetworks(nets).PullAll())

	firstGates := StreamNetworks(nets).AddTo(&firstGateOnce{seen: map[Gate]bool{}}, true).Collect()
	assert.Equal(t, []Network{{3, 5}, {5, 3}}, firstGates)

	selected := StreamNetworks(nets).Select(func(net Network) bool { return net[1] == 3 }).Collect()
	assert.Equal(t, []Network{{5, 3}, {3, 3}}, selected)

	doubled := StreamNetworks(nets[:2]).Orbits(func(net Network) []Network {
		return []Network{net, net.Reversed()}
	}).Collect()
	assert.Equal(t, []Network{{3, 5}, {5, 3}, {3, 6}, {6, 3}}, doubled)

	out := &nopCloser{}
	count := StreamNetworks(nets[:2]).Print(out, PrintOpts{Label: "x", Edges: true}).PullAll()
	assert.Equal(t, 2, count)
	assert.Equal(t, "x,000001,2,\"(3,5)\",\"01 02\"\nx,000002,2,\"(3,6)\",\"01 12\"\n", out.String())
}
