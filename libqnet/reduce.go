package libqnet

import (
	"context"

	"github.com/2x3systems/goqnet/goqnet"
)

// Reducer removes relabeling duplicates from batches of equal-depth candidates.
//
// Keys accepted by earlier Reduce calls stay accepted until Close, so a Reducer deduplicates a batch against
// itself and against everything it has already let through.
type Reducer struct {
	workers int
	keys    goqnet.CanonicSet
}

// NewReducer returns a Reducer fanning key computation across workers (0 denotes runtime.NumCPU()).
// If keys is nil, a hash key set is used.
func NewReducer(workers int, keys goqnet.CanonicSet) *Reducer {
	if keys == nil {
		keys = NewHashKeySet(0)
	}
	return &Reducer{
		workers: workers,
		keys:    keys,
	}
}

// Accepted returns the number of classes let through so far.
func (r *Reducer) Accepted() int {
	return r.keys.Len()
}

func (r *Reducer) Close() {
	r.keys.Close()
}

// Reduce returns the members of batch whose class has not been seen before, in batch order.  Of several batch
// members in one class, the first is kept.
func (r *Reducer) Reduce(ctx context.Context, batch []goqnet.Network) ([]goqnet.Network, error) {
	if len(batch) == 0 {
		return nil, nil
	}
	depth := len(batch[0])
	for _, net := range batch {
		if len(net) != depth {
			panic("Reduce: batch networks differ in depth")
		}
	}

	// Every key of a depth-d network is d bytes, so each span's keys pack into one buffer.
	spanKeys, err := Dispatch(ctx, len(batch), r.workers, func(_ context.Context, span Span) ([][]byte, error) {
		buf := make([]byte, 0, span.Len()*depth)
		keys := make([][]byte, span.Len())
		for k, net := range batch[span.Lo:span.Hi] {
			start := len(buf)
			buf = CanonicalKey(net, buf)
			keys[k] = buf[start:len(buf):len(buf)]
		}
		return keys, nil
	})
	if err != nil {
		return nil, err
	}

	// Single-threaded merge: first occurrence wins.
	var survivors []goqnet.Network
	i := 0
	for _, keys := range spanKeys {
		for _, key := range keys {
			if r.keys.TryAdd(key) {
				survivors = append(survivors, batch[i])
			}
			i++
		}
	}
	return survivors, nil
}

// ReduceBatch is a one-shot reduction of batch with a fresh hash key set.
func ReduceBatch(ctx context.Context, batch []goqnet.Network, workers int) ([]goqnet.Network, error) {
	r := NewReducer(workers, nil)
	defer r.Close()
	return r.Reduce(ctx, batch)
}

// Collapse merges relabeling-distinct representatives that share a class under the given generators and returns
// the earliest member of each merged class, in reps order.
//
// reps must already be free of relabeling duplicates.
func Collapse(ctx context.Context, reps []goqnet.Network, gens Generators, workers int) ([]goqnet.Network, error) {
	if gens == 0 || len(reps) < 2 {
		return reps, nil
	}

	var scrap [64]byte
	index := make(map[string]int, len(reps))
	for i, net := range reps {
		index[string(CanonicalKey(net, scrap[:0]))] = i
	}

	closures, err := Dispatch(ctx, len(reps), workers, func(_ context.Context, span Span) ([][]string, error) {
		out := make([][]string, 0, span.Len())
		for _, net := range reps[span.Lo:span.Hi] {
			out = append(out, ClassClosure(net, gens))
		}
		return out, nil
	})
	if err != nil {
		return nil, err
	}

	uf := newUnionFind(len(reps))
	i := 0
	for _, spanClosures := range closures {
		for _, keys := range spanClosures {
			for _, key := range keys {
				if j, exists := index[key]; exists {
					uf.union(i, j)
				}
			}
			i++
		}
	}

	survivors := make([]goqnet.Network, 0, len(reps))
	for i, net := range reps {
		if uf.find(i) == i {
			survivors = append(survivors, net)
		}
	}
	return survivors, nil
}

// unionFind joins index sets, keeping the least index as each set's root.
type unionFind struct {
	parent []int
}

func newUnionFind(n int) *unionFind {
	uf := &unionFind{
		parent: make([]int, n),
	}
	for i := range uf.parent {
		uf.parent[i] = i
	}
	return uf
}

func (uf *unionFind) find(i int) int {
	for uf.parent[i] != i {
		uf.parent[i] = uf.parent[uf.parent[i]]
		i = uf.parent[i]
	}
	return i
}

func (uf *unionFind) union(a, b int) {
	ra, rb := uf.find(a), uf.find(b)
	switch {
	case ra < rb:
		uf.parent[rb] = ra
	case rb < ra:
		uf.parent[ra] = rb
	}
}
