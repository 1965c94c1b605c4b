package libqnet

import (
	"bytes"

	"github.com/2x3systems/goqnet/goqnet"
)

// CanonicalKey appends a key for net to dst such that two networks of equal depth have equal keys iff one is a
// qubit relabeling of the other.
//
// Qubits are labeled in order of first appearance; a gate introducing two unseen qubits admits both label orders.
// Each gate contributes one byte, (lo<<4)|hi in relabeled form, and the key is the lexicographic minimum over all
// admissible labelings.
func CanonicalKey(net goqnet.Network, dst []byte) []byte {
	depth := len(net)
	if depth == 0 {
		return dst
	}

	var scrap [128]byte
	var buf []byte
	if 2*depth <= len(scrap) {
		buf = scrap[:2*depth]
	} else {
		buf = make([]byte, 2*depth)
	}

	w := keyWalk{
		net:  net,
		cur:  buf[:depth],
		best: buf[depth:],
	}

	var labels [goqnet.MaxQubits]int8
	for i := range labels {
		labels[i] = -1
	}
	w.walk(0, labels, 0, -1)

	return append(dst, w.best...)
}

// CanonicalForm returns the network spelled by net's canonical key.
func CanonicalForm(net goqnet.Network) goqnet.Network {
	var scrap [64]byte
	key := CanonicalKey(net, scrap[:0])
	form := make(goqnet.Network, len(key))
	for i, b := range key {
		form[i] = goqnet.GateOf(int(b>>4), int(b&0xF))
	}
	return form
}

type keyWalk struct {
	net  goqnet.Network
	cur  []byte
	best []byte
	have bool
}

// walk labels net[i:] given the labels assigned so far.
// cmp is 0 if cur[:i] equals best[:i] and -1 if it is already less (or no best exists yet).
func (w *keyWalk) walk(i int, labels [goqnet.MaxQubits]int8, next int8, cmp int) {
	for ; i < len(w.net); i++ {
		lo, hi := w.net[i].Qubits()
		la, lb := labels[lo], labels[hi]

		branch := false
		switch {
		case la < 0 && lb < 0:
			la, lb = next, next+1
			next += 2
			branch = true
		case la < 0:
			la = next
			next++
		case lb < 0:
			lb = next
			next++
		}
		labels[lo], labels[hi] = la, lb

		if la > lb {
			la, lb = lb, la
		}
		b := byte(la)<<4 | byte(lb)
		w.cur[i] = b

		if cmp == 0 {
			if b > w.best[i] {
				return
			}
			if b < w.best[i] {
				cmp = -1
			}
		}

		if branch {
			alt := labels
			alt[lo], alt[hi] = labels[hi], labels[lo]
			w.walk(i+1, alt, next, cmp)
			cmp = bytes.Compare(w.cur[:i+1], w.best[:i+1])
		}
	}

	if cmp < 0 || !w.have {
		copy(w.best, w.cur)
		w.have = true
	}
}
