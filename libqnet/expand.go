package libqnet

import (
	"github.com/2x3systems/goqnet/goqnet"
)

// Expand extends every accepted network by every gate on nqubit qubits, dropping extensions that break the run
// limit.  Candidates are ordered parent-major, then by ascending gate.  Duplicates are not removed.
//
// All candidates share one backing buffer, so callers must not append to them.
func Expand(accepted []goqnet.Network, nqubit int) (cands []goqnet.Network, rejected int) {
	if len(accepted) == 0 {
		return nil, 0
	}
	gates := goqnet.AllGates(nqubit)
	depth := len(accepted[0]) + 1

	maxCands := len(accepted) * len(gates)
	arena := make([]goqnet.Gate, 0, maxCands*depth)
	cands = make([]goqnet.Network, 0, maxCands)

	for _, parent := range accepted {
		if len(parent)+1 != depth {
			panic("Expand: accepted networks differ in depth")
		}

		for _, g := range gates {
			start := len(arena)
			arena = append(arena, parent...)
			arena = append(arena, g)
			cand := goqnet.Network(arena[start:len(arena):len(arena)])
			if cand.HasRunExceeding(goqnet.MaxRun) {
				arena = arena[:start]
				rejected++
				continue
			}
			cands = append(cands, cand)
		}
	}
	return cands, rejected
}
