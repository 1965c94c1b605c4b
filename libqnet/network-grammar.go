package libqnet

import (
	"github.com/2x3systems/goqnet/goqnet"
	"github.com/alecthomas/participle/v2"
	"github.com/pkg/errors"
)

// NetworkExpr is a gate sequence such as "(3,6,3)", "3 6 3" or "0-1, 1-2, 0-1".
type NetworkExpr struct {
	Gates []*GateExpr `"("? @@* ")"?`
}

// GateExpr is either a literal gate mask ("6") or a qubit pair ("1-2").
type GateExpr struct {
	A int64  `@Int`
	B *int64 `( "-" @Int )? ","?`
}

var parseNetworkExpr = participle.MustBuild[NetworkExpr]()

// ParseNetwork parses a network expression, checking each gate against nqubit (0 denotes goqnet.MaxQubits).
func ParseNetwork(expr string, nqubit int) (goqnet.Network, error) {
	parsed, err := parseNetworkExpr.ParseString("", expr)
	if err != nil {
		return nil, errors.Wrapf(goqnet.ErrBadNetworkExpr, "%q: %v", expr, err)
	}

	net := make(goqnet.Network, 0, len(parsed.Gates))
	for i, gexpr := range parsed.Gates {
		var g goqnet.Gate
		if gexpr.B == nil {
			g, err = goqnet.NewGate(gexpr.A, nqubit)
		} else {
			g, err = goqnet.PairGate(int(gexpr.A), int(*gexpr.B), nqubit)
		}
		if err != nil {
			return nil, errors.Wrapf(err, "%q: gate %d", expr, i)
		}
		net = append(net, g)
	}
	return net, nil
}
