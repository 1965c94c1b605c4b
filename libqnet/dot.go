package libqnet

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/2x3systems/goqnet/goqnet"
)

// DOTRenderer writes one Graphviz file per network into Dir, named by the network's gate sequence (e.g. "3-6-3.dot").
type DOTRenderer struct {
	Dir string
}

func (r DOTRenderer) Render(nqubit int, nets []goqnet.Network) error {
	if err := os.MkdirAll(r.Dir, 0o755); err != nil {
		return err
	}
	for _, net := range nets {
		pathname := filepath.Join(r.Dir, net.ID()+".dot")
		if err := writeDOTFile(pathname, net, nqubit); err != nil {
			return err
		}
	}
	return nil
}

func writeDOTFile(pathname string, net goqnet.Network, nqubit int) error {
	file, err := os.Create(pathname)
	if err != nil {
		return err
	}
	err = WriteDOT(file, net, nqubit)
	if closeErr := file.Close(); err == nil {
		err = closeErr
	}
	return err
}

// WriteDOT writes the labeled multigraph of net: one node per qubit, one edge per gate labeled by its position.
func WriteDOT(w io.Writer, net goqnet.Network, nqubit int) error {
	mg := NewMultigraph(net, nqubit)

	out := bufio.NewWriter(w)
	fmt.Fprintf(out, "graph %q {\n", "net_"+net.ID())
	out.WriteString("\tnode [shape=circle];\n")
	for q := 0; q < nqubit; q++ {
		fmt.Fprintf(out, "\tq%d [label=\"%d\"];\n", q, q)
	}
	for _, pair := range mg.Pairs() {
		for _, pos := range mg.Labels(pair.A, pair.B) {
			fmt.Fprintf(out, "\tq%d -- q%d [label=\"%d\"];\n", pair.A, pair.B, pos)
		}
	}
	out.WriteString("}\n")
	return out.Flush()
}

// DOTString is WriteDOT into a string.
func DOTString(net goqnet.Network, nqubit int) string {
	var b strings.Builder
	WriteDOT(&b, net, nqubit)
	return b.String()
}
