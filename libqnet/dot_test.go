package libqnet

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/2x3systems/goqnet/goqnet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteDOT(t *testing.T) {
	got := DOTString(goqnet.Network{3, 6, 3}, 3)
	assert.Equal(t, `graph "net_3-6-3" {
	node [shape=circle];
	q0 [label="0"];
	q1 [label="1"];
	q2 [label="2"];
	q0 -- q1 [label="0"];
	q0 -- q1 [label="2"];
	q1 -- q2 [label="1"];
}
`, got)
}

func TestDOTRenderer(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "dot")
	var r goqnet.Renderer = DOTRenderer{Dir: dir}
	require.NoError(t, r.Render(3, []goqnet.Network{{3, 5}, {3, 3, 6}}))

	for _, name := range []string{"3-5.dot", "3-3-6.dot"} {
		buf, err := os.ReadFile(filepath.Join(dir, name))
		require.NoError(t, err)
		assert.Contains(t, string(buf), "graph ")
	}
}
