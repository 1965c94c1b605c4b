package libqnet

import (
	"testing"

	"github.com/2x3systems/goqnet/goqnet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseNetwork(t *testing.T) {
	for expr, want := range map[string]goqnet.Network{
		"(3,6,3)":        {3, 6, 3},
		"3 6 3":          {3, 6, 3},
		"0-1, 1-2, 0-1":  {3, 6, 3},
		"(1-0 2-0)":      {3, 5},
		"( 3, 5, 6 )":    {3, 5, 6},
		"()":             {},
		"(3, 1-2, 0-2)":  {3, 6, 5},
	} {
		net, err := ParseNetwork(expr, 3)
		require.NoError(t, err, expr)
		assert.Equal(t, want, net, expr)
	}

	net, err := ParseNetwork("(3, 12)", 0)
	require.NoError(t, err)
	assert.Equal(t, goqnet.Network{3, 12}, net)
}

func TestParseNetworkErrors(t *testing.T) {
	for _, expr := range []string{"(3,x)", "3 ; 6", "(3,6,\"a\")"} {
		_, err := ParseNetwork(expr, 3)
		assert.ErrorIs(t, err, goqnet.ErrBadNetworkExpr, expr)
	}
	for _, expr := range []string{"(3,7)", "(3,12)", "1-1", "0-3", "(4)"} {
		_, err := ParseNetwork(expr, 3)
		assert.ErrorIs(t, err, goqnet.ErrInvalidGate, expr)
	}
}
