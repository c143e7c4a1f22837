package maze

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClone(t *testing.T) {
	g, err := Generate(9, 13)
	require.NoError(t, err)

	t.Run("clones are structurally equal", func(t *testing.T) {
		first := g.Clone()
		second := g.Clone()
		assert.Equal(t, g, first)
		assert.Equal(t, g, second)
	})

	t.Run("mutating the clone never affects the original", func(t *testing.T) {
		clone := g.Clone()
		clone[2][3].IsWall = !clone[2][3].IsWall
		clone[0][1].IsVisited = true
		clone[4][4].IsPath = true

		assert.NotEqual(t, g[2][3].IsWall, clone[2][3].IsWall)
		assert.False(t, g[0][1].IsVisited)
		assert.False(t, g[4][4].IsPath)
	})
}

func TestFindTerminals(t *testing.T) {
	t.Run("finds both terminals on a generated grid", func(t *testing.T) {
		g, err := Generate(8, 8)
		require.NoError(t, err)

		start, end, err := FindTerminals(g)
		require.NoError(t, err)
		assert.True(t, g[start.Row][start.Col].IsStart)
		assert.True(t, g[end.Row][end.Col].IsEnd)
	})

	t.Run("malformed grid without terminals", func(t *testing.T) {
		g := make(Grid, 5)
		for r := range g {
			g[r] = make([]Cell, 5)
		}

		_, _, err := FindTerminals(g)
		assert.ErrorIs(t, err, ErrMalformedGrid)
	})

	t.Run("malformed grid with start only", func(t *testing.T) {
		g := make(Grid, 5)
		for r := range g {
			g[r] = make([]Cell, 5)
		}
		g[0][1].IsStart = true

		_, _, err := FindTerminals(g)
		assert.ErrorIs(t, err, ErrMalformedGrid)
	})
}
