package maze

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// reachableCells flood-fills from start over non-wall cells and returns the
// number of cells reached.
func reachableCells(g Grid, start CellPosition) int {
	visited := make(map[CellPosition]struct{})
	queue := []CellPosition{start}
	visited[start] = struct{}{}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, d := range Directions {
			next := CellPosition{Row: cur.Row + d.Row, Col: cur.Col + d.Col}
			if !g.InBound(next.Row, next.Col) || g[next.Row][next.Col].IsWall {
				continue
			}
			if _, seen := visited[next]; seen {
				continue
			}
			visited[next] = struct{}{}
			queue = append(queue, next)
		}
	}

	return len(visited)
}

func countOpenCells(g Grid) int {
	open := 0
	for r := range g {
		for c := range g[r] {
			if !g[r][c].IsWall {
				open++
			}
		}
	}
	return open
}

func TestGenerate(t *testing.T) {
	t.Run("every open cell is reachable from start", func(t *testing.T) {
		sizes := []struct{ rows, cols int }{
			{5, 5}, {5, 30}, {6, 6}, {7, 12}, {15, 15}, {16, 9}, {29, 29}, {30, 5}, {30, 30},
		}
		for _, size := range sizes {
			g, err := Generate(size.rows, size.cols)
			require.NoError(t, err)

			start, end, err := FindTerminals(g)
			require.NoError(t, err)
			assert.Equal(t, CellPosition{Row: 0, Col: 1}, start)
			assert.Equal(t, CellPosition{Row: size.rows - 1, Col: size.cols - 2}, end)

			assert.Equal(t, countOpenCells(g), reachableCells(g, start),
				"disconnected open cells in %dx%d maze", size.rows, size.cols)
		}
	})

	t.Run("exactly one start and one end, neither a wall", func(t *testing.T) {
		g, err := Generate(11, 17)
		require.NoError(t, err)

		starts, ends := 0, 0
		for r := range g {
			for c := range g[r] {
				if g[r][c].IsStart {
					starts++
					assert.False(t, g[r][c].IsWall)
					assert.False(t, g[r][c].IsEnd)
				}
				if g[r][c].IsEnd {
					ends++
					assert.False(t, g[r][c].IsWall)
				}
			}
		}
		assert.Equal(t, 1, starts)
		assert.Equal(t, 1, ends)
	})

	t.Run("fresh grids carry no solver annotations", func(t *testing.T) {
		g, err := Generate(9, 9)
		require.NoError(t, err)

		for r := range g {
			for c := range g[r] {
				assert.False(t, g[r][c].IsVisited)
				assert.False(t, g[r][c].IsPath)
			}
		}
	})

	t.Run("rejects undersized dimensions", func(t *testing.T) {
		_, err := Generate(4, 10)
		assert.ErrorIs(t, err, ErrInvalidParameter)

		_, err = Generate(10, 4)
		assert.ErrorIs(t, err, ErrInvalidParameter)
	})
}

func TestManhattanCarve(t *testing.T) {
	// All-walls grid except the terminals: the repair must fall back to the
	// deterministic carve and still deliver a connected maze.
	g := make(Grid, 7)
	for r := range g {
		g[r] = make([]Cell, 7)
		for c := range g[r] {
			g[r][c] = Cell{Row: r, Col: c, IsWall: true}
		}
	}
	g[0][1].IsWall = false
	g[0][1].IsStart = true
	g[6][5].IsWall = false
	g[6][5].IsEnd = true

	repairConnectivity(g)

	start, _, err := FindTerminals(g)
	assert.NoError(t, err)
	assert.Equal(t, countOpenCells(g), reachableCells(g, start))
}
