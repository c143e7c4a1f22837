package maze

import (
	"fmt"
	"math/rand"
)

// Dimension limits for generated mazes. MaxDimension is a practical bound,
// enforced at the API layer rather than here.
const (
	MinDimension = 5
	MaxDimension = 30
)

// Generate produces a random maze of the given dimensions.
//
// The grid starts as all walls. The start cell is fixed at (0,1) and the end
// cell at (rows-1, cols-2); both are carved open. A recursive-backtracking
// carver then builds a perfect maze over the odd interior cells. The carver
// does not by construction connect the fixed terminals to the carved tree, so
// a connectivity repair pass runs afterwards and guarantees the postcondition:
// every non-wall cell is reachable from the start cell.
func Generate(rows, cols int) (Grid, error) {
	if rows < MinDimension || cols < MinDimension {
		return nil, fmt.Errorf("%w: dimensions must be at least %dx%d, got %dx%d",
			ErrInvalidParameter, MinDimension, MinDimension, rows, cols)
	}

	g := make(Grid, rows)
	for r := range g {
		g[r] = make([]Cell, cols)
		for c := range g[r] {
			g[r][c] = Cell{Row: r, Col: c, IsWall: true}
		}
	}

	g[0][1].IsWall = false
	g[0][1].IsStart = true
	g[rows-1][cols-2].IsWall = false
	g[rows-1][cols-2].IsEnd = true

	carve(g, 1, 1)
	repairConnectivity(g)
	return g, nil
}

// carve opens the cell at (row, col) and recursively extends corridors two
// cells at a time in a randomly shuffled direction order, opening the wall
// between each pair of tree cells. An open target counts as already visited.
func carve(g Grid, row, col int) {
	g[row][col].IsWall = false

	dirs := Directions
	rand.Shuffle(len(dirs), func(i, j int) {
		dirs[i], dirs[j] = dirs[j], dirs[i]
	})

	for _, d := range dirs {
		nextRow, nextCol := row+2*d.Row, col+2*d.Col
		if g.InBound(nextRow, nextCol) && g[nextRow][nextCol].IsWall {
			g[row+d.Row][col+d.Col].IsWall = false
			carve(g, nextRow, nextCol)
		}
	}
}

// repairConnectivity guarantees a start-to-end connection. A breadth-first
// search over the open cells looks for an existing path; when one exists the
// cells along it are re-asserted open. When the carved tree left the end cell
// unreachable, a deterministic row-then-column carve from start to end runs
// instead. The fallback is a correctness guarantee: the generator must never
// hand out a maze whose terminals are disconnected.
func repairConnectivity(g Grid) {
	start, end, err := FindTerminals(g)
	if err != nil {
		return
	}

	if path, found := openPath(g, start, end); found {
		for _, p := range path {
			g[p.Row][p.Col].IsWall = false
		}
		return
	}

	manhattanCarve(g, start, end)
}

// openPath runs a breadth-first search from start to end over non-wall cells
// and returns the discovered path, start and end inclusive.
func openPath(g Grid, start, end CellPosition) ([]CellPosition, bool) {
	visited := make([][]bool, g.Rows())
	for r := range visited {
		visited[r] = make([]bool, g.Cols())
	}
	parent := make(map[CellPosition]CellPosition)

	queue := []CellPosition{start}
	visited[start.Row][start.Col] = true

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		if cur == end {
			var path []CellPosition
			for p := end; ; p = parent[p] {
				path = append(path, p)
				if p == start {
					break
				}
			}
			return path, true
		}

		for _, d := range Directions {
			next := CellPosition{Row: cur.Row + d.Row, Col: cur.Col + d.Col}
			if !g.InBound(next.Row, next.Col) || visited[next.Row][next.Col] || g[next.Row][next.Col].IsWall {
				continue
			}
			visited[next.Row][next.Col] = true
			parent[next] = cur
			queue = append(queue, next)
		}
	}

	return nil, false
}

// manhattanCarve opens every cell on the deterministic row-then-column walk
// from start to end.
func manhattanCarve(g Grid, start, end CellPosition) {
	cur := start
	g[cur.Row][cur.Col].IsWall = false

	for cur.Row != end.Row {
		if cur.Row < end.Row {
			cur.Row++
		} else {
			cur.Row--
		}
		g[cur.Row][cur.Col].IsWall = false
	}
	for cur.Col != end.Col {
		if cur.Col < end.Col {
			cur.Col++
		} else {
			cur.Col--
		}
		g[cur.Row][cur.Col].IsWall = false
	}
}
