package maze

import "errors"

// Maze-related errors.
var (
	// ErrMalformedGrid reports a grid without a start or an end cell. It
	// should be unreachable for grids produced by Generate.
	ErrMalformedGrid = errors.New("grid has no start or end cell")
	// ErrInvalidParameter reports out-of-contract dimensions or parameters
	// supplied directly to a core entry point.
	ErrInvalidParameter = errors.New("invalid parameter")
)

// Grid is a rectangular, row-major matrix of cells. It is value data: every
// solver works on its own clone so a caller-held grid never observes partial
// mutation.
type Grid [][]Cell

// Rows returns the number of rows in the grid.
func (g Grid) Rows() int {
	return len(g)
}

// Cols returns the number of columns in the grid.
func (g Grid) Cols() int {
	if len(g) == 0 {
		return 0
	}
	return len(g[0])
}

// InBound reports whether the given position lies inside the grid.
func (g Grid) InBound(row, col int) bool {
	return row >= 0 && row < g.Rows() && col >= 0 && col < g.Cols()
}

// Clone returns a deep, independent copy of the grid. Mutating the clone
// never affects the original.
func (g Grid) Clone() Grid {
	clone := make(Grid, len(g))
	for i, row := range g {
		clone[i] = make([]Cell, len(row))
		copy(clone[i], row)
	}
	return clone
}

// FindTerminals locates the start and end cells of the grid.
// Returns ErrMalformedGrid if either is missing.
func FindTerminals(g Grid) (CellPosition, CellPosition, error) {
	var start, end CellPosition
	foundStart, foundEnd := false, false

	for r := range g {
		for c := range g[r] {
			if g[r][c].IsStart {
				start = CellPosition{Row: r, Col: c}
				foundStart = true
			}
			if g[r][c].IsEnd {
				end = CellPosition{Row: r, Col: c}
				foundEnd = true
			}
		}
	}

	if !foundStart || !foundEnd {
		return CellPosition{}, CellPosition{}, ErrMalformedGrid
	}
	return start, end, nil
}
