package solver

import (
	"context"
	"time"

	"github.com/mazelab/solver-api/maze"
)

// DFSSolver explores the maze with an explicit stack. The direction order is
// reshuffled per expansion for an organic exploration pattern; the found path
// is valid but not necessarily shortest.
type DFSSolver struct{}

// NewDFS returns a depth-first search engine.
func NewDFS() *DFSSolver {
	return &DFSSolver{}
}

// Algorithm returns the engine's algorithm tag.
func (s *DFSSolver) Algorithm() Algorithm {
	return AlgorithmDFS
}

// Run executes depth-first search over a private clone of grid, emitting a
// snapshot per expanded node and a final one reflecting the terminal state.
func (s *DFSSolver) Run(ctx context.Context, grid maze.Grid, onStep StepFunc) (Metrics, error) {
	metrics := Metrics{Algorithm: AlgorithmDFS}

	g := grid.Clone()
	start, end, err := maze.FindTerminals(g)
	if err != nil {
		return metrics, err
	}

	began := time.Now()
	visited := newVisitedGrid(g.Rows(), g.Cols())
	stack := []node{{pos: start, path: []maze.CellPosition{start}}}

	for len(stack) > 0 {
		if err := ctx.Err(); err != nil {
			metrics.ExecutionTime = time.Since(began)
			return metrics, err
		}

		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited[cur.pos.Row][cur.pos.Col] {
			continue
		}
		visited[cur.pos.Row][cur.pos.Col] = true
		g[cur.pos.Row][cur.pos.Col].IsVisited = true
		metrics.NodesVisited++
		metrics.ExecutionTime = time.Since(began)

		if cur.pos == end {
			markPath(g, cur.path)
			metrics.PathFound = true
			metrics.PathLength = len(cur.path) - 1
			emit(onStep, g, metrics)
			return metrics, nil
		}
		emit(onStep, g, metrics)

		for _, d := range shuffledDirections() {
			next := maze.CellPosition{Row: cur.pos.Row + d.Row, Col: cur.pos.Col + d.Col}
			if g.InBound(next.Row, next.Col) && !g[next.Row][next.Col].IsWall && !visited[next.Row][next.Col] {
				stack = append(stack, node{pos: next, path: extendPath(cur.path, next)})
			}
		}
	}

	metrics.ExecutionTime = time.Since(began)
	emit(onStep, g, metrics)
	return metrics, nil
}
