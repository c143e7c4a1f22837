package solver

import (
	"context"
	"time"

	"github.com/mazelab/solver-api/maze"
)

// BFSSolver explores the maze with a FIFO queue in canonical direction order.
// Because cells are expanded in increasing distance order, the first path to
// reach the end cell is a shortest path in the unweighted grid.
type BFSSolver struct{}

// NewBFS returns a breadth-first search engine.
func NewBFS() *BFSSolver {
	return &BFSSolver{}
}

// Algorithm returns the engine's algorithm tag.
func (s *BFSSolver) Algorithm() Algorithm {
	return AlgorithmBFS
}

// Run executes breadth-first search over a private clone of grid, emitting a
// snapshot per expanded node and a final one reflecting the terminal state.
func (s *BFSSolver) Run(ctx context.Context, grid maze.Grid, onStep StepFunc) (Metrics, error) {
	metrics := Metrics{Algorithm: AlgorithmBFS}

	g := grid.Clone()
	start, end, err := maze.FindTerminals(g)
	if err != nil {
		return metrics, err
	}

	began := time.Now()
	visited := newVisitedGrid(g.Rows(), g.Cols())
	visited[start.Row][start.Col] = true
	queue := []node{{pos: start, path: []maze.CellPosition{start}}}

	for len(queue) > 0 {
		if err := ctx.Err(); err != nil {
			metrics.ExecutionTime = time.Since(began)
			return metrics, err
		}

		cur := queue[0]
		queue = queue[1:]
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

		for _, d := range maze.Directions {
			next := maze.CellPosition{Row: cur.pos.Row + d.Row, Col: cur.pos.Col + d.Col}
			if g.InBound(next.Row, next.Col) && !g[next.Row][next.Col].IsWall && !visited[next.Row][next.Col] {
				visited[next.Row][next.Col] = true
				queue = append(queue, node{pos: next, path: extendPath(cur.path, next)})
			}
		}
	}

	metrics.ExecutionTime = time.Since(began)
	emit(onStep, g, metrics)
	return metrics, nil
}
