package solver

import (
	"container/heap"
	"context"
	"math"
	"time"

	"github.com/mazelab/solver-api/maze"
)

// AStarSolver searches the maze with a min-priority queue keyed by
// f = g + h, where h is the Manhattan distance to the end cell. The heuristic
// never overestimates the true cost, so the first pop of the end cell carries
// an optimal path.
type AStarSolver struct{}

// NewAStar returns an A* search engine.
func NewAStar() *AStarSolver {
	return &AStarSolver{}
}

// Algorithm returns the engine's algorithm tag.
func (s *AStarSolver) Algorithm() Algorithm {
	return AlgorithmAStar
}

// astarItem is a priority-queue entry. Entries are never updated in place:
// a better route re-inserts the cell and the stale entry is skipped on pop
// via the closed set.
type astarItem struct {
	pos  maze.CellPosition
	path []maze.CellPosition
	g    int
	f    int
}

type astarQueue []*astarItem

func (q astarQueue) Len() int            { return len(q) }
func (q astarQueue) Less(i, j int) bool  { return q[i].f < q[j].f }
func (q astarQueue) Swap(i, j int)       { q[i], q[j] = q[j], q[i] }
func (q *astarQueue) Push(x interface{}) { *q = append(*q, x.(*astarItem)) }
func (q *astarQueue) Pop() interface{} {
	old := *q
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]
	return item
}

func manhattan(a, b maze.CellPosition) int {
	dr := a.Row - b.Row
	if dr < 0 {
		dr = -dr
	}
	dc := a.Col - b.Col
	if dc < 0 {
		dc = -dc
	}
	return dr + dc
}

// Run executes A* over a private clone of grid, emitting a snapshot per
// expanded node and a final one reflecting the terminal state.
func (s *AStarSolver) Run(ctx context.Context, grid maze.Grid, onStep StepFunc) (Metrics, error) {
	metrics := Metrics{Algorithm: AlgorithmAStar}

	g := grid.Clone()
	start, end, err := maze.FindTerminals(g)
	if err != nil {
		return metrics, err
	}

	began := time.Now()
	closed := newVisitedGrid(g.Rows(), g.Cols())
	gScore := make([][]int, g.Rows())
	for r := range gScore {
		gScore[r] = make([]int, g.Cols())
		for c := range gScore[r] {
			gScore[r][c] = math.MaxInt
		}
	}
	gScore[start.Row][start.Col] = 0

	queue := &astarQueue{{
		pos:  start,
		path: []maze.CellPosition{start},
		g:    0,
		f:    manhattan(start, end),
	}}
	heap.Init(queue)

	for queue.Len() > 0 {
		if err := ctx.Err(); err != nil {
			metrics.ExecutionTime = time.Since(began)
			return metrics, err
		}

		cur := heap.Pop(queue).(*astarItem)
		if closed[cur.pos.Row][cur.pos.Col] {
			continue
		}
		closed[cur.pos.Row][cur.pos.Col] = true
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
			if !g.InBound(next.Row, next.Col) || g[next.Row][next.Col].IsWall || closed[next.Row][next.Col] {
				continue
			}
			// Strict improvement only: equal-cost routes do not re-insert.
			tentative := cur.g + 1
			if tentative >= gScore[next.Row][next.Col] {
				continue
			}
			gScore[next.Row][next.Col] = tentative
			heap.Push(queue, &astarItem{
				pos:  next,
				path: extendPath(cur.path, next),
				g:    tentative,
				f:    tentative + manhattan(next, end),
			})
		}
	}

	metrics.ExecutionTime = time.Since(began)
	emit(onStep, g, metrics)
	return metrics, nil
}
