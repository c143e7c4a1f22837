// Package solver implements the five maze-solving engines (depth-first,
// breadth-first, A*, first-visit Monte Carlo and tabular Q-learning) and the
// step-emission protocol they share. Every engine works on a private clone of
// the caller's grid and reports incremental progress through an optional
// StepFunc callback.
package solver

import (
	"math/rand"

	"github.com/mazelab/solver-api/maze"
)

// Algorithm identifies which engine produced a metrics record.
type Algorithm string

// Supported algorithms.
const (
	AlgorithmDFS        Algorithm = "dfs"
	AlgorithmBFS        Algorithm = "bfs"
	AlgorithmAStar      Algorithm = "astar"
	AlgorithmMonteCarlo Algorithm = "montecarlo"
	AlgorithmQLearning  Algorithm = "qlearning"
)

// Snapshot is an immutable (grid, metrics) pair emitted at defined points
// during a run. Both fields are deep copies: later engine progress never
// mutates a previously emitted snapshot.
type Snapshot struct {
	Grid    maze.Grid `json:"grid"`
	Metrics Metrics   `json:"metrics"`
}

// StepFunc receives step snapshots during a run. A nil StepFunc disables
// emission. The callback's return is ignored and engines never depend on what
// the observer does with a snapshot.
type StepFunc func(Snapshot)

// emit delivers an independent snapshot to the observer, if any.
func emit(onStep StepFunc, g maze.Grid, m Metrics) {
	if onStep == nil {
		return
	}
	onStep(Snapshot{Grid: g.Clone(), Metrics: m.Clone()})
}

// node carries a frontier cell together with the path that reached it.
type node struct {
	pos  maze.CellPosition
	path []maze.CellPosition
}

// extendPath returns a fresh path slice ending in next. Paths are carried per
// frontier node, so sharing backing arrays between siblings would corrupt
// them.
func extendPath(path []maze.CellPosition, next maze.CellPosition) []maze.CellPosition {
	out := make([]maze.CellPosition, len(path)+1)
	copy(out, path)
	out[len(path)] = next
	return out
}

// shuffledDirections returns the four cardinal moves in a fresh random order.
func shuffledDirections() [4]maze.CellPosition {
	dirs := maze.Directions
	rand.Shuffle(len(dirs), func(i, j int) {
		dirs[i], dirs[j] = dirs[j], dirs[i]
	})
	return dirs
}

// openNeighbors returns the in-bounds, non-wall neighbors of pos in canonical
// direction order.
func openNeighbors(g maze.Grid, pos maze.CellPosition) []maze.CellPosition {
	var out []maze.CellPosition
	for _, d := range maze.Directions {
		next := maze.CellPosition{Row: pos.Row + d.Row, Col: pos.Col + d.Col}
		if g.InBound(next.Row, next.Col) && !g[next.Row][next.Col].IsWall {
			out = append(out, next)
		}
	}
	return out
}

// markPath flags every cell along path, excluding the start and end cells.
func markPath(g maze.Grid, path []maze.CellPosition) {
	for _, p := range path {
		if g[p.Row][p.Col].IsStart || g[p.Row][p.Col].IsEnd {
			continue
		}
		g[p.Row][p.Col].IsPath = true
	}
}

// newVisitedGrid allocates a rows x cols visited matrix.
func newVisitedGrid(rows, cols int) [][]bool {
	visited := make([][]bool, rows)
	for r := range visited {
		visited[r] = make([]bool, cols)
	}
	return visited
}
