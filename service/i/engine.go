package i

import (
	"context"

	"github.com/mazelab/solver-api/maze"
	"github.com/mazelab/solver-api/solver"
)

// Engine is a uniform handle over the solver and exploration engines.
type Engine interface {
	// Algorithm returns the engine's algorithm tag.
	Algorithm() solver.Algorithm

	// Run executes the engine over a private clone of grid, delivering step
	// snapshots to onStep, and returns the terminal metrics record.
	Run(ctx context.Context, grid maze.Grid, onStep solver.StepFunc) (solver.Metrics, error)
}
