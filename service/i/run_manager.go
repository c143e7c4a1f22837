package i

import (
	"context"

	"github.com/google/uuid"
	"github.com/mazelab/solver-api/maze"
	"github.com/mazelab/solver-api/solver"
)

// RunStatus describes a run as last observed: the most recent step snapshot
// while the engine is working, plus the terminal metrics once it is done.
type RunStatus struct {
	ID        uuid.UUID
	Algorithm solver.Algorithm
	Done      bool
	Err       error
	Latest    *solver.Snapshot
	Final     *solver.Metrics
}

// AlgorithmSummary aggregates the finished runs of one algorithm.
type AlgorithmSummary struct {
	Algorithm            solver.Algorithm `json:"algorithm"`
	Runs                 int              `json:"runs"`
	PathFoundRate        float64          `json:"path_found_rate"`
	MeanNodesVisited     float64          `json:"mean_nodes_visited"`
	StdDevNodesVisited   float64          `json:"stddev_nodes_visited"`
	MeanPathLength       float64          `json:"mean_path_length"`
	MeanExecutionSeconds float64          `json:"mean_execution_seconds"`
}

// RunManager owns generated mazes and solver runs for the current session.
type RunManager interface {
	// CreateMaze generates and registers a maze, returning its id and grid.
	CreateMaze(rows, cols int) (uuid.UUID, maze.Grid, error)

	// StartRun launches the engine on the identified maze and returns the
	// run id.
	StartRun(mazeID uuid.UUID, engine Engine) (uuid.UUID, error)

	// RunStatus reports the last observed state of a run.
	RunStatus(id uuid.UUID) (RunStatus, error)

	// FinalMetrics returns the terminal metrics of a finished run.
	FinalMetrics(id uuid.UUID) (solver.Metrics, error)

	// CancelRun cancels a run between steps.
	CancelRun(id uuid.UUID) error

	// Summary aggregates finished runs per algorithm.
	Summary() []AlgorithmSummary

	// TopScores lists the best finished runs of one algorithm.
	TopScores(ctx context.Context, algorithm solver.Algorithm, amount int64) ([]ScoreEntry, error)
}
