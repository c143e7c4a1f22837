package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/google/uuid"
	"github.com/mazelab/solver-api/config"
	"github.com/mazelab/solver-api/maze"
	"github.com/mazelab/solver-api/service/i"
	"github.com/mazelab/solver-api/solver"
)

const scoreboardKeyFmt = "solver:scores:%s"

// Run management errors.
var (
	ErrMazeNotFound   = errors.New("maze not found")
	ErrRunNotFound    = errors.New("run not found")
	ErrRunNotFinished = errors.New("run has not finished")
	ErrRunFailed      = errors.New("run finished with an error")
)

// runSession tracks one engine run for its whole lifetime.
type runSession struct {
	id        uuid.UUID
	algorithm solver.Algorithm
	cancel    context.CancelFunc
	latest    *solver.Snapshot
	final     *solver.Metrics
	err       error
	done      bool
}

// RunManager owns the generated mazes and solver runs of the current session.
// Every run gets a cancellable context and a goroutine of its own; the latest
// step snapshot is retained per run so observers can poll progress, and
// finished runs are recorded on the scoreboard.
type RunManager struct {
	mazes       map[uuid.UUID]maze.Grid
	runs        map[uuid.UUID]*runSession
	finished    []solver.Metrics
	mazeFactory func(int, int) (maze.Grid, error)
	scoreboard  i.SortedScoreboard
	logger      *log.Logger
	sync.RWMutex
}

// Config holds configuration settings for creating a RunManager.
type Config struct {
	MazeFactory func(int, int) (maze.Grid, error)
	Scoreboard  i.SortedScoreboard
	Logger      *log.Logger
}

// NewRunManager creates a RunManager with the given configuration. The maze
// factory defaults to maze.Generate.
func NewRunManager(c *Config) (*RunManager, error) {
	if c.Logger == nil {
		return nil, errors.New("run manager requires a logger")
	}

	factory := c.MazeFactory
	if factory == nil {
		factory = maze.Generate
	}

	return &RunManager{
		mazes:       make(map[uuid.UUID]maze.Grid),
		runs:        make(map[uuid.UUID]*runSession),
		mazeFactory: factory,
		scoreboard:  c.Scoreboard,
		logger:      c.Logger,
	}, nil
}

// CreateMaze generates and registers a maze, returning its id and a clone of
// the grid.
func (rm *RunManager) CreateMaze(rows, cols int) (uuid.UUID, maze.Grid, error) {
	grid, err := rm.mazeFactory(rows, cols)
	if err != nil {
		return uuid.Nil, nil, err
	}

	rm.Lock()
	defer rm.Unlock()
	id := uuid.New()
	for {
		if _, ok := rm.mazes[id]; !ok {
			break
		}
		id = uuid.New()
	}
	rm.mazes[id] = grid
	rm.logger.Printf("%s[INFO]%s registered %dx%d maze: %s", config.LogInfoColor, config.LogColorReset, rows, cols, id)
	return id, grid.Clone(), nil
}

// StartRun launches the engine on the identified maze in its own goroutine
// and returns the run id.
func (rm *RunManager) StartRun(mazeID uuid.UUID, engine i.Engine) (uuid.UUID, error) {
	rm.Lock()
	grid, ok := rm.mazes[mazeID]
	if !ok {
		rm.Unlock()
		return uuid.Nil, ErrMazeNotFound
	}

	ctx, cancel := context.WithCancel(context.Background())
	sess := &runSession{
		algorithm: engine.Algorithm(),
		cancel:    cancel,
	}
	id := uuid.New()
	for {
		if _, exists := rm.runs[id]; !exists {
			break
		}
		id = uuid.New()
	}
	sess.id = id
	rm.runs[id] = sess
	rm.Unlock()

	go rm.runEngine(ctx, sess, engine, grid.Clone())
	rm.logger.Printf("%s[INFO]%s started %s run: %s", config.LogInfoColor, config.LogColorReset, sess.algorithm, id)
	return id, nil
}

// runEngine drives one engine run to completion and records the outcome.
func (rm *RunManager) runEngine(ctx context.Context, sess *runSession, engine i.Engine, grid maze.Grid) {
	onStep := func(s solver.Snapshot) {
		rm.Lock()
		sess.latest = &s
		rm.Unlock()
	}

	metrics, err := engine.Run(ctx, grid, onStep)

	rm.Lock()
	sess.final = &metrics
	sess.err = err
	sess.done = true
	if err == nil {
		rm.finished = append(rm.finished, metrics)
	}
	rm.Unlock()

	if err != nil {
		rm.logger.Printf("%s[ERROR]%s %s run %s: %s", config.LogErrorColor, config.LogColorReset, sess.algorithm, sess.id, err)
		return
	}

	if rm.scoreboard != nil {
		boardKey := fmt.Sprintf(scoreboardKeyFmt, sess.algorithm)
		score := metrics.ExecutionTime.Seconds()
		if recordErr := rm.scoreboard.Record(ctx, boardKey, score, sess.id.String()); recordErr != nil {
			rm.logger.Printf("%s[ERROR]%s recording %s run on scoreboard: %s", config.LogErrorColor, config.LogColorReset, sess.algorithm, recordErr)
		}
	}

	rm.logger.Printf("%s[INFO]%s finished %s run %s: visited=%d pathFound=%t", config.LogInfoColor, config.LogColorReset,
		sess.algorithm, sess.id, metrics.NodesVisited, metrics.PathFound)
}

// RunStatus reports the last observed state of a run. Snapshot and metrics
// are deep copies.
func (rm *RunManager) RunStatus(id uuid.UUID) (i.RunStatus, error) {
	rm.RLock()
	defer rm.RUnlock()
	sess, ok := rm.runs[id]
	if !ok {
		return i.RunStatus{}, ErrRunNotFound
	}

	status := i.RunStatus{
		ID:        sess.id,
		Algorithm: sess.algorithm,
		Done:      sess.done,
		Err:       sess.err,
	}
	if sess.latest != nil {
		snap := solver.Snapshot{
			Grid:    sess.latest.Grid.Clone(),
			Metrics: sess.latest.Metrics.Clone(),
		}
		status.Latest = &snap
	}
	if sess.final != nil {
		final := sess.final.Clone()
		status.Final = &final
	}
	return status, nil
}

// FinalMetrics returns the terminal metrics of a finished run, including the
// learned value function or q-table for learner runs.
func (rm *RunManager) FinalMetrics(id uuid.UUID) (solver.Metrics, error) {
	rm.RLock()
	defer rm.RUnlock()
	sess, ok := rm.runs[id]
	if !ok {
		return solver.Metrics{}, ErrRunNotFound
	}
	if !sess.done {
		return solver.Metrics{}, ErrRunNotFinished
	}
	if sess.err != nil {
		return solver.Metrics{}, fmt.Errorf("%w: %s", ErrRunFailed, sess.err)
	}
	return sess.final.Clone(), nil
}

// CancelRun cancels a run; the engine notices between steps.
func (rm *RunManager) CancelRun(id uuid.UUID) error {
	rm.RLock()
	defer rm.RUnlock()
	sess, ok := rm.runs[id]
	if !ok {
		return ErrRunNotFound
	}
	sess.cancel()
	return nil
}

// TopScores lists the best finished runs of one algorithm.
func (rm *RunManager) TopScores(ctx context.Context, algorithm solver.Algorithm, amount int64) ([]i.ScoreEntry, error) {
	if rm.scoreboard == nil {
		return nil, nil
	}
	return rm.scoreboard.TopScores(ctx, fmt.Sprintf(scoreboardKeyFmt, algorithm), amount)
}

// StopAll cancels every run still going.
func (rm *RunManager) StopAll() {
	rm.Lock()
	defer rm.Unlock()
	for _, sess := range rm.runs {
		if !sess.done {
			sess.cancel()
		}
	}
}
