package solver

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/mazelab/solver-api/maze"
)

// Exploration runs reuse the learner tags with an explicit suffix so the
// serving layer can discriminate them.
const (
	AlgorithmMonteCarloExplore Algorithm = "montecarlo-explore"
	AlgorithmQLearningExplore  Algorithm = "qlearning-explore"
)

// episode outcomes
const (
	outcomeGoal = iota
	outcomeStuck
	outcomeMaxSteps
)

// MonteCarloParams are the hyperparameters of a Monte Carlo training run.
type MonteCarloParams struct {
	Episodes       int
	Epsilon        float64
	DiscountFactor float64
	Reward         float64
	StuckPenalty   float64
}

func (p MonteCarloParams) validate() error {
	if p.Episodes < 1 {
		return fmt.Errorf("%w: episodes must be at least 1, got %d", maze.ErrInvalidParameter, p.Episodes)
	}
	if p.Epsilon < 0 || p.Epsilon > 1 {
		return fmt.Errorf("%w: epsilon must be in [0,1], got %f", maze.ErrInvalidParameter, p.Epsilon)
	}
	if p.DiscountFactor < 0 || p.DiscountFactor > 1 {
		return fmt.Errorf("%w: discount factor must be in [0,1], got %f", maze.ErrInvalidParameter, p.DiscountFactor)
	}
	return nil
}

// MonteCarloSolver learns a state-value function with first-visit Monte Carlo
// sampling. Rewards are terminal-only: reaching the goal earns the configured
// reward, ending an episode with no unvisited move earns the stuck penalty,
// and exhausting the step budget earns nothing.
type MonteCarloSolver struct {
	params MonteCarloParams
}

// NewMonteCarlo returns a Monte Carlo training engine.
func NewMonteCarlo(params MonteCarloParams) *MonteCarloSolver {
	return &MonteCarloSolver{params: params}
}

// Algorithm returns the engine's algorithm tag.
func (s *MonteCarloSolver) Algorithm() Algorithm {
	return AlgorithmMonteCarlo
}

// snapshotInterval picks the archiving cadence for the value-function
// history: every episode up to 20 episodes, ~20 snapshots up to 100, ~100
// beyond that.
func snapshotInterval(episodes int) int {
	switch {
	case episodes <= 20:
		return 1
	case episodes <= 100:
		return episodes / 20
	default:
		return episodes / 100
	}
}

// Run trains the value function over the configured number of episodes.
// Training snapshots are metrics-only progress reports: no single grid state
// represents progress across many episodes, so each one carries the original
// unmutated grid.
func (s *MonteCarloSolver) Run(ctx context.Context, grid maze.Grid, onStep StepFunc) (Metrics, error) {
	metrics := Metrics{Algorithm: AlgorithmMonteCarlo}
	if err := s.params.validate(); err != nil {
		return metrics, err
	}

	g := grid.Clone()
	start, end, err := maze.FindTerminals(g)
	if err != nil {
		return metrics, err
	}

	began := time.Now()
	rows, cols := g.Rows(), g.Cols()
	vf := NewValueFunction(rows, cols)
	vf[end.Row][end.Col] = s.params.Reward
	visitCounts := make([][]int, rows)
	for r := range visitCounts {
		visitCounts[r] = make([]int, cols)
	}

	stats := &MonteCarloStats{
		ValueFunction:  vf,
		Epsilon:        s.params.Epsilon,
		DiscountFactor: s.params.DiscountFactor,
		Reward:         s.params.Reward,
		StuckPenalty:   s.params.StuckPenalty,
		TotalEpisodes:  s.params.Episodes,
	}
	metrics.MonteCarlo = stats

	// The initial all-zeros-plus-goal snapshot is always archived.
	stats.History = append(stats.History, vf.Clone())

	budget := rows * cols * 2
	interval := snapshotInterval(s.params.Episodes)
	lastArchived := -1

	for ep := 0; ep < s.params.Episodes; ep++ {
		if err := ctx.Err(); err != nil {
			metrics.ExecutionTime = time.Since(began)
			return metrics, err
		}

		trajectory, outcome := s.runEpisode(g, start, end, vf, budget)

		terminalReward := 0.0
		switch outcome {
		case outcomeGoal:
			terminalReward = s.params.Reward
		case outcomeStuck:
			terminalReward = s.params.StuckPenalty
		}

		s.updateValues(vf, visitCounts, trajectory, terminalReward, end)

		metrics.NodesVisited += len(trajectory) - 1
		stats.EpisodesCompleted = ep + 1

		if ep < 20 || (ep+1)%interval == 0 {
			stats.History = append(stats.History, vf.Clone())
			lastArchived = ep
			if ep != s.params.Episodes-1 {
				metrics.ExecutionTime = time.Since(began)
				emit(onStep, g, metrics)
			}
		}
	}

	if lastArchived != s.params.Episodes-1 {
		stats.History = append(stats.History, vf.Clone())
	}

	metrics.ExecutionTime = time.Since(began)
	emit(onStep, g, metrics)
	return metrics, nil
}

// runEpisode samples one trajectory from start. Moves are restricted to cells
// not yet visited in the current episode; the epsilon-greedy policy picks a
// uniform random valid move with probability epsilon, otherwise the
// highest-valued one with uniform tie-breaking.
func (s *MonteCarloSolver) runEpisode(g maze.Grid, start, end maze.CellPosition, vf ValueFunction, budget int) ([]maze.CellPosition, int) {
	visited := newVisitedGrid(g.Rows(), g.Cols())
	visited[start.Row][start.Col] = true
	trajectory := []maze.CellPosition{start}
	cur := start

	for step := 0; step < budget; step++ {
		var moves []maze.CellPosition
		for _, next := range openNeighbors(g, cur) {
			if !visited[next.Row][next.Col] {
				moves = append(moves, next)
			}
		}
		if len(moves) == 0 {
			return trajectory, outcomeStuck
		}

		var next maze.CellPosition
		if rand.Float64() < s.params.Epsilon {
			next = moves[rand.Intn(len(moves))]
		} else {
			next = bestValuedMove(vf, moves)
		}

		visited[next.Row][next.Col] = true
		trajectory = append(trajectory, next)
		cur = next
		if cur == end {
			return trajectory, outcomeGoal
		}
	}

	return trajectory, outcomeMaxSteps
}

// updateValues computes backward discounted returns with the terminal reward
// on the final transition only, then applies the first-visit running-average
// update. The goal cell keeps its pinned reward value.
func (s *MonteCarloSolver) updateValues(vf ValueFunction, visitCounts [][]int, trajectory []maze.CellPosition, terminalReward float64, end maze.CellPosition) {
	returns := make([]float64, len(trajectory))
	g := 0.0
	for i := len(trajectory) - 1; i >= 0; i-- {
		reward := 0.0
		if i == len(trajectory)-1 {
			reward = terminalReward
		}
		g = reward + s.params.DiscountFactor*g
		returns[i] = g
	}

	seen := newVisitedGrid(len(vf), len(vf[0]))
	for i, pos := range trajectory {
		if seen[pos.Row][pos.Col] {
			continue
		}
		seen[pos.Row][pos.Col] = true
		if pos == end {
			continue
		}
		visitCounts[pos.Row][pos.Col]++
		count := float64(visitCounts[pos.Row][pos.Col])
		vf[pos.Row][pos.Col] += (returns[i] - vf[pos.Row][pos.Col]) / count
	}
}

// bestValuedMove returns the move with the highest value, breaking ties
// uniformly at random.
func bestValuedMove(vf ValueFunction, moves []maze.CellPosition) maze.CellPosition {
	best := moves[0]
	bestValue := vf[best.Row][best.Col]
	tied := 1
	for _, m := range moves[1:] {
		v := vf[m.Row][m.Col]
		if v > bestValue {
			best, bestValue, tied = m, v, 1
		} else if v == bestValue {
			tied++
			if rand.Intn(tied) == 0 {
				best = m
			}
		}
	}
	return best
}

// MonteCarloExplorer follows a learned value function greedily from start.
// The walk ends at the goal, on the first repeated cell, when no move exists
// or when the step budget runs out; walked cells are marked as path either
// way so a failed walk stays inspectable.
type MonteCarloExplorer struct {
	vf ValueFunction
}

// NewMonteCarloExplorer returns a greedy-exploration engine over a learned
// value function.
func NewMonteCarloExplorer(vf ValueFunction) *MonteCarloExplorer {
	return &MonteCarloExplorer{vf: vf}
}

// Algorithm returns the engine's algorithm tag.
func (e *MonteCarloExplorer) Algorithm() Algorithm {
	return AlgorithmMonteCarloExplore
}

// Run walks the grid greedily by learned value, emitting a snapshot per step.
func (e *MonteCarloExplorer) Run(ctx context.Context, grid maze.Grid, onStep StepFunc) (Metrics, error) {
	metrics := Metrics{Algorithm: AlgorithmMonteCarloExplore}

	g := grid.Clone()
	start, end, err := maze.FindTerminals(g)
	if err != nil {
		return metrics, err
	}
	if len(e.vf) != g.Rows() || len(e.vf[0]) != g.Cols() {
		return metrics, fmt.Errorf("%w: value function shape does not match grid", maze.ErrInvalidParameter)
	}

	began := time.Now()
	budget := g.Rows() * g.Cols() * 2
	visited := newVisitedGrid(g.Rows(), g.Cols())
	g[start.Row][start.Col].IsVisited = true
	cur := start
	steps := 0

	for {
		if err := ctx.Err(); err != nil {
			metrics.ExecutionTime = time.Since(began)
			return metrics, err
		}
		if cur == end {
			metrics.PathFound = true
			break
		}
		if steps >= budget {
			break
		}

		moves := openNeighbors(g, cur)
		if len(moves) == 0 {
			break
		}
		next := bestValuedMove(e.vf, moves)
		if visited[next.Row][next.Col] {
			break
		}

		// The start cell only becomes guarded after the first move.
		visited[cur.Row][cur.Col] = true
		cur = next
		steps++
		g[cur.Row][cur.Col].IsVisited = true
		if !g[cur.Row][cur.Col].IsStart && !g[cur.Row][cur.Col].IsEnd {
			g[cur.Row][cur.Col].IsPath = true
		}
		metrics.NodesVisited++
		metrics.PathLength = steps
		metrics.ExecutionTime = time.Since(began)
		emit(onStep, g, metrics)
	}

	metrics.ExecutionTime = time.Since(began)
	emit(onStep, g, metrics)
	return metrics, nil
}
