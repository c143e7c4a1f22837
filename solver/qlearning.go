package solver

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/mazelab/solver-api/maze"
)

// QLearningParams are the hyperparameters of a Q-learning training run.
type QLearningParams struct {
	Episodes       int
	Epsilon        float64
	DiscountFactor float64
	LearningRate   float64
	Reward         float64
	StuckPenalty   float64
}

func (p QLearningParams) validate() error {
	if p.Episodes < 1 {
		return fmt.Errorf("%w: episodes must be at least 1, got %d", maze.ErrInvalidParameter, p.Episodes)
	}
	if p.Epsilon < 0 || p.Epsilon > 1 {
		return fmt.Errorf("%w: epsilon must be in [0,1], got %f", maze.ErrInvalidParameter, p.Epsilon)
	}
	if p.DiscountFactor < 0 || p.DiscountFactor > 1 {
		return fmt.Errorf("%w: discount factor must be in [0,1], got %f", maze.ErrInvalidParameter, p.DiscountFactor)
	}
	if p.LearningRate <= 0 || p.LearningRate > 1 {
		return fmt.Errorf("%w: learning rate must be in (0,1], got %f", maze.ErrInvalidParameter, p.LearningRate)
	}
	return nil
}

// QLearningSolver learns a 4-action q-table with one-step temporal-difference
// updates. An episode with no valid action from the current state ends
// immediately with no reward, while moving into a dead-end non-goal state
// earns the stuck penalty.
type QLearningSolver struct {
	params QLearningParams
}

// NewQLearning returns a Q-learning training engine.
func NewQLearning(params QLearningParams) *QLearningSolver {
	return &QLearningSolver{params: params}
}

// Algorithm returns the engine's algorithm tag.
func (s *QLearningSolver) Algorithm() Algorithm {
	return AlgorithmQLearning
}

// Run trains the q-table over the configured number of episodes. Progress is
// reported roughly twenty times across the run plus once on the final
// episode, each report carrying the original unmutated grid.
func (s *QLearningSolver) Run(ctx context.Context, grid maze.Grid, onStep StepFunc) (Metrics, error) {
	metrics := Metrics{Algorithm: AlgorithmQLearning}
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
	qt := NewQTable(rows, cols)

	stats := &QLearningStats{
		QTable:         qt,
		Epsilon:        s.params.Epsilon,
		DiscountFactor: s.params.DiscountFactor,
		LearningRate:   s.params.LearningRate,
		Reward:         s.params.Reward,
		StuckPenalty:   s.params.StuckPenalty,
		TotalEpisodes:  s.params.Episodes,
	}
	metrics.QLearning = stats

	budget := rows * cols * 2
	interval := s.params.Episodes / 20
	if interval < 1 {
		interval = 1
	}

	for ep := 0; ep < s.params.Episodes; ep++ {
		if err := ctx.Err(); err != nil {
			metrics.ExecutionTime = time.Since(began)
			return metrics, err
		}

		cur := start
		for step := 0; step < budget; step++ {
			actions := validActions(g, cur)
			if len(actions) == 0 {
				// Boxed in: the episode ends with no reward applied.
				break
			}

			var action int
			if rand.Float64() < s.params.Epsilon {
				action = actions[rand.Intn(len(actions))]
			} else {
				action = bestAction(qt[cur.Row][cur.Col], actions)
			}
			next := maze.CellPosition{
				Row: cur.Row + maze.Directions[action].Row,
				Col: cur.Col + maze.Directions[action].Col,
			}

			reward := 0.0
			terminal := false
			if next == end {
				reward = s.params.Reward
				terminal = true
			} else if len(validActions(g, next)) == 0 {
				reward = s.params.StuckPenalty
				terminal = true
			}

			maxNext := 0.0
			if !terminal {
				maxNext = maxActionValue(qt[next.Row][next.Col])
			}
			q := qt[cur.Row][cur.Col][action]
			qt[cur.Row][cur.Col][action] = q + s.params.LearningRate*(reward+s.params.DiscountFactor*maxNext-q)

			metrics.NodesVisited++
			cur = next
			if terminal {
				break
			}
		}

		stats.EpisodesCompleted = ep + 1
		if (ep+1)%interval == 0 && ep != s.params.Episodes-1 {
			metrics.ExecutionTime = time.Since(began)
			emit(onStep, g, metrics)
		}
	}

	metrics.ExecutionTime = time.Since(began)
	emit(onStep, g, metrics)
	return metrics, nil
}

// validActions returns the indices of the cardinal moves leading into
// in-bounds, non-wall cells.
func validActions(g maze.Grid, pos maze.CellPosition) []int {
	var actions []int
	for i, d := range maze.Directions {
		row, col := pos.Row+d.Row, pos.Col+d.Col
		if g.InBound(row, col) && !g[row][col].IsWall {
			actions = append(actions, i)
		}
	}
	return actions
}

// bestAction returns the valid action with the highest q-value, breaking ties
// uniformly at random.
func bestAction(values ActionValues, actions []int) int {
	best := actions[0]
	bestValue := values[best]
	tied := 1
	for _, a := range actions[1:] {
		if values[a] > bestValue {
			best, bestValue, tied = a, values[a], 1
		} else if values[a] == bestValue {
			tied++
			if rand.Intn(tied) == 0 {
				best = a
			}
		}
	}
	return best
}

// maxActionValue returns the highest of the four action values.
func maxActionValue(values ActionValues) float64 {
	max := values[0]
	for _, v := range values[1:] {
		if v > max {
			max = v
		}
	}
	return max
}

// QLearningExplorer follows a learned q-table greedily from start. The walk
// ends at the goal, when no valid action exists, or on entering a cell
// already visited during the walk; the loop guard fires after moving, so the
// repeated cell is part of the marked trace.
type QLearningExplorer struct {
	qt QTable
}

// NewQLearningExplorer returns a greedy-exploration engine over a learned
// q-table.
func NewQLearningExplorer(qt QTable) *QLearningExplorer {
	return &QLearningExplorer{qt: qt}
}

// Algorithm returns the engine's algorithm tag.
func (e *QLearningExplorer) Algorithm() Algorithm {
	return AlgorithmQLearningExplore
}

// Run walks the grid greedily by learned q-values, emitting a snapshot per
// step.
func (e *QLearningExplorer) Run(ctx context.Context, grid maze.Grid, onStep StepFunc) (Metrics, error) {
	metrics := Metrics{Algorithm: AlgorithmQLearningExplore}

	g := grid.Clone()
	start, end, err := maze.FindTerminals(g)
	if err != nil {
		return metrics, err
	}
	if len(e.qt) != g.Rows() || len(e.qt[0]) != g.Cols() {
		return metrics, fmt.Errorf("%w: q-table shape does not match grid", maze.ErrInvalidParameter)
	}

	began := time.Now()
	visited := newVisitedGrid(g.Rows(), g.Cols())
	visited[start.Row][start.Col] = true
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

		actions := validActions(g, cur)
		if len(actions) == 0 {
			break
		}
		action := bestAction(e.qt[cur.Row][cur.Col], actions)
		cur = maze.CellPosition{
			Row: cur.Row + maze.Directions[action].Row,
			Col: cur.Col + maze.Directions[action].Col,
		}
		steps++
		g[cur.Row][cur.Col].IsVisited = true
		if !g[cur.Row][cur.Col].IsStart && !g[cur.Row][cur.Col].IsEnd {
			g[cur.Row][cur.Col].IsPath = true
		}
		metrics.NodesVisited++
		metrics.PathLength = steps
		metrics.ExecutionTime = time.Since(began)
		emit(onStep, g, metrics)

		if visited[cur.Row][cur.Col] {
			break
		}
		visited[cur.Row][cur.Col] = true
	}

	metrics.ExecutionTime = time.Since(began)
	emit(onStep, g, metrics)
	return metrics, nil
}
