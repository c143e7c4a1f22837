package solver

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mazelab/solver-api/maze"
)

func TestQLearningParamsValidation(t *testing.T) {
	g := corridorGrid()

	cases := map[string]QLearningParams{
		"zero episodes":      {Episodes: 0, Epsilon: 0.1, DiscountFactor: 0.9, LearningRate: 0.1},
		"epsilon above 1":    {Episodes: 10, Epsilon: 1.5, DiscountFactor: 0.9, LearningRate: 0.1},
		"discount above 1":   {Episodes: 10, Epsilon: 0.1, DiscountFactor: 1.1, LearningRate: 0.1},
		"zero learning rate": {Episodes: 10, Epsilon: 0.1, DiscountFactor: 0.9, LearningRate: 0},
		"learning rate > 1":  {Episodes: 10, Epsilon: 0.1, DiscountFactor: 0.9, LearningRate: 1.5},
	}
	for name, params := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := NewQLearning(params).Run(context.Background(), g, nil)
			assert.ErrorIs(t, err, maze.ErrInvalidParameter)
		})
	}
}

func TestQLearningNumericStability(t *testing.T) {
	g, err := maze.Generate(15, 15)
	require.NoError(t, err)

	params := QLearningParams{
		Episodes:       1000,
		Epsilon:        0.2,
		DiscountFactor: 0.9,
		LearningRate:   0.1,
		Reward:         100,
		StuckPenalty:   -1,
	}
	metrics, err := NewQLearning(params).Run(context.Background(), g, nil)
	require.NoError(t, err)
	require.NotNil(t, metrics.QLearning)

	// Rewards are terminal-only, so every entry stays a convex combination
	// inside [StuckPenalty, Reward].
	for r, row := range metrics.QLearning.QTable {
		for c, values := range row {
			for a, v := range values {
				require.False(t, math.IsNaN(v) || math.IsInf(v, 0), "q(%d,%d)[%d] is not finite", r, c, a)
				assert.GreaterOrEqual(t, v, params.StuckPenalty)
				assert.LessOrEqual(t, v, params.Reward)
			}
		}
	}
	assert.Equal(t, params.Episodes, metrics.QLearning.EpisodesCompleted)
}

func TestQLearningBoxedInStart(t *testing.T) {
	// Only the terminals are open, so no episode can take a single action.
	metrics, err := NewQLearning(QLearningParams{
		Episodes:       10,
		Epsilon:        0.1,
		DiscountFactor: 0.9,
		LearningRate:   0.1,
		Reward:         100,
		StuckPenalty:   -1,
	}).Run(context.Background(), blockedGrid(), nil)
	require.NoError(t, err)

	assert.Zero(t, metrics.NodesVisited)
	for _, row := range metrics.QLearning.QTable {
		for _, values := range row {
			assert.Equal(t, ActionValues{}, values)
		}
	}
}

func TestQLearningProgressReports(t *testing.T) {
	g := corridorGrid()
	params := QLearningParams{
		Episodes:       100,
		Epsilon:        0.2,
		DiscountFactor: 0.9,
		LearningRate:   0.1,
		Reward:         100,
		StuckPenalty:   -1,
	}

	var snapshots []Snapshot
	_, err := NewQLearning(params).Run(context.Background(), g, func(s Snapshot) {
		snapshots = append(snapshots, s)
	})
	require.NoError(t, err)

	// Nineteen in-loop reports (the final episode's is folded into the
	// closing emit) plus the closing emit itself.
	assert.Len(t, snapshots, 20)

	prev := 0
	for _, s := range snapshots {
		assert.Equal(t, g, s.Grid, "training snapshots carry the unmutated grid")
		require.NotNil(t, s.Metrics.QLearning)
		assert.GreaterOrEqual(t, s.Metrics.QLearning.EpisodesCompleted, prev)
		prev = s.Metrics.QLearning.EpisodesCompleted
	}
	assert.Equal(t, params.Episodes, snapshots[len(snapshots)-1].Metrics.QLearning.EpisodesCompleted)
}

func TestQLearningExploration(t *testing.T) {
	g := corridorGrid()
	start, end, err := maze.FindTerminals(g)
	require.NoError(t, err)

	params := QLearningParams{
		Episodes:       300,
		Epsilon:        0.2,
		DiscountFactor: 0.9,
		LearningRate:   0.1,
		Reward:         100,
		StuckPenalty:   -1,
	}
	trained, err := NewQLearning(params).Run(context.Background(), g, nil)
	require.NoError(t, err)

	t.Run("greedy walk follows the learned q-values to the goal", func(t *testing.T) {
		metrics, err := NewQLearningExplorer(trained.QLearning.QTable).Run(context.Background(), g, nil)
		require.NoError(t, err)
		assert.True(t, metrics.PathFound)
		assert.Equal(t, manhattan(start, end), metrics.PathLength)
	})

	t.Run("untrained walk on a dead grid finds nothing", func(t *testing.T) {
		metrics, err := NewQLearningExplorer(NewQTable(5, 5)).Run(context.Background(), blockedGrid(), nil)
		require.NoError(t, err)
		assert.False(t, metrics.PathFound)
		assert.Zero(t, metrics.NodesVisited)
	})

	t.Run("mismatched q-table shape", func(t *testing.T) {
		_, err := NewQLearningExplorer(NewQTable(3, 3)).Run(context.Background(), g, nil)
		assert.ErrorIs(t, err, maze.ErrInvalidParameter)
	})
}
