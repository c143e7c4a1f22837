package solver

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mazelab/solver-api/maze"
)

func TestMonteCarloParamsValidation(t *testing.T) {
	g := corridorGrid()

	cases := map[string]MonteCarloParams{
		"zero episodes":    {Episodes: 0, Epsilon: 0.1, DiscountFactor: 0.9},
		"epsilon above 1":  {Episodes: 10, Epsilon: 1.5, DiscountFactor: 0.9},
		"negative epsilon": {Episodes: 10, Epsilon: -0.1, DiscountFactor: 0.9},
		"discount above 1": {Episodes: 10, Epsilon: 0.1, DiscountFactor: 1.1},
	}
	for name, params := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := NewMonteCarlo(params).Run(context.Background(), g, nil)
			assert.ErrorIs(t, err, maze.ErrInvalidParameter)
		})
	}
}

func TestMonteCarloValueDiscrimination(t *testing.T) {
	params := MonteCarloParams{
		Episodes:       200,
		Epsilon:        0.0,
		DiscountFactor: 0.9,
		Reward:         100,
		StuckPenalty:   -1,
	}

	connected, err := NewMonteCarlo(params).Run(context.Background(), corridorGrid(), nil)
	require.NoError(t, err)
	blocked, err := NewMonteCarlo(params).Run(context.Background(), blockedGrid(), nil)
	require.NoError(t, err)

	require.NotNil(t, connected.MonteCarlo)
	require.NotNil(t, blocked.MonteCarlo)

	startValueConnected := connected.MonteCarlo.ValueFunction[0][1]
	startValueBlocked := blocked.MonteCarlo.ValueFunction[0][1]
	assert.Greater(t, startValueConnected, startValueBlocked,
		"the value function must discriminate a solvable maze from an unsolvable one")
	assert.Greater(t, startValueConnected, 0.0)
	assert.Less(t, startValueBlocked, 0.0)
}

func TestMonteCarloHistory(t *testing.T) {
	g := corridorGrid()
	params := MonteCarloParams{
		Episodes:       50,
		Epsilon:        0.1,
		DiscountFactor: 0.9,
		Reward:         100,
		StuckPenalty:   -1,
	}

	metrics, err := NewMonteCarlo(params).Run(context.Background(), g, nil)
	require.NoError(t, err)
	stats := metrics.MonteCarlo
	require.NotNil(t, stats)
	require.NotEmpty(t, stats.History)

	t.Run("initial snapshot is zeros plus the pinned goal value", func(t *testing.T) {
		initial := stats.History[0]
		for r := range initial {
			for c := range initial[r] {
				if r == 4 && c == 3 {
					assert.Equal(t, params.Reward, initial[r][c])
					continue
				}
				assert.Zero(t, initial[r][c])
			}
		}
	})

	t.Run("final snapshot matches the learned value function", func(t *testing.T) {
		assert.Equal(t, stats.ValueFunction, stats.History[len(stats.History)-1])
	})

	t.Run("counters are complete", func(t *testing.T) {
		assert.Equal(t, params.Episodes, stats.EpisodesCompleted)
		assert.Equal(t, params.Episodes, stats.TotalEpisodes)
	})
}

func TestMonteCarloTrainingSnapshotsUseOriginalGrid(t *testing.T) {
	g := corridorGrid()
	params := MonteCarloParams{
		Episodes:       30,
		Epsilon:        0.2,
		DiscountFactor: 0.9,
		Reward:         100,
		StuckPenalty:   -1,
	}

	var snapshots []Snapshot
	_, err := NewMonteCarlo(params).Run(context.Background(), g, func(s Snapshot) {
		snapshots = append(snapshots, s)
	})
	require.NoError(t, err)
	require.NotEmpty(t, snapshots)

	for _, s := range snapshots {
		assert.Equal(t, g, s.Grid, "training snapshots carry the unmutated grid")
		require.NotNil(t, s.Metrics.MonteCarlo)
	}
}

func TestMonteCarloExploration(t *testing.T) {
	g := corridorGrid()
	start, end, err := maze.FindTerminals(g)
	require.NoError(t, err)

	params := MonteCarloParams{
		Episodes:       200,
		Epsilon:        0.1,
		DiscountFactor: 0.9,
		Reward:         100,
		StuckPenalty:   -1,
	}
	trained, err := NewMonteCarlo(params).Run(context.Background(), g, nil)
	require.NoError(t, err)

	t.Run("greedy walk follows the learned values to the goal", func(t *testing.T) {
		metrics, err := NewMonteCarloExplorer(trained.MonteCarlo.ValueFunction).Run(context.Background(), g, nil)
		require.NoError(t, err)
		assert.True(t, metrics.PathFound)
		assert.Equal(t, manhattan(start, end), metrics.PathLength)
	})

	t.Run("walk with no moves finishes without a path", func(t *testing.T) {
		vf := NewValueFunction(5, 5)

		var final *Snapshot
		metrics, err := NewMonteCarloExplorer(vf).Run(context.Background(), blockedGrid(), func(s Snapshot) {
			final = &s
		})
		require.NoError(t, err)
		assert.False(t, metrics.PathFound)
		require.NotNil(t, final)
		assertCleanAnnotations(t, final.Grid)
	})

	t.Run("mismatched value function shape", func(t *testing.T) {
		vf := NewValueFunction(3, 3)
		_, err := NewMonteCarloExplorer(vf).Run(context.Background(), g, nil)
		assert.ErrorIs(t, err, maze.ErrInvalidParameter)
	})
}
