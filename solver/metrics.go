package solver

import "time"

// ValueFunction holds one learned value per cell, indexed [row][col]. Wall
// cells keep their zero value and are never updated.
type ValueFunction [][]float64

// NewValueFunction allocates a zeroed rows x cols value function.
func NewValueFunction(rows, cols int) ValueFunction {
	vf := make(ValueFunction, rows)
	for r := range vf {
		vf[r] = make([]float64, cols)
	}
	return vf
}

// Clone returns a deep copy of the value function.
func (vf ValueFunction) Clone() ValueFunction {
	clone := make(ValueFunction, len(vf))
	for r, row := range vf {
		clone[r] = make([]float64, len(row))
		copy(clone[r], row)
	}
	return clone
}

// ActionValues holds one value per cardinal action in canonical order:
// up, right, down, left.
type ActionValues [4]float64

// QTable holds per-cell action values, indexed [row][col][action].
type QTable [][]ActionValues

// NewQTable allocates a zeroed rows x cols q-table.
func NewQTable(rows, cols int) QTable {
	qt := make(QTable, rows)
	for r := range qt {
		qt[r] = make([]ActionValues, cols)
	}
	return qt
}

// Clone returns a deep copy of the q-table.
func (qt QTable) Clone() QTable {
	clone := make(QTable, len(qt))
	for r, row := range qt {
		clone[r] = make([]ActionValues, len(row))
		copy(clone[r], row)
	}
	return clone
}

// MonteCarloStats carries the Monte Carlo specific part of a metrics record.
type MonteCarloStats struct {
	ValueFunction     ValueFunction   `json:"value_function"`
	History           []ValueFunction `json:"value_function_history,omitempty"`
	Epsilon           float64         `json:"epsilon"`
	DiscountFactor    float64         `json:"discount_factor"`
	Reward            float64         `json:"reward"`
	StuckPenalty      float64         `json:"stuck_penalty"`
	EpisodesCompleted int             `json:"episodes_completed"`
	TotalEpisodes     int             `json:"total_episodes"`
}

// QLearningStats carries the Q-learning specific part of a metrics record.
type QLearningStats struct {
	QTable            QTable  `json:"q_table"`
	Epsilon           float64 `json:"epsilon"`
	DiscountFactor    float64 `json:"discount_factor"`
	LearningRate      float64 `json:"learning_rate"`
	Reward            float64 `json:"reward"`
	StuckPenalty      float64 `json:"stuck_penalty"`
	EpisodesCompleted int     `json:"episodes_completed"`
	TotalEpisodes     int     `json:"total_episodes"`
}

// Metrics is the terminal record of an engine run. The Algorithm tag
// discriminates which of the optional payloads, if any, is populated.
// "No path found" is a normal outcome encoded here, never an error.
type Metrics struct {
	Algorithm     Algorithm        `json:"algorithm"`
	NodesVisited  int              `json:"nodes_visited"`
	PathLength    int              `json:"path_length"`
	ExecutionTime time.Duration    `json:"execution_time"`
	PathFound     bool             `json:"path_found"`
	MonteCarlo    *MonteCarloStats `json:"monte_carlo,omitempty"`
	QLearning     *QLearningStats  `json:"q_learning,omitempty"`
}

// Clone returns a deep copy of the metrics record, including the
// algorithm-specific payloads.
func (m Metrics) Clone() Metrics {
	clone := m
	if m.MonteCarlo != nil {
		mc := *m.MonteCarlo
		mc.ValueFunction = m.MonteCarlo.ValueFunction.Clone()
		mc.History = make([]ValueFunction, len(m.MonteCarlo.History))
		for i, vf := range m.MonteCarlo.History {
			mc.History[i] = vf.Clone()
		}
		clone.MonteCarlo = &mc
	}
	if m.QLearning != nil {
		ql := *m.QLearning
		ql.QTable = m.QLearning.QTable.Clone()
		clone.QLearning = &ql
	}
	return clone
}
