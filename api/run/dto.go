// Package runapi provides structures and utilities for managing maze
// generation and solver-run requests and responses.
package runapi

import (
	"github.com/google/uuid"
	"github.com/mazelab/solver-api/maze"
	"github.com/mazelab/solver-api/service/i"
	"github.com/mazelab/solver-api/solver"
)

// Learner hyperparameter defaults, applied when a request omits them.
const (
	defaultEpisodes       = 200
	defaultEpsilon        = 0.2
	defaultDiscountFactor = 0.9
	defaultLearningRate   = 0.1
	defaultReward         = 100.0
	defaultStuckPenalty   = -1.0
)

// CreateMazeRequest represents a request to generate a new maze. The binding
// tags perform the caller-side validation the core assumes has happened.
type CreateMazeRequest struct {
	Rows int `json:"rows" binding:"required,gte=5,lte=30"`
	Cols int `json:"cols" binding:"required,gte=5,lte=30"`
}

// CreateMazeResponse carries the registered maze.
type CreateMazeResponse struct {
	ID   uuid.UUID `json:"id"`
	Grid maze.Grid `json:"grid"`
}

// StartRunRequest represents a request to launch a solver or exploration run.
// The learner hyperparameters are pointers so omitted values fall back to
// defaults instead of zero.
type StartRunRequest struct {
	MazeID         uuid.UUID `json:"maze_id" binding:"required"`
	Algorithm      string    `json:"algorithm" binding:"required,oneof=dfs bfs astar montecarlo qlearning montecarlo-explore qlearning-explore"`
	Episodes       *int      `json:"episodes" binding:"omitempty,gte=1"`
	Epsilon        *float64  `json:"epsilon" binding:"omitempty,gte=0,lte=1"`
	DiscountFactor *float64  `json:"discount_factor" binding:"omitempty,gte=0,lte=1"`
	LearningRate   *float64  `json:"learning_rate" binding:"omitempty,gt=0,lte=1"`
	Reward         *float64  `json:"reward"`
	StuckPenalty   *float64  `json:"stuck_penalty"`

	// SourceRunID names the finished learner run whose value function or
	// q-table an exploration run should follow.
	SourceRunID *uuid.UUID `json:"source_run_id"`
}

// StartRunResponse carries the id of the launched run.
type StartRunResponse struct {
	RunID uuid.UUID `json:"run_id"`
}

// RunStatusResponse represents the last observed state of a run.
type RunStatusResponse struct {
	ID        uuid.UUID        `json:"id"`
	Algorithm solver.Algorithm `json:"algorithm"`
	Done      bool             `json:"done"`
	Error     string           `json:"error,omitempty"`
	Snapshot  *solver.Snapshot `json:"snapshot,omitempty"`
	Metrics   *solver.Metrics  `json:"metrics,omitempty"`
}

// ScoreboardResponse lists the best runs of one algorithm.
type ScoreboardResponse struct {
	Algorithm solver.Algorithm `json:"algorithm"`
	Entries   []i.ScoreEntry   `json:"entries"`
}

func (r *StartRunRequest) episodes() int {
	if r.Episodes != nil {
		return *r.Episodes
	}
	return defaultEpisodes
}

func (r *StartRunRequest) epsilon() float64 {
	if r.Epsilon != nil {
		return *r.Epsilon
	}
	return defaultEpsilon
}

func (r *StartRunRequest) discountFactor() float64 {
	if r.DiscountFactor != nil {
		return *r.DiscountFactor
	}
	return defaultDiscountFactor
}

func (r *StartRunRequest) learningRate() float64 {
	if r.LearningRate != nil {
		return *r.LearningRate
	}
	return defaultLearningRate
}

func (r *StartRunRequest) reward() float64 {
	if r.Reward != nil {
		return *r.Reward
	}
	return defaultReward
}

func (r *StartRunRequest) stuckPenalty() float64 {
	if r.StuckPenalty != nil {
		return *r.StuckPenalty
	}
	return defaultStuckPenalty
}
