package runapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/mazelab/solver-api/service/i"
	"github.com/mazelab/solver-api/solver"
)

const defaultScoreboardSize = 10

// SolverController manages maze generation and solver runs over HTTP.
type SolverController struct {
	runManager i.RunManager
}

// NewSolverController initializes a SolverController.
func NewSolverController(rm i.RunManager) (*SolverController, error) {
	if rm == nil {
		return nil, errors.New("solver controller requires a run manager")
	}
	return &SolverController{runManager: rm}, nil
}

// Register registers the maze and run routes.
func (sc *SolverController) Register(route *gin.RouterGroup) {
	mazes := route.Group("/mazes")
	{
		mazes.POST("/", sc.createMaze)
	}

	runs := route.Group("/runs")
	{
		runs.POST("/", sc.startRun)
		runs.GET("/summary", sc.summary)
		runs.GET("/:ID", sc.runStatus)
		runs.DELETE("/:ID", sc.cancelRun)
	}

	route.GET("/scoreboard/:algorithm", sc.scoreboard)
}

// createMaze handles maze generation requests.
func (sc *SolverController) createMaze(ctx *gin.Context) {
	var request CreateMazeRequest
	if err := ctx.ShouldBind(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	id, grid, err := sc.runManager.CreateMaze(request.Rows, request.Cols)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "error while generating maze"})
		return
	}

	ctx.JSON(http.StatusCreated, CreateMazeResponse{ID: id, Grid: grid})
}

// startRun handles solver-run launch requests.
func (sc *SolverController) startRun(ctx *gin.Context) {
	var request StartRunRequest
	if err := ctx.ShouldBind(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	engine, err := sc.buildEngine(&request)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	runID, err := sc.runManager.StartRun(request.MazeID, engine)
	if err != nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusAccepted, StartRunResponse{RunID: runID})
}

// buildEngine maps a validated request onto a solver engine. Exploration
// algorithms need the learned table of a finished source run.
func (sc *SolverController) buildEngine(request *StartRunRequest) (i.Engine, error) {
	switch solver.Algorithm(request.Algorithm) {
	case solver.AlgorithmDFS:
		return solver.NewDFS(), nil
	case solver.AlgorithmBFS:
		return solver.NewBFS(), nil
	case solver.AlgorithmAStar:
		return solver.NewAStar(), nil
	case solver.AlgorithmMonteCarlo:
		return solver.NewMonteCarlo(solver.MonteCarloParams{
			Episodes:       request.episodes(),
			Epsilon:        request.epsilon(),
			DiscountFactor: request.discountFactor(),
			Reward:         request.reward(),
			StuckPenalty:   request.stuckPenalty(),
		}), nil
	case solver.AlgorithmQLearning:
		return solver.NewQLearning(solver.QLearningParams{
			Episodes:       request.episodes(),
			Epsilon:        request.epsilon(),
			DiscountFactor: request.discountFactor(),
			LearningRate:   request.learningRate(),
			Reward:         request.reward(),
			StuckPenalty:   request.stuckPenalty(),
		}), nil
	case solver.AlgorithmMonteCarloExplore:
		metrics, err := sc.sourceMetrics(request)
		if err != nil {
			return nil, err
		}
		if metrics.MonteCarlo == nil {
			return nil, errors.New("source run is not a monte carlo run")
		}
		return solver.NewMonteCarloExplorer(metrics.MonteCarlo.ValueFunction), nil
	case solver.AlgorithmQLearningExplore:
		metrics, err := sc.sourceMetrics(request)
		if err != nil {
			return nil, err
		}
		if metrics.QLearning == nil {
			return nil, errors.New("source run is not a q-learning run")
		}
		return solver.NewQLearningExplorer(metrics.QLearning.QTable), nil
	default:
		return nil, fmt.Errorf("unsupported algorithm: %s", request.Algorithm)
	}
}

func (sc *SolverController) sourceMetrics(request *StartRunRequest) (solver.Metrics, error) {
	if request.SourceRunID == nil {
		return solver.Metrics{}, errors.New("exploration runs require source_run_id")
	}
	return sc.runManager.FinalMetrics(*request.SourceRunID)
}

// runStatus reports the last observed state of a run.
func (sc *SolverController) runStatus(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Params.ByName("ID"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "id not found"})
		return
	}

	status, err := sc.runManager.RunStatus(id)
	if err != nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	response := RunStatusResponse{
		ID:        status.ID,
		Algorithm: status.Algorithm,
		Done:      status.Done,
		Snapshot:  status.Latest,
		Metrics:   status.Final,
	}
	if status.Err != nil {
		response.Error = status.Err.Error()
	}

	ctx.JSON(http.StatusOK, response)
}

// cancelRun cancels a running solver.
func (sc *SolverController) cancelRun(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Params.ByName("ID"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "id not found"})
		return
	}

	if err := sc.runManager.CancelRun(id); err != nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	ctx.Status(http.StatusAccepted)
}

// summary reports per-algorithm aggregates over finished runs.
func (sc *SolverController) summary(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, sc.runManager.Summary())
}

// scoreboard lists the best runs of one algorithm.
func (sc *SolverController) scoreboard(ctx *gin.Context) {
	algorithm := solver.Algorithm(ctx.Params.ByName("algorithm"))

	timeoutCtx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	entries, err := sc.runManager.TopScores(timeoutCtx, algorithm, defaultScoreboardSize)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "error while reading scoreboard"})
		return
	}

	ctx.JSON(http.StatusOK, ScoreboardResponse{Algorithm: algorithm, Entries: entries})
}
