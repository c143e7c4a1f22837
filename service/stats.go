package service

import (
	"sort"

	"github.com/mazelab/solver-api/service/i"
	"github.com/mazelab/solver-api/solver"
	"gonum.org/v1/gonum/stat"
)

// Summary aggregates the finished runs of the current session per algorithm.
func (rm *RunManager) Summary() []i.AlgorithmSummary {
	rm.RLock()
	byAlgorithm := make(map[solver.Algorithm][]solver.Metrics)
	for _, m := range rm.finished {
		byAlgorithm[m.Algorithm] = append(byAlgorithm[m.Algorithm], m)
	}
	rm.RUnlock()

	summaries := make([]i.AlgorithmSummary, 0, len(byAlgorithm))
	for algorithm, runs := range byAlgorithm {
		nodes := make([]float64, 0, len(runs))
		seconds := make([]float64, 0, len(runs))
		var pathLengths []float64
		found := 0
		for _, m := range runs {
			nodes = append(nodes, float64(m.NodesVisited))
			seconds = append(seconds, m.ExecutionTime.Seconds())
			if m.PathFound {
				found++
				pathLengths = append(pathLengths, float64(m.PathLength))
			}
		}

		summary := i.AlgorithmSummary{
			Algorithm:            algorithm,
			Runs:                 len(runs),
			PathFoundRate:        float64(found) / float64(len(runs)),
			MeanNodesVisited:     stat.Mean(nodes, nil),
			MeanExecutionSeconds: stat.Mean(seconds, nil),
		}
		if len(nodes) > 1 {
			summary.StdDevNodesVisited = stat.StdDev(nodes, nil)
		}
		if len(pathLengths) > 0 {
			summary.MeanPathLength = stat.Mean(pathLengths, nil)
		}
		summaries = append(summaries, summary)
	}

	sort.Slice(summaries, func(a, b int) bool {
		return summaries[a].Algorithm < summaries[b].Algorithm
	})
	return summaries
}
