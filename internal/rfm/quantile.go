package rfm

import (
	"sort"

	"github.com/montanaflynn/stats"
)

// quintileEdges computes the interior quintile boundaries (P20/P40/P60/P80)
// of a value distribution. Duplicate or uncomputable boundaries are dropped,
// which is how heavy ties collapse binning to the resolution the data
// actually supports instead of failing.
func quintileEdges(values []float64) []float64 {
	var edges []float64
	for _, p := range []float64{20, 40, 60, 80} {
		e, err := stats.Percentile(values, p)
		if err != nil {
			continue
		}
		if len(edges) == 0 || e > edges[len(edges)-1] {
			edges = append(edges, e)
		}
	}
	return edges
}

// valueScores bins each value against the distribution's quintile edges and
// returns integer scores in 1..5. A value equal to an edge falls in the
// lower bin. With lowerIsBetter the best (lowest) bin scores 5; otherwise
// the highest bin scores 5. When ties collapse the edges, some scores go
// unused; the assignment stays deterministic.
func valueScores(values []float64, lowerIsBetter bool) []int {
	edges := quintileEdges(values)
	scores := make([]int, len(values))
	for i, v := range values {
		bin := 0
		for _, e := range edges {
			if v > e {
				bin++
			}
		}
		if lowerIsBetter {
			scores[i] = 5 - bin
		} else {
			scores[i] = 1 + bin
		}
	}
	return scores
}

// rankScores assigns quintile scores by rank rather than value: values are
// stably sorted (ties keep first-seen order), then ranks are cut into 5
// contiguous bins with ceiling-based boundaries. Rank binning avoids
// degenerate bins when many groups share the same count.
func rankScores(values []int64) []int {
	n := len(values)
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return values[idx[a]] < values[idx[b]]
	})

	scores := make([]int, n)
	for pos, i := range idx {
		rank := pos + 1
		scores[i] = (rank*5 + n - 1) / n // ceil(rank*5/n)
	}
	return scores
}
