package refine

import (
	"github.com/Vini2/GraphBin-0.1/pkg/models"
)

// binSupport computes, for one node, the support each bin receives from the
// node's labeled neighbors under the given label snapshot. Support is the
// neighbor count per bin, or the summed neighbor length when weightByLength is
// set. Unlabeled neighbors contribute nothing and are counted separately. An
// empty score map means "no evidence", which is distinct from tied evidence.
// Pure over the snapshot: no side effects.
func binSupport(g *models.AssemblyGraph, bins []int, node int, weightByLength bool) (map[int]float64, int) {
	scores := make(map[int]float64)
	unlabeled := 0
	for _, neighbor := range g.Neighbors(node) {
		b := bins[neighbor]
		if b == models.Unbinned {
			unlabeled++
			continue
		}
		if weightByLength {
			scores[b] += float64(g.Lengths[neighbor])
		} else {
			scores[b]++
		}
	}
	return scores, unlabeled
}

// pickBest selects the best-supported bin from a score map. It returns the
// lowest bin index among the maxima, the winning score, and whether the
// winner strictly beat every other candidate. With an empty map it returns
// (models.Unbinned, 0, false). Deterministic regardless of map iteration
// order.
func pickBest(scores map[int]float64) (int, float64, bool) {
	best := models.Unbinned
	bestScore := 0.0
	ties := 0
	for bin, score := range scores {
		switch {
		case best == models.Unbinned || score > bestScore:
			best = bin
			bestScore = score
			ties = 1
		case score == bestScore:
			ties++
			if bin < best {
				best = bin
			}
		}
	}
	return best, bestScore, best != models.Unbinned && ties == 1
}
