package refine

import "github.com/Vini2/GraphBin-0.1/pkg/models"

// correctLabels runs the single corrective pass over all labeled nodes. A
// label is revoked when the best-supported competing bin beats the node's
// current bin by more than DiffThreshold, normalized by the node's neighbor
// count (or total neighbor length in weighted mode). Scores are computed
// against the pre-pass snapshot and revocations applied afterwards, so the
// pass order cannot influence the outcome. This pass never iterates: iterated
// correction can oscillate, only propagation loops.
func (e *engine) correctLabels() {
	snapshot := make([]int, len(e.bins))
	copy(snapshot, e.bins)

	var revoked []int
	for node := 0; node < e.graph.NumNodes; node++ {
		current := snapshot[node]
		if current == models.Unbinned {
			continue
		}
		neighbors := e.graph.Neighbors(node)
		if len(neighbors) == 0 {
			continue
		}

		scores, _ := binSupport(e.graph, snapshot, node, e.opts.WeightByLength)
		best, bestScore, _ := pickBest(scores)
		if best == models.Unbinned || best == current {
			continue
		}

		total := float64(len(neighbors))
		if e.opts.WeightByLength {
			total = 0
			for _, neighbor := range neighbors {
				total += float64(e.graph.Lengths[neighbor])
			}
		}

		gap := (bestScore - scores[current]) / total
		if gap > e.opts.DiffThreshold {
			revoked = append(revoked, node)
		}
	}

	for _, node := range revoked {
		e.bins[node] = models.Unbinned
	}
	e.removed = revoked
	e.stats.CorrectionRemovals = len(revoked)

	e.opts.Logger.Info().
		Int("labeled", e.stats.InitialLabeled).
		Int("revoked", len(revoked)).
		Float64("diff_threshold", e.opts.DiffThreshold).
		Msg("Label correction pass completed")
}
