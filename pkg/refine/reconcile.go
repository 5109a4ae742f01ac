package refine

import "github.com/Vini2/GraphBin-0.1/pkg/models"

// reconcileContigs resolves contigs whose graph nodes ended up split across
// labels. Assemblers may break one contig into several nodes; those nodes must
// share a single final bin. For every contig with at least one labeled node
// and either conflicting labels or unlabeled members, the majority label among
// the labeled members wins (tie-break: lowest bin index) and is assigned to
// all of the contig's nodes. Contigs with no labeled node stay absent.
func (e *engine) reconcileContigs() {
	reconciled := 0
	for _, nodes := range e.graph.ContigNodes {
		if len(nodes) < 2 {
			continue
		}

		votes := make(map[int]float64)
		unlabeled := 0
		for _, node := range nodes {
			if e.bins[node] == models.Unbinned {
				unlabeled++
			} else {
				votes[e.bins[node]]++
			}
		}
		if len(votes) == 0 {
			continue
		}
		if len(votes) == 1 && unlabeled == 0 {
			continue
		}

		winner, _, _ := pickBest(votes)
		for _, node := range nodes {
			e.bins[node] = winner
		}
		reconciled++
	}
	e.stats.ReconciledContigs = reconciled

	if reconciled > 0 {
		e.opts.Logger.Info().
			Int("contigs", reconciled).
			Msg("Contig label reconciliation completed")
	}
}
