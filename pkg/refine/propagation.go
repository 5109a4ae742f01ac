package refine

import (
	"sync"

	"github.com/Vini2/GraphBin-0.1/pkg/models"
)

// propagate runs the synchronous label propagation loop. Each round scores
// every non-isolated unlabeled node against the label snapshot taken at the
// start of the round and assigns the strictly best-supported bin; ties and
// nodes without labeled neighbors are skipped and may resolve in a later
// round. The loop stops at the first zero-change round (CONVERGED) or after
// MaxIteration change-producing rounds (BUDGET_EXHAUSTED).
func (e *engine) propagate() {
	targets := e.collectTargets()

	snapshot := make([]int, len(e.bins))
	rounds := 0
	e.reason = Converged

	for {
		copy(snapshot, e.bins)
		proposals := e.scoreRound(snapshot, targets)

		changed := 0
		remaining := targets[:0]
		for i, node := range targets {
			if proposals[i] == models.Unbinned {
				remaining = append(remaining, node)
				continue
			}
			e.bins[node] = proposals[i]
			changed++
		}
		targets = remaining

		if changed == 0 {
			e.reason = Converged
			break
		}
		e.stats.RoundChanges = append(e.stats.RoundChanges, changed)
		e.stats.PropagationLabeled += changed
		rounds++

		if e.opts.ProgressCallback != nil {
			e.opts.ProgressCallback(rounds, changed, "propagation round completed")
		}
		e.opts.Logger.Debug().
			Int("round", rounds).
			Int("changed", changed).
			Int("remaining", len(targets)).
			Msg("Propagation round")

		if rounds >= e.opts.MaxIteration {
			e.reason = BudgetExhausted
			break
		}
	}

	e.rounds = rounds
	e.opts.Logger.Info().
		Int("rounds", rounds).
		Int("labeled", e.stats.PropagationLabeled).
		Str("reason", string(e.reason)).
		Msg("Propagation loop terminated")
}

// collectTargets returns the non-isolated unlabeled nodes in ascending node
// order. Ascending order plus round-synchronous snapshots make runs
// reproducible.
func (e *engine) collectTargets() []int {
	var targets []int
	for node := 0; node < e.graph.NumNodes; node++ {
		if e.nonIsolated[node] && e.bins[node] == models.Unbinned {
			targets = append(targets, node)
		}
	}
	return targets
}

// minParallelTargets is the target count below which the worker pool costs
// more than it saves.
const minParallelTargets = 256

// scoreRound computes the proposed label for every target against the round
// snapshot. Proposals land in a private buffer indexed by target position, so
// the scoring step is the only place parallelism is allowed: every worker
// reads the immutable snapshot and writes disjoint buffer slots.
func (e *engine) scoreRound(snapshot []int, targets []int) []int {
	proposals := make([]int, len(targets))

	score := func(lo, hi int) {
		for i := lo; i < hi; i++ {
			scores, _ := binSupport(e.graph, snapshot, targets[i], e.opts.WeightByLength)
			best, _, strict := pickBest(scores)
			if strict {
				proposals[i] = best
			} else {
				proposals[i] = models.Unbinned
			}
		}
	}

	workers := e.opts.NumWorkers
	if workers < 2 || len(targets) < minParallelTargets {
		score(0, len(targets))
		return proposals
	}

	chunk := (len(targets) + workers - 1) / workers
	var wg sync.WaitGroup
	for lo := 0; lo < len(targets); lo += chunk {
		hi := lo + chunk
		if hi > len(targets) {
			hi = len(targets)
		}
		wg.Add(1)
		go func(lo, hi int) {
			defer wg.Done()
			score(lo, hi)
		}(lo, hi)
	}
	wg.Wait()
	return proposals
}
