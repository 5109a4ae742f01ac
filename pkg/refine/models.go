package refine

import (
	"fmt"

	"github.com/rs/zerolog"
)

// TerminationReason explains why the propagation loop stopped.
type TerminationReason string

const (
	// Converged means a full round completed with zero label changes.
	Converged TerminationReason = "CONVERGED"
	// BudgetExhausted means the iteration budget was reached with changes
	// still occurring. Not an error: the best map so far is returned.
	BudgetExhausted TerminationReason = "BUDGET_EXHAUSTED"
)

// ProgressCallback reports per-round progress to the caller. round is -1 for
// phase-level messages.
type ProgressCallback func(round, changed int, message string)

// Options configures a refinement run.
type Options struct {
	// DiffThreshold is the minimum normalized support gap required before an
	// existing label is revoked. Valid range [0, 1).
	DiffThreshold float64 `json:"diff_threshold"`
	// MaxIteration caps the number of propagation rounds. Must be positive.
	MaxIteration int `json:"max_iteration"`
	// WeightByLength scores neighbors by segment length instead of raw
	// counts. Default false: raw neighbor counts.
	WeightByLength bool `json:"weight_by_length"`
	// NumWorkers bounds the scoring workers inside a single round. Values
	// below 2 mean sequential scoring. Scoring reads a round snapshot and
	// writes a private next-round buffer, so results stay deterministic.
	NumWorkers int `json:"num_workers"`

	Logger           zerolog.Logger   `json:"-"`
	ProgressCallback ProgressCallback `json:"-"`
}

// DefaultOptions returns the reference parameters of the algorithm.
func DefaultOptions() Options {
	return Options{
		DiffThreshold:  0.1,
		MaxIteration:   100,
		WeightByLength: false,
		NumWorkers:     1,
		Logger:         zerolog.Nop(),
	}
}

// Validate rejects parameter values the engine cannot run with.
func (o Options) Validate() error {
	if o.DiffThreshold < 0 || o.DiffThreshold >= 1 {
		return fmt.Errorf("diff_threshold must be in [0,1), got %g", o.DiffThreshold)
	}
	if o.MaxIteration <= 0 {
		return fmt.Errorf("max_iteration must be positive, got %d", o.MaxIteration)
	}
	return nil
}

// Result is the complete output of one refinement run. FinalLabels holds every
// node that ended up with a bin; isolated nodes are absent. RemovedLabels and
// IsolatedNodes are reported separately so callers never conflate "revoked"
// with "never had evidence".
type Result struct {
	FinalLabels   map[int]int       `json:"final_labels"`
	RemovedLabels []int             `json:"removed_labels"`
	IsolatedNodes []int             `json:"isolated_nodes"`
	Rounds        int               `json:"rounds"`
	Reason        TerminationReason `json:"reason"`
	Statistics    Statistics        `json:"statistics"`
}

// Statistics carries execution metrics for reporting by the caller. The engine
// itself never prints them.
type Statistics struct {
	InitialLabeled     int   `json:"initial_labeled"`
	CorrectionRemovals int   `json:"correction_removals"`
	NonIsolated        int   `json:"non_isolated"`
	PropagationLabeled int   `json:"propagation_labeled"`
	ReconciledContigs  int   `json:"reconciled_contigs"`
	RoundChanges       []int `json:"round_changes"`
	RuntimeMS          int64 `json:"runtime_ms"`
}
