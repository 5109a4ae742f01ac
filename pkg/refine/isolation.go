package refine

import (
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"

	"github.com/Vini2/GraphBin-0.1/pkg/models"
)

// analyzeIsolation partitions currently-unlabeled nodes into propagation
// targets and permanently isolated nodes. A node is isolated when its entire
// connected component carries no label after the correction pass. Connectivity
// never changes during propagation, so this runs exactly once.
func (e *engine) analyzeIsolation() {
	components := topo.ConnectedComponents(e.asGonum())

	e.nonIsolated = make([]bool, e.graph.NumNodes)
	for _, component := range components {
		hasLabel := false
		for _, gn := range component {
			if e.bins[int(gn.ID())] != models.Unbinned {
				hasLabel = true
				break
			}
		}
		if !hasLabel {
			continue
		}
		for _, gn := range component {
			e.nonIsolated[int(gn.ID())] = true
		}
	}

	e.isolated = e.isolated[:0]
	nonIsolatedCount := 0
	for node := 0; node < e.graph.NumNodes; node++ {
		if e.nonIsolated[node] {
			nonIsolatedCount++
		} else {
			e.isolated = append(e.isolated, node)
		}
	}
	e.stats.NonIsolated = nonIsolatedCount

	e.opts.Logger.Info().
		Int("components", len(components)).
		Int("non_isolated", nonIsolatedCount).
		Int("isolated", len(e.isolated)).
		Msg("Isolation analysis completed")
}

// asGonum converts the assembly graph into a gonum undirected graph for the
// connectivity traversal. Node IDs map one to one.
func (e *engine) asGonum() *simple.UndirectedGraph {
	ug := simple.NewUndirectedGraph()
	for node := 0; node < e.graph.NumNodes; node++ {
		ug.AddNode(simple.Node(int64(node)))
	}
	for u := 0; u < e.graph.NumNodes; u++ {
		for _, v := range e.graph.Neighbors(u) {
			if u < v {
				ug.SetEdge(ug.NewEdge(simple.Node(int64(u)), simple.Node(int64(v))))
			}
		}
	}
	return ug
}
