package models

import (
	"fmt"
	"strings"
)

// Unbinned marks a node that currently carries no bin label.
const Unbinned = -1

// AssemblyGraph represents an assembly graph with dense integer node indices.
// Nodes are graph segments produced by the assembler; edges are undirected
// overlap/adjacency links. Several nodes may belong to one original contig.
type AssemblyGraph struct {
	NumNodes    int      `json:"num_nodes"`
	Names       []string `json:"-"` // segment name per node
	Lengths     []int    `json:"-"` // segment length in bases
	Adjacency   [][]int  `json:"-"` // adjacency[i] = neighbor indices of node i
	ContigOf    []int    `json:"-"` // contigOf[i] = contig group index of node i
	ContigNodes [][]int  `json:"-"` // contigNodes[c] = node indices of contig c
	ContigNames []string `json:"-"`

	nameIndex map[string]int
}

// NewAssemblyGraph creates a graph with n nodes and no edges. Each node starts
// in its own contig group; call GroupContigs to override.
func NewAssemblyGraph(n int) *AssemblyGraph {
	g := &AssemblyGraph{
		NumNodes:    n,
		Names:       make([]string, n),
		Lengths:     make([]int, n),
		Adjacency:   make([][]int, n),
		ContigOf:    make([]int, n),
		ContigNodes: make([][]int, n),
		ContigNames: make([]string, n),
		nameIndex:   make(map[string]int, n),
	}
	for i := 0; i < n; i++ {
		g.Names[i] = fmt.Sprintf("node_%d", i)
		g.Lengths[i] = 1
		g.ContigOf[i] = i
		g.ContigNodes[i] = []int{i}
		g.ContigNames[i] = g.Names[i]
	}
	return g
}

// SetName assigns a segment name and registers it for lookup.
func (g *AssemblyGraph) SetName(node int, name string) error {
	if node < 0 || node >= g.NumNodes {
		return fmt.Errorf("node index out of range: %d (numNodes=%d)", node, g.NumNodes)
	}
	if prev, ok := g.nameIndex[name]; ok && prev != node {
		return fmt.Errorf("duplicate segment name %q for nodes %d and %d", name, prev, node)
	}
	delete(g.nameIndex, g.Names[node])
	g.Names[node] = name
	if g.ContigNames[node] == "" || strings.HasPrefix(g.ContigNames[node], "node_") {
		g.ContigNames[node] = name
	}
	g.nameIndex[name] = node
	return nil
}

// NodeByName resolves a segment name to its node index.
func (g *AssemblyGraph) NodeByName(name string) (int, bool) {
	node, ok := g.nameIndex[name]
	return node, ok
}

// AddEdge adds an undirected edge between two nodes. Self loops and repeated
// edges are dropped: only the existence of adjacency matters for refinement.
func (g *AssemblyGraph) AddEdge(u, v int) error {
	if u < 0 || u >= g.NumNodes || v < 0 || v >= g.NumNodes {
		return fmt.Errorf("node index out of range: u=%d, v=%d, numNodes=%d", u, v, g.NumNodes)
	}
	if u == v {
		return nil
	}
	for _, w := range g.Adjacency[u] {
		if w == v {
			return nil
		}
	}
	g.Adjacency[u] = append(g.Adjacency[u], v)
	g.Adjacency[v] = append(g.Adjacency[v], u)
	return nil
}

// Neighbors returns the adjacency list of a node. The slice is shared with the
// graph and must not be mutated by callers.
func (g *AssemblyGraph) Neighbors(node int) []int {
	if node < 0 || node >= g.NumNodes {
		return nil
	}
	return g.Adjacency[node]
}

// Degree returns the number of distinct neighbors of a node.
func (g *AssemblyGraph) Degree(node int) int {
	return len(g.Neighbors(node))
}

// GroupContigs replaces the contig grouping. contigOf maps every node to a
// contig index in [0, len(contigNames)).
func (g *AssemblyGraph) GroupContigs(contigOf []int, contigNames []string) error {
	if len(contigOf) != g.NumNodes {
		return fmt.Errorf("contig map covers %d nodes, graph has %d", len(contigOf), g.NumNodes)
	}
	nodes := make([][]int, len(contigNames))
	for node, c := range contigOf {
		if c < 0 || c >= len(contigNames) {
			return fmt.Errorf("node %d mapped to unknown contig group %d", node, c)
		}
		nodes[c] = append(nodes[c], node)
	}
	g.ContigOf = contigOf
	g.ContigNodes = nodes
	g.ContigNames = contigNames
	return nil
}

// NumEdges counts undirected edges.
func (g *AssemblyGraph) NumEdges() int {
	total := 0
	for _, adj := range g.Adjacency {
		total += len(adj)
	}
	return total / 2
}

// Validate checks structural consistency of the graph.
func (g *AssemblyGraph) Validate() error {
	if g.NumNodes <= 0 {
		return fmt.Errorf("graph must have a positive number of nodes")
	}
	if len(g.Adjacency) != g.NumNodes || len(g.Lengths) != g.NumNodes ||
		len(g.Names) != g.NumNodes || len(g.ContigOf) != g.NumNodes {
		return fmt.Errorf("per-node attribute arrays inconsistent with node count %d", g.NumNodes)
	}
	for i := 0; i < g.NumNodes; i++ {
		if g.Lengths[i] <= 0 {
			return fmt.Errorf("non-positive length %d for node %d", g.Lengths[i], i)
		}
		for _, neighbor := range g.Adjacency[i] {
			if neighbor < 0 || neighbor >= g.NumNodes {
				return fmt.Errorf("invalid neighbor %d for node %d", neighbor, i)
			}
			if neighbor == i {
				return fmt.Errorf("self loop on node %d", i)
			}
			back := false
			for _, w := range g.Adjacency[neighbor] {
				if w == i {
					back = true
					break
				}
			}
			if !back {
				return fmt.Errorf("asymmetric edge %d-%d", i, neighbor)
			}
		}
	}
	for c, nodes := range g.ContigNodes {
		for _, node := range nodes {
			if node < 0 || node >= g.NumNodes {
				return fmt.Errorf("contig group %d references unknown node %d", c, node)
			}
			if g.ContigOf[node] != c {
				return fmt.Errorf("node %d listed under contig %d but mapped to %d", node, c, g.ContigOf[node])
			}
		}
	}
	return nil
}

// Labeling is a partial node -> bin assignment over a fixed set of bins. It is
// produced once by the initial-binning loader and mutated only by the
// refinement engine.
type Labeling struct {
	Bins     []int    `json:"bins"` // Bins[i] = bin index of node i, or Unbinned
	NumBins  int      `json:"num_bins"`
	BinNames []string `json:"bin_names"`
}

// NewLabeling creates an all-unbinned labeling over numNodes nodes.
func NewLabeling(numNodes, numBins int) *Labeling {
	bins := make([]int, numNodes)
	for i := range bins {
		bins[i] = Unbinned
	}
	names := make([]string, numBins)
	for b := range names {
		names[b] = fmt.Sprintf("bin_%d", b+1)
	}
	return &Labeling{Bins: bins, NumBins: numBins, BinNames: names}
}

// Labeled reports whether a node currently carries a bin label.
func (l *Labeling) Labeled(node int) bool {
	return l.Bins[node] != Unbinned
}

// Count returns the number of labeled nodes.
func (l *Labeling) Count() int {
	n := 0
	for _, b := range l.Bins {
		if b != Unbinned {
			n++
		}
	}
	return n
}

// Clone returns a deep copy of the labeling.
func (l *Labeling) Clone() *Labeling {
	c := &Labeling{
		Bins:     make([]int, len(l.Bins)),
		NumBins:  l.NumBins,
		BinNames: make([]string, len(l.BinNames)),
	}
	copy(c.Bins, l.Bins)
	copy(c.BinNames, l.BinNames)
	return c
}

// Validate checks the labeling against its graph.
func (l *Labeling) Validate(g *AssemblyGraph) error {
	if l.NumBins <= 0 {
		return fmt.Errorf("number of bins must be positive, got %d", l.NumBins)
	}
	if len(l.Bins) != g.NumNodes {
		return fmt.Errorf("labeling covers %d nodes, graph has %d", len(l.Bins), g.NumNodes)
	}
	if len(l.BinNames) != l.NumBins {
		return fmt.Errorf("have %d bin names for %d bins", len(l.BinNames), l.NumBins)
	}
	for node, b := range l.Bins {
		if b != Unbinned && (b < 0 || b >= l.NumBins) {
			return fmt.Errorf("node %d labeled with bin %d outside range [0,%d)", node, b, l.NumBins)
		}
	}
	return nil
}

// ValidationError describes a single input validation failure.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors aggregates validation failures so callers see all problems
// at once instead of fixing them one run at a time.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	msgs := make([]string, len(e))
	for i, err := range e {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("%d validation error(s): %s", len(e), strings.Join(msgs, "; "))
}
