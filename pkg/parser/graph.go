// Package parser loads assembly graphs and initial binning results into the
// in-memory structures the refinement engine consumes.
package parser

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Vini2/GraphBin-0.1/pkg/models"
)

// LoadGraph reads an assembly graph file, choosing the parser from the file
// extension: .gfa for GFA, anything else is treated as a numeric edge list.
func LoadGraph(path string) (*models.AssemblyGraph, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("graph file does not exist: %s", path)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gfa":
		return ParseGFA(path)
	default:
		return ParseEdgeList(path)
	}
}

type gfaLink struct {
	from string
	to   string
	line int
}

// ParseGFA reads a GFA assembly graph. S lines become nodes, with length
// taken from the LN:i: tag or the sequence itself; L lines become undirected
// edges, orientation ignored since only adjacency matters for refinement.
func ParseGFA(path string) (*models.AssemblyGraph, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open graph file: %w", err)
	}
	defer file.Close()

	var (
		names   []string
		lengths []int
		links   []gfaLink
	)

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 1024*1024), 64*1024*1024)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Text()
		if line == "" {
			continue
		}
		fields := strings.Split(line, "\t")
		switch fields[0] {
		case "S":
			if len(fields) < 3 {
				return nil, fmt.Errorf("line %d: malformed S line", lineNum)
			}
			length, err := segmentLength(fields)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNum, err)
			}
			names = append(names, fields[1])
			lengths = append(lengths, length)
		case "L":
			if len(fields) < 5 {
				return nil, fmt.Errorf("line %d: malformed L line", lineNum)
			}
			links = append(links, gfaLink{from: fields[1], to: fields[3], line: lineNum})
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read graph file: %w", err)
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("no segments found in %s", path)
	}

	graph := models.NewAssemblyGraph(len(names))
	for i, name := range names {
		if err := graph.SetName(i, name); err != nil {
			return nil, err
		}
		graph.Lengths[i] = lengths[i]
	}
	for _, link := range links {
		u, ok := graph.NodeByName(link.from)
		if !ok {
			return nil, fmt.Errorf("line %d: link references unknown segment %q", link.line, link.from)
		}
		v, ok := graph.NodeByName(link.to)
		if !ok {
			return nil, fmt.Errorf("line %d: link references unknown segment %q", link.line, link.to)
		}
		if err := graph.AddEdge(u, v); err != nil {
			return nil, err
		}
	}
	return graph, nil
}

// segmentLength determines a GFA segment length from its LN:i: tag, falling
// back to the sequence length when no tag is present.
func segmentLength(fields []string) (int, error) {
	for _, tag := range fields[3:] {
		if strings.HasPrefix(tag, "LN:i:") {
			length, err := strconv.Atoi(tag[len("LN:i:"):])
			if err != nil || length <= 0 {
				return 0, fmt.Errorf("invalid LN tag %q", tag)
			}
			return length, nil
		}
	}
	if fields[2] != "*" && len(fields[2]) > 0 {
		return len(fields[2]), nil
	}
	return 0, fmt.Errorf("segment %q has neither sequence nor LN tag", fields[1])
}

// ParseEdgeList reads a plain numeric edge list: one "u v" pair per line,
// zero-based node indices, # comments allowed. Node count is the largest
// index seen plus one; all segments get unit length.
func ParseEdgeList(path string) (*models.AssemblyGraph, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open graph file: %w", err)
	}
	defer file.Close()

	type edge struct{ u, v int }
	var edges []edge
	maxNode := -1

	scanner := bufio.NewScanner(file)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			return nil, fmt.Errorf("line %d: expected 'u v', got %q", lineNum, line)
		}
		u, err := strconv.Atoi(fields[0])
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid node id %q", lineNum, fields[0])
		}
		v, err := strconv.Atoi(fields[1])
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid node id %q", lineNum, fields[1])
		}
		if u < 0 || v < 0 {
			return nil, fmt.Errorf("line %d: negative node id", lineNum)
		}
		edges = append(edges, edge{u, v})
		if u > maxNode {
			maxNode = u
		}
		if v > maxNode {
			maxNode = v
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read graph file: %w", err)
	}
	if maxNode < 0 {
		return nil, fmt.Errorf("no edges found in %s", path)
	}

	graph := models.NewAssemblyGraph(maxNode + 1)
	for i := 0; i <= maxNode; i++ {
		if err := graph.SetName(i, strconv.Itoa(i)); err != nil {
			return nil, err
		}
	}
	for _, e := range edges {
		if err := graph.AddEdge(e.u, e.v); err != nil {
			return nil, err
		}
	}
	return graph, nil
}

// LoadContigMap applies a segment -> contig grouping from a two-column
// whitespace-separated file. Segments absent from the file keep their own
// contig group. Assemblers that split contigs across several graph segments
// need this so the engine can reconcile per-contig labels.
func LoadContigMap(graph *models.AssemblyGraph, path string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open contig map: %w", err)
	}
	defer file.Close()

	contigOf := make([]int, graph.NumNodes)
	for i := range contigOf {
		contigOf[i] = -1
	}
	var contigNames []string
	contigIndex := make(map[string]int)

	scanner := bufio.NewScanner(file)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			return fmt.Errorf("line %d: expected 'segment contig', got %q", lineNum, line)
		}
		node, ok := graph.NodeByName(fields[0])
		if !ok {
			return fmt.Errorf("line %d: unknown segment %q", lineNum, fields[0])
		}
		c, ok := contigIndex[fields[1]]
		if !ok {
			c = len(contigNames)
			contigIndex[fields[1]] = c
			contigNames = append(contigNames, fields[1])
		}
		if contigOf[node] != -1 && contigOf[node] != c {
			return fmt.Errorf("line %d: segment %q mapped to two contigs", lineNum, fields[0])
		}
		contigOf[node] = c
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read contig map: %w", err)
	}

	// Unmapped segments form singleton contigs under their own name.
	for node, c := range contigOf {
		if c != -1 {
			continue
		}
		name := graph.Names[node]
		if prev, ok := contigIndex[name]; ok {
			contigOf[node] = prev
			continue
		}
		contigIndex[name] = len(contigNames)
		contigOf[node] = len(contigNames)
		contigNames = append(contigNames, name)
	}

	return graph.GroupContigs(contigOf, contigNames)
}
