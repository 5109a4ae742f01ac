package parser

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Vini2/GraphBin-0.1/pkg/models"
)

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

const sampleGFA = `H	VN:Z:1.0
S	seg1	ACGTACGT
S	seg2	*	LN:i:150
S	seg3	ACGT	LN:i:42
L	seg1	+	seg2	-	55M
L	seg2	+	seg3	+	30M
`

func TestParseGFA(t *testing.T) {
	path := writeTempFile(t, "assembly.gfa", sampleGFA)

	graph, err := ParseGFA(path)
	if err != nil {
		t.Fatalf("ParseGFA: %v", err)
	}

	if graph.NumNodes != 3 {
		t.Fatalf("NumNodes = %d, want 3", graph.NumNodes)
	}
	if graph.NumEdges() != 2 {
		t.Errorf("NumEdges = %d, want 2", graph.NumEdges())
	}

	// Sequence length without LN tag, LN tag wins when present.
	tests := []struct {
		name   string
		length int
	}{
		{"seg1", 8},
		{"seg2", 150},
		{"seg3", 42},
	}
	for _, tt := range tests {
		node, ok := graph.NodeByName(tt.name)
		if !ok {
			t.Fatalf("segment %q missing", tt.name)
		}
		if graph.Lengths[node] != tt.length {
			t.Errorf("length of %q = %d, want %d", tt.name, graph.Lengths[node], tt.length)
		}
	}

	u, _ := graph.NodeByName("seg1")
	v, _ := graph.NodeByName("seg2")
	found := false
	for _, n := range graph.Neighbors(u) {
		if n == v {
			found = true
		}
	}
	if !found {
		t.Error("link seg1-seg2 not reflected in adjacency")
	}
}

func TestParseGFAUnknownSegmentLink(t *testing.T) {
	path := writeTempFile(t, "bad.gfa", "S\tseg1\tACGT\nL\tseg1\t+\tnope\t-\t10M\n")
	if _, err := ParseGFA(path); err == nil {
		t.Error("expected error for link to unknown segment")
	}
}

func TestParseEdgeList(t *testing.T) {
	path := writeTempFile(t, "graph.txt", "# comment\n0 1\n1 2\n2 0\n")

	graph, err := ParseEdgeList(path)
	if err != nil {
		t.Fatalf("ParseEdgeList: %v", err)
	}
	if graph.NumNodes != 3 {
		t.Errorf("NumNodes = %d, want 3", graph.NumNodes)
	}
	if graph.NumEdges() != 3 {
		t.Errorf("NumEdges = %d, want 3", graph.NumEdges())
	}
}

func TestLoadGraphDispatch(t *testing.T) {
	gfaPath := writeTempFile(t, "assembly.gfa", sampleGFA)
	if _, err := LoadGraph(gfaPath); err != nil {
		t.Errorf("LoadGraph(.gfa): %v", err)
	}

	edgePath := writeTempFile(t, "graph.txt", "0 1\n")
	if _, err := LoadGraph(edgePath); err != nil {
		t.Errorf("LoadGraph(edge list): %v", err)
	}

	if _, err := LoadGraph(filepath.Join(t.TempDir(), "missing.gfa")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoadContigMap(t *testing.T) {
	gfaPath := writeTempFile(t, "assembly.gfa", sampleGFA)
	graph, err := ParseGFA(gfaPath)
	if err != nil {
		t.Fatalf("ParseGFA: %v", err)
	}

	mapPath := writeTempFile(t, "contigs.tsv", "seg1\tcontig_1\nseg2\tcontig_1\n")
	if err := LoadContigMap(graph, mapPath); err != nil {
		t.Fatalf("LoadContigMap: %v", err)
	}

	n1, _ := graph.NodeByName("seg1")
	n2, _ := graph.NodeByName("seg2")
	n3, _ := graph.NodeByName("seg3")
	if graph.ContigOf[n1] != graph.ContigOf[n2] {
		t.Error("seg1 and seg2 should share a contig group")
	}
	if graph.ContigOf[n3] == graph.ContigOf[n1] {
		t.Error("seg3 should keep its own contig group")
	}
	if graph.ContigNames[graph.ContigOf[n1]] != "contig_1" {
		t.Errorf("contig name = %q, want contig_1", graph.ContigNames[graph.ContigOf[n1]])
	}
	if err := graph.Validate(); err != nil {
		t.Errorf("Validate after contig map: %v", err)
	}
}

func TestCountBins(t *testing.T) {
	path := writeTempFile(t, "binned.csv", "c1,binB\nc2,binA\nc3,binB\n")

	n, names, err := CountBins(path, ",")
	if err != nil {
		t.Fatalf("CountBins: %v", err)
	}
	if n != 2 {
		t.Errorf("n_bins = %d, want 2", n)
	}
	if len(names) != 2 || names[0] != "binA" || names[1] != "binB" {
		t.Errorf("bin names = %v, want [binA binB]", names)
	}
}

func TestParseBinning(t *testing.T) {
	gfaPath := writeTempFile(t, "assembly.gfa", sampleGFA)
	graph, err := ParseGFA(gfaPath)
	if err != nil {
		t.Fatalf("ParseGFA: %v", err)
	}

	binPath := writeTempFile(t, "binned.csv", "seg1,binA\nseg3,binB\n")
	labeling, err := ParseBinning(graph, binPath, ",")
	if err != nil {
		t.Fatalf("ParseBinning: %v", err)
	}

	if labeling.NumBins != 2 {
		t.Errorf("NumBins = %d, want 2", labeling.NumBins)
	}
	n1, _ := graph.NodeByName("seg1")
	n2, _ := graph.NodeByName("seg2")
	n3, _ := graph.NodeByName("seg3")
	if labeling.Bins[n1] != 0 {
		t.Errorf("seg1 bin = %d, want 0 (binA)", labeling.Bins[n1])
	}
	if labeling.Bins[n2] != models.Unbinned {
		t.Errorf("seg2 bin = %d, want unbinned", labeling.Bins[n2])
	}
	if labeling.Bins[n3] != 1 {
		t.Errorf("seg3 bin = %d, want 1 (binB)", labeling.Bins[n3])
	}
}

func TestParseBinningTabDelimiter(t *testing.T) {
	gfaPath := writeTempFile(t, "assembly.gfa", sampleGFA)
	graph, err := ParseGFA(gfaPath)
	if err != nil {
		t.Fatalf("ParseGFA: %v", err)
	}

	binPath := writeTempFile(t, "binned.tsv", "seg1\tbinA\nseg2\tbinB\n")
	if _, err := ParseBinning(graph, binPath, "\t"); err != nil {
		t.Errorf("ParseBinning with tab delimiter: %v", err)
	}
}

func TestParseBinningUnknownContig(t *testing.T) {
	gfaPath := writeTempFile(t, "assembly.gfa", sampleGFA)
	graph, err := ParseGFA(gfaPath)
	if err != nil {
		t.Fatalf("ParseGFA: %v", err)
	}

	binPath := writeTempFile(t, "binned.csv", "ghost,binA\n")
	if _, err := ParseBinning(graph, binPath, ","); err == nil {
		t.Error("expected error for unknown contig name")
	}
}

func TestParseBinningConflict(t *testing.T) {
	gfaPath := writeTempFile(t, "assembly.gfa", sampleGFA)
	graph, err := ParseGFA(gfaPath)
	if err != nil {
		t.Fatalf("ParseGFA: %v", err)
	}

	binPath := writeTempFile(t, "binned.csv", "seg1,binA\nseg1,binB\n")
	if _, err := ParseBinning(graph, binPath, ","); err == nil {
		t.Error("expected error for conflicting contig assignment")
	}
}
