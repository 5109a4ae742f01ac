package refine

import (
	"testing"

	"github.com/Vini2/GraphBin-0.1/pkg/models"
)

func TestBinSupportNoEvidence(t *testing.T) {
	g := models.NewAssemblyGraph(3)
	if err := g.AddEdge(0, 1); err != nil {
		t.Fatalf("AddEdge: %v", err)
	}
	if err := g.AddEdge(0, 2); err != nil {
		t.Fatalf("AddEdge: %v", err)
	}
	bins := []int{models.Unbinned, models.Unbinned, models.Unbinned}

	scores, unlabeled := binSupport(g, bins, 0, false)
	if len(scores) != 0 {
		t.Errorf("scores = %v, want empty map (no evidence)", scores)
	}
	if unlabeled != 2 {
		t.Errorf("unlabeled = %d, want 2", unlabeled)
	}
}

func TestBinSupportCounts(t *testing.T) {
	g := models.NewAssemblyGraph(5)
	for i := 1; i <= 4; i++ {
		if err := g.AddEdge(0, i); err != nil {
			t.Fatalf("AddEdge: %v", err)
		}
	}
	bins := []int{models.Unbinned, 0, 0, 1, models.Unbinned}

	scores, unlabeled := binSupport(g, bins, 0, false)
	if scores[0] != 2 || scores[1] != 1 {
		t.Errorf("scores = %v, want map[0:2 1:1]", scores)
	}
	if unlabeled != 1 {
		t.Errorf("unlabeled = %d, want 1", unlabeled)
	}
}

func TestBinSupportWeightedByLength(t *testing.T) {
	g := models.NewAssemblyGraph(3)
	if err := g.AddEdge(0, 1); err != nil {
		t.Fatalf("AddEdge: %v", err)
	}
	if err := g.AddEdge(0, 2); err != nil {
		t.Fatalf("AddEdge: %v", err)
	}
	g.Lengths[1] = 1000
	g.Lengths[2] = 10
	bins := []int{models.Unbinned, 0, 1}

	scores, _ := binSupport(g, bins, 0, true)
	if scores[0] != 1000 || scores[1] != 10 {
		t.Errorf("weighted scores = %v, want map[0:1000 1:10]", scores)
	}
}

func TestPickBest(t *testing.T) {
	tests := []struct {
		name       string
		scores     map[int]float64
		wantBin    int
		wantStrict bool
	}{
		{"Empty", map[int]float64{}, models.Unbinned, false},
		{"Single", map[int]float64{2: 3}, 2, true},
		{"StrictWinner", map[int]float64{0: 1, 1: 4, 2: 2}, 1, true},
		{"TieTakesLowest", map[int]float64{3: 2, 1: 2, 0: 1}, 1, false},
		{"AllTied", map[int]float64{0: 1, 1: 1, 2: 1}, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Map iteration order varies: repeat to catch order dependence.
			for i := 0; i < 20; i++ {
				bin, _, strict := pickBest(tt.scores)
				if bin != tt.wantBin || strict != tt.wantStrict {
					t.Fatalf("pickBest(%v) = %d,%v, want %d,%v",
						tt.scores, bin, strict, tt.wantBin, tt.wantStrict)
				}
			}
		})
	}
}
