// Package writer serializes refinement results into contig-level bin
// assignments and per-bin result files.
package writer

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Vini2/GraphBin-0.1/pkg/models"
	"github.com/Vini2/GraphBin-0.1/pkg/refine"
)

// OutputWriter interface for flexible output generation.
type OutputWriter interface {
	WriteContigBins(graph *models.AssemblyGraph, labeling *models.Labeling, result *refine.Result, path, delimiter string) error
	WriteUnbinned(graph *models.AssemblyGraph, result *refine.Result, path string) error
	WriteBins(graph *models.AssemblyGraph, labeling *models.Labeling, result *refine.Result, dir string) error
	WriteAll(graph *models.AssemblyGraph, labeling *models.Labeling, result *refine.Result, outputDir, prefix, delimiter string) error
}

// FileWriter implements OutputWriter for file-based output.
type FileWriter struct{}

// NewFileWriter creates a new file-based output writer.
func NewFileWriter() OutputWriter {
	return &FileWriter{}
}

// WriteAll writes the final contig assignment CSV, the unbinned contig list,
// and one contig list per bin under <outputDir>/bins/.
func (fw *FileWriter) WriteAll(graph *models.AssemblyGraph, labeling *models.Labeling, result *refine.Result, outputDir, prefix, delimiter string) error {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	outputPath := filepath.Join(outputDir, prefix+"graphbin_output.csv")
	if err := fw.WriteContigBins(graph, labeling, result, outputPath, delimiter); err != nil {
		return fmt.Errorf("failed to write contig assignments: %w", err)
	}

	unbinnedPath := filepath.Join(outputDir, prefix+"graphbin_unbinned.csv")
	if err := fw.WriteUnbinned(graph, result, unbinnedPath); err != nil {
		return fmt.Errorf("failed to write unbinned contigs: %w", err)
	}

	binsDir := filepath.Join(outputDir, prefix+"bins")
	if err := fw.WriteBins(graph, labeling, result, binsDir); err != nil {
		return fmt.Errorf("failed to write per-bin files: %w", err)
	}

	return nil
}

// WriteContigBins writes one "<contig><delimiter><bin>" row per binned
// contig, in contig order. Reconciliation guarantees all nodes of a contig
// share one label, so the first labeled node speaks for the contig.
func (fw *FileWriter) WriteContigBins(graph *models.AssemblyGraph, labeling *models.Labeling, result *refine.Result, path, delimiter string) error {
	if delimiter == "" {
		delimiter = ","
	}
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	w := bufio.NewWriter(file)
	for c, bin := range contigBins(graph, result) {
		if bin == models.Unbinned {
			continue
		}
		fmt.Fprintf(w, "%s%s%s\n", graph.ContigNames[c], delimiter, labeling.BinNames[bin])
	}
	return w.Flush()
}

// WriteUnbinned lists contigs that ended the run without a label, one per
// line.
func (fw *FileWriter) WriteUnbinned(graph *models.AssemblyGraph, result *refine.Result, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	w := bufio.NewWriter(file)
	for c, bin := range contigBins(graph, result) {
		if bin == models.Unbinned && len(graph.ContigNodes[c]) > 0 {
			fmt.Fprintln(w, graph.ContigNames[c])
		}
	}
	return w.Flush()
}

// WriteBins writes <dir>/<binName>.txt with the contig names of each bin.
// Every declared bin gets a file even when the refinement left it empty.
func (fw *FileWriter) WriteBins(graph *models.AssemblyGraph, labeling *models.Labeling, result *refine.Result, dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	perBin := make([][]string, labeling.NumBins)
	for c, bin := range contigBins(graph, result) {
		if bin != models.Unbinned {
			perBin[bin] = append(perBin[bin], graph.ContigNames[c])
		}
	}

	for bin, contigs := range perBin {
		path := filepath.Join(dir, labeling.BinNames[bin]+".txt")
		file, err := os.Create(path)
		if err != nil {
			return err
		}
		w := bufio.NewWriter(file)
		for _, contig := range contigs {
			fmt.Fprintln(w, contig)
		}
		if err := w.Flush(); err != nil {
			file.Close()
			return err
		}
		if err := file.Close(); err != nil {
			return err
		}
	}
	return nil
}

// contigBins collapses the node-level final map to contig level.
func contigBins(graph *models.AssemblyGraph, result *refine.Result) []int {
	bins := make([]int, len(graph.ContigNodes))
	for c := range bins {
		bins[c] = models.Unbinned
		for _, node := range graph.ContigNodes[c] {
			if bin, ok := result.FinalLabels[node]; ok {
				bins[c] = bin
				break
			}
		}
	}
	return bins
}
