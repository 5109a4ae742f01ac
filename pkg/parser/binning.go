package parser

import (
	"encoding/csv"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/Vini2/GraphBin-0.1/pkg/models"
)

// CountBins reads an initial binning result and returns the number of
// distinct bins plus the bin name list in sorted order. The bin set is fixed
// here once and never expanded during refinement.
func CountBins(path, delimiter string) (int, []string, error) {
	records, err := readBinningRecords(path, delimiter)
	if err != nil {
		return 0, nil, err
	}

	seen := make(map[string]bool)
	var names []string
	for _, rec := range records {
		if !seen[rec.bin] {
			seen[rec.bin] = true
			names = append(names, rec.bin)
		}
	}
	sort.Strings(names)
	return len(names), names, nil
}

// ParseBinning reads an initial binning result file and projects its
// contig-level labels onto the graph nodes. Each record is
// "<contig><delimiter><bin>"; every contig named must exist in the graph.
// All nodes of a labeled contig start with that contig's bin.
func ParseBinning(graph *models.AssemblyGraph, path, delimiter string) (*models.Labeling, error) {
	records, err := readBinningRecords(path, delimiter)
	if err != nil {
		return nil, err
	}

	numBins, binNames, err := CountBins(path, delimiter)
	if err != nil {
		return nil, err
	}
	binIndex := make(map[string]int, numBins)
	for i, name := range binNames {
		binIndex[name] = i
	}

	contigIndex := make(map[string]int, len(graph.ContigNames))
	for c, name := range graph.ContigNames {
		contigIndex[name] = c
	}

	labeling := models.NewLabeling(graph.NumNodes, numBins)
	labeling.BinNames = binNames

	assigned := make(map[int]int)
	for _, rec := range records {
		c, ok := contigIndex[rec.contig]
		if !ok {
			return nil, fmt.Errorf("line %d: binning result names unknown contig %q", rec.line, rec.contig)
		}
		bin := binIndex[rec.bin]
		if prev, ok := assigned[c]; ok && prev != bin {
			return nil, fmt.Errorf("line %d: contig %q assigned to both %q and %q",
				rec.line, rec.contig, binNames[prev], rec.bin)
		}
		assigned[c] = bin
		for _, node := range graph.ContigNodes[c] {
			labeling.Bins[node] = bin
		}
	}

	return labeling, nil
}

type binningRecord struct {
	contig string
	bin    string
	line   int
}

func readBinningRecords(path, delimiter string) ([]binningRecord, error) {
	if delimiter == "" {
		delimiter = ","
	}
	runes := []rune(delimiter)
	if len(runes) != 1 {
		return nil, fmt.Errorf("delimiter must be a single character, got %q", delimiter)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open binning result: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.Comma = runes[0]
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse binning result: %w", err)
	}

	var records []binningRecord
	for i, row := range rows {
		if len(row) == 0 || (len(row) == 1 && strings.TrimSpace(row[0]) == "") {
			continue
		}
		if len(row) < 2 {
			return nil, fmt.Errorf("line %d: expected contig and bin fields", i+1)
		}
		contig := strings.TrimSpace(row[0])
		bin := strings.TrimSpace(row[1])
		if contig == "" || bin == "" {
			return nil, fmt.Errorf("line %d: empty contig or bin field", i+1)
		}
		records = append(records, binningRecord{contig: contig, bin: bin, line: i + 1})
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("no binning records found in %s", path)
	}
	return records, nil
}
