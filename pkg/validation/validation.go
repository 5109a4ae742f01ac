// Package validation performs structural validation of refinement inputs
// before the engine runs. Malformed input is a fatal configuration error; the
// engine never attempts partial recovery from it.
package validation

import (
	"fmt"

	"github.com/Vini2/GraphBin-0.1/pkg/models"
	"github.com/Vini2/GraphBin-0.1/pkg/refine"
)

// ValidateInputs checks the graph, the initial labeling, and the engine
// options together and reports every problem found, not just the first.
func ValidateInputs(graph *models.AssemblyGraph, labeling *models.Labeling, opts refine.Options) error {
	var errs models.ValidationErrors

	if graph == nil {
		errs = append(errs, models.ValidationError{Field: "graph", Message: "graph cannot be nil"})
	}
	if labeling == nil {
		errs = append(errs, models.ValidationError{Field: "labeling", Message: "labeling cannot be nil"})
	}
	if len(errs) > 0 {
		return errs
	}

	if err := graph.Validate(); err != nil {
		errs = append(errs, models.ValidationError{Field: "graph", Message: err.Error()})
	}
	if err := labeling.Validate(graph); err != nil {
		errs = append(errs, models.ValidationError{Field: "labeling", Message: err.Error()})
	} else {
		errs = append(errs, validateContigGroups(graph)...)
	}
	if err := opts.Validate(); err != nil {
		errs = append(errs, models.ValidationError{Field: "options", Message: err.Error()})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// validateContigGroups checks the contig grouping side of the input.
// Bin-range checks already happen in Labeling.Validate.
func validateContigGroups(graph *models.AssemblyGraph) models.ValidationErrors {
	var errs models.ValidationErrors

	for c, nodes := range graph.ContigNodes {
		if len(nodes) == 0 && c < len(graph.ContigNames) && graph.ContigNames[c] != "" {
			errs = append(errs, models.ValidationError{
				Field:   "contigs",
				Message: fmt.Sprintf("contig group %q references no nodes", graph.ContigNames[c]),
			})
		}
	}

	return errs
}
