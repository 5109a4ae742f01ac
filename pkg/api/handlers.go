// Package api exposes the refinement job service over HTTP.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"github.com/Vini2/GraphBin-0.1/pkg/pipeline"
	"github.com/Vini2/GraphBin-0.1/pkg/refine"
	"github.com/Vini2/GraphBin-0.1/pkg/service"
)

// RefinementRequest is the body of POST /refinements. Paths are server-local;
// this is a batch tool fronted by an API, not an upload service.
type RefinementRequest struct {
	GraphFile     string  `json:"graph_file"`
	BinningFile   string  `json:"binning_file"`
	ContigMapFile string  `json:"contig_map_file,omitempty"`
	OutputDir     string  `json:"output_dir,omitempty"`
	Prefix        string  `json:"prefix,omitempty"`
	Delimiter     string  `json:"delimiter,omitempty"`
	DiffThreshold float64 `json:"diff_threshold"`
	MaxIteration  int     `json:"max_iteration"`
	WeightByLen   bool    `json:"weight_by_length,omitempty"`
}

// Handlers contains HTTP request handlers.
type Handlers struct {
	jobService *service.JobService
}

// NewHandlers creates new API handlers.
func NewHandlers(jobService *service.JobService) *Handlers {
	return &Handlers{jobService: jobService}
}

// StartRefinement queues a refinement job.
func (h *Handlers) StartRefinement(w http.ResponseWriter, r *http.Request) {
	var req RefinementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteErrorResponse(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	opts := refine.DefaultOptions()
	if req.DiffThreshold != 0 {
		opts.DiffThreshold = req.DiffThreshold
	}
	if req.MaxIteration != 0 {
		opts.MaxIteration = req.MaxIteration
	}
	opts.WeightByLength = req.WeightByLen

	job, err := h.jobService.Submit(pipeline.Options{
		GraphFile:     req.GraphFile,
		BinningFile:   req.BinningFile,
		ContigMapFile: req.ContigMapFile,
		OutputDir:     req.OutputDir,
		Prefix:        req.Prefix,
		Delimiter:     req.Delimiter,
		Refine:        opts,
	})
	if err != nil {
		WriteErrorResponse(w, http.StatusBadRequest, "Failed to submit refinement job", err)
		return
	}

	log.Info().Str("job_id", job.ID).Msg("Refinement job accepted")
	writeJSONResponse(w, http.StatusAccepted, APIResponse{
		Success: true,
		Message: "Refinement job queued",
		Data:    job,
	})
}

// GetJob returns the status of a job.
func (h *Handlers) GetJob(w http.ResponseWriter, r *http.Request) {
	jobID := mux.Vars(r)["jobId"]

	job, err := h.jobService.Get(jobID)
	if err != nil {
		WriteErrorResponse(w, http.StatusNotFound, "Job not found", err)
		return
	}
	WriteSuccessResponse(w, "Job retrieved", job)
}

// GetJobResult returns the refinement summary of a completed job.
func (h *Handlers) GetJobResult(w http.ResponseWriter, r *http.Request) {
	jobID := mux.Vars(r)["jobId"]

	job, err := h.jobService.Get(jobID)
	if err != nil {
		WriteErrorResponse(w, http.StatusNotFound, "Job not found", err)
		return
	}
	if job.Status != service.JobStatusCompleted {
		WriteErrorResponse(w, http.StatusConflict, "Job has not completed", nil)
		return
	}

	summary, err := h.jobService.GetResult(jobID)
	if err != nil {
		WriteErrorResponse(w, http.StatusNotFound, "Result not found", err)
		return
	}
	WriteSuccessResponse(w, "Result retrieved", summary)
}

// ListJobs returns all known jobs.
func (h *Handlers) ListJobs(w http.ResponseWriter, r *http.Request) {
	WriteSuccessResponse(w, "Jobs retrieved", h.jobService.List())
}

// HealthCheck reports service liveness.
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	WriteSuccessResponse(w, "ok", map[string]string{"status": "healthy"})
}
