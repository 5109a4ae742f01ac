// Package service runs refinement pipelines as background jobs for the HTTP
// API. Jobs and their results are kept in memory with a TTL.
package service

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/Vini2/GraphBin-0.1/pkg/pipeline"
)

// JobStatus tracks the lifecycle of a refinement job.
type JobStatus string

const (
	JobStatusQueued    JobStatus = "queued"
	JobStatusRunning   JobStatus = "running"
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
)

// Job describes one queued or executed refinement.
type Job struct {
	ID          string           `json:"id"`
	Options     pipeline.Options `json:"options"`
	Status      JobStatus        `json:"status"`
	Message     string           `json:"message"`
	Error       string           `json:"error,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
	StartedAt   *time.Time       `json:"started_at,omitempty"`
	CompletedAt *time.Time       `json:"completed_at,omitempty"`
}

// JobService handles background refinement job processing.
type JobService struct {
	jobs    map[string]*Job
	results map[string]*pipeline.Summary
	workers chan struct{}
	mutex   sync.RWMutex

	jobTTL          time.Duration
	cleanupInterval time.Duration
}

// NewJobService creates a job service with maxWorkers concurrent refinements.
func NewJobService(maxWorkers int, jobTTL, cleanupInterval time.Duration) *JobService {
	if maxWorkers < 1 {
		maxWorkers = 1
	}
	s := &JobService{
		jobs:            make(map[string]*Job),
		results:         make(map[string]*pipeline.Summary),
		workers:         make(chan struct{}, maxWorkers),
		jobTTL:          jobTTL,
		cleanupInterval: cleanupInterval,
	}

	go s.cleanupLoop()

	return s
}

// Submit queues a new refinement job and returns it immediately.
func (s *JobService) Submit(opts pipeline.Options) (*Job, error) {
	if err := opts.Refine.Validate(); err != nil {
		return nil, fmt.Errorf("invalid parameters: %w", err)
	}
	if opts.GraphFile == "" || opts.BinningFile == "" {
		return nil, fmt.Errorf("graph_file and binning_file are required")
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	now := time.Now()
	job := &Job{
		ID:        uuid.New().String(),
		Options:   opts,
		Status:    JobStatusQueued,
		Message:   "Queued",
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.jobs[job.ID] = job

	log.Info().
		Str("job_id", job.ID).
		Str("graph", opts.GraphFile).
		Str("binning", opts.BinningFile).
		Msg("Refinement job submitted")

	go s.processJob(job.ID)

	snapshot := *job
	return &snapshot, nil
}

// Get retrieves a snapshot of a job by ID. Callers receive a copy: the live
// record keeps changing under the service mutex while the job runs, so the
// shared pointer must never leave this package.
func (s *JobService) Get(jobID string) (*Job, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	job, exists := s.jobs[jobID]
	if !exists {
		return nil, fmt.Errorf("job not found: %s", jobID)
	}
	snapshot := *job
	return &snapshot, nil
}

// GetResult retrieves the pipeline summary of a completed job.
func (s *JobService) GetResult(jobID string) (*pipeline.Summary, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	result, exists := s.results[jobID]
	if !exists {
		return nil, fmt.Errorf("result not found for job: %s", jobID)
	}
	return result, nil
}

// List returns snapshots of all known jobs.
func (s *JobService) List() []*Job {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	jobs := make([]*Job, 0, len(s.jobs))
	for _, job := range s.jobs {
		snapshot := *job
		jobs = append(jobs, &snapshot)
	}
	return jobs
}

// processJob runs one refinement under a worker slot.
func (s *JobService) processJob(jobID string) {
	s.workers <- struct{}{}
	defer func() { <-s.workers }()

	s.mutex.RLock()
	job, exists := s.jobs[jobID]
	s.mutex.RUnlock()
	if !exists {
		log.Error().Str("job_id", jobID).Msg("Job not found during processing")
		return
	}

	startTime := time.Now()
	s.update(jobID, func(j *Job) {
		j.Status = JobStatusRunning
		j.Message = "Refining"
		j.StartedAt = &startTime
	})

	opts := job.Options
	opts.Refine.Logger = log.With().Str("job_id", jobID).Logger()
	opts.Refine.ProgressCallback = func(round, changed int, message string) {
		s.update(jobID, func(j *Job) {
			j.Message = fmt.Sprintf("Round %d: %d labels assigned", round, changed)
		})
	}

	summary, err := pipeline.Run(opts, opts.Refine.Logger)
	if err != nil {
		s.update(jobID, func(j *Job) {
			j.Status = JobStatusFailed
			j.Error = err.Error()
			j.Message = "Failed"
			now := time.Now()
			j.CompletedAt = &now
		})
		log.Error().Str("job_id", jobID).Err(err).Msg("Refinement job failed")
		return
	}

	s.mutex.Lock()
	s.results[jobID] = summary
	s.mutex.Unlock()

	s.update(jobID, func(j *Job) {
		j.Status = JobStatusCompleted
		j.Message = "Complete"
		now := time.Now()
		j.CompletedAt = &now
	})

	log.Info().
		Str("job_id", jobID).
		Int("rounds", summary.Result.Rounds).
		Str("reason", string(summary.Result.Reason)).
		Int64("elapsed_ms", summary.ElapsedMS).
		Msg("Refinement job completed")
}

func (s *JobService) update(jobID string, fn func(*Job)) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	job, exists := s.jobs[jobID]
	if !exists {
		return
	}
	fn(job)
	job.UpdatedAt = time.Now()
}

// cleanupLoop periodically drops jobs older than the TTL.
func (s *JobService) cleanupLoop() {
	if s.cleanupInterval <= 0 {
		return
	}
	ticker := time.NewTicker(s.cleanupInterval)
	defer ticker.Stop()

	for range ticker.C {
		s.cleanup()
	}
}

func (s *JobService) cleanup() {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	cutoff := time.Now().Add(-s.jobTTL)
	cleaned := 0
	for jobID, job := range s.jobs {
		if job.UpdatedAt.Before(cutoff) &&
			(job.Status == JobStatusCompleted || job.Status == JobStatusFailed) {
			delete(s.jobs, jobID)
			delete(s.results, jobID)
			cleaned++
		}
	}
	if cleaned > 0 {
		log.Info().Int("cleaned_jobs", cleaned).Msg("Job cleanup completed")
	}
}
