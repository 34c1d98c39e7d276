package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mikeboe/pharma-news/pkg/database"
	"github.com/mikeboe/pharma-news/pkg/research"
)

// Analyzer is satisfied by *research.Engine.
type Analyzer interface {
	Run(ctx context.Context, opts research.RunOptions) ([]research.CompoundReport, error)
	Digest(ctx context.Context, topic string, limit int) ([]research.DigestItem, error)
}

// JobStore is satisfied by *database.PostgresDB and *database.MemoryStore.
type JobStore interface {
	LogAppender
	CreateJob(ctx context.Context, compounds []string, includeSources bool) (*database.Job, error)
	SetJobStatus(ctx context.Context, id uuid.UUID, status database.JobStatus) error
	CompleteJob(ctx context.Context, id uuid.UUID, reports json.RawMessage) error
	FailJob(ctx context.Context, id uuid.UUID, reason string) error
	GetJob(ctx context.Context, id uuid.UUID) (*database.Job, error)
	ListJobs(ctx context.Context, limit int) ([]database.Job, error)
	GetJobLogs(ctx context.Context, jobID uuid.UUID) ([]database.LogEntry, error)
}

type Service struct {
	Analyzer   Analyzer
	Store      JobStore
	Logger     *slog.Logger
	JobTimeout time.Duration

	wg sync.WaitGroup
}

func NewService(analyzer Analyzer, store JobStore, logger *slog.Logger, jobTimeout time.Duration) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		Analyzer:   analyzer,
		Store:      store,
		Logger:     logger,
		JobTimeout: jobTimeout,
	}
}

type CreateJobRequest struct {
	Drugs          []string `json:"drugs"`
	IncludeSources bool     `json:"include_sources"`
}

// CreateJob stores a pending job and starts its analysis in the background.
func (s *Service) CreateJob(ctx context.Context, req CreateJobRequest) (*database.Job, error) {
	job, err := s.Store.CreateJob(ctx, req.Drugs, req.IncludeSources)
	if err != nil {
		return nil, err
	}

	// Start background worker
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.runWorker(job.ID, req)
	}()

	return job, nil
}

func (s *Service) GetJob(ctx context.Context, id uuid.UUID) (*database.Job, error) {
	return s.Store.GetJob(ctx, id)
}

func (s *Service) ListJobs(ctx context.Context) ([]database.Job, error) {
	return s.Store.ListJobs(ctx, database.DefaultListLimit)
}

func (s *Service) GetJobLogs(ctx context.Context, jobID uuid.UUID) ([]database.LogEntry, error) {
	return s.Store.GetJobLogs(ctx, jobID)
}

// Wait blocks until every background job has finished.
func (s *Service) Wait() {
	s.wg.Wait()
}

func (s *Service) runWorker(jobID uuid.UUID, req CreateJobRequest) {
	ctx := context.Background()
	if s.JobTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.JobTimeout)
		defer cancel()
	}

	jobLogger := slog.New(NewJobLogHandler(s.Store, jobID, s.Logger.Handler()))

	if err := s.Store.SetJobStatus(ctx, jobID, database.JobRunning); err != nil {
		s.Logger.Error("Failed to mark job running", "job_id", jobID, "error", err)
	}

	reports, err := s.Analyzer.Run(ctx, research.RunOptions{
		Compounds:      req.Drugs,
		IncludeSources: req.IncludeSources,
		Logger:         jobLogger,
	})
	if err != nil {
		s.failJob(jobLogger, jobID, fmt.Sprintf("Analysis failed: %v", err))
		return
	}

	data, err := json.Marshal(reports)
	if err != nil {
		s.failJob(jobLogger, jobID, fmt.Sprintf("Failed to encode reports: %v", err))
		return
	}

	if err := s.Store.CompleteJob(context.Background(), jobID, data); err != nil {
		s.Logger.Error("Failed to save reports", "job_id", jobID, "error", err)
	}
}

func (s *Service) failJob(jobLogger *slog.Logger, jobID uuid.UUID, reason string) {
	jobLogger.Error(reason)

	if err := s.Store.FailJob(context.Background(), jobID, reason); err != nil {
		s.Logger.Error("Failed to mark job failed", "job_id", jobID, "error", err)
	}
}
