package database

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore keeps jobs and logs in process memory. It is used when no
// DATABASE_URL is configured and loses everything on restart.
type MemoryStore struct {
	mu     sync.RWMutex
	jobs   map[uuid.UUID]*Job
	logs   map[uuid.UUID][]LogEntry
	nextID int
	now    func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		jobs: make(map[uuid.UUID]*Job),
		logs: make(map[uuid.UUID][]LogEntry),
		now:  time.Now,
	}
}

func (m *MemoryStore) CreateJob(ctx context.Context, compounds []string, includeSources bool) (*Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	job := &Job{
		ID:             uuid.New(),
		Compounds:      append([]string(nil), compounds...),
		IncludeSources: includeSources,
		Status:         JobPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	m.jobs[job.ID] = job
	return copyJob(job), nil
}

func (m *MemoryStore) SetJobStatus(ctx context.Context, id uuid.UUID, status JobStatus) error {
	return m.update(id, func(j *Job) { j.Status = status })
}

func (m *MemoryStore) CompleteJob(ctx context.Context, id uuid.UUID, reports json.RawMessage) error {
	return m.update(id, func(j *Job) {
		j.Status = JobCompleted
		j.Reports = append(json.RawMessage(nil), reports...)
	})
}

func (m *MemoryStore) FailJob(ctx context.Context, id uuid.UUID, reason string) error {
	return m.update(id, func(j *Job) {
		j.Status = JobFailed
		j.Error = &reason
	})
}

func (m *MemoryStore) update(id uuid.UUID, fn func(*Job)) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	job, ok := m.jobs[id]
	if !ok {
		return ErrJobNotFound
	}
	fn(job)
	job.UpdatedAt = m.now()
	return nil
}

func (m *MemoryStore) GetJob(ctx context.Context, id uuid.UUID) (*Job, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	job, ok := m.jobs[id]
	if !ok {
		return nil, ErrJobNotFound
	}
	return copyJob(job), nil
}

// ListJobs returns the newest jobs first.
func (m *MemoryStore) ListJobs(ctx context.Context, limit int) ([]Job, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	m.mu.RLock()
	jobs := make([]Job, 0, len(m.jobs))
	for _, j := range m.jobs {
		jobs = append(jobs, *copyJob(j))
	}
	m.mu.RUnlock()

	sort.Slice(jobs, func(a, b int) bool {
		return jobs[a].CreatedAt.After(jobs[b].CreatedAt)
	})
	if len(jobs) > limit {
		jobs = jobs[:limit]
	}
	return jobs, nil
}

func (m *MemoryStore) AppendLog(ctx context.Context, jobID uuid.UUID, entry LogEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.jobs[jobID]; !ok {
		return ErrJobNotFound
	}
	m.nextID++
	entry.ID = m.nextID
	m.logs[jobID] = append(m.logs[jobID], entry)
	return nil
}

func (m *MemoryStore) GetJobLogs(ctx context.Context, jobID uuid.UUID) ([]LogEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return append([]LogEntry(nil), m.logs[jobID]...), nil
}

func copyJob(j *Job) *Job {
	c := *j
	c.Compounds = append([]string(nil), j.Compounds...)
	if j.Reports != nil {
		c.Reports = append(json.RawMessage(nil), j.Reports...)
	}
	if j.Error != nil {
		e := *j.Error
		c.Error = &e
	}
	return &c
}
