// Package database archives analysis jobs and their logs. Stored reports are
// only ever returned to API clients; the pipeline never reads them back.
package database

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrJobNotFound = errors.New("job not found")

type JobStatus string

const (
	JobPending   JobStatus = "pending"
	JobRunning   JobStatus = "running"
	JobCompleted JobStatus = "completed"
	JobFailed    JobStatus = "failed"
)

type Job struct {
	ID             uuid.UUID       `json:"id"`
	Compounds      []string        `json:"compounds"`
	IncludeSources bool            `json:"include_sources"`
	Status         JobStatus       `json:"status"`
	Reports        json.RawMessage `json:"reports,omitempty"`
	Error          *string         `json:"error,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

type LogEntry struct {
	ID        int             `json:"id"`
	Timestamp time.Time       `json:"timestamp"`
	Level     string          `json:"level"`
	Message   string          `json:"message"`
	Metadata  json.RawMessage `json:"metadata"`
}

// DefaultListLimit caps ListJobs when no limit is given.
const DefaultListLimit = 50
