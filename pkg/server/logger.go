package server

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/google/uuid"

	"github.com/mikeboe/pharma-news/pkg/database"
)

// LogAppender is the part of the job store the log handler writes to.
type LogAppender interface {
	AppendLog(ctx context.Context, jobID uuid.UUID, entry database.LogEntry) error
}

// JobLogHandler is a slog.Handler that writes records to the job store and
// optionally forwards them to another handler for console output.
type JobLogHandler struct {
	Store LogAppender
	JobID uuid.UUID

	next  slog.Handler
	attrs []slog.Attr
	group string
}

func NewJobLogHandler(store LogAppender, jobID uuid.UUID, next slog.Handler) *JobLogHandler {
	return &JobLogHandler{
		Store: store,
		JobID: jobID,
		next:  next,
	}
}

func (h *JobLogHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return true // Log everything
}

func (h *JobLogHandler) Handle(ctx context.Context, r slog.Record) error {
	// Extract attributes to JSON
	attrs := make(map[string]interface{})
	for _, a := range h.attrs {
		attrs[a.Key] = attrValue(a.Value)
	}
	r.Attrs(func(a slog.Attr) bool {
		key := a.Key
		if h.group != "" {
			key = h.group + "." + key
		}
		attrs[key] = attrValue(a.Value)
		return true
	})
	attrs["job_id"] = h.JobID.String()

	metaJSON, err := json.Marshal(attrs)
	if err != nil {
		// Fallback for marshal error
		metaJSON = []byte("{}")
	}

	if h.next != nil && h.next.Enabled(ctx, r.Level) {
		_ = h.next.Handle(ctx, r)
	}

	// Use background context for insert so logs persist even if the run context is cancelled
	return h.Store.AppendLog(context.Background(), h.JobID, database.LogEntry{
		Timestamp: r.Time,
		Level:     r.Level.String(),
		Message:   r.Message,
		Metadata:  metaJSON,
	})
}

func (h *JobLogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	c := *h
	c.attrs = append(append([]slog.Attr(nil), h.attrs...), attrs...)
	if h.next != nil {
		c.next = h.next.WithAttrs(attrs)
	}
	return &c
}

func (h *JobLogHandler) WithGroup(name string) slog.Handler {
	c := *h
	c.group = name
	if h.next != nil {
		c.next = h.next.WithGroup(name)
	}
	return &c
}

// errors marshal to {} through encoding/json, so store their message instead.
func attrValue(v slog.Value) any {
	v = v.Resolve()
	if err, ok := v.Any().(error); ok {
		return err.Error()
	}
	return v.Any()
}
