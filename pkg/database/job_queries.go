package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const jobColumns = "id, compounds, include_sources, status, reports, error, created_at, updated_at"

func scanJob(row pgx.Row) (*Job, error) {
	job := &Job{}
	var reports []byte
	if err := row.Scan(&job.ID, &job.Compounds, &job.IncludeSources, &job.Status, &reports, &job.Error, &job.CreatedAt, &job.UpdatedAt); err != nil {
		return nil, err
	}
	if len(reports) > 0 {
		job.Reports = json.RawMessage(reports)
	}
	return job, nil
}

func (db *PostgresDB) CreateJob(ctx context.Context, compounds []string, includeSources bool) (*Job, error) {
	query := `
		INSERT INTO analysis_jobs (id, compounds, include_sources, status)
		VALUES ($1, $2, $3, 'pending')
		RETURNING ` + jobColumns

	job, err := scanJob(db.Pool.QueryRow(ctx, query, uuid.New(), compounds, includeSources))
	if err != nil {
		return nil, fmt.Errorf("failed to create job: %w", err)
	}
	return job, nil
}

func (db *PostgresDB) SetJobStatus(ctx context.Context, id uuid.UUID, status JobStatus) error {
	return db.updateJob(ctx, "UPDATE analysis_jobs SET status = $2, updated_at = NOW() WHERE id = $1", id, status)
}

func (db *PostgresDB) CompleteJob(ctx context.Context, id uuid.UUID, reports json.RawMessage) error {
	return db.updateJob(ctx,
		"UPDATE analysis_jobs SET status = 'completed', reports = $2, updated_at = NOW() WHERE id = $1",
		id, []byte(reports))
}

func (db *PostgresDB) FailJob(ctx context.Context, id uuid.UUID, reason string) error {
	return db.updateJob(ctx,
		"UPDATE analysis_jobs SET status = 'failed', error = $2, updated_at = NOW() WHERE id = $1",
		id, reason)
}

func (db *PostgresDB) updateJob(ctx context.Context, query string, id uuid.UUID, arg any) error {
	tag, err := db.Pool.Exec(ctx, query, id, arg)
	if err != nil {
		return fmt.Errorf("failed to update job: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrJobNotFound
	}
	return nil
}

func (db *PostgresDB) GetJob(ctx context.Context, id uuid.UUID) (*Job, error) {
	query := "SELECT " + jobColumns + " FROM analysis_jobs WHERE id = $1"

	job, err := scanJob(db.Pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrJobNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get job: %w", err)
	}
	return job, nil
}

func (db *PostgresDB) ListJobs(ctx context.Context, limit int) ([]Job, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	query := "SELECT " + jobColumns + " FROM analysis_jobs ORDER BY created_at DESC LIMIT $1"

	rows, err := db.Pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	defer rows.Close()

	var jobs []Job
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			continue
		}
		jobs = append(jobs, *job)
	}
	return jobs, rows.Err()
}

func (db *PostgresDB) AppendLog(ctx context.Context, jobID uuid.UUID, entry LogEntry) error {
	query := `
		INSERT INTO analysis_logs (job_id, timestamp, level, message, metadata)
		VALUES ($1, $2, $3, $4, $5)
	`
	if _, err := db.Pool.Exec(ctx, query, jobID, entry.Timestamp, entry.Level, entry.Message, []byte(entry.Metadata)); err != nil {
		return fmt.Errorf("failed to append log: %w", err)
	}
	return nil
}

func (db *PostgresDB) GetJobLogs(ctx context.Context, jobID uuid.UUID) ([]LogEntry, error) {
	query := `
		SELECT id, timestamp, level, message, metadata
		FROM analysis_logs
		WHERE job_id = $1
		ORDER BY id ASC
	`
	rows, err := db.Pool.Query(ctx, query, jobID)
	if err != nil {
		return nil, fmt.Errorf("failed to get logs: %w", err)
	}
	defer rows.Close()

	var logs []LogEntry
	for rows.Next() {
		var l LogEntry
		var meta []byte
		if err := rows.Scan(&l.ID, &l.Timestamp, &l.Level, &l.Message, &meta); err != nil {
			continue
		}
		l.Metadata = json.RawMessage(meta)
		logs = append(logs, l)
	}
	return logs, rows.Err()
}
