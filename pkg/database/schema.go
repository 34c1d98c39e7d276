package database

import (
	"context"
	"fmt"
)

func (db *PostgresDB) InitSchema(ctx context.Context) error {
	// 1. Analysis Jobs Table
	jobsQuery := `
		CREATE TABLE IF NOT EXISTS analysis_jobs (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			compounds TEXT[] NOT NULL,
			include_sources BOOLEAN NOT NULL DEFAULT FALSE,
			status TEXT NOT NULL DEFAULT 'pending',
			reports JSONB,
			error TEXT,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
			updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		);
	`
	if _, err := db.Pool.Exec(ctx, jobsQuery); err != nil {
		return fmt.Errorf("failed to create analysis_jobs table: %w", err)
	}

	// 2. Analysis Logs Table
	logsQuery := `
		CREATE TABLE IF NOT EXISTS analysis_logs (
			id SERIAL PRIMARY KEY,
			job_id UUID NOT NULL REFERENCES analysis_jobs(id) ON DELETE CASCADE,
			timestamp TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
			level TEXT NOT NULL,
			message TEXT NOT NULL,
			metadata JSONB
		);
	`
	if _, err := db.Pool.Exec(ctx, logsQuery); err != nil {
		return fmt.Errorf("failed to create analysis_logs table: %w", err)
	}

	// Indexes for faster querying
	if _, err := db.Pool.Exec(ctx, "CREATE INDEX IF NOT EXISTS idx_analysis_logs_job_id ON analysis_logs(job_id)"); err != nil {
		return fmt.Errorf("failed to create index on analysis_logs: %w", err)
	}
	if _, err := db.Pool.Exec(ctx, "CREATE INDEX IF NOT EXISTS idx_analysis_jobs_created_at ON analysis_jobs(created_at DESC)"); err != nil {
		return fmt.Errorf("failed to create index on analysis_jobs: %w", err)
	}

	return nil
}
