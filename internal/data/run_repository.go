package data

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PipelineRun records one sync/analysis execution for the status command
// and the API.
type PipelineRun struct {
	ID            int64
	StartedAt     time.Time
	FinishedAt    *time.Time
	WindowFrom    *time.Time
	WindowTo      *time.Time
	RowsInserted  int
	SymbolsOK     int
	SymbolsFailed int
	Status        string
	Error         string
}

const (
	RunStatusRunning = "RUNNING"
	RunStatusSuccess = "SUCCESS"
	RunStatusFailed  = "FAILED"
)

// RunRepository persists pipeline run records.
type RunRepository struct {
	pool *pgxpool.Pool
}

func NewRunRepository(pool *pgxpool.Pool) *RunRepository {
	return &RunRepository{pool: pool}
}

// Start opens a run record and returns its id.
func (r *RunRepository) Start(ctx context.Context, from, to time.Time) (int64, error) {
	query := `
		INSERT INTO pipeline_runs (window_from, window_to)
		VALUES ($1, $2)
		RETURNING id
	`

	var id int64
	if err := r.pool.QueryRow(ctx, query, from, to).Scan(&id); err != nil {
		return 0, fmt.Errorf("start pipeline run: %w", err)
	}
	return id, nil
}

// Finish closes a run record with its final counters.
func (r *RunRepository) Finish(ctx context.Context, id int64, run PipelineRun) error {
	query := `
		UPDATE pipeline_runs
		SET finished_at = NOW(),
		    rows_inserted = $2,
		    symbols_ok = $3,
		    symbols_failed = $4,
		    status = $5,
		    error = $6
		WHERE id = $1
	`

	if _, err := r.pool.Exec(ctx, query, id,
		run.RowsInserted, run.SymbolsOK, run.SymbolsFailed, run.Status, run.Error); err != nil {
		return fmt.Errorf("finish pipeline run %d: %w", id, err)
	}
	return nil
}

// Latest returns the most recent runs, newest first.
func (r *RunRepository) Latest(ctx context.Context, limit int) ([]PipelineRun, error) {
	query := `
		SELECT id, started_at, finished_at, window_from, window_to,
		       rows_inserted, symbols_ok, symbols_failed, status, error
		FROM pipeline_runs
		ORDER BY started_at DESC
		LIMIT $1
	`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query pipeline runs: %w", err)
	}
	defer rows.Close()

	var runs []PipelineRun
	for rows.Next() {
		var run PipelineRun
		if err := rows.Scan(&run.ID, &run.StartedAt, &run.FinishedAt,
			&run.WindowFrom, &run.WindowTo, &run.RowsInserted,
			&run.SymbolsOK, &run.SymbolsFailed, &run.Status, &run.Error); err != nil {
			return nil, fmt.Errorf("scan pipeline run: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}
