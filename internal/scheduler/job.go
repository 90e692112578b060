package scheduler

import (
	"context"
	"time"

	"github.com/adilezz/botbourse/internal/contracts"
)

// Job is one schedulable unit of work.
type Job interface {
	Name() string

	Run(ctx context.Context) error

	// Schedule returns the cron expression, e.g. "30 18 * * 1-5"
	// (weekdays at 18:30, after the session close).
	Schedule() string
}

// JobResult records one execution.
type JobResult struct {
	JobName   string        `json:"job_name"`
	StartTime time.Time     `json:"start_time"`
	EndTime   time.Time     `json:"end_time"`
	Duration  time.Duration `json:"duration"`
	Success   bool          `json:"success"`
	Error     string        `json:"error,omitempty"`
}

// JobHistory keeps the last executions of one job, capped at 100.
type JobHistory struct {
	Results []JobResult
}

func (h *JobHistory) AddResult(result JobResult) {
	h.Results = append(h.Results, result)
	if len(h.Results) > 100 {
		h.Results = h.Results[len(h.Results)-100:]
	}
}

func (h *JobHistory) GetLatestResults(n int) []JobResult {
	if n > len(h.Results) {
		n = len(h.Results)
	}
	if n == 0 {
		return []JobResult{}
	}
	return h.Results[len(h.Results)-n:]
}

// PipelineRunner is the slice of the pipeline the market job needs.
type PipelineRunner interface {
	Run(ctx context.Context, today time.Time) (*contracts.RunReport, error)
}

// MarketPipelineJob runs the full daily pipeline after the session close
// on trading days. The report cadence (daily, weekly on Fridays, monthly
// on month end) is decided inside the pipeline from the calendar.
type MarketPipelineJob struct {
	runner   PipelineRunner
	schedule string
}

func NewMarketPipelineJob(runner PipelineRunner, schedule string) *MarketPipelineJob {
	if schedule == "" {
		schedule = "30 18 * * 1-5"
	}
	return &MarketPipelineJob{runner: runner, schedule: schedule}
}

func (j *MarketPipelineJob) Name() string     { return "market-pipeline" }
func (j *MarketPipelineJob) Schedule() string { return j.schedule }

func (j *MarketPipelineJob) Run(ctx context.Context) error {
	_, err := j.runner.Run(ctx, time.Now())
	return err
}
