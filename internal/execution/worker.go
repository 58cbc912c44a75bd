package execution

import (
	"context"
	"errors"
	"sync"
	"time"

	"specline/internal/domain"
)

// WorkerPool processes report files in parallel
type WorkerPool struct {
	workers   int
	runner    ReportRunner
	scheduler Scheduler
	progress  Progress
}

// NewWorkerPool creates a new WorkerPool
func NewWorkerPool(workers int, runner ReportRunner, scheduler Scheduler) *WorkerPool {
	if workers <= 0 {
		workers = 1
	}
	return &WorkerPool{
		workers:   workers,
		runner:    runner,
		scheduler: scheduler,
	}
}

// SetProgress sets the progress reporter for the worker pool
func (wp *WorkerPool) SetProgress(progress Progress) {
	wp.progress = progress
}

// Execute processes all reports (no fail-fast)
func (wp *WorkerPool) Execute(ctx context.Context, paths []string) ([]domain.ReportResult, time.Duration, error) {
	return wp.ExecuteWithOptions(ctx, paths, false)
}

// ExecuteWithOptions processes reports; with failFast, no new report is started
// once one has failed and reports still running are interrupted. Results are
// returned in input order and only include reports that ran to completion or
// failed on their own; interrupted reports are left out, though lines they wrote
// before stopping stay written.
func (wp *WorkerPool) ExecuteWithOptions(ctx context.Context, paths []string, failFast bool) ([]domain.ReportResult, time.Duration, error) {
	if len(paths) == 0 {
		return nil, 0, nil
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	workerCount := wp.workers
	if workerCount > len(paths) {
		workerCount = len(paths)
	}
	distribution := wp.scheduler.Schedule(paths, workerCount)

	slots := make([]*domain.ReportResult, len(paths))
	var mu sync.Mutex
	var completed, lines int
	startTime := time.Now()

	var wg sync.WaitGroup
	for _, jobs := range distribution {
		wg.Add(1)
		go func(jobs []Job) {
			defer wg.Done()
			for _, job := range jobs {
				if runCtx.Err() != nil {
					return
				}
				result := wp.runner.Run(runCtx, job.Path)
				if interrupted(ctx, runCtx, result) {
					return
				}

				mu.Lock()
				slots[job.Index] = &result
				completed++
				lines += result.Lines
				if wp.progress != nil {
					wp.progress.Update(completed, lines)
				}
				if failFast && !result.Success() {
					cancel()
				}
				mu.Unlock()
			}
		}(jobs)
	}
	wg.Wait()

	if wp.progress != nil {
		wp.progress.Finish()
	}

	results := make([]domain.ReportResult, 0, len(paths))
	for _, r := range slots {
		if r != nil {
			results = append(results, *r)
		}
	}
	return results, time.Since(startTime), ctx.Err()
}

// interrupted reports whether result stopped because fail-fast cancelled runCtx
// rather than because of its own input or the caller's context.
func interrupted(parent, runCtx context.Context, result domain.ReportResult) bool {
	return parent.Err() == nil && runCtx.Err() != nil && errors.Is(result.Err, context.Canceled)
}
