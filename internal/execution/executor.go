package execution

import (
	"context"
	"time"

	"specline/internal/domain"
)

// Executor processes report files and returns per-report results
type Executor interface {
	Execute(ctx context.Context, paths []string) ([]domain.ReportResult, time.Duration, error)
}

// ReportRunner processes a single report file
type ReportRunner interface {
	Run(ctx context.Context, path string) domain.ReportResult
}

// Progress receives progress updates while reports are processed
type Progress interface {
	Update(completed, lines int)
	Finish()
}
