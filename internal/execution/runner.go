package execution

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"go.uber.org/zap"

	"specline/internal/domain"
	"specline/internal/parser"
	"specline/internal/reporter"
)

// StdinName is the report name used for standard input
const StdinName = "-"

// Runner processes a single report
type Runner struct {
	format   parser.Format
	reporter *reporter.Reporter
	logger   *zap.Logger
}

// NewRunner creates a new Runner
func NewRunner(format parser.Format, rep *reporter.Reporter, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{format: format, reporter: rep, logger: logger}
}

// Run decodes the report file at path and reports its failures
func (r *Runner) Run(ctx context.Context, path string) domain.ReportResult {
	f, err := os.Open(path)
	if err != nil {
		return domain.ReportResult{Path: path, Err: fmt.Errorf("open report: %w", err)}
	}
	defer f.Close()

	return r.RunReader(ctx, path, f)
}

// RunReader decodes a report from rd and reports its failures
func (r *Runner) RunReader(ctx context.Context, name string, rd io.Reader) domain.ReportResult {
	start := time.Now()
	result := domain.ReportResult{Path: name}

	err := parser.Decode(rd, r.format, func(ev domain.Event) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		result.Events++
		if ev.Kind == domain.Failed {
			result.Failures++
		}
		written, err := r.reporter.Handle(ev)
		if err != nil {
			return err
		}
		if written {
			result.Lines++
		} else if ev.Kind == domain.Failed {
			r.logger.Debug("failure has no test-source frame",
				zap.String("report", name),
				zap.String("description", ev.Description))
		}
		return nil
	})
	result.Duration = time.Since(start)
	if err != nil {
		result.Err = fmt.Errorf("%s: %w", name, err)
		r.logger.Warn("report failed", zap.String("report", name), zap.Error(err))
		return result
	}

	r.logger.Debug("report processed",
		zap.String("report", name),
		zap.Int("events", result.Events),
		zap.Int("failures", result.Failures),
		zap.Int("lines", result.Lines),
		zap.Duration("duration", result.Duration))
	return result
}
