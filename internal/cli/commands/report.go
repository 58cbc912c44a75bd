package commands

import (
	"errors"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"specline/internal/cli"
	"specline/internal/domain"
	"specline/internal/execution"
	"specline/internal/parser"
	"specline/internal/reporter"
	"specline/internal/ui"
)

// ReportCommand handles the report command
type ReportCommand struct {
	env   *Env
	flags *cli.Flags
}

// NewReportCommand creates a new ReportCommand
func NewReportCommand(env *Env, flags *cli.Flags) *ReportCommand {
	return &ReportCommand{env: env, flags: flags}
}

// Execute runs the command
func (rc *ReportCommand) Execute(cmd *cobra.Command, args []string) error {
	cfg := rc.env.Config
	logger := rc.env.Logger

	ex, err := cfg.Extractor()
	if err != nil {
		return err
	}
	format, err := parser.ParseFormat(cfg.Format)
	if err != nil {
		return err
	}

	// stdout carries failure lines only
	sink := reporter.NewSink(cmd.OutOrStdout())
	runner := execution.NewRunner(format, reporter.New(ex, sink), logger)

	paths, stdin, err := reportPaths(rc.env, rc.flags, args)
	if err != nil {
		return err
	}

	var results []domain.ReportResult
	var duration time.Duration
	switch {
	case stdin:
		result := runner.RunReader(cmd.Context(), execution.StdinName, cmd.InOrStdin())
		results, duration = []domain.ReportResult{result}, result.Duration
	case len(paths) == 0:
		color.New(color.FgYellow).Fprintln(cmd.ErrOrStderr(), "No report files found")
		return nil
	default:
		pool := execution.NewWorkerPool(cfg.Processors, runner, execution.NewRoundRobinScheduler())
		if cfg.Flags.Progress {
			pool.SetProgress(ui.NewProgressBar(len(paths), cmd.ErrOrStderr()))
		}
		results, duration, err = pool.ExecuteWithOptions(cmd.Context(), paths, cfg.Flags.FailFast)
		if err != nil {
			return err
		}
	}

	var errs []error
	var failures int
	for _, result := range results {
		failures += result.Failures
		if result.Err != nil {
			errs = append(errs, result.Err)
		}
	}

	logger.Info("reports processed",
		zap.Int("reports", len(results)),
		zap.Int("failures", failures),
		zap.Int("lines", sink.Lines()),
		zap.Int("errors", len(errs)),
		zap.Duration("duration", duration))

	return errors.Join(errs...)
}
