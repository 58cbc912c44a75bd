package commands

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"specline/internal/cli"
	"specline/internal/domain"
	"specline/internal/parser"
	"specline/internal/ui"
)

// ViewCommand handles the view command
type ViewCommand struct {
	env   *Env
	flags *cli.Flags

	// newViewer is replaced in tests to avoid starting a terminal UI
	newViewer func(fv *ui.FailureViewer) ui.Viewer
}

// NewViewCommand creates a new ViewCommand
func NewViewCommand(env *Env, flags *cli.Flags) *ViewCommand {
	return &ViewCommand{
		env:       env,
		flags:     flags,
		newViewer: func(fv *ui.FailureViewer) ui.Viewer { return fv },
	}
}

// Execute runs the command
func (vc *ViewCommand) Execute(cmd *cobra.Command, args []string) error {
	cfg := vc.env.Config

	ex, err := cfg.Extractor()
	if err != nil {
		return err
	}
	format, err := parser.ParseFormat(cfg.Format)
	if err != nil {
		return err
	}
	fv := ui.NewFailureViewer(ex)

	paths, stdin, err := reportPaths(vc.env, vc.flags, args)
	if err != nil {
		return err
	}

	var failures []domain.Failure
	collect := func(ev domain.Event) error {
		if ev.Kind == domain.Failed {
			failures = append(failures, fv.BuildFailure(ev))
		}
		return nil
	}

	if stdin {
		if err := parser.Decode(cmd.InOrStdin(), format, collect); err != nil {
			return fmt.Errorf("stdin: %w", err)
		}
	} else {
		if len(paths) == 0 {
			color.New(color.FgYellow).Fprintln(cmd.ErrOrStderr(), "No report files found")
			return nil
		}
		for _, path := range paths {
			if err := decodeFile(path, format, collect); err != nil {
				return err
			}
		}
	}

	vc.env.Logger.Debug("failures collected", zap.Int("failures", len(failures)))
	return vc.newViewer(fv).View(failures)
}

func decodeFile(path string, format parser.Format, emit parser.EmitFunc) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open report: %w", err)
	}
	defer f.Close()

	if err := parser.Decode(f, format, emit); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}
