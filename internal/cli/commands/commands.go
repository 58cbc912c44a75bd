package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"specline/internal/cli"
	"specline/internal/config"
	"specline/internal/discovery"
	"specline/internal/logging"
)

// Env is the configuration and logger shared by commands, built after flags are parsed
type Env struct {
	Config *config.Config
	Logger *zap.Logger
}

// Commands holds all CLI commands
type Commands struct {
	Report *ReportCommand
	View   *ViewCommand

	env   *Env
	flags *cli.Flags
}

// NewCommands creates all commands
func NewCommands(flags *cli.Flags) *Commands {
	c := &Commands{env: &Env{}, flags: flags}
	c.Report = NewReportCommand(c.env, flags)
	c.View = NewViewCommand(c.env, flags)
	return c
}

// NewRootCmd constructs the full command tree
func NewRootCmd(version string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "specline",
		Short: "Turn test failures into editor jump-to lines",
		Long: `Reads structured test results (RSpec JSON reports or JSON-lines event streams) and prints
one "<path>:<line>: <message>" line per failing test, pointing at the failing spec.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	var flags cli.Flags
	NewCommands(&flags).Register(rootCmd)
	return rootCmd
}

// Register registers all commands with cobra
func (c *Commands) Register(rootCmd *cobra.Command) {
	flags := c.flags
	rootCmd.PersistentFlags().StringVar(&flags.ConfigPath, "config", "", "Path to config file (default: specline.yaml in the project directory)")

	reportCmd := &cobra.Command{
		Use:   "report [report files...]",
		Short: "Print one line per failing test",
		Long: `Print "<path>:<line>: <message>" for every failing test whose backtrace contains a spec frame.
Reports are read from the given files, from --dir, or from standard input.`,
		RunE:     c.Report.Execute,
		PreRunE:  c.setup,
		PostRunE: c.teardown,
	}
	c.registerInputFlags(reportCmd)
	reportCmd.Flags().IntVarP(&flags.Processors, "processors", "p", 0, "Number of reports processed in parallel")
	reportCmd.Flags().BoolVar(&flags.FailFast, "fail-fast", false, "Stop at the first report that cannot be read")
	reportCmd.Flags().BoolVar(&flags.Progress, "progress", false, "Show a progress bar on stderr")
	rootCmd.AddCommand(reportCmd)

	viewCmd := &cobra.Command{
		Use:      "view [report files...]",
		Short:    "Browse failures interactively",
		Long:     "Show every failure with its message, backtrace and extracted line in an interactive viewer",
		RunE:     c.View.Execute,
		PreRunE:  c.setup,
		PostRunE: c.teardown,
	}
	c.registerInputFlags(viewCmd)
	rootCmd.AddCommand(viewCmd)
}

func (c *Commands) registerInputFlags(cmd *cobra.Command) {
	flags := c.flags
	cmd.Flags().StringVarP(&flags.Format, "format", "F", "", "Report format: auto, rspec or events")
	cmd.Flags().StringVarP(&flags.ReportDir, "dir", "d", "", "Directory to scan for report files")
	cmd.Flags().BoolVar(&flags.Scan, "scan", false, "Scan the configured report directory")
	cmd.Flags().StringVarP(&flags.NameFilter, "filter", "f", "", "Filter report files by name (supports wildcards, e.g. 'rspec-*.json')")
	cmd.Flags().StringVar(&flags.FramePattern, "frame-pattern", "", "Regexp with one capture group locating the test-source frame")
}

// setup loads configuration, applies flags and builds the logger
func (c *Commands) setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(c.flags.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	cfg.ApplyFlags(c.flags.ToConfigFlags())
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := logging.NewLogger(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return err
	}

	c.env.Config = cfg
	c.env.Logger = logging.WithRunID(logger).With(zap.String("command", cmd.Name()))
	return nil
}

func (c *Commands) teardown(cmd *cobra.Command, args []string) error {
	if c.env.Logger != nil {
		_ = c.env.Logger.Sync()
	}
	return nil
}

// reportPaths resolves which report files a command reads. stdin is true when
// neither files nor a directory scan were requested.
func reportPaths(env *Env, flags *cli.Flags, args []string) (paths []string, stdin bool, err error) {
	cfg := env.Config

	paths = args
	if len(paths) == 0 {
		if !flags.ScanRequested() {
			return nil, true, nil
		}
		scanner := discovery.NewScanner(cfg.ReportPattern, cfg.PathsToIgnore)
		paths, err = scanner.Scan(cfg.GetReportDir())
		if err != nil {
			return nil, false, err
		}
	}

	return discovery.NewFilter().FilterByName(paths, cfg.Flags.NameFilter), false, nil
}
