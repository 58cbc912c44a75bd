package cli

import "specline/internal/config"

// Flags holds command-line flags
type Flags struct {
	ConfigPath   string
	Processors   int
	Format       string
	ReportDir    string
	Scan         bool
	NameFilter   string
	FramePattern string
	FailFast     bool
	Progress     bool
}

// ToConfigFlags converts CLI flags to config flags
func (f *Flags) ToConfigFlags() config.Flags {
	return config.Flags{
		Processors:   f.Processors,
		Format:       f.Format,
		ReportDir:    f.ReportDir,
		NameFilter:   f.NameFilter,
		FramePattern: f.FramePattern,
		FailFast:     f.FailFast,
		Progress:     f.Progress,
	}
}

// ScanRequested reports whether reports should be discovered from the report directory
func (f *Flags) ScanRequested() bool {
	return f.Scan || f.ReportDir != ""
}
