package domain

import "time"

// ReportResult represents the result of processing one report
type ReportResult struct {
	Path     string        // Report file path, or "-" for stdin
	Events   int           // Number of events decoded
	Failures int           // Number of Failed events seen
	Lines    int           // Number of output lines written
	Duration time.Duration // Time taken to process
	Err      error         // Error if the report could not be processed
}

// Success reports whether the report was processed without error
func (r ReportResult) Success() bool {
	return r.Err == nil
}
