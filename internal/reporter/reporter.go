// Package reporter connects test-runner events to the failure line extractor
// and the output sink.
package reporter

import (
	"specline/internal/domain"
	"specline/internal/extractor"
)

// LineWriter receives formatted failure lines
type LineWriter interface {
	WriteLine(line string) error
}

// Reporter writes one line per located failure and ignores every other event
type Reporter struct {
	extractor *extractor.Extractor
	out       LineWriter
}

// New creates a Reporter. A nil extractor means the default spec/*_spec.rb convention.
func New(ex *extractor.Extractor, out LineWriter) *Reporter {
	if ex == nil {
		ex = extractor.Default()
	}
	return &Reporter{extractor: ex, out: out}
}

// Handle processes one event and reports whether a line was written
func (r *Reporter) Handle(ev domain.Event) (bool, error) {
	switch ev.Kind {
	case domain.Failed:
		if ev.Failure == nil {
			return false, nil
		}
		line, ok := r.extractor.Extract(ev.Failure.Message, ev.Failure.Backtrace)
		if !ok {
			return false, nil
		}
		if err := r.out.WriteLine(line); err != nil {
			return false, err
		}
		return true, nil
	default:
		// Passed, Pending, SummaryReported, SeedReported, MessageLogged
		return false, nil
	}
}
