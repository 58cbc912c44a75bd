package parser

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"specline/internal/domain"
)

type rspecReport struct {
	Version     string         `json:"version"`
	Seed        *int64         `json:"seed"`
	Messages    []string       `json:"messages"`
	Examples    []rspecExample `json:"examples"`
	Summary     *rspecSummary  `json:"summary"`
	SummaryLine string         `json:"summary_line"`
}

type rspecExample struct {
	ID              string                `json:"id"`
	Description     string                `json:"description"`
	FullDescription string                `json:"full_description"`
	Status          string                `json:"status"`
	FilePath        string                `json:"file_path"`
	LineNumber      int                   `json:"line_number"`
	Exception       *domain.FailureRecord `json:"exception"`
}

type rspecSummary struct {
	Duration     float64 `json:"duration"`
	ExampleCount int     `json:"example_count"`
	FailureCount int     `json:"failure_count"`
	PendingCount int     `json:"pending_count"`
}

// RSpecDecoder decodes the JSON document written by `rspec --format json`
type RSpecDecoder struct{}

// NewRSpecDecoder creates a new RSpecDecoder
func NewRSpecDecoder() *RSpecDecoder {
	return &RSpecDecoder{}
}

// Decode emits the seed, logged messages, one event per example and the summary, in that order
func (d *RSpecDecoder) Decode(r io.Reader, emit EmitFunc) error {
	var report rspecReport
	if err := json.NewDecoder(r).Decode(&report); err != nil {
		return fmt.Errorf("parse rspec report: %w", err)
	}

	if report.Seed != nil {
		if err := emit(domain.Event{Kind: domain.SeedReported, Seed: *report.Seed}); err != nil {
			return err
		}
	}

	for _, msg := range report.Messages {
		if err := emit(domain.Event{Kind: domain.MessageLogged, Text: msg}); err != nil {
			return err
		}
	}

	for i, example := range report.Examples {
		ev, err := d.exampleEvent(example)
		if err != nil {
			return fmt.Errorf("example %d: %w", i, err)
		}
		if err := emit(ev); err != nil {
			return err
		}
	}

	if report.Summary != nil || report.SummaryLine != "" {
		return emit(domain.Event{Kind: domain.SummaryReported, Text: report.SummaryLine})
	}
	return nil
}

func (d *RSpecDecoder) exampleEvent(example rspecExample) (domain.Event, error) {
	kind, err := domain.ParseEventKind(example.Status)
	if err != nil {
		return domain.Event{}, err
	}
	if kind != domain.Passed && kind != domain.Failed && kind != domain.Pending {
		return domain.Event{}, fmt.Errorf("unexpected example status %q", example.Status)
	}

	description := example.FullDescription
	if description == "" {
		description = example.Description
	}

	ev := domain.Event{Kind: kind, Description: description}
	if example.FilePath != "" {
		ev.Location = example.FilePath
		if example.LineNumber > 0 {
			ev.Location += ":" + strconv.Itoa(example.LineNumber)
		}
	}
	if kind == domain.Failed {
		failure := domain.FailureRecord{}
		if example.Exception != nil {
			failure = *example.Exception
		}
		ev.Failure = &failure
	}
	return ev, nil
}
