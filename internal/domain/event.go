package domain

import (
	"fmt"
	"strings"
)

// EventKind identifies what a test-runner event reports
type EventKind int

const (
	// Passed is reported when a test case completes successfully
	Passed EventKind = iota
	// Failed is reported when a test case fails; the event carries a FailureRecord
	Failed
	// Pending is reported for skipped or not-yet-implemented test cases
	Pending
	// SummaryReported is the end-of-run summary
	SummaryReported
	// SeedReported carries the random seed the run was ordered with
	SeedReported
	// MessageLogged is free text the runner printed during the run
	MessageLogged
)

var eventKindNames = map[EventKind]string{
	Passed:          "passed",
	Failed:          "failed",
	Pending:         "pending",
	SummaryReported: "summary",
	SeedReported:    "seed",
	MessageLogged:   "message",
}

// String returns the wire name of the kind
func (k EventKind) String() string {
	if name, ok := eventKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("EventKind(%d)", int(k))
}

// ParseEventKind converts a wire name (case insensitive) into an EventKind
func ParseEventKind(name string) (EventKind, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for kind, n := range eventKindNames {
		if n == name {
			return kind, nil
		}
	}
	return 0, fmt.Errorf("unknown event kind %q", name)
}

// Event is a single notification from a test run
type Event struct {
	Kind        EventKind
	Description string         // Test case description, if the event is about a test case
	Location    string         // Where the runner says the test case is defined (informational)
	Failure     *FailureRecord // Set only for Failed events
	Seed        int64          // Set only for SeedReported events
	Text        string         // Summary line or logged message
}
