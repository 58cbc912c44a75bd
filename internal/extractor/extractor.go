// Package extractor turns a failed test's message and backtrace into a single
// "<path>:<line>: <message>" line that editors can jump to.
package extractor

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	// DefaultFramePattern matches frames inside spec/ files named *_spec.rb.
	// The capture keeps the whole path token, including any prefix before spec/,
	// and stops at the first colon or whitespace. The line number must be
	// followed by a colon or the end of the frame.
	DefaultFramePattern = `((?:[^\s:]*/)?\bspec/[^:\s]*_spec\.rb:\d+)(?::|\z)`

	// MaxMessageLength is the cap on the message part of an output line, in characters
	MaxMessageLength = 200
)

var defaultExtractor = mustNew(DefaultFramePattern)

// Location is the test-source position found in a backtrace
type Location struct {
	Text string // Verbatim "<path>:<line>" as it appeared in the frame
	Path string
	Line string
}

// Extractor locates test-source frames and formats failure lines.
// It holds no mutable state and is safe for concurrent use.
type Extractor struct {
	frame *regexp.Regexp
}

// New creates an Extractor using a custom frame pattern. The pattern must
// contain exactly one capture group, which captures "<path>:<line>".
func New(pattern string) (*Extractor, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("compile frame pattern: %w", err)
	}
	if re.NumSubexp() != 1 {
		return nil, fmt.Errorf("frame pattern %q must have exactly one capture group, has %d", pattern, re.NumSubexp())
	}
	return &Extractor{frame: re}, nil
}

func mustNew(pattern string) *Extractor {
	e, err := New(pattern)
	if err != nil {
		panic(err)
	}
	return e
}

// Default returns the Extractor for the spec/*_spec.rb convention
func Default() *Extractor {
	return defaultExtractor
}

// Pattern returns the frame pattern source
func (e *Extractor) Pattern() string {
	return e.frame.String()
}

// MatchFrame reports whether frame points into a test source file and returns the location
func (e *Extractor) MatchFrame(frame string) (Location, bool) {
	m := e.frame.FindStringSubmatch(frame)
	if len(m) < 2 || m[1] == "" {
		return Location{}, false
	}
	loc := Location{Text: m[1], Path: m[1]}
	if i := strings.LastIndexByte(m[1], ':'); i >= 0 {
		loc.Path, loc.Line = m[1][:i], m[1][i+1:]
	}
	return loc, true
}

// Locate returns the first frame in trace that matches, along with its index
func (e *Extractor) Locate(trace []string) (Location, int, bool) {
	for i, frame := range trace {
		if loc, ok := e.MatchFrame(frame); ok {
			return loc, i, true
		}
	}
	return Location{}, -1, false
}

// Extract builds the output line for a failure. It returns false when no frame
// in trace points into a test source file.
func (e *Extractor) Extract(message string, trace []string) (string, bool) {
	loc, _, ok := e.Locate(trace)
	if !ok {
		return "", false
	}
	return Format(loc, message), true
}

// Format composes "<location>: <message>" from a located frame
func Format(loc Location, message string) string {
	line := loc.Text + ": " + strings.TrimSpace(NormalizeMessage(message))
	return strings.TrimSpace(line)
}

// NormalizeMessage folds message onto one line and caps it at MaxMessageLength characters.
// Both \n and \r are replaced by a space. Truncation may cut a word in half.
func NormalizeMessage(message string) string {
	message = strings.Map(func(r rune) rune {
		if r == '\n' || r == '\r' {
			return ' '
		}
		return r
	}, message)
	return truncate(message, MaxMessageLength)
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}

// Extract runs the default Extractor
func Extract(message string, trace []string) (string, bool) {
	return defaultExtractor.Extract(message, trace)
}
