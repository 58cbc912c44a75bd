package parser

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"specline/internal/domain"
)

// maxEventLineSize bounds a single JSON-lines record; backtraces can be long
const maxEventLineSize = 16 * 1024 * 1024

type wireEvent struct {
	Kind        string                `json:"kind"`
	Description string                `json:"description"`
	Location    string                `json:"location"`
	Failure     *domain.FailureRecord `json:"failure"`
	Seed        int64                 `json:"seed"`
	Text        string                `json:"text"`
}

// EventStreamDecoder decodes a JSON-lines stream of events
type EventStreamDecoder struct{}

// NewEventStreamDecoder creates a new EventStreamDecoder
func NewEventStreamDecoder() *EventStreamDecoder {
	return &EventStreamDecoder{}
}

// Decode emits one event per non-blank line
func (d *EventStreamDecoder) Decode(r io.Reader, emit EmitFunc) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxEventLineSize)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		var we wireEvent
		if err := json.Unmarshal(line, &we); err != nil {
			return fmt.Errorf("line %d: parse event: %w", lineNo, err)
		}
		kind, err := domain.ParseEventKind(we.Kind)
		if err != nil {
			return fmt.Errorf("line %d: %w", lineNo, err)
		}

		ev := domain.Event{
			Kind:        kind,
			Description: we.Description,
			Location:    we.Location,
			Seed:        we.Seed,
			Text:        we.Text,
		}
		if kind == domain.Failed {
			failure := domain.FailureRecord{}
			if we.Failure != nil {
				failure = *we.Failure
			}
			ev.Failure = &failure
		}
		if err := emit(ev); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read events: %w", err)
	}
	return nil
}
