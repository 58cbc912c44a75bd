package parser

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"specline/internal/domain"
)

// Format names a report input format
type Format string

const (
	// FormatAuto detects the format from the report content
	FormatAuto Format = "auto"
	// FormatRSpec is the document produced by `rspec --format json`
	FormatRSpec Format = "rspec"
	// FormatEvents is a JSON-lines stream of events, one per line
	FormatEvents Format = "events"
)

// ErrUnknownFormat is returned when a report format cannot be determined
var ErrUnknownFormat = errors.New("unknown report format")

// EmitFunc receives decoded events in report order
type EmitFunc func(domain.Event) error

// Decoder decodes a test report into events
type Decoder interface {
	Decode(r io.Reader, emit EmitFunc) error
}

// ParseFormat validates a format name
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(name))); f {
	case "", FormatAuto:
		return FormatAuto, nil
	case FormatRSpec, FormatEvents:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, name)
	}
}

// ForFormat returns the decoder for an explicit format
func ForFormat(format Format) (Decoder, error) {
	switch format {
	case FormatRSpec:
		return NewRSpecDecoder(), nil
	case FormatEvents:
		return NewEventStreamDecoder(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// Detect inspects the first JSON value of a report to tell the formats apart
func Detect(data []byte) (Format, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	var first map[string]json.RawMessage
	if err := dec.Decode(&first); err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnknownFormat, err)
	}
	if _, ok := first["examples"]; ok {
		return FormatRSpec, nil
	}
	if _, ok := first["kind"]; ok {
		return FormatEvents, nil
	}
	return "", ErrUnknownFormat
}

// Decode decodes a report in the given format, detecting it when format is FormatAuto
func Decode(r io.Reader, format Format, emit EmitFunc) error {
	if format != FormatAuto {
		decoder, err := ForFormat(format)
		if err != nil {
			return err
		}
		return decoder.Decode(r, emit)
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("read report: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	detected, err := Detect(data)
	if err != nil {
		return err
	}
	decoder, err := ForFormat(detected)
	if err != nil {
		return err
	}
	return decoder.Decode(bytes.NewReader(data), emit)
}
