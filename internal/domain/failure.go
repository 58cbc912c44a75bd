package domain

// FailureRecord is the exception data attached to a failed test case
type FailureRecord struct {
	Class     string   `json:"class,omitempty"`
	Message   string   `json:"message"`
	Backtrace []string `json:"backtrace"`
}

// Failure is a failed test case as shown by the failure viewer
type Failure struct {
	Description string
	Record      FailureRecord
	Line        string // Extracted output line, empty if no test-source frame was found
	Frame       int    // Index of the matched frame in Record.Backtrace, -1 if none
}
