package parser

import (
	"errors"
	"fmt"
)

var (
	ErrMalformedHeading  = errors.New("malformed heading")
	ErrHeadingTooDeep    = errors.New("heading nested too deep")
	ErrMalformedCheckbox = errors.New("malformed checkbox")
	ErrOrphanSubtask     = errors.New("subtask without a main task")
	ErrInvalidDate       = errors.New("invalid date")
	ErrInvalidPriority   = errors.New("invalid priority")
	ErrUnknownDateKind   = errors.New("unknown date attribute")
)

// LineError reports the source line that stopped parsing.
type LineError struct {
	Line    int    // 1-based line number
	Content string // raw line
	Err     error  // Underlying error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d: %s: %q", e.Line, e.Err, e.Content)
}

// Unwrap returns the underlying error.
func (e *LineError) Unwrap() error {
	return e.Err
}
