package dump

import (
	"fmt"

	"github.com/joshuapare/treekit/pkg/types"
)

// ParseError reports malformed restore input and the line of the record
// that caused it.
type ParseError struct {
	Line int
	Msg  string
	Err  error // optional cause
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("restore line %d: %s: %v", e.Line, e.Msg, e.Err)
	}
	return fmt.Sprintf("restore line %d: %s", e.Line, e.Msg)
}

// Is matches types.ErrMalformedInput.
func (e *ParseError) Is(target error) bool {
	return target == types.ErrMalformedInput
}

func (e *ParseError) Unwrap() error { return e.Err }

func parseErrorf(line int, format string, args ...any) *ParseError {
	return &ParseError{Line: line, Msg: fmt.Sprintf(format, args...)}
}
