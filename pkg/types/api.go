package types

import (
	"errors"
	"fmt"
	"strconv"
)

// -----------------------------------------------------------------------------
// Typed Errors (stable categories for programmatic handling)
// -----------------------------------------------------------------------------

// ErrKind classifies errors so callers can branch on intent rather than text.
type ErrKind int

const (
	ErrKindNotFound    ErrKind = iota // missing node/value/tag/key/tree
	ErrKindPermission                 // private value owned by another client
	ErrKindInvalid                    // cycle-forming move, root deletion, bad arguments
	ErrKindMalformed                  // dump/restore parse errors, bad list syntax
	ErrKindOutOfMemory                // configured node/value limits exhausted
)

// String returns a short lowercase name for the kind.
func (k ErrKind) String() string {
	switch k {
	case ErrKindNotFound:
		return "not found"
	case ErrKindPermission:
		return "permission denied"
	case ErrKindInvalid:
		return "invalid operation"
	case ErrKindMalformed:
		return "malformed input"
	case ErrKindOutOfMemory:
		return "out of memory"
	default:
		return "unknown error kind " + strconv.Itoa(int(k))
	}
}

// Error is a typed error with an optional underlying cause.
type Error struct {
	Kind ErrKind
	Msg  string
	Err  error // optional underlying cause
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is an *Error of the same kind, so that
// errors.Is(err, ErrNotFound) matches every not-found error regardless of message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || e == nil || t == nil {
		return false
	}
	return t.Kind == e.Kind
}

// Errorf builds a typed error of the given kind.
func Errorf(kind ErrKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Wrap builds a typed error of the given kind around cause.
func Wrap(kind ErrKind, cause error, msg string) *Error {
	return &Error{Kind: kind, Msg: msg, Err: cause}
}

// KindOf returns the kind of the first *Error in err's chain.
// ok is false when err carries no typed error.
func KindOf(err error) (kind ErrKind, ok bool) {
	var te *Error
	if errors.As(err, &te) {
		return te.Kind, true
	}
	return 0, false
}

// Sentinels commonly returned by implementations.
var (
	// ErrNotFound indicates a missing node, value, tag, key or tree.
	ErrNotFound = &Error{Kind: ErrKindNotFound, Msg: "not found"}
	// ErrPermissionDenied indicates access to a value private to another client.
	ErrPermissionDenied = &Error{Kind: ErrKindPermission, Msg: "permission denied"}
	// ErrInvalidOperation indicates a structurally disallowed request.
	ErrInvalidOperation = &Error{Kind: ErrKindInvalid, Msg: "invalid operation"}
	// ErrMalformedInput indicates unparsable dump text or list syntax.
	ErrMalformedInput = &Error{Kind: ErrKindMalformed, Msg: "malformed input"}
	// ErrOutOfMemory indicates a configured storage limit was exhausted.
	ErrOutOfMemory = &Error{Kind: ErrKindOutOfMemory, Msg: "out of memory"}
)

// -----------------------------------------------------------------------------
// Core Identifiers
// -----------------------------------------------------------------------------

// NodeID is a small, copyable handle referring to a node of one tree core.
// IDs are assigned monotonically and never reused within a core.
type NodeID int64

// NoNode is the null handle (no parent, no sibling, append position).
const NoNode NodeID = -1

// String renders the id the way dump records carry it.
func (id NodeID) String() string {
	return strconv.FormatInt(int64(id), 10)
}

// Valid reports whether id could name a node.
func (id NodeID) Valid() bool { return id >= 0 }

func itoa(n int64) string { return strconv.FormatInt(n, 10) }
