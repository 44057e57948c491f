// internal/fetch/errors.go
package fetch

import (
	"errors"
	"fmt"
)

// ErrorKind names the fatal phase failure.
type ErrorKind uint16

const (
	ResolutionError ErrorKind = iota + 1
	SocketAllocationError
	ConnectError
	SendError
)

func (k ErrorKind) String() string {
	switch k {
	case ResolutionError:
		return "resolution"
	case SocketAllocationError:
		return "socket allocation"
	case ConnectError:
		return "connect"
	case SendError:
		return "send"
	default:
		return fmt.Sprintf("kind(%d)", uint16(k))
	}
}

// Error is returned in an Outcome when the pipeline halts.
// errors.Is matches it against its kind: errors.Is(err, ConnectError).
type Error struct {
	Kind   ErrorKind
	Target string
	Err    error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("fetch: %s failed (target=%s)", e.Kind.String(), e.Target)
	}
	return fmt.Sprintf("fetch: %s failed (target=%s): %v", e.Kind.String(), e.Target, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Is lets an ErrorKind act as a sentinel.
func (e *Error) Is(target error) bool {
	k, ok := target.(ErrorKind)
	return ok && k == e.Kind
}

// Code exposes the kind as a numeric diagnostic code.
func (e *Error) Code() uint16 { return uint16(e.Kind) }

// ErrorKind also satisfies error so it can be used with errors.Is.
func (k ErrorKind) Error() string { return "fetch: " + k.String() + " error" }

// ErrAlreadyRun is returned by a second Run on the same pipeline.
var ErrAlreadyRun = errors.New("fetch: pipeline already ran")

// ErrNoCandidates is wrapped when resolution yields nothing.
var ErrNoCandidates = errors.New("no candidate addresses")
