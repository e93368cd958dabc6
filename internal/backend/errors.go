package backend

import "fmt"

// Error is a transport or server failure from a collaborator call. It always
// carries a human-readable message and is never applied as a partial state
// mutation by callers.
type Error struct {
	// Op names the failed operation, e.g. "generate plan".
	Op string
	// Message is the human-readable failure description.
	Message string
	// Err is the underlying cause, when known.
	Err error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return e.Op + ": request failed"
}

func (e *Error) Unwrap() error { return e.Err }
