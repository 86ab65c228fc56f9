package pass

import "fmt"

// UnknownPassError reports a pipeline entry that names no registered pass.
type UnknownPassError struct {
	Name string
}

func (e *UnknownPassError) Error() string {
	return fmt.Sprintf("unknown pass %q", e.Name)
}

// UnexpectedOpTypeError reports a pass applied to a root of the wrong
// operation kind.
type UnexpectedOpTypeError struct {
	Pass     string
	Expected string
	Actual   string
}

func (e *UnexpectedOpTypeError) Error() string {
	return fmt.Sprintf("pass %s: unexpected operation type: expected %s, got %s", e.Pass, e.Expected, e.Actual)
}

// Error wraps the failure of one pass in a pipeline.
type Error struct {
	Pass  string
	Index int
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("pass %s (#%d) failed: %v", e.Pass, e.Index, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }
