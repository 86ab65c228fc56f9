package bytecode

import (
	"errors"
	"fmt"
)

// ErrBadMagic is returned for input that does not start with Magic.
var ErrBadMagic = errors.New("bytecode: missing magic header")

// FormatError reports a payload that decodes but does not describe a valid
// tree.
type FormatError struct {
	Where string // e.g. "op 3", "type 1"
	Msg   string
	Err   error
}

func (e *FormatError) Error() string {
	msg := fmt.Sprintf("bytecode: %s: %s", e.Where, e.Msg)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *FormatError) Unwrap() error { return e.Err }

func formatErr(where, format string, args ...any) *FormatError {
	return &FormatError{Where: where, Msg: fmt.Sprintf(format, args...)}
}
