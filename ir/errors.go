package ir

import (
	"errors"
	"fmt"
)

// ErrNoContext is returned by operations on zero Types and Attrs.
var ErrNoContext = errors.New("ir: value has no context")

// AttrKindError reports a narrowing accessor applied to the wrong variant.
type AttrKindError struct {
	Want AttrKind
	Got  AttrKind
}

func (e *AttrKindError) Error() string {
	return fmt.Sprintf("ir: attribute is %s, not %s", e.Got, e.Want)
}

// AttrRangeError reports an integer that does not fit the requested width.
type AttrRangeError struct {
	Kind  AttrKind
	Value string
	Err   error
}

func (e *AttrRangeError) Error() string {
	return fmt.Sprintf("ir: value %s does not fit %s", e.Value, e.Kind)
}

func (e *AttrRangeError) Unwrap() error { return e.Err }

// MissingFieldError reports a required attribute, result or operand that an
// operation was built or parsed without.
type MissingFieldError struct {
	Op    string // qualified operation name
	Field string
	What  string // "attribute", "result type", "operands", "region"
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("ir: %s requires %s %q", e.Op, e.What, e.Field)
}

// FieldKindError reports an attribute present with a kind its operation does
// not accept.
type FieldKindError struct {
	Op    string
	Field string
	Want  string
	Got   AttrKind
}

func (e *FieldKindError) Error() string {
	return fmt.Sprintf("ir: %s attribute %q must be %s, got %s", e.Op, e.Field, e.Want, e.Got)
}
