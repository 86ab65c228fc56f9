package ir

import "fmt"

// BorrowError is the panic value raised on conflicting access to a guarded
// container, e.g. inserting into a block while ranging over its operations.
type BorrowError struct {
	What      string
	Exclusive bool // the failed request wanted exclusive access
}

func (e *BorrowError) Error() string {
	if e.Exclusive {
		return fmt.Sprintf("ir: cannot mutate %s while it is borrowed", e.What)
	}
	return fmt.Sprintf("ir: cannot read %s while it is being mutated", e.What)
}

// guard is a runtime-checked shared/exclusive access flag. It is not a
// lock: a Context is single-goroutine, the guard only catches re-entrant
// misuse from callbacks.
type guard struct {
	readers int
	writing bool
}

func (g *guard) borrow(what string) func() {
	if g.writing {
		panic(&BorrowError{What: what})
	}
	g.readers++
	return func() { g.readers-- }
}

func (g *guard) borrowMut(what string) func() {
	if g.writing || g.readers > 0 {
		panic(&BorrowError{What: what, Exclusive: true})
	}
	g.writing = true
	return func() { g.writing = false }
}
