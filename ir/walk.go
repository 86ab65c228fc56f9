package ir

import "errors"

// ErrSkipRest stops a WalkErr early without reporting an error.
var ErrSkipRest = errors.New("ir: skip rest of walk")

type walkFrame struct {
	op       *Operation
	children []AllocID
	next     int
}

func newWalkFrame(op *Operation) walkFrame {
	var children []AllocID
	for _, r := range op.regions {
		for _, b := range r.blocks {
			children = append(children, b.ops...)
		}
	}
	return walkFrame{op: op, children: children}
}

// Walk visits root and every nested operation depth-first, children before
// their parent, in source order. Child lists are snapshotted before they are
// visited, so fn may mutate the graph.
func Walk(root Op, fn func(*Operation)) {
	_ = WalkErr(root, func(op *Operation) error {
		fn(op)
		return nil
	})
}

// WalkErr is Walk with early exit: the first error from fn stops the walk
// and is returned, except ErrSkipRest which stops it silently.
func WalkErr(root Op, fn func(*Operation) error) error {
	r := root.Operation()
	stack := []walkFrame{newWalkFrame(r)}
	for len(stack) > 0 {
		top := len(stack) - 1
		if f := &stack[top]; f.next < len(f.children) {
			child := r.ctx.Op(f.children[f.next])
			f.next++
			stack = append(stack, newWalkFrame(child))
			continue
		}
		op := stack[top].op
		stack = stack[:top]
		if err := fn(op); err != nil {
			if errors.Is(err, ErrSkipRest) {
				return nil
			}
			return err
		}
	}
	return nil
}
