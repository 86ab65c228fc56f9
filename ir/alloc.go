package ir

import (
	"fmt"
	"strconv"

	"fortio.org/safecast"
)

// AllocID is a stable handle to an operation in a Context arena.
// IDs start at 1; the zero value refers to nothing.
type AllocID uint32

// NoAlloc is the zero handle.
const NoAlloc AllocID = 0

func (id AllocID) IsValid() bool { return id != NoAlloc }

func (id AllocID) String() string { return "#" + strconv.FormatUint(uint64(id), 10) }

// arena is an append-only store addressed by 1-based AllocIDs.
type arena[T any] struct {
	data []T
}

func newArena[T any](capHint int) *arena[T] {
	return &arena[T]{data: make([]T, 0, capHint)}
}

func (a *arena[T]) allocate(v T) AllocID {
	a.data = append(a.data, v)
	n, err := safecast.Conv[uint32](len(a.data))
	if err != nil {
		panic(fmt.Errorf("arena overflow: %w", err))
	}
	return AllocID(n)
}

func (a *arena[T]) get(id AllocID) (T, bool) {
	if id == NoAlloc || int(id) > len(a.data) {
		var zero T
		return zero, false
	}
	return a.data[id-1], true
}

func (a *arena[T]) len() int { return len(a.data) }
