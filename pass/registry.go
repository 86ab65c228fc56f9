package pass

import (
	"slices"
	"sync"
)

var (
	catalogMu sync.Mutex
	catalog   []Pass
)

// Register appends p to the process-wide catalog. Names are not checked for
// duplicates; Lookup returns the earliest registrant.
func Register(p Pass) {
	catalogMu.Lock()
	defer catalogMu.Unlock()
	catalog = append(catalog, p)
}

// Lookup finds the first registered pass called name.
func Lookup(name string) (Pass, bool) {
	catalogMu.Lock()
	defer catalogMu.Unlock()
	for _, p := range catalog {
		if p.Name() == name {
			return p, true
		}
	}
	return nil, false
}

// Registered returns the catalog in registration order.
func Registered() []Pass {
	catalogMu.Lock()
	defer catalogMu.Unlock()
	return slices.Clone(catalog)
}
