package ir

import (
	"iter"
	"slices"
)

// AttrMap is an insertion-ordered map of uniquely named attributes.
// The zero value is an empty map ready to use. AttrMap has value semantics:
// a copy never observes writes made through the original.
type AttrMap struct {
	entries []AttrPair
}

// Attrs builds an AttrMap from pairs in order.
func Attrs(pairs ...AttrPair) AttrMap {
	var m AttrMap
	for _, p := range pairs {
		m.Set(p.Key, p.Value)
	}
	return m
}

// AttrPair is one entry of an AttrMap.
type AttrPair struct {
	Key   string
	Value Attr
}

func (m AttrMap) index(key string) int {
	return slices.IndexFunc(m.entries, func(e AttrPair) bool { return e.Key == key })
}

// Set inserts or replaces key. Replacing keeps the original position.
// Every write goes to a fresh backing array, so copies stay independent.
func (m *AttrMap) Set(key string, v Attr) {
	if i := m.index(key); i >= 0 {
		m.entries = slices.Clone(m.entries)
		m.entries[i].Value = v
		return
	}
	m.entries = append(slices.Clip(m.entries), AttrPair{Key: key, Value: v})
}

func (m AttrMap) Get(key string) (Attr, bool) {
	if i := m.index(key); i >= 0 {
		return m.entries[i].Value, true
	}
	return Attr{}, false
}

func (m AttrMap) Has(key string) bool { return m.index(key) >= 0 }

func (m AttrMap) Len() int { return len(m.entries) }

// Keys returns the keys in insertion order.
func (m AttrMap) Keys() []string {
	keys := make([]string, len(m.entries))
	for i, e := range m.entries {
		keys[i] = e.Key
	}
	return keys
}

// All iterates entries in insertion order.
func (m AttrMap) All() iter.Seq2[string, Attr] {
	return func(yield func(string, Attr) bool) {
		for _, e := range m.entries {
			if !yield(e.Key, e.Value) {
				return
			}
		}
	}
}

// Equal reports whether both maps hold the same keys with equal values.
// Order is ignored.
func (m AttrMap) Equal(o AttrMap) bool {
	if len(m.entries) != len(o.entries) {
		return false
	}
	for _, e := range m.entries {
		ov, ok := o.Get(e.Key)
		if !ok || !e.Value.Equal(ov) {
			return false
		}
	}
	return true
}

func (m AttrMap) Clone() AttrMap { return AttrMap{entries: slices.Clone(m.entries)} }
