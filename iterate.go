package dts

import "github.com/eirsys/dts/internal/registry"

// Iterator walks every registered type, holding the System's global read
// lock for its lifetime. Close must be called to release the lock (extra
// calls are harmless); prefer Range
// where a callback shape is convenient, since it cannot leak the lock.
type Iterator struct {
	it *registry.Iterator
}

// Iterate begins a walk over every currently registered type, in
// registration order.
func (s *System) Iterate() *Iterator {
	return &Iterator{it: s.reg.Iterate()}
}

// Next returns the next type, or (nil, false) once exhausted.
func (it *Iterator) Next() (*Type, bool) {
	return it.it.Next()
}

// Close releases the lock the iterator holds. Safe to call more than once.
func (it *Iterator) Close() {
	it.it.Close()
}

// Range calls fn for every registered type, stopping early if fn returns
// false.
func (s *System) Range(fn func(*Type) bool) {
	s.reg.Range(fn)
}
