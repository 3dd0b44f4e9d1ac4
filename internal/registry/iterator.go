package registry

// Iterator yields every registered descriptor in registration order while
// holding the global read lock for its lifetime, per the source's
// type_iterator. Close must be called to release the lock (extra calls are
// harmless); Range is the preferred
// entry point since it cannot leak the lock if a caller forgets to close a
// pull-style iterator.
type Iterator struct {
	sys   *System
	items []*TypeDescriptor
	idx   int
	done  bool
}

// Iterate snapshots the current registration order and begins holding the
// global read lock until Close.
func (s *System) Iterate() *Iterator {
	s.mu.RLock()
	items := make([]*TypeDescriptor, len(s.order))
	copy(items, s.order)
	return &Iterator{sys: s, items: items}
}

// Next returns the next descriptor, or (nil, false) once exhausted.
func (it *Iterator) Next() (*TypeDescriptor, bool) {
	if it.done || it.idx >= len(it.items) {
		return nil, false
	}
	d := it.items[it.idx]
	it.idx++
	return d, true
}

// Close releases the global read lock. Safe to call more than once.
func (it *Iterator) Close() {
	if it.done {
		return
	}
	it.done = true
	it.sys.mu.RUnlock()
}

// Range calls fn for every registered descriptor, stopping early if fn
// returns false, and always releases the global read lock before returning.
func (s *System) Range(fn func(*TypeDescriptor) bool) {
	it := s.Iterate()
	defer it.Close()
	for {
		d, ok := it.Next()
		if !ok {
			return
		}
		if !fn(d) {
			return
		}
	}
}
