package dtsalloc

import "sync"

// Pooled recycles backing byte slices across construct/destroy cycles,
// keyed by a power-of-two size class, the way the teacher recycles parsed
// Document values through a sync.Pool keyed by a single shape rather than
// by exact size. Hosts that construct and destroy many same-sized objects
// (the common case for one TypeDescriptor used repeatedly) avoid a fresh
// heap allocation on every Construct.
type Pooled struct {
	pools sync.Map // map[int]*sync.Pool, keyed by size class
}

// NewPooled returns a ready-to-use pooled allocator.
func NewPooled() *Pooled {
	return &Pooled{}
}

func sizeClass(size int) int {
	class := 64
	for class < size {
		class *= 2
	}
	return class
}

func (p *Pooled) poolFor(class int) *sync.Pool {
	if v, ok := p.pools.Load(class); ok {
		return v.(*sync.Pool)
	}
	fresh := &sync.Pool{
		New: func() any {
			buf := make([]byte, class)
			return &buf
		},
	}
	actual, _ := p.pools.LoadOrStore(class, fresh)
	return actual.(*sync.Pool)
}

// Allocate returns a zeroed slice of exactly size bytes, backed by a
// recycled size-class buffer when one is available.
func (p *Pooled) Allocate(size int) []byte {
	if size <= 0 {
		return nil
	}
	class := sizeClass(size)
	bufPtr := p.poolFor(class).Get().(*[]byte)
	buf := (*bufPtr)[:class]
	clear(buf)
	return buf[:size]
}

// Release returns buf's backing array to its size-class pool. Safe to call
// with nil.
func (p *Pooled) Release(buf []byte) {
	if buf == nil {
		return
	}
	class := cap(buf)
	full := buf[:class]
	p.poolFor(class).Put(&full)
}

// Resize allocates a new slice of newSize bytes, copies buf into it, and
// releases buf back to its pool.
func (p *Pooled) Resize(buf []byte, newSize int) []byte {
	out := p.Allocate(newSize)
	copy(out, buf)
	p.Release(buf)
	return out
}
