package dts

import "github.com/eirsys/dts/internal/registry"

// Find returns the descriptor named name whose parent is base (nil for the
// forest root), or nil if none is registered.
func (s *System) Find(name string, base *Type) *Type {
	return s.reg.Find(name, base)
}

// Resolve walks a "::"-delimited path from the forest root. An empty path,
// or a path containing an empty segment, resolves to nil.
func (s *System) Resolve(path string) *Type {
	return s.reg.Resolve(path)
}

// SetParent re-parents sub to newParent. sub must be unreferenced; moving
// it to a position that collides with an existing sibling name returns an
// error, while moving it into a cycle or moving a referenced descriptor are
// both fatal invariant breaches (they indicate a caller that did not check
// RefCount/IsInheritingFrom first) and panic rather than return an error.
func (s *System) SetParent(sub, newParent *Type) error {
	return s.reg.SetParent(sub, newParent)
}

// DeleteType removes t from the registry. t's children are re-parented to
// the forest root. The caller must guarantee no live instance references t.
func (s *System) DeleteType(t *Type) {
	s.reg.DeleteType(t)
}

// SetOnDelete installs a cleanup hook DeleteType invokes after unlinking t,
// for a dynamic type whose registration allocated external state (e.g. a
// shared SizeMeta) that must be freed alongside it.
func (s *System) SetOnDelete(t *Type, fn func()) {
	s.reg.SetOnDelete(t, fn)
}

// IsInheritingFrom reports whether d has base somewhere in its ancestor
// chain. A type never inherits from itself.
func IsInheritingFrom(d, base *Type) bool {
	return registry.IsInheritingFrom(d, base)
}

// IsSameType reports whether a and b are the same registered descriptor.
func IsSameType(a, b *Type) bool {
	return registry.IsSameType(a, b)
}

// Chain returns t's ancestry root-first, t itself last.
func Chain(t *Type) []*Type {
	return registry.Chain(t)
}
