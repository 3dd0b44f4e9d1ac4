package dts

import (
	"github.com/eirsys/dts/internal/typeops"
)

// RegisterType registers a concrete type named name under parent (nil for
// the forest root) with the given payload capability set. Returns an error
// if name collides with an existing sibling under parent.
func (s *System) RegisterType(name string, ops typeops.PayloadOps, parent *Type) (*Type, error) {
	return s.reg.RegisterType(name, ops, parent)
}

// RegisterAbstractType is RegisterType with the abstract flag set; an
// abstract type's payload Construct/CopyConstruct should refuse to run
// (see typeops.AbstractOps), but DTS itself never enforces this — the flag
// is advisory, read back via Type.IsAbstract.
func (s *System) RegisterAbstractType(name string, ops typeops.PayloadOps, parent *Type) (*Type, error) {
	return s.reg.RegisterAbstractType(name, ops, parent)
}

// RegisterStructType registers a type whose payload is the plain Go value
// T, zero-constructed. Clone copies the payload through T's CopyFrom, so *T
// must implement typeops.Copier if any caller will ever Clone an object of
// this type; otherwise Clone fails with UndefinedMethod.
func RegisterStructType[T any](s *System, name string, parent *Type) (*Type, error) {
	return s.RegisterType(name, typeops.StructOps[T](name), parent)
}

// RegisterAbstractStructType registers an abstract type over T whose
// payload can never actually be constructed — useful as a common ancestor
// that exists only to host shared plugins.
func RegisterAbstractStructType[T any](s *System, name string, parent *Type) (*Type, error) {
	return s.RegisterAbstractType(name, typeops.AbstractOps[T](name), parent)
}

// RegisterDynamicStructType registers a type over T whose size is not
// fixed: meta determines the allocation size from construction params and
// recovers it again from an already-constructed instance.
func RegisterDynamicStructType[T any](s *System, name string, meta typeops.SizeMeta, parent *Type) (*Type, error) {
	return s.RegisterType(name, typeops.DynamicStructOps[T](name, meta), parent)
}
