// Package registry holds the type descriptor, the global descriptor list,
// reference accounting, and the inheritance editor — components C, E, H,
// and I of the design. It is the largest internal package by responsibility
// share, matching the source's own weighting (registration plus lifecycle
// bookkeeping dwarfs the adapters around it).
package registry

import (
	"unsafe"

	"github.com/eirsys/dts/internal/dtslock"
	"github.com/eirsys/dts/internal/objhdr"
	"github.com/eirsys/dts/internal/pluginregistry"
	"github.com/eirsys/dts/internal/typeops"
)

// ID identifies a descriptor for the lifetime of the TypeSystem that
// created it. Wrapping a plain uint64 the way the teacher wraps its
// identifier spaces (SymbolID, TypeID, ElemID, ...) keeps descriptor
// identity distinct from any other integer a host might be juggling.
type ID uint64

// PluginRegistry is the §6 external-collaborator contract. RegisterType
// always gives a new descriptor a pluginregistry.Registry; there is no call
// that installs a different implementation.
type PluginRegistry interface {
	RegisterPlugin(key uint32, size int, iface typeops.PluginInterface) pluginregistry.Offset
	UnregisterPlugin(tok pluginregistry.Offset) bool
	SizeFixed() int
	SizeForObject(obj []byte) int
	ResolveOffset(tok pluginregistry.Offset) (int, bool)
	ConstructBlock(block []byte) error
	DestroyBlock(block []byte)
	AssignBlock(dst, src []byte) error
}

// TypeDescriptor is the per-type record: §3's TypeDescriptor entity.
type TypeDescriptor struct {
	id           ID
	name         string
	payloadOps   typeops.PayloadOps
	parent       *TypeDescriptor
	plugins      PluginRegistry
	refCount     uint32
	inheritCount uint32
	isExclusive  bool
	isAbstract   bool
	lock         dtslock.Lock
	onDelete     func()
}

// ID returns the descriptor's identity within its owning TypeSystem.
func (d *TypeDescriptor) ID() ID { return d.id }

// Name returns the descriptor's sibling-unique name.
func (d *TypeDescriptor) Name() string { return d.name }

// Parent returns the descriptor's parent, or nil at the forest root.
func (d *TypeDescriptor) Parent() *TypeDescriptor { return d.parent }

// PayloadOps returns the descriptor's payload capability set.
func (d *TypeDescriptor) PayloadOps() typeops.PayloadOps { return d.payloadOps }

// Plugins returns the descriptor's plugin registry.
func (d *TypeDescriptor) Plugins() PluginRegistry { return d.plugins }

// IsAbstract reports the advisory abstract flag set at registration.
func (d *TypeDescriptor) IsAbstract() bool { return d.isAbstract }

// IsExclusive reports the advisory exclusive flag a host may set and read;
// DTS itself never branches on it.
func (d *TypeDescriptor) IsExclusive() bool {
	d.lock.RLock()
	defer d.lock.RUnlock()
	return d.isExclusive
}

// SetExclusive sets the advisory exclusive flag.
func (d *TypeDescriptor) SetExclusive(v bool) {
	d.lock.Lock()
	defer d.lock.Unlock()
	d.isExclusive = v
}

// RefCount returns the descriptor's current reference count.
func (d *TypeDescriptor) RefCount() uint32 {
	d.lock.RLock()
	defer d.lock.RUnlock()
	return d.refCount
}

// InheritCount returns the number of direct children.
func (d *TypeDescriptor) InheritCount() uint32 {
	d.lock.RLock()
	defer d.lock.RUnlock()
	return d.inheritCount
}

// Chain returns the descriptor chain root-first, d itself last, the order
// both size accumulation (§4.E) and plugin construction (§4.G) depend on.
func Chain(d *TypeDescriptor) []*TypeDescriptor {
	var reverse []*TypeDescriptor
	for cur := d; cur != nil; cur = cur.parent {
		reverse = append(reverse, cur)
	}
	chain := make([]*TypeDescriptor, len(reverse))
	for i, dd := range reverse {
		chain[len(reverse)-1-i] = dd
	}
	return chain
}

// depth counts the number of ancestors above d; the root has depth 0. Used
// only to order per-descriptor lock acquisition root-first.
func depth(d *TypeDescriptor) int {
	n := 0
	for d.parent != nil {
		d = d.parent
		n++
	}
	return n
}

// IsInheritingFrom reports whether d has base somewhere in its ancestor
// chain. A type never inherits from itself — IsSameType covers that case.
func IsInheritingFrom(d, base *TypeDescriptor) bool {
	if d == nil || base == nil || d == base {
		return false
	}
	for cur := d.parent; cur != nil; cur = cur.parent {
		if cur == base {
			return true
		}
	}
	return false
}

// IsSameType reports whether a and b are the same descriptor.
func IsSameType(a, b *TypeDescriptor) bool { return a == b }

// DescriptorFromObject recovers the owning descriptor from a constructed
// object's header (get_type_info_from_object).
func DescriptorFromObject(obj []byte) *TypeDescriptor {
	h := objhdr.ReadHeader(obj)
	return (*TypeDescriptor)(h.TypeMeta)
}

// HeaderPointer returns obj's descriptor as the unsafe.Pointer the object
// header stores, for use by WriteHeader at construction time.
func HeaderPointer(d *TypeDescriptor) unsafe.Pointer {
	return unsafe.Pointer(d)
}
