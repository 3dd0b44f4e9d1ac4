package dts

import (
	"unsafe"

	"github.com/eirsys/dts/internal/layout"
	"github.com/eirsys/dts/internal/lifecycle"
	"github.com/eirsys/dts/internal/objhdr"
	"github.com/eirsys/dts/internal/registry"
)

// Object is a live, constructed instance: a single contiguous allocation
// holding the object header, the type's payload, and the plugin block of
// every type in its ancestry, root first.
type Object []byte

// Construct allocates and constructs a new instance of t with params,
// using s's configured allocator. A type whose payload size for params is
// zero is unconstructible and returns (nil, nil) rather than an error.
func (s *System) Construct(t *Type, params any) (Object, error) {
	obj, err := lifecycle.Construct(s.alloc, t, params, unsafe.Pointer(s.reg))
	return Object(obj), err
}

// Clone allocates and copy-constructs a new instance from src. The type is
// recovered from src's own header; the caller does not name it again.
func (s *System) Clone(src Object) (Object, error) {
	obj, err := lifecycle.Clone(s.alloc, src, unsafe.Pointer(s.reg))
	return Object(obj), err
}

// Destroy tears down obj in place and releases its backing allocation
// through s's configured allocator.
func (s *System) Destroy(obj Object) {
	lifecycle.Destroy(s.alloc, obj)
}

// ConstructPlacement builds a new instance of t into mem, which the caller
// has already sized exactly to SizeFor(t, params) and owns the lifetime of.
// Use this in place of Construct when an object's storage is itself a
// plugin block or other externally managed memory.
func (s *System) ConstructPlacement(mem Object, t *Type, params any) error {
	return lifecycle.ConstructPlacement(mem, t, params, unsafe.Pointer(s.reg))
}

// ClonePlacement copy-constructs into mem from src, as ConstructPlacement
// relates to Construct.
func (s *System) ClonePlacement(mem Object, t *Type, src Object) error {
	return lifecycle.ClonePlacement(mem, t, src, unsafe.Pointer(s.reg))
}

// DestroyPlacement tears down a placement-constructed object in place,
// without releasing any allocation — the caller owns that.
func (s *System) DestroyPlacement(t *Type, mem Object) {
	lifecycle.DestroyPlacement(t, mem)
}

// SizeFor reports the total allocation size needed to construct a new
// instance of t with params. Zero means t is unconstructible with those
// params.
func SizeFor(t *Type, params any) int {
	return layout.SizeFor(t, params)
}

// SizeOf reports the total size of an already-constructed object.
func SizeOf(t *Type, obj Object) int {
	return layout.SizeOf(t, obj)
}

// ResolvePluginOffset locates the absolute byte offset, within obj, of the
// plugin identified by tok on target — target must be t or one of its
// ancestors.
func ResolvePluginOffset(t *Type, obj Object, target *Type, tok PluginOffset) (int, bool) {
	return layout.ResolveOffset(t, obj, target, tok)
}

// GetTypeInfoFromObject recovers the owning type descriptor from a live
// object's header.
func GetTypeInfoFromObject(obj Object) *Type {
	return registry.DescriptorFromObject(obj)
}

// GetPayloadFromObject returns the payload slice of a live object of type t.
func GetPayloadFromObject(t *Type, obj Object) []byte {
	size := t.PayloadOps().SizeByInstance(objhdr.TailFromObject(obj))
	return objhdr.PayloadFromObject(obj, size)
}

// GetObjectFromPayload recovers the full object slice from a payload slice
// (as returned by GetPayloadFromObject) and the object's total size, per
// the header-identity invariant: the header always sits immediately before
// the payload in the same backing allocation.
func GetObjectFromPayload(payload []byte, totalSize int) Object {
	return objhdr.ObjectFromPayload(payload, totalSize)
}
