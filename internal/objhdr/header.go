// Package objhdr implements the object header and the pointer arithmetic
// that recovers a header from a payload and vice versa (invariant 6: given
// any payload pointer p belonging to a DTS object, p - sizeof(ObjectHeader)
// is the object's header). Grounded directly on
// original_source/vendor/eirrepo/sdk/DynamicTypeSystem.h's GenericRTTI
// layout and its GetTypePluginOffset/RESOLVE_STRUCT pointer math, translated
// from raw pointer offsets to Go's byte-slice-and-unsafe.Pointer idiom.
package objhdr

import "unsafe"

// Header is the fixed prefix written at the start of every constructed
// object's backing allocation. TypeMeta is stored untyped (as
// unsafe.Pointer) to keep this package free of a dependency on the
// descriptor type; callers cast it back to *registry.TypeDescriptor.
// System is the debug-only back-pointer to the owning TypeSystem mentioned
// in the design notes — it exists to diagnose mixing objects across
// distinct TypeSystem instances and is never load-bearing at runtime.
type Header struct {
	TypeMeta unsafe.Pointer
	System   unsafe.Pointer
}

// HeaderSize is sizeof(ObjectHeader).
var HeaderSize = int(unsafe.Sizeof(Header{}))

// WriteHeader writes typeMeta and system into the first HeaderSize bytes of
// buf. buf must be at least HeaderSize bytes long.
func WriteHeader(buf []byte, typeMeta, system unsafe.Pointer) {
	h := (*Header)(unsafe.Pointer(unsafe.SliceData(buf)))
	h.TypeMeta = typeMeta
	h.System = system
}

// ReadHeader views the first HeaderSize bytes of buf as a *Header.
func ReadHeader(buf []byte) *Header {
	return (*Header)(unsafe.Pointer(unsafe.SliceData(buf)))
}

// PayloadFromObject returns the payload slice immediately following the
// header in obj, of the given size.
func PayloadFromObject(obj []byte, payloadSize int) []byte {
	return obj[HeaderSize : HeaderSize+payloadSize]
}

// TailFromObject returns every byte of obj following the header — the view
// a SizeByInstanceFunc receives, since it must be able to recover a
// variable payload's size before that size is known to the caller.
func TailFromObject(obj []byte) []byte {
	return obj[HeaderSize:]
}

// ObjectFromPayload recovers the full object slice given a payload slice
// produced by PayloadFromObject (or obtained from a live object) and the
// object's total size. This realizes invariant 6 directly: the header
// address is the payload address minus HeaderSize, and unsafe.Add keeps
// that pointer within the bounds of the same backing allocation.
func ObjectFromPayload(payload []byte, totalSize int) []byte {
	base := unsafe.Pointer(unsafe.SliceData(payload))
	headerPtr := unsafe.Add(base, -HeaderSize)
	return unsafe.Slice((*byte)(headerPtr), totalSize)
}
