// Package layout computes object sizes and plugin offsets along a
// descriptor chain — component F. Every computation here is pure under the
// descriptor-immutability invariant: nothing mutates a descriptor's plugin
// registry or payload_ops while any instance exists, so the same chain
// always yields the same sizes and offsets.
package layout

import (
	"github.com/eirsys/dts/internal/objhdr"
	"github.com/eirsys/dts/internal/pluginregistry"
	"github.com/eirsys/dts/internal/registry"
)

// SizeFor computes the total allocation size for constructing a new
// instance of d with params: header + payload + every ancestor's (and d's
// own) plugin block, root-first. A zero payload size signals
// "unconstructible" and the caller performs no allocation.
func SizeFor(d *registry.TypeDescriptor, params any) int {
	payloadSize := d.PayloadOps().Size(params)
	if payloadSize == 0 {
		return 0
	}
	total := objhdr.HeaderSize + payloadSize
	for _, t := range registry.Chain(d) {
		total += t.Plugins().SizeFixed()
	}
	return total
}

// SizeOf computes the total size of an already-constructed object of type
// d, using the instance-based payload and plugin size queries.
func SizeOf(d *registry.TypeDescriptor, obj []byte) int {
	payloadSize := d.PayloadOps().SizeByInstance(objhdr.TailFromObject(obj))
	total := objhdr.HeaderSize + payloadSize
	for _, t := range registry.Chain(d) {
		total += t.Plugins().SizeForObject(obj)
	}
	return total
}

// Offsets precomputes, for the chain of d, the byte offset at which each
// ancestor's (and d's own) plugin block begins within an object whose
// payload occupies payloadSize bytes. Index i of the returned slice
// corresponds to registry.Chain(d)[i].
func Offsets(d *registry.TypeDescriptor, payloadSize int) (chain []*registry.TypeDescriptor, offsets []int) {
	chain = registry.Chain(d)
	offsets = make([]int, len(chain))
	cursor := objhdr.HeaderSize + payloadSize
	for i, t := range chain {
		offsets[i] = cursor
		cursor += t.Plugins().SizeFixed()
	}
	return chain, offsets
}

// ResolveOffset locates the absolute byte offset of a plugin registered on
// target, within an existing object obj of type d (d == target or a
// descendant of target). Returns (0, false) for an INVALID token or a
// target not on d's chain.
func ResolveOffset(d *registry.TypeDescriptor, obj []byte, target *registry.TypeDescriptor, tok pluginregistry.Offset) (int, bool) {
	if tok == pluginregistry.InvalidOffset {
		return 0, false
	}
	payloadSize := d.PayloadOps().SizeByInstance(objhdr.TailFromObject(obj))
	base := objhdr.HeaderSize + payloadSize
	for _, t := range registry.Chain(d) {
		if t == target {
			intra, ok := t.Plugins().ResolveOffset(tok)
			if !ok {
				return 0, false
			}
			return base + intra, true
		}
		base += t.Plugins().SizeForObject(obj)
	}
	return 0, false
}
