package lifecycle

import (
	"unsafe"

	"github.com/eirsys/dts/internal/dtsalloc"
	"github.com/eirsys/dts/internal/layout"
	"github.com/eirsys/dts/internal/registry"
	"github.com/pkg/errors"
)

// Construct allocates a new object of type d via alloc, runs
// ConstructPlacement into it, and returns the live object. A zero-payload
// type (d is unconstructible) and an allocator that returns nil
// (AllocationFailure) both yield (nil, nil): no error, no object.
func Construct(alloc dtsalloc.Allocator, d *registry.TypeDescriptor, params any, systemPtr unsafe.Pointer) ([]byte, error) {
	size := layout.SizeFor(d, params)
	if size == 0 {
		return nil, nil
	}
	mem := alloc.Allocate(size)
	if mem == nil {
		return nil, nil
	}
	if err := ConstructPlacement(mem, d, params, systemPtr); err != nil {
		alloc.Release(mem)
		return nil, errors.Wrap(err, "construct")
	}
	return mem, nil
}

// Clone allocates a new object the same size and type as src, and
// copy-constructs it via ClonePlacement. The descriptor is recovered from
// src's own header, matching the source's clone(sys, src) signature.
func Clone(alloc dtsalloc.Allocator, src []byte, systemPtr unsafe.Pointer) ([]byte, error) {
	d := registry.DescriptorFromObject(src)
	size := layout.SizeOf(d, src)
	mem := alloc.Allocate(size)
	if mem == nil {
		return nil, nil
	}
	if err := ClonePlacement(mem, d, src, systemPtr); err != nil {
		alloc.Release(mem)
		return nil, errors.Wrap(err, "clone")
	}
	return mem, nil
}

// Destroy tears down obj in place and releases its backing allocation.
func Destroy(alloc dtsalloc.Allocator, obj []byte) {
	d := registry.DescriptorFromObject(obj)
	DestroyPlacement(d, obj)
	alloc.Release(obj)
}
