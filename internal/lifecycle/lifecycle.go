// Package lifecycle implements the gated construct/clone/destroy sequences
// that turn a chain of descriptors and a backing allocation into (and out
// of) a live object — component G, the largest single responsibility in
// the design. Every *Placement function operates on caller-supplied memory
// that is already sized correctly (via internal/layout); the non-placement
// wrappers in heap.go own the allocator round trip around them.
//
// Every step here follows the same discipline the teacher's
// schemaset_compile.go pipeline uses for its own multi-stage build: run a
// step, and on failure unwind exactly the steps that already succeeded, in
// reverse, before propagating the error. Go has no exceptions to unwind
// automatically, so the unwind is written out as an explicit reverse loop at
// each gate rather than expressed once via defer — how much work there is to
// unwind depends on how far construction got.
package lifecycle

import (
	"unsafe"

	dtserrors "github.com/eirsys/dts/errors"
	"github.com/eirsys/dts/internal/objhdr"
	"github.com/eirsys/dts/internal/registry"
	"github.com/pkg/errors"
)

// ConstructPlacement builds a new instance of d in mem, which must be
// exactly the size internal/layout.SizeFor(d, params) reports. On any
// failure mem is left fully torn down (header aside) and an error wrapping
// the underlying cause is returned.
func ConstructPlacement(mem []byte, d *registry.TypeDescriptor, params any, systemPtr unsafe.Pointer) error {
	registry.Ref(d)

	objhdr.WriteHeader(mem, registry.HeaderPointer(d), systemPtr)
	ops := d.PayloadOps()
	payloadSize := ops.Size(params)
	payload := objhdr.PayloadFromObject(mem, payloadSize)

	if err := ops.Construct(payload, params); err != nil {
		registry.Unref(d)
		return errors.Wrapf(err, "construct %s: payload", d.Name())
	}

	if got := ops.SizeByInstance(objhdr.TailFromObject(mem)); got != payloadSize {
		dtserrors.PanicInvariantf("construct %s: size_by_instance (%d) disagrees with size (%d)", d.Name(), got, payloadSize)
	}

	chain := registry.Chain(d)
	cursor := 0
	built := 0
	for i, t := range chain {
		blockSize := t.Plugins().SizeFixed()
		start := cursor
		end := start + blockSize
		blk := payloadBlock(mem, payloadSize, start, end)
		if err := t.Plugins().ConstructBlock(blk); err != nil {
			unwindPlugins(chain, mem, payloadSize, built)
			ops.Destruct(payload)
			registry.Unref(d)
			return errors.Wrapf(err, "construct %s: plugin block for %s", d.Name(), t.Name())
		}
		cursor = end
		built = i + 1
	}

	return nil
}

// payloadBlock slices the [start,end) byte range of the plugin region,
// which begins immediately after the payload.
func payloadBlock(mem []byte, payloadSize, start, end int) []byte {
	base := objhdr.HeaderSize + payloadSize
	return mem[base+start : base+end]
}

// unwindPlugins destructs the first n levels of chain's plugin blocks, in
// reverse order, against the offsets implied by payloadSize.
func unwindPlugins(chain []*registry.TypeDescriptor, mem []byte, payloadSize, n int) {
	offsets := make([]int, n)
	cursor := 0
	for i := 0; i < n; i++ {
		offsets[i] = cursor
		cursor += chain[i].Plugins().SizeFixed()
	}
	for i := n - 1; i >= 0; i-- {
		size := chain[i].Plugins().SizeFixed()
		blk := payloadBlock(mem, payloadSize, offsets[i], offsets[i]+size)
		chain[i].Plugins().DestroyBlock(blk)
	}
}

// ClonePlacement builds a new instance of d in mem by copy-constructing its
// payload from src's payload and assigning every plugin block from src's.
// src must be a live, fully constructed object of the same type as d.
func ClonePlacement(mem []byte, d *registry.TypeDescriptor, src []byte, systemPtr unsafe.Pointer) error {
	registry.Ref(d)

	objhdr.WriteHeader(mem, registry.HeaderPointer(d), systemPtr)
	ops := d.PayloadOps()
	payloadSize := ops.SizeByInstance(objhdr.TailFromObject(src))
	dstPayload := objhdr.PayloadFromObject(mem, payloadSize)
	srcPayload := objhdr.PayloadFromObject(src, payloadSize)

	if err := ops.CopyConstruct(dstPayload, srcPayload); err != nil {
		registry.Unref(d)
		return errors.Wrapf(err, "clone %s: payload", d.Name())
	}

	chain := registry.Chain(d)
	cursor := 0
	built := 0
	for i, t := range chain {
		blockSize := t.Plugins().SizeFixed()
		start, end := cursor, cursor+blockSize
		dstBlk := payloadBlock(mem, payloadSize, start, end)
		srcBlk := payloadBlock(src, payloadSize, start, end)

		if err := t.Plugins().ConstructBlock(dstBlk); err != nil {
			unwindPlugins(chain, mem, payloadSize, built)
			ops.Destruct(dstPayload)
			registry.Unref(d)
			return errors.Wrapf(err, "clone %s: plugin block for %s", d.Name(), t.Name())
		}
		built = i + 1

		if err := t.Plugins().AssignBlock(dstBlk, srcBlk); err != nil {
			unwindPlugins(chain, mem, payloadSize, built)
			ops.Destruct(dstPayload)
			registry.Unref(d)
			return errors.Wrapf(err, "clone %s: assign plugin block for %s", d.Name(), t.Name())
		}
		cursor = end
	}

	return nil
}

// DestroyPlacement tears down a live object in place: plugin blocks leaf to
// root, then the payload, then the reference the construction took out.
func DestroyPlacement(d *registry.TypeDescriptor, mem []byte) {
	ops := d.PayloadOps()
	payloadSize := ops.SizeByInstance(objhdr.TailFromObject(mem))

	chain := registry.Chain(d)
	unwindPlugins(chain, mem, payloadSize, len(chain))

	ops.Destruct(objhdr.PayloadFromObject(mem, payloadSize))
	registry.Unref(d)
}
