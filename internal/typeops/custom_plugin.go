package typeops

import "unsafe"

// CustomPluginOps is implemented by a plugin's own heap-allocated state —
// ordinarily a pointer receiver on a plain struct — backing
// register_custom_plugin<I>'s convenience path: construct/destruct/assign
// dispatch through methods on the state itself, rather than the free
// functions StructPlugin's caller would otherwise have to close over.
type CustomPluginOps interface {
	Construct() error
	Destruct()
	Assign(src any) error
}

// pointerWidth is the plugin block size CustomPlugin reserves: one word,
// exactly wide enough to hold the single Go pointer the block addresses.
var pointerWidth = int(unsafe.Sizeof(uintptr(0)))

func storeCell[I any](mem []byte, v I) {
	cell := &v
	*(*unsafe.Pointer)(unsafe.Pointer(unsafe.SliceData(mem))) = unsafe.Pointer(cell)
}

func loadCell[I any](mem []byte) I {
	p := *(*unsafe.Pointer)(unsafe.Pointer(unsafe.SliceData(mem)))
	return *(*I)(p)
}

// CustomPlugin builds a PluginInterface whose block holds a single pointer
// addressing a heap-allocated I minted by newFunc, the same technique
// internal/objhdr uses to keep a live Go pointer inside a raw byte buffer.
// Construct mints a fresh I and stores it; Destruct and Assign recover it
// and dispatch to its own methods. DeleteOnUnregister has nothing to do —
// once the registry drops its own stored pointer, the runtime reclaims I
// like anything else once unreferenced, which is the Go analogue of the
// source's delete_on_unregister self-free through the allocator.
func CustomPlugin[I CustomPluginOps](newFunc func() I) PluginInterface {
	return PluginInterface{
		Construct: func(mem []byte) error {
			v := newFunc()
			if err := v.Construct(); err != nil {
				return err
			}
			storeCell(mem, v)
			return nil
		},
		Destruct: func(mem []byte) {
			loadCell[I](mem).Destruct()
		},
		Assign: func(dst, src []byte) error {
			return loadCell[I](dst).Assign(loadCell[I](src))
		},
		DeleteOnUnregister: func() {},
	}
}

// CustomPluginSize is the fixed block size every CustomPlugin registration
// reserves, regardless of I.
func CustomPluginSize() int { return pointerWidth }
