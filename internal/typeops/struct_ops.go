package typeops

import (
	"unsafe"

	dtserrors "github.com/eirsys/dts/errors"
)

// Copier is implemented by payload types that support copy-construction.
// CopyFrom populates the receiver from src; returning an error is reserved
// for payload types that can refuse a copy for domain reasons (the type
// system itself never rejects a same-size copy).
type Copier interface {
	CopyFrom(src any) error
}

func writeValue[T any](mem []byte, v T) {
	src := unsafe.Slice((*byte)(unsafe.Pointer(&v)), int(unsafe.Sizeof(v)))
	copy(mem, src)
}

func readValue[T any](mem []byte) T {
	var v T
	dst := unsafe.Slice((*byte)(unsafe.Pointer(&v)), int(unsafe.Sizeof(v)))
	copy(dst, mem)
	return v
}

// StructOps builds a PayloadOps for a fixed-size struct type T, backing
// register_struct_type<T>. Construction writes T's zero value; copy
// construction is supported only when *T implements Copier, otherwise it
// reports UndefinedMethod, matching the source's SFINAE-detected
// copy-constructibility check at registration.
func StructOps[T any](typeName string) PayloadOps {
	var zero T
	size := int(unsafe.Sizeof(zero))
	_, copyable := any(&zero).(Copier)

	return PayloadOps{
		Construct: func(mem []byte, _ any) error {
			writeValue(mem, zero)
			return nil
		},
		CopyConstruct: func(dst, src []byte) error {
			if !copyable {
				return dtserrors.New(dtserrors.UndefinedMethod, typeName)
			}
			s := readValue[T](src)
			d := readValue[T](dst)
			c := any(&d).(Copier)
			if err := c.CopyFrom(&s); err != nil {
				return dtserrors.Newf(dtserrors.UndefinedMethod, typeName, "copy payload: %w", err)
			}
			writeValue(dst, d)
			return nil
		},
		Destruct:       func(mem []byte) { clear(mem) },
		Size:           func(any) int { return size },
		SizeByInstance: func([]byte) int { return size },
	}
}

// AbstractOps builds a PayloadOps that always fails construction and
// copy-construction with AbstractConstruction, backing
// register_abstract_type<T>. Size still reports sizeof(T), so SizeFor on the
// abstract type itself is non-zero and Construct reaches this failing payload
// constructor. A descendant's layout uses only the descendant's own payload
// size; an abstract ancestor contributes its plugin block, not its payload.
// AbstractOps exists so the abstract descriptor itself can never be the leaf
// of a successful Construct.
func AbstractOps[T any](typeName string) PayloadOps {
	var zero T
	size := int(unsafe.Sizeof(zero))
	failConstruct := func([]byte, any) error {
		return dtserrors.New(dtserrors.AbstractConstruction, typeName)
	}
	return PayloadOps{
		Construct:      failConstruct,
		CopyConstruct:  func(dst, src []byte) error { return failConstruct(dst, nil) },
		Destruct:       func([]byte) {},
		Size:           func(any) int { return size },
		SizeByInstance: func([]byte) int { return size },
	}
}

// SizeMeta is supplied by register_dynamic_struct_type<T> callers whose
// payload size is not a compile-time constant: Size computes it from
// construction params, SizeByInstance recovers it from an already
// constructed object's tail.
type SizeMeta interface {
	Size(params any) int
	SizeByInstance(tail []byte) int
}

// DynamicStructOps builds a PayloadOps whose size queries delegate to meta,
// backing register_dynamic_struct_type<T>. Construction still writes T's
// zero value into the front of the payload; it is meta's responsibility
// that the reported size is large enough to hold it plus whatever variable
// tail the concrete type needs.
func DynamicStructOps[T any](typeName string, meta SizeMeta) PayloadOps {
	return PayloadOps{
		Construct: func(mem []byte, _ any) error {
			var zero T
			if int(unsafe.Sizeof(zero)) > len(mem) {
				return dtserrors.Newf(dtserrors.PayloadConstruction, typeName,
					"dynamic payload too small: need at least %d bytes, got %d", unsafe.Sizeof(zero), len(mem))
			}
			writeValue(mem, zero)
			return nil
		},
		CopyConstruct: func(dst, src []byte) error {
			copy(dst, src)
			return nil
		},
		Destruct:       func(mem []byte) { clear(mem) },
		Size:           meta.Size,
		SizeByInstance: meta.SizeByInstance,
	}
}

// StructPlugin builds a PluginInterface for a plain struct type S, backing
// register_struct_plugin<S>: zero-value construction, a destructor that
// zeroes the block, and a copy-assign that uses Go's struct value-copy semantics directly —
// for a flat, pointer-free struct, overwriting the destination bytes with
// the source bytes is exactly copy-assignment.
func StructPlugin[S any]() PluginInterface {
	var zero S
	return PluginInterface{
		Construct: func(mem []byte) error {
			writeValue(mem, zero)
			return nil
		},
		Destruct: func(mem []byte) { clear(mem) },
		Assign: func(dst, src []byte) error {
			copy(dst, src)
			return nil
		},
	}
}
