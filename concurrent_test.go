package dts_test

import (
	"testing"
	"unsafe"

	"github.com/eirsys/dts"
	"github.com/eirsys/dts/internal/dtslock"
	"github.com/eirsys/dts/internal/typeops"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

type counter struct {
	N int64
}

func (c *counter) CopyFrom(src any) error {
	*c = *src.(*counter)
	return nil
}

// TestConcurrentConstructDestroyDistinctObjects exercises many goroutines
// each constructing, cloning, and destroying their own object of a shared
// registered type. The System uses dtslock.StdProvider, the only
// configuration under which concurrent use is safe; distinct objects share
// no memory, so this stresses the descriptor's reference-count locking
// without ever racing on payload bytes.
func TestConcurrentConstructDestroyDistinctObjects(t *testing.T) {
	sys := dts.New(dts.WithLockProvider(dtslock.StdProvider{}))
	counterType, err := dts.RegisterStructType[counter](sys, "Counter", nil)
	require.NoError(t, err)

	const goroutines = 16
	const iterations = 200

	var g errgroup.Group
	for i := 0; i < goroutines; i++ {
		g.Go(func() error {
			for j := 0; j < iterations; j++ {
				obj, err := sys.Construct(counterType, nil)
				if err != nil {
					return err
				}
				clone, err := sys.Clone(obj)
				if err != nil {
					sys.Destroy(obj)
					return err
				}
				sys.Destroy(obj)
				sys.Destroy(clone)
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())
	require.EqualValues(t, 0, counterType.RefCount())
}

// TestConcurrentRegisterPlugin exercises many goroutines calling
// RegisterPlugin on one descriptor at once, while no instance of it exists,
// then checks after they finish that every registration is counted in the
// descriptor's fixed plugin-block size.
func TestConcurrentRegisterPlugin(t *testing.T) {
	sys := dts.New(dts.WithLockProvider(dtslock.StdProvider{}))
	base, err := dts.RegisterAbstractStructType[struct{}](sys, "Base", nil)
	require.NoError(t, err)

	const goroutines = 8
	var g errgroup.Group
	for i := 0; i < goroutines; i++ {
		g.Go(func() error {
			sys.RegisterPlugin(base, dts.AnonymousPluginID, 8, typeops.PluginInterface{
				Construct: func(mem []byte) error {
					*(*int64)(unsafe.Pointer(&mem[0])) = 1
					return nil
				},
				Destruct: func([]byte) {},
			})
			return nil
		})
	}
	require.NoError(t, g.Wait())
	require.EqualValues(t, goroutines*8, base.Plugins().SizeFixed())
}
