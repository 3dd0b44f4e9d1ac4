package typeops

import (
	"testing"
	"unsafe"

	dtserrors "github.com/eirsys/dts/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type point struct {
	X, Y int32
}

type counter struct {
	N int64
}

func (c *counter) CopyFrom(src any) error {
	s := src.(*counter)
	c.N = s.N
	return nil
}

func TestStructOpsConstructWritesZeroValue(t *testing.T) {
	ops := StructOps[point]("point")
	mem := make([]byte, unsafe.Sizeof(point{}))
	for i := range mem {
		mem[i] = 0xAA
	}
	require.NoError(t, ops.Construct(mem, nil))

	var got point
	copy(unsafe.Slice((*byte)(unsafe.Pointer(&got)), unsafe.Sizeof(got)), mem)
	assert.Equal(t, point{}, got)
}

func TestStructOpsCopyConstructWithoutCopierFails(t *testing.T) {
	ops := StructOps[point]("point")
	dst := make([]byte, unsafe.Sizeof(point{}))
	src := make([]byte, unsafe.Sizeof(point{}))

	err := ops.CopyConstruct(dst, src)
	require.Error(t, err)
	var te *dtserrors.TypeError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, dtserrors.UndefinedMethod, te.Code)
}

func TestStructOpsCopyConstructWithCopier(t *testing.T) {
	ops := StructOps[counter]("counter")
	src := make([]byte, unsafe.Sizeof(counter{}))
	writeValue(src, counter{N: 42})
	dst := make([]byte, unsafe.Sizeof(counter{}))

	require.NoError(t, ops.CopyConstruct(dst, src))
	assert.Equal(t, int64(42), readValue[counter](dst).N)
}

func TestAbstractOpsAlwaysFails(t *testing.T) {
	ops := AbstractOps[point]("Shape")
	mem := make([]byte, unsafe.Sizeof(point{}))

	err := ops.Construct(mem, nil)
	require.Error(t, err)
	var te *dtserrors.TypeError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, dtserrors.AbstractConstruction, te.Code)

	err = ops.CopyConstruct(mem, mem)
	require.Error(t, err)
	require.ErrorAs(t, err, &te)
	assert.Equal(t, dtserrors.AbstractConstruction, te.Code)
}

func TestStructPluginCopyAssign(t *testing.T) {
	plugin := StructPlugin[point]()
	src := make([]byte, unsafe.Sizeof(point{}))
	writeValue(src, point{X: 1, Y: 2})
	dst := make([]byte, unsafe.Sizeof(point{}))
	require.NoError(t, plugin.Construct(dst))

	require.NoError(t, plugin.Assign(dst, src))
	assert.Equal(t, point{X: 1, Y: 2}, readValue[point](dst))
}

type sizedMeta struct{}

func (sizedMeta) Size(params any) int          { return params.(int) }
func (sizedMeta) SizeByInstance(tail []byte) int { return int(tail[0]) }

func TestDynamicStructOpsDelegatesToMeta(t *testing.T) {
	ops := DynamicStructOps[point]("Dyn", sizedMeta{})
	assert.Equal(t, 10, ops.Size(10))
	assert.Equal(t, 7, ops.SizeByInstance([]byte{7, 0, 0}))
}
