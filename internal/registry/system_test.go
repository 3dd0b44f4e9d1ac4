package registry

import (
	"testing"

	dtserrors "github.com/eirsys/dts/errors"
	"github.com/eirsys/dts/internal/dtslock"
	"github.com/eirsys/dts/internal/typeops"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedOps(size int) typeops.PayloadOps {
	return typeops.PayloadOps{
		Construct:      func([]byte, any) error { return nil },
		CopyConstruct:  func(dst, src []byte) error { copy(dst, src); return nil },
		Destruct:       func([]byte) {},
		Size:           func(any) int { return size },
		SizeByInstance: func([]byte) int { return size },
	}
}

func newTestSystem() *System {
	return NewSystem(dtslock.StdProvider{}, nil)
}

func TestRegisterTypeSiblingCollision(t *testing.T) {
	sys := newTestSystem()

	first, err := sys.RegisterType("T", fixedOps(8), nil)
	require.NoError(t, err)
	require.NotNil(t, first)

	_, err = sys.RegisterType("T", fixedOps(8), nil)
	require.Error(t, err)
	var te *dtserrors.TypeError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, dtserrors.NameConflict, te.Code)

	var names []string
	sys.Range(func(d *TypeDescriptor) bool {
		names = append(names, d.Name())
		return true
	})
	assert.Equal(t, []string{"T"}, names)
}

func TestRegisterTypeUnderParentIsIndependentNamespace(t *testing.T) {
	sys := newTestSystem()
	base, err := sys.RegisterType("Base", fixedOps(8), nil)
	require.NoError(t, err)

	_, err = sys.RegisterType("X", fixedOps(4), nil)
	require.NoError(t, err)
	_, err = sys.RegisterType("X", fixedOps(4), base)
	require.NoError(t, err, "same name under a different parent must not conflict")
}

func TestResolvePathWalk(t *testing.T) {
	sys := newTestSystem()
	a, err := sys.RegisterType("A", fixedOps(1), nil)
	require.NoError(t, err)
	b, err := sys.RegisterType("B", fixedOps(1), a)
	require.NoError(t, err)
	c, err := sys.RegisterType("C", fixedOps(1), b)
	require.NoError(t, err)

	assert.Same(t, c, sys.Resolve("A::B::C"))
	assert.Nil(t, sys.Resolve("A::X::C"))
	assert.Nil(t, sys.Resolve("A::"))
	assert.Nil(t, sys.Resolve(""))
	assert.Same(t, a, sys.Resolve("A"))
}

func TestRefUnrefBalance(t *testing.T) {
	sys := newTestSystem()
	a, err := sys.RegisterType("A", fixedOps(1), nil)
	require.NoError(t, err)
	b, err := sys.RegisterType("B", fixedOps(1), a)
	require.NoError(t, err)
	c, err := sys.RegisterType("C", fixedOps(1), b)
	require.NoError(t, err)

	Ref(c)
	assert.EqualValues(t, 1, a.RefCount())
	assert.EqualValues(t, 1, b.RefCount())
	assert.EqualValues(t, 1, c.RefCount())

	Unref(c)
	assert.Zero(t, a.RefCount())
	assert.Zero(t, b.RefCount())
	assert.Zero(t, c.RefCount())
}

func TestSetParentRejectsCycle(t *testing.T) {
	sys := newTestSystem()
	a, err := sys.RegisterType("A", fixedOps(1), nil)
	require.NoError(t, err)
	b, err := sys.RegisterType("B", fixedOps(1), a)
	require.NoError(t, err)

	defer func() {
		r := recover()
		require.NotNil(t, r)
		_, ok := r.(*dtserrors.InvariantBreach)
		assert.True(t, ok)
	}()
	_ = sys.SetParent(a, b) // a is b's parent; moving a under b is a cycle.
}

func TestSetParentRejectsReferencedDescriptor(t *testing.T) {
	sys := newTestSystem()
	a, err := sys.RegisterType("A", fixedOps(1), nil)
	require.NoError(t, err)
	b, err := sys.RegisterType("B", fixedOps(1), nil)
	require.NoError(t, err)
	Ref(a)

	defer func() {
		r := recover()
		require.NotNil(t, r)
	}()
	_ = sys.SetParent(a, b)
}

func TestSetParentNameCollisionAtDestination(t *testing.T) {
	sys := newTestSystem()
	base, err := sys.RegisterType("Base", fixedOps(1), nil)
	require.NoError(t, err)
	_, err = sys.RegisterType("X", fixedOps(1), base)
	require.NoError(t, err)
	free, err := sys.RegisterType("X", fixedOps(1), nil)
	require.NoError(t, err)

	err = sys.SetParent(free, base)
	require.Error(t, err)
	var te *dtserrors.TypeError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, dtserrors.NameConflict, te.Code)
}

func TestSetParentReparentsSuccessfully(t *testing.T) {
	sys := newTestSystem()
	a, err := sys.RegisterType("A", fixedOps(1), nil)
	require.NoError(t, err)
	b, err := sys.RegisterType("B", fixedOps(1), nil)
	require.NoError(t, err)
	leaf, err := sys.RegisterType("Leaf", fixedOps(1), a)
	require.NoError(t, err)

	require.NoError(t, sys.SetParent(leaf, b))
	assert.Same(t, b, leaf.Parent())
	assert.EqualValues(t, 0, a.InheritCount())
	assert.EqualValues(t, 1, b.InheritCount())
	assert.Same(t, leaf, sys.Find("Leaf", b))
	assert.Nil(t, sys.Find("Leaf", a))
}

func TestDeleteTypeReparentsChildrenToRoot(t *testing.T) {
	sys := newTestSystem()
	base, err := sys.RegisterType("Base", fixedOps(1), nil)
	require.NoError(t, err)
	child, err := sys.RegisterType("Child", fixedOps(1), base)
	require.NoError(t, err)

	sys.DeleteType(base)
	assert.Nil(t, child.Parent())
	assert.Same(t, child, sys.Find("Child", nil))
	assert.Nil(t, sys.Find("Base", nil))
}

func TestDeleteTypeInvokesOnDelete(t *testing.T) {
	sys := newTestSystem()
	d, err := sys.RegisterType("Dyn", fixedOps(1), nil)
	require.NoError(t, err)
	called := false
	sys.SetOnDelete(d, func() { called = true })

	sys.DeleteType(d)
	assert.True(t, called)
}

func TestIsInheritingFromAndIsSameType(t *testing.T) {
	sys := newTestSystem()
	a, err := sys.RegisterType("A", fixedOps(1), nil)
	require.NoError(t, err)
	b, err := sys.RegisterType("B", fixedOps(1), a)
	require.NoError(t, err)

	assert.True(t, IsInheritingFrom(b, a))
	assert.False(t, IsInheritingFrom(a, b))
	assert.False(t, IsInheritingFrom(a, a))
	assert.True(t, IsSameType(a, a))
	assert.False(t, IsSameType(a, b))
}

func TestAbstractTypeFlag(t *testing.T) {
	sys := newTestSystem()
	shape, err := sys.RegisterAbstractType("Shape", fixedOps(1), nil)
	require.NoError(t, err)
	assert.True(t, shape.IsAbstract())

	circle, err := sys.RegisterType("Circle", fixedOps(1), shape)
	require.NoError(t, err)
	assert.False(t, circle.IsAbstract())
}

func TestChainIsRootFirst(t *testing.T) {
	sys := newTestSystem()
	a, err := sys.RegisterType("A", fixedOps(1), nil)
	require.NoError(t, err)
	b, err := sys.RegisterType("B", fixedOps(1), a)
	require.NoError(t, err)
	c, err := sys.RegisterType("C", fixedOps(1), b)
	require.NoError(t, err)

	chain := Chain(c)
	require.Len(t, chain, 3)
	assert.Same(t, a, chain[0])
	assert.Same(t, b, chain[1])
	assert.Same(t, c, chain[2])
}
