package registry

import (
	"sort"
	"strings"

	dtserrors "github.com/eirsys/dts/errors"
	"github.com/eirsys/dts/internal/ancestry"
	"github.com/eirsys/dts/internal/dtslock"
	"github.com/eirsys/dts/internal/dtslog"
	"github.com/eirsys/dts/internal/pluginregistry"
	"github.com/eirsys/dts/internal/typeops"
)

type parentNameKey struct {
	parent *TypeDescriptor
	name   string
}

// System is the process-wide root: §3's TypeSystem entity. It owns the
// global descriptor list, the global lock, and the lock provider every
// descriptor mints its own lock from.
type System struct {
	mu       dtslock.Lock
	lockProv dtslock.Provider
	log      dtslog.Logger

	descriptors  map[ID]*TypeDescriptor
	byParentName map[parentNameKey]*TypeDescriptor
	order        []*TypeDescriptor
	nextID       ID
}

// NewSystem constructs a TypeSystem. It is a value the caller owns, never a
// package-level singleton — two Systems are entirely independent universes
// of descriptors.
func NewSystem(lockProv dtslock.Provider, log dtslog.Logger) *System {
	if lockProv == nil {
		lockProv = dtslock.NoopProvider{}
	}
	if log == nil {
		log = dtslog.Noop
	}
	return &System{
		mu:           lockProv.NewLock(),
		lockProv:     lockProv,
		log:          log,
		descriptors:  make(map[ID]*TypeDescriptor),
		byParentName: make(map[parentNameKey]*TypeDescriptor),
	}
}

func nameOf(d *TypeDescriptor) string {
	if d == nil {
		return "<root>"
	}
	return d.name
}

// RegisterType allocates a descriptor, installs it in the global list under
// parent, and returns it. A sibling name collision under the same parent
// fails with NameConflict and nothing is installed.
func (s *System) RegisterType(name string, ops typeops.PayloadOps, parent *TypeDescriptor) (*TypeDescriptor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := parentNameKey{parent: parent, name: name}
	if _, exists := s.byParentName[key]; exists {
		return nil, dtserrors.New(dtserrors.NameConflict, name).WithPath(pathOf(parent, name))
	}

	d := &TypeDescriptor{
		id:         s.nextID,
		name:       name,
		payloadOps: ops,
		parent:     parent,
		plugins:    pluginregistry.New(),
		lock:       s.lockProv.NewLock(),
	}

	if parent != nil {
		parent.lock.Lock()
		parent.inheritCount++
		parent.lock.Unlock()
	}

	s.nextID++
	s.descriptors[d.id] = d
	s.byParentName[key] = d
	s.order = append(s.order, d)
	s.log.Debugf("registered type %q under %q (id=%d)", name, nameOf(parent), d.id)
	return d, nil
}

// RegisterAbstractType is RegisterType with the abstract flag set.
func (s *System) RegisterAbstractType(name string, ops typeops.PayloadOps, parent *TypeDescriptor) (*TypeDescriptor, error) {
	d, err := s.RegisterType(name, ops, parent)
	if err != nil {
		return nil, err
	}
	d.isAbstract = true
	return d, nil
}

func pathOf(parent *TypeDescriptor, name string) string {
	if parent == nil {
		return name
	}
	chain := Chain(parent)
	var b strings.Builder
	for _, t := range chain {
		b.WriteString(t.name)
		b.WriteString("::")
	}
	b.WriteString(name)
	return b.String()
}

// Find scans the registry for a descriptor named name whose parent equals
// base (nil meaning the forest root).
func (s *System) Find(name string, base *TypeDescriptor) *TypeDescriptor {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.byParentName[parentNameKey{parent: base, name: name}]
}

// Resolve splits path on the literal delimiter "::" and walks Find token by
// token from the forest root. An empty path, a path containing an empty
// token (including one ending in "::"), or any miss along the way resolves
// to nil.
func (s *System) Resolve(path string) *TypeDescriptor {
	if path == "" {
		return nil
	}
	var cur *TypeDescriptor
	for _, tok := range strings.Split(path, "::") {
		if tok == "" {
			return nil
		}
		next := s.Find(tok, cur)
		if next == nil {
			return nil
		}
		cur = next
	}
	return cur
}

// orderedLocks returns the distinct, non-nil locks among ds, ordered
// root-first (shallowest depth first, breaking ties by registration id),
// satisfying the §5 lock hierarchy for any multi-descriptor operation.
func orderedLocks(ds ...*TypeDescriptor) []dtslock.Lock {
	seen := make(map[*TypeDescriptor]bool, len(ds))
	uniq := make([]*TypeDescriptor, 0, len(ds))
	for _, d := range ds {
		if d == nil || seen[d] {
			continue
		}
		seen[d] = true
		uniq = append(uniq, d)
	}
	sort.Slice(uniq, func(i, j int) bool {
		di, dj := depth(uniq[i]), depth(uniq[j])
		if di != dj {
			return di < dj
		}
		return uniq[i].id < uniq[j].id
	})
	locks := make([]dtslock.Lock, len(uniq))
	for i, d := range uniq {
		locks[i] = d.lock
	}
	return locks
}

// SetParent re-parents sub to newParent. sub must currently be unreferenced;
// the new position must not collide with an existing sibling name and must
// not create a cycle. A name collision returns a NameConflict error; a
// referenced sub or a cycle is a fatal invariant breach and panics, per the
// error handling design (a correct caller checks RefCount/IsInheritingFrom
// itself before attempting a re-parenting that could fail this way).
func (s *System) SetParent(sub, newParent *TypeDescriptor) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sub.RefCount() != 0 {
		dtserrors.PanicInvariantf("set_parent: %q is referenced", sub.name)
	}

	if newParent != nil {
		key := parentNameKey{parent: newParent, name: sub.name}
		if existing, ok := s.byParentName[key]; ok && existing != sub {
			return dtserrors.New(dtserrors.NameConflict, sub.name).WithPath(pathOf(newParent, sub.name))
		}
	}

	locks := orderedLocks(sub, sub.parent, newParent)
	for _, l := range locks {
		l.Lock()
	}
	defer func() {
		for i := len(locks) - 1; i >= 0; i-- {
			locks[i].Unlock()
		}
	}()

	if newParent != nil && (newParent == sub || ancestry.IsAncestor(newParent, sub, parentWalker)) {
		dtserrors.PanicInvariantf("set_parent: %q would create a cycle under %q", sub.name, newParent.name)
	}

	oldParent := sub.parent
	delete(s.byParentName, parentNameKey{parent: oldParent, name: sub.name})
	if oldParent != nil {
		oldParent.inheritCount--
	}
	sub.parent = newParent
	if newParent != nil {
		newParent.inheritCount++
	}
	s.byParentName[parentNameKey{parent: newParent, name: sub.name}] = sub
	s.log.Debugf("re-parented %q under %q", sub.name, nameOf(newParent))
	return nil
}

func parentWalker(t *TypeDescriptor) (*TypeDescriptor, bool) {
	if t == nil || t.parent == nil {
		return nil, false
	}
	return t.parent, true
}

// DeleteType detaches descriptor from the registry: its children are
// re-parented to the forest root, its lock is closed, and its onDelete hook
// (if any, from register_dynamic_struct_type's owns_meta) runs last. The
// caller must guarantee no live instance references it.
func (s *System) DeleteType(d *TypeDescriptor) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var children []*TypeDescriptor
	for _, other := range s.order {
		if other != d && other.parent == d {
			children = append(children, other)
		}
	}

	affected := append([]*TypeDescriptor{d, d.parent}, children...)
	locks := orderedLocks(affected...)
	for _, l := range locks {
		l.Lock()
	}

	for _, other := range children {
		delete(s.byParentName, parentNameKey{parent: d, name: other.name})
		rootKey := parentNameKey{parent: nil, name: other.name}
		if existing, ok := s.byParentName[rootKey]; ok && existing != other {
			s.log.Warnf("delete type %q: re-parented child %q collides with existing root type of the same name, dropping from name index", d.name, other.name)
			other.parent = nil
			continue
		}
		other.parent = nil
		s.byParentName[rootKey] = other
	}
	if d.parent != nil {
		d.parent.inheritCount--
	}
	for _, l := range locks {
		l.Unlock()
	}

	delete(s.byParentName, parentNameKey{parent: d.parent, name: d.name})
	delete(s.descriptors, d.id)
	for i, dd := range s.order {
		if dd == d {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	s.log.Debugf("deleted type %q", d.name)
	d.lock.Close()
	if d.onDelete != nil {
		d.onDelete()
	}
}

// SetOnDelete installs the cleanup hook DeleteType invokes after unlinking
// d, backing register_dynamic_struct_type's owns_meta teardown.
func (s *System) SetOnDelete(d *TypeDescriptor, fn func()) {
	d.onDelete = fn
}

// RegisterPlugin registers a plugin on d. d must be unreferenced.
func (s *System) RegisterPlugin(d *TypeDescriptor, key uint32, size int, iface typeops.PluginInterface) pluginregistry.Offset {
	d.lock.Lock()
	defer d.lock.Unlock()
	if d.refCount > 0 {
		dtserrors.PanicInvariantf("register_plugin: %q is referenced", d.name)
	}
	return d.plugins.RegisterPlugin(key, size, iface)
}

// UnregisterPlugin revokes a plugin on d. d must be unreferenced.
func (s *System) UnregisterPlugin(d *TypeDescriptor, tok pluginregistry.Offset) bool {
	d.lock.Lock()
	defer d.lock.Unlock()
	if d.refCount > 0 {
		dtserrors.PanicInvariantf("unregister_plugin: %q is referenced", d.name)
	}
	return d.plugins.UnregisterPlugin(tok)
}

// Ref increments d's ref_count and then recurses into its parent — the
// reference-transitivity invariant (every ancestor in the chain is touched,
// not only the leaf).
func Ref(d *TypeDescriptor) {
	if d == nil {
		return
	}
	d.lock.Lock()
	d.refCount++
	d.lock.Unlock()
	Ref(d.parent)
}

// Unref recurses into d's parent first, then decrements d's ref_count — the
// exact symmetric reverse of Ref.
func Unref(d *TypeDescriptor) {
	if d == nil {
		return
	}
	Unref(d.parent)
	d.lock.Lock()
	d.refCount--
	d.lock.Unlock()
}
