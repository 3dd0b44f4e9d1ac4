// Package pluginregistry is the default implementer of the plugin registry
// contract (§6 of the design): the per-descriptor "structRegistry" the type
// system treats everywhere else as an opaque black box. A TypeDescriptor
// may be handed any type satisfying the same method set; this is simply the
// one DTS ships so the library is usable without a caller writing their own.
package pluginregistry

import "github.com/eirsys/dts/internal/typeops"

// AnonymousKey is the reserved key meaning "do not index this plugin for
// keyed lookup" — the caller will hold onto the returned Offset instead.
const AnonymousKey uint32 = 0xFFFFFFFF

// Offset is the opaque token returned at registration and later resolved
// against an object to a concrete byte offset.
type Offset int

// InvalidOffset is the token that resolves to no plugin. LookupKey returns
// it for an unknown key; RegisterPlugin never fails and never returns it.
const InvalidOffset Offset = -1

type entry struct {
	key     uint32
	size    int
	iface   typeops.PluginInterface
	removed bool
}

// Registry is an ordered list of plugin records plus a key index. It keeps
// no lock of its own: every method is called already under the owning
// descriptor's lock (§5's concurrency model), never independently.
type Registry struct {
	entries []entry
	byKey   map[uint32]int
}

// New returns an empty plugin registry.
func New() *Registry {
	return &Registry{byKey: make(map[uint32]int)}
}

// RegisterPlugin reserves size bytes for a new plugin and returns its
// offset token. A non-anonymous key becomes available to later keyed
// lookups via the byKey index.
func (r *Registry) RegisterPlugin(key uint32, size int, iface typeops.PluginInterface) Offset {
	idx := len(r.entries)
	r.entries = append(r.entries, entry{key: key, size: size, iface: iface})
	if key != AnonymousKey {
		r.byKey[key] = idx
	}
	return Offset(idx)
}

// LookupKey resolves a previously registered non-anonymous key to its
// offset token.
func (r *Registry) LookupKey(key uint32) (Offset, bool) {
	idx, ok := r.byKey[key]
	if !ok || r.entries[idx].removed {
		return InvalidOffset, false
	}
	return Offset(idx), true
}

// UnregisterPlugin revokes a plugin, invoking its DeleteOnUnregister hook
// if one was supplied. Returns false for an already-removed or out-of-range
// token.
func (r *Registry) UnregisterPlugin(tok Offset) bool {
	idx := int(tok)
	if idx < 0 || idx >= len(r.entries) || r.entries[idx].removed {
		return false
	}
	e := &r.entries[idx]
	if e.iface.DeleteOnUnregister != nil {
		e.iface.DeleteOnUnregister()
	}
	e.removed = true
	delete(r.byKey, e.key)
	return true
}

// SizeFixed is the total plugin-block size for any instance: the sum of
// every live plugin's reserved size. DTS assumes plugin size is a function
// of type only, never of a specific object.
func (r *Registry) SizeFixed() int {
	total := 0
	for _, e := range r.entries {
		if !e.removed {
			total += e.size
		}
	}
	return total
}

// SizeForObject is identical to SizeFixed: DTS opts out of conditional
// plugin presence even though this registry shape could in principle
// support it.
func (r *Registry) SizeForObject([]byte) int {
	return r.SizeFixed()
}

// ResolveOffset returns the intra-block byte offset of tok, computed by
// summing the sizes of every live plugin registered before it.
func (r *Registry) ResolveOffset(tok Offset) (int, bool) {
	idx := int(tok)
	if idx < 0 || idx >= len(r.entries) || r.entries[idx].removed {
		return 0, false
	}
	offset := 0
	for i := 0; i < idx; i++ {
		if !r.entries[i].removed {
			offset += r.entries[i].size
		}
	}
	return offset, true
}

type liveEntry struct {
	offset int
	size   int
	iface  typeops.PluginInterface
}

func (r *Registry) live() []liveEntry {
	out := make([]liveEntry, 0, len(r.entries))
	offset := 0
	for _, e := range r.entries {
		if e.removed {
			continue
		}
		out = append(out, liveEntry{offset: offset, size: e.size, iface: e.iface})
		offset += e.size
	}
	return out
}

// ConstructBlock constructs every live plugin in registration order into
// block, which must be exactly SizeFixed() bytes. On the first failure it
// destructs everything constructed so far, in reverse, before returning the
// error — the registry unwinds within itself, per the contract.
func (r *Registry) ConstructBlock(block []byte) error {
	live := r.live()
	for i, le := range live {
		mem := block[le.offset : le.offset+le.size]
		if le.iface.Construct == nil {
			continue
		}
		if err := le.iface.Construct(mem); err != nil {
			for j := i - 1; j >= 0; j-- {
				back := live[j]
				if back.iface.Destruct != nil {
					back.iface.Destruct(block[back.offset : back.offset+back.size])
				}
			}
			return err
		}
	}
	return nil
}

// DestroyBlock destructs every live plugin in reverse registration order.
func (r *Registry) DestroyBlock(block []byte) {
	live := r.live()
	for i := len(live) - 1; i >= 0; i-- {
		le := live[i]
		if le.iface.Destruct != nil {
			le.iface.Destruct(block[le.offset : le.offset+le.size])
		}
	}
}

// AssignBlock copies plugin state from src to dst for every live plugin
// that supplies an Assign function, in registration order.
func (r *Registry) AssignBlock(dst, src []byte) error {
	for _, le := range r.live() {
		if le.iface.Assign == nil {
			continue
		}
		if err := le.iface.Assign(dst[le.offset:le.offset+le.size], src[le.offset:le.offset+le.size]); err != nil {
			return err
		}
	}
	return nil
}
