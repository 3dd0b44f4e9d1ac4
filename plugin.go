package dts

import (
	"unsafe"

	"github.com/eirsys/dts/internal/pluginregistry"
	"github.com/eirsys/dts/internal/typeops"
)

// AnonymousPluginID is the reserved plugin key meaning "do not index this
// plugin for keyed lookup" — hold onto the returned PluginOffset instead.
const AnonymousPluginID = pluginregistry.AnonymousKey

// InvalidPluginOffset is the token that resolves to no plugin:
// ResolvePluginOffset reports false for it. RegisterPlugin never returns it.
const InvalidPluginOffset = pluginregistry.InvalidOffset

// PluginOffset is the opaque token a plugin registration returns and later
// resolves, against a constructed object, to a concrete byte offset.
type PluginOffset = pluginregistry.Offset

// RegisterPlugin reserves size bytes of plugin block on t and returns the
// token used to resolve its offset later. t must currently be unreferenced
// (no live instance of t or any of its descendants may exist).
func (s *System) RegisterPlugin(t *Type, key uint32, size int, iface typeops.PluginInterface) PluginOffset {
	return s.reg.RegisterPlugin(t, key, size, iface)
}

// RegisterStructPlugin registers a plugin on t whose block holds a plain Go
// value S, zero-constructed and shallow-copied byte for byte.
func RegisterStructPlugin[S any](s *System, t *Type, key uint32) PluginOffset {
	var zero S
	return s.RegisterPlugin(t, key, int(unsafe.Sizeof(zero)), typeops.StructPlugin[S]())
}

// RegisterCustomPlugin registers a plugin on t whose block holds a pointer
// to a heap-allocated I minted by newFunc, giving that state its own
// Construct/Destruct/Assign methods instead of RegisterStructPlugin's flat
// byte-copy semantics — the convenience path for a plugin whose state isn't
// a plain copyable struct.
func RegisterCustomPlugin[I typeops.CustomPluginOps](s *System, t *Type, key uint32, newFunc func() I) PluginOffset {
	return s.RegisterPlugin(t, key, typeops.CustomPluginSize(), typeops.CustomPlugin(newFunc))
}

// UnregisterPlugin revokes a previously registered plugin. t must currently
// be unreferenced.
func (s *System) UnregisterPlugin(t *Type, tok PluginOffset) bool {
	return s.reg.UnregisterPlugin(t, tok)
}
