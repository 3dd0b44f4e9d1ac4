// Package typeops defines the two dispatch points the type system ever
// calls through: PayloadOps (how a type constructs, copies, destructs, and
// sizes its payload) and PluginInterface (how one registered plugin
// construct/destructs/assigns its block). Both are plain structs of
// function fields rather than interfaces with empty default methods,
// matching the dispatch-by-kind shape used elsewhere in the corpus for this
// exact problem: a small fixed set of operations, selected per type, with
// some left deliberately nil when a type doesn't support them.
package typeops

// ConstructFunc initializes freshly allocated payload memory.
type ConstructFunc func(mem []byte, params any) error

// CopyConstructFunc initializes dst from an already-constructed src of the
// same payload size.
type CopyConstructFunc func(dst, src []byte) error

// DestructFunc tears down payload memory in place. It must not fail; a
// failure here is a fatal invariant breach, not a recoverable error.
type DestructFunc func(mem []byte)

// SizeFunc reports the payload size needed to construct with params.
type SizeFunc func(params any) int

// SizeByInstanceFunc reports the payload size of an already-constructed
// object, given the object's tail (every byte following the header,
// which is at least as long as the payload itself). Types with a fixed
// size ignore the argument; types with a variable size read whatever
// internal marker they wrote during Construct from the front of it.
type SizeByInstanceFunc func(tail []byte) int

// PayloadOps is the capability set a registered type supplies. SizeByInstance
// must report the same size that was used at construction time for a given
// object — the type system asserts this after every Construct.
type PayloadOps struct {
	Construct      ConstructFunc
	CopyConstruct  CopyConstructFunc
	Destruct       DestructFunc
	Size           SizeFunc
	SizeByInstance SizeByInstanceFunc
}

// PluginConstructFunc initializes a freshly allocated plugin block.
type PluginConstructFunc func(mem []byte) error

// PluginDestructFunc tears down a plugin block in place. Must not fail.
type PluginDestructFunc func(mem []byte)

// PluginAssignFunc copies plugin state from src into dst during Clone.
type PluginAssignFunc func(dst, src []byte) error

// PluginInterface is the capability set a registered plugin supplies.
// DeleteOnUnregister, when non-nil, is invoked exactly once when the plugin
// is unregistered, letting a self-allocated plugin interface free itself.
type PluginInterface struct {
	Construct          PluginConstructFunc
	Destruct           PluginDestructFunc
	Assign             PluginAssignFunc
	DeleteOnUnregister func()
}
